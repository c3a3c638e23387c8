package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/schedbot/internal/assistant"
	"github.com/omriShneor/schedbot/internal/availability"
	"github.com/omriShneor/schedbot/internal/calendar"
	"github.com/omriShneor/schedbot/internal/config"
	"github.com/omriShneor/schedbot/internal/gcal"
	"github.com/omriShneor/schedbot/internal/localcal"
	"github.com/omriShneor/schedbot/internal/logger"
	"github.com/omriShneor/schedbot/internal/server"
	"github.com/omriShneor/schedbot/internal/temporal"
	"github.com/omriShneor/schedbot/internal/timeutil"
)

func main() {
	cfg := config.LoadFromEnv()

	logger.Init(cfg.DevMode)
	defer logger.Sync()

	loc, ok := timeutil.ResolveLocation(cfg.Timezone)
	if !ok {
		logger.L().Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone))
	}

	backend, cleanup, err := initBackend(cfg, loc)
	if err != nil {
		fatal("creating calendar backend", err)
	}
	defer cleanup()

	ext := temporal.NewExtractor(temporal.NewWhenParser(), loc)
	calc := availability.NewCalculator(cfg.WorkdayStartHour, cfg.WorkdayEndHour, cfg.SlotMinutes)
	actions := assistant.NewActions(backend, calc, ext, logger.L())
	router := assistant.NewRouter(ext, actions, logger.L())

	sessions := assistant.NewManager(time.Duration(cfg.SessionIdleMinutes) * time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartSweeper(ctx, time.Minute)

	srv := server.New(server.Config{
		Backend:  backend,
		Router:   router,
		Sessions: sessions,
		Location: loc,
		Port:     cfg.HTTPPort,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.L().Error("HTTP server error", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cancel)
}

func initBackend(cfg *config.Config, loc *time.Location) (calendar.Backend, func(), error) {
	if cfg.DevMode {
		store, err := localcal.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.L().Info("using local calendar store", zap.String("path", cfg.DBPath))
		return store, func() { _ = store.Close() }, nil
	}

	client, err := gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, cfg.CalendarID, loc)
	if err != nil {
		return nil, nil, err
	}
	if !client.IsAuthenticated() {
		logger.L().Warn("Google Calendar not authenticated, visit the auth URL",
			zap.String("auth_url", client.GetAuthURL()))
	}
	return client, func() {}, nil
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(srv *server.Server, cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.L().Info("shutting down")

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Warn("shutdown error", zap.Error(err))
	}
}
