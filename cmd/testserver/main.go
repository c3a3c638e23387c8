// Package main provides a test server for E2E testing the chat flow.
// It runs with an in-memory SQLite calendar so no Google account is
// required.
//
// Usage:
//
//	go run cmd/testserver/main.go
//
// The server exposes additional test control endpoints:
//   - POST /api/test/reset        - Remove all calendar events
//   - POST /api/test/inject-event - Insert an event directly
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omriShneor/schedbot/internal/assistant"
	"github.com/omriShneor/schedbot/internal/availability"
	"github.com/omriShneor/schedbot/internal/calendar"
	"github.com/omriShneor/schedbot/internal/config"
	"github.com/omriShneor/schedbot/internal/localcal"
	"github.com/omriShneor/schedbot/internal/logger"
	"github.com/omriShneor/schedbot/internal/server"
	"github.com/omriShneor/schedbot/internal/temporal"
	"github.com/omriShneor/schedbot/internal/timeutil"
)

func main() {
	fmt.Println("Starting Schedbot Test Server...")
	fmt.Println("This server uses an in-memory SQLite calendar for E2E testing.")

	cfg := config.LoadFromEnv()
	logger.Init(true)
	defer logger.Sync()

	loc, ok := timeutil.ResolveLocation(cfg.Timezone)
	if !ok {
		fmt.Printf("Warning: unknown timezone %q, using UTC\n", cfg.Timezone)
	}

	store, err := localcal.New(":memory:")
	if err != nil {
		fmt.Printf("Failed to create calendar store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Println("In-memory calendar store initialized")

	ext := temporal.NewExtractor(temporal.NewWhenParser(), loc)
	calc := availability.NewCalculator(cfg.WorkdayStartHour, cfg.WorkdayEndHour, cfg.SlotMinutes)
	actions := assistant.NewActions(store, calc, ext, logger.L())
	router := assistant.NewRouter(ext, actions, logger.L())
	sessions := assistant.NewManager(time.Duration(cfg.SessionIdleMinutes) * time.Minute)

	srv := server.New(server.Config{
		Backend:  store,
		Router:   router,
		Sessions: sessions,
		Location: loc,
		Port:     cfg.HTTPPort,
	})

	// Wrap the server handler with test endpoints
	mainHandler := srv.Handler()
	testMux := http.NewServeMux()

	testMux.HandleFunc("/api/test/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		fmt.Println("Resetting test calendar...")
		if err := store.Reset(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("Failed to reset calendar: %v", err), http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	})

	testMux.HandleFunc("/api/test/inject-event", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Title     string    `json:"title"`
			StartTime time.Time `json:"start_time"`
			EndTime   time.Time `json:"end_time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Title == "" || req.StartTime.IsZero() {
			http.Error(w, "title and start_time are required", http.StatusBadRequest)
			return
		}
		if req.EndTime.IsZero() {
			req.EndTime = req.StartTime.Add(calc.SlotDuration())
		}

		ev, err := store.CreateEvent(r.Context(), calendar.EventInput{
			Title:     req.Title,
			StartTime: req.StartTime.In(loc),
			EndTime:   req.EndTime.In(loc),
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to create event: %v", err), http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusCreated, ev)
	})

	// Fallback to main handler
	testMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mainHandler.ServeHTTP(w, r)
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      testMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		fmt.Printf("\nTest Server running on http://localhost:%d\n", cfg.HTTPPort)
		fmt.Println("\nTest endpoints:")
		fmt.Println("  POST /api/test/reset        - Remove all calendar events")
		fmt.Println("  POST /api/test/inject-event - Insert an event directly")
		fmt.Println("\nPress Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down test server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}

	fmt.Println("Test server stopped")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
