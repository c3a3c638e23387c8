// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/schedbot/internal/assistant"
	"github.com/omriShneor/schedbot/internal/calendar"
	"github.com/omriShneor/schedbot/internal/gcal"
	"github.com/omriShneor/schedbot/internal/logger"
)

type Server struct {
	backend  calendar.Backend
	router   *assistant.Router
	sessions *assistant.Manager
	loc      *time.Location
	httpSrv  *http.Server
	port     int
}

type Config struct {
	Backend  calendar.Backend
	Router   *assistant.Router
	Sessions *assistant.Manager
	Location *time.Location
	Port     int
}

func New(cfg Config) *Server {
	s := &Server{
		backend:  cfg.Backend,
		router:   cfg.Router,
		sessions: cfg.Sessions,
		loc:      cfg.Location,
		port:     cfg.Port,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", s.handleHealthCheck)

	// Chat API
	mux.HandleFunc("POST /api/chat", s.handleChat)

	// Events API
	mux.HandleFunc("GET /api/events/today", s.handleListTodayEvents)

	// Google Calendar auth endpoints are only meaningful when the backend
	// is the real Google client.
	if _, ok := s.backend.(*gcal.Client); ok {
		mux.HandleFunc("GET /api/gcal/status", s.handleGCalStatus)
		mux.HandleFunc("POST /api/gcal/connect", s.handleGCalConnect)
		mux.HandleFunc("POST /api/gcal/callback", s.handleGCalExchangeCode)
	}
}

func (s *Server) Start() error {
	logger.L().Info("starting HTTP server", zap.Int("port", s.port))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// corsMiddleware adds CORS headers so browser clients can call the API
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
