package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/schedbot/internal/gcal"
	"github.com/omriShneor/schedbot/internal/logger"
	"github.com/omriShneor/schedbot/internal/timeutil"
)

// Health Check

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "healthy",
		"sessions": s.sessions.Len(),
	}

	if client, ok := s.backend.(*gcal.Client); ok {
		status["gcal"] = "disconnected"
		if client.IsAuthenticated() {
			status["gcal"] = "connected"
		}
	}

	respondJSON(w, http.StatusOK, status)
}

// Chat API

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	session := s.sessions.Get(req.SessionID)
	reply := s.router.HandleUtterance(r.Context(), session, req.Message)

	respondJSON(w, http.StatusOK, chatResponse{
		SessionID: req.SessionID,
		Reply:     reply,
	})
}

// Events API

type eventResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (s *Server) handleListTodayEvents(w http.ResponseWriter, r *http.Request) {
	today := timeutil.Midnight(time.Now().In(s.loc), s.loc)
	dayStart, dayEnd := timeutil.DayBounds(today, s.loc)

	events, err := s.backend.ListEvents(r.Context(), dayStart, dayEnd)
	if err != nil {
		logger.L().Error("failed to list today's events", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		resp := eventResponse{
			ID:        ev.ID,
			Title:     ev.Title,
			StartTime: timeutil.FormatClock(ev.StartTime.In(s.loc)),
			EndTime:   timeutil.FormatClock(ev.EndTime.In(s.loc)),
		}
		if ev.AllDay {
			resp.StartTime = "All Day"
			resp.EndTime = "All Day"
		}
		out = append(out, resp)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":   timeutil.FormatDate(today),
		"events": out,
	})
}

// Google Calendar API

func (s *Server) handleGCalStatus(w http.ResponseWriter, r *http.Request) {
	client := s.backend.(*gcal.Client)

	status := map[string]interface{}{
		"connected": client.IsAuthenticated(),
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleGCalConnect(w http.ResponseWriter, r *http.Request) {
	client := s.backend.(*gcal.Client)

	if client.IsAuthenticated() {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"connected": true,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"connected": false,
		"auth_url":  client.GetAuthURL(),
	})
}

func (s *Server) handleGCalExchangeCode(w http.ResponseWriter, r *http.Request) {
	client := s.backend.(*gcal.Client)

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := client.ExchangeCode(r.Context(), req.Code); err != nil {
		logger.L().Error("OAuth code exchange failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to exchange code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"connected": true,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Warn("failed to encode JSON response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
