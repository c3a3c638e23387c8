package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/omriShneor/schedbot/internal/temporal"
)

// Flow is the in-flight multi-turn state of a session. Each variant
// carries exactly the data valid in that state, so "awaiting a title but
// already has a date" cannot be represented. A nil Flow means idle.
type Flow interface {
	flowState()
}

// AwaitingRescheduleTitle waits for the name of the event to move.
type AwaitingRescheduleTitle struct{}

// AwaitingRescheduleDateTime waits for the new date/time for Title.
type AwaitingRescheduleDateTime struct {
	Title string
}

// AwaitingDeleteTitle waits for the name of the event to delete.
type AwaitingDeleteTitle struct{}

// AwaitingDeleteDateTime waits for the date of the event named Title.
type AwaitingDeleteDateTime struct {
	Title string
}

// AwaitingBookingDate waits for a date for a new booking.
type AwaitingBookingDate struct{}

// AwaitingBookingTime waits for a time of day on Date.
type AwaitingBookingTime struct {
	Date time.Time
	// Window biases the time prompt when the user mentioned a vague
	// time of day; it never substitutes for an explicit time.
	Window *temporal.Window
}

// AwaitingBookingTitle waits for a title; Start is fully resolved.
type AwaitingBookingTitle struct {
	Start time.Time
}

func (AwaitingRescheduleTitle) flowState()    {}
func (AwaitingRescheduleDateTime) flowState() {}
func (AwaitingDeleteTitle) flowState()        {}
func (AwaitingDeleteDateTime) flowState()     {}
func (AwaitingBookingDate) flowState()        {}
func (AwaitingBookingTime) flowState()        {}
func (AwaitingBookingTitle) flowState()       {}

// Session holds one conversation's dialogue state. The router processes
// one utterance at a time to completion under the session mutex, so flows
// never interleave within a session.
type Session struct {
	mu       sync.Mutex
	id       string
	flow     Flow
	lastDate time.Time // zero when no date has been mentioned yet
	lastSeen time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns the current flow and last-mentioned date, for tests
// and diagnostics.
func (s *Session) Snapshot() (Flow, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow, s.lastDate
}

// Manager owns per-session state keyed by session ID. Sessions expire
// after an idle timeout; a multi-user deployment never shares one
// dialogue state.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
}

func NewManager(idleTimeout time.Duration) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Get returns the session for id, creating it on first use.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := &Session{id: id, lastSeen: m.now()}
	m.sessions[id] = s
	return s
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the timeout and returns how
// many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTimeout)
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on an interval in a background goroutine until
// ctx is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}
