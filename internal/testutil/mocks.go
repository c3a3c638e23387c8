// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/omriShneor/schedbot/internal/calendar"
)

var _ calendar.Backend = (*MockBackend)(nil)

// MockBackend is an in-memory calendar backend for tests.
type MockBackend struct {
	mu     sync.Mutex
	nextID int
	events map[string]calendar.Event

	// Set these to force failures.
	FailList   bool
	FailFind   bool
	FailCreate bool
	FailDelete bool
}

func NewMockBackend() *MockBackend {
	return &MockBackend{events: make(map[string]calendar.Event)}
}

// Seed adds an event directly and returns its ID.
func (m *MockBackend) Seed(title string, start, end time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("evt-%d", m.nextID)
	m.events[id] = calendar.Event{
		ID:        id,
		Title:     title,
		StartTime: start,
		EndTime:   end,
	}
	return id
}

// Events returns all stored events ordered by start time.
func (m *MockBackend) Events() []calendar.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked(func(calendar.Event) bool { return true })
}

func (m *MockBackend) ListEvents(_ context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailList {
		return nil, fmt.Errorf("mock list failure")
	}
	return m.sortedLocked(func(ev calendar.Event) bool {
		return ev.StartTime.Before(timeMax) && ev.EndTime.After(timeMin)
	}), nil
}

func (m *MockBackend) FindEventsByTitle(_ context.Context, query string, from time.Time, max int) ([]calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailFind {
		return nil, fmt.Errorf("mock find failure")
	}
	matches := m.sortedLocked(func(ev calendar.Event) bool {
		return calendar.TitleMatches(ev.Title, query) && ev.EndTime.After(from)
	})
	if max > 0 && len(matches) > max {
		matches = matches[:max]
	}
	return matches, nil
}

func (m *MockBackend) CreateEvent(_ context.Context, input calendar.EventInput) (calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreate {
		return calendar.Event{}, fmt.Errorf("mock create failure")
	}

	m.nextID++
	ev := calendar.Event{
		ID:          fmt.Sprintf("evt-%d", m.nextID),
		Title:       input.Title,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}
	m.events[ev.ID] = ev
	return ev, nil
}

func (m *MockBackend) DeleteEvent(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailDelete {
		return fmt.Errorf("mock delete failure")
	}
	if _, ok := m.events[eventID]; !ok {
		return calendar.ErrEventNotFound
	}
	delete(m.events, eventID)
	return nil
}

func (m *MockBackend) sortedLocked(keep func(calendar.Event) bool) []calendar.Event {
	var out []calendar.Event
	for _, ev := range m.events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
