// Package calendar defines the backend contract the assistant schedules
// against. Two implementations exist: gcal (Google Calendar) and localcal
// (sqlite, used by dev mode and the test server).
package calendar

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrEventNotFound = errors.New("calendar event not found")

// IsEventNotFound returns true when a calendar event no longer exists.
func IsEventNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}

// Event represents a single calendar event as stored by the backend.
type Event struct {
	ID          string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
}

// EventInput represents the input for creating a calendar event.
type EventInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
}

// Backend is the remote calendar service contract.
type Backend interface {
	// ListEvents returns events overlapping [timeMin, timeMax), ordered by
	// start time.
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error)

	// FindEventsByTitle returns upcoming events (from onwards) whose title
	// matches query case-insensitively, ordered by start time, capped at max.
	FindEventsByTitle(ctx context.Context, query string, from time.Time, max int) ([]Event, error)

	// CreateEvent inserts a new event and returns it with its assigned ID.
	CreateEvent(ctx context.Context, input EventInput) (Event, error)

	// DeleteEvent removes an event by ID. Deleting a missing event returns
	// ErrEventNotFound.
	DeleteEvent(ctx context.Context, eventID string) error
}

// TitleMatches reports whether an event title equals the query after
// trimming and case folding. Reschedule and delete lookups rely on it.
func TitleMatches(title, query string) bool {
	return strings.EqualFold(strings.TrimSpace(title), strings.TrimSpace(query))
}
