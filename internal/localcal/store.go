// Package localcal is a sqlite-backed calendar backend used by dev mode
// and the test server, where no Google account is wired up.
package localcal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/omriShneor/schedbot/internal/calendar"
)

var _ calendar.Backend = (*Store)(nil)

// Store holds calendar events in a local sqlite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS calendar_events (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_time  TIMESTAMP NOT NULL,
	end_time    TIMESTAMP NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_calendar_events_start ON calendar_events(start_time);
`

// New opens (or creates) the store at dbPath. Use ":memory:" for an
// ephemeral store.
func New(dbPath string) (*Store, error) {
	// Busy timeout waits instead of failing on concurrent access.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Reset removes every event. The test server uses it between scenarios.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events`); err != nil {
		return fmt.Errorf("failed to reset events: %w", err)
	}
	return nil
}

// ListEvents returns events overlapping [timeMin, timeMax), ordered by start time.
func (s *Store) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time
		FROM calendar_events
		WHERE start_time < ? AND end_time > ?
		ORDER BY start_time
	`, timeMax, timeMin)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// FindEventsByTitle returns upcoming events whose title matches query
// case-insensitively, ordered by start time.
func (s *Store) FindEventsByTitle(ctx context.Context, query string, from time.Time, max int) ([]calendar.Event, error) {
	if max <= 0 {
		max = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time
		FROM calendar_events
		WHERE lower(trim(title)) = lower(trim(?)) AND end_time > ?
		ORDER BY start_time
		LIMIT ?
	`, query, from, max)
	if err != nil {
		return nil, fmt.Errorf("failed to search events by title: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CreateEvent inserts a new event and returns it with its assigned ID.
func (s *Store) CreateEvent(ctx context.Context, input calendar.EventInput) (calendar.Event, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_events (id, title, description, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)
	`, id, input.Title, input.Description, input.StartTime, input.EndTime)
	if err != nil {
		return calendar.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	return calendar.Event{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}, nil
}

// DeleteEvent removes an event by ID.
func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return calendar.ErrEventNotFound
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]calendar.Event, error) {
	var events []calendar.Event
	for rows.Next() {
		var ev calendar.Event
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.StartTime, &ev.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}
