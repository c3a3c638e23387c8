package assistant

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/schedbot/internal/availability"
	"github.com/omriShneor/schedbot/internal/calendar"
	"github.com/omriShneor/schedbot/internal/temporal"
	"github.com/omriShneor/schedbot/internal/timeutil"
)

const (
	defaultBookingDescription = "Booked via Schedbot"

	// Cap on title-search results when locating an event to reschedule.
	titleSearchLimit = 10
)

// Actions performs the calendar mutations behind the dialogue. Every
// method returns the user-facing reply plus the typed error that
// produced it (nil on success); the router logs the error and always
// sends the reply.
type Actions struct {
	backend calendar.Backend
	calc    *availability.Calculator
	ext     *temporal.Extractor
	log     *zap.Logger
	now     func() time.Time
}

func NewActions(backend calendar.Backend, calc *availability.Calculator, ext *temporal.Extractor, log *zap.Logger) *Actions {
	return &Actions{
		backend: backend,
		calc:    calc,
		ext:     ext,
		log:     log,
		now:     time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (a *Actions) SetNow(now func() time.Time) {
	a.now = now
}

// Book creates a slot-length event at start.
func (a *Actions) Book(ctx context.Context, start time.Time, title, description string) (string, error) {
	if title == "" {
		title = "Meeting"
	}
	if description == "" {
		description = defaultBookingDescription
	}
	end := start.Add(a.calc.SlotDuration())

	created, err := a.backend.CreateEvent(ctx, calendar.EventInput{
		Title:       title,
		Description: description,
		StartTime:   start,
		EndTime:     end,
	})
	if err != nil {
		return fmt.Sprintf("❌ Failed to book **%s**: the calendar service rejected the request.", title),
			fmt.Errorf("%w: create event: %v", ErrBackend, err)
	}

	a.log.Info("event booked",
		zap.String("event_id", created.ID),
		zap.String("title", title),
		zap.Time("start", start))

	return fmt.Sprintf("✅ Booking confirmed: **%s** from %s %s to %s",
		title, timeutil.FormatDate(start), timeutil.FormatClock(start), timeutil.FormatClock(end)), nil
}

// Reschedule moves the chronologically earliest event matching title to
// newStart. The net effect is delete-then-recreate, not an atomic update:
// a failure after the delete leaves the calendar without the event and is
// reported, never rolled back.
func (a *Actions) Reschedule(ctx context.Context, title string, newStart time.Time) (string, error) {
	events, err := a.backend.FindEventsByTitle(ctx, title, a.now(), titleSearchLimit)
	if err != nil {
		return fmt.Sprintf("❌ Failed to reschedule **%s**: could not reach the calendar service.", title),
			fmt.Errorf("%w: find events: %v", ErrBackend, err)
	}

	deleted := false
	if len(events) == 0 {
		// Best effort: a missing original is logged, not fatal.
		a.log.Warn("no event found to reschedule", zap.String("title", title))
	} else {
		// Results are ordered by start time; the earliest match moves.
		target := events[0]
		if err := a.backend.DeleteEvent(ctx, target.ID); err != nil && !calendar.IsEventNotFound(err) {
			return fmt.Sprintf("❌ Failed to reschedule **%s**: could not remove the existing event.", title),
				fmt.Errorf("%w: delete event %s: %v", ErrBackend, target.ID, err)
		}
		deleted = true
	}

	end := newStart.Add(a.calc.SlotDuration())
	description := fmt.Sprintf("Rescheduled via Schedbot on %s", timeutil.FormatDate(a.now()))
	_, err = a.backend.CreateEvent(ctx, calendar.EventInput{
		Title:       title,
		Description: description,
		StartTime:   newStart,
		EndTime:     end,
	})
	if err != nil {
		msg := fmt.Sprintf("❌ Failed to reschedule **%s**: could not create the new event.", title)
		if deleted {
			msg = fmt.Sprintf("⚠️ I removed the old **%s** but could not create the new one — please re-book it.", title)
		}
		return msg, fmt.Errorf("%w: recreate event: %v", ErrBackend, err)
	}

	a.log.Info("event rescheduled",
		zap.String("title", title),
		zap.Time("new_start", newStart),
		zap.Bool("previous_deleted", deleted))

	return fmt.Sprintf("🔁 Meeting rescheduled:\n\n**%s**\n🗓️ New Date: %s\n⏰ Time: %s to %s",
		title, timeutil.FormatDate(newStart), timeutil.FormatClock(newStart), timeutil.FormatClock(end)), nil
}

// Delete removes the first event on date whose title matches exactly,
// case-insensitively. A missing match yields an informational not-found
// reply and mutates nothing.
func (a *Actions) Delete(ctx context.Context, title string, date time.Time) (string, error) {
	dayStart, dayEnd := timeutil.DayBounds(date, a.ext.Location())
	events, err := a.backend.ListEvents(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Sprintf("❌ Failed to delete **%s**: could not reach the calendar service.", title),
			fmt.Errorf("%w: list events: %v", ErrBackend, err)
	}

	for _, ev := range events {
		if !calendar.TitleMatches(ev.Title, title) {
			continue
		}
		if err := a.backend.DeleteEvent(ctx, ev.ID); err != nil {
			return fmt.Sprintf("❌ Failed to delete **%s** on %s.", title, timeutil.FormatDate(date)),
				fmt.Errorf("%w: delete event %s: %v", ErrBackend, ev.ID, err)
		}
		a.log.Info("event deleted", zap.String("event_id", ev.ID), zap.String("title", title))
		return fmt.Sprintf("🗑️ Event deleted:\n\n**%s** on %s", title, timeutil.FormatDate(date)), nil
	}

	return fmt.Sprintf("⚠️ No matching event found with title '**%s**' on %s.", title, timeutil.FormatDate(date)),
		fmt.Errorf("%w: %q on %s", ErrNotFound, title, timeutil.FormatDate(date))
}

// Availability renders the free/busy slot grid for date.
func (a *Actions) Availability(ctx context.Context, date time.Time) (string, error) {
	dayStart, dayEnd := timeutil.DayBounds(date, a.ext.Location())
	events, err := a.backend.ListEvents(ctx, dayStart, dayEnd)
	if err != nil {
		return fmt.Sprintf("❌ Failed to check availability for %s.", timeutil.FormatDate(date)),
			fmt.Errorf("%w: list events: %v", ErrBackend, err)
	}

	busy := make([]availability.Interval, 0, len(events))
	for _, ev := range events {
		if ev.AllDay {
			continue
		}
		busy = append(busy, availability.Interval{
			Start: ev.StartTime.In(a.ext.Location()),
			End:   ev.EndTime.In(a.ext.Location()),
		})
	}

	slots := a.calc.Slots(timeutil.Midnight(date, a.ext.Location()), busy)
	return availability.RenderGrid(date, slots), nil
}
