package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omriShneor/schedbot/internal/availability"
	"github.com/omriShneor/schedbot/internal/temporal"
	"github.com/omriShneor/schedbot/internal/testutil"
)

// Tuesday.
var fixedNow = time.Date(2025, 7, 8, 10, 30, 0, 0, time.UTC)

func newActionsRig(t *testing.T) (*Actions, *testutil.MockBackend) {
	t.Helper()

	backend := testutil.NewMockBackend()
	ext := temporal.NewExtractor(testutil.FakeParser{}, time.UTC)
	ext.SetNow(func() time.Time { return fixedNow })

	calc := availability.NewCalculator(availability.DefaultStartHour, availability.DefaultEndHour, availability.DefaultSlotMinutes)
	actions := NewActions(backend, calc, ext, zap.NewNop())
	actions.SetNow(func() time.Time { return fixedNow })
	return actions, backend
}

func at(day, hh, mm int) time.Time {
	return time.Date(2025, 7, day, hh, mm, 0, 0, time.UTC)
}

func TestBook(t *testing.T) {
	actions, backend := newActionsRig(t)

	reply, err := actions.Book(context.Background(), at(10, 14, 0), "Standup", "")
	require.NoError(t, err)
	assert.Equal(t, "✅ Booking confirmed: **Standup** from 2025-07-10 02:00 PM to 02:30 PM", reply)

	events := backend.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, "Booked via Schedbot", events[0].Description)
	assert.Equal(t, at(10, 14, 0), events[0].StartTime)
	assert.Equal(t, at(10, 14, 30), events[0].EndTime)
}

func TestBookDefaultTitle(t *testing.T) {
	actions, backend := newActionsRig(t)

	_, err := actions.Book(context.Background(), at(10, 9, 0), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Meeting", backend.Events()[0].Title)
}

func TestBookBackendFailure(t *testing.T) {
	actions, backend := newActionsRig(t)
	backend.FailCreate = true

	reply, err := actions.Book(context.Background(), at(10, 9, 0), "Standup", "")
	assert.True(t, IsBackendError(err))
	assert.Contains(t, reply, "❌ Failed to book")
}

func TestReschedule(t *testing.T) {
	actions, backend := newActionsRig(t)
	backend.Seed("TEAM SYNC", at(10, 10, 0), at(10, 10, 30))

	// Lookup is case-insensitive.
	reply, err := actions.Reschedule(context.Background(), "team sync", at(11, 15, 0))
	require.NoError(t, err)
	assert.Contains(t, reply, "🔁 Meeting rescheduled:")
	assert.Contains(t, reply, "🗓️ New Date: 2025-07-11")
	assert.Contains(t, reply, "⏰ Time: 03:00 PM to 03:30 PM")

	events := backend.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "team sync", events[0].Title)
	assert.Equal(t, at(11, 15, 0), events[0].StartTime)
	assert.Equal(t, "Rescheduled via Schedbot on 2025-07-08", events[0].Description)
}

func TestRescheduleMovesEarliestMatch(t *testing.T) {
	actions, backend := newActionsRig(t)
	later := backend.Seed("Sync", at(12, 10, 0), at(12, 10, 30))
	backend.Seed("Sync", at(10, 10, 0), at(10, 10, 30))

	_, err := actions.Reschedule(context.Background(), "Sync", at(14, 9, 0))
	require.NoError(t, err)

	events := backend.Events()
	require.Len(t, events, 2)
	assert.Equal(t, later, events[0].ID, "the later duplicate stays put")
	assert.Equal(t, at(14, 9, 0), events[1].StartTime)
}

func TestRescheduleMissingOriginalStillBooks(t *testing.T) {
	actions, backend := newActionsRig(t)

	reply, err := actions.Reschedule(context.Background(), "Ghost", at(11, 15, 0))
	require.NoError(t, err)
	assert.Contains(t, reply, "🔁 Meeting rescheduled:")
	assert.Len(t, backend.Events(), 1)
}

func TestReschedulePartialFailure(t *testing.T) {
	actions, backend := newActionsRig(t)
	backend.Seed("Sync", at(10, 10, 0), at(10, 10, 30))
	backend.FailCreate = true

	reply, err := actions.Reschedule(context.Background(), "Sync", at(11, 15, 0))
	assert.True(t, IsBackendError(err))
	assert.Contains(t, reply, "I removed the old **Sync**")
	assert.Empty(t, backend.Events(), "delete is not rolled back")
}

func TestDelete(t *testing.T) {
	actions, backend := newActionsRig(t)
	backend.Seed("Project Review", at(11, 10, 0), at(11, 10, 30))

	reply, err := actions.Delete(context.Background(), "project review", at(11, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "🗑️ Event deleted:\n\n**project review** on 2025-07-11", reply)
	assert.Empty(t, backend.Events())
}

func TestDeleteNotFound(t *testing.T) {
	actions, backend := newActionsRig(t)
	backend.Seed("Project Review", at(11, 10, 0), at(11, 10, 30))

	reply, err := actions.Delete(context.Background(), "Other Meeting", at(11, 0, 0))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "⚠️ No matching event found with title '**Other Meeting**' on 2025-07-11.", reply)
	assert.Len(t, backend.Events(), 1, "nothing is deleted on a miss")
}

func TestDeleteOnlyTouchesTheRequestedDay(t *testing.T) {
	actions, backend := newActionsRig(t)
	backend.Seed("Review", at(12, 10, 0), at(12, 10, 30))

	_, err := actions.Delete(context.Background(), "Review", at(11, 0, 0))
	assert.True(t, IsNotFound(err))
	assert.Len(t, backend.Events(), 1)
}

func TestBookThenDeleteRoundTrip(t *testing.T) {
	actions, backend := newActionsRig(t)

	_, err := actions.Book(context.Background(), at(10, 14, 0), "Standup", "")
	require.NoError(t, err)

	_, err = actions.Delete(context.Background(), "standup", at(10, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, backend.Events())
}

func TestAvailability(t *testing.T) {
	actions, backend := newActionsRig(t)
	backend.Seed("Busy block", at(10, 10, 0), at(10, 11, 0))

	reply, err := actions.Availability(context.Background(), at(10, 0, 0))
	require.NoError(t, err)
	assert.Contains(t, reply, "📅 **Availability on 2025-07-10:**")
	assert.Contains(t, reply, "🔴 Booked - 10:00 AM to 10:30 AM")
	assert.Contains(t, reply, "🔴 Booked - 10:30 AM to 11:00 AM")
	assert.Contains(t, reply, "🟢 Free - 09:00 AM to 09:30 AM")
}

func TestAvailabilityBackendFailure(t *testing.T) {
	actions, backend := newActionsRig(t)
	backend.FailList = true

	reply, err := actions.Availability(context.Background(), at(10, 0, 0))
	assert.True(t, IsBackendError(err))
	assert.Contains(t, reply, "❌ Failed to check availability")
}
