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

func newRouterRig(t *testing.T) (*Router, *testutil.MockBackend, *Session) {
	t.Helper()

	backend := testutil.NewMockBackend()
	ext := temporal.NewExtractor(testutil.FakeParser{}, time.UTC)
	ext.SetNow(func() time.Time { return fixedNow })

	calc := availability.NewCalculator(availability.DefaultStartHour, availability.DefaultEndHour, availability.DefaultSlotMinutes)
	actions := NewActions(backend, calc, ext, zap.NewNop())
	actions.SetNow(func() time.Time { return fixedNow })

	router := NewRouter(ext, actions, zap.NewNop())
	session := NewManager(time.Hour).Get("test")
	return router, backend, session
}

func TestBookingFlowMultiTurn(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()

	reply := r.HandleUtterance(ctx, s, "Book a meeting")
	assert.Equal(t, replyAskBookingDate, reply)

	reply = r.HandleUtterance(ctx, s, "tomorrow")
	assert.Equal(t, replyAskBookingTime, reply)

	reply = r.HandleUtterance(ctx, s, "2 PM")
	assert.Equal(t, replyAskTitle, reply)

	reply = r.HandleUtterance(ctx, s, "Standup")
	assert.Equal(t, "✅ Booking confirmed: **Standup** from 2025-07-09 02:00 PM to 02:30 PM", reply)

	events := backend.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Title)

	flow, lastDate := s.Snapshot()
	assert.Nil(t, flow)
	assert.True(t, lastDate.IsZero(), "booking completion clears the remembered date")
}

func TestBookingFlowOneShot(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()

	reply := r.HandleUtterance(ctx, s, "Book a meeting tomorrow at 2 PM")
	assert.Equal(t, replyAskTitle, reply)

	r.HandleUtterance(ctx, s, "Standup")

	events := backend.Events()
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2025, 7, 9, 14, 0, 0, 0, time.UTC), events[0].StartTime)
}

func TestBookingFlowVagueTime(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()

	reply := r.HandleUtterance(ctx, s, "Book a meeting tomorrow morning")
	assert.Equal(t, "⏰ What time should I schedule it? An exact time between 9:00 and 12:00 would work.", reply)

	// A vague word alone never satisfies the time slot.
	reply = r.HandleUtterance(ctx, s, "morning")
	assert.Contains(t, reply, replyTimeRetry)
	flow, _ := s.Snapshot()
	assert.IsType(t, AwaitingBookingTime{}, flow)

	reply = r.HandleUtterance(ctx, s, "10 AM")
	assert.Equal(t, replyAskTitle, reply)

	r.HandleUtterance(ctx, s, "Coffee chat")

	events := backend.Events()
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC), events[0].StartTime)
}

func TestRescheduleOneShot(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()
	backend.Seed("Team Sync", time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC), time.Date(2025, 7, 10, 10, 30, 0, 0, time.UTC))

	reply := r.HandleUtterance(ctx, s, "Reschedule 'Team Sync' to tomorrow at 3 PM")
	assert.Contains(t, reply, "🔁 Meeting rescheduled:")

	events := backend.Events()
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2025, 7, 9, 15, 0, 0, 0, time.UTC), events[0].StartTime)
}

func TestRescheduleMultiTurnWithRetry(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()
	backend.Seed("Team Sync", time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC), time.Date(2025, 7, 10, 10, 30, 0, 0, time.UTC))

	reply := r.HandleUtterance(ctx, s, "reschedule")
	assert.Equal(t, replyAskRescheduleTitle, reply)

	reply = r.HandleUtterance(ctx, s, "Team Sync")
	assert.Equal(t, replyAskRescheduleWhen, reply)

	// Unparseable input re-prompts without losing the title.
	reply = r.HandleUtterance(ctx, s, "whenever works")
	assert.Equal(t, replyRescheduleRetry, reply)
	flow, _ := s.Snapshot()
	assert.Equal(t, AwaitingRescheduleDateTime{Title: "Team Sync"}, flow)

	reply = r.HandleUtterance(ctx, s, "tomorrow at 11 AM")
	assert.Contains(t, reply, "🔁 Meeting rescheduled:")

	events := backend.Events()
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2025, 7, 9, 11, 0, 0, 0, time.UTC), events[0].StartTime)
}

func TestDeleteOneShot(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()
	backend.Seed("Project Review", time.Date(2025, 7, 9, 9, 0, 0, 0, time.UTC), time.Date(2025, 7, 9, 9, 30, 0, 0, time.UTC))

	reply := r.HandleUtterance(ctx, s, "Delete 'Project Review' from tomorrow")
	assert.Equal(t, "🗑️ Event deleted:\n\n**Project Review** on 2025-07-09", reply)
	assert.Empty(t, backend.Events())
}

func TestDeleteNotFoundIsInformational(t *testing.T) {
	r, _, s := newRouterRig(t)

	reply := r.HandleUtterance(context.Background(), s, "Delete 'Ghost' from tomorrow")
	assert.Contains(t, reply, "⚠️ No matching event found with title '**Ghost**'")

	flow, _ := s.Snapshot()
	assert.Nil(t, flow, "a miss ends the flow")
}

func TestDeleteUnquotedTitleNotFound(t *testing.T) {
	r, backend, s := newRouterRig(t)
	backend.Seed("Standup", time.Date(2025, 7, 9, 9, 0, 0, 0, time.UTC), time.Date(2025, 7, 9, 9, 30, 0, 0, time.UTC))

	// The verb pattern captures "the call with Sarah"; Wednesday resolves
	// through the weekday fallback. No event matches, nothing is deleted.
	reply := r.HandleUtterance(context.Background(), s, "Delete the call with Sarah on Wednesday")
	assert.Contains(t, reply, "⚠️ No matching event found with title '**the call with Sarah**'")
	assert.Len(t, backend.Events(), 1)
}

func TestDeleteMultiTurn(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()
	backend.Seed("Review", time.Date(2025, 7, 9, 9, 0, 0, 0, time.UTC), time.Date(2025, 7, 9, 9, 30, 0, 0, time.UTC))

	reply := r.HandleUtterance(ctx, s, "delete")
	assert.Equal(t, replyAskDeleteTitle, reply)

	reply = r.HandleUtterance(ctx, s, "Review")
	assert.Equal(t, replyAskDeleteDate, reply)

	reply = r.HandleUtterance(ctx, s, "tomorrow")
	assert.Contains(t, reply, "🗑️ Event deleted:")
	assert.Empty(t, backend.Events())
}

func TestAvailabilityWithExplicitDate(t *testing.T) {
	r, backend, s := newRouterRig(t)
	backend.Seed("Busy", time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC), time.Date(2025, 7, 10, 10, 30, 0, 0, time.UTC))

	reply := r.HandleUtterance(context.Background(), s, "check availability on 2025-07-10")
	assert.Contains(t, reply, "📅 **Availability on 2025-07-10:**")
	assert.Contains(t, reply, "🔴 Booked - 10:00 AM to 10:30 AM")
}

func TestAvailabilityReusesLastDate(t *testing.T) {
	r, _, s := newRouterRig(t)
	ctx := context.Background()

	r.HandleUtterance(ctx, s, "check availability on 2025-07-10")

	// No date this time; the session's last date carries over.
	reply := r.HandleUtterance(ctx, s, "am i free")
	assert.Contains(t, reply, "📅 **Availability on 2025-07-10:**")
}

func TestIdleDateMentionIsRemembered(t *testing.T) {
	r, _, s := newRouterRig(t)
	ctx := context.Background()

	// The date survives even when the intent itself misses.
	reply := r.HandleUtterance(ctx, s, "Delete 'Ghost' from tomorrow")
	assert.Contains(t, reply, "⚠️ No matching event found")

	reply = r.HandleUtterance(ctx, s, "am i free")
	assert.Contains(t, reply, "📅 **Availability on 2025-07-09:**")

	_, lastDate := s.Snapshot()
	assert.Equal(t, time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC), lastDate)
}

func TestBookingTimePromptAcceptsNewDate(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()

	r.HandleUtterance(ctx, s, "Book a meeting tomorrow")
	flow, _ := s.Snapshot()
	require.IsType(t, AwaitingBookingTime{}, flow)

	// A date-only reply at the time prompt moves the booking, not the clock.
	reply := r.HandleUtterance(ctx, s, "2025-07-12")
	assert.Equal(t, replyAskBookingTime, reply)
	flow, _ = s.Snapshot()
	require.IsType(t, AwaitingBookingTime{}, flow)
	assert.Equal(t, time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC), flow.(AwaitingBookingTime).Date)

	reply = r.HandleUtterance(ctx, s, "2 PM")
	assert.Equal(t, replyAskTitle, reply)

	r.HandleUtterance(ctx, s, "Sync")
	events := backend.Events()
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2025, 7, 12, 14, 0, 0, 0, time.UTC), events[0].StartTime)
}

func TestAvailabilityWithoutAnyDateAsks(t *testing.T) {
	r, _, s := newRouterRig(t)

	reply := r.HandleUtterance(context.Background(), s, "am i free")
	assert.Equal(t, replyAskCheckDate, reply)
}

func TestNewIntentAbandonsInFlightFlow(t *testing.T) {
	r, _, s := newRouterRig(t)
	ctx := context.Background()

	r.HandleUtterance(ctx, s, "Book a meeting")
	flow, _ := s.Snapshot()
	assert.IsType(t, AwaitingBookingDate{}, flow)

	reply := r.HandleUtterance(ctx, s, "check availability on 2025-07-10")
	assert.Contains(t, reply, "📅 **Availability on 2025-07-10:**")

	flow, _ = s.Snapshot()
	assert.Nil(t, flow, "the booking flow is abandoned")
}

func TestTitleSlotsConsumeIntentKeywords(t *testing.T) {
	r, backend, s := newRouterRig(t)
	ctx := context.Background()

	r.HandleUtterance(ctx, s, "Book a meeting tomorrow at 2 PM")

	// "Planning meeting" contains booking keywords but is just a title.
	reply := r.HandleUtterance(ctx, s, "Planning meeting")
	assert.Contains(t, reply, "✅ Booking confirmed: **Planning meeting**")
	require.Len(t, backend.Events(), 1)
}

func TestGreetingHelpAndFallbacks(t *testing.T) {
	r, _, s := newRouterRig(t)
	ctx := context.Background()

	assert.Equal(t, replyGreeting, r.HandleUtterance(ctx, s, "hi"))
	assert.Equal(t, replyHelp, r.HandleUtterance(ctx, s, "what can you do"))
	assert.Equal(t, replyNoIdea, r.HandleUtterance(ctx, s, ""))
	assert.Equal(t, replyNoIdea, r.HandleUtterance(ctx, s, "blue is my favorite color"))

	// A bare date with no intent is acknowledged but not acted on.
	assert.Equal(t, replyUnrecognized, r.HandleUtterance(ctx, s, "tomorrow at 2 PM"))
}
