// Package availability computes free/busy slots over the fixed working
// window of a single day.
package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/omriShneor/schedbot/internal/timeutil"
)

// Defaults for the working window and slot width.
const (
	DefaultStartHour   = 9
	DefaultEndHour     = 17
	DefaultSlotMinutes = 30
)

// Slot is a fixed-width interval within the working window, labeled busy
// when it overlaps any busy interval. Slots are derived per query, never
// stored.
type Slot struct {
	Start time.Time
	End   time.Time
	Busy  bool
}

// Interval is a half-open [Start, End) busy period.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Calculator partitions working days into slots.
type Calculator struct {
	startHour   int
	endHour     int
	slotMinutes int
}

func NewCalculator(startHour, endHour, slotMinutes int) *Calculator {
	if startHour < 0 || endHour <= startHour {
		startHour, endHour = DefaultStartHour, DefaultEndHour
	}
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	return &Calculator{startHour: startHour, endHour: endHour, slotMinutes: slotMinutes}
}

// SlotDuration returns the configured slot width.
func (c *Calculator) SlotDuration() time.Duration {
	return time.Duration(c.slotMinutes) * time.Minute
}

// Slots partitions the working window on date into contiguous slots in
// chronological order. A slot is busy iff it overlaps a busy interval
// under strict half-open comparison.
func (c *Calculator) Slots(date time.Time, busy []Interval) []Slot {
	loc := date.Location()
	current := timeutil.At(date, c.startHour, 0, loc)
	end := timeutil.At(date, c.endHour, 0, loc)

	var slots []Slot
	for current.Before(end) {
		slotStart := current
		slotEnd := current.Add(time.Duration(c.slotMinutes) * time.Minute)
		current = slotEnd

		slots = append(slots, Slot{
			Start: slotStart,
			End:   slotEnd,
			Busy:  overlapsAny(slotStart, slotEnd, busy),
		})
	}
	return slots
}

// FreeCount returns how many slots are free.
func FreeCount(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if !s.Busy {
			n++
		}
	}
	return n
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}

// RenderGrid formats the day's slots as the two-column text grid shown to
// the user, with a title line and a booking call-to-action.
func RenderGrid(date time.Time, slots []Slot) string {
	if FreeCount(slots) == 0 {
		return fmt.Sprintf("❌ No free slots available on %s.", timeutil.FormatDate(date))
	}

	lines := make([]string, 0, len(slots))
	for _, s := range slots {
		label := "🟢 Free"
		if s.Busy {
			label = "🔴 Booked"
		}
		lines = append(lines, fmt.Sprintf("%s - %s to %s", label, timeutil.FormatClock(s.Start), timeutil.FormatClock(s.End)))
	}

	rows := make([]string, 0, (len(lines)+1)/2)
	for i := 0; i < len(lines); i += 2 {
		left := lines[i]
		right := ""
		if i+1 < len(lines) {
			right = lines[i+1]
		}
		rows = append(rows, strings.TrimRight(fmt.Sprintf("%-30s %s", left, right), " "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 **Availability on %s:**\n\n", timeutil.FormatDate(date))
	b.WriteString("```\n")
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n```\n\n")
	b.WriteString("💬 _Would you like me to book one of these?_")
	return b.String()
}
