package availability

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)

func at(hh, mm int) time.Time {
	return time.Date(2025, 7, 10, hh, mm, 0, 0, time.UTC)
}

func TestSlotsEmptyDay(t *testing.T) {
	calc := NewCalculator(DefaultStartHour, DefaultEndHour, DefaultSlotMinutes)
	slots := calc.Slots(day, nil)

	// 09:00 to 17:00 in 30-minute steps is exactly 16 slots.
	require.Len(t, slots, 16)
	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(17, 0), slots[len(slots)-1].End)
	assert.Equal(t, 16, FreeCount(slots))

	// Contiguous and non-overlapping.
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].End, slots[i].Start)
	}
}

func TestSlotsBusyOverlap(t *testing.T) {
	calc := NewCalculator(DefaultStartHour, DefaultEndHour, DefaultSlotMinutes)

	tests := []struct {
		name     string
		busy     []Interval
		wantBusy []int // indexes of busy slots, slot 0 starts 09:00
	}{
		{
			name:     "exact slot",
			busy:     []Interval{{Start: at(10, 0), End: at(10, 30)}},
			wantBusy: []int{2},
		},
		{
			name:     "straddles a boundary",
			busy:     []Interval{{Start: at(9, 45), End: at(10, 15)}},
			wantBusy: []int{1, 2},
		},
		{
			name:     "contained in one slot",
			busy:     []Interval{{Start: at(10, 10), End: at(10, 20)}},
			wantBusy: []int{2},
		},
		{
			name:     "ends exactly at a slot start leaves it free",
			busy:     []Interval{{Start: at(9, 30), End: at(10, 0)}},
			wantBusy: []int{1},
		},
		{
			name:     "starts exactly at a slot end leaves it free",
			busy:     []Interval{{Start: at(10, 0), End: at(10, 30)}, {Start: at(11, 0), End: at(11, 30)}},
			wantBusy: []int{2, 4},
		},
		{
			name:     "outside working hours",
			busy:     []Interval{{Start: at(7, 0), End: at(8, 0)}, {Start: at(18, 0), End: at(19, 0)}},
			wantBusy: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := calc.Slots(day, tt.busy)
			require.Len(t, slots, 16)

			var gotBusy []int
			for i, s := range slots {
				if s.Busy {
					gotBusy = append(gotBusy, i)
				}
			}
			assert.Equal(t, tt.wantBusy, gotBusy)
		})
	}
}

func TestNewCalculatorRejectsInvalidConfig(t *testing.T) {
	calc := NewCalculator(17, 9, 30)
	slots := calc.Slots(day, nil)
	assert.Len(t, slots, 16, "invalid hours fall back to defaults")

	calc = NewCalculator(9, 17, 0)
	assert.Equal(t, 30*time.Minute, calc.SlotDuration())
}

func TestRenderGrid(t *testing.T) {
	calc := NewCalculator(DefaultStartHour, DefaultEndHour, DefaultSlotMinutes)

	slots := calc.Slots(day, []Interval{{Start: at(10, 0), End: at(10, 30)}})
	out := RenderGrid(day, slots)

	assert.Contains(t, out, "📅 **Availability on 2025-07-10:**")
	assert.Contains(t, out, "🔴 Booked - 10:00 AM to 10:30 AM")
	assert.Contains(t, out, "🟢 Free - 09:00 AM to 09:30 AM")
	assert.Contains(t, out, "💬 _Would you like me to book one of these?_")

	// Two slots per row inside the code block.
	block := out[strings.Index(out, "```")+3:]
	block = block[:strings.Index(block, "```")]
	rows := strings.Split(strings.TrimSpace(block), "\n")
	assert.Len(t, rows, 8)
}

func TestRenderGridNoFreeSlots(t *testing.T) {
	calc := NewCalculator(DefaultStartHour, DefaultEndHour, DefaultSlotMinutes)

	slots := calc.Slots(day, []Interval{{Start: at(9, 0), End: at(17, 0)}})
	require.Zero(t, FreeCount(slots))

	out := RenderGrid(day, slots)
	assert.Equal(t, "❌ No free slots available on 2025-07-10.", out)
}
