package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	loc, ok := ResolveLocation("Asia/Kolkata")
	assert.True(t, ok)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	loc, ok = ResolveLocation("Not/AZone")
	assert.False(t, ok)
	assert.Equal(t, time.UTC, loc)

	loc, ok = ResolveLocation("")
	assert.True(t, ok)
	assert.Equal(t, time.UTC, loc)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-07-10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("10/07/2025", time.UTC)
	assert.Error(t, err)

	_, err = ParseDate("", time.UTC)
	assert.Error(t, err)
}

func TestHasClock(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"midnight is date-only", time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), false},
		{"afternoon", time.Date(2025, 7, 10, 14, 0, 0, 0, time.UTC), true},
		{"minute past midnight", time.Date(2025, 7, 10, 0, 1, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasClock(tt.t))
		})
	}
}

func TestDayBounds(t *testing.T) {
	noon := time.Date(2025, 7, 10, 12, 30, 0, 0, time.UTC)
	start, end := DayBounds(noon, time.UTC)
	assert.Equal(t, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC), end)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "02:30 PM", FormatClock(time.Date(2025, 7, 10, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, "09:00 AM", FormatClock(time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)))
}
