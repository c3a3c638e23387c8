package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		// Booking
		{"Book a meeting tomorrow", IntentBook},
		{"schedule a call on friday", IntentBook},
		{"set up a sync with the team", IntentBook},

		// Reschedule wins over book even when both keyword sets match.
		{"Reschedule 'Team Sync' to 3 PM", IntentReschedule},
		{"change my meeting to friday", IntentReschedule},
		{"postpone the review", IntentReschedule},
		{"move the standup to 10 AM", IntentReschedule},

		// "remove" must not trip the word-boundary "move" rule.
		{"remove the standup", IntentDelete},
		{"Delete 'Project Review' from tomorrow", IntentDelete},
		{"cancel my meeting", IntentDelete},

		// Availability is checked before booking keywords like "free".
		{"check availability on 2025-07-10", IntentAvailability},
		{"am i free tomorrow", IntentAvailability},
		{"any slots open on friday", IntentAvailability},

		// Greeting matches whole words only.
		{"hi", IntentGreeting},
		{"Hello there", IntentGreeting},
		{"hey", IntentGreeting},

		{"what can you do", IntentHelp},
		{"help", IntentHelp},

		{"tomorrow at 2 PM", IntentUnknown},
		{"", IntentUnknown},
		{"blue is my favorite color", IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.text))
		})
	}
}

func TestClassifyIntentWordBoundaries(t *testing.T) {
	// "this friday" contains "hi" as a substring but is no greeting.
	assert.NotEqual(t, IntentGreeting, ClassifyIntent("this friday"))
	// "remove" contains "move" but word matching keeps it a delete.
	assert.Equal(t, IntentDelete, ClassifyIntent("remove my meeting"))
	assert.Equal(t, IntentReschedule, ClassifyIntent("move my meeting to 4 PM"))
}
