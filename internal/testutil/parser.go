package testutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/omriShneor/schedbot/internal/temporal"
)

var (
	fakeMeridiemRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	fake24hRe      = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

var _ temporal.Parser = FakeParser{}

// FakeParser resolves only "today"/"tomorrow" plus explicit clock times.
// It keeps temporal tests deterministic without the real library.
type FakeParser struct{}

func (FakeParser) ParseSingle(text string, base time.Time, _ bool) (time.Time, bool) {
	lower := strings.ToLower(text)

	dayOffset, hasDay := relativeDay(lower)
	hour, minute, hasClock := parseClock(text)
	if !hasDay && !hasClock {
		return time.Time{}, false
	}

	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())
	t := day.AddDate(0, 0, dayOffset)
	if hasClock {
		t = t.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	return t, true
}

func (p FakeParser) SearchAll(text string, base time.Time) []temporal.Candidate {
	lower := strings.ToLower(text)

	for _, tok := range []string{"tomorrow", "today"} {
		idx := strings.Index(lower, tok)
		if idx < 0 {
			continue
		}
		seg := strings.TrimSpace(text[idx:])
		t, ok := p.ParseSingle(seg, base, false)
		if !ok {
			continue
		}
		return []temporal.Candidate{{Text: seg, Time: t}}
	}
	return nil
}

func relativeDay(lower string) (int, bool) {
	switch {
	case strings.Contains(lower, "tomorrow"):
		return 1, true
	case strings.Contains(lower, "today"):
		return 0, true
	}
	return 0, false
}

func parseClock(text string) (hour, minute int, ok bool) {
	if m := fakeMeridiemRe.FindStringSubmatch(text); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if strings.EqualFold(m[3], "pm") && hour != 12 {
			hour += 12
		}
		if strings.EqualFold(m[3], "am") && hour == 12 {
			hour = 0
		}
		return hour, minute, true
	}
	if m := fake24hRe.FindStringSubmatch(text); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		return hour, minute, true
	}
	return 0, 0, false
}
