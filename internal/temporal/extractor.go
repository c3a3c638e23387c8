// Package temporal turns free-text utterances into concrete dates and
// times. A natural-language parser does the heavy lifting; a fixed set of
// disambiguation rules decides which of its candidates to trust.
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/omriShneor/schedbot/internal/timeutil"
)

// Match is a resolved temporal expression. A midnight Time means the
// utterance carried a date but no time of day.
type Match struct {
	Text string
	Time time.Time
}

// DateOnly reports whether the match carries no time-of-day.
func (m Match) DateOnly() bool {
	return !timeutil.HasClock(m.Time)
}

var (
	dayMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	isoDateRe  = regexp.MustCompile(`\b(20\d{2}-\d{2}-\d{2})\b`)
	meridiemRe = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)
	clock24Re  = regexp.MustCompile(`\b((?:[01]?\d|2[0-3]):[0-5]\d)\b`)

	// Filter for library candidates: leading digits, or a weekday, month,
	// relative-day or meridiem keyword. Rejects spurious numeric matches.
	leadingDigits = regexp.MustCompile(`^\d{1,2}`)
	dateTokenRe   = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|today|january|february|march|april|may|june|july|august|september|october|november|december|am|pm)\b`)
)

// Vague time-of-day words are stripped before parsing: they bucket into
// Windows for prompting, never into a concrete clock time.
var vagueWordRe = regexp.MustCompile(`(?i)\b(morning|afternoon|evening|night)\b`)

func stripVague(text string) string {
	return strings.TrimSpace(vagueWordRe.ReplaceAllString(text, " "))
}

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var weekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Window is a vague time-of-day bucket, [StartHour, EndHour).
type Window struct {
	StartHour int
	EndHour   int
}

// VagueWindow maps morning/afternoon/evening/night mentions to their hour
// windows. It biases prompts and validation only; booking still requires
// an explicit time.
func VagueWindow(text string) (Window, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "morning"):
		return Window{9, 12}, true
	case strings.Contains(lower, "afternoon"):
		return Window{12, 17}, true
	case strings.Contains(lower, "evening"):
		return Window{17, 20}, true
	case strings.Contains(lower, "night"):
		return Window{20, 22}, true
	}
	return Window{}, false
}

// Extractor resolves temporal expressions in a single fixed timezone.
type Extractor struct {
	parser Parser
	loc    *time.Location
	now    func() time.Time
}

func NewExtractor(parser Parser, loc *time.Location) *Extractor {
	return &Extractor{parser: parser, loc: loc, now: time.Now}
}

// SetNow overrides the reference clock. Tests use it to pin "today".
func (e *Extractor) SetNow(now func() time.Time) {
	e.now = now
}

// Location returns the extractor's fixed timezone.
func (e *Extractor) Location() *time.Location {
	return e.loc
}

// Today returns midnight of the current day in the fixed timezone.
func (e *Extractor) Today() time.Time {
	return timeutil.Midnight(e.now(), e.loc)
}

// Extract resolves the temporal expressions in text, ordered by rule
// precedence. An empty result means the utterance needs clarification,
// never an error.
func (e *Extractor) Extract(text string) []Match {
	text = stripVague(text)
	lower := strings.ToLower(text)
	base := e.Today()

	var matches []Match

	// Explicit "8 July" style day+month, forced into the current year.
	if m := dayMonthRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		forced := time.Date(base.Year(), monthsByName[m[2]], day, 0, 0, 0, 0, e.loc)
		matches = []Match{{Text: strings.TrimSpace(m[0]), Time: forced}}

		// A richer library match on the same date wins, e.g. "8 July at 2 PM".
		for _, c := range e.searchFiltered(text, base) {
			if sameDate(c.Time, forced) && timeutil.HasClock(c.Time) {
				matches = []Match{{Text: c.Text, Time: c.Time}}
				break
			}
		}
	}

	// General free-text search, filtered to plausible temporal tokens.
	if len(matches) == 0 {
		for _, c := range e.searchFiltered(text, base) {
			matches = append(matches, Match{Text: c.Text, Time: c.Time})
		}
	}

	// An ISO date overrides everything; an explicit clock rides along.
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		if d, err := timeutil.ParseDate(m[1], e.loc); err == nil {
			if clock := findClock(text); clock != "" {
				if t, ok := e.parser.ParseSingle(clock, d, false); ok && timeutil.HasClock(t) {
					matches = []Match{{Text: m[1] + " " + clock, Time: t}}
				} else {
					matches = []Match{{Text: m[1], Time: d}}
				}
			} else {
				matches = []Match{{Text: m[1], Time: d}}
			}
		}
	}

	// Weekday fallback: only when nothing matched, or nothing carried a
	// time of day.
	if len(matches) == 0 || allDateOnly(matches) {
		if wm, ok := e.weekdayFallback(lower, base); ok {
			if clock := findClock(text); clock != "" {
				if t, merged := e.parser.ParseSingle(clock, wm.Time, false); merged && timeutil.HasClock(t) {
					wm = Match{Text: wm.Text + " " + clock, Time: t}
				}
			}
			matches = []Match{wm}
		}
	}

	return matches
}

// CombineDateClock interprets text as a time of day on the given date.
func (e *Extractor) CombineDateClock(date time.Time, text string) (time.Time, bool) {
	text = stripVague(text)
	if text == "" {
		return time.Time{}, false
	}
	base := timeutil.Midnight(date, e.loc)
	t, ok := e.parser.ParseSingle(text, base, false)
	if !ok || !timeutil.HasClock(t) {
		return time.Time{}, false
	}
	return t, true
}

// ResolveDateTime resolves a full date/time phrase with future bias,
// falling back to the deterministic rules when the library alone fails.
func (e *Extractor) ResolveDateTime(text string) (time.Time, bool) {
	if stripped := stripVague(text); stripped != "" {
		if t, ok := e.parser.ParseSingle(stripped, e.Today(), true); ok {
			return t, true
		}
	}
	matches := e.Extract(text)
	if len(matches) == 0 {
		return time.Time{}, false
	}
	return matches[0].Time, true
}

func (e *Extractor) searchFiltered(text string, base time.Time) []Candidate {
	var out []Candidate
	for _, c := range e.parser.SearchAll(text, base) {
		if leadingDigits.MatchString(c.Text) || dateTokenRe.MatchString(c.Text) {
			out = append(out, c)
		}
	}
	return out
}

// weekdayFallback resolves "this monday" (next occurrence, never today),
// "next monday" (7-13 days out) and bare "monday" (nearest, today counts).
func (e *Extractor) weekdayFallback(lower string, base time.Time) (Match, bool) {
	// Monday-based index of today.
	todayIdx := (int(base.Weekday()) + 6) % 7

	for i, day := range weekdayNames {
		offset := ((i-todayIdx)%7 + 7) % 7
		switch {
		case strings.Contains(lower, "this "+day):
			if offset == 0 {
				offset = 7
			}
			return Match{Text: "this " + day, Time: base.AddDate(0, 0, offset)}, true
		case strings.Contains(lower, "next "+day):
			return Match{Text: "next " + day, Time: base.AddDate(0, 0, offset+7)}, true
		case strings.Contains(lower, day):
			return Match{Text: day, Time: base.AddDate(0, 0, offset)}, true
		}
	}
	return Match{}, false
}

// findClock returns the first explicit time expression in text, either
// "2 PM"/"2:30pm" style or 24-hour "14:00" style.
func findClock(text string) string {
	if m := meridiemRe.FindString(text); m != "" {
		return m
	}
	return clock24Re.FindString(text)
}

func allDateOnly(matches []Match) bool {
	for _, m := range matches {
		if !m.DateOnly() {
			return false
		}
	}
	return true
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
