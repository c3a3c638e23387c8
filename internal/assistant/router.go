// Package assistant holds the conversational core: per-session dialogue
// state, the intent rule table, the utterance router and the calendar
// action executors.
package assistant

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/omriShneor/schedbot/internal/temporal"
	"github.com/omriShneor/schedbot/internal/timeutil"
)

var (
	quotedTitleRe     = regexp.MustCompile(`['"](.+?)['"]`)
	rescheduleTitleRe = regexp.MustCompile(`(?i)\b(?:reschedule|change|move)\s+(.+?)\s+to\b`)
	deleteTitleRe     = regexp.MustCompile(`(?i)\b(?:delete|remove|cancel)\s+(.+?)(?:\s+(?:from|on)\s+|$)`)
	toPhraseRe        = regexp.MustCompile(`(?i)\bto\s+(.+)$`)
	fromOnPhraseRe    = regexp.MustCompile(`(?i)\b(?:from|on)\s+(.+)$`)
)

// Router drives the dialogue: slot-filling for the in-flight flow first,
// then intent classification for idle utterances.
type Router struct {
	ext     *temporal.Extractor
	actions *Actions
	log     *zap.Logger
}

func NewRouter(ext *temporal.Extractor, actions *Actions, log *zap.Logger) *Router {
	return &Router{ext: ext, actions: actions, log: log}
}

// HandleUtterance processes one utterance against the session's state and
// returns the reply text. It never returns an error: every failure is
// converted to a user-facing message.
func (r *Router) HandleUtterance(ctx context.Context, s *Session, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return replyNoIdea
	}

	reply, err := r.handle(ctx, s, trimmed)
	if err != nil {
		r.log.Warn("utterance handled with failure",
			zap.String("session", s.id),
			zap.Error(err))
	}
	return reply
}

// handle assumes the session lock is held.
func (r *Router) handle(ctx context.Context, s *Session, text string) (string, error) {
	// A new actionable intent abandons the in-flight flow. Title slots
	// are exempt: titles are free text and may contain intent keywords.
	if s.flow != nil && !awaitingTitle(s.flow) {
		if intent := ClassifyIntent(text); intent.actionable() && intent != flowIntent(s.flow) {
			s.flow = nil
		}
	}

	// Slot-filling branch: an in-flight flow consumes the utterance.
	switch f := s.flow.(type) {
	case AwaitingRescheduleTitle:
		s.flow = AwaitingRescheduleDateTime{Title: text}
		return replyAskRescheduleWhen, nil

	case AwaitingRescheduleDateTime:
		t, ok := r.ext.ResolveDateTime(text)
		if !ok {
			// Stay in this state and re-prompt.
			return replyRescheduleRetry, ErrParse
		}
		s.flow = nil
		return r.actions.Reschedule(ctx, f.Title, t)

	case AwaitingDeleteTitle:
		s.flow = AwaitingDeleteDateTime{Title: text}
		return replyAskDeleteDate, nil

	case AwaitingDeleteDateTime:
		t, ok := r.ext.ResolveDateTime(text)
		if !ok {
			return replyDeleteRetry, ErrParse
		}
		s.flow = nil
		return r.actions.Delete(ctx, f.Title, t)

	case AwaitingBookingDate:
		matches := r.ext.Extract(text)
		if len(matches) == 0 {
			return replyAskBookingDate, ErrParse
		}
		date := timeutil.Midnight(matches[0].Time, r.ext.Location())
		s.lastDate = date
		next := AwaitingBookingTime{Date: date}
		if w, ok := temporal.VagueWindow(text); ok {
			next.Window = &w
		}
		s.flow = next
		return askBookingTime(next.Window), nil

	case AwaitingBookingTime:
		t, ok := r.ext.CombineDateClock(f.Date, text)
		if !ok {
			// A date-only reply moves the pending booking to that date
			// and re-asks for a time.
			if matches := r.ext.Extract(text); len(matches) > 0 && matches[0].DateOnly() {
				f.Date = timeutil.Midnight(matches[0].Time, r.ext.Location())
				s.lastDate = f.Date
				if w, vague := temporal.VagueWindow(text); vague {
					f.Window = &w
				}
				s.flow = f
				return askBookingTime(f.Window), nil
			}
			// A vague window alone never satisfies the time slot.
			return askBookingTime(f.Window) + "\n" + replyTimeRetry, ErrParse
		}
		s.flow = AwaitingBookingTitle{Start: t}
		return replyAskTitle, nil

	case AwaitingBookingTitle:
		s.flow = nil
		s.lastDate = time.Time{}
		return r.actions.Book(ctx, f.Start, text, "")
	}

	// Idle: classify and dispatch. A recognized intent abandons any
	// previous flow implicitly, since flow is nil here.
	intent := ClassifyIntent(text)
	matches := r.ext.Extract(text)

	// Any resolved date is remembered before dispatch, so a follow-up
	// like "am i free" checks the date just mentioned.
	if len(matches) > 0 {
		s.lastDate = timeutil.Midnight(matches[0].Time, r.ext.Location())
	}

	r.log.Debug("utterance classified",
		zap.String("session", s.id),
		zap.String("intent", intent.String()),
		zap.Int("temporal_matches", len(matches)))

	switch intent {
	case IntentReschedule:
		return r.idleReschedule(ctx, s, text, matches)
	case IntentDelete:
		return r.idleDelete(ctx, s, text)
	case IntentBook:
		return r.idleBook(s, text, matches)
	case IntentAvailability:
		return r.idleAvailability(ctx, s, matches)
	case IntentGreeting:
		return replyGreeting, nil
	case IntentHelp:
		return replyHelp, nil
	default:
		if len(matches) == 0 {
			return replyNoIdea, ErrAmbiguous
		}
		return replyUnrecognized, nil
	}
}

func (r *Router) idleReschedule(ctx context.Context, s *Session, text string, matches []temporal.Match) (string, error) {
	title := extractTitle(text, rescheduleTitleRe)
	if title == "" {
		s.flow = AwaitingRescheduleTitle{}
		return replyAskRescheduleTitle, nil
	}

	var newStart time.Time
	resolved := false
	if m := toPhraseRe.FindStringSubmatch(text); m != nil {
		newStart, resolved = r.ext.ResolveDateTime(m[1])
	}
	if !resolved && len(matches) > 0 && !matches[len(matches)-1].DateOnly() {
		newStart, resolved = matches[len(matches)-1].Time, true
	}
	if !resolved {
		// Partial input: remember the title and ask for the rest.
		s.flow = AwaitingRescheduleDateTime{Title: title}
		return replyAskRescheduleWhen, nil
	}

	return r.actions.Reschedule(ctx, title, newStart)
}

func (r *Router) idleDelete(ctx context.Context, s *Session, text string) (string, error) {
	title := extractTitle(text, deleteTitleRe)
	if title == "" {
		s.flow = AwaitingDeleteTitle{}
		return replyAskDeleteTitle, nil
	}

	var date time.Time
	resolved := false
	if m := fromOnPhraseRe.FindStringSubmatch(text); m != nil {
		date, resolved = r.ext.ResolveDateTime(m[1])
	}
	if !resolved {
		s.flow = AwaitingDeleteDateTime{Title: title}
		return replyAskDeleteDate, nil
	}

	return r.actions.Delete(ctx, title, date)
}

func (r *Router) idleBook(s *Session, text string, matches []temporal.Match) (string, error) {
	if len(matches) == 0 {
		s.flow = AwaitingBookingDate{}
		return replyAskBookingDate, nil
	}

	best := matches[0]
	date := timeutil.Midnight(best.Time, r.ext.Location())

	if best.DateOnly() {
		next := AwaitingBookingTime{Date: date}
		if w, ok := temporal.VagueWindow(text); ok {
			next.Window = &w
		}
		s.flow = next
		return askBookingTime(next.Window), nil
	}

	s.flow = AwaitingBookingTitle{Start: best.Time}
	return replyAskTitle, nil
}

func (r *Router) idleAvailability(ctx context.Context, s *Session, matches []temporal.Match) (string, error) {
	var date time.Time
	switch {
	case len(matches) > 0:
		date = timeutil.Midnight(matches[0].Time, r.ext.Location())
	case !s.lastDate.IsZero():
		date = s.lastDate
	default:
		return replyAskCheckDate, ErrParse
	}

	s.lastDate = date
	return r.actions.Availability(ctx, date)
}

func awaitingTitle(f Flow) bool {
	switch f.(type) {
	case AwaitingRescheduleTitle, AwaitingDeleteTitle, AwaitingBookingTitle:
		return true
	}
	return false
}

// flowIntent maps a flow variant to the intent family that started it.
func flowIntent(f Flow) Intent {
	switch f.(type) {
	case AwaitingRescheduleTitle, AwaitingRescheduleDateTime:
		return IntentReschedule
	case AwaitingDeleteTitle, AwaitingDeleteDateTime:
		return IntentDelete
	case AwaitingBookingDate, AwaitingBookingTime, AwaitingBookingTitle:
		return IntentBook
	}
	return IntentUnknown
}

// extractTitle pulls an event title from a quoted span, or from the
// intent verb pattern as a fallback.
func extractTitle(text string, pattern *regexp.Regexp) string {
	if m := quotedTitleRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := pattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
