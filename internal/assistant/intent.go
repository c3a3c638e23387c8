package assistant

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of an idle-state utterance.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentReschedule
	IntentDelete
	IntentBook
	IntentAvailability
	IntentGreeting
	IntentHelp
)

func (i Intent) String() string {
	switch i {
	case IntentReschedule:
		return "reschedule"
	case IntentDelete:
		return "delete"
	case IntentBook:
		return "book"
	case IntentAvailability:
		return "availability"
	case IntentGreeting:
		return "greeting"
	case IntentHelp:
		return "help"
	default:
		return "unknown"
	}
}

// actionable reports whether the intent performs or prepares a calendar
// operation, as opposed to chit-chat.
func (i Intent) actionable() bool {
	switch i {
	case IntentReschedule, IntentDelete, IntentBook, IntentAvailability:
		return true
	}
	return false
}

type matchMode int

const (
	matchSubstring matchMode = iota
	matchWord
)

// intentRule maps a keyword set to an intent. Rules are evaluated in
// table order and the first hit wins, so the ordering below is part of
// the contract: reschedule and delete precede book, otherwise
// "reschedule X to friday" would start a fresh booking.
type intentRule struct {
	intent   Intent
	mode     matchMode
	keywords []string
}

var intentRules = []intentRule{
	{IntentAvailability, matchSubstring, []string{
		"availability", "available", "free", "slots",
		"check my calendar", "check availability",
		"what's open", "open times", "free times",
		"calendar openings", "any slot", "do i have time",
		"can i book", "am i free", "is my calendar free",
	}},
	{IntentReschedule, matchSubstring, []string{
		"reschedule", "change", "postpone",
		"shift", "delay", "update", "edit", "modify",
		"adjust", "rearrange", "push back", "bring forward",
		"change the time", "resched",
	}},
	// Word-boundary matching: "move" must not fire inside "remove".
	{IntentReschedule, matchWord, []string{"move"}},
	{IntentDelete, matchSubstring, []string{
		"delete", "remove", "cancel", "clear", "discard",
		"drop", "terminate", "erase",
		"get rid of", "trash", "unschedule",
	}},
	{IntentBook, matchSubstring, []string{
		"book", "schedule", "meeting", "set up", "add",
		"lock", "event", "create", "plan", "make appointment",
		"put on calendar", "register", "arrange", "organize",
		"invite", "block time", "set meeting", "new meeting",
	}},
	// Word-boundary matching: "hi" must not fire inside "this".
	{IntentGreeting, matchWord, []string{"hi", "hello", "hey"}},
	{IntentHelp, matchSubstring, []string{
		"what can you do", "help", "who are you", "abilities", "features",
	}},
}

var wordMatchers = buildWordMatchers()

func buildWordMatchers() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, rule := range intentRules {
		if rule.mode != matchWord {
			continue
		}
		for _, kw := range rule.keywords {
			out[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return out
}

// ClassifyIntent matches text against the rule table, case-insensitively,
// in table order.
func ClassifyIntent(text string) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return IntentUnknown
	}

	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if rule.mode == matchWord {
				if wordMatchers[kw].MatchString(lower) {
					return rule.intent
				}
				continue
			}
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}
