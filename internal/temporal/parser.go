package temporal

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Candidate is a raw (matched substring, resolved time) pair from the
// natural-language parser, before any disambiguation.
type Candidate struct {
	Text string
	Time time.Time
}

// Parser is the natural-language date parsing capability the Extractor
// consumes. Base carries both the reference instant and the location;
// callers pass midnight of the reference day so that a resolved midnight
// means "date only, no time given".
type Parser interface {
	ParseSingle(text string, base time.Time, futureBias bool) (time.Time, bool)
	SearchAll(text string, base time.Time) []Candidate
}

// maxSearchPasses caps how many matches SearchAll extracts from one
// utterance. Real utterances carry one or two temporal phrases.
const maxSearchPasses = 4

// WhenParser implements Parser on top of olebedev/when with the English
// and common rule sets.
type WhenParser struct {
	w *when.Parser
}

func NewWhenParser() *WhenParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &WhenParser{w: w}
}

func (p *WhenParser) ParseSingle(text string, base time.Time, futureBias bool) (time.Time, bool) {
	r, err := p.w.Parse(text, base)
	if err != nil || r == nil {
		return time.Time{}, false
	}

	t := r.Time
	if futureBias && t.Before(base) {
		// Prefer the nearest future day carrying the same clock time.
		days := int(base.Sub(t).Hours()/24) + 1
		t = t.AddDate(0, 0, days)
		for t.Before(base) {
			t = t.AddDate(0, 0, 1)
		}
	}
	return t, true
}

func (p *WhenParser) SearchAll(text string, base time.Time) []Candidate {
	var out []Candidate

	remaining := text
	for i := 0; i < maxSearchPasses; i++ {
		r, err := p.w.Parse(remaining, base)
		if err != nil || r == nil {
			break
		}

		out = append(out, Candidate{Text: r.Text, Time: r.Time})

		cut := r.Index + len(r.Text)
		if cut >= len(remaining) {
			break
		}
		remaining = remaining[cut:]
	}
	return out
}
