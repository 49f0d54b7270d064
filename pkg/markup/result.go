// result.go defines the output of a parse: events, tagged text and warnings.
package markup

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// EventKind indicates the kind of a resolved event.
type EventKind int

const (
	EventText  EventKind = iota // literal text run
	EventOpen                   // tag opened
	EventClose                  // tag closed
	EventEmpty                  // self-closing tag, opened and closed in place
	EventIgnore                 // span kept as ignored text
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventOpen:
		return "open"
	case EventClose:
		return "close"
	case EventEmpty:
		return "empty"
	case EventIgnore:
		return "ignore"
	}
	return "unknown"
}

// Event is one structural unit of the resolved document, in document order.
// Start and End delimit the bytes of the input text the event covers; for a
// synthesized close they are equal.
type Event struct {
	Kind  EventKind
	Start int
	End   int
	Tag   *Tag // nil for text runs
}

// Warning records a tag the resolver discarded and why.
type Warning struct {
	Tag    string
	Type   TagType
	Pos    int
	Reason string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Tag == "" {
		return fmt.Sprintf("%d: %s", w.Pos, w.Reason)
	}
	return fmt.Sprintf("%d: %s tag %s: %s", w.Pos, w.Type, w.Tag, w.Reason)
}

// Result is the outcome of parsing one text.
type Result struct {
	Text     string
	Events   []Event
	XML      string // tagged intermediate representation
	Warnings []Warning
}

// AddWarning stores a warning about t and logs it.
func (r *Result) AddWarning(t *Tag, reason string) {
	w := Warning{Tag: t.Name, Type: t.Type, Pos: t.Pos, Reason: reason}
	r.Warnings = append(r.Warnings, w)
	log.Debug().
		Str("tag", t.Name).
		Stringer("type", t.Type).
		Int("pos", t.Pos).
		Str("reason", reason).
		Msg("tag dropped")
}

// addText appends a text run, merging it with a preceding run.
func (r *Result) addText(start, end int) {
	if start >= end {
		return
	}
	if n := len(r.Events); n > 0 && r.Events[n-1].Kind == EventText && r.Events[n-1].End == start {
		r.Events[n-1].End = end
		return
	}
	r.Events = append(r.Events, Event{Kind: EventText, Start: start, End: end})
}

func (r *Result) addEvent(kind EventKind, t *Tag, start, end int) {
	r.Events = append(r.Events, Event{Kind: kind, Start: start, End: end, Tag: t})
}

// Tags returns the tags that made it into the output, in document order of
// their opening.
func (r *Result) Tags() []*Tag {
	var tags []*Tag
	for _, ev := range r.Events {
		if ev.Kind == EventOpen || ev.Kind == EventEmpty {
			tags = append(tags, ev.Tag)
		}
	}
	return tags
}

// IsRich reports whether any markup made it into the output.
func (r *Result) IsRich() bool {
	for _, ev := range r.Events {
		if ev.Kind != EventText {
			return true
		}
	}
	return false
}
