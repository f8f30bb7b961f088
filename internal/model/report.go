package model

import "strings"

// Report is the materialized output of a recorder.
type Report struct {
	Events []Event `msgpack:"events" json:"events"`
	// Lines holds the message column for each source line, index 0 is line 1.
	Lines []string `msgpack:"lines" json:"lines"`
}

// String renders the message column, one source line per output line.
func (r Report) String() string {
	lines := make([]string, len(r.Lines))
	for i, line := range r.Lines {
		lines[i] = strings.TrimRight(line, " ")
	}

	return strings.Join(lines, "\n")
}

// TraceEvents returns the events produced by instrumentation, in order.
func (r Report) TraceEvents() []Event {
	var events []Event

	for _, ev := range r.Events {
		if ev.IsTrace() {
			events = append(events, ev)
		}
	}

	return events
}

// Messages returns the diagnostic message events, in order.
func (r Report) Messages() []Event {
	var events []Event

	for _, ev := range r.Events {
		if ev.Kind == EventMessage {
			events = append(events, ev)
		}
	}

	return events
}

// FileResult holds the trace report for a single source.
type FileResult struct {
	Source Source `msgpack:"source"`
	Report Report `msgpack:"report"`
}
