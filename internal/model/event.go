package model

// EventKind represents the type of trace event.
type EventKind string

const (
	// EventAssign records the value bound to a name, attribute or container.
	EventAssign EventKind = "assign"
	// EventCall records a qualified method call and its receiver snapshots.
	EventCall EventKind = "call"
	// EventStartBlock marks entry into a function, lambda or loop.
	EventStartBlock EventKind = "start_block"
	// EventReturn records the value a function returned.
	EventReturn EventKind = "return"
	// EventMessage is free text, used for diagnostics.
	EventMessage EventKind = "message"
)

// Event is one notification received by a recorder.
type Event struct {
	Seq       uint64    `msgpack:"seq" json:"seq"`
	Kind      EventKind `msgpack:"kind" json:"kind"`
	Line      int       `msgpack:"line,omitempty" json:"line,omitempty"`
	Label     string    `msgpack:"label,omitempty" json:"label,omitempty"`
	Value     string    `msgpack:"value,omitempty" json:"value,omitempty"`
	Before    string    `msgpack:"before,omitempty" json:"before,omitempty"`
	After     string    `msgpack:"after,omitempty" json:"after,omitempty"`
	FirstLine int       `msgpack:"first_line,omitempty" json:"first_line,omitempty"`
	LastLine  int       `msgpack:"last_line,omitempty" json:"last_line,omitempty"`
	Text      string    `msgpack:"text,omitempty" json:"text,omitempty"`
}

// IsTrace reports whether the event came from instrumentation rather than
// from a diagnostic message.
func (e Event) IsTrace() bool {
	return e.Kind != EventMessage
}
