package model

// Phase is a stage of a single trace request.
type Phase uint8

// Phases in the order a successful request passes through them. A failing
// request jumps straight to PhaseReporting.
const (
	PhaseParsing Phase = iota + 1
	PhaseRewriting
	PhaseCompiling
	PhaseExecuting
	PhaseReporting
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseParsing:
		return "parsing"
	case PhaseRewriting:
		return "rewriting"
	case PhaseCompiling:
		return "compiling"
	case PhaseExecuting:
		return "executing"
	case PhaseReporting:
		return "reporting"
	default:
		return "unknown"
	}
}
