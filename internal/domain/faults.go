package domain

import (
	"errors"
	"fmt"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	// ErrTracerPanic wraps a panic recovered while tracing a source.
	ErrTracerPanic = errors.New("tracer panicked")

	errUnhashableRecorder = errors.New("unhashable type: recorder")
)

// Fault kinds used as the prefix of a SyntaxFault message.
const (
	KindSyntaxError  = "SyntaxError"
	KindResolveError = "ResolveError"
)

// SyntaxFault is source that could not be parsed or resolved. It carries
// only the first error.
type SyntaxFault struct {
	Kind string
	Line int
	Msg  string
}

func (f SyntaxFault) Error() string {
	return f.Kind + ": " + f.Msg
}

// RuntimeFault is an error raised while the instrumented program ran. Lines
// lists, outermost first, the lines of every frame that belongs to the
// traced source.
type RuntimeFault struct {
	Msg   string
	Lines []int
}

func (f RuntimeFault) Error() string {
	return f.Msg
}

// asSyntaxFault extracts the first scanner, parser or resolver error.
func asSyntaxFault(err error) (SyntaxFault, bool) {
	var parseErr syntax.Error
	if errors.As(err, &parseErr) {
		return SyntaxFault{Kind: KindSyntaxError, Line: faultLine(parseErr.Pos), Msg: parseErr.Msg}, true
	}

	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) && len(resolveErrs) > 0 {
		first := resolveErrs[0]

		return SyntaxFault{Kind: KindResolveError, Line: faultLine(first.Pos), Msg: first.Msg}, true
	}

	return SyntaxFault{}, false
}

// newRuntimeFault copies the message and the frame lines attributable to
// filename out of err. Errors without a call stack, such as rewriter
// defects, fall back to line 1.
func newRuntimeFault(err error, filename string) RuntimeFault {
	fault := RuntimeFault{Msg: err.Error()}

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		fault.Msg = evalErr.Msg

		for _, frame := range evalErr.CallStack {
			if frame.Pos.Filename() == filename && frame.Pos.Line > 0 {
				fault.Lines = append(fault.Lines, int(frame.Pos.Line))
			}
		}
	}

	if len(fault.Lines) == 0 {
		fault.Lines = []int{1}
	}

	return fault
}

func faultLine(pos syntax.Position) int {
	if pos.Line < 1 {
		return 1
	}

	return int(pos.Line)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrTracerPanic, err)
	}

	return fmt.Errorf("%w: %v", ErrTracerPanic, r)
}
