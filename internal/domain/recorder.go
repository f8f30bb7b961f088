package domain

import (
	"sort"

	"github.com/mouse-blink/livetrace/internal/domain/instrument"
	m "github.com/mouse-blink/livetrace/internal/model"
	"go.starlark.net/starlark"
)

// Recorder receives the notifications of one instrumented run and builds
// its report. Implementations enforce the message quota: once it is
// exhausted, message-producing calls return an error, which aborts the run.
type Recorder interface {
	RecordCall(label, before string, result starlark.Value, after string, line int) error
	Assign(label string, value starlark.Value, line int) error
	StartBlock(first, last int) error
	ReturnValue(value starlark.Value, line int) error
	AddMessage(text string, line int) error
	// SetMessageLimit changes the quota; zero or less disables it.
	SetMessageLimit(limit int)
	Report() m.Report
}

// RecorderFactory creates a fresh Recorder for a single request.
type RecorderFactory func(limit int) Recorder

// recorderHandle exposes a Recorder to instrumented code under
// instrument.RecorderName.
type recorderHandle struct {
	recorder Recorder
	methods  starlark.StringDict
}

var _ starlark.HasAttrs = (*recorderHandle)(nil)

func newRecorderHandle(recorder Recorder) *recorderHandle {
	h := &recorderHandle{recorder: recorder}
	h.methods = starlark.StringDict{
		instrument.MethodAssign:      starlark.NewBuiltin(instrument.MethodAssign, h.assign),
		instrument.MethodRecordCall:  starlark.NewBuiltin(instrument.MethodRecordCall, h.recordCall),
		instrument.MethodStartBlock:  starlark.NewBuiltin(instrument.MethodStartBlock, h.startBlock),
		instrument.MethodReturnValue: starlark.NewBuiltin(instrument.MethodReturnValue, h.returnValue),
		instrument.MethodRepr:        starlark.NewBuiltin(instrument.MethodRepr, h.repr),
	}

	return h
}

func (h *recorderHandle) String() string        { return "<recorder>" }
func (h *recorderHandle) Type() string          { return "recorder" }
func (h *recorderHandle) Freeze()               {}
func (h *recorderHandle) Truth() starlark.Bool  { return starlark.True }
func (h *recorderHandle) Hash() (uint32, error) { return 0, errUnhashableRecorder }

func (h *recorderHandle) Attr(name string) (starlark.Value, error) {
	if method, ok := h.methods[name]; ok {
		return method, nil
	}

	return nil, nil
}

func (h *recorderHandle) AttrNames() []string {
	names := make([]string, 0, len(h.methods))
	for name := range h.methods {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (h *recorderHandle) assign(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		label string
		value starlark.Value
		line  int
	)

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &label, &value, &line); err != nil {
		return nil, err
	}

	if err := h.recorder.Assign(label, value, line); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

// recordCall returns the call result it was handed, so the wrapped call
// keeps its value.
func (h *recorderHandle) recordCall(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		label, before, after string
		result               starlark.Value
		line                 int
	)

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 5, &label, &before, &result, &after, &line); err != nil {
		return nil, err
	}

	if err := h.recorder.RecordCall(label, before, result, after, line); err != nil {
		return nil, err
	}

	return result, nil
}

func (h *recorderHandle) startBlock(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var first, last int

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &first, &last); err != nil {
		return nil, err
	}

	if err := h.recorder.StartBlock(first, last); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func (h *recorderHandle) returnValue(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		value starlark.Value
		line  int
	)

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &value, &line); err != nil {
		return nil, err
	}

	if err := h.recorder.ReturnValue(value, line); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

// repr snapshots a receiver. It lives on the handle so that user code
// rebinding the universal repr cannot change the snapshots.
func (h *recorderHandle) repr(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value

	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}

	return starlark.String(value.String()), nil
}
