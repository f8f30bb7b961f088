package instrument

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

func testFileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{Set: true, While: true, TopLevelControl: true, GlobalReassign: true, Recursion: true}
}

// recording collects the notifications of an instrumented run as strings.
type recording struct {
	events []string
}

func (rec *recording) handle() starlark.Value {
	return starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		MethodAssign: starlark.NewBuiltin(MethodAssign, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var label string
			var value starlark.Value
			var line int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 3, &label, &value, &line); err != nil {
				return nil, err
			}
			rec.events = append(rec.events, fmt.Sprintf("assign %s=%s @%d", label, value, line))
			return starlark.None, nil
		}),
		MethodRecordCall: starlark.NewBuiltin(MethodRecordCall, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var label, before, after string
			var result starlark.Value
			var line int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 5, &label, &before, &result, &after, &line); err != nil {
				return nil, err
			}
			rec.events = append(rec.events, fmt.Sprintf("call %s %s->%s @%d", label, before, after, line))
			return result, nil
		}),
		MethodStartBlock: starlark.NewBuiltin(MethodStartBlock, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var first, last int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &first, &last); err != nil {
				return nil, err
			}
			rec.events = append(rec.events, fmt.Sprintf("block %d-%d", first, last))
			return starlark.None, nil
		}),
		MethodReturnValue: starlark.NewBuiltin(MethodReturnValue, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var value starlark.Value
			var line int
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &value, &line); err != nil {
				return nil, err
			}
			rec.events = append(rec.events, fmt.Sprintf("return %s @%d", value, line))
			return starlark.None, nil
		}),
		MethodRepr: starlark.NewBuiltin(MethodRepr, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var value starlark.Value
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
				return nil, err
			}
			return starlark.String(value.String()), nil
		}),
	})
}

// rewriteSource parses and instruments src, ready for compilation.
func rewriteSource(t *testing.T, src string, opts ...Option) *syntax.File {
	t.Helper()

	f, err := testFileOptions().Parse("test.star", src, syntax.RetainComments)
	require.NoError(t, err)
	require.NoError(t, New(opts...).Rewrite(f))
	FixMissingPositions(f)

	return f
}

// traceSource instruments and runs src, returning the recorded events and
// the resulting globals.
func traceSource(t *testing.T, src string, env starlark.StringDict, opts ...Option) ([]string, starlark.StringDict) {
	t.Helper()

	rec, globals, err := execSource(t, src, env, opts...)
	require.NoError(t, err)

	return rec.events, globals
}

func execSource(t *testing.T, src string, env starlark.StringDict, opts ...Option) (*recording, starlark.StringDict, error) {
	t.Helper()

	f := rewriteSource(t, src, opts...)
	rec := &recording{}

	predeclared := starlark.StringDict{RecorderName: rec.handle()}
	for name, value := range env {
		predeclared[name] = value
	}

	prog, err := starlark.FileProgram(f, predeclared.Has)
	require.NoError(t, err)

	globals, err := prog.Init(&starlark.Thread{Name: "test"}, predeclared)

	return rec, globals, err
}

// plainRun executes src without instrumentation.
func plainRun(t *testing.T, src string, env starlark.StringDict) starlark.StringDict {
	t.Helper()

	globals, err := starlark.ExecFileOptions(testFileOptions(), &starlark.Thread{Name: "plain"}, "test.star", src, env)
	require.NoError(t, err)

	return globals
}

// settable is a mutable object whose setter transforms the stored value.
type settable struct {
	fields map[string]starlark.Value
}

var (
	_ starlark.HasAttrs    = (*settable)(nil)
	_ starlark.HasSetField = (*settable)(nil)
)

func newSettable() *settable {
	return &settable{fields: map[string]starlark.Value{}}
}

func (s *settable) String() string        { return "settable" }
func (s *settable) Type() string          { return "settable" }
func (s *settable) Freeze()               {}
func (s *settable) Truth() starlark.Bool  { return starlark.True }
func (s *settable) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: settable") }

func (s *settable) Attr(name string) (starlark.Value, error) {
	return s.fields[name], nil
}

func (s *settable) AttrNames() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (s *settable) SetField(name string, v starlark.Value) error {
	s.fields[name] = starlark.String("set:" + v.String())

	return nil
}
