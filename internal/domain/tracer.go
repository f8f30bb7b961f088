package domain

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mouse-blink/livetrace/internal/adapter"
	"github.com/mouse-blink/livetrace/internal/domain/instrument"
	m "github.com/mouse-blink/livetrace/internal/model"
	"go.starlark.net/starlark"
)

// ModuleName is the value of __name__ seen by traced programs.
const ModuleName = "__live_coding__"

// Tracer runs sources through instrumentation and returns their reports.
// Trace never fails: parse errors, runtime errors, rewriter defects and
// panics all end up as messages in the report.
type Tracer interface {
	Trace(source m.Source) m.Report
}

// TracerOption configures a Tracer.
type TracerOption func(*tracer)

// WithMessageLimit sets the per-request message quota; zero or less
// disables it.
func WithMessageLimit(limit int) TracerOption {
	return func(t *tracer) {
		t.limit = limit
	}
}

// WithKeepAlive retains the environment, including the globals a program
// defined, from one Trace call to the next. Calls must then be serialized
// by the caller.
func WithKeepAlive(keepAlive bool) TracerOption {
	return func(t *tracer) {
		t.keepAlive = keepAlive
	}
}

// WithExcludedFunctions replaces the names of functions left uninstrumented.
func WithExcludedFunctions(names ...string) TracerOption {
	return func(t *tracer) {
		t.rewriterOpts = append(t.rewriterOpts, instrument.WithExcludedFunctions(names...))
	}
}

// WithReceiver sets the name of the leading parameter not traced on entry.
func WithReceiver(name string) TracerOption {
	return func(t *tracer) {
		t.rewriterOpts = append(t.rewriterOpts, instrument.WithReceiver(name))
	}
}

// WithPredeclared adds values visible to every traced program.
func WithPredeclared(values starlark.StringDict) TracerOption {
	return func(t *tracer) {
		for name, value := range values {
			t.predeclared[name] = value
		}
	}
}

// WithModules predeclares library modules by name, e.g. "math" or "json".
func WithModules(names ...string) TracerOption {
	return func(t *tracer) {
		t.modules = append(t.modules, names...)
	}
}

// WithLogger sets the logger used for phase transitions and defects.
func WithLogger(logger *slog.Logger) TracerOption {
	return func(t *tracer) {
		t.logger = logger
	}
}

// WithOutput sets where the print builtin writes.
func WithOutput(w io.Writer) TracerOption {
	return func(t *tracer) {
		t.output = w
	}
}

type tracer struct {
	starlarkAdapter adapter.StarlarkAdapter
	newRecorder     RecorderFactory
	rewriter        *instrument.Rewriter
	rewriterOpts    []instrument.Option
	limit           int
	keepAlive       bool
	modules         []string
	predeclared     starlark.StringDict
	logger          *slog.Logger
	output          io.Writer

	// env is the retained environment when keepAlive is set.
	env starlark.StringDict
}

// NewTracer creates a Tracer that parses and runs code through starlarkAdapter
// and reports to a recorder created per request by newRecorder.
func NewTracer(starlarkAdapter adapter.StarlarkAdapter, newRecorder RecorderFactory, opts ...TracerOption) (Tracer, error) {
	t := &tracer{
		starlarkAdapter: starlarkAdapter,
		newRecorder:     newRecorder,
		limit:           m.DefaultMessageLimit,
		predeclared:     starlark.StringDict{},
		logger:          slog.New(slog.DiscardHandler),
		output:          io.Discard,
	}

	for _, opt := range opts {
		opt(t)
	}

	modules, err := starlarkAdapter.Modules(t.modules...)
	if err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}

	for name, module := range modules {
		t.predeclared[name] = module
	}

	t.predeclared["__name__"] = starlark.String(ModuleName)
	t.rewriter = instrument.New(t.rewriterOpts...)

	return t, nil
}

func (t *tracer) Trace(source m.Source) m.Report {
	filename := source.Filename()
	rec := t.newRecorder(t.limit)

	if err := t.safeRun(source, rec); err != nil {
		t.recordFault(rec, err, filename)
	}

	t.logger.Debug("trace phase", "source", filename, "phase", m.PhaseReporting)

	return rec.Report()
}

// safeRun turns a panic anywhere in the pipeline into an error.
func (t *tracer) safeRun(source m.Source, rec Recorder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()

	return t.run(source, rec)
}

func (t *tracer) run(source m.Source, rec Recorder) error {
	filename := source.Filename()

	t.enter(m.PhaseParsing, filename)

	f, err := t.starlarkAdapter.Parse(filename, source.Text)
	if err != nil {
		return err
	}

	t.enter(m.PhaseRewriting, filename)

	if err := t.rewriter.Rewrite(f); err != nil {
		return fmt.Errorf("failed to instrument %s: %w", filename, err)
	}

	t.enter(m.PhaseCompiling, filename)
	instrument.FixMissingPositions(f)

	env := t.environment(rec)

	prog, err := t.starlarkAdapter.Compile(f, env.Has)
	if err != nil {
		return err
	}

	t.enter(m.PhaseExecuting, filename)

	thread := &starlark.Thread{Name: filename, Print: t.print}
	globals, err := t.starlarkAdapter.Run(prog, thread, env)

	if t.keepAlive {
		t.retain(env, globals)
	}

	return err
}

// environment returns the predeclared names for one run, binding the
// request's recorder under the reserved name.
func (t *tracer) environment(rec Recorder) starlark.StringDict {
	var env starlark.StringDict

	if t.keepAlive && t.env != nil {
		env = t.env
	} else {
		env = make(starlark.StringDict, len(t.predeclared)+1)
		for name, value := range t.predeclared {
			env[name] = value
		}
	}

	env[instrument.RecorderName] = newRecorderHandle(rec)

	return env
}

func (t *tracer) retain(env, globals starlark.StringDict) {
	for name, value := range globals {
		env[name] = value
	}

	t.env = env
}

func (t *tracer) print(_ *starlark.Thread, msg string) {
	_, _ = fmt.Fprintln(t.output, msg)
}

func (t *tracer) enter(phase m.Phase, filename string) {
	t.logger.Debug("trace phase", "source", filename, "phase", phase)
}

// recordFault converts err into report messages. Only value copies of the
// fault outlive this call.
func (t *tracer) recordFault(rec Recorder, err error, filename string) {
	if fault, ok := asSyntaxFault(err); ok {
		t.logger.Debug("source rejected", "source", filename, "line", fault.Line, "error", fault.Error())
		t.addMessage(rec, fault.Error(), fault.Line)

		return
	}

	rec.SetMessageLimit(0)

	if errors.Is(err, instrument.ErrUnsupportedNode) || errors.Is(err, ErrTracerPanic) {
		t.logger.Error("trace failed", "source", filename, "error", err)
	} else {
		t.logger.Debug("program raised", "source", filename, "error", err)
	}

	fault := newRuntimeFault(err, filename)
	for _, line := range fault.Lines {
		t.addMessage(rec, fault.Msg, line)
	}
}

func (t *tracer) addMessage(rec Recorder, text string, line int) {
	if err := rec.AddMessage(text, line); err != nil {
		t.logger.Error("failed to record message", "line", line, "error", err)
	}
}
