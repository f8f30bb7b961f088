package domain

import (
	"context"
	"fmt"
	"runtime"

	"github.com/mouse-blink/livetrace/internal/adapter"
	"github.com/mouse-blink/livetrace/internal/controller"
	m "github.com/mouse-blink/livetrace/internal/model"
	"golang.org/x/sync/errgroup"
)

// TraceArgs holds the arguments of a tracing run.
type TraceArgs struct {
	Paths []m.Path
	// Parallel bounds the number of sources traced at once; zero or less
	// uses GOMAXPROCS. Ignored with KeepAlive.
	Parallel int
	// KeepAlive traces the sources one after the other through a single
	// Tracer, so later sources see the globals of earlier ones.
	KeepAlive bool
}

// TracerFactory creates the Tracer used by a run.
type TracerFactory func(opts ...TracerOption) (Tracer, error)

// Workflow defines the interface for tracing operations.
type Workflow interface {
	Trace(ctx context.Context, args TraceArgs) error
}

type workflow struct {
	fsAdapter adapter.SourceFSAdapter
	ui        controller.UI
	newTracer TracerFactory
}

// NewWorkflow creates a new Workflow instance reading sources through
// fsAdapter and displaying reports on ui.
func NewWorkflow(fsAdapter adapter.SourceFSAdapter, ui controller.UI, newTracer TracerFactory) Workflow {
	return &workflow{
		fsAdapter: fsAdapter,
		ui:        ui,
		newTracer: newTracer,
	}
}

// Trace collects the sources named by args.Paths, traces each of them and
// hands the results, in argument order, to the UI.
func (w *workflow) Trace(ctx context.Context, args TraceArgs) error {
	sources, err := w.fsAdapter.Get(args.Paths)
	if err != nil {
		return fmt.Errorf("failed to collect sources: %w", err)
	}

	tracer, err := w.newTracer(WithKeepAlive(args.KeepAlive))
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	var results []m.FileResult
	if args.KeepAlive {
		results, err = traceSequential(ctx, tracer, sources)
	} else {
		results, err = traceParallel(ctx, tracer, sources, args.Parallel)
	}

	if err != nil {
		return err
	}

	if err := w.ui.DisplayReports(results); err != nil {
		return fmt.Errorf("failed to display reports: %w", err)
	}

	return nil
}

func traceSequential(ctx context.Context, tracer Tracer, sources []m.Source) ([]m.FileResult, error) {
	results := make([]m.FileResult, 0, len(sources))

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results = append(results, m.FileResult{Source: source, Report: tracer.Trace(source)})
	}

	return results, nil
}

func traceParallel(ctx context.Context, tracer Tracer, sources []m.Source, parallel int) ([]m.FileResult, error) {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	// each goroutine writes its own index
	results := make([]m.FileResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(parallel, len(sources))))

	for i, source := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = m.FileResult{Source: source, Report: tracer.Trace(source)}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
