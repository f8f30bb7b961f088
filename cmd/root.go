// Package cmd provides the root command and CLI setup for livetrace.
package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/mouse-blink/livetrace/internal/adapter"
	"github.com/mouse-blink/livetrace/internal/controller"
	"github.com/mouse-blink/livetrace/internal/domain"
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/spf13/cobra"
)

var configAdapter adapter.ConfigAdapter
var starlarkAdapter adapter.StarlarkAdapter
var fsAdapter adapter.SourceFSAdapter

// newWorkflow builds the workflow for one invocation. Tests replace it.
var newWorkflow = defaultWorkflow

func init() {
	configAdapter = adapter.NewLocalConfigAdapter()
	starlarkAdapter = adapter.NewLocalStarlarkAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
}

var keepAliveFlag bool
var parallelFlag int
var formatFlag string
var uiFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "livetrace [paths...]",
		Short: "Trace Starlark programs line by line",
		Long: `Livetrace runs Starlark programs and shows, next to every line, the values
it assigned, the calls that changed an object, the values functions returned
and the errors that stopped the run.

Paths may be files, directories (their *.star files), directories with a
/... suffix (recursively) or - for standard input:
  - script.star    trace one file
  - ./...          trace every *.star file below the current directory
  - -              trace the program read from standard input`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), verboseFlag)
			logger.Debug("configuration loaded", "config", configFlag, "limit", cfg.MessageLimit, "keep_alive", cfg.KeepAlive)

			return newWorkflow(cmd, cfg, logger).Trace(cmd.Context(), domain.TraceArgs{
				Paths:     parsePaths(args),
				Parallel:  cfg.Parallel,
				KeepAlive: cfg.KeepAlive,
			})
		},
	}

	addConfigFlags(cmd)
	cmd.Flags().BoolVar(&keepAliveFlag, "keep-alive", false, "share globals between the given sources, traced in order")
	cmd.Flags().IntVarP(&parallelFlag, "parallel", "p", 1, "number of sources traced at once (0 = GOMAXPROCS)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(m.FormatText), "output format without the interactive UI: text|events|msgpack")
	cmd.Flags().StringVar(&uiFlag, "ui", string(m.UIAuto), "interactive stepper: auto|on|off")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func defaultWorkflow(cmd *cobra.Command, cfg m.Config, logger *slog.Logger) domain.Workflow {
	ui := controller.NewUI(cmd, useTUI(cfg, cmd.OutOrStdout()), cfg.Format)

	return domain.NewWorkflow(fsAdapter, ui, tracerFactory(cfg, logger, cmd.ErrOrStderr()))
}

// tracerFactory binds cfg to domain.NewTracer. Programs print to output.
func tracerFactory(cfg m.Config, logger *slog.Logger, output io.Writer) domain.TracerFactory {
	return func(opts ...domain.TracerOption) (domain.Tracer, error) {
		base := []domain.TracerOption{
			domain.WithMessageLimit(cfg.MessageLimit),
			domain.WithKeepAlive(cfg.KeepAlive),
			domain.WithExcludedFunctions(cfg.ExcludedFunctions...),
			domain.WithReceiver(cfg.Receiver),
			domain.WithModules(cfg.Modules...),
			domain.WithLogger(logger),
			domain.WithOutput(output),
		}

		return domain.NewTracer(starlarkAdapter, newRecorder, append(base, opts...)...)
	}
}

func newRecorder(limit int) domain.Recorder {
	return adapter.NewReportBuilder(limit)
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
