package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mouse-blink/livetrace/internal/domain"
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/spf13/cobra"
)

// Version is reported to MCP clients.
var Version = "dev"

// serveStdio runs s until stdin closes. Tests replace it.
var serveStdio = func(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// serveCmd represents the serve command.
var serveCmd = newServeCmd()

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trace_code tool over MCP on stdio",
		Long: `Serve runs a Model Context Protocol server on stdin/stdout exposing a
trace_code tool that traces a Starlark program and returns its report.

With keep_alive = true in the configuration file, globals defined by one
call stay visible to the next.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), verboseFlag)

			// stdout carries the protocol, so programs print to stderr
			s := newMCPServer(tracerFactory(cfg, logger, cmd.ErrOrStderr()), cfg.KeepAlive, logger)
			if err := serveStdio(s); err != nil {
				return fmt.Errorf("failed to serve: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newMCPServer(newTracer domain.TracerFactory, keepAlive bool, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"livetrace",
		Version,
		server.WithToolCapabilities(false),
	)

	h := &traceHandler{newTracer: newTracer, keepAlive: keepAlive, logger: logger}

	traceTool := mcp.NewTool("trace_code",
		mcp.WithDescription("Run a Starlark program and report, line by line, the values it assigned, "+
			"the calls that changed an object, function returns and the error that stopped it, if any. "+
			"The structured result lists every event in order; the text result is the message column."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Starlark source code to trace")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of messages before the run is stopped (0 = server default). "+
			"Ignored when the server keeps globals between calls.")),
	)
	s.AddTool(traceTool, h.traceCode)

	return s
}

// traceHandler serves trace_code. With keepAlive all calls share one
// Tracer, one at a time.
type traceHandler struct {
	newTracer domain.TracerFactory
	keepAlive bool
	logger    *slog.Logger

	mu     sync.Mutex
	shared domain.Tracer
}

func (h *traceHandler) traceCode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := h.trace(m.NewSource(source), request.GetInt("limit", 0))
	if err != nil {
		h.logger.Error("trace_code failed", "error", err)
		return mcp.NewToolResultError("Failed to create tracer: " + err.Error()), nil
	}

	return mcp.NewToolResultStructured(report, report.String()), nil
}

func (h *traceHandler) trace(source m.Source, limit int) (m.Report, error) {
	if h.keepAlive {
		h.mu.Lock()
		defer h.mu.Unlock()

		if h.shared == nil {
			tracer, err := h.newTracer(domain.WithKeepAlive(true))
			if err != nil {
				return m.Report{}, err
			}

			h.shared = tracer
		}

		return h.shared.Trace(source), nil
	}

	var opts []domain.TracerOption
	if limit > 0 {
		opts = append(opts, domain.WithMessageLimit(limit))
	}

	tracer, err := h.newTracer(opts...)
	if err != nil {
		return m.Report{}, err
	}

	return tracer.Trace(source), nil
}
