package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mouse-blink/livetrace/internal/domain"
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceRequest(arguments map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "trace_code",
			Arguments: arguments,
		},
	}
}

func newTestHandler(keepAlive bool) *traceHandler {
	cfg := m.DefaultConfig()
	logger := slog.New(slog.DiscardHandler)

	return &traceHandler{
		newTracer: tracerFactory(cfg, logger, discard{}),
		keepAlive: keepAlive,
		logger:    logger,
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestTraceHandler_TraceCode(t *testing.T) {
	h := newTestHandler(false)

	result, err := h.traceCode(context.Background(), traceRequest(map[string]any{
		"source": "items = []\nitems.append(3)\n",
	}))
	require.NoError(t, err)

	assert.False(t, result.IsError)
	assert.Equal(t, "items = []\nitems = [3]", resultText(t, result))

	report, ok := result.StructuredContent.(m.Report)
	require.True(t, ok)
	assert.Len(t, report.TraceEvents(), 2)
}

func TestTraceHandler_TraceCode_Limit(t *testing.T) {
	h := newTestHandler(false)

	result, err := h.traceCode(context.Background(), traceRequest(map[string]any{
		"source": "a = 1\nb = 2\nc = 3\n",
		"limit":  float64(2),
	}))
	require.NoError(t, err)

	report, ok := result.StructuredContent.(m.Report)
	require.True(t, ok)

	messages := report.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, 3, messages[0].Line)
}

func TestTraceHandler_TraceCode_MissingSource(t *testing.T) {
	h := newTestHandler(false)

	result, err := h.traceCode(context.Background(), traceRequest(map[string]any{}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
}

func TestTraceHandler_TraceCode_TracerError(t *testing.T) {
	h := &traceHandler{
		newTracer: func(...domain.TracerOption) (domain.Tracer, error) {
			return nil, errors.New("unknown module")
		},
		logger: slog.New(slog.DiscardHandler),
	}

	result, err := h.traceCode(context.Background(), traceRequest(map[string]any{"source": "x = 1\n"}))
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Equal(t, "Failed to create tracer: unknown module", resultText(t, result))
}

func TestTraceHandler_TraceCode_KeepAlive(t *testing.T) {
	h := newTestHandler(true)

	_, err := h.traceCode(context.Background(), traceRequest(map[string]any{
		"source": "def double(n):\n    return n * 2\n",
	}))
	require.NoError(t, err)

	result, err := h.traceCode(context.Background(), traceRequest(map[string]any{
		"source": "x = double(21)\n",
	}))
	require.NoError(t, err)

	assert.Contains(t, resultText(t, result), "x = 42")
}

func TestTraceHandler_TraceCode_SeparateRequests(t *testing.T) {
	h := newTestHandler(false)

	_, err := h.traceCode(context.Background(), traceRequest(map[string]any{
		"source": "def double(n):\n    return n * 2\n",
	}))
	require.NoError(t, err)

	result, err := h.traceCode(context.Background(), traceRequest(map[string]any{
		"source": "x = double(21)\n",
	}))
	require.NoError(t, err)

	assert.Contains(t, resultText(t, result), domain.KindResolveError+": undefined: double")
}

func TestServeCmd(t *testing.T) {
	var served *server.MCPServer

	original := serveStdio
	serveStdio = func(s *server.MCPServer) error {
		served = s
		return nil
	}

	t.Cleanup(func() { serveStdio = original })

	root := newRootCmd()
	root.AddCommand(newServeCmd())
	root.SetArgs([]string{"serve", "--config", t.TempDir() + "/none.toml"})

	require.NoError(t, root.Execute())
	require.NotNil(t, served)

	listed := handleMessage(t, served, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	assert.Contains(t, listed, `"name":"trace_code"`)
}

func TestMCPServer_ToolsCall(t *testing.T) {
	s := newMCPServer(tracerFactory(m.DefaultConfig(), slog.New(slog.DiscardHandler), discard{}), false, slog.New(slog.DiscardHandler))

	response := handleMessage(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call",`+
		`"params":{"name":"trace_code","arguments":{"source":"x = 4 * 8\n"}}}`)

	assert.Contains(t, response, `"text":"x = 32"`)
	assert.Contains(t, response, `"structuredContent":{"events":[`)
}

func handleMessage(t *testing.T, s *server.MCPServer, raw string) string {
	t.Helper()

	response := s.HandleMessage(context.Background(), json.RawMessage(raw))

	out, err := json.Marshal(response)
	require.NoError(t, err)

	return string(out)
}

func TestServeCmd_Error(t *testing.T) {
	original := serveStdio
	serveStdio = func(*server.MCPServer) error {
		return errors.New("stdin closed")
	}

	t.Cleanup(func() { serveStdio = original })

	root := newRootCmd()
	root.AddCommand(newServeCmd())
	root.SetArgs([]string{"serve", "--config", t.TempDir() + "/none.toml"})

	assert.EqualError(t, root.Execute(), "failed to serve: stdin closed")
}
