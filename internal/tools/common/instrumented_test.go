package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/instrumentation"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc := server.NewServerContext(context.Background(), server.Options{})
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc := newTestServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", sc, handler)
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	assert.True(t, called)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	sc := newTestServerContext(t)

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	wrapped := InstrumentedToolHandler("test_tool", sc, handler)
	_, err := wrapped(context.Background(), mcp.CallToolRequest{})

	assert.Equal(t, expectedErr, err)
}

func TestInstrumentedToolHandler_WithMetrics(t *testing.T) {
	sc := newTestServerContext(t)

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
	require.NoError(t, err)
	sc.SetMetrics(metrics)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("success"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", sc, handler)
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestInstrumentedToolHandler_AuditLog(t *testing.T) {
	tests := []struct {
		name        string
		result      *mcp.CallToolResult
		err         error
		wantMessage string
		wantLevel   string
		wantError   string
	}{
		{
			name:        "success",
			result:      mcp.NewToolResultText("ok"),
			wantMessage: "tool_executed",
			wantLevel:   "INFO",
		},
		{
			name:        "error result",
			result:      mcp.NewToolResultError("Budget ID is required"),
			wantMessage: "tool_failed",
			wantLevel:   "WARN",
			wantError:   "Budget ID is required",
		},
		{
			name:        "handler error",
			err:         errors.New("boom"),
			wantMessage: "tool_failed",
			wantLevel:   "WARN",
			wantError:   "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t)

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			sc.SetAuditLogger(instrumentation.NewAuditLogger(logger))

			handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return tt.result, tt.err
			}

			wrapped := InstrumentedToolHandler("book_hours", sc, handler)
			_, _ = wrapped(context.Background(), mcp.CallToolRequest{})

			out := buf.String()
			assert.Contains(t, out, "msg="+tt.wantMessage)
			assert.Contains(t, out, "level="+tt.wantLevel)
			assert.Contains(t, out, "book_hours")
			if tt.wantError != "" {
				assert.Contains(t, out, tt.wantError)
			}
		})
	}
}

func TestResultText(t *testing.T) {
	assert.Equal(t, "hello", resultText(mcp.NewToolResultText("hello")))
	assert.Equal(t, "", resultText(&mcp.CallToolResult{}))
}
