// Package instrumentation provides OpenTelemetry instrumentation for the
// hour booking MCP server.
//
// # Metrics
//
// MCP tools:
//   - mcp_tool_invocations_total: tool invocations by tool name and status
//   - mcp_tool_duration_seconds: tool execution durations
//
// Dept API:
//   - dept_api_requests_total: calls by method, path template and status class
//   - dept_api_request_duration_seconds: call durations
//
// Token lifecycle and budget resolution:
//   - oauth_token_exchange_total: token endpoint exchanges by grant and result
//   - budget_resolutions_total: resolutions by the tier that produced the budget
//
// OAuth callback receiver:
//   - http_requests_total, http_request_duration_seconds
//
// # Tracing
//
// Spans are created for tool invocations (tool.<name>), Dept API calls
// (dept.<method> <path template>) and token exchanges (auth.exchange.<grant>).
//
// # Configuration
//
// DefaultConfig reads:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: dept-hour-booking-mcp)
//   - METRICS_DETAILED_LABELS, AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_ARGUMENTS
//
// The stdout exporters write to stderr because stdout carries the stdio transport.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordDeptAPIRequest(ctx, "GET", "/budgets/search", 200, time.Since(start))
package instrumentation
