package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod = "method"
	attrPath   = "path"
	attrStatus = "status"
	attrResult = "result"
	attrTool   = "tool"
	attrGrant  = "grant"
	attrTier   = "tier"
)

// Metrics provides methods for recording observability metrics.
// A zero Metrics is valid and records nothing.
type Metrics struct {
	// Callback receiver
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Dept API
	deptAPIRequestsTotal   metric.Int64Counter
	deptAPIRequestDuration metric.Float64Histogram

	// Token lifecycle
	tokenExchangeTotal metric.Int64Counter

	// Budget resolver
	budgetResolutionsTotal metric.Int64Counter

	// MCP tools
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels records exact HTTP status codes instead of status classes
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests served by the OAuth callback receiver"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.deptAPIRequestsTotal, err = meter.Int64Counter(
		"dept_api_requests_total",
		metric.WithDescription("Total number of calls to the Dept time booking API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dept_api_requests_total counter: %w", err)
	}

	m.deptAPIRequestDuration, err = meter.Float64Histogram(
		"dept_api_request_duration_seconds",
		metric.WithDescription("Dept API call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dept_api_request_duration_seconds histogram: %w", err)
	}

	m.tokenExchangeTotal, err = meter.Int64Counter(
		"oauth_token_exchange_total",
		metric.WithDescription("Total number of token exchanges against the Dept token endpoint"),
		metric.WithUnit("{exchange}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_exchange_total counter: %w", err)
	}

	m.budgetResolutionsTotal, err = meter.Int64Counter(
		"budget_resolutions_total",
		metric.WithDescription("Total number of budget resolutions by resolving tier"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget_resolutions_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records a request served by the callback receiver.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDeptAPIRequest records a call to the Dept API.
//
// Parameters:
//   - method: HTTP method
//   - path: low-cardinality path template (see PathTemplate)
//   - statusCode: HTTP status, or 0 when the request never got a response
//   - duration: time taken for the call
func (m *Metrics) RecordDeptAPIRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.deptAPIRequestsTotal == nil || m.deptAPIRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, m.statusLabel(statusCode)),
	}

	m.deptAPIRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.deptAPIRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordTokenExchange records a token exchange attempt.
// Grant is one of GrantGoogle or GrantRefreshToken; result one of the
// OAuthResult constants.
func (m *Metrics) RecordTokenExchange(ctx context.Context, grant, result string) {
	if m == nil || m.tokenExchangeTotal == nil {
		return // Instrumentation not initialized
	}

	m.tokenExchangeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrGrant, grant),
		attribute.String(attrResult, result),
	))
}

// RecordBudgetResolution records which resolver tier produced a result.
func (m *Metrics) RecordBudgetResolution(ctx context.Context, tier string) {
	if m == nil || m.budgetResolutionsTotal == nil {
		return // Instrumentation not initialized
	}

	m.budgetResolutionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrTier, tier)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "book_hours", "check_booked_hours")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// statusLabel returns "error" for transport failures, the exact code with
// detailed labels enabled, and the status class ("2xx", "4xx", ...) otherwise.
func (m *Metrics) statusLabel(code int) string {
	if code <= 0 {
		return StatusError
	}
	if m.detailedLabels {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code/100) + "xx"
}
