package dept

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/instrumentation"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/logging"
)

// TokenSource yields a currently valid bearer token for the API.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// CallOptions describe a single API call.
type CallOptions struct {
	// Method defaults to GET.
	Method string
	// Headers are merged into the request. Authorization and Content-Type
	// are always set by the gateway and cannot be overridden.
	Headers map[string]string
	// Body is encoded as JSON when non-nil.
	Body any
}

// GatewayConfig configures a Gateway.
type GatewayConfig struct {
	BaseURL string
	Tokens  TokenSource

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *instrumentation.Metrics
}

// Gateway performs authenticated JSON calls against the API.
type Gateway struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// NewGateway creates a Gateway.
func NewGateway(cfg GatewayConfig) *Gateway {
	g := &Gateway{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens:     cfg.Tokens,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
	if g.httpClient == nil {
		g.httpClient = http.DefaultClient
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// URL returns the absolute URL for an API path.
func (g *Gateway) URL(path string) string {
	return g.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Call performs one API request and returns the parsed JSON body. The result
// is nil for 204 responses and for responses that are not declared as JSON.
// Non-2xx responses yield *APIError.
func (g *Gateway) Call(ctx context.Context, path string, opts CallOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	token, err := g.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	ctx, span := instrumentation.StartDeptAPISpan(ctx, method, path,
		attribute.String(instrumentation.SpanAttrRequestID, requestID))
	defer span.End()

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			instrumentation.SetSpanError(span, err)
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.URL(path), body)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-Id", requestID)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.metrics.RecordDeptAPIRequest(ctx, method, instrumentation.PathTemplate(path), 0, time.Since(start))
		instrumentation.SetSpanError(span, err)
		g.logger.Warn("Dept API request failed",
			logging.Endpoint(method, path),
			slog.String("request_id", requestID),
			logging.Err(err))
		return nil, err
	}
	defer resp.Body.Close()

	g.metrics.RecordDeptAPIRequest(ctx, method, instrumentation.PathTemplate(path), resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int(instrumentation.SpanAttrHTTPStatus, resp.StatusCode))

	data, err := g.readBody(resp)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: data}
		instrumentation.SetSpanError(span, apiErr)
		g.logger.Debug("Dept API returned an error",
			logging.Endpoint(method, path),
			slog.Int("status_code", resp.StatusCode))
		return nil, apiErr
	}

	instrumentation.SetSpanSuccess(span)
	return data, nil
}

// readBody returns the JSON body of resp, or nil when there is none to parse.
// A malformed body is an error only for successful responses.
func (g *Gateway) readBody(resp *http.Response) (json.RawMessage, error) {
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil, fmt.Errorf("failed to decode response: invalid JSON from %s", resp.Request.URL.Path)
		}
		return nil, nil
	}
	return json.RawMessage(data), nil
}
