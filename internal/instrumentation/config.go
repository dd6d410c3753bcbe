package instrumentation

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultServiceName is reported as service.name unless OTEL_SERVICE_NAME is set.
const DefaultServiceName = "dept-hour-booking-mcp"

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: dept-hour-booking-mcp)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// ServiceInstanceID is the unique instance identifier (default: hostname)
	ServiceInstanceID string

	// Enabled determines if instrumentation is active (default: true)
	Enabled bool

	// MetricsExporter is one of "prometheus", "otlp", "stdout" (default: "prometheus")
	MetricsExporter string

	// TracingExporter is one of "otlp", "stdout", "none" (default: "none")
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint without protocol prefix,
	// e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure exports over plain HTTP. Only for local collectors.
	OTLPInsecure bool

	// TraceSamplingRate is the sampling rate for traces (0.0 to 1.0, default: 0.1)
	TraceSamplingRate float64

	// PrometheusEndpoint is the path for the Prometheus metrics endpoint (default: "/metrics")
	PrometheusEndpoint string

	// DetailedLabels records exact HTTP status codes on Dept API metrics
	// instead of status classes.
	DetailedLabels bool

	// AuditLogging configures audit logging behavior.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool

	// IncludeArguments adds the raw tool arguments to audit records.
	// Descriptions are free text typed by the user, so this is off by default.
	IncludeArguments bool
}

// Environment variables read by DefaultConfig.
const (
	envServiceName      = "OTEL_SERVICE_NAME"
	envServiceInstance  = "OTEL_SERVICE_INSTANCE_ID"
	envEnabled          = "INSTRUMENTATION_ENABLED"
	envMetricsExporter  = "METRICS_EXPORTER"
	envTracingExporter  = "TRACING_EXPORTER"
	envOTLPEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOTLPInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	envSamplingRate     = "OTEL_TRACES_SAMPLER_ARG"
	envPrometheusPath   = "PROMETHEUS_ENDPOINT"
	envDetailedLabels   = "METRICS_DETAILED_LABELS"
	envAuditEnabled     = "AUDIT_LOGGING_ENABLED"
	envAuditIncludeArgs = "AUDIT_LOGGING_INCLUDE_ARGUMENTS"
)

// DefaultConfig returns a Config with defaults overridden by the environment.
func DefaultConfig() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(envServiceName, DefaultServiceName)
	v.SetDefault(envEnabled, true)
	v.SetDefault(envMetricsExporter, ExporterPrometheus)
	v.SetDefault(envTracingExporter, ExporterNone)
	v.SetDefault(envSamplingRate, 0.1)
	v.SetDefault(envPrometheusPath, "/metrics")
	v.SetDefault(envAuditEnabled, true)

	return Config{
		ServiceName:        v.GetString(envServiceName),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  v.GetString(envServiceInstance),
		Enabled:            v.GetBool(envEnabled),
		MetricsExporter:    v.GetString(envMetricsExporter),
		TracingExporter:    v.GetString(envTracingExporter),
		OTLPEndpoint:       v.GetString(envOTLPEndpoint),
		OTLPInsecure:       v.GetBool(envOTLPInsecure),
		TraceSamplingRate:  v.GetFloat64(envSamplingRate),
		PrometheusEndpoint: v.GetString(envPrometheusPath),
		DetailedLabels:     v.GetBool(envDetailedLabels),
		AuditLogging: AuditLoggingConfig{
			Enabled:          v.GetBool(envAuditEnabled),
			IncludeArguments: v.GetBool(envAuditIncludeArgs),
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	validMetricsExporters := map[string]bool{ExporterPrometheus: true, ExporterOTLP: true, ExporterStdout: true}
	if c.MetricsExporter != "" && !validMetricsExporters[c.MetricsExporter] {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	validTracingExporters := map[string]bool{ExporterOTLP: true, ExporterStdout: true, ExporterNone: true}
	if c.TracingExporter != "" && !validTracingExporters[c.TracingExporter] {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}
	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}

	return nil
}

// Constants for metric label values.
const (
	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Token exchange results
	OAuthResultSuccess    = "success"
	OAuthResultFailure    = "failure"
	OAuthResultAuthPrompt = "auth_prompt"

	// Token exchange grants
	GrantGoogle       = "google"
	GrantRefreshToken = "refresh_token"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	// Metric recording intervals
	DefaultMetricInterval = 10 * time.Second
)
