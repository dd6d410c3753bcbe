package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/auth"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/budget"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/config"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/google"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/instrumentation"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/logging"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/tools/booking_tools"
)

// serverName is the MCP implementation name announced to clients.
const serverName = "dept-hour-booking"

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"

	startupTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// serveOptions are the flags of the serve command that are not part of
// config.Config.
type serveOptions struct {
	Debug     bool
	Transport string
	HTTPAddr  string
}

// configFlags maps serve flags to configuration keys.
var configFlags = map[string]string{
	"api-base-url":    config.KeyAPIBaseURL,
	"token-url":       config.KeyTokenURL,
	"employee-id":     config.KeyEmployeeID,
	"callback-host":   config.KeyCallbackHost,
	"callback-port":   config.KeyCallbackPort,
	"redirect-host":   config.KeyRedirectHost,
	"metrics-enabled": config.KeyMetricsEnabled,
	"metrics-addr":    config.KeyMetricsAddr,
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	v := config.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server that books, updates, deletes
and reports hours in the Dept time-tracking API.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on --http-addr, endpoint /mcp

Authentication:
  The first tool call answers with a Google sign-in link. After consent Google
  redirects to the local callback receiver (default http://127.0.0.1:3005/oauth2callback),
  which hands the Google identity token to the Dept token endpoint.

  Required environment:
    GOOGLE_AUTH_CLIENT_ID, GOOGLE_AUTH_CLIENT_SECRET
    DEPT_TOKEN_URL, DEPT_CLIENT_ID, DEPT_CLIENT_SECRET

Defaults used when a tool call omits an identifier:
  DEPT_EMPLOYEE_ID, DEPT_CORPORATION_ID, DEPT_DEFAULT_ACTIVITY_ID,
  DEPT_DEFAULT_PROJECT_ID, DEPT_DEFAULT_COMPANY_ID, DEPT_DEFAULT_BUDGET_ID

Flags take precedence over the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.Transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", "127.0.0.1:8080", "HTTP server address (for streamable-http transport)")

	addConfigFlags(cmd.Flags())
	if err := bindConfigFlags(v, cmd.Flags()); err != nil {
		panic(err)
	}

	return cmd
}

// addConfigFlags defines the flags that override configuration keys.
func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("api-base-url", config.DefaultAPIBaseURL, "Dept API base URL. Can also use DEPT_API_BASE_URL env var.")
	flags.String("token-url", "", "Dept token endpoint. Can also use DEPT_TOKEN_URL env var.")
	flags.String("employee-id", "", "Default Dept employee ID. Can also use DEPT_EMPLOYEE_ID env var.")
	flags.String("callback-host", config.DefaultCallbackHost, "Listen host of the OAuth callback receiver. Can also use OAUTH_CALLBACK_HOST env var.")
	flags.Int("callback-port", config.DefaultCallbackPort, "Port of the OAuth callback receiver. Can also use OAUTH_CALLBACK_PORT env var.")
	flags.String("redirect-host", config.DefaultRedirectHost, "Host used in the Google redirect URI. Can also use OAUTH_REDIRECT_HOST env var.")
	flags.Bool("metrics-enabled", false, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	flags.String("metrics-addr", config.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")
}

// bindConfigFlags binds the configuration flags to v. A flag only overrides
// the environment when it is set explicitly.
func bindConfigFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range configFlags {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag --%s is not defined", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func runServe(cfg config.Config, opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout belongs to the stdio transport.
	logger := logging.NewLogger(os.Stderr, opts.Debug)
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("Error during instrumentation shutdown", logging.Err(err))
		}
	}()

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	// Token lifecycle: Google identity token -> Dept credentials.
	session := auth.NewSession()
	googleCfg := google.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.RedirectURI(),
	}
	exchanger := auth.NewExchanger(auth.ExchangerConfig{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Logger:       logger,
		Metrics:      metrics,
	})
	tokens := auth.NewProvider(session, exchanger,
		func() (string, error) { return google.AuthURL(googleCfg) },
		auth.WithLogger(logger),
		auth.WithMetrics(metrics),
	)

	gateway := dept.NewGateway(dept.GatewayConfig{
		BaseURL: cfg.APIBaseURL,
		Tokens:  tokens,
		Logger:  logger,
		Metrics: metrics,
	})
	client := dept.NewClient(gateway)
	resolver := budget.NewResolver(client, budget.Config{
		DefaultBudgetID: cfg.Defaults.BudgetID,
		CorporationID:   cfg.Defaults.CorporationID,
		Logger:          logger,
		Metrics:         metrics,
	})

	serverContext := server.NewServerContext(shutdownCtx, server.Options{
		Config:   cfg,
		Session:  session,
		Bookings: client,
		Resolver: resolver,
		Logger:   logger,
	})
	if provider.Enabled() {
		serverContext.SetMetrics(metrics)
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("Error during server context shutdown", logging.Err(err))
		}
	}()

	healthChecker := server.NewHealthChecker(serverContext)

	callbackServer := server.NewCallbackServer(server.CallbackConfig{
		Addr:        cfg.CallbackAddr(),
		RedirectURI: cfg.RedirectURI(),
		Exchange: func(ctx context.Context, code string) (string, error) {
			return google.ExchangeCode(ctx, googleCfg, nil, code)
		},
		Session: session,
		OnToken: func(_, _, _ string) {
			go warmUpCredentials(serverContext.Context(), tokens, logger)
		},
		Logger:  logger,
		Metrics: metrics,
	})
	// Another instance may already own the callback port; tools still work
	// once that instance completes the sign-in for this session.
	if err := startWithReadySignal("OAuth callback receiver", callbackServer.StartWithReadySignal); err != nil {
		logger.Warn("OAuth callback receiver unavailable",
			slog.String("addr", cfg.CallbackAddr()), logging.Err(err))
	} else {
		logger.Info("OAuth callback receiver started",
			slog.String("addr", cfg.CallbackAddr()),
			slog.String("redirect_uri", cfg.RedirectURI()))
	}
	defer shutdownServer(logger, "OAuth callback receiver", callbackServer.Shutdown)

	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			HealthChecker:           healthChecker,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		if err := startWithReadySignal("metrics server", metricsServer.StartWithReadySignal); err != nil {
			return err
		}
		logger.Info("Metrics server started", slog.String("addr", metricsServer.Addr()))
		defer shutdownServer(logger, "metrics server", metricsServer.Shutdown)
	}

	mcpSrv := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := booking_tools.RegisterBookingTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register booking tools: %w", err)
	}

	switch opts.Transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	case transportStreamableHTTP:
		logger.Info("Starting MCP server",
			slog.String("transport", opts.Transport),
			slog.String("addr", opts.HTTPAddr))
		return runStreamableHTTPServer(shutdownCtx, server.NewHTTPServer(mcpSrv, healthChecker), opts.HTTPAddr, healthChecker, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.Transport)
	}
}

// warmUpCredentials trades a freshly received identity token for Dept
// credentials so the next tool call does not pay for the exchange.
func warmUpCredentials(ctx context.Context, tokens *auth.Provider, logger *slog.Logger) {
	if _, err := tokens.AccessToken(ctx); err != nil {
		logger.Warn("Dept token exchange after sign-in failed", logging.Err(err))
		return
	}
	logger.Info("Dept credentials obtained")
}

// startWithReadySignal runs start in the background and waits until the
// listener is bound, start fails or the startup timeout passes.
func startWithReadySignal(name string, start func(ready chan<- struct{}) error) error {
	ready := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		if err := start(ready); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ready:
		return nil
	case err := <-errCh:
		if err == nil {
			return fmt.Errorf("%s stopped during startup", name)
		}
		return fmt.Errorf("%s failed to start: %w", name, err)
	case <-time.After(startupTimeout):
		return fmt.Errorf("%s startup timed out", name)
	}
}

func shutdownServer(logger *slog.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn("Error during shutdown", slog.String("server", name), logging.Err(err))
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, httpServer *server.HTTPServer, addr string, healthChecker *server.HealthChecker, logger *slog.Logger) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		logger.Info("HTTP server stopped normally")
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
