package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/auth"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/budget"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/config"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/google"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/instrumentation"
)

// Bookings is the Dept API surface used by the tools. *dept.Client implements it.
type Bookings interface {
	CreateBooking(ctx context.Context, b dept.NewBooking) (json.RawMessage, error)
	CreateBulkBooking(ctx context.Context, b dept.BulkBooking) (json.RawMessage, error)
	UpdateBooking(ctx context.Context, id int64, b dept.BookingUpdate) (json.RawMessage, error)
	DeleteBooking(ctx context.Context, id int64) (json.RawMessage, error)
	ListBookings(ctx context.Context, q dept.BookingQuery) (dept.BookingList, error)
	FindBooking(ctx context.Context, employeeID, id int64) (*dept.Booking, error)
	SearchBudgets(ctx context.Context, term string, corporationID int64) (dept.BudgetList, error)
	SearchInternalBudgets(ctx context.Context, term string) (dept.BudgetList, error)
}

// BudgetResolver infers booking metadata. *budget.Resolver implements it.
type BudgetResolver interface {
	Resolve(ctx context.Context, description string, corporationID int64) budget.Result
}

// Options are the dependencies of a ServerContext.
type Options struct {
	Config   config.Config
	Session  *auth.Session
	Bookings Bookings
	Resolver BudgetResolver
	Logger   *slog.Logger
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	config   config.Config
	session  *auth.Session
	bookings Bookings
	resolver BudgetResolver
	logger   *slog.Logger

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if opts.Session == nil {
		opts.Session = auth.NewSession()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		config:   opts.Config,
		session:  opts.Session,
		bookings: opts.Bookings,
		resolver: opts.Resolver,
		logger:   opts.Logger,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() config.Config {
	return sc.config
}

// Defaults returns the configured fallback identifiers.
func (sc *ServerContext) Defaults() config.Defaults {
	return sc.config.Defaults
}

// Session returns the authentication session.
func (sc *ServerContext) Session() *auth.Session {
	return sc.session
}

// Bookings returns the Dept booking client.
func (sc *ServerContext) Bookings() Bookings {
	return sc.bookings
}

// Resolver returns the budget resolver.
func (sc *ServerContext) Resolver() BudgetResolver {
	return sc.resolver
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Identity returns the e-mail of the signed-in Google identity, or "" when
// nobody has signed in yet.
func (sc *ServerContext) Identity() string {
	token := sc.session.IdentityToken()
	if token == "" {
		return ""
	}
	id, err := google.IdentityClaims(token)
	if err != nil {
		return ""
	}
	return id.Email
}

// SetMetrics sets the metrics recorder used by instrumented tool handlers.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, nil when instrumentation is disabled.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by instrumented tool handlers.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, nil when auditing is disabled.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
