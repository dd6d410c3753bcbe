package budget

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/instrumentation"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/logging"
)

// Tier names the step that produced a Result.
type Tier string

const (
	// TierPersonal: the first internal budget matching a personal description.
	TierPersonal Tier = "personal"
	// TierGeneral: the first hit of the general budget search.
	TierGeneral Tier = "general"
	// TierDefault: the configured default budget.
	TierDefault Tier = "default"
	// TierNone: nothing could be inferred (empty description).
	TierNone Tier = "none"
)

// Result is the metadata inferred for one description. Zero fields were not
// determined and are left to the caller's own defaults.
type Result struct {
	BudgetID      int64
	ActivityID    int64
	ActivityName  string
	ProjectID     int64
	ProjectName   string
	CompanyID     int64
	CorporationID int64
	IsVacation    bool

	Tier Tier
}

// Searcher is the subset of the Dept client the resolver needs.
type Searcher interface {
	SearchBudgets(ctx context.Context, term string, corporationID int64) (dept.BudgetList, error)
	SearchInternalBudgets(ctx context.Context, term string) (dept.BudgetList, error)
}

// Config configures a Resolver.
type Config struct {
	// DefaultBudgetID is used when the general search finds nothing.
	DefaultBudgetID int64
	// CorporationID scopes the general search when the caller gives none.
	CorporationID int64

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Resolver maps descriptions to booking metadata.
type Resolver struct {
	searcher        Searcher
	defaultBudgetID int64
	corporationID   int64
	logger          *slog.Logger
	metrics         *instrumentation.Metrics
}

// NewResolver creates a Resolver.
func NewResolver(searcher Searcher, cfg Config) *Resolver {
	r := &Resolver{
		searcher:        searcher,
		defaultBudgetID: cfg.DefaultBudgetID,
		corporationID:   cfg.CorporationID,
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve infers booking metadata for description. corporationID scopes the
// general search; zero means the configured corporation. Resolve never fails.
func (r *Resolver) Resolve(ctx context.Context, description string, corporationID int64) Result {
	ctx, span := instrumentation.StartSpan(ctx, "budget.resolve")
	defer span.End()

	result := Result{Tier: TierNone}

	if IsPersonal(description) {
		if res, ok := r.resolvePersonal(ctx, description); ok {
			result = res
		}
	}

	if result.BudgetID == 0 && description != "" {
		if corporationID == 0 {
			corporationID = r.corporationID
		}
		result.BudgetID, result.Tier = r.resolveGeneral(ctx, description, corporationID)
	}

	span.SetAttributes(attribute.String(instrumentation.SpanAttrBudgetTier, string(result.Tier)))
	r.metrics.RecordBudgetResolution(ctx, string(result.Tier))
	r.logger.Debug("budget resolved",
		logging.BudgetTier(string(result.Tier)),
		slog.Int64("budget_id", result.BudgetID))

	return result
}

func (r *Resolver) resolvePersonal(ctx context.Context, description string) (Result, bool) {
	list, err := r.searcher.SearchInternalBudgets(ctx, description)
	if err != nil {
		r.logger.Debug("internal budget search failed", logging.Err(err))
		return Result{}, false
	}
	if len(list.Budgets) == 0 {
		return Result{}, false
	}

	b := list.Budgets[0]
	return Result{
		BudgetID:      int64(b.ID),
		ActivityID:    int64(b.ActivityID),
		ActivityName:  b.Name,
		ProjectID:     int64(b.ProjectID),
		ProjectName:   b.ProjectName,
		CompanyID:     int64(b.CompanyID),
		CorporationID: int64(b.CorporationID),
		IsVacation:    IsHoliday(description),
		Tier:          TierPersonal,
	}, true
}

func (r *Resolver) resolveGeneral(ctx context.Context, description string, corporationID int64) (int64, Tier) {
	list, err := r.searcher.SearchBudgets(ctx, description, corporationID)
	if err != nil {
		r.logger.Debug("budget search failed", logging.Err(err))
		return r.defaultBudgetID, TierDefault
	}
	if len(list.Budgets) == 0 {
		return r.defaultBudgetID, TierDefault
	}
	return int64(list.Budgets[0].ID), TierGeneral
}
