// Package service implements the Asset Allocation Ledger.
//
// All mutating operations are gated on the administrator identity injected
// at construction; queries are open. Every operation is a synchronous,
// atomic function of (store state, caller, arguments): a rejected call
// leaves state unchanged.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	allocmetrics "pensionledger/internal/allocation/metrics"
	"pensionledger/internal/allocation/models"
	"pensionledger/internal/audit"
	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
	"pensionledger/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,AuditPublisher

// Store persists asset classes and the fund total. The store assigns dense
// sequential IDs on append and serializes mutations so Execute callbacks
// observe and produce consistent records.
type Store interface {
	// Append persists a new asset class, assigns the next sequential ID,
	// and returns it.
	Append(ctx context.Context, assetClass *models.AssetClass) (id.AssetClassID, error)
	// Execute atomically runs validate then mutate against the record under
	// the store's write lock. If validate fails nothing is written.
	Execute(ctx context.Context, assetClassID id.AssetClassID,
		validate func(*models.AssetClass) error,
		mutate func(*models.AssetClass)) (*models.AssetClass, error)
	FindByID(ctx context.Context, assetClassID id.AssetClassID) (*models.AssetClass, error)
	Count(ctx context.Context) (uint64, error)
	TotalFundValue(ctx context.Context) (uint64, error)
	SetTotalFundValue(ctx context.Context, value uint64) error
}

// AuditPublisher records committed mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the allocation ledger.
type Service struct {
	store   Store
	admin   id.Identity
	logger  *slog.Logger
	metrics *allocmetrics.Metrics
	auditor AuditPublisher
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *allocmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

// New builds the allocation service. The administrator identity is the
// single caller allowed to mutate the ledger.
func New(store Store, admin id.Identity, opts ...Option) *Service {
	s := &Service{
		store:  store,
		admin:  admin,
		logger: slog.Default(),
		tracer: otel.Tracer("pensionledger/allocation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddAssetClass registers a new asset class with a zero current value and
// returns its assigned ID.
func (s *Service) AddAssetClass(ctx context.Context, name string, allocationPercent uint64) (id.AssetClassID, error) {
	ctx, span := s.tracer.Start(ctx, "allocation.AddAssetClass")
	defer span.End()

	if err := s.authorize(ctx); err != nil {
		return 0, s.reject(ctx, err, "add asset class")
	}

	assetClass, err := models.NewAssetClass(name, allocationPercent, requestcontext.Now(ctx))
	if err != nil {
		return 0, s.reject(ctx, err, "add asset class")
	}

	assetClassID, err := s.store.Append(ctx, assetClass)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append asset class")
	}

	s.emit(ctx, audit.ActionAssetClassAdded, assetClassID.String(),
		fmt.Sprintf("name=%s percent=%d", name, allocationPercent))
	if s.metrics != nil {
		s.metrics.AssetClassesCreated.Inc()
	}
	return assetClassID, nil
}

// UpdateAllocation replaces only the allocation percentage of an existing
// class, preserving its name and current value.
func (s *Service) UpdateAllocation(ctx context.Context, assetClassID id.AssetClassID, allocationPercent uint64) error {
	ctx, span := s.tracer.Start(ctx, "allocation.UpdateAllocation")
	defer span.End()

	if err := s.authorize(ctx); err != nil {
		return s.reject(ctx, err, "update allocation")
	}
	if allocationPercent > models.MaxPercent {
		return s.reject(ctx, dErrors.New(dErrors.CodeInvalidPercentage, "allocation percentage must not exceed 100"), "update allocation")
	}

	now := requestcontext.Now(ctx)
	_, err := s.store.Execute(ctx, assetClassID,
		func(a *models.AssetClass) error {
			return a.CanSetAllocation(allocationPercent)
		},
		func(a *models.AssetClass) {
			a.ApplyAllocation(allocationPercent, now)
		},
	)
	if err != nil {
		return s.reject(ctx, wrapAssetClassErr(err), "update allocation")
	}

	s.emit(ctx, audit.ActionAllocationUpdated, assetClassID.String(),
		fmt.Sprintf("percent=%d", allocationPercent))
	if s.metrics != nil {
		s.metrics.AllocationUpdates.Inc()
	}
	return nil
}

// UpdateValue replaces only the current value of an existing class.
func (s *Service) UpdateValue(ctx context.Context, assetClassID id.AssetClassID, currentValue uint64) error {
	ctx, span := s.tracer.Start(ctx, "allocation.UpdateValue")
	defer span.End()

	if err := s.authorize(ctx); err != nil {
		return s.reject(ctx, err, "update asset value")
	}

	now := requestcontext.Now(ctx)
	_, err := s.store.Execute(ctx, assetClassID,
		func(*models.AssetClass) error { return nil },
		func(a *models.AssetClass) {
			a.ApplyValue(currentValue, now)
		},
	)
	if err != nil {
		return s.reject(ctx, wrapAssetClassErr(err), "update asset value")
	}

	s.emit(ctx, audit.ActionAssetValueUpdated, assetClassID.String(),
		fmt.Sprintf("value=%d", currentValue))
	if s.metrics != nil {
		s.metrics.ValueUpdates.Inc()
	}
	return nil
}

// UpdateTotalFundValue unconditionally overwrites the running fund total.
// The total is independently settable and never cross-checked against the
// per-class values.
func (s *Service) UpdateTotalFundValue(ctx context.Context, totalValue uint64) error {
	ctx, span := s.tracer.Start(ctx, "allocation.UpdateTotalFundValue")
	defer span.End()

	if err := s.authorize(ctx); err != nil {
		return s.reject(ctx, err, "update total fund value")
	}
	if err := s.store.SetTotalFundValue(ctx, totalValue); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set total fund value")
	}

	s.emit(ctx, audit.ActionFundTotalUpdated, "fund_total",
		fmt.Sprintf("value=%d", totalValue))
	if s.metrics != nil {
		s.metrics.ValueUpdates.Inc()
	}
	return nil
}

// GetAssetClass returns the asset class, or an asset_class_not_found error
// for unknown IDs. Open to any caller.
func (s *Service) GetAssetClass(ctx context.Context, assetClassID id.AssetClassID) (*models.AssetClass, error) {
	assetClass, err := s.store.FindByID(ctx, assetClassID)
	if err != nil {
		return nil, wrapAssetClassErr(err)
	}
	return assetClass, nil
}

// Count returns the number of asset classes ever added. Open to any caller.
func (s *Service) Count(ctx context.Context) (uint64, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count asset classes")
	}
	return count, nil
}

// TotalFundValue returns the running fund total. Open to any caller.
func (s *Service) TotalFundValue(ctx context.Context) (uint64, error) {
	total, err := s.store.TotalFundValue(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read total fund value")
	}
	return total, nil
}

func (s *Service) authorize(ctx context.Context) error {
	if requestcontext.CallerID(ctx) != s.admin {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the administrator")
	}
	return nil
}

// reject logs and counts a rejected mutation. Rejections leave the ledger
// byte-for-byte unchanged.
func (s *Service) reject(ctx context.Context, err error, op string) error {
	code := dErrors.CodeOf(err)
	s.logger.WarnContext(ctx, "allocation mutation rejected",
		"request_id", requestcontext.RequestID(ctx),
		"op", op,
		"code", string(code),
	)
	if s.metrics != nil {
		s.metrics.RejectedMutations.WithLabelValues(string(code)).Inc()
	}
	return err
}

// emit records an audit event for a committed mutation. The mutation has
// already been applied, so a failing sink is logged rather than surfaced.
func (s *Service) emit(ctx context.Context, action audit.Action, subject, detail string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Actor:     requestcontext.CallerID(ctx),
		Subject:   subject,
		Action:    action,
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"request_id", requestcontext.RequestID(ctx),
			"action", string(action),
			"error", err.Error(),
		)
	}
}

func wrapAssetClassErr(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvalidPercentage) {
		return err
	}
	if isNotFound(err) {
		return dErrors.New(dErrors.CodeAssetClassNotFound, "asset class does not exist")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "allocation store failure")
}
