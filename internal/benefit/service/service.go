// Package service implements the Benefit & Payment Ledger.
//
// Entitlement records are created exactly once per retiree; payments form
// an append-only, dense per-retiree sequence. All mutations are gated on
// the administrator identity injected at construction; queries are open.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pensionledger/internal/audit"
	benefitmetrics "pensionledger/internal/benefit/metrics"
	"pensionledger/internal/benefit/models"
	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
	"pensionledger/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,TotalsCache,AuditPublisher

// Store persists retiree benefits and their payment sequences. Mutations
// are serialized per retiree so the counter, the payment log, and the
// benefit record stay mutually consistent.
type Store interface {
	// CreateRetiree persists a new benefit record and initializes the
	// payment counter to 0. Returns sentinel.ErrConflict if a record
	// already exists for the retiree, regardless of its Active value.
	CreateRetiree(ctx context.Context, benefit *models.RetireeBenefit) error
	// ExecuteRetiree atomically runs validate then mutate against the
	// benefit record under the store's write lock.
	ExecuteRetiree(ctx context.Context, retireeID id.RetireeID,
		validate func(*models.RetireeBenefit) error,
		mutate func(*models.RetireeBenefit)) (*models.RetireeBenefit, error)
	FindRetiree(ctx context.Context, retireeID id.RetireeID) (*models.RetireeBenefit, error)
	// RecordPayment atomically validates the benefit record, appends a
	// payment at the current sequence number, and advances the counter.
	// Returns the assigned sequence number.
	RecordPayment(ctx context.Context, retireeID id.RetireeID, payment *models.BenefitPayment,
		validate func(*models.RetireeBenefit) error) (uint64, error)
	FindPayment(ctx context.Context, retireeID id.RetireeID, sequence uint64) (*models.BenefitPayment, error)
	// PaymentCount returns the next sequence number, which equals the
	// number of recorded payments. 0 for unknown retirees.
	PaymentCount(ctx context.Context, retireeID id.RetireeID) (uint64, error)
	// SumPayments sums the amounts of every payment in [0, count).
	SumPayments(ctx context.Context, retireeID id.RetireeID) (uint64, error)
}

// TotalsCache caches payment total aggregations. A nil cache disables
// caching; misses and invalidation failures degrade to store scans.
type TotalsCache interface {
	GetTotal(ctx context.Context, retireeID id.RetireeID) (total uint64, ok bool, err error)
	SetTotal(ctx context.Context, retireeID id.RetireeID, total uint64) error
	Invalidate(ctx context.Context, retireeID id.RetireeID) error
}

// AuditPublisher records committed mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the benefit ledger.
type Service struct {
	store   Store
	admin   id.Identity
	cache   TotalsCache
	logger  *slog.Logger
	metrics *benefitmetrics.Metrics
	auditor AuditPublisher
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *benefitmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithTotalsCache(c TotalsCache) Option {
	return func(s *Service) { s.cache = c }
}

// New builds the benefit service. The administrator identity is the single
// caller allowed to mutate the ledger.
func New(store Store, admin id.Identity, opts ...Option) *Service {
	s := &Service{
		store:  store,
		admin:  admin,
		logger: slog.Default(),
		tracer: otel.Tracer("pensionledger/benefit"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRetiree creates the entitlement record and returns the computed
// monthly benefit. A retiree can be registered exactly once; the presence
// of a record rejects re-registration independent of its Active value.
func (s *Service) RegisterRetiree(ctx context.Context, retireeID id.RetireeID, yearsOfService, finalAverageSalary, benefitFactor uint64) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "benefit.RegisterRetiree")
	defer span.End()

	if err := s.authorize(ctx); err != nil {
		return 0, s.reject(ctx, err, "register retiree")
	}

	benefit, err := models.NewRetireeBenefit(retireeID, yearsOfService, finalAverageSalary, benefitFactor, requestcontext.Now(ctx))
	if err != nil {
		return 0, s.reject(ctx, err, "register retiree")
	}

	if err := s.store.CreateRetiree(ctx, benefit); err != nil {
		if isConflict(err) {
			return 0, s.reject(ctx, dErrors.New(dErrors.CodeAlreadyRegistered, "retiree is already registered"), "register retiree")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create retiree benefit")
	}

	s.emit(ctx, audit.ActionRetireeRegistered, retireeID.String(),
		fmt.Sprintf("monthly_benefit=%d factor_bps=%d", benefit.MonthlyBenefit, benefitFactor))
	if s.metrics != nil {
		s.metrics.RetireesRegistered.Inc()
	}
	return benefit.MonthlyBenefit, nil
}

// UpdateRetireeStatus overwrites only the Active flag.
func (s *Service) UpdateRetireeStatus(ctx context.Context, retireeID id.RetireeID, active bool) error {
	ctx, span := s.tracer.Start(ctx, "benefit.UpdateRetireeStatus")
	defer span.End()

	if err := s.authorize(ctx); err != nil {
		return s.reject(ctx, err, "update retiree status")
	}

	now := requestcontext.Now(ctx)
	_, err := s.store.ExecuteRetiree(ctx, retireeID,
		func(*models.RetireeBenefit) error { return nil },
		func(r *models.RetireeBenefit) {
			r.ApplyStatus(active, now)
		},
	)
	if err != nil {
		return s.reject(ctx, wrapRetireeErr(err), "update retiree status")
	}

	s.emit(ctx, audit.ActionRetireeStatusUpdated, retireeID.String(),
		fmt.Sprintf("active=%t", active))
	if s.metrics != nil {
		s.metrics.StatusUpdates.Inc()
	}
	return nil
}

// RecordPayment appends a benefit payment and returns its sequence number.
// Sequence numbers are dense from 0 per retiree; the counter only advances
// on success. The amount is not cross-checked against the monthly benefit.
func (s *Service) RecordPayment(ctx context.Context, retireeID id.RetireeID, amount uint64) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "benefit.RecordPayment")
	defer span.End()

	if err := s.authorize(ctx); err != nil {
		return 0, s.reject(ctx, err, "record payment")
	}

	payment := &models.BenefitPayment{
		RetireeID: retireeID,
		Amount:    amount,
		PaidAt:    requestcontext.Now(ctx),
	}
	sequence, err := s.store.RecordPayment(ctx, retireeID, payment,
		func(r *models.RetireeBenefit) error {
			return r.CanReceivePayment()
		},
	)
	if err != nil {
		return 0, s.reject(ctx, wrapRetireeErr(err), "record payment")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, retireeID); err != nil {
			s.logger.WarnContext(ctx, "totals cache invalidation failed",
				"request_id", requestcontext.RequestID(ctx),
				"retiree_id", retireeID.String(),
				"error", err.Error(),
			)
		}
	}

	s.emit(ctx, audit.ActionPaymentRecorded, retireeID.String(),
		fmt.Sprintf("sequence=%d amount=%d", sequence, amount))
	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Inc()
		s.metrics.PaymentAmounts.Add(float64(amount))
	}
	return sequence, nil
}

// GetRetireeBenefit returns the entitlement record, or retiree_not_found.
// Open to any caller.
func (s *Service) GetRetireeBenefit(ctx context.Context, retireeID id.RetireeID) (*models.RetireeBenefit, error) {
	benefit, err := s.store.FindRetiree(ctx, retireeID)
	if err != nil {
		return nil, wrapRetireeErr(err)
	}
	return benefit, nil
}

// GetPayment returns one recorded payment by sequence number. Open to any
// caller.
func (s *Service) GetPayment(ctx context.Context, retireeID id.RetireeID, sequence uint64) (*models.BenefitPayment, error) {
	payment, err := s.store.FindPayment(ctx, retireeID, sequence)
	if err != nil {
		if isNotFound(err) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no payment recorded at that sequence")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "benefit store failure")
	}
	return payment, nil
}

// PaymentCount returns the number of recorded payments, 0 for unknown
// retirees. Open to any caller.
func (s *Service) PaymentCount(ctx context.Context, retireeID id.RetireeID) (uint64, error) {
	count, err := s.store.PaymentCount(ctx, retireeID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read payment count")
	}
	return count, nil
}

// TotalPayments sums every recorded payment amount for the retiree with a
// full scan over the dense sequence [0, count). Cached per retiree;
// recording a payment invalidates the cached total.
func (s *Service) TotalPayments(ctx context.Context, retireeID id.RetireeID) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "benefit.TotalPayments")
	defer span.End()

	if s.cache != nil {
		total, ok, err := s.cache.GetTotal(ctx, retireeID)
		if err != nil {
			s.logger.WarnContext(ctx, "totals cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		} else if ok {
			if s.metrics != nil {
				s.metrics.TotalsCacheHits.Inc()
			}
			return total, nil
		}
	}

	total, err := s.store.SumPayments(ctx, retireeID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sum payments")
	}
	if s.metrics != nil {
		s.metrics.TotalsCacheMisses.Inc()
	}
	if s.cache != nil {
		if err := s.cache.SetTotal(ctx, retireeID, total); err != nil {
			s.logger.WarnContext(ctx, "totals cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
	}
	return total, nil
}

func (s *Service) authorize(ctx context.Context) error {
	if requestcontext.CallerID(ctx) != s.admin {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the administrator")
	}
	return nil
}

func (s *Service) reject(ctx context.Context, err error, op string) error {
	code := dErrors.CodeOf(err)
	s.logger.WarnContext(ctx, "benefit mutation rejected",
		"request_id", requestcontext.RequestID(ctx),
		"op", op,
		"code", string(code),
	)
	if s.metrics != nil {
		s.metrics.RejectedMutations.WithLabelValues(string(code)).Inc()
	}
	return err
}

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

func wrapRetireeErr(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvalidParameters) {
		return err
	}
	if isNotFound(err) {
		return dErrors.New(dErrors.CodeRetireeNotFound, "retiree is not registered")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "benefit store failure")
}
