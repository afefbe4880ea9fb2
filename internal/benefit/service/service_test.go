package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pensionledger/internal/audit"
	"pensionledger/internal/benefit/models"
	"pensionledger/internal/benefit/service/mocks"
	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
	"pensionledger/pkg/platform/sentinel"
	"pensionledger/pkg/requestcontext"
)

const adminIdentity = id.Identity("administrator")

type ServiceSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockStore          *mocks.MockStore
	mockCache          *mocks.MockTotalsCache
	mockAuditPublisher *mocks.MockAuditPublisher
	service            *Service
	retireeID          id.RetireeID
	now                time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockCache = mocks.NewMockTotalsCache(s.ctrl)
	s.mockAuditPublisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.retireeID = id.NewRetireeID()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.mockStore, adminIdentity,
		WithLogger(logger),
		WithAuditPublisher(s.mockAuditPublisher),
		WithTotalsCache(s.mockCache),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) adminCtx() context.Context {
	ctx := requestcontext.WithCallerID(context.Background(), adminIdentity)
	return requestcontext.WithTime(ctx, s.now)
}

// TestAuthorization verifies every mutating operation rejects callers other
// than the administrator without touching the store. No store expectations
// are registered, so any store call fails the test.
func (s *ServiceSuite) TestAuthorization() {
	for name, ctx := range map[string]context.Context{
		"wrong identity": requestcontext.WithCallerID(context.Background(), "intruder"),
		"no identity":    context.Background(),
	} {
		s.Run(name+" cannot register retiree", func() {
			_, err := s.service.RegisterRetiree(ctx, s.retireeID, 30, 50_000, 200)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})

		s.Run(name+" cannot update status", func() {
			err := s.service.UpdateRetireeStatus(ctx, s.retireeID, false)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})

		s.Run(name+" cannot record payment", func() {
			_, err := s.service.RecordPayment(ctx, s.retireeID, 1_000)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		})
	}
}

func (s *ServiceSuite) TestRegisterRetiree() {
	s.Run("returns the computed monthly benefit", func() {
		s.mockStore.EXPECT().CreateRetiree(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, benefit *models.RetireeBenefit) error {
				s.Equal(s.retireeID, benefit.RetireeID)
				s.Equal(uint64(30_000), benefit.MonthlyBenefit)
				s.True(benefit.Active)
				s.Equal(s.now, benefit.RetirementDate)
				return nil
			})
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event audit.Event) error {
				s.Equal(audit.ActionRetireeRegistered, event.Action)
				s.Equal(s.retireeID.String(), event.Subject)
				return nil
			})

		monthly, err := s.service.RegisterRetiree(s.adminCtx(), s.retireeID, 30, 50_000, 200)
		s.Require().NoError(err)
		s.Equal(uint64(30_000), monthly)
	})

	s.Run("existing record returns already registered", func() {
		s.mockStore.EXPECT().CreateRetiree(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.RegisterRetiree(s.adminCtx(), s.retireeID, 30, 50_000, 200)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyRegistered))
	})

	s.Run("zero inputs are rejected before touching the store", func() {
		for name, args := range map[string][3]uint64{
			"zero years":  {0, 50_000, 200},
			"zero salary": {30, 0, 200},
			"zero factor": {30, 50_000, 0},
		} {
			_, err := s.service.RegisterRetiree(s.adminCtx(), s.retireeID, args[0], args[1], args[2])
			s.Require().Error(err, name)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidParameters), name)
		}
	})

	s.Run("store failure surfaces as internal", func() {
		s.mockStore.EXPECT().CreateRetiree(gomock.Any(), gomock.Any()).Return(assert.AnError)

		_, err := s.service.RegisterRetiree(s.adminCtx(), s.retireeID, 30, 50_000, 200)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestUpdateRetireeStatus() {
	s.Run("flips the flag through the store callbacks", func() {
		record := &models.RetireeBenefit{RetireeID: s.retireeID, MonthlyBenefit: 30_000, Active: true}
		s.mockStore.EXPECT().ExecuteRetiree(gomock.Any(), s.retireeID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.RetireeID,
				validate func(*models.RetireeBenefit) error,
				mutate func(*models.RetireeBenefit)) (*models.RetireeBenefit, error) {
				if err := validate(record); err != nil {
					return nil, err
				}
				mutate(record)
				return record.Clone(), nil
			})
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.Require().NoError(s.service.UpdateRetireeStatus(s.adminCtx(), s.retireeID, false))
		s.False(record.Active)
		s.Equal(uint64(30_000), record.MonthlyBenefit)
	})

	s.Run("unknown retiree returns retiree not found", func() {
		s.mockStore.EXPECT().ExecuteRetiree(gomock.Any(), s.retireeID, gomock.Any(), gomock.Any()).
			Return(nil, sentinel.ErrNotFound)

		err := s.service.UpdateRetireeStatus(s.adminCtx(), s.retireeID, true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeRetireeNotFound))
	})
}

func (s *ServiceSuite) TestRecordPayment() {
	s.Run("returns the assigned sequence and invalidates the cached total", func() {
		s.mockStore.EXPECT().RecordPayment(gomock.Any(), s.retireeID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.RetireeID, payment *models.BenefitPayment,
				validate func(*models.RetireeBenefit) error) (uint64, error) {
				if err := validate(&models.RetireeBenefit{RetireeID: s.retireeID, Active: true}); err != nil {
					return 0, err
				}
				s.Equal(uint64(1_000), payment.Amount)
				s.Equal(s.now, payment.PaidAt)
				return 4, nil
			})
		s.mockCache.EXPECT().Invalidate(gomock.Any(), s.retireeID).Return(nil)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		sequence, err := s.service.RecordPayment(s.adminCtx(), s.retireeID, 1_000)
		s.Require().NoError(err)
		s.Equal(uint64(4), sequence)
	})

	s.Run("inactive retiree is rejected with no payment recorded", func() {
		s.mockStore.EXPECT().RecordPayment(gomock.Any(), s.retireeID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.RetireeID, _ *models.BenefitPayment,
				validate func(*models.RetireeBenefit) error) (uint64, error) {
				return 0, validate(&models.RetireeBenefit{RetireeID: s.retireeID, Active: false})
			})

		_, err := s.service.RecordPayment(s.adminCtx(), s.retireeID, 1_000)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidParameters))
	})

	s.Run("unknown retiree returns retiree not found", func() {
		s.mockStore.EXPECT().RecordPayment(gomock.Any(), s.retireeID, gomock.Any(), gomock.Any()).
			Return(uint64(0), sentinel.ErrNotFound)

		_, err := s.service.RecordPayment(s.adminCtx(), s.retireeID, 1_000)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeRetireeNotFound))
	})

	s.Run("cache invalidation failure does not fail the payment", func() {
		s.mockStore.EXPECT().RecordPayment(gomock.Any(), s.retireeID, gomock.Any(), gomock.Any()).
			Return(uint64(0), nil)
		s.mockCache.EXPECT().Invalidate(gomock.Any(), s.retireeID).Return(assert.AnError)
		s.mockAuditPublisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.RecordPayment(s.adminCtx(), s.retireeID, 1_000)
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestTotalPayments() {
	anonymousCtx := context.Background()

	s.Run("cache hit skips the store scan", func() {
		s.mockCache.EXPECT().GetTotal(gomock.Any(), s.retireeID).Return(uint64(12_345), true, nil)

		total, err := s.service.TotalPayments(anonymousCtx, s.retireeID)
		s.Require().NoError(err)
		s.Equal(uint64(12_345), total)
	})

	s.Run("cache miss scans the store and backfills", func() {
		s.mockCache.EXPECT().GetTotal(gomock.Any(), s.retireeID).Return(uint64(0), false, nil)
		s.mockStore.EXPECT().SumPayments(gomock.Any(), s.retireeID).Return(uint64(54_321), nil)
		s.mockCache.EXPECT().SetTotal(gomock.Any(), s.retireeID, uint64(54_321)).Return(nil)

		total, err := s.service.TotalPayments(anonymousCtx, s.retireeID)
		s.Require().NoError(err)
		s.Equal(uint64(54_321), total)
	})

	s.Run("cache read failure degrades to the store scan", func() {
		s.mockCache.EXPECT().GetTotal(gomock.Any(), s.retireeID).Return(uint64(0), false, assert.AnError)
		s.mockStore.EXPECT().SumPayments(gomock.Any(), s.retireeID).Return(uint64(77), nil)
		s.mockCache.EXPECT().SetTotal(gomock.Any(), s.retireeID, uint64(77)).Return(nil)

		total, err := s.service.TotalPayments(anonymousCtx, s.retireeID)
		s.Require().NoError(err)
		s.Equal(uint64(77), total)
	})

	s.Run("store failure surfaces as internal", func() {
		s.mockCache.EXPECT().GetTotal(gomock.Any(), s.retireeID).Return(uint64(0), false, nil)
		s.mockStore.EXPECT().SumPayments(gomock.Any(), s.retireeID).Return(uint64(0), assert.AnError)

		_, err := s.service.TotalPayments(anonymousCtx, s.retireeID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

// TestQueries verifies reads require no caller identity.
func (s *ServiceSuite) TestQueries() {
	anonymousCtx := context.Background()

	s.Run("GetRetireeBenefit returns the record", func() {
		record := &models.RetireeBenefit{RetireeID: s.retireeID, MonthlyBenefit: 30_000, Active: true}
		s.mockStore.EXPECT().FindRetiree(gomock.Any(), s.retireeID).Return(record, nil)

		found, err := s.service.GetRetireeBenefit(anonymousCtx, s.retireeID)
		s.Require().NoError(err)
		s.Equal(record, found)
	})

	s.Run("GetRetireeBenefit maps unknown retirees", func() {
		s.mockStore.EXPECT().FindRetiree(gomock.Any(), s.retireeID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.GetRetireeBenefit(anonymousCtx, s.retireeID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeRetireeNotFound))
	})

	s.Run("GetPayment maps unknown sequences to not found", func() {
		s.mockStore.EXPECT().FindPayment(gomock.Any(), s.retireeID, uint64(9)).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.GetPayment(anonymousCtx, s.retireeID, 9)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("PaymentCount passes through, zero for unknown retirees", func() {
		s.mockStore.EXPECT().PaymentCount(gomock.Any(), s.retireeID).Return(uint64(0), nil)

		count, err := s.service.PaymentCount(anonymousCtx, s.retireeID)
		s.Require().NoError(err)
		s.Equal(uint64(0), count)
	})
}
