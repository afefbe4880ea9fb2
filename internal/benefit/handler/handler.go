// Package handler exposes the benefit ledger over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pensionledger/internal/benefit/models"
	"pensionledger/internal/transport/http/shared"
	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
	"pensionledger/pkg/requestcontext"
)

// Service defines the benefit operations the handler needs.
type Service interface {
	RegisterRetiree(ctx context.Context, retireeID id.RetireeID, yearsOfService, finalAverageSalary, benefitFactor uint64) (uint64, error)
	UpdateRetireeStatus(ctx context.Context, retireeID id.RetireeID, active bool) error
	RecordPayment(ctx context.Context, retireeID id.RetireeID, amount uint64) (uint64, error)
	GetRetireeBenefit(ctx context.Context, retireeID id.RetireeID) (*models.RetireeBenefit, error)
	GetPayment(ctx context.Context, retireeID id.RetireeID, sequence uint64) (*models.BenefitPayment, error)
	PaymentCount(ctx context.Context, retireeID id.RetireeID) (uint64, error)
	TotalPayments(ctx context.Context, retireeID id.RetireeID) (uint64, error)
}

// Handler handles benefit ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a benefit Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the benefit routes. The admin authentication middleware
// is applied by the router; authorization happens in the service.
func (h *Handler) Register(r chi.Router) {
	r.Post("/benefit/retirees", h.handleRegisterRetiree)
	r.Put("/benefit/retirees/{retireeID}/status", h.handleUpdateStatus)
	r.Post("/benefit/retirees/{retireeID}/payments", h.handleRecordPayment)
	r.Get("/benefit/retirees/{retireeID}", h.handleGetRetiree)
	r.Get("/benefit/retirees/{retireeID}/payments/{sequence}", h.handleGetPayment)
	r.Get("/benefit/retirees/{retireeID}/payments/count", h.handlePaymentCount)
	r.Get("/benefit/retirees/{retireeID}/payments/total", h.handleTotalPayments)
}

func (h *Handler) handleRegisterRetiree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRetireeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	retireeID, err := id.ParseRetireeID(req.RetireeID)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "retiree_id must be a UUID"))
		return
	}

	monthly, err := h.service.RegisterRetiree(ctx, retireeID, req.YearsOfService, req.FinalAverageSalary, req.BenefitFactor)
	if err != nil {
		h.warn(ctx, "register retiree failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, registerRetireeResponse{MonthlyBenefit: monthly})
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	retireeID, ok := h.pathRetireeID(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Active == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "active is required"))
		return
	}

	if err := h.service.UpdateRetireeStatus(ctx, retireeID, *req.Active); err != nil {
		h.warn(ctx, "update retiree status failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	retireeID, ok := h.pathRetireeID(w, r)
	if !ok {
		return
	}
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sequence, err := h.service.RecordPayment(ctx, retireeID, req.Amount)
	if err != nil {
		h.warn(ctx, "record payment failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, recordPaymentResponse{Sequence: sequence})
}

func (h *Handler) handleGetRetiree(w http.ResponseWriter, r *http.Request) {
	retireeID, ok := h.pathRetireeID(w, r)
	if !ok {
		return
	}
	benefit, err := h.service.GetRetireeBenefit(r.Context(), retireeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, benefit)
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	retireeID, ok := h.pathRetireeID(w, r)
	if !ok {
		return
	}
	rawSeq := chi.URLParam(r, "sequence")
	sequence, err := strconv.ParseUint(rawSeq, 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "sequence must be an unsigned integer"))
		return
	}

	payment, err := h.service.GetPayment(r.Context(), retireeID, sequence)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, payment)
}

func (h *Handler) handlePaymentCount(w http.ResponseWriter, r *http.Request) {
	retireeID, ok := h.pathRetireeID(w, r)
	if !ok {
		return
	}
	count, err := h.service.PaymentCount(r.Context(), retireeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, paymentCountResponse{Count: count})
}

func (h *Handler) handleTotalPayments(w http.ResponseWriter, r *http.Request) {
	retireeID, ok := h.pathRetireeID(w, r)
	if !ok {
		return
	}
	total, err := h.service.TotalPayments(r.Context(), retireeID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, totalPaymentsResponse{Total: total})
}

func (h *Handler) pathRetireeID(w http.ResponseWriter, r *http.Request) (id.RetireeID, bool) {
	retireeID, err := id.ParseRetireeID(chi.URLParam(r, "retireeID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "retiree id must be a UUID"))
		return id.RetireeID{}, false
	}
	return retireeID, true
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
