// Package handler exposes the allocation ledger over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pensionledger/internal/allocation/models"
	"pensionledger/internal/transport/http/shared"
	id "pensionledger/pkg/domain"
	dErrors "pensionledger/pkg/domain-errors"
	"pensionledger/pkg/requestcontext"
)

// Service defines the allocation operations the handler needs.
type Service interface {
	AddAssetClass(ctx context.Context, name string, allocationPercent uint64) (id.AssetClassID, error)
	UpdateAllocation(ctx context.Context, assetClassID id.AssetClassID, allocationPercent uint64) error
	UpdateValue(ctx context.Context, assetClassID id.AssetClassID, currentValue uint64) error
	UpdateTotalFundValue(ctx context.Context, totalValue uint64) error
	GetAssetClass(ctx context.Context, assetClassID id.AssetClassID) (*models.AssetClass, error)
	Count(ctx context.Context) (uint64, error)
	TotalFundValue(ctx context.Context) (uint64, error)
}

// Handler handles allocation ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates an allocation Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the allocation routes. The admin authentication
// middleware is applied by the router; authorization happens in the service.
func (h *Handler) Register(r chi.Router) {
	r.Post("/allocation/asset-classes", h.handleAddAssetClass)
	r.Put("/allocation/asset-classes/{id}/allocation", h.handleUpdateAllocation)
	r.Put("/allocation/asset-classes/{id}/value", h.handleUpdateValue)
	r.Put("/allocation/fund-total", h.handleUpdateFundTotal)
	r.Get("/allocation/asset-classes/{id}", h.handleGetAssetClass)
	r.Get("/allocation/asset-classes/count", h.handleCount)
	r.Get("/allocation/fund-total", h.handleGetFundTotal)
}

func (h *Handler) handleAddAssetClass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addAssetClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	assetClassID, err := h.service.AddAssetClass(ctx, req.Name, req.AllocationPercent)
	if err != nil {
		h.warn(ctx, "add asset class failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, addAssetClassResponse{ID: uint64(assetClassID)})
}

func (h *Handler) handleUpdateAllocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assetClassID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.service.UpdateAllocation(ctx, assetClassID, req.AllocationPercent); err != nil {
		h.warn(ctx, "update allocation failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateValue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assetClassID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.service.UpdateValue(ctx, assetClassID, req.CurrentValue); err != nil {
		h.warn(ctx, "update asset value failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateFundTotal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateFundTotalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.service.UpdateTotalFundValue(ctx, req.TotalValue); err != nil {
		h.warn(ctx, "update fund total failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetAssetClass(w http.ResponseWriter, r *http.Request) {
	assetClassID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	assetClass, err := h.service.GetAssetClass(r.Context(), assetClassID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, assetClass)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *Handler) handleGetFundTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.TotalFundValue(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, fundTotalResponse{TotalValue: total})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (id.AssetClassID, bool) {
	raw := chi.URLParam(r, "id")
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "asset class id must be an unsigned integer"))
		return 0, false
	}
	return id.AssetClassID(parsed), true
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
