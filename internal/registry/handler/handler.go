// Package handler exposes direct ownership operations on the registry.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hangar/internal/platform/middleware"
	"hangar/pkg/domain"
	"hangar/pkg/platform/httputil"
)

// Service defines the registry operations the handler exposes.
type Service interface {
	DirectTransfer(ctx context.Context, caller, to domain.AccountID, id domain.AssetID) error
	OwnerOf(ctx context.Context, id domain.AssetID) (domain.AccountID, error)
	BalanceOf(ctx context.Context, account domain.AccountID) (uint64, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the read endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/assets/{id}/owner", h.HandleOwnerOf)
}

// RegisterProtected mounts the mutating endpoints behind authentication.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/assets/{id}/transfer", h.HandleTransfer)
}

type transferRequest struct {
	To string `json:"to"`
}

// HandleTransfer handles POST /assets/{id}/transfer requests: a direct
// owner-to-owner move that bypasses the marketplace. Any active listing is
// invalidated as part of the transfer.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	id, err := domain.ParseAssetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[transferRequest](w, r)
	if !ok {
		return
	}
	to, err := domain.ParseAccountID(req.To)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DirectTransfer(ctx, caller, to, id); err != nil {
		h.logger.WarnContext(ctx, "transfer rejected",
			"request_id", middleware.GetRequestID(ctx), "asset_id", id, "caller", caller, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"owner": to,
	})
}

// HandleOwnerOf handles GET /assets/{id}/owner requests.
func (h *Handler) HandleOwnerOf(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAssetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	owner, err := h.service.OwnerOf(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"owner": owner,
	})
}
