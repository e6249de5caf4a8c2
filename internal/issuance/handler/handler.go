// Package handler wires issuance endpoints to the issuance controller.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	assetmodels "hangar/internal/asset/models"
	"hangar/internal/issuance/store"
	"hangar/internal/platform/middleware"
	"hangar/pkg/domain"
	"hangar/pkg/platform/httputil"
)

// Service defines the issuance operations the handler exposes.
type Service interface {
	Mint(ctx context.Context, caller domain.AccountID, rawHash string) (*assetmodels.Asset, error)
	SetMintEnabled(ctx context.Context, caller domain.AccountID, enabled bool) error
	SetSupplyLimit(ctx context.Context, caller domain.AccountID, newLimit uint64) error
	AllowlistAdd(ctx context.Context, caller, account domain.AccountID) error
	AllowlistRemove(ctx context.Context, caller, account domain.AccountID) error
	IsAllowlisted(ctx context.Context, account domain.AccountID) (bool, error)
	Supply(ctx context.Context) (store.SupplyState, error)
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
	r.Get("/supply", h.HandleSupply)
	r.Get("/allowlist/{account}", h.HandleIsAllowlisted)
}

// RegisterProtected mounts the mutating endpoints behind authentication.
// Administrator checks happen in the service against the configured
// administrator account.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/assets/mint", h.HandleMint)
	r.Put("/admin/minting", h.HandleSetMintEnabled)
	r.Put("/admin/supply-limit", h.HandleSetSupplyLimit)
	r.Post("/admin/allowlist/{account}", h.HandleAllowlistAdd)
	r.Delete("/admin/allowlist/{account}", h.HandleAllowlistRemove)
}

type mintRequest struct {
	MetadataHash string `json:"metadata_hash"`
}

type mintResponse struct {
	ID           domain.AssetID      `json:"id"`
	MetadataHash domain.MetadataHash `json:"metadata_hash"`
	Owner        domain.AccountID    `json:"owner"`
}

// HandleMint handles POST /assets/mint requests.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	req, ok := httputil.Decode[mintRequest](w, r)
	if !ok {
		return
	}

	asset, err := h.service.Mint(ctx, caller, req.MetadataHash)
	if err != nil {
		h.logger.WarnContext(ctx, "mint rejected",
			"request_id", middleware.GetRequestID(ctx), "caller", caller, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, mintResponse{
		ID:           asset.ID,
		MetadataHash: asset.MetadataHash,
		Owner:        asset.Owner,
	})
}

type supplyResponse struct {
	Issued      uint64 `json:"issued"`
	Limit       uint64 `json:"limit"`
	MintEnabled bool   `json:"mint_enabled"`
}

// HandleSupply handles GET /supply requests.
func (h *Handler) HandleSupply(w http.ResponseWriter, r *http.Request) {
	supply, err := h.service.Supply(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, supplyResponse{
		Issued:      supply.Issued,
		Limit:       supply.Limit,
		MintEnabled: supply.MintEnabled,
	})
}

// HandleIsAllowlisted handles GET /allowlist/{account} requests.
func (h *Handler) HandleIsAllowlisted(w http.ResponseWriter, r *http.Request) {
	account, err := domain.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	allowed, err := h.service.IsAllowlisted(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"account":     account,
		"allowlisted": allowed,
	})
}

type mintingRequest struct {
	Enabled bool `json:"enabled"`
}

// HandleSetMintEnabled handles PUT /admin/minting requests.
func (h *Handler) HandleSetMintEnabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	req, ok := httputil.Decode[mintingRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.SetMintEnabled(ctx, caller, req.Enabled); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type supplyLimitRequest struct {
	Limit uint64 `json:"limit"`
}

// HandleSetSupplyLimit handles PUT /admin/supply-limit requests.
func (h *Handler) HandleSetSupplyLimit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	req, ok := httputil.Decode[supplyLimitRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.SetSupplyLimit(ctx, caller, req.Limit); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAllowlistAdd handles POST /admin/allowlist/{account} requests.
func (h *Handler) HandleAllowlistAdd(w http.ResponseWriter, r *http.Request) {
	h.allowlistChange(w, r, h.service.AllowlistAdd)
}

// HandleAllowlistRemove handles DELETE /admin/allowlist/{account} requests.
func (h *Handler) HandleAllowlistRemove(w http.ResponseWriter, r *http.Request) {
	h.allowlistChange(w, r, h.service.AllowlistRemove)
}

func (h *Handler) allowlistChange(w http.ResponseWriter, r *http.Request,
	change func(ctx context.Context, caller, account domain.AccountID) error) {

	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	account, err := domain.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := change(ctx, caller, account); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
