// Package handler exposes collection configuration over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hangar/internal/platform/config"
	"hangar/internal/platform/middleware"
	"hangar/internal/settings/models"
	"hangar/pkg/domain"
	"hangar/pkg/platform/httputil"
)

// Service defines the settings operations the handler exposes.
type Service interface {
	Get(ctx context.Context) (models.Settings, error)
	TransferAdmin(ctx context.Context, caller, next domain.AccountID) error
	SetBaseURI(ctx context.Context, caller domain.AccountID, uri string) error
	SetContractURI(ctx context.Context, caller domain.AccountID, uri string) error
	SetRoyalty(ctx context.Context, caller domain.AccountID, bps uint64) error
	SetTreasury(ctx context.Context, caller, treasury domain.AccountID) error
	SetPayoutPolicy(ctx context.Context, caller domain.AccountID, policy config.PayoutPolicy) error
	SetPaymentPolicy(ctx context.Context, caller domain.AccountID, policy config.PaymentPolicy) error
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
	r.Get("/config", h.HandleGetConfig)
}

// RegisterProtected mounts the mutating endpoints behind authentication.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Put("/admin/config", h.HandleUpdateConfig)
	r.Post("/admin/admin-transfer", h.HandleTransferAdmin)
}

type configResponse struct {
	Administrator domain.AccountID     `json:"administrator"`
	BaseURI       string               `json:"base_uri,omitempty"`
	ContractURI   string               `json:"contract_uri,omitempty"`
	RoyaltyBps    uint64               `json:"royalty_bps"`
	Treasury      domain.AccountID     `json:"treasury,omitempty"`
	PayoutPolicy  config.PayoutPolicy  `json:"payout_policy"`
	PaymentPolicy config.PaymentPolicy `json:"payment_policy"`
}

// HandleGetConfig handles GET /config requests.
func (h *Handler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, configResponse{
		Administrator: settings.Administrator,
		BaseURI:       settings.BaseURI,
		ContractURI:   settings.ContractURI,
		RoyaltyBps:    settings.RoyaltyBps,
		Treasury:      settings.Treasury,
		PayoutPolicy:  settings.PayoutPolicy,
		PaymentPolicy: settings.PaymentPolicy,
	})
}

// updateConfigRequest carries only the fields the caller wants to change.
type updateConfigRequest struct {
	BaseURI       *string `json:"base_uri,omitempty"`
	ContractURI   *string `json:"contract_uri,omitempty"`
	RoyaltyBps    *uint64 `json:"royalty_bps,omitempty"`
	Treasury      *string `json:"treasury,omitempty"`
	PayoutPolicy  *string `json:"payout_policy,omitempty"`
	PaymentPolicy *string `json:"payment_policy,omitempty"`
}

// HandleUpdateConfig handles PUT /admin/config requests. Each present field
// is applied in order; the first failure stops the update.
func (h *Handler) HandleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	req, ok := httputil.Decode[updateConfigRequest](w, r)
	if !ok {
		return
	}

	steps := []func() error{
		func() error {
			if req.BaseURI == nil {
				return nil
			}
			return h.service.SetBaseURI(ctx, caller, *req.BaseURI)
		},
		func() error {
			if req.ContractURI == nil {
				return nil
			}
			return h.service.SetContractURI(ctx, caller, *req.ContractURI)
		},
		func() error {
			if req.RoyaltyBps == nil {
				return nil
			}
			return h.service.SetRoyalty(ctx, caller, *req.RoyaltyBps)
		},
		func() error {
			if req.Treasury == nil {
				return nil
			}
			return h.service.SetTreasury(ctx, caller, domain.AccountID(*req.Treasury))
		},
		func() error {
			if req.PayoutPolicy == nil {
				return nil
			}
			return h.service.SetPayoutPolicy(ctx, caller, config.PayoutPolicy(*req.PayoutPolicy))
		},
		func() error {
			if req.PaymentPolicy == nil {
				return nil
			}
			return h.service.SetPaymentPolicy(ctx, caller, config.PaymentPolicy(*req.PaymentPolicy))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			h.logger.WarnContext(ctx, "config update rejected",
				"request_id", middleware.GetRequestID(ctx), "caller", caller, "error", err)
			httputil.WriteError(w, err)
			return
		}
	}

	settings, err := h.service.Get(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, configResponse{
		Administrator: settings.Administrator,
		BaseURI:       settings.BaseURI,
		ContractURI:   settings.ContractURI,
		RoyaltyBps:    settings.RoyaltyBps,
		Treasury:      settings.Treasury,
		PayoutPolicy:  settings.PayoutPolicy,
		PaymentPolicy: settings.PaymentPolicy,
	})
}

type adminTransferRequest struct {
	Account string `json:"account"`
}

// HandleTransferAdmin handles POST /admin/admin-transfer requests.
func (h *Handler) HandleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	req, ok := httputil.Decode[adminTransferRequest](w, r)
	if !ok {
		return
	}
	next, err := domain.ParseAccountID(req.Account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.TransferAdmin(ctx, caller, next); err != nil {
		h.logger.WarnContext(ctx, "admin transfer rejected",
			"request_id", middleware.GetRequestID(ctx), "caller", caller, "error", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
