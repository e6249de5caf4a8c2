// Package handler exposes the credit ledger over HTTP.
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

// Service defines the ledger operations the handler exposes.
type Service interface {
	Deposit(ctx context.Context, caller, account domain.AccountID, amount uint64) error
	Balance(ctx context.Context, account domain.AccountID) (uint64, error)
}

// AssetCounter reports how many assets an account owns.
type AssetCounter interface {
	BalanceOf(ctx context.Context, account domain.AccountID) (uint64, error)
}

type Handler struct {
	service Service
	assets  AssetCounter
	logger  *slog.Logger
}

func New(service Service, assets AssetCounter, logger *slog.Logger) *Handler {
	return &Handler{service: service, assets: assets, logger: logger}
}

// Register mounts the read endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/accounts/{account}/balance", h.HandleBalance)
}

// RegisterProtected mounts the mutating endpoints behind authentication.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/admin/ledger/deposit", h.HandleDeposit)
}

type balanceResponse struct {
	Account domain.AccountID `json:"account"`
	Credits uint64           `json:"credits"`
	Assets  uint64           `json:"assets"`
}

// HandleBalance handles GET /accounts/{account}/balance requests: the
// account's spendable credits and how many assets it holds.
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := domain.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	credits, err := h.service.Balance(ctx, account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	owned, err := h.assets.BalanceOf(ctx, account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, balanceResponse{
		Account: account,
		Credits: credits,
		Assets:  owned,
	})
}

type depositRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

// HandleDeposit handles POST /admin/ledger/deposit requests.
func (h *Handler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	req, ok := httputil.Decode[depositRequest](w, r)
	if !ok {
		return
	}
	account, err := domain.ParseAccountID(req.Account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Deposit(ctx, caller, account, req.Amount); err != nil {
		h.logger.WarnContext(ctx, "deposit rejected",
			"request_id", middleware.GetRequestID(ctx), "caller", caller, "error", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
