// Package handler exposes account registration and token issuance.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hangar/internal/platform/middleware"
	"hangar/pkg/domain"
	"hangar/pkg/platform/httputil"
)

// Service defines the account operations the handler exposes.
type Service interface {
	Register(ctx context.Context, caller domain.AccountID, rawAccount string) (string, error)
	Revoke(ctx context.Context, caller, account domain.AccountID) error
	IssueToken(ctx context.Context, rawAccount, secret string) (string, error)
}

type Handler struct {
	service  Service
	tokenTTL time.Duration
	logger   *slog.Logger
}

func New(service Service, tokenTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{service: service, tokenTTL: tokenTTL, logger: logger}
}

// Register mounts the public token endpoint.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/token", h.HandleIssueToken)
}

// RegisterProtected mounts account administration behind authentication.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/admin/accounts", h.HandleRegisterAccount)
	r.Delete("/admin/accounts/{account}", h.HandleRevokeAccount)
}

type tokenRequest struct {
	Account string `json:"account"`
	Secret  string `json:"secret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// HandleIssueToken handles POST /auth/token requests.
func (h *Handler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[tokenRequest](w, r)
	if !ok {
		return
	}

	token, err := h.service.IssueToken(ctx, req.Account, req.Secret)
	if err != nil {
		h.logger.WarnContext(ctx, "token issuance rejected",
			"request_id", middleware.GetRequestID(ctx), "account", req.Account, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenTTL.Seconds()),
	})
}

type registerRequest struct {
	Account string `json:"account"`
}

type registerResponse struct {
	Account string `json:"account"`
	Secret  string `json:"secret"`
}

// HandleRegisterAccount handles POST /admin/accounts requests. The response
// is the only time the plaintext secret is revealed.
func (h *Handler) HandleRegisterAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	req, ok := httputil.Decode[registerRequest](w, r)
	if !ok {
		return
	}

	secret, err := h.service.Register(ctx, caller, req.Account)
	if err != nil {
		h.logger.WarnContext(ctx, "account registration rejected",
			"request_id", middleware.GetRequestID(ctx), "caller", caller, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, registerResponse{
		Account: req.Account,
		Secret:  secret,
	})
}

// HandleRevokeAccount handles DELETE /admin/accounts/{account} requests.
func (h *Handler) HandleRevokeAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	account, err := domain.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Revoke(ctx, caller, account); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
