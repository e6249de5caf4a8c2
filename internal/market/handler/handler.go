// Package handler wires marketplace endpoints to the marketplace service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	assetmodels "hangar/internal/asset/models"
	"hangar/internal/platform/middleware"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
	"hangar/pkg/platform/httputil"
)

// Service defines the marketplace operations the handler exposes.
type Service interface {
	List(ctx context.Context, caller domain.AccountID, id domain.AssetID, price uint64) (*assetmodels.Asset, error)
	Cancel(ctx context.Context, caller domain.AccountID, id domain.AssetID) (*assetmodels.Asset, error)
	UpdatePrice(ctx context.Context, caller domain.AccountID, id domain.AssetID, price uint64) (*assetmodels.Asset, error)
	Buy(ctx context.Context, buyer domain.AccountID, id domain.AssetID, payment uint64) (*assetmodels.Asset, error)
	Asset(ctx context.Context, id domain.AssetID) (*assetmodels.Asset, error)
	Assets(ctx context.Context) ([]*assetmodels.Asset, error)
	AssetsOwnedBy(ctx context.Context, owner domain.AccountID) ([]*assetmodels.Asset, error)
}

// URIResolver resolves the public metadata location of an asset.
type URIResolver interface {
	TokenURI(ctx context.Context, hash domain.MetadataHash) (string, error)
}

// AllowlistChecker reports minting eligibility. The asset list partitions on
// it: assets held by allow-listed operators form the fleet, the rest are
// privately held.
type AllowlistChecker interface {
	IsAllowlisted(ctx context.Context, account domain.AccountID) (bool, error)
}

// Handler wires marketplace endpoints to the marketplace service.
type Handler struct {
	service   Service
	uris      URIResolver
	allowlist AllowlistChecker
	logger    *slog.Logger
}

func New(service Service, uris URIResolver, allowlist AllowlistChecker, logger *slog.Logger) *Handler {
	return &Handler{service: service, uris: uris, allowlist: allowlist, logger: logger}
}

// Register mounts the read endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/assets", h.HandleAssets)
	r.Get("/assets/{id}", h.HandleAsset)
	r.Get("/assets/{id}/uri", h.HandleAssetURI)
	r.Get("/accounts/{account}/assets", h.HandleOwnedAssets)
}

// RegisterProtected mounts the mutating endpoints behind authentication.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/assets/{id}/list", h.HandleList)
	r.Post("/assets/{id}/cancel", h.HandleCancel)
	r.Post("/assets/{id}/price", h.HandleUpdatePrice)
	r.Post("/assets/{id}/buy", h.HandleBuy)
}

type listRequest struct {
	Price uint64 `json:"price"`
}

type priceRequest struct {
	Price uint64 `json:"price"`
}

type buyRequest struct {
	Payment uint64 `json:"payment"`
}

// HandleList handles POST /assets/{id}/list requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[listRequest](w, r)
	if !ok {
		return
	}

	asset, err := h.service.List(ctx, caller, id, req.Price)
	if err != nil {
		h.logger.WarnContext(ctx, "list rejected",
			"request_id", middleware.GetRequestID(ctx), "asset_id", id, "caller", caller, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAsset(asset))
}

// HandleCancel handles POST /assets/{id}/cancel requests.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	id, ok := assetID(w, r)
	if !ok {
		return
	}

	asset, err := h.service.Cancel(ctx, caller, id)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel rejected",
			"request_id", middleware.GetRequestID(ctx), "asset_id", id, "caller", caller, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAsset(asset))
}

// HandleUpdatePrice handles POST /assets/{id}/price requests.
func (h *Handler) HandleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := middleware.GetAccount(ctx)
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[priceRequest](w, r)
	if !ok {
		return
	}

	asset, err := h.service.UpdatePrice(ctx, caller, id, req.Price)
	if err != nil {
		h.logger.WarnContext(ctx, "price update rejected",
			"request_id", middleware.GetRequestID(ctx), "asset_id", id, "caller", caller, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAsset(asset))
}

// HandleBuy handles POST /assets/{id}/buy requests.
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	buyer := middleware.GetAccount(ctx)
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[buyRequest](w, r)
	if !ok {
		return
	}

	asset, err := h.service.Buy(ctx, buyer, id, req.Payment)
	if err != nil {
		h.logger.WarnContext(ctx, "buy rejected",
			"request_id", middleware.GetRequestID(ctx), "asset_id", id, "buyer", buyer, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAsset(asset))
}

// HandleAssets handles GET /assets requests. An optional partition query
// splits the records by holder eligibility: fleet assets sit with allow-listed
// operators, private assets with everyone else.
func (h *Handler) HandleAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assets, err := h.service.Assets(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	switch partition := r.URL.Query().Get("partition"); partition {
	case "":
	case "fleet":
		assets, err = h.filterByAllowlist(ctx, assets, true)
	case "private":
		assets, err = h.filterByAllowlist(ctx, assets, false)
	default:
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "unknown partition %q", partition))
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromAssets(assets))
}

// HandleAsset handles GET /assets/{id} requests.
func (h *Handler) HandleAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.service.Asset(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromAsset(asset))
}

// HandleAssetURI handles GET /assets/{id}/uri requests.
func (h *Handler) HandleAssetURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	asset, err := h.service.Asset(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	uri, err := h.uris.TokenURI(ctx, asset.MetadataHash)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"uri": uri})
}

// HandleOwnedAssets handles GET /accounts/{account}/assets requests.
func (h *Handler) HandleOwnedAssets(w http.ResponseWriter, r *http.Request) {
	account, err := domain.ParseAccountID(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	assets, err := h.service.AssetsOwnedBy(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ownedAssetsResponse{
		Account: account,
		Count:   len(assets),
		Assets:  fromAssets(assets),
	})
}

func assetID(w http.ResponseWriter, r *http.Request) (domain.AssetID, bool) {
	id, err := domain.ParseAssetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return id, true
}

func (h *Handler) filterByAllowlist(ctx context.Context, assets []*assetmodels.Asset, want bool) ([]*assetmodels.Asset, error) {
	eligible := make(map[domain.AccountID]bool, len(assets))
	out := make([]*assetmodels.Asset, 0, len(assets))
	for _, a := range assets {
		ok, seen := eligible[a.Owner]
		if !seen {
			var err error
			ok, err = h.allowlist.IsAllowlisted(ctx, a.Owner)
			if err != nil {
				return nil, err
			}
			eligible[a.Owner] = ok
		}
		if ok == want {
			out = append(out, a)
		}
	}
	return out, nil
}
