// Package service implements the marketplace engine: fixed-price listings
// over registry-owned assets, with payment-gated atomic purchase.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	assetmodels "hangar/internal/asset/models"
	assetstore "hangar/internal/asset/store"
	"hangar/internal/events"
	marketmetrics "hangar/internal/market/metrics"
	"hangar/internal/platform/config"
	settingsmodels "hangar/internal/settings/models"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
	"hangar/pkg/platform/guard"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/platform/tx"
)

// Registry is the slice of the ownership registry the marketplace consumes:
// fresh ownership reads and the settlement-side transfer primitive.
type Registry interface {
	OwnerOf(ctx context.Context, id domain.AssetID) (domain.AccountID, error)
	Move(ctx context.Context, id domain.AssetID, from, to domain.AccountID) error
}

// Ledger settles the payment leg of a purchase.
type Ledger interface {
	Pay(ctx context.Context, from, to domain.AccountID, amount uint64) error
}

// Settings supplies the payout and payment policies in force.
type Settings interface {
	Get(ctx context.Context) (settingsmodels.Settings, error)
}

// Service orchestrates listings and purchases. Every mutating operation is
// one indivisible unit of work; a call arriving while another mutating call
// is in flight is rejected rather than queued.
type Service struct {
	assets    assetstore.Store
	registry  Registry
	ledger    Ledger
	settings  Settings
	guard     *guard.Guard
	tx        tx.Runner
	publisher events.Publisher
	metrics   *marketmetrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

type serviceConfig struct {
	tx        tx.Runner
	publisher events.Publisher
	metrics   *marketmetrics.Metrics
	logger    *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

func WithTxRunner(r tx.Runner) Option             { return func(c *serviceConfig) { c.tx = r } }
func WithPublisher(p events.Publisher) Option     { return func(c *serviceConfig) { c.publisher = p } }
func WithMetrics(m *marketmetrics.Metrics) Option { return func(c *serviceConfig) { c.metrics = m } }
func WithLogger(l *slog.Logger) Option            { return func(c *serviceConfig) { c.logger = l } }

func New(assets assetstore.Store, registry Registry, ledger Ledger, settings Settings, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.tx == nil {
		cfg.tx = tx.NewMemoryRunner()
	}
	if cfg.publisher == nil {
		cfg.publisher = events.NopPublisher{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		assets:    assets,
		registry:  registry,
		ledger:    ledger,
		settings:  settings,
		guard:     &guard.Guard{},
		tx:        cfg.tx,
		publisher: cfg.publisher,
		metrics:   cfg.metrics,
		logger:    cfg.logger,
		tracer:    otel.Tracer("hangar/market"),
	}
}

// List puts an asset up for sale at a fixed price. Only the registry-current
// owner may list, and an active listing cannot be replaced.
func (s *Service) List(ctx context.Context, caller domain.AccountID, id domain.AssetID, price uint64) (*assetmodels.Asset, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	if err := s.requireOwner(ctx, caller, id); err != nil {
		return nil, err
	}

	asset, err := s.assets.Execute(ctx, id,
		func(a *assetmodels.Asset) error { return a.CanList(price) },
		func(a *assetmodels.Asset) { a.ApplyListing(caller, price, time.Now().UTC()) },
	)
	if err != nil {
		return nil, translateAssetErr(err, "list asset")
	}

	s.metrics.IncrementListingsCreated()
	s.logger.InfoContext(ctx, "asset listed", "asset_id", id, "seller", caller, "price", price)
	s.publish(ctx, events.Event{
		Type:    events.TypeAssetListed,
		AssetID: id,
		Owner:   caller,
		Seller:  caller,
		Price:   price,
	})
	return asset, nil
}

// Cancel takes an active listing off sale.
func (s *Service) Cancel(ctx context.Context, caller domain.AccountID, id domain.AssetID) (*assetmodels.Asset, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	if err := s.requireOwner(ctx, caller, id); err != nil {
		return nil, err
	}

	asset, err := s.assets.Execute(ctx, id,
		func(a *assetmodels.Asset) error { return a.CanCancel() },
		func(a *assetmodels.Asset) { a.ApplyDelisting(time.Now().UTC()) },
	)
	if err != nil {
		return nil, translateAssetErr(err, "cancel listing")
	}

	s.metrics.IncrementListingsCancelled()
	s.logger.InfoContext(ctx, "listing cancelled", "asset_id", id, "seller", caller)
	s.publish(ctx, events.Event{
		Type:    events.TypeAssetCancelled,
		AssetID: id,
		Owner:   caller,
		Seller:  caller,
	})
	return asset, nil
}

// UpdatePrice changes the asking price of an active listing.
func (s *Service) UpdatePrice(ctx context.Context, caller domain.AccountID, id domain.AssetID, price uint64) (*assetmodels.Asset, error) {
	if err := s.guard.Enter(); err != nil {
		return nil, err
	}
	defer s.guard.Exit()

	if err := s.requireOwner(ctx, caller, id); err != nil {
		return nil, err
	}

	asset, err := s.assets.Execute(ctx, id,
		func(a *assetmodels.Asset) error { return a.CanUpdatePrice(price) },
		func(a *assetmodels.Asset) { a.ApplyPriceUpdate(price, time.Now().UTC()) },
	)
	if err != nil {
		return nil, translateAssetErr(err, "update price")
	}

	s.logger.InfoContext(ctx, "listing repriced", "asset_id", id, "seller", caller, "price", price)
	s.publish(ctx, events.Event{
		Type:    events.TypeAssetRelisted,
		AssetID: id,
		Owner:   caller,
		Seller:  caller,
		Price:   price,
	})
	return asset, nil
}

// Buy settles a purchase: payment moves to the payout destination and
// ownership moves to the buyer as one unit of work. Every precondition is
// re-read fresh inside the call; any failure leaves all state untouched.
func (s *Service) Buy(ctx context.Context, buyer domain.AccountID, id domain.AssetID, payment uint64) (*assetmodels.Asset, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "market.Buy")
	defer span.End()

	if err := s.guard.Enter(); err != nil {
		return nil, s.rejectBuy(ctx, buyer, id, err)
	}
	defer s.guard.Exit()

	if buyer.IsZero() {
		return nil, s.rejectBuy(ctx, buyer, id, dErrors.New(dErrors.CodeBadRequest, "buyer is required"))
	}

	// Preconditions and settlement share one unit of work so an ownership
	// change cannot slip between the staleness check and the transfer.
	var seller, payee domain.AccountID
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		asset, err := s.assets.Get(ctx, id)
		if err != nil {
			return translateAssetErr(err, "load asset")
		}
		owner, err := s.registry.OwnerOf(ctx, id)
		if err != nil {
			return err
		}
		if buyer == owner {
			return dErrors.New(dErrors.CodeSelfPurchase, "cannot buy own asset")
		}
		if !asset.Listed {
			return dErrors.New(dErrors.CodeNotListed, "asset is not for sale")
		}
		if owner != asset.Seller {
			return dErrors.New(dErrors.CodeStaleListing, "asset changed hands since listing")
		}

		settings, err := s.settings.Get(ctx)
		if err != nil {
			return err
		}
		if err := checkPayment(settings.PaymentPolicy, asset.Price, payment); err != nil {
			return err
		}
		payee, err = payoutDestination(settings, asset.Seller)
		if err != nil {
			return err
		}
		seller = asset.Seller

		if err := s.ledger.Pay(ctx, buyer, payee, payment); err != nil {
			return err
		}
		// Move drives the registered transfer hooks, which force the
		// listing off sale and retarget the tracked owner.
		return s.registry.Move(ctx, id, seller, buyer)
	})
	if err != nil {
		return nil, s.rejectBuy(ctx, buyer, id, err)
	}

	sold, err := s.assets.Get(ctx, id)
	if err != nil {
		return nil, translateAssetErr(err, "reload asset")
	}

	s.metrics.RecordSale(payment)
	s.metrics.ObserveBuy(start)
	s.logger.InfoContext(ctx, "asset sold",
		"asset_id", id, "seller", seller, "buyer", buyer, "price", payment, "payee", payee)
	s.publish(ctx, events.Event{
		Type:    events.TypeAssetSold,
		AssetID: id,
		Owner:   buyer,
		Seller:  seller,
		Buyer:   buyer,
		Price:   payment,
	})
	return sold, nil
}

// Asset returns a single asset record.
func (s *Service) Asset(ctx context.Context, id domain.AssetID) (*assetmodels.Asset, error) {
	asset, err := s.assets.Get(ctx, id)
	if err != nil {
		return nil, translateAssetErr(err, "load asset")
	}
	return asset, nil
}

// Assets returns all minted assets in id order.
func (s *Service) Assets(ctx context.Context) ([]*assetmodels.Asset, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list assets")
	}
	return assets, nil
}

// AssetsOwnedBy returns the assets whose tracked owner matches.
func (s *Service) AssetsOwnedBy(ctx context.Context, owner domain.AccountID) ([]*assetmodels.Asset, error) {
	assets, err := s.assets.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list assets by owner")
	}
	return assets, nil
}

func (s *Service) requireOwner(ctx context.Context, caller domain.AccountID, id domain.AssetID) error {
	owner, err := s.registry.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if caller.IsZero() || caller != owner {
		return dErrors.New(dErrors.CodeNotOwner, "caller does not own this asset")
	}
	return nil
}

func (s *Service) rejectBuy(ctx context.Context, buyer domain.AccountID, id domain.AssetID, err error) error {
	s.metrics.IncrementBuyRejected(string(dErrors.CodeOf(err)))
	s.logger.WarnContext(ctx, "buy rejected",
		"asset_id", id, "buyer", buyer, "reason", dErrors.CodeOf(err), "error", err)
	return err
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, events.Stamp(event)); err != nil {
		s.logger.WarnContext(ctx, "event publish failed", "type", event.Type, "error", err)
	}
}

func checkPayment(policy config.PaymentPolicy, price, payment uint64) error {
	switch policy {
	case config.PaymentMinimum:
		if payment < price {
			return dErrors.Newf(dErrors.CodePriceMismatch, "payment %d below price %d", payment, price)
		}
	default:
		if payment != price {
			return dErrors.Newf(dErrors.CodePriceMismatch, "payment %d does not match price %d", payment, price)
		}
	}
	return nil
}

func payoutDestination(settings settingsmodels.Settings, seller domain.AccountID) (domain.AccountID, error) {
	if settings.PayoutPolicy != config.PayoutTreasury {
		return seller, nil
	}
	if settings.Treasury.IsZero() {
		return "", dErrors.New(dErrors.CodeInternal, "treasury payout enabled without a treasury account")
	}
	return settings.Treasury, nil
}

func translateAssetErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "asset not found")
	default:
		var de *dErrors.Error
		if errors.As(err, &de) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
