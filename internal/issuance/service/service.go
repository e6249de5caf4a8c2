// Package service implements the issuance controller: it gates creation of
// new assets behind the supply cap, the allow-list, the mint-enabled switch,
// and metadata-hash validation and uniqueness.
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
	issuancemetrics "hangar/internal/issuance/metrics"
	"hangar/internal/issuance/store"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/platform/tx"
)

// Registry is the slice of the ownership registry the issuance controller
// consumes: recording first ownership of a freshly allocated identifier.
type Registry interface {
	Issue(ctx context.Context, to domain.AccountID, id domain.AssetID) error
}

// AdminChecker answers whether an account is the current administrator.
type AdminChecker interface {
	IsAdmin(ctx context.Context, account domain.AccountID) (bool, error)
}

// Service orchestrates minting and issuance configuration.
type Service struct {
	store     store.Store
	assets    assetstore.Store
	registry  Registry
	admin     AdminChecker
	tx        tx.Runner
	publisher events.Publisher
	metrics   *issuancemetrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

type serviceConfig struct {
	tx        tx.Runner
	publisher events.Publisher
	metrics   *issuancemetrics.Metrics
	logger    *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

func WithTxRunner(r tx.Runner) Option               { return func(c *serviceConfig) { c.tx = r } }
func WithPublisher(p events.Publisher) Option       { return func(c *serviceConfig) { c.publisher = p } }
func WithMetrics(m *issuancemetrics.Metrics) Option { return func(c *serviceConfig) { c.metrics = m } }
func WithLogger(l *slog.Logger) Option              { return func(c *serviceConfig) { c.logger = l } }

func New(st store.Store, assets assetstore.Store, registry Registry, admin AdminChecker, opts ...Option) *Service {
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
		store:     st,
		assets:    assets,
		registry:  registry,
		admin:     admin,
		tx:        cfg.tx,
		publisher: cfg.publisher,
		metrics:   cfg.metrics,
		logger:    cfg.logger,
		tracer:    otel.Tracer("hangar/issuance"),
	}
}

// Mint validates and issues a new asset to caller. Preconditions are checked
// in a fixed order, each with its own failure kind, and validation completes
// fully before any mutation: the whole call is one unit of work.
func (s *Service) Mint(ctx context.Context, caller domain.AccountID, rawHash string) (*assetmodels.Asset, error) {
	start := time.Now()
	defer s.metrics.ObserveMint(start)

	ctx, span := s.tracer.Start(ctx, "issuance.Mint")
	defer span.End()

	hash, err := domain.ParseMetadataHash(rawHash)
	if err != nil {
		return nil, s.rejectMint(ctx, caller, err)
	}

	var minted *assetmodels.Asset
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		supply, err := s.store.Supply(txCtx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read supply state")
		}
		if !supply.MintEnabled {
			return dErrors.New(dErrors.CodeMintingDisabled, "minting is disabled")
		}
		if supply.Issued >= supply.Limit {
			return dErrors.New(dErrors.CodeSupplyExhausted, "supply limit reached")
		}

		allowed, err := s.store.IsAllowlisted(txCtx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check allow-list")
		}
		if !allowed {
			return dErrors.New(dErrors.CodeNotAllowlisted, "account is not allow-listed for minting")
		}

		bound, err := s.assets.HashBound(txCtx, hash)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check metadata hash")
		}
		if bound {
			return dErrors.New(dErrors.CodeInvalidMetadata, "metadata hash is already bound to another asset")
		}

		id, err := s.store.AllocateID(txCtx)
		if err != nil {
			if errors.Is(err, sentinel.ErrInvalidState) {
				return dErrors.New(dErrors.CodeSupplyExhausted, "supply limit reached")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate asset id")
		}

		asset := assetmodels.NewAsset(id, hash, caller, time.Now())
		if err := s.assets.Create(txCtx, asset); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeInvalidMetadata, "metadata hash is already bound to another asset")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create asset record")
		}
		if err := s.registry.Issue(txCtx, caller, id); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record ownership")
		}
		minted = asset
		return nil
	})
	if err != nil {
		return nil, s.rejectMint(ctx, caller, err)
	}

	s.metrics.IncrementMinted()
	s.logger.InfoContext(ctx, "asset minted",
		"asset_id", minted.ID.String(),
		"owner", caller.String(),
	)
	if err := s.publisher.Publish(ctx, events.Event{
		Type:         events.TypeAssetMinted,
		AssetID:      minted.ID,
		Owner:        caller,
		MetadataHash: minted.MetadataHash,
	}); err != nil {
		s.logger.WarnContext(ctx, "mint event not published", "asset_id", minted.ID.String(), "error", err)
	}
	return minted, nil
}

func (s *Service) rejectMint(ctx context.Context, caller domain.AccountID, err error) error {
	s.metrics.IncrementMintRejected(string(dErrors.CodeOf(err)))
	s.logger.WarnContext(ctx, "mint rejected", "caller", caller.String(), "error", err.Error())
	return err
}

// SetMintEnabled flips the administrator-controlled minting switch.
func (s *Service) SetMintEnabled(ctx context.Context, caller domain.AccountID, enabled bool) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.store.SetMintEnabled(ctx, enabled); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set minting switch")
	}
	s.logger.InfoContext(ctx, "minting switch changed", "enabled", enabled)
	return nil
}

// SetSupplyLimit raises the supply cap. Lowering (or restating) the cap is
// rejected with its own failure kind.
func (s *Service) SetSupplyLimit(ctx context.Context, caller domain.AccountID, newLimit uint64) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.store.SetSupplyLimit(ctx, newLimit); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return dErrors.New(dErrors.CodeSupplyLimitDecrease, "supply limit may only be increased")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set supply limit")
	}
	s.logger.InfoContext(ctx, "supply limit raised", "limit", newLimit)
	return nil
}

// AllowlistAdd inserts an account into the minting allow-list. Idempotent.
func (s *Service) AllowlistAdd(ctx context.Context, caller, account domain.AccountID) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if account.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "account is required")
	}
	if err := s.store.AllowlistAdd(ctx, account); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add allow-list entry")
	}
	return nil
}

// AllowlistRemove deletes an account from the minting allow-list.
func (s *Service) AllowlistRemove(ctx context.Context, caller, account domain.AccountID) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.store.AllowlistRemove(ctx, account); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove allow-list entry")
	}
	return nil
}

// IsAllowlisted reports allow-list membership. Public read.
func (s *Service) IsAllowlisted(ctx context.Context, account domain.AccountID) (bool, error) {
	allowed, err := s.store.IsAllowlisted(ctx, account)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check allow-list")
	}
	return allowed, nil
}

// Allowlist returns all allow-listed accounts. Public read.
func (s *Service) Allowlist(ctx context.Context) ([]domain.AccountID, error) {
	members, err := s.store.Allowlist(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list allow-list")
	}
	return members, nil
}

// Supply returns the current supply state. Public read.
func (s *Service) Supply(ctx context.Context) (store.SupplyState, error) {
	supply, err := s.store.Supply(ctx)
	if err != nil {
		return store.SupplyState{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read supply state")
	}
	return supply, nil
}

func (s *Service) requireAdmin(ctx context.Context, caller domain.AccountID) error {
	ok, err := s.admin.IsAdmin(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve administrator")
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "administrator only")
	}
	return nil
}
