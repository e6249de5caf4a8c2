// Package service exposes the ownership registry: issue, transfer, and the
// read side (ownerOf, balanceOf, enumeration by owner).
//
// Every ownership-changing path runs the registered transfer hooks
// synchronously, inside the same unit of work as the ownership write. The
// marketplace registers a hook that force-clears listings, so an asset moved
// around the marketplace can never keep a live listing.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"hangar/internal/events"
	"hangar/internal/registry/store"
	"hangar/pkg/domain"
	dErrors "hangar/pkg/domain-errors"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/platform/tx"
)

// TransferHook observes an ownership change as part of the transfer itself.
// A hook error aborts the whole transfer.
type TransferHook func(ctx context.Context, id domain.AssetID, from, to domain.AccountID) error

// Service is the ownership registry.
type Service struct {
	store     store.Store
	tx        tx.Runner
	publisher events.Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
	hooks     []TransferHook
}

type serviceConfig struct {
	tx        tx.Runner
	publisher events.Publisher
	logger    *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

func WithTxRunner(r tx.Runner) Option         { return func(c *serviceConfig) { c.tx = r } }
func WithPublisher(p events.Publisher) Option { return func(c *serviceConfig) { c.publisher = p } }
func WithLogger(l *slog.Logger) Option        { return func(c *serviceConfig) { c.logger = l } }

func New(st store.Store, opts ...Option) *Service {
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
		tx:        cfg.tx,
		publisher: cfg.publisher,
		logger:    cfg.logger,
		tracer:    otel.Tracer("hangar/registry"),
	}
}

// RegisterTransferHook adds a hook run on every ownership change. Call
// during wiring, before the service handles traffic.
func (s *Service) RegisterTransferHook(hook TransferHook) {
	s.hooks = append(s.hooks, hook)
}

// Issue records first ownership of a newly minted identifier. Used by the
// issuance controller inside its own unit of work.
func (s *Service) Issue(ctx context.Context, to domain.AccountID, id domain.AssetID) error {
	if err := s.store.Issue(ctx, to, id); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "asset id already issued")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue asset")
	}
	return nil
}

// OwnerOf returns the current owner of id.
func (s *Service) OwnerOf(ctx context.Context, id domain.AssetID) (domain.AccountID, error) {
	owner, err := s.store.OwnerOf(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "unknown asset")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read owner")
	}
	return owner, nil
}

// BalanceOf returns how many assets the account owns.
func (s *Service) BalanceOf(ctx context.Context, account domain.AccountID) (uint64, error) {
	count, err := s.store.BalanceOf(ctx, account)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read balance")
	}
	return count, nil
}

// AssetsOwnedBy enumerates identifiers owned by the account.
func (s *Service) AssetsOwnedBy(ctx context.Context, account domain.AccountID) ([]domain.AssetID, error) {
	ids, err := s.store.AssetsOwnedBy(ctx, account)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to enumerate assets")
	}
	return ids, nil
}

// DirectTransfer moves an asset between accounts outside the marketplace.
// Only the current owner may move it; any active listing is invalidated by
// the transfer hooks as part of this same call.
func (s *Service) DirectTransfer(ctx context.Context, caller, to domain.AccountID, id domain.AssetID) error {
	ctx, span := s.tracer.Start(ctx, "registry.DirectTransfer")
	defer span.End()

	if to.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "recipient is required")
	}
	if to == caller {
		return dErrors.New(dErrors.CodeBadRequest, "cannot transfer to self")
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		owner, err := s.store.OwnerOf(txCtx, id)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "unknown asset")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read owner")
		}
		if owner != caller {
			return dErrors.New(dErrors.CodeNotOwner, "caller does not own this asset")
		}
		return s.move(txCtx, id, caller, to)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "asset transferred",
		"asset_id", id.String(),
		"from", caller.String(),
		"to", to.String(),
	)
	if err := s.publisher.Publish(ctx, events.Event{
		Type:    events.TypeAssetTransferred,
		AssetID: id,
		Owner:   to,
	}); err != nil {
		s.logger.WarnContext(ctx, "transfer event not published", "asset_id", id.String(), "error", err)
	}
	return nil
}

// Move changes ownership on behalf of an already-validated marketplace
// settlement. The caller supplies the unit of work; hooks run inside it.
func (s *Service) Move(ctx context.Context, id domain.AssetID, from, to domain.AccountID) error {
	return s.move(ctx, id, from, to)
}

func (s *Service) move(ctx context.Context, id domain.AssetID, from, to domain.AccountID) error {
	if err := s.store.Transfer(ctx, from, to, id); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "unknown asset")
		case errors.Is(err, sentinel.ErrInvalidState):
			return dErrors.New(dErrors.CodeNotOwner, "sender no longer owns this asset")
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to transfer ownership")
		}
	}
	for _, hook := range s.hooks {
		if err := hook(ctx, id, from, to); err != nil {
			return err
		}
	}
	return nil
}
