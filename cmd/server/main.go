// Server entrypoint: wires stores, services, and the HTTP router, then runs
// until interrupted. Business logic lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	accountshandler "hangar/internal/accounts/handler"
	accountsmodels "hangar/internal/accounts/models"
	accountsservice "hangar/internal/accounts/service"
	accountsstore "hangar/internal/accounts/store"
	assetstore "hangar/internal/asset/store"
	"hangar/internal/events"
	issuancehandler "hangar/internal/issuance/handler"
	issuancemetrics "hangar/internal/issuance/metrics"
	issuanceservice "hangar/internal/issuance/service"
	issuancestore "hangar/internal/issuance/store"
	"hangar/internal/jwttoken"
	ledgerhandler "hangar/internal/ledger/handler"
	ledgerservice "hangar/internal/ledger/service"
	ledgerstore "hangar/internal/ledger/store"
	markethandler "hangar/internal/market/handler"
	marketmetrics "hangar/internal/market/metrics"
	marketservice "hangar/internal/market/service"
	"hangar/internal/platform/config"
	"hangar/internal/platform/httpserver"
	"hangar/internal/platform/logger"
	"hangar/internal/platform/postgres"
	platformredis "hangar/internal/platform/redis"
	registryhandler "hangar/internal/registry/handler"
	registryservice "hangar/internal/registry/service"
	registrystore "hangar/internal/registry/store"
	settingshandler "hangar/internal/settings/handler"
	settingsmodels "hangar/internal/settings/models"
	settingsservice "hangar/internal/settings/service"
	settingsstore "hangar/internal/settings/store"
	httptransport "hangar/internal/transport/http"
	"hangar/pkg/domain"
	"hangar/pkg/platform/secrets"
	"hangar/pkg/platform/sentinel"
	"hangar/pkg/platform/tx"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	assets   assetstore.Store
	registry registrystore.Store
	issuance issuancestore.Store
	ledger   ledgerstore.Store
	settings settingsstore.Store
	accounts accountsstore.Store
	runner   tx.Runner
	db       *sql.DB
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initialSettings := settingsmodels.Settings{
		Administrator: domain.AccountID(cfg.Administrator),
		BaseURI:       cfg.BaseURI,
		ContractURI:   cfg.ContractURI,
		RoyaltyBps:    uint64(cfg.RoyaltyBps),
		Treasury:      domain.AccountID(cfg.Treasury),
		PayoutPolicy:  cfg.PayoutPolicy,
		PaymentPolicy: cfg.PaymentPolicy,
	}

	st, err := buildStores(ctx, cfg, initialSettings)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		st.assets = assetstore.NewCached(st.assets, redisClient.Client, cfg.AssetCacheTTL, log)
		log.Info("asset read cache enabled")
	}

	publisher, kafka, relay, err := buildPublisher(cfg, log)
	if err != nil {
		return err
	}
	if kafka != nil {
		defer kafka.Close()
	}

	settingsSvc := settingsservice.New(st.settings, settingsservice.WithLogger(log))

	registrySvc := registryservice.New(st.registry,
		registryservice.WithTxRunner(st.runner),
		registryservice.WithPublisher(publisher),
		registryservice.WithLogger(log),
	)
	registrySvc.RegisterTransferHook(marketservice.NewListingInvalidationHook(st.assets))

	issuanceSvc := issuanceservice.New(st.issuance, st.assets, registrySvc, settingsSvc,
		issuanceservice.WithTxRunner(st.runner),
		issuanceservice.WithPublisher(publisher),
		issuanceservice.WithMetrics(issuancemetrics.New()),
		issuanceservice.WithLogger(log),
	)

	ledgerSvc := ledgerservice.New(st.ledger, settingsSvc, ledgerservice.WithLogger(log))

	marketSvc := marketservice.New(st.assets, registrySvc, ledgerSvc, settingsSvc,
		marketservice.WithTxRunner(st.runner),
		marketservice.WithPublisher(publisher),
		marketservice.WithMetrics(marketmetrics.New()),
		marketservice.WithLogger(log),
	)

	jwtSvc := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTTTL)
	accountsSvc := accountsservice.New(st.accounts, jwtSvc, settingsSvc,
		accountsservice.WithLogger(log))
	if err := seedAdminCredential(ctx, cfg, st.accounts); err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		JWTValidator:   jwtSvc,
		RequestTimeout: 30 * time.Second,
		Handlers: []httptransport.Registrar{
			issuancehandler.New(issuanceSvc, log),
			markethandler.New(marketSvc, settingsSvc, issuanceSvc, log),
			registryhandler.New(registrySvc, log),
			ledgerhandler.New(ledgerSvc, registrySvc, log),
			settingshandler.New(settingsSvc, log),
			accountshandler.New(accountsSvc, cfg.JWTTTL, log),
		},
		Health: func(ctx context.Context) error {
			if st.db != nil {
				if err := st.db.PingContext(ctx); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	if relay != nil {
		g.Go(func() error { return relay.Run(ctx) })
	}
	g.Go(func() error {
		log.Info("starting hangar", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildStores(ctx context.Context, cfg config.Server, initial settingsmodels.Settings) (stores, error) {
	if cfg.DatabaseURL == "" {
		return stores{
			assets:   assetstore.NewInMemory(),
			registry: registrystore.NewInMemory(),
			issuance: issuancestore.NewInMemory(cfg.SupplyLimit),
			ledger:   ledgerstore.NewInMemory(),
			settings: settingsstore.NewInMemory(initial),
			accounts: accountsstore.NewInMemory(),
			runner:   tx.NewMemoryRunner(),
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return stores{}, err
	}

	issuanceStore := issuancestore.NewPostgres(db)
	if err := issuanceStore.Seed(ctx, cfg.SupplyLimit); err != nil {
		return stores{}, err
	}
	settingsStore := settingsstore.NewPostgres(db)
	if err := settingsStore.Seed(ctx, initial); err != nil {
		return stores{}, err
	}

	return stores{
		assets:   assetstore.NewPostgres(db),
		registry: registrystore.NewPostgres(db),
		issuance: issuanceStore,
		ledger:   ledgerstore.NewPostgres(db),
		settings: settingsStore,
		accounts: accountsstore.NewPostgres(db),
		runner:   tx.NewSQLRunner(db),
		db:       db,
	}, nil
}

func buildPublisher(cfg config.Server, log *slog.Logger) (events.Publisher, *events.KafkaPublisher, *events.Relay, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NopPublisher{}, nil, nil, nil
	}
	kafka, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, nil, err
	}
	relay := events.NewRelay(kafka, 256, log)
	return relay, kafka, relay, nil
}

// seedAdminCredential bootstraps the administrator's API credential so the
// first token can be issued without an existing authenticated session.
func seedAdminCredential(ctx context.Context, cfg config.Server, st accountsstore.Store) error {
	if cfg.AdminSecret == "" {
		return nil
	}
	hash, err := secrets.Hash(cfg.AdminSecret)
	if err != nil {
		return err
	}
	err = st.Create(ctx, accountsmodels.Credential{
		Account:    domain.AccountID(cfg.Administrator),
		SecretHash: hash,
		CreatedAt:  time.Now().UTC(),
	})
	if errors.Is(err, sentinel.ErrConflict) {
		return nil
	}
	return err
}
