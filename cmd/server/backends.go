package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	institutionservice "tourmint/internal/institution/service"
	institutionstore "tourmint/internal/institution/store"
	mintadmin "tourmint/internal/mint/admin"
	mintservice "tourmint/internal/mint/service"
	mintstore "tourmint/internal/mint/store"
	"tourmint/internal/payment/ledger"
	"tourmint/internal/platform/config"
	"tourmint/internal/platform/kafka/producer"
	"tourmint/internal/platform/redis"
	"tourmint/internal/seeder"
	"tourmint/pkg/platform/audit"
	auditmetrics "tourmint/pkg/platform/audit/metrics"
	"tourmint/pkg/platform/audit/publisher"
	kafkasink "tourmint/pkg/platform/audit/sink/kafka"
	auditmemory "tourmint/pkg/platform/audit/store/memory"
	auditpostgres "tourmint/pkg/platform/audit/store/postgres"
)

// settingsStore is what the seeder, admin service and orchestrator need from
// the settings backend.
type settingsStore interface {
	mintadmin.SettingsStore
	seeder.SettingsInitializer
}

// accountLedger is the payment backend seen by the seeder and orchestrator.
type accountLedger interface {
	mintservice.PaymentGateway
	seeder.AccountSeeder
}

// mintBackend is the chosen persistence for credentials, settings and payments.
type mintBackend struct {
	name     string
	stores   mintservice.Stores
	tx       mintservice.StoreTx
	settings settingsStore
	accounts accountLedger
}

// buildMintBackend prefers postgres, then badger, then memory.
func buildMintBackend(db *sql.DB, kv *badger.DB) mintBackend {
	switch {
	case db != nil:
		settings := mintstore.NewPostgresSettingsStore(db)
		accounts := ledger.NewPostgres(db)
		stores := mintservice.Stores{
			Credentials: mintstore.NewPostgresCredentialStore(db),
			Settings:    settings,
			Payments:    accounts,
		}
		return mintBackend{name: "postgres", stores: stores, tx: newMintPostgresTx(db), settings: settings, accounts: accounts}
	case kv != nil:
		settings := mintstore.NewBadgerSettingsStore(kv)
		accounts := ledger.NewBadger(kv)
		stores := mintservice.Stores{
			Credentials: mintstore.NewBadgerCredentialStore(kv),
			Settings:    settings,
			Payments:    accounts,
		}
		return mintBackend{name: "badger", stores: stores, tx: mintservice.NewInMemoryStoreTx(stores), settings: settings, accounts: accounts}
	default:
		settings := mintstore.NewInMemorySettingsStore()
		accounts := ledger.NewInMemoryLedger()
		stores := mintservice.Stores{
			Credentials: mintstore.NewInMemoryCredentialStore(),
			Settings:    settings,
			Payments:    accounts,
		}
		return mintBackend{name: "memory", stores: stores, tx: mintservice.NewInMemoryStoreTx(stores), settings: settings, accounts: accounts}
	}
}

// buildInstitutionStore prefers redis, then postgres, then memory.
func buildInstitutionStore(rdb *redis.Client, db *sql.DB) (institutionservice.MembershipStore, string) {
	switch {
	case rdb != nil:
		return institutionstore.NewRedis(rdb.Client), "redis"
	case db != nil:
		return institutionstore.NewPostgres(db), "postgres"
	default:
		return institutionstore.NewInMemoryStore(), "memory"
	}
}

// auditStack bundles the publisher with the resources it owns.
type auditStack struct {
	publisher *publisher.Publisher
	producer  *producer.Producer
	backend   string
}

func (a *auditStack) Close() {
	a.publisher.Close()
	if a.producer != nil {
		_ = a.producer.Close() //nolint:errcheck // shutdown path
	}
}

func buildAudit(ctx context.Context, cfg config.Server, db *sql.DB, logger *slog.Logger) (*auditStack, error) {
	var (
		store   audit.Store = auditmemory.NewInMemoryStore()
		backend             = "memory"
	)
	if db != nil {
		store = auditpostgres.New(db)
		backend = "postgres"
	}

	m := auditmetrics.New()
	opts := []publisher.PublisherOption{
		publisher.WithPublisherLogger(logger),
		publisher.WithPublisherMetrics(m),
		publisher.WithAsyncBuffer(1024),
	}

	stack := &auditStack{backend: backend}
	if cfg.KafkaBrokers != "" {
		p, err := producer.New(producer.DefaultConfig(cfg.KafkaBrokers), logger)
		if err != nil {
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		if !p.Healthy(ctx) {
			logger.Warn("kafka brokers unreachable at startup, audit sink will retry", "brokers", cfg.KafkaBrokers)
		}
		stack.producer = p
		opts = append(opts, publisher.WithSink(kafkasink.New(p, cfg.KafkaAuditTopic,
			kafkasink.WithLogger(logger),
			kafkasink.WithMetrics(m),
		)))
		stack.backend += "+kafka"
	}
	stack.publisher = publisher.NewPublisher(store, opts...)
	return stack, nil
}
