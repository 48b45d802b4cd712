package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/sync/errgroup"

	"tourmint/internal/clock"
	"tourmint/internal/identity"
	institutionservice "tourmint/internal/institution/service"
	mintadmin "tourmint/internal/mint/admin"
	minthandler "tourmint/internal/mint/handler"
	mintmetrics "tourmint/internal/mint/metrics"
	"tourmint/internal/mint/models"
	mintservice "tourmint/internal/mint/service"
	"tourmint/internal/platform/badgerdb"
	"tourmint/internal/platform/config"
	"tourmint/internal/platform/database"
	"tourmint/internal/platform/health"
	"tourmint/internal/platform/logger"
	"tourmint/internal/platform/metrics"
	"tourmint/internal/platform/redis"
	"tourmint/internal/seeder"
	httptransport "tourmint/internal/transport/http"
	"tourmint/migrations"
	id "tourmint/pkg/domain"
	"tourmint/pkg/platform/audit"
	"tourmint/pkg/platform/tracer"
)

const (
	shutdownTimeout    = 10 * time.Second
	redisStatsInterval = 15 * time.Second
	readHeaderTimeout  = 5 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.NewWithLevel(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing tourmint",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"contract_owner", cfg.Registry.ContractOwner,
	)

	var db *sql.DB
	var pool *database.Pool
	if cfg.DatabaseURL != "" {
		p, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer p.Close()
		applied, err := database.Migrate(ctx, p.DB(), migrations.FS)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		log.Info("database migrations applied", "count", applied)
		pool, db = p, p.DB()
	}

	var kv *badger.DB
	if db == nil && cfg.DataDir != "" {
		opened, err := badgerdb.Open(cfg.DataDir, log)
		if err != nil {
			return fmt.Errorf("open badger: %w", err)
		}
		defer func() {
			if err := opened.Close(); err != nil {
				log.Error("failed to close badger", "error", err)
			}
		}()
		kv = opened
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	backend := buildMintBackend(db, kv)
	memberships, institutionBackend := buildInstitutionStore(rdb, db)

	auditStack, err := buildAudit(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer auditStack.Close()
	auditor := audit.NewLogger(log, auditStack.publisher)

	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.OTelEnabled {
		tr = tracer.NewOTel()
	}

	gate, err := institutionservice.NewGate(memberships, institutionservice.WithLogger(log))
	if err != nil {
		return err
	}

	chain := clock.New(0)
	mintMetrics := mintmetrics.New()

	mintSvc, err := mintservice.New(backend.tx, backend.stores, gate, chain,
		mintservice.WithLogger(log),
		mintservice.WithAuditLogger(auditor),
		mintservice.WithMetrics(mintMetrics),
		mintservice.WithTracer(tr),
	)
	if err != nil {
		return fmt.Errorf("create mint service: %w", err)
	}
	adminSvc := mintadmin.New(backend.settings,
		mintadmin.WithLogger(log),
		mintadmin.WithAuditLogger(auditor),
		mintadmin.WithMetrics(mintMetrics),
		mintadmin.WithTracer(tr),
	)

	err = seeder.New(gate, backend.settings, backend.accounts, log).SeedAll(ctx, seeder.Seed{
		Settings: models.Settings{
			ContractOwner:   id.Identity(cfg.Registry.ContractOwner),
			MintFee:         cfg.Registry.MintFee,
			MaxEditionLimit: cfg.Registry.MaxEditionLimit,
		},
		Issuers:  cfg.Registry.Issuers,
		Balances: cfg.Registry.InitialBalances,
	})
	if err != nil {
		return fmt.Errorf("seed registry: %w", err)
	}

	healthHandler := health.New(cfg.Environment, map[string]string{
		"registry":     backend.name,
		"institutions": institutionBackend,
		"audit":        auditStack.backend,
	})
	if pool != nil {
		healthHandler.RegisterCheck("postgres", pool.Health)
	}
	if rdb != nil {
		healthHandler.RegisterCheck("redis", rdb.Health)
	}

	mintHandler := minthandler.New(mintSvc, adminSvc, auditStack.publisher, log)
	router := httptransport.NewRouter(httptransport.Config{
		Logger:        log,
		Metrics:       metrics.New(),
		Tokens:        identity.NewService(cfg.JWTSigningKey, identity.DefaultIssuer, cfg.TokenTTL),
		AdminAPIToken: cfg.AdminAPIToken,
		Health:        healthHandler,
		Public:        []httptransport.RouteRegistrar{mintHandler},
		Ops:           []httptransport.OpsRegistrar{mintHandler},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr, "registry_backend", backend.name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return chain.Run(gctx, cfg.Registry.BlockInterval, log)
	})
	if kv != nil {
		g.Go(func() error {
			return badgerdb.RunGC(gctx, kv, badgerdb.DefaultGCInterval, log)
		})
	}
	if rdb != nil {
		g.Go(func() error {
			return rdb.RunPoolStats(gctx, redisStatsInterval)
		})
	}

	return g.Wait()
}
