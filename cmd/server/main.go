package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	allochandler "pensionledger/internal/allocation/handler"
	allocmetrics "pensionledger/internal/allocation/metrics"
	allocservice "pensionledger/internal/allocation/service"
	allocstore "pensionledger/internal/allocation/store"
	"pensionledger/internal/audit"
	benefithandler "pensionledger/internal/benefit/handler"
	benefitmetrics "pensionledger/internal/benefit/metrics"
	benefitservice "pensionledger/internal/benefit/service"
	benefitstore "pensionledger/internal/benefit/store"
	"pensionledger/internal/jwtsession"
	"pensionledger/internal/platform/config"
	"pensionledger/internal/platform/httpserver"
	"pensionledger/internal/platform/kafka"
	"pensionledger/internal/platform/logger"
	"pensionledger/internal/platform/metrics"
	"pensionledger/internal/platform/postgres"
	"pensionledger/internal/platform/redis"
	httptransport "pensionledger/internal/transport/http"
	id "pensionledger/pkg/domain"
	admingate "pensionledger/pkg/platform/middleware/admin"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if cfg.AdminTokenHash == "" && cfg.AdminToken == "" {
		log.Error("no admin credential configured; set ADMIN_TOKEN_HASH or ADMIN_TOKEN")
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		log.Error("postgres setup failed", "error", err.Error())
		os.Exit(1)
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Error("kafka setup failed", "error", err.Error())
		os.Exit(1)
	}
	if producer != nil {
		defer producer.Close()
	}

	appMetrics := metrics.New()
	admin := id.Identity(cfg.AdminIdentity)

	// Audit pipeline: postgres outbox drained to kafka when both are
	// configured, otherwise the local in-memory trail.
	var auditStore audit.Store
	var outboxWorker *audit.Worker
	if db != nil {
		pgAudit := audit.NewPostgresStore(db)
		auditStore = pgAudit
		if producer != nil {
			outboxWorker = audit.NewWorker(pgAudit, producer, log, cfg.Kafka.PollInterval)
		}
	} else {
		auditStore = audit.NewInMemoryStore()
	}
	auditor := audit.NewPublisher(auditStore)

	var allocationStore allocservice.Store
	var benefitStore benefitservice.Store
	if db != nil {
		allocationStore = allocstore.NewPostgres(db)
		benefitStore = benefitstore.NewPostgres(db)
	} else {
		allocationStore = allocstore.NewInMemory()
		benefitStore = benefitstore.NewInMemory()
		log.Info("no POSTGRES_DSN configured, using in-memory stores")
	}

	allocationService := allocservice.New(allocationStore, admin,
		allocservice.WithLogger(log),
		allocservice.WithMetrics(allocmetrics.New()),
		allocservice.WithAuditPublisher(auditor),
	)

	benefitOpts := []benefitservice.Option{
		benefitservice.WithLogger(log),
		benefitservice.WithMetrics(benefitmetrics.New()),
		benefitservice.WithAuditPublisher(auditor),
	}
	if redisClient != nil {
		benefitOpts = append(benefitOpts,
			benefitservice.WithTotalsCache(benefitstore.NewRedisTotalsCache(redisClient.Client, cfg.Redis.CacheTTL)))
	}
	benefitService := benefitservice.New(benefitStore, admin, benefitOpts...)

	sessions := jwtsession.New(cfg.JWTSigningKey, cfg.SessionTTL)
	credential := admingate.Credential{
		Identity:  admin,
		TokenHash: cfg.AdminTokenHash,
		Token:     cfg.AdminToken,
	}

	health := map[string]httptransport.HealthChecker{}
	if db != nil {
		health["postgres"] = postgres.Pinger{DB: db}
	}
	if redisClient != nil {
		health["redis"] = redisClient
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:     log,
		Metrics:    appMetrics,
		Credential: credential,
		Sessions:   sessions,
		Modules: []httptransport.ModuleHandler{
			allochandler.New(allocationService, log),
			benefithandler.New(benefitService, log),
		},
		Health: health,
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting pension ledger", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if outboxWorker != nil {
		group.Go(func() error {
			err := outboxWorker.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}
