package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	adminhandler "kycvault/internal/admin/handler"
	adminservice "kycvault/internal/admin/service"
	adminstore "kycvault/internal/admin/store"
	"kycvault/internal/admin/token"
	"kycvault/internal/audit"
	dashboardhandler "kycvault/internal/dashboard/handler"
	"kycvault/internal/export"
	httpapi "kycvault/internal/http"
	"kycvault/internal/platform/config"
	"kycvault/internal/platform/httpserver"
	"kycvault/internal/platform/logger"
	"kycvault/internal/platform/metrics"
	redisplatform "kycvault/internal/platform/redis"
	"kycvault/internal/records"
	"kycvault/internal/scoring"
	workflowhandler "kycvault/internal/workflow/handler"
	workflowservice "kycvault/internal/workflow/service"
	workflowstore "kycvault/internal/workflow/store"
)

// main wires the dependency graph and owns the process lifecycle. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	engine, err := scoring.New(cfg.Engine, log)
	if err != nil {
		log.Error("failed to build scoring engine client", "error", err)
		os.Exit(1)
	}

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Session storage: shared in Redis when configured, in-process otherwise.
	var (
		workflowSessions workflowstore.SessionStore = workflowstore.NewInMemorySessionStore()
		adminSessions    adminstore.SessionStore    = adminstore.NewInMemorySessionStore()
	)
	if redisClient != nil {
		workflowSessions = workflowstore.NewRedisSessionStore(redisClient.Client)
		adminSessions = adminstore.NewRedisSessionStore(redisClient.Client)
		log.Info("using redis session stores")
	}

	// Audit trail: Postgres when configured, in-memory otherwise, with an
	// optional Kafka fan-out.
	publisher := audit.NewPublisher(log, 256)
	var auditStore audit.Store = audit.NewInMemoryStore()
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		auditStore, err = audit.NewPostgresStore(ctx, pool)
		if err != nil {
			log.Error("failed to bootstrap audit store", "error", err)
			os.Exit(1)
		}
		log.Info("using postgres audit store")
	}
	var auditSink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect kafka audit sink", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		auditSink = kafkaSink
		log.Info("kafka audit sink enabled", "topic", cfg.Kafka.Topic)
	}
	auditWorker := audit.NewWorker(auditStore, auditSink, publisher.Inbox(), log)
	go func() {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	gate := adminservice.New(cfg.Admin,
		token.NewService(cfg.Admin.JWTSigningKey),
		adminSessions,
		log,
		adminservice.WithMetrics(m),
		adminservice.WithAuditEmitter(publisher),
	)
	workflow := workflowservice.New(workflowSessions, engine, log,
		workflowservice.WithMetrics(m),
		workflowservice.WithAuditEmitter(publisher),
	)
	repo := records.New(engine, log, m)
	dispatcher := export.New(engine, log,
		export.WithMetrics(m),
		export.WithAuditEmitter(publisher),
	)

	var health func(ctx context.Context) error
	if redisClient != nil {
		health = redisClient.Health
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:    log,
		Workflow:  workflowhandler.New(workflow, log),
		Admin:     adminhandler.New(gate, log),
		Dashboard: dashboardhandler.New(repo, dispatcher, auditStore, log),
		Gate:      gate,
		Health:    health,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting kycvault gateway", "addr", cfg.Addr, "engine", cfg.Engine.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
