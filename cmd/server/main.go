// Command server runs the quoteguard HTTP service. main wires storage,
// audit, and the validation service from environment configuration; all
// business logic lives under internal/validation.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"quoteguard/internal/platform/config"
	"quoteguard/internal/platform/httpserver"
	"quoteguard/internal/platform/logger"
	platformredis "quoteguard/internal/platform/redis"
	"quoteguard/internal/report"
	reportmemory "quoteguard/internal/report/store/memory"
	reportpostgres "quoteguard/internal/report/store/postgres"
	"quoteguard/internal/report/store/rediscache"
	"quoteguard/internal/validation"
	"quoteguard/internal/validation/driver"
	"quoteguard/internal/validation/handler"
	"quoteguard/internal/validation/metrics"
	"quoteguard/internal/validation/submission"
	"quoteguard/pkg/platform/audit"
	auditmemory "quoteguard/pkg/platform/audit/store/memory"
	auditpostgres "quoteguard/pkg/platform/audit/store/postgres"
	"quoteguard/pkg/platform/audit/publisher"
	"quoteguard/pkg/platform/audit/worker"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Report store: postgres when configured, in-memory otherwise.
	var store report.Store
	if cfg.Postgres.DSN != "" {
		pool, err := reportpostgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = reportpostgres.New(pool)
		log.Info("report store: postgres")
	} else {
		store = reportmemory.New()
		log.Info("report store: in-memory")
	}

	// Optional redis read-through cache over the report store.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		store = rediscache.New(store, redisClient.Client, cfg.Redis.CacheTTL,
			rediscache.WithLogger(log))
		log.Info("report cache: redis", "ttl", cfg.Redis.CacheTTL)
	}

	// Audit trail: kafka when brokers are configured, otherwise an
	// in-process worker appending to a store.
	var auditSink audit.Publisher
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			publisher.WithLogger(log))
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		auditSink = kafka
		log.Info("audit sink: kafka", "topic", cfg.Kafka.Topic)
	} else {
		var auditStore audit.Store
		if cfg.Postgres.DSN != "" {
			db, err := sql.Open("postgres", cfg.Postgres.DSN)
			if err != nil {
				log.Error("audit store connection failed", "error", err)
				os.Exit(1)
			}
			defer db.Close()
			auditStore = auditpostgres.New(db)
		} else {
			auditStore = auditmemory.NewInMemoryStore()
		}
		ch := publisher.NewChannel(1024, log)
		defer ch.Close()
		go func() {
			if err := worker.NewWorker(auditStore, ch.Inbox()).Run(workerCtx); err != nil &&
				!errors.Is(err, context.Canceled) {
				log.Error("audit worker stopped", "error", err)
			}
		}()
		auditSink = ch
		log.Info("audit sink: in-process worker")
	}

	m := metrics.New()
	agg := submission.New(
		driver.New(cfg.Validation, driver.WithLogger(log)),
		submission.WithLogger(log),
		submission.WithParallelism(4),
	)
	svc, err := validation.New(agg, store,
		validation.WithLogger(log),
		validation.WithMetrics(m),
		validation.WithAuditPublisher(auditSink),
	)
	if err != nil {
		log.Error("service construction failed", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	handler.New(svc, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting quoteguard", "addr", cfg.Server.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
