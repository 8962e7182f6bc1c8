package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	jwttoken "trustlink/internal/jwt_token"
	"trustlink/internal/platform/config"
	"trustlink/internal/platform/database"
	"trustlink/internal/platform/health"
	"trustlink/internal/platform/kafka/producer"
	"trustlink/internal/platform/metrics"
	redisclient "trustlink/internal/platform/redis"
	"trustlink/internal/verification/handler"
	verificationmetrics "trustlink/internal/verification/metrics"
	"trustlink/internal/verification/service"
	"trustlink/internal/verification/store"
	"trustlink/internal/verification/tracer"
	audit "trustlink/pkg/platform/audit"
	auditmetrics "trustlink/pkg/platform/audit/metrics"
	"trustlink/pkg/platform/audit/publisher"
	auditkafka "trustlink/pkg/platform/audit/store/kafka"
	auditmemory "trustlink/pkg/platform/audit/store/memory"
	auditpostgres "trustlink/pkg/platform/audit/store/postgres"
	"trustlink/pkg/platform/circuit"
	"trustlink/pkg/platform/middleware/device"
	"trustlink/pkg/platform/middleware/metadata"
	request "trustlink/pkg/platform/middleware/request"
	"trustlink/pkg/platform/middleware/requesttime"
)

const (
	auditBufferSize = 1024
	maxBodyBytes    = 64 << 10
)

// infra holds the connections and background workers main must close.
type infra struct {
	pool      *database.Pool
	redis     *redisclient.Client
	producer  *producer.Producer
	publisher *publisher.Publisher
	service   *service.Service
	log       *slog.Logger
}

func (d *infra) backend() string {
	if d.pool != nil {
		return "postgres"
	}
	return "memory"
}

// Close drains audit events before the connections they write to.
func (d *infra) Close() {
	if d.publisher != nil {
		d.publisher.Close()
	}
	if d.producer != nil {
		if err := d.producer.Close(); err != nil {
			d.log.Warn("kafka producer close failed", "error", err)
		}
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			d.log.Warn("redis close failed", "error", err)
		}
	}
	if err := d.pool.Close(); err != nil {
		d.log.Warn("database close failed", "error", err)
	}
}

func buildInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	deps := &infra{log: log}

	pool, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	deps.pool = pool

	redis, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	deps.redis = redis

	if cfg.Kafka.Brokers != "" {
		prod, err := producer.New(cfg.Kafka, log)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		deps.producer = prod
	}

	var (
		registry   store.Store
		registryTx store.StoreTx
		auditStore audit.Store
	)
	if pool != nil {
		registry = store.NewPostgres(pool.DB())
		registryTx = newVerificationPostgresTx(pool.DB(), cfg.TxTimeout)
		auditStore = auditpostgres.New(pool.DB())
		if err := metrics.RegisterDBStats(prometheus.DefaultRegisterer, pool.DB(), "trustlink"); err != nil {
			log.Warn("db stats collector not registered", "error", err)
		}
	} else {
		mem := store.NewInMemoryStore(store.WithTxTimeout(cfg.TxTimeout))
		registry, registryTx = mem, mem
		auditStore = auditmemory.NewInMemoryStore()
	}

	pubOpts := []publisher.PublisherOption{
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithPublisherLogger(log),
		publisher.WithMetrics(auditmetrics.New()),
	}
	if deps.producer != nil {
		pubOpts = append(pubOpts, publisher.WithSink("kafka", auditkafka.NewSink(deps.producer, cfg.Kafka.AuditTopic)))
	}
	deps.publisher = publisher.NewPublisher(auditStore, pubOpts...)

	svcMetrics := verificationmetrics.New()
	svcOpts := []service.Option{
		service.WithLogger(log),
		service.WithAuditPublisher(deps.publisher),
		service.WithMetrics(svcMetrics),
		service.WithTracer(tracer.NewOTel()),
	}
	if redis != nil {
		cache := store.NewRedisCache(redis.Client, registry,
			store.WithCacheTTL(cfg.Redis.CacheTTL),
			store.WithCacheMetrics(svcMetrics),
			store.WithCacheLogger(log),
			store.WithCacheBreaker(circuit.New("verification-cache")),
		)
		svcOpts = append(svcOpts, service.WithEntryCache(cache))
	}

	svc, err := service.New(registry, registryTx, svcOpts...)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("build verification service: %w", err)
	}
	deps.service = svc
	return deps, nil
}

func buildRouter(cfg config.Server, deps *infra, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Device)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(request.Timeout(cfg.RequestTimeout))
	r.Use(request.LatencyMiddleware(request.NewMetrics()))

	healthHandler := health.New(cfg.Environment)
	if deps.pool != nil {
		healthHandler.RegisterCheck("postgres", deps.pool.Health)
	}
	if deps.redis != nil {
		healthHandler.RegisterCheck("redis", deps.redis.Health)
	}
	if deps.producer != nil {
		healthHandler.RegisterCheck("kafka", deps.producer.Healthy)
	}
	healthHandler.Register(r)
	r.Handle("/metrics", metrics.Handler())

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	verificationHandler := handler.New(deps.service, jwttoken.NewJWTServiceAdapter(jwtService), log)
	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(request.BodyLimit(maxBodyBytes))
		verificationHandler.Register(r)
	})
	return r
}
