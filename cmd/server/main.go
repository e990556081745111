package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/adverot/emailfinder/internal/audit"
	"github.com/adverot/emailfinder/internal/catchall"
	"github.com/adverot/emailfinder/internal/finder"
	"github.com/adverot/emailfinder/internal/finder/handler"
	"github.com/adverot/emailfinder/internal/finder/metrics"
	"github.com/adverot/emailfinder/internal/platform/config"
	"github.com/adverot/emailfinder/internal/platform/httpserver"
	"github.com/adverot/emailfinder/internal/platform/logger"
	platformredis "github.com/adverot/emailfinder/internal/platform/redis"
	"github.com/adverot/emailfinder/internal/probe"
	httptransport "github.com/adverot/emailfinder/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catch-all verdict cache: Redis when configured, in-process otherwise.
	var cache catchall.Store = catchall.NewMemory()
	healthChecks := map[string]httptransport.HealthCheck{}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cache = catchall.NewRedis(redisClient.Client)
		healthChecks["redis"] = redisClient.Health
		log.Info("catch-all cache backed by redis")
	}

	// Audit trail: always in-process, fanned out to Kafka when brokers are set.
	auditStore := audit.NewMemoryStore()
	publisherOpts := []audit.PublisherOption{audit.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		publisherOpts = append(publisherOpts, audit.WithOutbox(256))
	}
	publisher := audit.NewPublisher(auditStore, publisherOpts...)
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("kafka sink creation failed", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		worker := audit.NewWorker(sink, publisher.Outbox(), log)
		go func() {
			if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("audit worker stopped", "error", err)
			}
		}()
		log.Info("audit events published to kafka", "topic", cfg.Kafka.Topic)
	}

	m := metrics.New()

	smtpProber := probe.NewSMTP(
		probe.WithHelloName(cfg.SMTP.HelloName),
		probe.WithFromEmail(cfg.SMTP.FromEmail),
		probe.WithPort(cfg.SMTP.Port),
		probe.WithProxy(cfg.SMTP.ProxyURL),
		probe.WithLogger(log),
	)
	prober := probe.NewCircuit(smtpProber, probe.WithCircuitLogger(log))

	finderSvc, err := finder.New(prober,
		finder.WithLogger(log),
		finder.WithMetrics(m),
		finder.WithAuditPublisher(publisher),
		finder.WithCatchAllCache(cache),
		finder.WithConfig(finder.Config{
			CatchAllTimeout:       cfg.Finder.CatchAllTimeout,
			PingTimeout:           cfg.Finder.PingTimeout,
			RandomLocalPartLength: cfg.Finder.RandomLocalPartLength,
			CacheTTL:              cfg.Finder.CacheTTL,
		}),
	)
	if err != nil {
		log.Error("finder service creation failed", "error", err)
		os.Exit(1)
	}

	h := handler.New(finderSvc, log, cfg.Server.RequestTimeout)
	router := httptransport.NewRouter(h, log, m, healthChecks)
	srv := httpserver.New(cfg.Server.Addr, router)

	log.Info("starting emailfinder", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
