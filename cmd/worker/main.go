package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ghuser/pantry/pkg/cache"
	"github.com/ghuser/pantry/pkg/config"
	"github.com/ghuser/pantry/pkg/events"
	"github.com/ghuser/pantry/pkg/logger"
	"github.com/ghuser/pantry/pkg/telemetry"
	itemSvc "github.com/ghuser/pantry/services/item/application/services"
	productSvc "github.com/ghuser/pantry/services/product/application/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.WithoutCancel(ctx)) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	// EventBus.Close waits up to 30s for in-flight handlers.
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	projector := &cacheProjector{
		items:    cache.NewCatalogCache(redisClient, itemSvc.CacheNamespace),
		products: cache.NewCatalogCache(redisClient, productSvc.ProductCacheNamespace),
		measures: cache.NewCatalogCache(redisClient, productSvc.MeasureCacheNamespace),
		log:      log,
	}

	g, gctx := errgroup.WithContext(ctx)
	topics := make([]string, 0, len(projector.subscriptions()))
	for _, sub := range projector.subscriptions() {
		errCh, err := eventBus.Subscribe(gctx, sub.topic, sub.handler)
		if err != nil {
			log.Error("failed to subscribe", "topic", sub.topic, "error", err)
			stop()
			break
		}
		topics = append(topics, sub.topic)

		// Drain subscriber errors so the channel never blocks. It closes
		// once the subscription ends with ctx.
		topic := sub.topic
		g.Go(func() error {
			for err := range errCh {
				log.ErrorContext(gctx, "subscriber error", "topic", topic, "error", err)
			}
			return nil
		})
	}
	log.Info("event subscribers registered", "topics", topics)

	<-ctx.Done()
	log.Info("shutting down worker...")
	if err := g.Wait(); err != nil {
		log.Error("worker stopped with error", "error", err)
	}
	log.Info("worker stopped")
}
