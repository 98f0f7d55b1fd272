// cmd/dealer-admin/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dealer-admin/internal/common/aws"
	"dealer-admin/internal/common/config"
	"dealer-admin/internal/common/database"
	remotehttp "dealer-admin/internal/common/http"
	"dealer-admin/internal/common/logger"
	"dealer-admin/internal/common/observability"
	"dealer-admin/internal/drafts"
	"dealer-admin/internal/notifications"
	"dealer-admin/internal/referencedata"
	"dealer-admin/internal/referencedata/querycache"
	"dealer-admin/internal/transport/web"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting dealer admin...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Redis (query cache) ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- PostgreSQL (car drafts) ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Migrate(); err != nil {
		zapLog.Fatal("migrations failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected and migrated")

	deps := map[string]web.Pinger{"redis": redis, "postgres": pg}

	// --- Elasticsearch (optional car search index) ---
	var indexer drafts.Indexer = drafts.NopIndexer{}
	if cfg.Database.Elasticsearch.Enabled() {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, car indexing disabled", zap.Error(err))
		} else {
			indexer = drafts.NewElasticIndexer(esClient, cfg.Database.Elasticsearch.CarsIndex)
			deps["elasticsearch"] = esClient
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- SNS (optional notification fan-out) ---
	var publisher notifications.Publisher = notifications.NopPublisher{}
	if cfg.Notifications.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.SNS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		publisher = notifications.NewSNSPublisher(snsClient, cfg.Notifications.SNS.TopicARN)
		zapLog.Info("SNS publisher configured", zap.String("topic", cfg.Notifications.SNS.TopicARN))
	}

	// --- Services ---
	remote := remotehttp.NewRemoteClient(cfg.RemoteAPI)
	cache := querycache.New(
		querycache.NewRedisStore(redis.GetClient(), cfg.Cache.KeyPrefix),
		cfg.Cache,
		config.GetDuration(cfg.RemoteAPI.Timeout),
		log,
	)
	referenceSvc := referencedata.NewService(cache, remote, log)
	draftSvc := drafts.NewService(drafts.NewPostgresStore(pg.GetDB()), remote, indexer, log)
	notificationSvc := notifications.NewService(remote, publisher, log)

	go sweepStaleDrafts(ctx, draftSvc, cfg.Drafts, zapLog)

	// --- HTTP server ---
	handler := web.NewHandler(referenceSvc, draftSvc, notificationSvc, log)
	server := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: web.NewRouter(handler, web.RouterOptions{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Observability:  obs,
			Dependencies:   deps,
			Logger:         log,
		}),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Dealer admin stopped gracefully")
}

// sweepStaleDrafts removes abandoned drafts on a fixed interval.
func sweepStaleDrafts(ctx context.Context, svc *drafts.Service, cfg config.DraftsConfig, log *zap.Logger) {
	ticker := time.NewTicker(time.Duration(cfg.SweepInterval) * time.Minute)
	defer ticker.Stop()
	olderThan := time.Duration(cfg.StaleAfter) * time.Hour

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.PurgeStale(ctx, olderThan)
			if err != nil {
				log.Warn("stale draft sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Info("stale drafts removed", zap.Int64("count", removed))
			}
		}
	}
}
