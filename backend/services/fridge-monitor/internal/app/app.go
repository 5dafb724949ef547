package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fridgewatch/backend/libs/httpclient"
	libredis "fridgewatch/backend/libs/redis"
	"fridgewatch/backend/services/fridge-monitor/internal/config"
	"fridgewatch/backend/services/fridge-monitor/internal/db"
	httpserver "fridgewatch/backend/services/fridge-monitor/internal/http"
	"fridgewatch/backend/services/fridge-monitor/internal/http/handlers"
	"fridgewatch/backend/services/fridge-monitor/internal/notifier"
	redisstore "fridgewatch/backend/services/fridge-monitor/internal/redis"
	"fridgewatch/backend/services/fridge-monitor/internal/repository"
	"fridgewatch/backend/services/fridge-monitor/internal/scheduler"
	"fridgewatch/backend/services/fridge-monitor/internal/service"
	"fridgewatch/backend/services/fridge-monitor/internal/ws"
)

// App wires fridge-monitor dependencies.
type App struct {
	server      *httpserver.Server
	scheduler   *scheduler.Scheduler
	hub         *ws.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs application components. ctx bounds startup I/O and the
// lifetime of alert feed connections.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	readingRepo := repository.NewReadingRepository(sqlDB)
	if cfg.Database.AutoMigrate {
		if err := readingRepo.EnsureSchema(ctx); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	var (
		redisClient *redis.Client
		latestStore *redisstore.LatestStore
		cache       service.LatestCache
	)
	if cfg.RedisEnabled() {
		redisClient, err = libredis.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		latestStore = redisstore.NewLatestStore(redisClient, cfg.RedisTTL())
		cache = latestStore
	} else {
		logger.Info("redis not configured, latest reading cache disabled")
	}

	if cfg.Notifier.WebhookURL == "" {
		logger.Warn("webhook url not configured, alerts will only reach the live feed")
	}

	hub := ws.NewHub(logger.Named("alert-feed"))
	webhookClient := httpclient.New("", httpclient.NewDefaultHTTPClient(cfg.NotifierTimeout()))
	alertNotifier := notifier.Multi{
		notifier.NewWebhookNotifier(cfg.Notifier.WebhookURL, webhookClient, logger.Named("webhook")),
		notifier.NewFeedNotifier(hub, logger.Named("alert-feed")),
	}

	ingestService := service.NewIngestService(readingRepo, cache, logger.Named("ingest"))
	thresholds := service.Thresholds{
		Temperature: cfg.Thresholds.Temperature,
		Humidity:    cfg.Thresholds.Humidity,
	}
	evaluator := service.NewEvaluator(readingRepo, alertNotifier, thresholds, cfg.ScheduleInterval(), logger.Named("evaluator"))
	sched := scheduler.New(evaluator, cfg.ScheduleInterval(), cfg.Scheduler.RunOnStart, logger.Named("scheduler"))

	routes := httpserver.Routes{
		Readings:  handlers.NewReadingHandler(ingestService, logger.Named("ingest")),
		AlertFeed: ws.NewServer(ctx, hub, cfg.WSWriteTimeout(), logger.Named("alert-feed")).HandleWS,
		Health:    handlers.NewHealthHandler(sqlDB),
	}
	if latestStore != nil {
		routes.LatestReading = handlers.NewLatestHandler(latestStore, logger)
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	logger.Info("fridge monitor configured",
		zap.Float64("threshold_temperature", thresholds.Temperature),
		zap.Float64("threshold_humidity", thresholds.Humidity),
		zap.Duration("interval", cfg.ScheduleInterval()),
	)

	return &App{
		server:      server,
		scheduler:   sched,
		hub:         hub,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run serves HTTP and runs the evaluation schedule until ctx is done or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.server.Run(gctx) })
	g.Go(func() error { return a.scheduler.Run(gctx) })
	g.Go(func() error {
		a.hub.Run(gctx)
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
