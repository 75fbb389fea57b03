// Package app assembles repositories, services, the seed queue and the HTTP router.
package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/handler"
	"github.com/noah-isme/school-eval-api/internal/repository"
	"github.com/noah-isme/school-eval-api/internal/router"
	"github.com/noah-isme/school-eval-api/internal/service"
	"github.com/noah-isme/school-eval-api/pkg/config"
	"github.com/noah-isme/school-eval-api/pkg/database"
	"github.com/noah-isme/school-eval-api/pkg/jobs"
	"github.com/noah-isme/school-eval-api/pkg/storage"
)

const (
	cacheNamespace  = "school-eval"
	seedRetryDelay  = 2 * time.Second
	seedQueueBuffer = 8
)

// Deps are the connections the application is built on. Redis and Drive are optional.
type Deps struct {
	Config *config.Config
	DB     *sqlx.DB
	Logger *zap.Logger
	Redis  *redis.Client
	Drive  storage.DriveAPI
}

// App is the wired application.
type App struct {
	Router    *gin.Engine
	Seed      *service.SeedService
	Metrics   *service.MetricsService
	Queue     *jobs.Queue
	Evidence  *service.EvidenceStore
	cacheRepo *repository.CacheRepository
}

// New wires every component. The seed queue is created but not started.
func New(deps Deps) (*App, error) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	validate := validator.New()
	metrics := service.NewMetricsService()

	users := repository.NewUserRepository(deps.DB)
	standards := repository.NewStandardRepository(deps.DB)
	indicators := repository.NewIndicatorRepository(deps.DB)
	items := repository.NewChecklistRepository(deps.DB)
	comments := repository.NewCommentRepository(deps.DB)
	evidence := repository.NewEvidenceRepository(deps.DB)

	var cacheStore service.CacheRepository
	var cacheRepo *repository.CacheRepository
	if deps.Redis != nil {
		cacheRepo = repository.NewCacheRepository(deps.Redis, cacheNamespace, log.Named("cache"))
		cacheStore = cacheRepo
	}
	cache := service.NewCacheService(cacheStore, metrics, cfg.Cache.TTL, log.Named("cache"), cfg.Cache.Enabled)

	local, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		return nil, err
	}
	store := service.NewEvidenceStore(nil, local, metrics, log.Named("evidence"))
	if deps.Drive != nil {
		remote := storage.NewDriveStorage(deps.Drive, storage.DriveOptions{
			FolderID:       cfg.Drive.FolderID,
			ShareWithEmail: cfg.Drive.ShareWithEmail,
			MakePublic:     cfg.Drive.MakePublic,
		})
		store = service.NewEvidenceStore(remote, local, metrics, log.Named("evidence"))
	}

	standardSvc := service.NewStandardService(standards, indicators, users, cache, validate, log.Named("standards"))
	indicatorSvc := service.NewIndicatorService(service.IndicatorServiceDeps{
		Indicators: indicators,
		Standards:  standards,
		Items:      items,
		Evidence:   evidence,
		Comments:   comments,
		Users:      users,
		Cache:      cache,
		Validator:  validate,
		Logger:     log.Named("indicators"),
	})
	checklistSvc := service.NewChecklistService(items, indicators, comments, users, cache, validate, log.Named("checklist"))
	evidenceSvc := service.NewEvidenceService(evidence, items, store, validate, log.Named("evidence"))
	userSvc := service.NewUserService(users, validate, log.Named("users"))
	reportSvc := service.NewReportService(standards, indicators, items, log.Named("reports"))
	seedSvc := service.NewSeedService(standards, indicators, items, cache, metrics, log.Named("seed"))

	queue := jobs.NewQueue("seed", service.SeedJobHandler(seedSvc, cfg.Seed.DatasetPath), jobs.QueueConfig{
		Workers:    cfg.Seed.Workers,
		BufferSize: seedQueueBuffer,
		MaxRetries: cfg.Seed.Retries,
		RetryDelay: seedRetryDelay,
		Logger:     log.Named("jobs"),
	})
	seedRunSvc := service.NewSeedRunService(queue, log.Named("seed"))

	db := deps.DB
	engine := router.New(router.Handlers{
		Health: handler.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}, log),
		Standards:  handler.NewStandardHandler(standardSvc),
		Indicators: handler.NewIndicatorHandler(indicatorSvc),
		Checklist:  handler.NewChecklistHandler(checklistSvc),
		Evidence:   handler.NewEvidenceHandler(evidenceSvc, cfg.Uploads.MaxUploadBytes),
		Users:      handler.NewUserHandler(userSvc),
		Reports:    handler.NewReportHandler(reportSvc),
		Seed:       handler.NewSeedHandler(seedRunSvc),
	}, router.Options{
		Config:     cfg,
		Logger:     log,
		Metrics:    metrics,
		UploadsDir: local.Dir(),
	})

	return &App{
		Router:    engine,
		Seed:      seedSvc,
		Metrics:   metrics,
		Queue:     queue,
		Evidence:  store,
		cacheRepo: cacheRepo,
	}, nil
}

// Start launches the background seed workers.
func (a *App) Start(ctx context.Context) {
	a.Queue.Start(ctx)
}

// Close stops the workers and releases the cache connection.
func (a *App) Close() error {
	a.Queue.Stop()
	if a.cacheRepo != nil {
		return a.cacheRepo.Close()
	}
	return nil
}
