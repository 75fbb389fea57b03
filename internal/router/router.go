// Package router mounts the evaluation API on a gin engine.
//
// Routes, relative to the API prefix:
//
//	GET    /health, /ready
//	GET    /standards, /standards/:id     PATCH /standards/:id
//	GET    /indicators, /indicators/:id   PATCH /indicators/:id
//	PATCH  /checklist-items/:id
//	POST   /checklist-items/:id/comments
//	POST   /checklist-items/:id/evidence, /checklist-items/:id/evidence-link
//	DELETE /evidence/:id
//	GET    /users                         POST  /users
//	GET    /reports/progress
//	POST   /seed/runs                     GET   /seed/runs/:id
//
// Outside the prefix: /uploads/<name>, /metrics and /docs (non-production).
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/handler"
	"github.com/noah-isme/school-eval-api/internal/middleware"
	"github.com/noah-isme/school-eval-api/internal/service"
	"github.com/noah-isme/school-eval-api/pkg/config"
	"github.com/noah-isme/school-eval-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-eval-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-eval-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-eval-api/pkg/storage"
)

const metricsRoute = "/metrics"

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Health     *handler.HealthHandler
	Standards  *handler.StandardHandler
	Indicators *handler.IndicatorHandler
	Checklist  *handler.ChecklistHandler
	Evidence   *handler.EvidenceHandler
	Users      *handler.UserHandler
	Reports    *handler.ReportHandler
	Seed       *handler.SeedHandler
}

// Options carries the ambient pieces of the engine.
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *service.MetricsService
	UploadsDir string
}

// New builds the engine with middleware and every route registered.
func New(h Handlers, opts Options) *gin.Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api"}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics, metricsRoute))
	r.Use(middleware.WithResponseMeta())

	if cfg.Uploads.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.Uploads.MaxUploadBytes
	}
	if opts.UploadsDir != "" {
		r.Static(storage.UploadsRoute, opts.UploadsDir)
	}
	if opts.Metrics != nil {
		r.GET(metricsRoute, gin.WrapH(opts.Metrics.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if h.Health != nil {
		api.GET("/health", h.Health.Health)
		api.GET("/ready", h.Health.Ready)
		r.GET("/health", h.Health.Health)
	}
	if h.Standards != nil {
		api.GET("/standards", h.Standards.List)
		api.GET("/standards/:id", h.Standards.Get)
		api.PATCH("/standards/:id", h.Standards.Update)
	}
	if h.Indicators != nil {
		api.GET("/indicators", h.Indicators.List)
		api.GET("/indicators/:id", h.Indicators.Get)
		api.PATCH("/indicators/:id", h.Indicators.Update)
	}
	if h.Checklist != nil {
		api.PATCH("/checklist-items/:id", h.Checklist.Update)
		api.POST("/checklist-items/:id/comments", h.Checklist.AddComment)
	}
	if h.Evidence != nil {
		api.POST("/checklist-items/:id/evidence", h.Evidence.Upload)
		api.POST("/checklist-items/:id/evidence-link", h.Evidence.AttachLink)
		api.DELETE("/evidence/:id", h.Evidence.Delete)
	}
	if h.Users != nil {
		api.GET("/users", h.Users.List)
		api.POST("/users", h.Users.Create)
	}
	if h.Reports != nil {
		api.GET("/reports/progress", h.Reports.Progress)
	}
	if h.Seed != nil {
		api.POST("/seed/runs", h.Seed.Run)
		api.GET("/seed/runs/:id", h.Seed.Status)
	}

	return r
}
