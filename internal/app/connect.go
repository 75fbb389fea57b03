package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/pkg/cache"
	"github.com/noah-isme/school-eval-api/pkg/config"
	"github.com/noah-isme/school-eval-api/pkg/database"
	"github.com/noah-isme/school-eval-api/pkg/storage"
)

// Connect opens and migrates the database and dials the optional backends.
// Redis and Drive failures degrade to no cache and local-only evidence.
func Connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (Deps, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return Deps{}, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		_ = db.Close()
		return Deps{}, nil, fmt.Errorf("migrate database: %w", err)
	}

	deps := Deps{Config: cfg, DB: db, Logger: log}

	if cfg.Cache.Enabled {
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Warn("standards cache disabled", zap.Error(err))
		} else {
			deps.Redis = client
		}
	}

	if cfg.Drive.Configured() {
		api, err := storage.NewGoogleDrive(ctx, cfg.Drive.ClientEmail, cfg.Drive.PrivateKey)
		if err != nil {
			log.Warn("remote evidence storage unavailable, using local uploads", zap.Error(err))
		} else {
			deps.Drive = api
		}
	} else {
		log.Info("remote evidence storage not configured, using local uploads")
	}

	cleanup := func() {
		_ = db.Close()
	}
	return deps, cleanup, nil
}
