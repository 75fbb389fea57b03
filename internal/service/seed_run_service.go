package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/school-eval-api/internal/dto"
	appErrors "github.com/noah-isme/school-eval-api/pkg/errors"
	"github.com/noah-isme/school-eval-api/pkg/jobs"
)

// SeedJobType identifies importer runs on the job queue.
const SeedJobType = "seed.import"

type seedJobQueue interface {
	Enqueue(ctx context.Context, job jobs.Job) error
	Status(id string) (jobs.Status, bool)
}

// SeedJobHandler adapts the importer to the job queue. Runs always import datasetPath.
// Recorded failures carry only the public message; a missing or malformed dataset is not retried.
func SeedJobHandler(seed *SeedService, datasetPath string) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) (interface{}, error) {
		result, err := seed.RunFile(ctx, datasetPath)
		if err == nil {
			return result, nil
		}
		seed.logger.Error("seed run failed", zap.String("job_id", job.ID), zap.Error(err))
		appErr := appErrors.FromError(err)
		public := appErrors.New(appErr.Code, appErr.Status, appErr.Message)
		if errors.Is(err, appErrors.ErrNotFound) || errors.Is(err, appErrors.ErrBadRequest) {
			return nil, jobs.Permanent(public)
		}
		return nil, public
	}
}

// SeedRunService queues importer runs and reports their status.
type SeedRunService struct {
	queue  seedJobQueue
	logger *zap.Logger
}

// NewSeedRunService constructs the seed run service.
func NewSeedRunService(queue seedJobQueue, logger *zap.Logger) *SeedRunService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedRunService{queue: queue, logger: logger}
}

// Enqueue schedules an importer run of the configured dataset.
func (s *SeedRunService) Enqueue(ctx context.Context) (*dto.SeedRunResponse, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrConfig, "seed queue is not running")
	}
	id := uuid.NewString()
	if err := s.queue.Enqueue(ctx, jobs.Job{ID: id, Type: SeedJobType}); err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.WrapAs(appErrors.ErrBusy, err, "too many seed runs queued, retry later")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue seed run")
	}
	s.logger.Info("seed run queued", zap.String("job_id", id))
	return &dto.SeedRunResponse{ID: id, State: string(jobs.StateQueued)}, nil
}

// Status returns the state of a queued run.
func (s *SeedRunService) Status(ctx context.Context, id string) (*jobs.Status, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "seed run not found")
	}
	status, ok := s.queue.Status(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "seed run not found")
	}
	return &status, nil
}
