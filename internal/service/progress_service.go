package service

import (
	"context"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/models"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/jobs"
)

// JobTypeProgressSync labels queued upstream progress pushes.
const JobTypeProgressSync = "progress_sync"

type progressClient interface {
	ListMaterials(ctx context.Context, moduleID string) ([]models.Material, error)
	MakeProgress(ctx context.Context, update models.ProgressUpdate) error
}

type syncQueue interface {
	Enqueue(job jobs.Job) error
}

// ToggleMaterialRequest flips one material's completion status.
type ToggleMaterialRequest struct {
	EnrollmentID string                `json:"enrollment_id" validate:"required"`
	ModuleID     string                `json:"module_id" validate:"required"`
	MaterialID   string                `json:"material_id" validate:"required"`
	Status       models.MaterialStatus `json:"status" validate:"required,oneof=completed 'not completed'"`
}

// ToggleMaterialResult carries the optimistic aggregate after a toggle.
type ToggleMaterialResult struct {
	Materials []models.Material     `json:"materials"`
	Progress  models.ModuleProgress `json:"progress"`
}

// ProgressService recomputes module completion locally and pushes status
// changes upstream in the background. The optimistic aggregate is the source
// of truth for the response; a failed upstream push is logged by the queue
// and never rolled back.
type ProgressService struct {
	client    progressClient
	queue     syncQueue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgressService constructs ProgressService.
func NewProgressService(client progressClient, queue syncQueue, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{client: client, queue: queue, validator: validate, logger: logger}
}

// Aggregate computes completion counts and percentage for a material list.
// An empty list yields zero percent, never a division by zero.
func Aggregate(moduleID string, materials []models.Material) models.ModuleProgress {
	progress := models.ModuleProgress{ModuleID: moduleID, TotalCount: len(materials)}
	for _, material := range materials {
		if material.Status == models.StatusCompleted {
			progress.CompletedCount++
		}
	}
	if progress.TotalCount > 0 {
		progress.Percentage = int(math.Round(float64(progress.CompletedCount) / float64(progress.TotalCount) * 100))
	}
	progress.ModuleCompleted = progress.TotalCount > 0 && progress.CompletedCount == progress.TotalCount
	return progress
}

// ModuleProgress fetches a module's materials and aggregates completion.
func (s *ProgressService) ModuleProgress(ctx context.Context, moduleID string) (*ToggleMaterialResult, error) {
	materials, err := s.client.ListMaterials(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	return &ToggleMaterialResult{
		Materials: materials,
		Progress:  Aggregate(moduleID, materials),
	}, nil
}

// Toggle applies a material status change optimistically and enqueues the
// upstream push. The module is not refetched after the toggle; the local
// flip is authoritative for the response.
func (s *ProgressService) Toggle(ctx context.Context, req ToggleMaterialRequest) (*ToggleMaterialResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress payload")
	}

	materials, err := s.client.ListMaterials(ctx, req.ModuleID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range materials {
		if materials[i].ID == req.MaterialID {
			materials[i].Status = req.Status
			found = true
			break
		}
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found in module")
	}

	if s.queue != nil {
		job := jobs.Job{
			ID:   uuid.NewString(),
			Type: JobTypeProgressSync,
			Payload: models.ProgressUpdate{
				EnrollmentID: req.EnrollmentID,
				MaterialID:   req.MaterialID,
				Status:       req.Status,
			},
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue progress sync", zap.String("material_id", req.MaterialID), zap.Error(err))
		}
	}

	return &ToggleMaterialResult{
		Materials: materials,
		Progress:  Aggregate(req.ModuleID, materials),
	}, nil
}

// SyncHandler returns the queue handler that pushes progress upstream.
func (s *ProgressService) SyncHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		update, ok := job.Payload.(models.ProgressUpdate)
		if !ok {
			s.logger.Error("progress sync job carried unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		return s.client.MakeProgress(ctx, update)
	}
}
