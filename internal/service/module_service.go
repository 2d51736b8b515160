package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type moduleUpstream interface {
	ListModules(ctx context.Context, courseID string) ([]models.Module, error)
	CreateModule(ctx context.Context, req upstream.ModuleRequest) (*models.Module, error)
	UpdateModule(ctx context.Context, id string, req upstream.ModuleRequest) (*models.Module, error)
	DeleteModule(ctx context.Context, id string) error
	ListMaterials(ctx context.Context, moduleID string) ([]models.Material, error)
	CreateMaterial(ctx context.Context, moduleID string, material models.Material) (*models.Material, error)
	UpdateMaterial(ctx context.Context, id string, material models.Material) (*models.Material, error)
	DeleteMaterial(ctx context.Context, id string) error
}

// ModuleInput carries module attributes for create and update.
type ModuleInput struct {
	CourseID     string `json:"course_id" validate:"required"`
	Title        string `json:"title" validate:"required"`
	OrderIndex   int    `json:"order_index" validate:"gte=0"`
	IsActive     bool   `json:"is_active"`
	TimeToFinish int    `json:"timetofinish" validate:"gte=0"`
}

// ModuleService manages course modules and their materials. Material payloads
// are validated against their variant rules before anything goes upstream;
// a failed validation aborts only the submission it belongs to.
type ModuleService struct {
	client    moduleUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewModuleService constructs ModuleService.
func NewModuleService(client moduleUpstream, validate *validator.Validate, logger *zap.Logger) *ModuleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleService{client: client, validator: validate, logger: logger}
}

// List returns the ordered modules of a course.
func (s *ModuleService) List(ctx context.Context, courseID string) ([]models.Module, error) {
	return s.client.ListModules(ctx, courseID)
}

// Create adds a module to a course.
func (s *ModuleService) Create(ctx context.Context, input ModuleInput) (*models.Module, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module")
	}
	return s.client.CreateModule(ctx, upstream.ModuleRequest(input))
}

// Update edits a module.
func (s *ModuleService) Update(ctx context.Context, id string, input ModuleInput) (*models.Module, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module")
	}
	return s.client.UpdateModule(ctx, id, upstream.ModuleRequest(input))
}

// Delete removes a module and its materials.
func (s *ModuleService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteModule(ctx, id)
}

// Materials returns the ordered materials of a module.
func (s *ModuleService) Materials(ctx context.Context, moduleID string) ([]models.Material, error) {
	return s.client.ListMaterials(ctx, moduleID)
}

// CreateMaterial validates and adds a material to a module.
func (s *ModuleService) CreateMaterial(ctx context.Context, moduleID string, material models.Material) (*models.Material, error) {
	if material.Title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "material title is required")
	}
	if message, ok := material.Validate(); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, message)
	}
	return s.client.CreateMaterial(ctx, moduleID, material)
}

// UpdateMaterial validates and edits a material.
func (s *ModuleService) UpdateMaterial(ctx context.Context, id string, material models.Material) (*models.Material, error) {
	if message, ok := material.Validate(); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, message)
	}
	return s.client.UpdateMaterial(ctx, id, material)
}

// DeleteMaterial removes a material.
func (s *ModuleService) DeleteMaterial(ctx context.Context, id string) error {
	return s.client.DeleteMaterial(ctx, id)
}
