package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type subscriptionUpstream interface {
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, req upstream.SubscriptionRequest) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id string, req upstream.SubscriptionRequest) (*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
	ListSubscriptionCourses(ctx context.Context, id string) ([]models.Course, error)
	AttachSubscriptionCourse(ctx context.Context, id, courseID string) error
	DetachSubscriptionCourse(ctx context.Context, id, courseID string) error
}

// SubscriptionInput carries plan attributes for create and update.
type SubscriptionInput struct {
	Title       string  `json:"title" validate:"required"`
	Duration    int     `json:"duration" validate:"required,gte=1"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	Description string  `json:"description"`
}

// SubscriptionService manages subscription plans through the upstream API.
// A configured set of plan IDs is protected from deletion so the base offers
// can never disappear through the back office.
type SubscriptionService struct {
	client       subscriptionUpstream
	protectedIDs map[string]struct{}
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewSubscriptionService constructs SubscriptionService.
func NewSubscriptionService(client subscriptionUpstream, protectedIDs []string, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	protected := make(map[string]struct{}, len(protectedIDs))
	for _, id := range protectedIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			protected[trimmed] = struct{}{}
		}
	}
	return &SubscriptionService{client: client, protectedIDs: protected, validator: validate, logger: logger}
}

// List returns all plans with features split for display.
func (s *SubscriptionService) List(ctx context.Context) ([]models.SubscriptionView, error) {
	plans, err := s.client.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.SubscriptionView, 0, len(plans))
	for _, plan := range plans {
		views = append(views, models.NewSubscriptionView(plan))
	}
	return views, nil
}

// Get returns one plan.
func (s *SubscriptionService) Get(ctx context.Context, id string) (*models.SubscriptionView, error) {
	plan, err := s.client.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	view := models.NewSubscriptionView(*plan)
	return &view, nil
}

// Create adds a plan.
func (s *SubscriptionService) Create(ctx context.Context, input SubscriptionInput) (*models.SubscriptionView, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription plan")
	}
	plan, err := s.client.CreateSubscription(ctx, upstream.SubscriptionRequest(input))
	if err != nil {
		return nil, err
	}
	view := models.NewSubscriptionView(*plan)
	return &view, nil
}

// Update modifies a plan. Protected plans stay editable, only deletion is
// restricted.
func (s *SubscriptionService) Update(ctx context.Context, id string, input SubscriptionInput) (*models.SubscriptionView, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subscription plan")
	}
	plan, err := s.client.UpdateSubscription(ctx, id, upstream.SubscriptionRequest(input))
	if err != nil {
		return nil, err
	}
	view := models.NewSubscriptionView(*plan)
	return &view, nil
}

// Delete removes a plan unless its ID is protected.
func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	if s.Protected(id) {
		return appErrors.Clone(appErrors.ErrProtectedPlan, "plan "+id+" cannot be deleted")
	}
	return s.client.DeleteSubscription(ctx, id)
}

// Protected reports whether a plan ID is shielded from deletion.
func (s *SubscriptionService) Protected(id string) bool {
	_, ok := s.protectedIDs[id]
	return ok
}

// Courses lists the courses attached to a plan.
func (s *SubscriptionService) Courses(ctx context.Context, id string) ([]models.Course, error) {
	return s.client.ListSubscriptionCourses(ctx, id)
}

// AttachCourse adds a course to a plan.
func (s *SubscriptionService) AttachCourse(ctx context.Context, id, courseID string) error {
	if courseID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course_id is required")
	}
	return s.client.AttachSubscriptionCourse(ctx, id, courseID)
}

// DetachCourse removes a course from a plan.
func (s *SubscriptionService) DetachCourse(ctx context.Context, id, courseID string) error {
	return s.client.DetachSubscriptionCourse(ctx, id, courseID)
}
