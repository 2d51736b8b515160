package service

import (
	"context"
	"strings"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type learningUpstream interface {
	ListLearnings(ctx context.Context, userID string) ([]models.Learning, error)
	ShareCourse(ctx context.Context, req upstream.ShareRequest) error
}

// LearningService serves a learner's enrollments and seat sharing.
type LearningService struct {
	client learningUpstream
}

// NewLearningService constructs LearningService.
func NewLearningService(client learningUpstream) *LearningService {
	return &LearningService{client: client}
}

// List returns the user's enrollments with upstream-computed progress.
func (s *LearningService) List(ctx context.Context, userID string) ([]models.Learning, error) {
	return s.client.ListLearnings(ctx, userID)
}

// Share grants seats on an enrollment to a list of emails. The seat count is
// enforced against the enrollment's assign limit before calling upstream.
func (s *LearningService) Share(ctx context.Context, userID, enrollmentID string, emails []string) error {
	cleaned := make([]string, 0, len(emails))
	for _, email := range emails {
		trimmed := strings.TrimSpace(email)
		if trimmed == "" {
			continue
		}
		if !strings.Contains(trimmed, "@") {
			return appErrors.Clone(appErrors.ErrValidation, "invalid email "+trimmed)
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "at least one email is required")
	}

	learnings, err := s.client.ListLearnings(ctx, userID)
	if err != nil {
		return err
	}
	var enrollment *models.Learning
	for i := range learnings {
		if learnings[i].EnrollmentID == enrollmentID {
			enrollment = &learnings[i]
			break
		}
	}
	if enrollment == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if enrollment.AssignLimit > 0 && enrollment.AssignCount+len(cleaned) > enrollment.AssignLimit {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "not enough seats left on this enrollment")
	}

	return s.client.ShareCourse(ctx, upstream.ShareRequest{
		EnrollmentID: enrollmentID,
		EmailList:    cleaned,
	})
}
