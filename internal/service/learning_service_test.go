package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type fakeLearningUpstream struct {
	learnings []models.Learning
	shared    []upstream.ShareRequest
}

func (f *fakeLearningUpstream) ListLearnings(context.Context, string) ([]models.Learning, error) {
	return f.learnings, nil
}

func (f *fakeLearningUpstream) ShareCourse(_ context.Context, req upstream.ShareRequest) error {
	f.shared = append(f.shared, req)
	return nil
}

func TestLearningShareEnforcesSeatLimit(t *testing.T) {
	client := &fakeLearningUpstream{learnings: []models.Learning{
		{EnrollmentID: "enr-1", AssignLimit: 3, AssignCount: 2},
	}}
	svc := NewLearningService(client)

	err := svc.Share(context.Background(), "user-1", "enr-1", []string{"a@example.com", "b@example.com"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, client.shared)

	require.NoError(t, svc.Share(context.Background(), "user-1", "enr-1", []string{"a@example.com"}))
	require.Len(t, client.shared, 1)
}

func TestLearningShareValidatesEmails(t *testing.T) {
	client := &fakeLearningUpstream{learnings: []models.Learning{
		{EnrollmentID: "enr-1", AssignLimit: 10},
	}}
	svc := NewLearningService(client)

	err := svc.Share(context.Background(), "user-1", "enr-1", []string{"not-an-email"})
	require.Error(t, err)

	err = svc.Share(context.Background(), "user-1", "enr-1", []string{"  ", ""})
	require.Error(t, err)
}

func TestLearningShareUnknownEnrollment(t *testing.T) {
	svc := NewLearningService(&fakeLearningUpstream{})

	err := svc.Share(context.Background(), "user-1", "missing", []string{"a@example.com"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
