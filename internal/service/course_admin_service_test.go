package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/export"
	"github.com/noah-isme/lms-edge-api/pkg/storage"
)

type fakeCourseAdminUpstream struct {
	created      []upstream.CreateCourseRequest
	pricing      map[string]models.CoursePricing
	thumbnails   map[string][]byte
	thumbnailErr error
	courses      []models.Course
}

func (f *fakeCourseAdminUpstream) ListCourses(context.Context, models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	return f.courses, &models.Pagination{}, nil
}

func (f *fakeCourseAdminUpstream) CreateCourse(_ context.Context, req upstream.CreateCourseRequest) (*models.Course, error) {
	f.created = append(f.created, req)
	return &models.Course{ID: "c-new", Title: req.Title}, nil
}

func (f *fakeCourseAdminUpstream) UpdateCourse(_ context.Context, id string, req upstream.UpdateCourseRequest) (*models.Course, error) {
	return &models.Course{ID: id, Title: req.Title}, nil
}

func (f *fakeCourseAdminUpstream) UpdateCoursePricing(_ context.Context, id string, pricing models.CoursePricing) error {
	if f.pricing == nil {
		f.pricing = map[string]models.CoursePricing{}
	}
	f.pricing[id] = pricing
	return nil
}

func (f *fakeCourseAdminUpstream) UpdateThumbnail(_ context.Context, id, _ string, file io.Reader) (string, error) {
	if f.thumbnailErr != nil {
		return "", f.thumbnailErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if f.thumbnails == nil {
		f.thumbnails = map[string][]byte{}
	}
	f.thumbnails[id] = data
	return "https://cdn.example.com/" + id + ".png", nil
}

type recordingInvalidator struct{ calls int }

func (r *recordingInvalidator) InvalidateListings(context.Context) { r.calls++ }

func uploadsConfig() config.UploadsConfig {
	return config.UploadsConfig{
		MaxFileSizeBytes: 1024,
		AllowedMIMEs:     []string{"image/png", "image/jpeg"},
	}
}

func newAdminFixture(t *testing.T) (*CourseAdminService, *fakeCourseAdminUpstream, *recordingInvalidator) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	client := &fakeCourseAdminUpstream{}
	invalidator := &recordingInvalidator{}
	svc := NewCourseAdminService(client, store, invalidator, export.NewCSVExporter(), uploadsConfig(), nil, nil)
	return svc, client, invalidator
}

func validCourseInput() CreateCourseInput {
	return CreateCourseInput{
		Title:           "Intro to Go",
		Description:     "Learn Go",
		Category:        "programming",
		DifficultyLevel: "beginner",
		Language:        "en",
		Pricing: models.CoursePricing{
			Individual: &models.PricingTier{AssignLimit: 1, Price: 49.99},
		},
	}
}

func TestCourseAdminCreateInvalidatesCatalog(t *testing.T) {
	svc, client, invalidator := newAdminFixture(t)

	course, err := svc.Create(context.Background(), validCourseInput())
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", course.Title)
	require.Len(t, client.created, 1)
	assert.Equal(t, 1, invalidator.calls)
}

func TestCourseAdminCreateRejectsBadVideoURL(t *testing.T) {
	svc, client, _ := newAdminFixture(t)

	input := validCourseInput()
	input.Modules = []models.Module{{
		Title: "Basics",
		Materials: []models.Material{{
			Type:  models.MaterialVideo,
			Title: "Welcome",
			Video: &models.VideoFields{FilePath: "http://example.com/video.mp4"},
		}},
	}}

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, client.created)
}

func TestCourseAdminUpdatePricingRejectsNegativePrice(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	err := svc.UpdatePricing(context.Background(), "c1", models.CoursePricing{
		Institution: []models.PricingTier{{AssignLimit: 10, Price: -1}},
	})
	require.Error(t, err)
}

func TestCourseAdminStageThumbnail(t *testing.T) {
	svc, client, invalidator := newAdminFixture(t)

	payload := bytes.Repeat([]byte{0x89}, 64)
	url, err := svc.StageThumbnail(context.Background(), "c1", "cover.png", "image/png", int64(len(payload)), bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/c1.png", url)
	assert.Equal(t, payload, client.thumbnails["c1"])
	assert.Equal(t, 1, invalidator.calls)
}

func TestCourseAdminStageThumbnailRejectsOversize(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	_, err := svc.StageThumbnail(context.Background(), "c1", "cover.png", "image/png", 4096, bytes.NewReader(nil))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseAdminStageThumbnailRejectsMIME(t *testing.T) {
	svc, _, _ := newAdminFixture(t)

	_, err := svc.StageThumbnail(context.Background(), "c1", "cover.gif", "image/gif", 10, strings.NewReader("gif"))
	require.Error(t, err)
}

func TestCourseAdminExportCatalogCSV(t *testing.T) {
	svc, client, _ := newAdminFixture(t)
	client.courses = []models.Course{
		{ID: "c1", Title: "Intro to Go", Category: "programming", DifficultyLevel: "beginner", Language: "en", Rating: 4.5, EnrollmentCount: 12},
	}

	rendered, filename, err := svc.ExportCatalogCSV(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "catalog-"))
	text := string(rendered)
	assert.Contains(t, text, "Intro to Go")
	assert.Contains(t, text, "1 courses")
}
