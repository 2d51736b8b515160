package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/export"
)

type courseAdminUpstream interface {
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error)
	CreateCourse(ctx context.Context, req upstream.CreateCourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, id string, req upstream.UpdateCourseRequest) (*models.Course, error)
	UpdateCoursePricing(ctx context.Context, id string, pricing models.CoursePricing) error
	UpdateThumbnail(ctx context.Context, id, filename string, file io.Reader) (string, error)
}

type uploadStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type catalogInvalidator interface {
	InvalidateListings(ctx context.Context)
}

// CreateCourseInput is the back-office payload for a complete course.
type CreateCourseInput struct {
	Title           string               `json:"title" validate:"required"`
	Description     string               `json:"description" validate:"required"`
	Category        string               `json:"category" validate:"required"`
	DifficultyLevel string               `json:"difficulty_level" validate:"required,oneof=beginner intermediate advanced"`
	Language        string               `json:"language" validate:"required"`
	Pricing         models.CoursePricing `json:"pricing"`
	Modules         []models.Module      `json:"modules"`
}

// UpdateCourseInput is the back-office payload for attribute edits.
type UpdateCourseInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DifficultyLevel string `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Language        string `json:"language"`
}

// CourseAdminService serves the back-office course workflows: creation,
// edits, tiered pricing, thumbnail staging and catalog exports. Every
// mutation invalidates cached catalog pages.
type CourseAdminService struct {
	client    courseAdminUpstream
	uploads   uploadStore
	catalog   catalogInvalidator
	csv       *export.CSVExporter
	cfg       config.UploadsConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseAdminService constructs CourseAdminService.
func NewCourseAdminService(
	client courseAdminUpstream,
	uploads uploadStore,
	catalog catalogInvalidator,
	csv *export.CSVExporter,
	cfg config.UploadsConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *CourseAdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseAdminService{
		client:    client,
		uploads:   uploads,
		catalog:   catalog,
		csv:       csv,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
	}
}

// Create pushes a complete course upstream, materials validated first.
func (s *CourseAdminService) Create(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course")
	}
	if err := validateModuleMaterials(input.Modules); err != nil {
		return nil, err
	}
	if err := validatePricing(input.Pricing); err != nil {
		return nil, err
	}

	course, err := s.client.CreateCourse(ctx, upstream.CreateCourseRequest{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		DifficultyLevel: input.DifficultyLevel,
		Language:        input.Language,
		Pricing:         input.Pricing,
		Modules:         input.Modules,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return course, nil
}

// Update edits course attributes.
func (s *CourseAdminService) Update(ctx context.Context, id string, input UpdateCourseInput) (*models.Course, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course update")
	}
	course, err := s.client.UpdateCourse(ctx, id, upstream.UpdateCourseRequest(input))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return course, nil
}

// UpdatePricing replaces the course's tier table upstream.
func (s *CourseAdminService) UpdatePricing(ctx context.Context, id string, pricing models.CoursePricing) error {
	if err := validatePricing(pricing); err != nil {
		return err
	}
	if err := s.client.UpdateCoursePricing(ctx, id, pricing); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// StageThumbnail validates and stores an uploaded thumbnail locally, then
// forwards it upstream. The staged copy is removed once the upstream accepts
// it; on upstream failure it is kept so the admin can retry without
// re-uploading.
func (s *CourseAdminService) StageThumbnail(ctx context.Context, courseID, filename, contentType string, size int64, file io.Reader) (string, error) {
	if size > s.cfg.MaxFileSizeBytes {
		return "", appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("thumbnail exceeds the %d byte limit", s.cfg.MaxFileSizeBytes))
	}
	if !s.mimeAllowed(contentType) {
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported thumbnail type "+contentType)
	}

	staged := "thumbnails/" + courseID + "-" + uuid.NewString() + extensionOf(filename)
	if _, err := s.uploads.SaveStream(staged, io.LimitReader(file, s.cfg.MaxFileSizeBytes)); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stage thumbnail")
	}

	reader, err := s.uploads.Open(staged)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read staged thumbnail")
	}
	defer reader.Close() //nolint:errcheck

	url, err := s.client.UpdateThumbnail(ctx, courseID, filename, reader)
	if err != nil {
		s.logger.Warn("thumbnail forward failed, staged copy kept",
			zap.String("course_id", courseID),
			zap.String("staged", staged),
			zap.Error(err))
		return "", err
	}

	if err := s.uploads.Delete(staged); err != nil {
		s.logger.Warn("failed to remove staged thumbnail", zap.String("staged", staged), zap.Error(err))
	}
	s.invalidate(ctx)
	return url, nil
}

// ExportCatalogCSV renders the full catalog as CSV for back-office reporting.
func (s *CourseAdminService) ExportCatalogCSV(ctx context.Context) ([]byte, string, error) {
	courses, _, err := s.client.ListCourses(ctx, models.CourseFilter{All: true})
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"ID", "Title", "Category", "Difficulty", "Language", "Rating", "Enrollments"},
	}
	for _, course := range courses {
		data.Rows = append(data.Rows, map[string]string{
			"ID":          course.ID,
			"Title":       course.Title,
			"Category":    course.Category,
			"Difficulty":  course.DifficultyLevel,
			"Language":    course.Language,
			"Rating":      strconv.FormatFloat(course.Rating, 'f', 1, 64),
			"Enrollments": strconv.Itoa(course.EnrollmentCount),
		})
	}
	data.Footer = []string{fmt.Sprintf("%d courses", len(courses))}

	rendered, err := s.csv.Render(data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := "catalog-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	return rendered, filename, nil
}

func (s *CourseAdminService) invalidate(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.InvalidateListings(ctx)
	}
}

func (s *CourseAdminService) mimeAllowed(contentType string) bool {
	if len(s.cfg.AllowedMIMEs) == 0 {
		return true
	}
	for _, allowed := range s.cfg.AllowedMIMEs {
		if strings.EqualFold(allowed, contentType) {
			return true
		}
	}
	return false
}

func extensionOf(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return strings.ToLower(filename[idx:])
	}
	return ""
}

// validateModuleMaterials runs material validation across a course payload.
// The first failing material aborts the submission with its field message.
func validateModuleMaterials(modules []models.Module) error {
	for _, module := range modules {
		for _, material := range module.Materials {
			if message, ok := material.Validate(); !ok {
				return appErrors.Clone(appErrors.ErrValidation, message)
			}
		}
	}
	return nil
}

// validatePricing rejects negative prices and non-positive assign limits.
func validatePricing(pricing models.CoursePricing) error {
	check := func(tier models.PricingTier) error {
		if tier.Price < 0 {
			return appErrors.Clone(appErrors.ErrValidation, "price cannot be negative")
		}
		if tier.AssignLimit < 1 {
			return appErrors.Clone(appErrors.ErrValidation, "assign limit must be at least 1")
		}
		return nil
	}
	if pricing.Individual != nil {
		if err := check(*pricing.Individual); err != nil {
			return err
		}
	}
	for _, tier := range pricing.Institution {
		if err := check(tier); err != nil {
			return err
		}
	}
	for _, tier := range pricing.Corporate {
		if err := check(tier); err != nil {
			return err
		}
	}
	return nil
}
