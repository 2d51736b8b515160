package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type catalogUpstream interface {
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error)
	GetCourse(ctx context.Context, id string) (*models.CourseDetail, error)
	RateCourse(ctx context.Context, req upstream.RateCourseRequest) error
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CatalogPage is a cached catalog listing response.
type CatalogPage struct {
	Courses    []models.Course    `json:"courses"`
	Pagination *models.Pagination `json:"pagination"`
}

// CatalogService serves the public course catalog. Listings are cached per
// filter for the configured TTL; detail pages always hit upstream so pricing
// and module ordering stay fresh.
type CatalogService struct {
	client catalogUpstream
	cache  catalogCache
	cfg    config.CatalogConfig
	logger *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(client catalogUpstream, cache catalogCache, cfg config.CatalogConfig, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{client: client, cache: cache, cfg: cfg, logger: logger}
}

// List returns a catalog page, from cache when possible. Cache failures are
// logged and treated as misses; the catalog never breaks because redis did.
// The second return reports whether the page came from cache.
func (s *CatalogService) List(ctx context.Context, filter models.CourseFilter) (*CatalogPage, bool, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	key := filter.CacheKey()

	if s.cacheEnabled() {
		var page CatalogPage
		err := s.cache.Get(ctx, key, &page)
		if err == nil {
			return &page, true, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	courses, pagination, err := s.client.ListCourses(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	page := &CatalogPage{Courses: courses, Pagination: pagination}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, key, page, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return page, false, nil
}

// Get returns a course detail with pricing resolved for the requested access
// type. A course without pricing still renders; its resolution has no default.
func (s *CatalogService) Get(ctx context.Context, id string, accessHint models.AccessType) (*models.CourseDetail, error) {
	detail, err := s.client.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.PricingOptions = ResolvePricing(detail.Pricing, accessHint)
	return detail, nil
}

// Rate forwards a course rating upstream and drops cached catalog pages so
// the new average shows up.
func (s *CatalogService) Rate(ctx context.Context, courseID string, rating float64) error {
	if rating < 1 || rating > 5 {
		return appErrors.Clone(appErrors.ErrValidation, "rating must be between 1 and 5")
	}
	if err := s.client.RateCourse(ctx, upstream.RateCourseRequest{CourseID: courseID, Rating: rating}); err != nil {
		return err
	}
	s.InvalidateListings(ctx)
	return nil
}

// InvalidateListings drops every cached catalog page.
func (s *CatalogService) InvalidateListings(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "catalog:*"); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func (s *CatalogService) cacheEnabled() bool {
	return s.cfg.CacheEnabled && s.cache != nil
}
