package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type fakeCatalogUpstream struct {
	listCalls int
	courses   []models.Course
	detail    *models.CourseDetail
	ratings   []upstream.RateCourseRequest
}

func (f *fakeCatalogUpstream) ListCourses(_ context.Context, _ models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	f.listCalls++
	return f.courses, &models.Pagination{CurrentPage: 1, TotalPages: 1, TotalCourses: len(f.courses)}, nil
}

func (f *fakeCatalogUpstream) GetCourse(_ context.Context, id string) (*models.CourseDetail, error) {
	if f.detail == nil || f.detail.ID != id {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	clone := *f.detail
	return &clone, nil
}

func (f *fakeCatalogUpstream) RateCourse(_ context.Context, req upstream.RateCourseRequest) error {
	f.ratings = append(f.ratings, req)
	return nil
}

type memoryCache struct {
	entries map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	m.entries = map[string][]byte{}
	return nil
}

func cachedCatalogConfig() config.CatalogConfig {
	return config.CatalogConfig{CacheEnabled: true, CacheTTL: time.Minute}
}

func TestCatalogListCachesPages(t *testing.T) {
	client := &fakeCatalogUpstream{courses: []models.Course{{ID: "c1", Title: "Intro to Go"}}}
	cache := newMemoryCache()
	svc := NewCatalogService(client, cache, cachedCatalogConfig(), nil)

	filter := models.CourseFilter{Query: "go", Page: 1}
	page, cached, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, page.Courses, 1)

	page, cached, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.True(t, cached)
	require.Len(t, page.Courses, 1)
	assert.Equal(t, 1, client.listCalls)
}

func TestCatalogListCacheDisabled(t *testing.T) {
	client := &fakeCatalogUpstream{}
	svc := NewCatalogService(client, newMemoryCache(), config.CatalogConfig{CacheEnabled: false}, nil)

	_, _, err := svc.List(context.Background(), models.CourseFilter{Page: 1})
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), models.CourseFilter{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, client.listCalls)
}

func TestCatalogGetResolvesPricing(t *testing.T) {
	client := &fakeCatalogUpstream{detail: &models.CourseDetail{
		Course: models.Course{
			ID: "c1",
			Pricing: models.CoursePricing{
				Institution: []models.PricingTier{{AssignLimit: 10, Price: 399}},
			},
		},
	}}
	svc := NewCatalogService(client, nil, config.CatalogConfig{}, nil)

	detail, err := svc.Get(context.Background(), "c1", models.AccessInstitution)
	require.NoError(t, err)
	require.NotNil(t, detail.PricingOptions.Default)
	assert.Equal(t, models.AccessInstitution, detail.PricingOptions.Default.Type)
}

func TestCatalogRateValidatesRangeAndInvalidates(t *testing.T) {
	client := &fakeCatalogUpstream{}
	cache := newMemoryCache()
	svc := NewCatalogService(client, cache, cachedCatalogConfig(), nil)

	err := svc.Rate(context.Background(), "c1", 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Rate(context.Background(), "c1", 4.5))
	require.Len(t, client.ratings, 1)
	assert.Equal(t, []string{"catalog:*"}, cache.deletes)
}
