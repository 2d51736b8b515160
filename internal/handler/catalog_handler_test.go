package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-edge-api/internal/middleware"
	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/service"
	"github.com/noah-isme/lms-edge-api/internal/upstream"
	"github.com/noah-isme/lms-edge-api/pkg/config"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

type catalogUpstreamStub struct {
	ratings []upstream.RateCourseRequest
}

func (s *catalogUpstreamStub) ListCourses(_ context.Context, _ models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses := []models.Course{
		{ID: "course-1", Title: "Intro to Databases", Category: "engineering"},
		{ID: "course-2", Title: "Streaming Pipelines", Category: "engineering"},
	}
	return courses, &models.Pagination{CurrentPage: 1, TotalPages: 1, TotalCourses: 2}, nil
}

func (s *catalogUpstreamStub) GetCourse(_ context.Context, id string) (*models.CourseDetail, error) {
	if id != "course-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &models.CourseDetail{Course: models.Course{ID: "course-1", Title: "Intro to Databases"}}, nil
}

func (s *catalogUpstreamStub) RateCourse(_ context.Context, req upstream.RateCourseRequest) error {
	s.ratings = append(s.ratings, req)
	return nil
}

func buildCatalogRouter(stub *catalogUpstreamStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewCatalogService(stub, nil, config.CatalogConfig{CacheEnabled: false}, nil)
	h := NewCatalogHandler(svc)

	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.GET("/courses", h.List)
	r.GET("/courses/:id", h.Get)
	r.POST("/courses/:id/rating", h.Rate)
	return r
}

func performRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCatalogListEnvelope(t *testing.T) {
	router := buildCatalogRouter(&catalogUpstreamStub{})

	req, _ := http.NewRequest(http.MethodGet, "/courses?page=1", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"Intro to Databases"`)
	require.Contains(t, resp.Body.String(), `"pagination"`)
	require.Contains(t, resp.Body.String(), `"cache_hit":false`)
}

func TestCatalogGetUnknownCourse(t *testing.T) {
	router := buildCatalogRouter(&catalogUpstreamStub{})

	req, _ := http.NewRequest(http.MethodGet, "/courses/nope", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Contains(t, resp.Body.String(), `"error"`)
}

func TestCatalogRate(t *testing.T) {
	stub := &catalogUpstreamStub{}
	router := buildCatalogRouter(stub)

	req, _ := http.NewRequest(http.MethodPost, "/courses/course-1/rating", bytes.NewBufferString(`{"rating":4}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Len(t, stub.ratings, 1)
	require.Equal(t, "course-1", stub.ratings[0].CourseID)
}

func TestCatalogRateRejectsMissingRating(t *testing.T) {
	router := buildCatalogRouter(&catalogUpstreamStub{})

	req, _ := http.NewRequest(http.MethodPost, "/courses/course-1/rating", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}
