package upstream

import (
	"context"
	"io"
	"strconv"

	"github.com/noah-isme/lms-edge-api/internal/models"
)

type courseListResponse struct {
	Courses    []models.Course   `json:"courses"`
	Pagination models.Pagination `json:"pagination"`
}

// ListCourses fetches a catalog page from GET /courses/courses-enhanced.
func (c *Client) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	var out courseListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", filter.Query).
		SetQueryParam("page", strconv.Itoa(filter.Page)).
		SetQueryParam("all", strconv.FormatBool(filter.All)).
		SetResult(&out).
		Get("/courses/courses-enhanced")
	if apiErr := c.apiError("list courses", resp, err); apiErr != nil {
		return nil, nil, apiErr
	}
	return out.Courses, &out.Pagination, nil
}

// GetCourse fetches one detailed course from GET /courses/course/:id.
func (c *Client) GetCourse(ctx context.Context, id string) (*models.CourseDetail, error) {
	var out models.CourseDetail
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/courses/course/" + id)
	if apiErr := c.apiError("get course", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// CreateCourseRequest is the POST /courses/create-complete payload: a course
// with its modules and materials in one shot.
type CreateCourseRequest struct {
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Category        string               `json:"category"`
	DifficultyLevel string               `json:"difficulty_level"`
	Language        string               `json:"language"`
	Pricing         models.CoursePricing `json:"pricing"`
	Modules         []models.Module      `json:"modules,omitempty"`
}

// CreateCourse creates a complete course upstream.
func (c *Client) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	var out models.Course
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/courses/create-complete")
	if apiErr := c.apiError("create course", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// UpdateCourseRequest is the PUT /courses/course/:id payload.
type UpdateCourseRequest struct {
	Title           string `json:"title,omitempty"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category,omitempty"`
	DifficultyLevel string `json:"difficulty_level,omitempty"`
	Language        string `json:"language,omitempty"`
}

// UpdateCourse updates course attributes upstream.
func (c *Client) UpdateCourse(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	var out models.Course
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Put("/courses/course/" + id)
	if apiErr := c.apiError("update course", resp, err); apiErr != nil {
		return nil, apiErr
	}
	return &out, nil
}

// UpdateCoursePricing replaces the tiered pricing object upstream.
func (c *Client) UpdateCoursePricing(ctx context.Context, id string, pricing models.CoursePricing) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(pricing).
		Put("/courses/course/pricing/" + id)
	return c.apiError("update course pricing", resp, err)
}

// RateCourseRequest is the PUT /courses/rating payload.
type RateCourseRequest struct {
	CourseID string  `json:"course_id"`
	Rating   float64 `json:"rating"`
}

// RateCourse submits a rating upstream.
func (c *Client) RateCourse(ctx context.Context, req RateCourseRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Put("/courses/rating")
	return c.apiError("rate course", resp, err)
}

// UpdateThumbnail forwards a staged thumbnail as multipart form data to
// PUT /courses/update-thumbnail/:id and returns the stored URL.
func (c *Client) UpdateThumbnail(ctx context.Context, id, filename string, file io.Reader) (string, error) {
	var out struct {
		ThumbnailURL string `json:"thumbnail_url"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("thumbnail", filename, file).
		SetResult(&out).
		Put("/courses/update-thumbnail/" + id)
	if apiErr := c.apiError("update thumbnail", resp, err); apiErr != nil {
		return "", apiErr
	}
	return out.ThumbnailURL, nil
}
