package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/service"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/response"
)

// CourseAdminHandler exposes the back-office course endpoints.
type CourseAdminHandler struct {
	admin *service.CourseAdminService
}

// NewCourseAdminHandler constructs CourseAdminHandler.
func NewCourseAdminHandler(admin *service.CourseAdminService) *CourseAdminHandler {
	return &CourseAdminHandler{admin: admin}
}

// Create godoc
// @Summary Create a complete course
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseInput true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /admin/courses [post]
func (h *CourseAdminHandler) Create(c *gin.Context) {
	var req service.CreateCourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.admin.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course attributes
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.UpdateCourseInput true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /admin/courses/{id} [put]
func (h *CourseAdminHandler) Update(c *gin.Context) {
	var req service.UpdateCourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.admin.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// UpdatePricing godoc
// @Summary Replace course pricing tiers
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.CoursePricing true "Pricing payload"
// @Success 204
// @Router /admin/courses/{id}/pricing [put]
func (h *CourseAdminHandler) UpdatePricing(c *gin.Context) {
	var pricing models.CoursePricing
	if err := c.ShouldBindJSON(&pricing); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.admin.UpdatePricing(c.Request.Context(), c.Param("id"), pricing); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateThumbnail godoc
// @Summary Upload a course thumbnail
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Course ID"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 200 {object} response.Envelope
// @Router /admin/courses/{id}/thumbnail [put]
func (h *CourseAdminHandler) UpdateThumbnail(c *gin.Context) {
	fileHeader, err := c.FormFile("thumbnail")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "thumbnail file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read thumbnail"))
		return
	}
	defer file.Close() //nolint:errcheck

	url, err := h.admin.StageThumbnail(
		c.Request.Context(),
		c.Param("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"thumbnail_url": url}, nil)
}

// ExportCSV godoc
// @Summary Export the catalog as CSV
// @Tags Admin
// @Produce text/csv
// @Success 200
// @Router /admin/courses/export [get]
func (h *CourseAdminHandler) ExportCSV(c *gin.Context) {
	rendered, filename, err := h.admin.ExportCatalogCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", rendered)
}
