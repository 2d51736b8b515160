package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-edge-api/internal/middleware"
	"github.com/noah-isme/lms-edge-api/internal/models"
	"github.com/noah-isme/lms-edge-api/internal/service"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/response"
)

// CatalogHandler exposes the public course catalog.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List catalog courses
// @Tags Catalog
// @Produce json
// @Param query query string false "Search term"
// @Param page query int false "Page"
// @Param all query bool false "Fetch all pages"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var filter models.CourseFilter
	filter.Query = strings.TrimSpace(c.Query("query"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	filter.All = c.Query("all") == "true"

	page, cached, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, page.Courses, page.Pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get course detail with resolved pricing
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Param for query string false "Access type hint" Enums(individual, institution, corporate)
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	hint := models.AccessType(c.Query("for"))
	detail, err := h.catalog.Get(c.Request.Context(), c.Param("id"), hint)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Pricing godoc
// @Summary Get resolved pricing options for a course
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Param type query string false "Access type hint" Enums(individual, institution, corporate)
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/pricing [get]
func (h *CatalogHandler) Pricing(c *gin.Context) {
	hint := models.AccessType(c.Query("type"))
	detail, err := h.catalog.Get(c.Request.Context(), c.Param("id"), hint)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail.PricingOptions, nil)
}

// Rate godoc
// @Summary Rate a course
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body handler.rateRequest true "Rating payload"
// @Success 204
// @Router /courses/{id}/rating [post]
func (h *CatalogHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.catalog.Rate(c.Request.Context(), c.Param("id"), req.Rating); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type rateRequest struct {
	Rating float64 `json:"rating" binding:"required"`
}
