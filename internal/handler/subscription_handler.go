package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-edge-api/internal/service"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/response"
)

// SubscriptionHandler exposes plan endpoints, public listing plus admin CRUD.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

// NewSubscriptionHandler constructs SubscriptionHandler.
func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// List godoc
// @Summary List subscription plans
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	plans, err := h.subscriptions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}

// Get godoc
// @Summary Get one subscription plan
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	plan, err := h.subscriptions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Create godoc
// @Summary Create a subscription plan
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.SubscriptionInput true "Plan payload"
// @Success 201 {object} response.Envelope
// @Router /admin/subscriptions [post]
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var req service.SubscriptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.subscriptions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Update godoc
// @Summary Update a subscription plan
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body service.SubscriptionInput true "Plan payload"
// @Success 200 {object} response.Envelope
// @Router /admin/subscriptions/{id} [put]
func (h *SubscriptionHandler) Update(c *gin.Context) {
	var req service.SubscriptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.subscriptions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Delete godoc
// @Summary Delete a subscription plan
// @Tags Admin
// @Param id path string true "Plan ID"
// @Success 204
// @Router /admin/subscriptions/{id} [delete]
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	if err := h.subscriptions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Courses godoc
// @Summary List the courses attached to a plan
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /subscriptions/{id}/courses [get]
func (h *SubscriptionHandler) Courses(c *gin.Context) {
	courses, err := h.subscriptions.Courses(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// AttachCourse godoc
// @Summary Attach a course to a plan
// @Tags Admin
// @Accept json
// @Param id path string true "Plan ID"
// @Param payload body handler.attachCourseRequest true "Course reference"
// @Success 204
// @Router /admin/subscriptions/{id}/courses [post]
func (h *SubscriptionHandler) AttachCourse(c *gin.Context) {
	var req attachCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.subscriptions.AttachCourse(c.Request.Context(), c.Param("id"), req.CourseID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DetachCourse godoc
// @Summary Detach a course from a plan
// @Tags Admin
// @Param id path string true "Plan ID"
// @Param courseId path string true "Course ID"
// @Success 204
// @Router /admin/subscriptions/{id}/courses/{courseId} [delete]
func (h *SubscriptionHandler) DetachCourse(c *gin.Context) {
	if err := h.subscriptions.DetachCourse(c.Request.Context(), c.Param("id"), c.Param("courseId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type attachCourseRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}
