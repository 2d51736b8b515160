package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-edge-api/internal/service"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/response"
)

// LearningHandler exposes the learner's enrollments.
type LearningHandler struct {
	learnings *service.LearningService
}

// NewLearningHandler constructs LearningHandler.
func NewLearningHandler(learnings *service.LearningService) *LearningHandler {
	return &LearningHandler{learnings: learnings}
}

// List godoc
// @Summary List the current user's enrollments
// @Tags Learning
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /learnings [get]
func (h *LearningHandler) List(c *gin.Context) {
	learnings, err := h.learnings.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, learnings, nil)
}

// Share godoc
// @Summary Share enrollment seats with other learners
// @Tags Learning
// @Accept json
// @Param enrollmentId path string true "Enrollment ID"
// @Param payload body handler.shareRequest true "Emails to share with"
// @Success 204
// @Router /learnings/{enrollmentId}/share [post]
func (h *LearningHandler) Share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.learnings.Share(c.Request.Context(), currentUserID(c), c.Param("enrollmentId"), req.Emails); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type shareRequest struct {
	Emails []string `json:"emails" binding:"required"`
}
