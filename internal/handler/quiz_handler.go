package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-edge-api/internal/service"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
	"github.com/noah-isme/lms-edge-api/pkg/response"
)

// QuizHandler exposes the quiz builder. All state lives in memory on the
// gateway; closing the session discards the draft.
type QuizHandler struct {
	quizzes *service.QuizService
}

// NewQuizHandler constructs QuizHandler.
func NewQuizHandler(quizzes *service.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// StartSession godoc
// @Summary Open a quiz builder session
// @Tags QuizBuilder
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /quiz-builder/sessions [post]
func (h *QuizHandler) StartSession(c *gin.Context) {
	response.Created(c, h.quizzes.StartSession())
}

// GetDraft godoc
// @Summary Get the draft for a session
// @Tags QuizBuilder
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /quiz-builder/sessions/{id} [get]
func (h *QuizHandler) GetDraft(c *gin.Context) {
	draft, err := h.quizzes.Draft(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// SetQuestionText godoc
// @Summary Set the pending question's text
// @Tags QuizBuilder
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body handler.questionTextRequest true "Question text"
// @Success 200 {object} response.Envelope
// @Router /quiz-builder/sessions/{id}/question [put]
func (h *QuizHandler) SetQuestionText(c *gin.Context) {
	var req questionTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	draft, err := h.quizzes.SetQuestionText(c.Param("id"), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// AddOption godoc
// @Summary Add an answer option
// @Tags QuizBuilder
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body handler.optionTextRequest true "Option text"
// @Success 200 {object} response.Envelope
// @Router /quiz-builder/sessions/{id}/options [post]
func (h *QuizHandler) AddOption(c *gin.Context) {
	var req optionTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	draft, err := h.quizzes.AddOption(c.Param("id"), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// RemoveOption godoc
// @Summary Remove an answer option by index
// @Tags QuizBuilder
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Option index"
// @Success 200 {object} response.Envelope
// @Router /quiz-builder/sessions/{id}/options/{index} [delete]
func (h *QuizHandler) RemoveOption(c *gin.Context) {
	index, ok := optionIndex(c)
	if !ok {
		return
	}
	draft, err := h.quizzes.RemoveOption(c.Param("id"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// ToggleCorrect godoc
// @Summary Toggle an option's correctness
// @Tags QuizBuilder
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Option index"
// @Success 200 {object} response.Envelope
// @Router /quiz-builder/sessions/{id}/options/{index}/correct [put]
func (h *QuizHandler) ToggleCorrect(c *gin.Context) {
	index, ok := optionIndex(c)
	if !ok {
		return
	}
	draft, err := h.quizzes.ToggleCorrect(c.Param("id"), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// SetMode godoc
// @Summary Switch single/multiple answer mode
// @Tags QuizBuilder
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body handler.quizModeRequest true "Answer mode"
// @Success 200 {object} response.Envelope
// @Router /quiz-builder/sessions/{id}/mode [put]
func (h *QuizHandler) SetMode(c *gin.Context) {
	var req quizModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	draft, err := h.quizzes.SetAllowMultipleCorrect(c.Param("id"), req.AllowMultipleCorrect)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// CommitQuestion godoc
// @Summary Commit the pending question into the draft
// @Tags QuizBuilder
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /quiz-builder/sessions/{id}/questions [post]
func (h *QuizHandler) CommitQuestion(c *gin.Context) {
	draft, err := h.quizzes.CommitQuestion(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// Discard godoc
// @Summary Discard a builder session
// @Tags QuizBuilder
// @Param id path string true "Session ID"
// @Success 204
// @Router /quiz-builder/sessions/{id} [delete]
func (h *QuizHandler) Discard(c *gin.Context) {
	h.quizzes.Discard(c.Param("id"))
	response.NoContent(c)
}

func optionIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid option index"))
		return 0, false
	}
	return index, true
}

type questionTextRequest struct {
	Text string `json:"text" binding:"required"`
}

type optionTextRequest struct {
	Text string `json:"text" binding:"required"`
}

type quizModeRequest struct {
	AllowMultipleCorrect bool `json:"allowMultipleCorrect"`
}
