package service

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/lms-edge-api/internal/models"
	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

// QuizService holds quiz builder drafts in memory, keyed by session id.
// Drafts never leave the gateway; there is no upstream persistence contract
// for authored quizzes yet.
type QuizService struct {
	mu     sync.Mutex
	drafts map[string]*models.QuizDraft
}

// NewQuizService constructs QuizService.
func NewQuizService() *QuizService {
	return &QuizService{drafts: map[string]*models.QuizDraft{}}
}

// StartSession opens a fresh draft and returns it.
func (s *QuizService) StartSession() *models.QuizDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := &models.QuizDraft{
		SessionID: uuid.NewString(),
		Pending:   models.QuizQuestion{Options: []models.QuizOption{}},
		Questions: []models.QuizQuestion{},
	}
	s.drafts[draft.SessionID] = draft
	return cloneDraft(draft)
}

// Draft returns the current state of a session.
func (s *QuizService) Draft(sessionID string) (*models.QuizDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	return cloneDraft(draft), nil
}

// SetQuestionText updates the pending question's text.
func (s *QuizService) SetQuestionText(sessionID, text string) (*models.QuizDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	draft.Pending.Text = text
	return cloneDraft(draft), nil
}

// AddOption appends an answer choice to the pending question, rejecting
// additions past the maximum.
func (s *QuizService) AddOption(sessionID, text string) (*models.QuizDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	if len(draft.Pending.Options) >= models.QuizMaxOptions {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a question allows at most 6 options")
	}
	draft.Pending.Options = append(draft.Pending.Options, models.QuizOption{Text: text})
	return cloneDraft(draft), nil
}

// RemoveOption drops an answer choice by index. Once the question has reached
// the minimum option count, removal below it is rejected.
func (s *QuizService) RemoveOption(sessionID string, index int) (*models.QuizDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Pending.Options) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "option index out of range")
	}
	if len(draft.Pending.Options) <= models.QuizMinOptions {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a question needs at least 2 options")
	}
	draft.Pending.Options = append(draft.Pending.Options[:index], draft.Pending.Options[index+1:]...)
	return cloneDraft(draft), nil
}

// ToggleCorrect flips an option's correctness. In single-answer mode marking
// an option correct clears every other option first.
func (s *QuizService) ToggleCorrect(sessionID string, index int) (*models.QuizDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(draft.Pending.Options) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "option index out of range")
	}
	next := !draft.Pending.Options[index].IsCorrect
	if next && !draft.AllowMultipleCorrect {
		for i := range draft.Pending.Options {
			draft.Pending.Options[i].IsCorrect = false
		}
	}
	draft.Pending.Options[index].IsCorrect = next
	return cloneDraft(draft), nil
}

// SetAllowMultipleCorrect switches answer mode. Any change of mode clears all
// correctness marks so the author re-picks under the new rules.
func (s *QuizService) SetAllowMultipleCorrect(sessionID string, allow bool) (*models.QuizDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}
	if draft.AllowMultipleCorrect != allow {
		for i := range draft.Pending.Options {
			draft.Pending.Options[i].IsCorrect = false
		}
	}
	draft.AllowMultipleCorrect = allow
	draft.Pending.AllowMultipleCorrect = allow
	return cloneDraft(draft), nil
}

// CommitQuestion validates the pending question and moves it into the draft's
// question list, resetting the pending state.
func (s *QuizService) CommitQuestion(sessionID string) (*models.QuizDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := s.find(sessionID)
	if err != nil {
		return nil, err
	}

	pending := draft.Pending
	if strings.TrimSpace(pending.Text) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question text is required")
	}
	if len(pending.Options) < models.QuizMinOptions || len(pending.Options) > models.QuizMaxOptions {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a question needs between 2 and 6 options")
	}
	correct := 0
	for _, option := range pending.Options {
		if strings.TrimSpace(option.Text) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "options cannot be blank")
		}
		if option.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mark at least one option correct")
	}
	if correct > 1 && !draft.AllowMultipleCorrect {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only one correct option is allowed in single-answer mode")
	}

	pending.AllowMultipleCorrect = draft.AllowMultipleCorrect
	draft.Questions = append(draft.Questions, pending)
	draft.Pending = models.QuizQuestion{Options: []models.QuizOption{}, AllowMultipleCorrect: draft.AllowMultipleCorrect}
	return cloneDraft(draft), nil
}

// Discard removes a session and its draft.
func (s *QuizService) Discard(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
}

func (s *QuizService) find(sessionID string) (*models.QuizDraft, error) {
	draft, ok := s.drafts[sessionID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "quiz session not found")
	}
	return draft, nil
}

func cloneDraft(draft *models.QuizDraft) *models.QuizDraft {
	clone := *draft
	clone.Pending.Options = append([]models.QuizOption(nil), draft.Pending.Options...)
	clone.Questions = make([]models.QuizQuestion, len(draft.Questions))
	for i, question := range draft.Questions {
		question.Options = append([]models.QuizOption(nil), question.Options...)
		clone.Questions[i] = question
	}
	return &clone
}
