package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/lms-edge-api/pkg/errors"
)

func startQuizSession(t *testing.T, svc *QuizService) string {
	t.Helper()
	draft := svc.StartSession()
	require.NotEmpty(t, draft.SessionID)
	return draft.SessionID
}

func TestQuizCommitRequiresTwoOptions(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	_, err := svc.SetQuestionText(id, "What is Go?")
	require.NoError(t, err)
	_, err = svc.AddOption(id, "a language")
	require.NoError(t, err)
	_, err = svc.ToggleCorrect(id, 0)
	require.NoError(t, err)

	_, err = svc.CommitQuestion(id)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestQuizCommitRequiresCorrectAnswer(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	_, err := svc.SetQuestionText(id, "What is Go?")
	require.NoError(t, err)
	_, err = svc.AddOption(id, "a language")
	require.NoError(t, err)
	_, err = svc.AddOption(id, "a board game")
	require.NoError(t, err)

	_, err = svc.CommitQuestion(id)
	require.Error(t, err)
}

func TestQuizSingleAnswerToggleClearsOthers(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	_, err := svc.AddOption(id, "first")
	require.NoError(t, err)
	_, err = svc.AddOption(id, "second")
	require.NoError(t, err)

	_, err = svc.ToggleCorrect(id, 0)
	require.NoError(t, err)
	draft, err := svc.ToggleCorrect(id, 1)
	require.NoError(t, err)

	assert.False(t, draft.Pending.Options[0].IsCorrect)
	assert.True(t, draft.Pending.Options[1].IsCorrect)
}

func TestQuizMultipleAnswerModeKeepsBoth(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	_, err := svc.SetAllowMultipleCorrect(id, true)
	require.NoError(t, err)
	_, err = svc.AddOption(id, "first")
	require.NoError(t, err)
	_, err = svc.AddOption(id, "second")
	require.NoError(t, err)

	_, err = svc.ToggleCorrect(id, 0)
	require.NoError(t, err)
	draft, err := svc.ToggleCorrect(id, 1)
	require.NoError(t, err)

	assert.True(t, draft.Pending.Options[0].IsCorrect)
	assert.True(t, draft.Pending.Options[1].IsCorrect)
}

func TestQuizModeSwitchClearsMarks(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	_, err := svc.AddOption(id, "first")
	require.NoError(t, err)
	_, err = svc.ToggleCorrect(id, 0)
	require.NoError(t, err)

	draft, err := svc.SetAllowMultipleCorrect(id, true)
	require.NoError(t, err)
	assert.False(t, draft.Pending.Options[0].IsCorrect)
}

func TestQuizMaxOptionsEnforced(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	for i := 0; i < 6; i++ {
		_, err := svc.AddOption(id, "option")
		require.NoError(t, err)
	}
	_, err := svc.AddOption(id, "one too many")
	require.Error(t, err)
}

func TestQuizMinOptionsEnforcedOnRemove(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	for i := 0; i < 3; i++ {
		_, err := svc.AddOption(id, "option")
		require.NoError(t, err)
	}

	draft, err := svc.RemoveOption(id, 0)
	require.NoError(t, err)
	require.Len(t, draft.Pending.Options, 2)

	_, err = svc.RemoveOption(id, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	draft, err = svc.Draft(id)
	require.NoError(t, err)
	assert.Len(t, draft.Pending.Options, 2)
}

func TestQuizCommitResetsPending(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	_, err := svc.SetQuestionText(id, "What is Go?")
	require.NoError(t, err)
	_, err = svc.AddOption(id, "a language")
	require.NoError(t, err)
	_, err = svc.AddOption(id, "a board game")
	require.NoError(t, err)
	_, err = svc.ToggleCorrect(id, 0)
	require.NoError(t, err)

	draft, err := svc.CommitQuestion(id)
	require.NoError(t, err)
	require.Len(t, draft.Questions, 1)
	assert.Empty(t, draft.Pending.Text)
	assert.Empty(t, draft.Pending.Options)
}

func TestQuizDiscardedSessionNotFound(t *testing.T) {
	svc := NewQuizService()
	id := startQuizSession(t, svc)

	svc.Discard(id)
	_, err := svc.Draft(id)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
