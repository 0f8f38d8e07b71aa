package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/quiz"
	"github.com/abhisek/sals/internal/quizsvc"
)

func TestRunner_HappyPath(t *testing.T) {
	ctx := context.Background()
	svc := quizsvc.NewMockClient(
		quizsvc.MockResult{Quiz: recursionQuiz()},
		quizsvc.MockResult{Analysis: &quiz.AnalysisResult{
			WeakConcepts: []string{"call stack"},
			AllConcepts:  []string{"base case", "recurrence", "call stack"},
			AttemptID:    "17",
		}},
	)
	store := kv.NewMemory()
	r := NewRunner(svc, store)

	require.NoError(t, r.Generate(ctx, "recursion"))
	require.Equal(t, PhaseInProgress, r.Session.Phase)

	require.NoError(t, r.Select(0, "A. Base case"))
	require.NoError(t, r.Select(1, "C. n"))
	require.NoError(t, r.Select(2, "A. Heap"))
	require.NoError(t, r.Submit(ctx))

	s := r.Session
	assert.Equal(t, PhaseAnalyzed, s.Phase)
	assert.Equal(t, 1, s.Score.Correct)
	assert.InDelta(t, 33.333, s.Score.Percent, 0.01)

	require.Equal(t, 2, svc.CallCount())
	assert.Equal(t, "recursion", svc.Calls[0].Topic)
	assert.Equal(t, "42", svc.Calls[1].QuizID.String())
	assert.Equal(t, "recurrence", svc.Calls[1].Answers[1].Concept)

	last, err := LoadLastAttempt(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "17", last.AttemptID)
	assert.Equal(t, []string{"call stack"}, last.WeakConcepts)
	assert.Equal(t, "C. n", last.Answers[1])
}

func TestRunner_GenerationFailure(t *testing.T) {
	svc := quizsvc.NewMockClient(quizsvc.MockResult{Err: &quiz.ServiceError{Op: quizsvc.OpGenerate, Message: "quiz service unavailable"}})
	r := NewRunner(svc, nil)

	require.NoError(t, r.Generate(context.Background(), "recursion"))
	assert.Equal(t, PhaseIdle, r.Session.Phase)
	assert.Equal(t, "recursion", r.Session.Topic)
	assert.Equal(t, MsgGenerateFailed, r.Session.Err)
	assert.Nil(t, r.Session.Quiz)
}

func TestRunner_IncompleteSubmitSendsNothing(t *testing.T) {
	svc := quizsvc.NewMockClient(quizsvc.MockResult{Quiz: recursionQuiz()})
	r := NewRunner(svc, kv.NewMemory())

	require.NoError(t, r.Generate(context.Background(), "recursion"))
	require.NoError(t, r.Select(0, "A. Base case"))

	err := r.Submit(context.Background())
	assert.True(t, IsValidation(err))
	assert.Equal(t, 1, svc.CallCount(), "no submission request expected")
}

func TestRunner_SubmitFailureThenRetry(t *testing.T) {
	ctx := context.Background()
	svc := quizsvc.NewMockClient(
		quizsvc.MockResult{Quiz: recursionQuiz()},
		quizsvc.MockResult{Err: &quiz.ServiceError{Op: quizsvc.OpSubmit, Status: 502, Message: "bad gateway"}},
		quizsvc.MockResult{Analysis: &quiz.AnalysisResult{AllConcepts: []string{"base case"}}},
	)
	store := kv.NewMemory()
	r := NewRunner(svc, store)

	require.NoError(t, r.Generate(ctx, "recursion"))
	for i, opt := range []string{"A. Base case", "B. n-1", "B. Call stack"} {
		require.NoError(t, r.Select(i, opt))
	}

	require.NoError(t, r.Submit(ctx))
	assert.Equal(t, PhaseInProgress, r.Session.Phase)
	assert.Equal(t, MsgSubmitFailed, r.Session.Err)
	assert.Equal(t, 0, store.Len(), "nothing persisted on failure")

	require.NoError(t, r.Submit(ctx))
	assert.Equal(t, PhaseAnalyzed, r.Session.Phase)
	assert.Equal(t, float64(100), r.Session.Score.Percent)

	r.Reset()
	assert.Equal(t, PhaseIdle, r.Session.Phase)
}

func TestDispatch_NoCall(t *testing.T) {
	_, ok := Dispatch(context.Background(), quizsvc.NewMockClient(), Effect{Writes: []Write{{Key: "k"}}})
	assert.False(t, ok)
}
