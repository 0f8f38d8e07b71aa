package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/quiz"
	"github.com/abhisek/sals/internal/quizsvc"
	"github.com/abhisek/sals/internal/session"
)

func testQuiz() *quiz.QuizSet {
	return &quiz.QuizSet{
		ID: quiz.ID{Value: "12"},
		Questions: []quiz.Question{
			{Index: 0, Text: "What stops recursion?", Concept: "base case", Options: []string{"A. Base case", "B. Loop"}, Answer: "A"},
			{Index: 1, Text: "Factorial step?", Concept: "recurrence", Difficulty: "medium", Options: []string{"A. 1", "B. n-1", "C. n"}, Answer: "B"},
		},
	}
}

func TestRun_FullQuiz(t *testing.T) {
	svc := quizsvc.NewMockClient(
		quizsvc.MockResult{Quiz: testQuiz()},
		quizsvc.MockResult{Analysis: &quiz.AnalysisResult{
			WeakConcepts: []string{"recurrence"},
			AllConcepts:  []string{"base case", "recurrence"},
			AttemptID:    "5",
		}},
	)
	store := kv.NewMemory()
	r := session.NewRunner(svc, store)

	var out bytes.Buffer
	err := Run(context.Background(), r, "", strings.NewReader("recursion\na\nz\nc\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, session.PhaseAnalyzed, r.Session.Phase)
	assert.Equal(t, "A. Base case", r.Session.Answers[0])
	assert.Equal(t, "C. n", r.Session.Answers[1])

	text := out.String()
	assert.Contains(t, text, "Q1: What stops recursion?")
	assert.Contains(t, text, "Invalid input. Please enter a letter A-C")
	assert.Contains(t, text, "Score: 50.0% (1/2)")
	assert.Contains(t, text, "  - recurrence")
	assert.Contains(t, text, "Correct answer: B. n-1")
	assert.Contains(t, text, "Concept: recurrence  Difficulty: medium")

	last, err := session.LoadLastAttempt(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "5", last.AttemptID)

	calls := svc.Calls
	require.Len(t, calls, 2)
	assert.Equal(t, "recursion", calls[0].Topic)
}

func TestRun_GenerationFailure(t *testing.T) {
	svc := quizsvc.NewMockClient(quizsvc.MockResult{Err: &quiz.ServiceError{Op: quizsvc.OpGenerate, Message: "boom"}})
	r := session.NewRunner(svc, nil)

	var out bytes.Buffer
	err := Run(context.Background(), r, "graphs", strings.NewReader(""), &out)
	require.Error(t, err)
	assert.Equal(t, session.MsgGenerateFailed, err.Error())
}

func TestRun_EmptyTopic(t *testing.T) {
	svc := quizsvc.NewMockClient()
	r := session.NewRunner(svc, nil)

	err := Run(context.Background(), r, "", strings.NewReader("   \n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, session.MsgTopicRequired, err.Error())
	assert.Equal(t, 0, svc.CallCount())
}

func TestRun_InputEndsBeforeAllAnswered(t *testing.T) {
	svc := quizsvc.NewMockClient(quizsvc.MockResult{Quiz: testQuiz()})
	r := session.NewRunner(svc, nil)

	err := Run(context.Background(), r, "recursion", strings.NewReader("a\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAnswer))
	assert.Equal(t, 1, svc.CallCount())
}

func TestRun_SubmitFailure(t *testing.T) {
	svc := quizsvc.NewMockClient(
		quizsvc.MockResult{Quiz: testQuiz()},
		quizsvc.MockResult{Err: &quiz.ServiceError{Op: quizsvc.OpSubmit, Status: 500, Message: "down"}},
	)
	r := session.NewRunner(svc, nil)

	err := Run(context.Background(), r, "recursion", strings.NewReader("a\nb\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, session.MsgSubmitFailed, err.Error())
	assert.Equal(t, session.PhaseInProgress, r.Session.Phase)
}
