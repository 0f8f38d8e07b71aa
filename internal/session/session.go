package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/sals/internal/quiz"
	"github.com/abhisek/sals/internal/quizsvc"
)

// GenerateRequest asks the service for a quiz on Topic.
type GenerateRequest struct {
	Ticket uint64
	Topic  string
}

// SubmitRequest sends a completed answer sheet for analysis.
type SubmitRequest struct {
	Ticket  uint64
	QuizID  quiz.ID
	Answers []quiz.AnswerEntry
}

// Write is a single key-value store write.
type Write struct {
	Key   string
	Value string
}

// Effect describes the side effects a transition asks its owner to
// perform. At most one of Generate and Submit is set.
type Effect struct {
	Generate *GenerateRequest
	Submit   *SubmitRequest
	Writes   []Write
}

// Empty reports whether the effect requires no action.
func (e Effect) Empty() bool {
	return e.Generate == nil && e.Submit == nil && len(e.Writes) == 0
}

// Completion is the outcome of a network call issued for an Effect.
type Completion struct {
	Ticket   uint64
	Op       string // quizsvc.OpGenerate or quizsvc.OpSubmit
	Quiz     *quiz.QuizSet
	Analysis *quiz.AnalysisResult
	Err      error
}

// SetTopic edits the topic input.
func (s *Session) SetTopic(topic string) error {
	if s.Phase != PhaseIdle {
		return s.invalid("set topic")
	}
	s.Topic = topic
	return nil
}

// StartGeneration requests a quiz on topic. An empty topic is rejected
// without a request.
func (s *Session) StartGeneration(topic string) (Effect, error) {
	if s.Phase != PhaseIdle {
		return Effect{}, s.invalid("start generation")
	}

	s.Topic = topic
	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		err := &quiz.ValidationError{Field: "topic", Message: "topic is required"}
		s.setError(MsgTopicRequired, err)
		return Effect{}, err
	}

	s.clearError()
	s.Analysis = nil
	s.Score = nil
	s.Phase = PhaseLoading

	return Effect{Generate: &GenerateRequest{Ticket: s.nextTicket(), Topic: trimmed}}, nil
}

// SelectAnswer records option as the answer to question index.
func (s *Session) SelectAnswer(index int, option string) error {
	if s.Phase != PhaseInProgress {
		return s.invalid("select answer")
	}

	q, ok := s.Quiz.Question(index)
	if !ok {
		return &quiz.ValidationError{
			Field:   "question",
			Message: fmt.Sprintf("question %d out of range [0, %d)", index, s.Quiz.Len()),
		}
	}
	if !slices.Contains(q.Options, option) {
		return &quiz.ValidationError{
			Field:   "option",
			Message: fmt.Sprintf("%q is not an option of question %d", option, index),
		}
	}

	s.Answers[index] = option
	return nil
}

// Submit sends the answer sheet for analysis. Every question must be
// answered; otherwise nothing is sent.
func (s *Session) Submit() (Effect, error) {
	if s.Phase != PhaseInProgress {
		return Effect{}, s.invalid("submit")
	}

	if missing := s.Answers.Missing(s.Quiz); len(missing) > 0 || s.Quiz.Len() == 0 {
		err := &quiz.ValidationError{
			Field:   "answers",
			Message: fmt.Sprintf("%d of %d questions unanswered", len(missing), s.Quiz.Len()),
		}
		s.setError(fmt.Sprintf("Please answer all questions before submitting (%d left).", len(missing)), err)
		return Effect{}, err
	}

	entries := make([]quiz.AnswerEntry, 0, s.Quiz.Len())
	for i, q := range s.Quiz.Questions {
		entries = append(entries, quiz.AnswerEntry{
			QuestionIndex:  i,
			SelectedOption: s.Answers[i],
			Concept:        q.Concept,
		})
	}

	s.clearError()
	s.Phase = PhaseSubmitting

	return Effect{Submit: &SubmitRequest{
		Ticket:  s.nextTicket(),
		QuizID:  s.Quiz.ID,
		Answers: entries,
	}}, nil
}

// Reset discards the attempt and returns to Idle. Any in-flight request
// is abandoned; its completion will be ignored. The topic is kept.
func (s *Session) Reset() {
	s.Phase = PhaseIdle
	s.Quiz = nil
	s.Answers = quiz.AnswerMap{}
	s.Analysis = nil
	s.Score = nil
	s.inflight = 0
	s.clearError()
}

// Complete applies the outcome of a network call. It reports false and
// changes nothing when c does not belong to the request in flight.
func (s *Session) Complete(c Completion) (Effect, bool) {
	if c.Ticket == 0 || c.Ticket != s.inflight {
		return Effect{}, false
	}

	switch {
	case s.Phase == PhaseLoading && c.Op == quizsvc.OpGenerate:
		s.inflight = 0
		s.completeGeneration(c)
		return Effect{}, true

	case s.Phase == PhaseSubmitting && c.Op == quizsvc.OpSubmit:
		s.inflight = 0
		return s.completeSubmission(c), true
	}

	return Effect{}, false
}

func (s *Session) completeGeneration(c Completion) {
	err := c.Err
	if err == nil && c.Quiz.Len() == 0 {
		err = &quiz.ServiceError{Op: quizsvc.OpGenerate, Message: "malformed response", Err: quiz.ErrEmptyQuiz}
	}
	if err != nil {
		s.Phase = PhaseIdle
		s.Quiz = nil
		s.Answers = quiz.AnswerMap{}
		s.setError(MsgGenerateFailed, err)
		return
	}

	s.Quiz = c.Quiz
	s.Answers = quiz.AnswerMap{}
	s.Phase = PhaseInProgress
}

func (s *Session) completeSubmission(c Completion) Effect {
	err := c.Err
	if err == nil && c.Analysis == nil {
		err = &quiz.ServiceError{Op: quizsvc.OpSubmit, Message: "malformed response: no analysis"}
	}
	var score quiz.ScoreSummary
	if err == nil {
		score, err = quiz.Score(s.Quiz, s.Answers)
	}
	if err != nil {
		s.Phase = PhaseInProgress
		s.setError(MsgSubmitFailed, err)
		return Effect{}
	}

	s.Score = &score
	s.Analysis = c.Analysis
	s.Phase = PhaseAnalyzed

	return Effect{Writes: attemptWrites(c.Analysis, s.Answers)}
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var verr *quiz.ValidationError
	return errors.As(err, &verr)
}
