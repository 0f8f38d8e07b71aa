package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/sals/internal/quiz"
)

// ErrInvalidTransition is returned when an operation is not allowed in the
// current phase. The session is left untouched.
var ErrInvalidTransition = errors.New("invalid transition")

// Phase represents the current phase of the quiz session.
type Phase int

const (
	PhaseIdle       Phase = iota // Topic input editable, no quiz loaded
	PhaseLoading                 // Generation request in flight
	PhaseInProgress              // Quiz loaded, collecting answers
	PhaseSubmitting              // Analysis request in flight
	PhaseAnalyzed                // Results shown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in-progress"
	case PhaseSubmitting:
		return "submitting"
	case PhaseAnalyzed:
		return "analyzed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// User-visible failure messages.
const (
	MsgGenerateFailed = "Failed to generate quiz. Please try again."
	MsgSubmitFailed   = "Failed to submit quiz. Please try again."
	MsgTopicRequired  = "Please enter a topic."
)

// Session tracks the state of one quiz lifecycle. It is not safe for
// concurrent use; its owner serializes all calls.
type Session struct {
	// ID identifies the session in logs.
	ID string

	// Topic is the text of the topic input. Kept across failures and resets.
	Topic string

	// Phase is the current phase.
	Phase Phase

	// Quiz is the loaded quiz (nil in Idle and Loading).
	Quiz *quiz.QuizSet

	// Answers maps question index to the full selected option.
	Answers quiz.AnswerMap

	// Analysis is the service's verdict (set only in Analyzed).
	Analysis *quiz.AnalysisResult

	// Score is computed locally on successful submission.
	Score *quiz.ScoreSummary

	// Err is the user-visible error message, empty when there is none.
	Err string

	// Cause is the error behind Err, for diagnostics.
	Cause error

	lastTicket uint64
	inflight   uint64
}

// New creates a session in the Idle phase.
func New() *Session {
	return &Session{
		ID:      uuid.NewString(),
		Phase:   PhaseIdle,
		Answers: quiz.AnswerMap{},
	}
}

// Busy reports whether a network request is in flight.
func (s *Session) Busy() bool {
	return s.Phase == PhaseLoading || s.Phase == PhaseSubmitting
}

// CanSubmit reports whether Submit would issue a request.
func (s *Session) CanSubmit() bool {
	return s.Phase == PhaseInProgress && s.Answers.Complete(s.Quiz)
}

// Review returns the per-question analysis rows. Nil before analysis.
func (s *Session) Review() []quiz.ReviewItem {
	if s.Phase != PhaseAnalyzed {
		return nil
	}
	return quiz.Review(s.Quiz, s.Answers)
}

// Feedback returns the score banding message. Empty before analysis.
func (s *Session) Feedback() string {
	if s.Score == nil {
		return ""
	}
	return quiz.Feedback(s.Score.Percent)
}

// Pending returns the ticket of the in-flight request, 0 if none.
func (s *Session) Pending() uint64 {
	return s.inflight
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%s in phase %s: %w", op, s.Phase, ErrInvalidTransition)
}

func (s *Session) nextTicket() uint64 {
	s.lastTicket++
	s.inflight = s.lastTicket
	return s.inflight
}

func (s *Session) setError(msg string, cause error) {
	s.Err = msg
	s.Cause = cause
}

func (s *Session) clearError() {
	s.Err = ""
	s.Cause = nil
}
