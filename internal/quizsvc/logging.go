package quizsvc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/sals/internal/quiz"
	"github.com/abhisek/sals/internal/store"
)

// LoggingService is a decorator that records every service call as an event.
type LoggingService struct {
	inner     Service
	eventRepo store.EventRepo
}

// WithLogging wraps a Service with event logging.
func WithLogging(svc Service, repo store.EventRepo) Service {
	return &LoggingService{inner: svc, eventRepo: repo}
}

func (l *LoggingService) GenerateQuiz(ctx context.Context, topic string) (*quiz.QuizSet, error) {
	c := &call{RequestID: uuid.NewString()}
	start := time.Now()

	set, err := l.inner.GenerateQuiz(withCall(ctx, c), topic)

	l.record(ctx, OpGenerate, topic, c, start, err)
	return set, err
}

func (l *LoggingService) SubmitQuiz(ctx context.Context, quizID quiz.ID, answers []quiz.AnswerEntry) (*quiz.AnalysisResult, error) {
	c := &call{RequestID: uuid.NewString()}
	start := time.Now()

	result, err := l.inner.SubmitQuiz(withCall(ctx, c), quizID, answers)

	l.record(ctx, OpSubmit, quizID.String(), c, start, err)
	return result, err
}

func (l *LoggingService) record(ctx context.Context, op, subject string, c *call, start time.Time, err error) {
	data := store.ServiceRequestEventData{
		Op:        op,
		RequestID: c.RequestID,
		Subject:   subject,
		Status:    c.Status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		var svcErr *quiz.ServiceError
		if errors.As(err, &svcErr) && svcErr.Status != 0 {
			data.Status = svcErr.Status
		}
	}

	// A cancelled caller still gets its call logged.
	if logErr := l.eventRepo.AppendServiceRequest(context.WithoutCancel(ctx), data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log service request event: %v\n", logErr)
	}
}
