package session

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/quizsvc"
)

// Dispatch performs the network call named by eff and returns its
// completion. It returns false when eff names no call.
func Dispatch(ctx context.Context, svc quizsvc.Service, eff Effect) (Completion, bool) {
	switch {
	case eff.Generate != nil:
		set, err := svc.GenerateQuiz(ctx, eff.Generate.Topic)
		return Completion{Ticket: eff.Generate.Ticket, Op: quizsvc.OpGenerate, Quiz: set, Err: err}, true
	case eff.Submit != nil:
		result, err := svc.SubmitQuiz(ctx, eff.Submit.QuizID, eff.Submit.Answers)
		return Completion{Ticket: eff.Submit.Ticket, Op: quizsvc.OpSubmit, Analysis: result, Err: err}, true
	}
	return Completion{}, false
}

// Runner drives a Session synchronously against a service and a KV store.
type Runner struct {
	Session *Session
	svc     quizsvc.Service
	store   kv.Store
}

// NewRunner creates a Runner with a fresh Session. store may be nil.
func NewRunner(svc quizsvc.Service, store kv.Store) *Runner {
	return &Runner{Session: New(), svc: svc, store: store}
}

// Generate starts generation on topic and waits for the result.
// The returned error is the validation or transition error, if any;
// service failures are reported through Session.Err.
func (r *Runner) Generate(ctx context.Context, topic string) error {
	eff, err := r.Session.StartGeneration(topic)
	if err != nil {
		return err
	}
	r.apply(ctx, eff)
	return nil
}

// Select records an answer.
func (r *Runner) Select(index int, option string) error {
	return r.Session.SelectAnswer(index, option)
}

// Submit submits the answers and waits for the analysis.
func (r *Runner) Submit(ctx context.Context) error {
	eff, err := r.Session.Submit()
	if err != nil {
		return err
	}
	r.apply(ctx, eff)
	return nil
}

// Reset resets the session.
func (r *Runner) Reset() {
	r.Session.Reset()
}

func (r *Runner) apply(ctx context.Context, eff Effect) {
	for {
		if len(eff.Writes) > 0 {
			if err := Persist(ctx, r.store, eff.Writes); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to save last attempt: %v\n", err)
			}
		}
		c, ok := Dispatch(ctx, r.svc, eff)
		if !ok {
			return
		}
		eff, _ = r.Session.Complete(c)
	}
}
