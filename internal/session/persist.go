package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/sals/internal/kv"
	"github.com/abhisek/sals/internal/quiz"
)

// Keys written after a successful submission. Each is written on its own;
// readers must tolerate any subset being absent or stale.
const (
	KeyAttemptID    = "lastQuizAttemptId"
	KeyWeakConcepts = "weakConcepts"
	KeyAllConcepts  = "allConcepts"
	KeyAnswers      = "lastQuizAnswers"
)

// LastAttempt is the most recent attempt as recalled from the KV store.
type LastAttempt struct {
	AttemptID    string
	WeakConcepts []string
	AllConcepts  []string
	Answers      quiz.AnswerMap
}

// Empty reports whether nothing was recalled.
func (a LastAttempt) Empty() bool {
	return a.AttemptID == "" && a.WeakConcepts == nil && a.AllConcepts == nil && a.Answers == nil
}

func attemptWrites(a *quiz.AnalysisResult, answers quiz.AnswerMap) []Write {
	var writes []Write
	if a.AttemptID != "" {
		writes = append(writes, Write{Key: KeyAttemptID, Value: a.AttemptID})
	}
	writes = append(writes,
		Write{Key: KeyWeakConcepts, Value: encodeList(a.WeakConcepts)},
		Write{Key: KeyAllConcepts, Value: encodeList(a.AllConcepts)},
	)
	if raw, err := json.Marshal(answers); err == nil {
		writes = append(writes, Write{Key: KeyAnswers, Value: string(raw)})
	}
	return writes
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	raw, _ := json.Marshal(items)
	return string(raw)
}

// Persist performs writes against store. Every write is attempted; the
// failures are joined and returned for logging only.
func Persist(ctx context.Context, store kv.Store, writes []Write) error {
	if store == nil {
		return nil
	}
	var errs []error
	for _, w := range writes {
		if err := store.Set(ctx, w.Key, w.Value); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", w.Key, err))
		}
	}
	return errors.Join(errs...)
}

// LoadLastAttempt recalls the last attempt. Absent or malformed keys leave
// their field zero. Read failures are joined and returned alongside
// whatever could be read.
func LoadLastAttempt(ctx context.Context, store kv.Store) (LastAttempt, error) {
	var (
		last LastAttempt
		errs []error
	)

	get := func(key string) (string, bool) {
		v, ok, err := store.Get(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("get %s: %w", key, err))
			return "", false
		}
		return v, ok
	}

	if v, ok := get(KeyAttemptID); ok {
		last.AttemptID = v
	}
	if v, ok := get(KeyWeakConcepts); ok {
		last.WeakConcepts = decodeList(v)
	}
	if v, ok := get(KeyAllConcepts); ok {
		last.AllConcepts = decodeList(v)
	}
	if v, ok := get(KeyAnswers); ok {
		var answers quiz.AnswerMap
		if err := json.Unmarshal([]byte(v), &answers); err == nil && answers != nil {
			last.Answers = answers
		}
	}

	return last, errors.Join(errs...)
}

func decodeList(v string) []string {
	var items []string
	if err := json.Unmarshal([]byte(v), &items); err != nil || items == nil {
		return nil
	}
	return items
}
