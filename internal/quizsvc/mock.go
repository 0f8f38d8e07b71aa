package quizsvc

import (
	"context"
	"sync"

	"github.com/abhisek/sals/internal/quiz"
)

// MockResult is a canned result for the MockClient. Exactly one of the
// value fields or Err is expected to be set.
type MockResult struct {
	Quiz     *quiz.QuizSet
	Analysis *quiz.AnalysisResult
	Err      error
}

// MockCall records one call made to the MockClient.
type MockCall struct {
	Op      string
	Topic   string
	QuizID  quiz.ID
	Answers []quiz.AnswerEntry
}

// MockClient is a deterministic Service for testing.
// It returns canned results in FIFO order and records all calls.
type MockClient struct {
	mu      sync.Mutex
	results []MockResult
	Calls   []MockCall
}

var _ Service = (*MockClient)(nil)

// NewMockClient creates a MockClient with the given canned results.
func NewMockClient(results ...MockResult) *MockClient {
	return &MockClient{results: results}
}

// GenerateQuiz returns the next canned result or a ServiceError if the
// queue is empty.
func (m *MockClient) GenerateQuiz(_ context.Context, topic string) (*quiz.QuizSet, error) {
	res := m.next(MockCall{Op: OpGenerate, Topic: topic})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Quiz == nil {
		return nil, &quiz.ServiceError{Op: OpGenerate, Message: "mock: no quiz queued"}
	}
	return res.Quiz, nil
}

// SubmitQuiz returns the next canned result or a ServiceError if the
// queue is empty.
func (m *MockClient) SubmitQuiz(_ context.Context, quizID quiz.ID, answers []quiz.AnswerEntry) (*quiz.AnalysisResult, error) {
	res := m.next(MockCall{Op: OpSubmit, QuizID: quizID, Answers: answers})
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Analysis == nil {
		return nil, &quiz.ServiceError{Op: OpSubmit, Message: "mock: no analysis queued"}
	}
	return res.Analysis, nil
}

func (m *MockClient) next(c MockCall) MockResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, c)
	if len(m.results) == 0 {
		return MockResult{}
	}
	res := m.results[0]
	m.results = m.results[1:]
	return res
}

// AddResult appends a canned result to the queue.
func (m *MockClient) AddResult(res MockResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
}

// CallCount returns the number of calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
