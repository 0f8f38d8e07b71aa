package quizsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/sals/internal/quiz"
)

const (
	generatePath = "/api/generate-quiz/"
	analyzePath  = "/api/analyze-quiz/"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20

	OpGenerate = "generate"
	OpSubmit   = "submit"
)

// Service is the quiz generation/analysis service.
type Service interface {
	// GenerateQuiz requests a new quiz on topic.
	GenerateQuiz(ctx context.Context, topic string) (*quiz.QuizSet, error)

	// SubmitQuiz sends the answers of quizID for analysis.
	SubmitQuiz(ctx context.Context, quizID quiz.ID, answers []quiz.AnswerEntry) (*quiz.AnalysisResult, error)
}

// HTTPClient talks to the quiz service over its JSON HTTP API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = (*HTTPClient)(nil)

type questionPayload struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Concept    string   `json:"concept"`
	Difficulty string   `json:"difficulty"`
}

type generateResponse struct {
	QuizID quiz.ID           `json:"quiz_id"`
	Quiz   []questionPayload `json:"quiz"`
}

type userAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Concept    string `json:"concept"`
}

type analyzeRequest struct {
	QuizID      quiz.ID      `json:"quiz_id"`
	UserAnswers []userAnswer `json:"user_answers"`
}

type analyzeResponse struct {
	WeakConcepts  []string `json:"weak_concepts"`
	AllConcepts   []string `json:"all_concepts"`
	QuizAttemptID quiz.ID  `json:"quiz_attempt_id"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// NewHTTPClient creates a client for cfg.BaseURL. A nil httpClient gets
// one with cfg.Timeout.
func NewHTTPClient(cfg Config, httpClient *http.Client) *HTTPClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultConfig().BaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPClient{baseURL: baseURL, httpClient: httpClient}
}

func (c *HTTPClient) GenerateQuiz(ctx context.Context, topic string) (*quiz.QuizSet, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &quiz.ValidationError{Field: "topic", Message: "topic is required"}
	}

	query := url.Values{}
	query.Set("topic", topic)

	var payload generateResponse
	if err := c.doJSON(ctx, OpGenerate, http.MethodGet, generatePath+"?"+query.Encode(), nil, GenerateResponseSchema, &payload); err != nil {
		return nil, err
	}

	set := &quiz.QuizSet{
		ID:        payload.QuizID,
		Questions: make([]quiz.Question, 0, len(payload.Quiz)),
	}
	for i, q := range payload.Quiz {
		set.Questions = append(set.Questions, quiz.Question{
			Index:      i,
			Text:       q.Question,
			Concept:    q.Concept,
			Difficulty: q.Difficulty,
			Options:    q.Options,
			Answer:     q.Answer,
		})
	}
	if set.ID.IsZero() {
		return nil, &quiz.ServiceError{Op: OpGenerate, Message: "malformed response: empty quiz id"}
	}
	if set.Len() == 0 {
		return nil, &quiz.ServiceError{Op: OpGenerate, Message: "malformed response", Err: quiz.ErrEmptyQuiz}
	}
	return set, nil
}

func (c *HTTPClient) SubmitQuiz(ctx context.Context, quizID quiz.ID, answers []quiz.AnswerEntry) (*quiz.AnalysisResult, error) {
	if quizID.IsZero() {
		return nil, &quiz.ValidationError{Field: "quiz_id", Message: "quiz id is required"}
	}

	req := analyzeRequest{
		QuizID:      quizID,
		UserAnswers: make([]userAnswer, 0, len(answers)),
	}
	for _, a := range answers {
		req.UserAnswers = append(req.UserAnswers, userAnswer{
			QuestionID: strconv.Itoa(a.QuestionIndex),
			Answer:     a.SelectedOption,
			Concept:    a.Concept,
		})
	}

	var payload analyzeResponse
	if err := c.doJSON(ctx, OpSubmit, http.MethodPost, analyzePath, req, AnalyzeResponseSchema, &payload); err != nil {
		return nil, err
	}

	return &quiz.AnalysisResult{
		WeakConcepts: nonNil(payload.WeakConcepts),
		AllConcepts:  nonNil(payload.AllConcepts),
		AttemptID:    payload.QuizAttemptID.String(),
	}, nil
}

// doJSON performs one request and decodes a schema-checked JSON response
// into responseBody. Every failure is returned as *quiz.ServiceError.
func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, requestBody any, schema *Schema, responseBody any) error {
	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return &quiz.ServiceError{Op: op, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &quiz.ServiceError{Op: op, Message: "build request", Err: err}
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	tr := callFrom(ctx)
	if tr != nil && tr.RequestID != "" {
		requestID = tr.RequestID
	}
	request.Header.Set("X-Request-ID", requestID)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return &quiz.ServiceError{Op: op, Message: "quiz service unavailable", Err: err}
	}
	defer response.Body.Close()

	if tr != nil {
		tr.Status = response.StatusCode
	}

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return &quiz.ServiceError{Op: op, Status: response.StatusCode, Message: "read response", Err: err}
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return &quiz.ServiceError{
			Op:      op,
			Status:  response.StatusCode,
			Message: errorMessage(raw, response.Status),
		}
	}

	if err := schema.Validate(raw); err != nil {
		return &quiz.ServiceError{Op: op, Status: response.StatusCode, Message: "malformed response", Err: err}
	}
	if err := json.Unmarshal(raw, responseBody); err != nil {
		return &quiz.ServiceError{Op: op, Status: response.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

// errorMessage extracts {"error"} or {"detail"} from an error body.
func errorMessage(raw []byte, status string) string {
	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Detail); msg != "" {
			return msg
		}
	}
	return "request failed: " + status
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
