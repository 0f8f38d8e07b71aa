package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // id > After
	Before int64     // id < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Op     string    // exact op match ("" = any)
}

// ServiceRequestEventData captures a single quiz service call.
type ServiceRequestEventData struct {
	Op           string // "generate" or "submit"
	RequestID    string
	Subject      string // topic for generate, quiz id for submit
	Status       int    // HTTP status, 0 if no response
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// ServiceRequestEvent is a stored ServiceRequestEventData.
type ServiceRequestEvent struct {
	ID        int64
	Timestamp time.Time
	ServiceRequestEventData
}

// EventRepo provides append and query access to the service request log.
type EventRepo interface {
	// AppendServiceRequest records a quiz service call.
	AppendServiceRequest(ctx context.Context, data ServiceRequestEventData) error

	// QueryServiceEvents returns logged calls, newest first.
	QueryServiceEvents(ctx context.Context, opts QueryOpts) ([]ServiceRequestEvent, error)
}
