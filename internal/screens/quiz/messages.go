package quiz

import (
	"time"

	"github.com/abhisek/sals/internal/session"
)

// completionMsg carries the outcome of a quiz service call.
type completionMsg struct {
	Completion session.Completion
}

// persistedMsg is sent when the last-attempt writes finish.
type persistedMsg struct {
	Err error
}

// spinnerTickMsg animates the loading spinner while the request with
// Ticket is in flight.
type spinnerTickMsg struct {
	Ticket uint64
	At     time.Time
}

// resetMsg asks the screen to start over with a new quiz.
type resetMsg struct{}
