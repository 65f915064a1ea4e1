package attempt

import (
	"time"

	"github.com/hobbyfarm/quizfarm/internal/quizsvc/question"
)

type PreparedAttempt struct {
	AttemptId        string                      `json:"attempt_id"`
	StartedAt        time.Time                   `json:"started_at"`
	TimeLimitSeconds int                         `json:"time_limit_seconds"`
	RemainingSeconds int                         `json:"remaining_seconds"`
	Questions        []question.PreparedQuestion `json:"questions"`
	Flashes          []string                    `json:"flashes"`
}

// PreparedSubmission is the JSON form of a quiz submission. Keys are question ids.
type PreparedSubmission struct {
	Answers map[uint]string `json:"answers"`
	Timeout bool            `json:"timeout"`
}
