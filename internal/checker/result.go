package checker

import "time"

// State represents the health state derived from a single check.
type State string

const (
	// StateOK means the backend answered with a success status.
	StateOK State = "ok"
	// StateError means the backend answered with a non-success status.
	StateError State = "error"
	// StateUnreachable means the request never produced a response.
	StateUnreachable State = "unreachable"
)

// User-facing status messages. The success message is only used when the
// backend's health payload carries no message of its own.
const (
	MessageDefault       = "Backend is up and running!"
	MessageNotResponding = "Backend is not responding"
	MessageUnreachable   = "Unable to connect to backend"
)

// Target identifies an endpoint to probe.
type Target struct {
	Name string
	URL  string
}

// Result is the outcome of a single health check.
type Result struct {
	Target     string        `json:"target"`
	State      State         `json:"state"`
	Message    string        `json:"message"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"-"`
	LatencyMS  int64         `json:"latency_ms"`
	CheckedAt  time.Time     `json:"checked_at"`
}

// Healthy reports whether the check succeeded.
func (r Result) Healthy() bool {
	return r.State == StateOK
}
