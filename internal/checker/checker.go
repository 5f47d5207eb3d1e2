// Package checker performs health checks against the configured backend.
package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tiarrablandin/grimoire-status/internal/telemetry"
)

// healthPayload is the JSON body a healthy backend is expected to return.
// The message field is optional.
type healthPayload struct {
	Message string `json:"message"`
}

// Checker issues health check requests. A check is exactly one request:
// no retries, no backoff, no caching of responses.
type Checker struct {
	client  *http.Client
	timeout time.Duration
}

// New creates a Checker whose requests are bounded by timeout.
func New(timeout time.Duration) *Checker {
	return &Checker{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				// Allow up to 5 redirects
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		timeout: timeout,
	}
}

// Check probes the target once and maps the outcome to a Result.
// Any transport-level failure yields StateUnreachable; a response with a
// non-success status yields StateError. Both use fixed messages.
func (c *Checker) Check(ctx context.Context, target Target) Result {
	ctx, span := telemetry.StartSpan(ctx, "checker.Check")
	defer span.End()
	span.SetAttributes(
		attribute.String("check.target", target.Name),
		attribute.String("check.url", target.URL),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := Result{
		Target:    target.Name,
		CheckedAt: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		result.State = StateUnreachable
		result.Message = MessageUnreachable
		return result
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	result.Latency = time.Since(start)
	result.LatencyMS = result.Latency.Milliseconds()
	if err != nil {
		result.State = StateUnreachable
		result.Message = MessageUnreachable
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	span.SetAttributes(attribute.Int("check.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.State = StateError
		result.Message = MessageNotResponding
		return result
	}

	result.State = StateOK
	result.Message = MessageDefault

	// The body is optional; a missing or malformed message falls back to
	// the default success message.
	var payload healthPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
		result.Message = payload.Message
	}

	return result
}
