package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantState   State
		wantMessage string
	}{
		{
			name: "success with message field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"message": "All systems operational"}`)) //nolint:errcheck // Test handler
			},
			wantState:   StateOK,
			wantMessage: "All systems operational",
		},
		{
			name: "success without message field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status": "healthy"}`)) //nolint:errcheck // Test handler
			},
			wantState:   StateOK,
			wantMessage: MessageDefault,
		},
		{
			name: "success with empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantState:   StateOK,
			wantMessage: MessageDefault,
		},
		{
			name: "success with non-JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok")) //nolint:errcheck // Test handler
			},
			wantState:   StateOK,
			wantMessage: MessageDefault,
		},
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantState:   StateError,
			wantMessage: MessageNotResponding,
		},
		{
			name: "not found status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantState:   StateError,
			wantMessage: MessageNotResponding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := New(5 * time.Second)
			result := c.Check(context.Background(), Target{Name: "backend", URL: srv.URL})

			if result.State != tt.wantState {
				t.Errorf("State = %q, want %q", result.State, tt.wantState)
			}
			if result.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", result.Message, tt.wantMessage)
			}
			if result.Target != "backend" {
				t.Errorf("Target = %q, want %q", result.Target, "backend")
			}
			if result.CheckedAt.IsZero() {
				t.Error("CheckedAt is zero")
			}
		})
	}
}

func TestCheckStatusCodeRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(5 * time.Second)
	result := c.Check(context.Background(), Target{Name: "backend", URL: srv.URL})

	if result.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", result.StatusCode, http.StatusServiceUnavailable)
	}
	if result.Healthy() {
		t.Error("Healthy() = true for 503 response")
	}
}

func TestCheckUnreachable(t *testing.T) {
	// Closed server gives a connection refused error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(2 * time.Second)
	result := c.Check(context.Background(), Target{Name: "backend", URL: url})

	if result.State != StateUnreachable {
		t.Errorf("State = %q, want %q", result.State, StateUnreachable)
	}
	if result.Message != MessageUnreachable {
		t.Errorf("Message = %q, want %q", result.Message, MessageUnreachable)
	}
	if result.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", result.StatusCode)
	}
}

func TestCheckTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(100 * time.Millisecond)
	result := c.Check(context.Background(), Target{Name: "backend", URL: srv.URL})

	if result.State != StateUnreachable {
		t.Errorf("State = %q, want %q", result.State, StateUnreachable)
	}
	if result.Message != MessageUnreachable {
		t.Errorf("Message = %q, want %q", result.Message, MessageUnreachable)
	}
}

func TestCheckContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	c := New(10 * time.Second)
	result := c.Check(ctx, Target{Name: "backend", URL: srv.URL})

	if result.State != StateUnreachable {
		t.Errorf("State = %q, want %q", result.State, StateUnreachable)
	}
}
