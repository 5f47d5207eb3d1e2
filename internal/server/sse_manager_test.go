package server

import (
	"strings"
	"testing"

	"github.com/tiarrablandin/grimoire-status/internal/checker"
)

func TestSSEBroadcast(t *testing.T) {
	m := NewSSEManager()
	client := NewSSEClient()
	m.RegisterClient(client)

	if m.ClientCount() != 1 {
		t.Fatalf("Expected 1 client, got %d", m.ClientCount())
	}

	m.Broadcast("check", checker.Result{Target: "backend", State: checker.StateOK, Message: checker.MessageDefault})

	select {
	case msg := <-client.Messages:
		if !strings.HasPrefix(msg, "event: check\n") {
			t.Errorf("Unexpected event type in %q", msg)
		}
		if !strings.Contains(msg, `"target":"backend"`) {
			t.Errorf("Expected target in payload, got %q", msg)
		}
	default:
		t.Fatal("Expected a broadcast message")
	}
}

func TestSSEUnregister(t *testing.T) {
	m := NewSSEManager()
	client := NewSSEClient()
	m.RegisterClient(client)
	m.UnregisterClient(client)

	if m.ClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", m.ClientCount())
	}
}

func TestSSECloseAll(t *testing.T) {
	m := NewSSEManager()
	client := NewSSEClient()
	m.RegisterClient(client)

	m.CloseAll()

	if m.ClientCount() != 0 {
		t.Errorf("Expected 0 clients after CloseAll, got %d", m.ClientCount())
	}
	select {
	case <-client.Close:
	default:
		t.Error("Expected close signal")
	}
}
