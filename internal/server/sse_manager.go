package server

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// SSEClient represents a connected SSE client
type SSEClient struct {
	Messages chan string
	Close    chan bool
}

// NewSSEClient creates a client with a buffered message channel
func NewSSEClient() *SSEClient {
	return &SSEClient{
		Messages: make(chan string, 16),
		Close:    make(chan bool, 1),
	}
}

// SSEManager manages Server-Sent Event connections. There is a single
// stream: every client receives every event.
type SSEManager struct {
	clients map[*SSEClient]bool
	mu      sync.RWMutex
}

// NewSSEManager creates a new SSE manager
func NewSSEManager() *SSEManager {
	return &SSEManager{
		clients: make(map[*SSEClient]bool),
	}
}

// RegisterClient adds a new SSE client
func (m *SSEManager) RegisterClient(client *SSEClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client] = true
}

// UnregisterClient removes an SSE client
func (m *SSEManager) UnregisterClient(client *SSEClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, client)
}

// ClientCount returns the number of connected clients
func (m *SSEManager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Broadcast sends an event to all connected clients
func (m *SSEManager) Broadcast(eventType string, messageData interface{}) {
	m.mu.RLock()
	clients := make([]*SSEClient, 0, len(m.clients))
	for client := range m.clients {
		clients = append(clients, client)
	}
	m.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	jsonData, err := json.Marshal(messageData)
	if err != nil {
		log.Printf("Failed to marshal SSE message: %v", err)
		return
	}

	sseMessage := fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, string(jsonData))

	var clientsToRemove []*SSEClient
	for _, client := range clients {
		select {
		case client.Messages <- sseMessage:
			// Message sent successfully
		case <-time.After(500 * time.Millisecond):
			// Client is not receiving, likely disconnected
			clientsToRemove = append(clientsToRemove, client)
		}
	}

	if len(clientsToRemove) > 0 {
		m.mu.Lock()
		for _, client := range clientsToRemove {
			delete(m.clients, client)
			select {
			case client.Close <- true:
			default:
			}
		}
		m.mu.Unlock()
		log.Printf("Cleaned up %d unresponsive SSE clients", len(clientsToRemove))
	}
}

// SendHeartbeat sends a heartbeat to keep connections alive
func (m *SSEManager) SendHeartbeat() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	heartbeat := "event: heartbeat\ndata: ping\n\n"
	for client := range m.clients {
		select {
		case client.Messages <- heartbeat:
			// Heartbeat sent
		default:
			// Client buffer is full, skip
		}
	}
}

// CloseAll disconnects every client, used during server shutdown
func (m *SSEManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for client := range m.clients {
		select {
		case client.Close <- true:
		default:
		}
		delete(m.clients, client)
	}
}
