package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/tiarrablandin/grimoire-status/internal/checker"
	"github.com/tiarrablandin/grimoire-status/internal/database"
	"github.com/tiarrablandin/grimoire-status/internal/telemetry"
)

// runCheck probes a target under the generation guard, records the outcome
// and pushes it to SSE clients when it was applied.
func (s *Server) runCheck(ctx context.Context, target checker.Target) checker.Result {
	ctx, span := telemetry.StartSpan(ctx, "server.runCheck")
	defer span.End()

	res, applied := s.tracker.Run(ctx, target, s.checker.Check)

	if _, err := database.StoreCheckLog(res.Target, string(res.State), res.Message, res.StatusCode, res.LatencyMS, res.CheckedAt); err != nil {
		log.Printf("Failed to store check log for %s: %v", res.Target, err)
	}

	if applied {
		s.sse.Broadcast("check", res)
	}

	return res
}

// findTarget resolves a target name to a probe target. The empty name and
// "backend" both mean the primary backend.
func (s *Server) findTarget(name string) (checker.Target, bool) {
	if name == "" || name == "backend" {
		return s.primaryTarget(), true
	}
	for _, t := range s.extraTargets {
		if t.Name == name {
			return t, true
		}
	}
	return checker.Target{}, false
}

// handleCheck handles POST /api/check: the status card's re-check button.
// Overlapping triggers are safe; a stale response never overwrites a newer
// one, though every trigger still costs one outbound request.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target, ok := s.findTarget(r.URL.Query().Get("target"))
	if !ok {
		http.Error(w, "Unknown target", http.StatusNotFound)
		return
	}

	res := s.runCheck(r.Context(), target)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("target")
	if name == "" {
		name = "backend"
	}

	snap, ok := s.tracker.Latest(name)
	if !ok && !snap.Loading {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "No data available"}) //nolint:errcheck // Best-effort response
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// CheckLogResponse is the JSON shape of one historical check entry
type CheckLogResponse struct {
	Target     string    `json:"target"`
	State      string    `json:"state"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	LatencyMS  int64     `json:"latency_ms"`
	CheckedAt  time.Time `json:"checked_at"`
}

// handleHistory handles GET /api/status/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	name := query.Get("target")
	if name == "" {
		name = "backend"
	}

	// Default to last 24 hours
	endTime := time.Now()
	startTime := endTime.Add(-24 * time.Hour)

	if rangeStr := query.Get("range"); rangeStr != "" {
		switch rangeStr {
		case "1h":
			startTime = endTime.Add(-1 * time.Hour)
		case "6h":
			startTime = endTime.Add(-6 * time.Hour)
		case "12h":
			startTime = endTime.Add(-12 * time.Hour)
		case "24h":
			startTime = endTime.Add(-24 * time.Hour)
		case "7d":
			startTime = endTime.Add(-7 * 24 * time.Hour)
		default:
			http.Error(w, "Invalid range", http.StatusBadRequest)
			return
		}
	}

	logs, err := database.GetCheckLogsForTimeRange(name, startTime, endTime)
	if err != nil {
		log.Printf("Failed to get check logs: %v", err)
		http.Error(w, "Failed to get check history", http.StatusInternalServerError)
		return
	}

	response := make([]CheckLogResponse, 0, len(logs))
	for _, entry := range logs {
		response = append(response, CheckLogResponse{
			Target:     entry.Target,
			State:      entry.State,
			Message:    entry.Message,
			StatusCode: entry.StatusCode,
			LatencyMS:  entry.LatencyMS,
			CheckedAt:  entry.CheckedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// handleTargets handles GET /api/targets
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.tracker.All()); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// handleVitals handles GET /api/vitals
func (s *Server) handleVitals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	latest, err := database.GetLatestVitalLog()
	if err != nil {
		log.Printf("Failed to get latest vitals: %v", err)
		http.Error(w, "Failed to get vitals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if latest == nil {
		json.NewEncoder(w).Encode(map[string]string{"message": "No data available"}) //nolint:errcheck // Best-effort response
		return
	}

	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"timestamp":          latest.Timestamp,
		"cpu_percent":        latest.CPUPercent,
		"memory_percent":     latest.MemoryPercent,
		"disk_usage_percent": latest.DiskUsagePercent,
	}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// HealthzResponse is this service's own liveness payload
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Version       string `json:"version"`
}

// handleHealthz reports the liveness of grimoire-status itself, not of the
// monitored backend.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Version:       s.versionInfo.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// handleEvents handles GET /api/events: the SSE stream of applied check
// results and vitals samples.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := NewSSEClient()
	s.sse.RegisterClient(client)
	defer s.sse.UnregisterClient(client)

	// Tell the client we're live
	if _, err := w.Write([]byte("event: connected\ndata: {}\n\n")); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case msg := <-client.Messages:
			if _, err := w.Write([]byte(msg)); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := w.Write([]byte("event: heartbeat\ndata: ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case <-client.Close:
			return
		case <-r.Context().Done():
			return
		}
	}
}
