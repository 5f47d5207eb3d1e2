package database

import "time"

// CheckLog is one recorded health check outcome. Rows are history only;
// no read path serves a stored row in place of performing a check.
type CheckLog struct {
	ID         string
	Target     string
	State      string
	Message    string
	StatusCode int
	LatencyMS  int64
	CheckedAt  time.Time
}

// VitalLog is one self-vitals sample.
type VitalLog struct {
	ID               int
	Timestamp        time.Time
	CPUPercent       float64
	MemoryPercent    float64
	DiskUsagePercent float64
}
