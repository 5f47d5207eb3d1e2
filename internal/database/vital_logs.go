package database

import (
	"database/sql"
	"fmt"
	"time"
)

// StoreVitalLog saves a new self-vitals sample.
func StoreVitalLog(cpuPercent, memoryPercent, diskUsagePercent float64) error {
	db := GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	query := `
		INSERT INTO vital_logs (cpu_percent, memory_percent, disk_usage_percent)
		VALUES (?, ?, ?)
	`

	_, err := db.Exec(query, cpuPercent, memoryPercent, diskUsagePercent)
	if err != nil {
		return fmt.Errorf("failed to store vital log: %w", err)
	}

	return nil
}

// GetLatestVitalLog retrieves the most recent vitals sample.
// Returns nil if no samples exist (not an error condition).
func GetLatestVitalLog() (*VitalLog, error) {
	db := GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT id, timestamp, cpu_percent, memory_percent, disk_usage_percent
		FROM vital_logs
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var v VitalLog
	err := db.QueryRow(query).Scan(&v.ID, &v.Timestamp, &v.CPUPercent, &v.MemoryPercent, &v.DiskUsagePercent)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest vital log: %w", err)
	}

	return &v, nil
}

// CleanupOldVitalLogs removes vitals samples older than the specified duration.
func CleanupOldVitalLogs(olderThan time.Duration) (int64, error) {
	db := GetDB()
	if db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	cutoff := time.Now().Add(-olderThan)

	result, err := db.Exec(`DELETE FROM vital_logs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old vital logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
