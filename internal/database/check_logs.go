package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoreCheckLog saves a completed health check outcome and returns its ID.
func StoreCheckLog(target, state, message string, statusCode int, latencyMS int64, checkedAt time.Time) (string, error) {
	db := GetDB()
	if db == nil {
		return "", fmt.Errorf("database not initialized")
	}

	id := uuid.New().String()

	query := `
		INSERT INTO check_logs (id, target, state, message, status_code, latency_ms, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, id, target, state, message, statusCode, latencyMS, checkedAt)
	if err != nil {
		return "", fmt.Errorf("failed to store check log: %w", err)
	}

	return id, nil
}

// GetLatestCheckLog retrieves the most recent check log for a target.
// Returns nil if none exist (not an error condition).
func GetLatestCheckLog(target string) (*CheckLog, error) {
	db := GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT id, target, state, message, status_code, latency_ms, checked_at
		FROM check_logs
		WHERE target = ?
		ORDER BY checked_at DESC
		LIMIT 1
	`

	var c CheckLog
	err := db.QueryRow(query, target).Scan(&c.ID, &c.Target, &c.State, &c.Message, &c.StatusCode, &c.LatencyMS, &c.CheckedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest check log: %w", err)
	}

	return &c, nil
}

// GetCheckLogsForTimeRange retrieves check logs for a target within a time range.
func GetCheckLogsForTimeRange(target string, start, end time.Time) ([]CheckLog, error) {
	db := GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT id, target, state, message, status_code, latency_ms, checked_at
		FROM check_logs
		WHERE target = ? AND checked_at >= ? AND checked_at <= ?
		ORDER BY checked_at ASC
	`

	rows, err := db.Query(query, target, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query check logs: %w", err)
	}
	defer rows.Close()

	var logs []CheckLog
	for rows.Next() {
		var c CheckLog
		err := rows.Scan(&c.ID, &c.Target, &c.State, &c.Message, &c.StatusCode, &c.LatencyMS, &c.CheckedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check log: %w", err)
		}
		logs = append(logs, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return logs, nil
}

// GetCheckTargets returns the distinct target names present in the history.
func GetCheckTargets() ([]string, error) {
	db := GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	rows, err := db.Query(`SELECT DISTINCT target FROM check_logs ORDER BY target ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query check targets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan target name: %w", err)
		}
		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return names, nil
}

// CleanupOldCheckLogs removes check logs older than the specified duration.
func CleanupOldCheckLogs(olderThan time.Duration) (int64, error) {
	db := GetDB()
	if db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	cutoff := time.Now().Add(-olderThan)

	result, err := db.Exec(`DELETE FROM check_logs WHERE checked_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old check logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
