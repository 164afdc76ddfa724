package schema

import "time"

// EntityStatus represents the status of the entity store.
type EntityStatus struct {
	Backend     string         `json:"backend"`
	Connected   bool           `json:"connected"`
	TableCounts map[string]int `json:"table_counts"`
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalRuns       int       `json:"total_runs"`
	LastRunID       int64     `json:"last_run_id"`
	LastRunTime     time.Time `json:"last_run_time"`
	OldestRunTime   time.Time `json:"oldest_run_time"`
	TotalExceptions int       `json:"total_exceptions"`
}
