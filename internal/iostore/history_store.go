package iostore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// Table names for run history.
const (
	runsTable          = "alloctrack_runs"
	runExceptionsTable = "alloctrack_run_exceptions"
)

var historyTables = []string{runExceptionsTable, runsTable}

// HistoryStoreImpl implements the HistoryStore interface. With NoneBackend every
// write is a no-op and every read returns nothing.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore opens the history database for the given backend.
func NewHistoryStore(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend || backend == "" {
		return &HistoryStoreImpl{backend: schema.NoneBackend}, nil
	}
	db, err := openDB(ctx, backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := applySchema(ctx, db, historySet, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

func (hs *HistoryStoreImpl) query(q, table string) string {
	return rebind(fmt.Sprintf(q, quoteTableName(table, hs.backend)), hs.backend)
}

// BeginRun creates a new run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(ctx context.Context, runUUID string, startTime time.Time, window dateutil.Range, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	q := hs.query(`INSERT INTO %s (run_uuid, start_time, window_from, window_to, config_params) VALUES (?, ?, ?, ?, ?)`, runsTable)
	args := []any{runUUID, formatTime(startTime, hs.backend), dateutil.FormatDate(window.From), dateutil.FormatDate(window.To), string(configJSON)}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		err = hs.db.QueryRowContext(ctx, q+" RETURNING run_id", args...).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = hs.db.ExecContext(ctx, q, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(ctx context.Context, runID int64, endTime time.Time, totalEmployees, totalExceptions int) error {
	if hs.disabled() {
		return nil
	}

	var raw any
	if err := hs.db.QueryRowContext(ctx, hs.query(`SELECT start_time FROM %s WHERE run_id = ?`, runsTable), runID).Scan(&raw); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := scanTime(raw)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	_, err = hs.db.ExecContext(ctx,
		hs.query(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_employees = ?, total_exceptions = ? WHERE run_id = ?`, runsTable),
		formatTime(endTime, hs.backend), durationMs, totalEmployees, totalExceptions, runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordExceptions stores the exceptions produced by a run in one transaction.
func (hs *HistoryStoreImpl) RecordExceptions(ctx context.Context, runID int64, exceptions []schema.Exception) error {
	if hs.disabled() || len(exceptions) == 0 {
		return nil
	}

	tx, err := hs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, hs.query(`
		INSERT INTO %s (run_id, seq, employee_id, employee_name, kind, start_date, end_date, magnitude, sources, availability)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, runExceptionsTable))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare exception insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range exceptions {
		_, err := stmt.ExecContext(ctx, runID, i+1, e.EmployeeID, e.EmployeeName, string(e.Kind),
			dateutil.FormatDate(e.Start), dateutil.FormatDate(e.End), e.Magnitude(),
			schema.FormatSources(e.Sources), dateutil.FormatDate(e.Availability))
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert exception for %s: %w", e.EmployeeName, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns all recorded runs, oldest first.
func (hs *HistoryStoreImpl) ListRuns(ctx context.Context) ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	rows, err := hs.db.QueryContext(ctx, hs.query(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms,
		window_from, window_to, total_employees, total_exceptions, config_params FROM %s ORDER BY run_id`, runsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var startRaw, endRaw any
		var windowFrom, windowTo string
		var duration, employees, exceptionCount sql.NullInt32
		var configParams sql.NullString
		if err := rows.Scan(&record.RunID, &record.RunUUID, &startRaw, &endRaw, &duration,
			&windowFrom, &windowTo, &employees, &exceptionCount, &configParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if record.StartTime, err = scanTime(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			endTime, err := scanTime(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		if record.WindowFrom, err = dateutil.ParseDate(windowFrom); err != nil {
			return nil, fmt.Errorf("failed to parse window_from: %w", err)
		}
		if record.WindowTo, err = dateutil.ParseDate(windowTo); err != nil {
			return nil, fmt.Errorf("failed to parse window_to: %w", err)
		}
		if duration.Valid {
			record.RunDurationMs = &duration.Int32
		}
		record.TotalEmployees = employees.Int32
		record.TotalExceptions = exceptionCount.Int32
		if configParams.Valid {
			record.ConfigParams = &configParams.String
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// ListRunExceptions returns all recorded exceptions ordered by run and position.
func (hs *HistoryStoreImpl) ListRunExceptions(ctx context.Context) ([]schema.RunExceptionRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	rows, err := hs.db.QueryContext(ctx, hs.query(`SELECT run_id, employee_id, employee_name, kind, start_date, end_date,
		magnitude, sources, availability FROM %s ORDER BY run_id, seq`, runExceptionsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query run exceptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunExceptionRecord
	for rows.Next() {
		var record schema.RunExceptionRecord
		var start, end, available string
		var sources sql.NullString
		if err := rows.Scan(&record.RunID, &record.EmployeeID, &record.EmployeeName, &record.Kind,
			&start, &end, &record.Magnitude, &sources, &available); err != nil {
			return nil, fmt.Errorf("failed to scan run exception: %w", err)
		}
		if record.StartDate, err = dateutil.ParseDate(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_date: %w", err)
		}
		if record.EndDate, err = dateutil.ParseDate(end); err != nil {
			return nil, fmt.Errorf("failed to parse end_date: %w", err)
		}
		if record.Availability, err = dateutil.ParseDate(available); err != nil {
			return nil, fmt.Errorf("failed to parse availability: %w", err)
		}
		record.Sources = sources.String
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run exceptions: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus(ctx context.Context) (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(hs.backend),
		Connected: hs.db != nil,
	}
	if hs.disabled() {
		return status, nil
	}

	if err := hs.db.QueryRowContext(ctx, hs.query("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	if err := hs.db.QueryRowContext(ctx, hs.query("SELECT COUNT(*) FROM %s", runExceptionsTable)).Scan(&status.TotalExceptions); err != nil {
		return status, fmt.Errorf("failed to get total exceptions: %w", err)
	}
	if status.TotalRuns == 0 {
		return status, nil
	}

	var lastRaw, oldestRaw any
	if err := hs.db.QueryRowContext(ctx, hs.query("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)).
		Scan(&status.LastRunID, &lastRaw); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	if err := hs.db.QueryRowContext(ctx, hs.query("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)).
		Scan(&oldestRaw); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}

	var err error
	if status.LastRunTime, err = scanTime(lastRaw); err != nil {
		return status, fmt.Errorf("failed to parse last run time: %w", err)
	}
	if status.OldestRunTime, err = scanTime(oldestRaw); err != nil {
		return status, fmt.Errorf("failed to parse oldest run time: %w", err)
	}
	return status, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}
