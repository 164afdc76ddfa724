package core

import (
	"context"
	"strings"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/internal/metrics"
	"github.com/dannybechar/allocation-tracker/schema"
)

// runTracker writes one analysis run to the history store.
// A zero runID means tracking is disabled or failed to start.
type runTracker struct {
	store     contract.HistoryStore
	runID     int64
	employees int
}

// beginRun opens a run record. Failures are logged and disable tracking for the run.
func beginRun(ctx context.Context, store contract.HistoryStore, cfg *contract.Config, employees int) *runTracker {
	t := &runTracker{store: store, employees: employees}
	if store == nil {
		return t
	}
	runUUID, _ := getRunUUID(ctx)
	kinds := make([]string, len(cfg.Kinds))
	for i, k := range cfg.Kinds {
		kinds[i] = string(k)
	}
	configParams := map[string]any{
		"db_backend": string(cfg.DBBackend),
		"output":     string(cfg.Output),
		"kinds":      strings.Join(kinds, ","),
		"employee":   cfg.EmployeeFilter,
	}
	runID, err := store.BeginRun(ctx, runUUID, clock(), cfg.Window, configParams)
	if err != nil {
		logTrackingError("begin run", err)
		return t
	}
	t.runID = runID
	return t
}

// finish stores every exception the analyzer found, before presentation filters,
// and closes the run.
func (t *runTracker) finish(ctx context.Context, exceptions []schema.Exception) {
	if t.store == nil || t.runID == 0 {
		return
	}
	if err := t.store.RecordExceptions(ctx, t.runID, exceptions); err != nil {
		logTrackingError("record exceptions", err)
	}
	if err := t.store.EndRun(ctx, t.runID, clock(), t.employees, len(exceptions)); err != nil {
		logTrackingError("end run", err)
	}
}

// logTrackingError logs history write failures without failing the analysis.
func logTrackingError(operation string, err error) {
	metrics.TrackingFailuresTotal.Inc()
	contract.LogWarn("Run tracking failed to "+operation, err)
}
