package core

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dannybechar/allocation-tracker/core/analyzer"
	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/internal/metrics"
	"github.com/dannybechar/allocation-tracker/schema"
)

// ExecutorFunc defines the function signature for commands that run against the stores.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteExceptions computes the exceptions for cfg.Window and writes them out.
// It serves as the main entry point for the 'exceptions' command.
func ExecuteExceptions(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := clock()
	exceptions, err := GetExceptionsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteExceptions(exceptions, cfg, clock().Sub(start))
}

// GetExceptionsResults loads a snapshot, runs the analyzer, records the run and
// returns the exceptions that pass the kind and employee filters of cfg.
func GetExceptionsResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.Exception, error) {
	runUUID := uuid.NewString()
	ctx = withRunUUID(ctx, runUUID)
	logger := contract.Logger().With(zap.String("run_uuid", runUUID))

	if !shouldSuppressHeader(ctx) {
		logAnalysisHeader(cfg)
	}

	loadStart := time.Now()
	in, err := LoadSnapshot(ctx, mgr.GetEntityStore(), cfg.Window)
	if err != nil {
		return nil, err
	}
	metrics.SnapshotLoadDurationSeconds.Observe(time.Since(loadStart).Seconds())
	logger.Debug("snapshot loaded",
		zap.Int("employees", len(in.Employees)),
		zap.Int("commitments", len(in.Commitments)),
		zap.Duration("elapsed", time.Since(loadStart)))

	tracker := beginRun(ctx, mgr.GetHistoryStore(), cfg, len(in.Employees))

	analyzeStart := time.Now()
	found, err := analyzer.Analyze(in)
	if err != nil {
		return nil, err
	}
	metrics.RecordRun(found, len(in.Employees), time.Since(analyzeStart))

	tracker.finish(ctx, found)
	pushMetrics(ctx, cfg)

	filtered := filterExceptions(found, cfg)
	logger.Debug("analysis finished", zap.Int("found", len(found)), zap.Int("shown", len(filtered)))
	return filtered, nil
}

// filterExceptions applies the presentation filters. Ordering is preserved.
func filterExceptions(exceptions []schema.Exception, cfg *contract.Config) []schema.Exception {
	if len(cfg.Kinds) == 0 && cfg.EmployeeFilter == "" {
		return exceptions
	}
	needle := strings.ToLower(cfg.EmployeeFilter)
	out := make([]schema.Exception, 0, len(exceptions))
	for _, e := range exceptions {
		if len(cfg.Kinds) > 0 && !slices.Contains(cfg.Kinds, e.Kind) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.EmployeeName), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// logAnalysisHeader prints a concise, 2-line header for the analysis.
// It goes to stderr so machine-readable output on stdout stays clean.
func logAnalysisHeader(cfg *contract.Config) {
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Entities: %s\n", cfg.DBBackend)
	_, _ = fmt.Fprintf(os.Stderr, "📅 Window: %s → %s (%d days)\n",
		dateutil.FormatDate(cfg.Window.From), dateutil.FormatDate(cfg.Window.To), cfg.Window.Days())
}

// pushMetrics sends the registry to the Pushgateway when one is configured.
func pushMetrics(ctx context.Context, cfg *contract.Config) {
	if cfg.MetricsPushURL == "" {
		return
	}
	if err := metrics.Push(ctx, cfg.MetricsPushURL, cfg.MetricsJob); err != nil {
		contract.LogWarn("Metrics push failed", err)
	}
}
