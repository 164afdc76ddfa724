package iostore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/internal/parquet"
)

// ExecuteHistoryExport writes the run history to <outputFile>.runs.parquet and
// <outputFile>.run_exceptions.parquet, reporting progress to w.
func ExecuteHistoryExport(ctx context.Context, w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total exception records: %d\n", status.TotalExceptions)

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	exceptions, err := store.ListRunExceptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve run exceptions: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	exceptionsFile := outputFile + ".run_exceptions.parquet"
	parquetExceptions := parquet.ConvertRunExceptionRecords(exceptions)
	if err := parquet.WriteRunExceptionsParquet(parquetExceptions, exceptionsFile); err != nil {
		return fmt.Errorf("failed to write run exceptions: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d exception records to: %s\n", len(parquetExceptions), exceptionsFile)

	contract.Logger().Debug("history export complete")
	return nil
}
