package iostore

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dannybechar/allocation-tracker/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintEntityStatus prints entity store status information.
func PrintEntityStatus(w io.Writer, status schema.EntityStatus) {
	_, _ = fmt.Fprintf(w, "Entity Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintln(w, "Table Counts:")
	for _, table := range slices.Sorted(maps.Keys(status.TableCounts)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableCounts[table])
	}
}

// PrintHistoryStatus prints run history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintf(w, "Total Exceptions: %d\n", status.TotalExceptions)
}
