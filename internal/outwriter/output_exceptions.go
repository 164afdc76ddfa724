package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/internal/parquet"
	"github.com/dannybechar/allocation-tracker/schema"
)

// PrintExceptions outputs the analysis results, dispatching based on the output format configured.
func PrintExceptions(exceptions []schema.Exception, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExceptionsJSON(w, exceptions)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExceptionsCSV(w, exceptions)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteExceptions(w, parquet.ConvertExceptions(exceptions))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExceptionsTable(w, exceptions, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// formatMagnitude renders percentages for allocation exceptions and days for vacation.
func formatMagnitude(e schema.Exception) string {
	if e.Kind == schema.VacationKind {
		return strconv.FormatFloat(e.VacationDays, 'f', -1, 64) + "d"
	}
	return strconv.Itoa(e.Percent) + "%"
}

// writeExceptionsTable generates and writes the human-readable table.
func writeExceptionsTable(w io.Writer, exceptions []schema.Exception, cfg *contract.Config, duration time.Duration) error {
	if len(exceptions) == 0 {
		_, err := fmt.Fprintf(w, "No exceptions in %s\n", cfg.Window)
		return err
	}

	nameWidth, sourcesWidth := GetExceptionColumnWidths(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Employee", "Kind", "Start", "End", "Magnitude", "Sources", "Available"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	counts := make(map[schema.ExceptionKind]int, len(schema.ValidExceptionKinds))
	var data [][]string
	for i, e := range exceptions {
		counts[e.Kind]++
		kind := string(e.Kind)
		if cfg.UseColors {
			kind = contract.GetColorLabel(e.Kind)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(e.EmployeeName, nameWidth),
			kind,
			dateutil.FormatDate(e.Start),
			dateutil.FormatDate(e.End),
			formatMagnitude(e),
			contract.TruncateName(schema.FormatSources(e.Sources), sourcesWidth),
			dateutil.FormatDate(e.Availability),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d exceptions for %s (under: %d, over: %d, vacation: %d)\n",
		len(exceptions), cfg.Window, counts[schema.UnderKind], counts[schema.OverKind], counts[schema.VacationKind]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Entity backend: %s\n", duration, cfg.DBBackend)
	return err
}

// writeExceptionsCSV writes the analysis results in CSV format.
func writeExceptionsCSV(w io.Writer, exceptions []schema.Exception) error {
	header := []string{"rank", "employee_id", "employee", "kind", "start", "end", "magnitude", "sources", "availability"}
	rows := make([][]string, len(exceptions))
	for i, e := range exceptions {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(e.EmployeeID, 10),
			e.EmployeeName,
			string(e.Kind),
			dateutil.FormatDate(e.Start),
			dateutil.FormatDate(e.End),
			strconv.FormatFloat(e.Magnitude(), 'f', -1, 64),
			strings.Join(e.Sources, "|"),
			dateutil.FormatDate(e.Availability),
		}
	}
	return writeCSV(w, header, rows)
}

// writeExceptionsJSON writes the analysis results in JSON format.
func writeExceptionsJSON(w io.Writer, exceptions []schema.Exception) error {
	return writeJSON(w, schema.EnrichExceptions(exceptions))
}
