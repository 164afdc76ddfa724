// Package parquet provides data structures and functions for exporting alloctrack
// exceptions and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single analysis run with metadata.
// This struct maps to the alloctrack_runs database table.
type Run struct {
	// RunID is the store-assigned identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier generated when the run began
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// WindowFrom and WindowTo are the inclusive analysis window as YYYY-MM-DD
	WindowFrom string `parquet:"window_from,snappy"`
	WindowTo   string `parquet:"window_to,snappy"`

	// TotalEmployees is the number of employees considered
	TotalEmployees int32 `parquet:"total_employees,snappy"`

	// TotalExceptions is the number of exceptions reported
	TotalExceptions int32 `parquet:"total_exceptions,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunException represents one exception recorded by a run.
// This struct maps to the alloctrack_run_exceptions database table.
type RunException struct {
	RunID        int64   `parquet:"run_id,snappy"`
	EmployeeID   int64   `parquet:"employee_id,snappy"`
	EmployeeName string  `parquet:"employee_name,snappy"`
	Kind         string  `parquet:"kind,dict,snappy"`
	StartDate    string  `parquet:"start_date,snappy"`
	EndDate      string  `parquet:"end_date,snappy"`
	Magnitude    float64 `parquet:"magnitude,snappy"`
	Sources      string  `parquet:"sources,snappy"`
	Availability string  `parquet:"availability,snappy"`
}

// ExceptionRow is the Parquet layout of a freshly computed exception report.
type ExceptionRow struct {
	Rank         int32    `parquet:"rank,snappy"`
	EmployeeID   int64    `parquet:"employee_id,snappy"`
	Employee     string   `parquet:"employee,snappy"`
	Kind         string   `parquet:"kind,dict,snappy"`
	Start        string   `parquet:"start,snappy"`
	End          string   `parquet:"end,snappy"`
	Magnitude    float64  `parquet:"magnitude,snappy"`
	Sources      []string `parquet:"sources,list"`
	Availability string   `parquet:"availability,snappy"`
}

// write encodes rows with a schema inferred from the struct tags of T.
func write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](outputPath string, rows []T) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(outputPath, data)
}

// WriteRunExceptionsParquet writes recorded run exceptions to a Parquet file.
func WriteRunExceptionsParquet(data []RunException, outputPath string) error {
	return writeFile(outputPath, data)
}

// WriteExceptions writes an exception report to w.
func WriteExceptions(w io.Writer, data []ExceptionRow) error {
	return write(w, data)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:           record.RunID,
			RunUUID:         record.RunUUID,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			WindowFrom:      dateutil.FormatDate(record.WindowFrom),
			WindowTo:        dateutil.FormatDate(record.WindowTo),
			TotalEmployees:  record.TotalEmployees,
			TotalExceptions: record.TotalExceptions,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertRunExceptionRecords converts schema.RunExceptionRecord to RunException for Parquet export.
func ConvertRunExceptionRecords(records []schema.RunExceptionRecord) []RunException {
	result := make([]RunException, len(records))
	for i, record := range records {
		result[i] = RunException{
			RunID:        record.RunID,
			EmployeeID:   record.EmployeeID,
			EmployeeName: record.EmployeeName,
			Kind:         record.Kind,
			StartDate:    dateutil.FormatDate(record.StartDate),
			EndDate:      dateutil.FormatDate(record.EndDate),
			Magnitude:    record.Magnitude,
			Sources:      record.Sources,
			Availability: dateutil.FormatDate(record.Availability),
		}
	}
	return result
}

// ConvertExceptions converts analyzer output to ranked Parquet rows.
func ConvertExceptions(exceptions []schema.Exception) []ExceptionRow {
	result := make([]ExceptionRow, len(exceptions))
	for i, e := range exceptions {
		sources := e.Sources
		if sources == nil {
			sources = []string{}
		}
		result[i] = ExceptionRow{
			Rank:         int32(i + 1),
			EmployeeID:   e.EmployeeID,
			Employee:     e.EmployeeName,
			Kind:         string(e.Kind),
			Start:        dateutil.FormatDate(e.Start),
			End:          dateutil.FormatDate(e.End),
			Magnitude:    e.Magnitude(),
			Sources:      sources,
			Availability: dateutil.FormatDate(e.Availability),
		}
	}
	return result
}
