package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/schema"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func readAll[T any](t *testing.T, r io.ReaderAt, size int64) []T {
	t.Helper()
	file, err := parquet.OpenFile(r, size)
	require.NoError(t, err)
	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestSchemaColumns(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"run", new(Run), []string{"run_id", "run_uuid", "start_time", "end_time", "run_duration_ms", "window_from", "window_to", "total_employees", "total_exceptions", "config_params"}},
		{"run exception", new(RunException), []string{"run_id", "employee_id", "employee_name", "kind", "start_date", "end_date", "magnitude", "sources", "availability"}},
		{"exception row", new(ExceptionRow), []string{"rank", "employee_id", "employee", "kind", "start", "end", "magnitude", "sources", "availability"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				_, ok := s.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")

	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int32(1500)
	params := `{"kinds":["UNDER"]}`
	records := []schema.RunRecord{
		{RunID: 1, RunUUID: "a", StartTime: start, EndTime: &end, RunDurationMs: &duration,
			WindowFrom: date("2025-01-01"), WindowTo: date("2025-03-31"), TotalEmployees: 4, TotalExceptions: 2, ConfigParams: &params},
		{RunID: 2, RunUUID: "b", StartTime: start, WindowFrom: date("2025-02-01"), WindowTo: date("2025-02-28")},
	}

	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), outputPath))

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	require.NoError(t, err)

	rows := readAll[Run](t, f, info.Size())
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-01-01", rows[0].WindowFrom)
	assert.Equal(t, "2025-03-31", rows[0].WindowTo)
	require.NotNil(t, rows[0].EndTime)
	assert.WithinDuration(t, end, *rows[0].EndTime, time.Nanosecond)
	require.NotNil(t, rows[0].RunDurationMs)
	assert.Equal(t, duration, *rows[0].RunDurationMs)
	assert.Equal(t, params, *rows[0].ConfigParams)

	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].RunDurationMs)
	assert.Nil(t, rows[1].ConfigParams)
}

func TestWriteRunExceptionsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "run_exceptions.parquet")
	records := []schema.RunExceptionRecord{{
		RunID: 3, EmployeeID: 7, EmployeeName: "Ann", Kind: "OVER",
		StartDate: date("2025-01-01"), EndDate: date("2025-01-31"),
		Magnitude: 150, Sources: "Apollo, Hermes", Availability: date("2025-01-31"),
	}}

	require.NoError(t, WriteRunExceptionsParquet(ConvertRunExceptionRecords(records), outputPath))

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	require.NoError(t, err)

	rows := readAll[RunException](t, f, info.Size())
	require.Len(t, rows, 1)
	assert.Equal(t, "Ann", rows[0].EmployeeName)
	assert.Equal(t, "2025-01-31", rows[0].Availability)
	assert.Equal(t, "Apollo, Hermes", rows[0].Sources)
}

func TestWriteExceptions(t *testing.T) {
	exceptions := []schema.Exception{
		{EmployeeID: 1, EmployeeName: "Ann", Kind: schema.UnderKind, Start: date("2025-01-01"), End: date("2025-01-14"),
			Percent: 50, Availability: date("2025-01-14")},
		{EmployeeID: 2, EmployeeName: "Bob", Kind: schema.VacationKind, Start: date("2025-01-01"), End: date("2025-01-31"),
			VacationDays: 12.5, Availability: date("2025-01-01")},
		{EmployeeID: 3, EmployeeName: "Cid", Kind: schema.OverKind, Start: date("2025-01-01"), End: date("2025-01-31"),
			Percent: 150, Sources: []string{"Apollo", "Hermes"}, Availability: date("2025-01-31")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExceptions(&buf, ConvertExceptions(exceptions)))

	rows := readAll[ExceptionRow](t, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Len(t, rows, 3)
	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, 50.0, rows[0].Magnitude)
	assert.Equal(t, 12.5, rows[1].Magnitude)
	assert.Equal(t, "VACATION", rows[1].Kind)
	assert.Equal(t, []string{"Apollo", "Hermes"}, rows[2].Sources)
	assert.Equal(t, "2025-01-31", rows[2].Availability)
}

func TestConvertExceptionsEmpty(t *testing.T) {
	assert.Empty(t, ConvertExceptions(nil))
}
