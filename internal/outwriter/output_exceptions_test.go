package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

func day(s string) time.Time {
	d, err := dateutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleExceptions() []schema.Exception {
	return []schema.Exception{
		{EmployeeID: 1, EmployeeName: "Ann", Kind: schema.UnderKind, Start: day("2025-01-01"), End: day("2025-01-14"),
			Percent: 50, Availability: day("2025-01-14")},
		{EmployeeID: 2, EmployeeName: "Bob", Kind: schema.OverKind, Start: day("2025-01-01"), End: day("2025-01-31"),
			Percent: 150, Sources: []string{"Apollo", "Hermes"}, Availability: day("2025-01-31")},
		{EmployeeID: 3, EmployeeName: "Cid", Kind: schema.VacationKind, Start: day("2025-01-01"), End: day("2025-01-31"),
			VacationDays: 12.5, Availability: day("2025-01-01")},
	}
}

func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	window, err := dateutil.NewRange(day("2025-01-01"), day("2025-01-31"))
	require.NoError(t, err)
	return &contract.Config{Window: window, Output: schema.TextOut, Width: 140, DBBackend: schema.SQLiteBackend}
}

func TestFormatMagnitude(t *testing.T) {
	ex := sampleExceptions()
	assert.Equal(t, "50%", formatMagnitude(ex[0]))
	assert.Equal(t, "150%", formatMagnitude(ex[1]))
	assert.Equal(t, "12.5d", formatMagnitude(ex[2]))
}

func TestWriteExceptionsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExceptionsTable(&buf, sampleExceptions(), testConfig(t), 1500*time.Millisecond))

	out := buf.String()
	for _, want := range []string{"Ann", "UNDER", "2025-01-14", "50%", "Apollo, Hermes", "12.5d", "VACATION"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "Showing 3 exceptions for 2025-01-01..2025-01-31 (under: 1, over: 1, vacation: 1)")
	assert.Contains(t, out, "Analysis completed in 1.5s. Entity backend: sqlite")
}

func TestWriteExceptionsTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExceptionsTable(&buf, nil, testConfig(t), 0))
	assert.Equal(t, "No exceptions in 2025-01-01..2025-01-31\n", buf.String())
}

func TestWriteExceptionsTableTruncatesNames(t *testing.T) {
	cfg := testConfig(t)
	cfg.Width = 80
	ex := []schema.Exception{{EmployeeName: "Bartholomew Archibald Featherstonehaugh", Kind: schema.UnderKind, Percent: 10}}

	var buf bytes.Buffer
	require.NoError(t, writeExceptionsTable(&buf, ex, cfg, 0))
	assert.NotContains(t, buf.String(), "Featherstonehaugh")
	assert.Contains(t, buf.String(), "...")
}

func TestWriteExceptionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExceptionsCSV(&buf, sampleExceptions()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"rank", "employee_id", "employee", "kind", "start", "end", "magnitude", "sources", "availability"}, records[0])
	assert.Equal(t, []string{"2", "2", "Bob", "OVER", "2025-01-01", "2025-01-31", "150", "Apollo|Hermes", "2025-01-31"}, records[2])
	assert.Equal(t, "12.5", records[3][6])
}

func TestWriteExceptionsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExceptionsJSON(&buf, sampleExceptions()))

	var views []schema.ExceptionView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &views))
	require.Len(t, views, 3)
	assert.Equal(t, 1, views[0].Rank)
	assert.Equal(t, []string{}, views[0].Sources)
	assert.Equal(t, "2025-01-31", views[1].Availability)
	assert.Equal(t, 12.5, views[2].Magnitude)
}

func TestPrintExceptionsToFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		output schema.OutputMode
		check  func(t *testing.T, data []byte)
	}{
		{"json", schema.JSONOut, func(t *testing.T, data []byte) { assert.True(t, json.Valid(data)) }},
		{"csv", schema.CSVOut, func(t *testing.T, data []byte) { assert.True(t, strings.HasPrefix(string(data), "rank,")) }},
		{"text", schema.TextOut, func(t *testing.T, data []byte) { assert.Contains(t, string(data), "Showing 3 exceptions") }},
		{"parquet", schema.ParquetOut, func(t *testing.T, data []byte) { assert.Equal(t, "PAR1", string(data[:4])) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Output = tt.output
			cfg.OutputFile = filepath.Join(dir, "out."+tt.name)
			require.NoError(t, PrintExceptions(sampleExceptions(), cfg, time.Second))
			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestPrintExceptionsParquetNeedsFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output = schema.ParquetOut
	assert.Error(t, PrintExceptions(sampleExceptions(), cfg, 0))
}

func TestGetExceptionColumnWidths(t *testing.T) {
	tests := []struct {
		width       int
		wantName    int
		wantSources int
	}{
		{80, 10, 12},
		{120, 15, 23},
		{200, 30, 50},
	}
	for _, tt := range tests {
		name, sources := GetExceptionColumnWidths(&contract.Config{Width: tt.width})
		assert.Equal(t, tt.wantName, name, "width %d", tt.width)
		assert.Equal(t, tt.wantSources, sources, "width %d", tt.width)
	}
}
