package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

func TestWriteEntityText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEntityText(&buf, entityTable{
		noun:   "clients",
		header: []string{"id", "name"},
		rows:   [][]string{{"1", "Acme"}, {"2", "Globex"}},
	}))
	assert.Contains(t, buf.String(), "Acme")
	assert.Contains(t, buf.String(), "Globex")
	assert.Contains(t, buf.String(), "2 clients\n")

	buf.Reset()
	require.NoError(t, writeEntityText(&buf, entityTable{noun: "clients"}))
	assert.Equal(t, "No clients found\n", buf.String())
}

func TestPrintEntitiesCSV(t *testing.T) {
	dir := t.TempDir()
	clientID := int64(1)

	tests := []struct {
		name  string
		print func(cfg *contract.Config) error
		want  [][]string
	}{
		{
			name: "employees",
			print: func(cfg *contract.Config) error {
				return PrintEmployees([]schema.Employee{{ID: 4, Name: "Ann", CapacityPercent: 80, VacationDays: 1.5, Billable: true}}, cfg)
			},
			want: [][]string{{"id", "name", "capacity_percent", "vacation_days", "billable"}, {"4", "Ann", "80", "1.5", "true"}},
		},
		{
			name: "projects",
			print: func(cfg *contract.Config) error {
				return PrintProjects(
					[]schema.Project{{ID: 2, Name: "Apollo", ClientID: &clientID}, {ID: 3, Name: "Internal"}},
					[]schema.Client{{ID: 1, Name: "Acme"}}, cfg)
			},
			want: [][]string{{"id", "name", "client"}, {"2", "Apollo", "Acme"}, {"3", "Internal", ""}},
		},
		{
			name: "commitments",
			print: func(cfg *contract.Config) error {
				return PrintCommitments([]schema.CommitmentView{{ID: 9, Employee: "Ann", TargetType: "PROJECT", Target: "Apollo", Start: "2025-01-01", Percent: 40}}, cfg)
			},
			want: [][]string{{"id", "employee", "target_type", "target", "start", "end", "percent"}, {"9", "Ann", "PROJECT", "Apollo", "2025-01-01", "", "40"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Output: schema.CSVOut, OutputFile: filepath.Join(dir, tt.name+".csv")}
			require.NoError(t, tt.print(cfg))
			f, err := os.Open(cfg.OutputFile)
			require.NoError(t, err)
			defer func() { _ = f.Close() }()
			got, err := csv.NewReader(f).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintClientsJSONEmpty(t *testing.T) {
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: filepath.Join(t.TempDir(), "clients.json")}
	require.NoError(t, NewOutWriter().WriteClients(nil, cfg))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var got []schema.Client
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Empty(t, got)
	assert.Equal(t, "[]\n", string(data))
}

func TestPrintEntitiesParquetUnsupported(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: "x.parquet"}
	assert.ErrorContains(t, PrintClients(nil, cfg), "only supported for exceptions")
}
