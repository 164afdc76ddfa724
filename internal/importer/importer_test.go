package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/schema"
)

func date(s string) *time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &d
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleYAML = `employees:
  - id: 1
    name: Alice
    capacity_percent: 80
    vacation_days: 2.5
  - id: 2
    name: Bob
    billable: false
clients:
  - id: 10
    name: Acme
projects:
  - id: 20
    name: Portal
    client_id: 10
  - id: 21
    name: Internal
commitments:
  - id: 100
    employee_id: 1
    target_id: 10
    start_date: "2024-01-01"
    end_date: "2024-01-31"
    percent: 50
  - id: 101
    employee_id: 2
    target_type: project
    target_id: 21
    percent: 100
`

func TestDecodeYAML(t *testing.T) {
	ds, err := DecodeYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	require.Len(t, ds.Employees, 2)
	assert.Equal(t, schema.Employee{ID: 1, Name: "Alice", CapacityPercent: 80, VacationDays: 2.5, Billable: true}, ds.Employees[0])
	assert.Equal(t, schema.Employee{ID: 2, Name: "Bob", CapacityPercent: 100, Billable: false}, ds.Employees[1])

	assert.Equal(t, []schema.Client{{ID: 10, Name: "Acme"}}, ds.Clients)
	require.Len(t, ds.Projects, 2)
	require.NotNil(t, ds.Projects[0].ClientID)
	assert.Equal(t, int64(10), *ds.Projects[0].ClientID)
	assert.Nil(t, ds.Projects[1].ClientID)

	require.Len(t, ds.Commitments, 2)
	first := ds.Commitments[0]
	assert.Equal(t, schema.ClientTarget, first.TargetType)
	assert.Equal(t, date("2024-01-01"), first.StartDate)
	assert.Equal(t, date("2024-01-31"), first.EndDate)
	assert.Equal(t, 50, first.Percent)

	second := ds.Commitments[1]
	assert.Equal(t, schema.ProjectTarget, second.TargetType)
	assert.Nil(t, second.StartDate)
	assert.Nil(t, second.EndDate)
}

func TestDecodeYAMLEmpty(t *testing.T) {
	ds, err := DecodeYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"employees": 0, "clients": 0, "projects": 0, "commitments": 0}, ds.Counts())
}

func TestDecodeYAMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed", "employees: [", "decoding dataset"},
		{"bad start date", "commitments:\n  - id: 1\n    start_date: 2024-13-01\n", "commitments[0].start_date"},
		{"bad end date", "commitments:\n  - id: 1\n    end_date: soon\n", "commitments[0].end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeYAML(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEncodeDecodeYAML(t *testing.T) {
	clientID := int64(10)
	want := &schema.Dataset{
		Employees: []schema.Employee{
			{ID: 1, Name: "Alice", CapacityPercent: 80, VacationDays: 1, Billable: true},
			{ID: 2, Name: "Bob", CapacityPercent: 0, Billable: false},
		},
		Clients:  []schema.Client{{ID: 10, Name: "Acme"}},
		Projects: []schema.Project{{ID: 20, Name: "Portal", ClientID: &clientID}},
		Commitments: []schema.Commitment{
			{ID: 100, EmployeeID: 1, TargetType: schema.ProjectTarget, TargetID: 20, StartDate: date("2024-02-01"), Percent: 40},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, want))
	assert.Contains(t, buf.String(), `start_date: "2024-02-01"`)
	assert.NotContains(t, buf.String(), "end_date")

	got, err := DecodeYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadDatasetCSVDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, EmployeesFile, "ID,Name,Capacity_Percent,Vacation_Days,Billable\n1,Alice,100,3,yes\n2, Bob ,,,no\n")
	writeFile(t, dir, ProjectsFile, "id,name,client_id\n20,Portal,\n")
	writeFile(t, dir, CommitmentsFile, "id,employee_id,target_type,target_id,start_date,end_date,percent\n100,1,PROJECT,20,2024-01-01,,60\n\n")

	ds, err := ReadDataset(dir)
	require.NoError(t, err)

	assert.Equal(t, []schema.Employee{
		{ID: 1, Name: "Alice", CapacityPercent: 100, VacationDays: 3, Billable: true},
		{ID: 2, Name: "Bob", CapacityPercent: 100, Billable: false},
	}, ds.Employees)
	assert.Empty(t, ds.Clients, "missing clients.csv is skipped")
	assert.Equal(t, []schema.Project{{ID: 20, Name: "Portal"}}, ds.Projects)
	require.Len(t, ds.Commitments, 1)
	assert.Equal(t, schema.Commitment{
		ID: 100, EmployeeID: 1, TargetType: schema.ProjectTarget, TargetID: 20,
		StartDate: date("2024-01-01"), Percent: 60,
	}, ds.Commitments[0])
}

func TestReadDatasetCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
		line    int
	}{
		{"missing column", ClientsFile, "id\n1\n", ErrMissingColumn, 1},
		{"bad id", ClientsFile, "id,name\n1,Acme\nx,Other\n", ErrInvalidNumber, 3},
		{"bad percent", CommitmentsFile, "id,employee_id,target_id,percent\n1,1,1,half\n", ErrInvalidNumber, 2},
		{"bad billable", EmployeesFile, "id,name,billable\n1,Alice,maybe\n", nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := ReadDataset(dir)
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.file, perr.File)
			assert.Equal(t, tt.line, perr.Line)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestReadDatasetPaths(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml file", func(t *testing.T) {
		path := writeFile(t, dir, "data.yml", sampleYAML)
		ds, err := ReadDataset(path)
		require.NoError(t, err)
		assert.Len(t, ds.Commitments, 2)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, dir, "data.json", "{}")
		_, err := ReadDataset(path)
		assert.ErrorIs(t, err, ErrUnsupportedPath)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := ReadDataset(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWriteDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.yaml")
	ds := &schema.Dataset{Clients: []schema.Client{{ID: 3, Name: "Globex"}}}
	require.NoError(t, WriteDatasetFile(path, ds))

	got, err := ReadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Clients, got.Clients)
}
