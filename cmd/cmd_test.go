package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/schema"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseID(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyEmployeeFlags(t *testing.T) {
	t.Run("add uses defaults", func(t *testing.T) {
		flags := employeeAddCmd.Flags()
		require.NoError(t, flags.Parse([]string{"--name", "Dana"}))
		var e schema.Employee
		require.NoError(t, applyEmployeeFlags(flags, &e, true))
		assert.Equal(t, schema.Employee{Name: "Dana", CapacityPercent: 100, Billable: true}, e)
	})

	t.Run("update only changes given flags", func(t *testing.T) {
		flags := employeeUpdateCmd.Flags()
		require.NoError(t, flags.Parse([]string{"--billable", "no"}))
		e := schema.Employee{ID: 3, Name: "Dana", CapacityPercent: 80, VacationDays: 2, Billable: true}
		require.NoError(t, applyEmployeeFlags(flags, &e, false))
		assert.Equal(t, schema.Employee{ID: 3, Name: "Dana", CapacityPercent: 80, VacationDays: 2, Billable: false}, e)
	})
}

func TestApplyCommitmentFlags(t *testing.T) {
	flags := commitmentAddCmd.Flags()
	require.NoError(t, flags.Parse([]string{
		"--employee-id", "2", "--target-type", "project", "--target-id", "9",
		"--percent", "40", "--start", "2026-01-01",
	}))
	var c schema.Commitment
	require.NoError(t, applyCommitmentFlags(flags, &c, true))
	assert.Equal(t, int64(2), c.EmployeeID)
	assert.Equal(t, schema.ProjectTarget, c.TargetType)
	assert.Equal(t, int64(9), c.TargetID)
	assert.Equal(t, 40, c.Percent)
	require.NotNil(t, c.StartDate)
	assert.Equal(t, "2026-01-01", c.StartDate.Format("2006-01-02"))
	assert.Nil(t, c.EndDate)

	bad := commitmentUpdateCmd.Flags()
	require.NoError(t, bad.Parse([]string{"--end", "31/01/2026"}))
	err := applyCommitmentFlags(bad, &c, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--end")
}

func TestApplyProjectFlags(t *testing.T) {
	flags := projectUpdateCmd.Flags()
	require.NoError(t, flags.Parse([]string{"--client-id", "0"}))
	clientID := int64(4)
	p := schema.Project{ID: 1, Name: "Portal", ClientID: &clientID}
	applyProjectFlags(flags, &p, false)
	assert.Equal(t, "Portal", p.Name)
	assert.Nil(t, p.ClientID)
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	assert.Contains(t, buf.String(), "alloctrack CLI")
	assert.Contains(t, buf.String(), "Version: dev")
	assert.Contains(t, buf.String(), "Runtime: go")
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"exceptions"},
		{"employee", "add"}, {"employee", "list"}, {"employee", "update"}, {"employee", "delete"},
		{"client", "add"}, {"project", "update"}, {"commitment", "list"},
		{"import"}, {"export"},
		{"db", "status"}, {"db", "clear"}, {"db", "migrate"},
		{"history", "status"}, {"history", "clear"}, {"history", "export"}, {"history", "migrate"},
		{"mcp"}, {"version"},
	} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name(), path)
	}
}
