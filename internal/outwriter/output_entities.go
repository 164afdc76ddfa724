package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// entityTable is the shared shape of every entity listing.
type entityTable struct {
	noun    string
	header  []string
	rows    [][]string
	jsonOut any
}

// printEntityTable dispatches an entity listing on the output format.
func printEntityTable(t entityTable, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, t.jsonOut)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEntityCSV(w, t)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only supported for exceptions")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEntityText(w, t)
		}, "Wrote table")
	}
}

func writeEntityText(w io.Writer, t entityTable) error {
	if len(t.rows) == 0 {
		_, err := fmt.Fprintf(w, "No %s found\n", t.noun)
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header(t.header)
	if err := table.Bulk(t.rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d %s\n", len(t.rows), t.noun)
	return err
}

func writeEntityCSV(w io.Writer, t entityTable) error {
	return writeCSV(w, t.header, t.rows)
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// PrintEmployees outputs an employee listing.
func PrintEmployees(employees []schema.Employee, cfg *contract.Config) error {
	rows := make([][]string, len(employees))
	for i, e := range employees {
		rows[i] = []string{
			id(e.ID),
			e.Name,
			strconv.Itoa(e.CapacityPercent),
			strconv.FormatFloat(e.VacationDays, 'f', -1, 64),
			strconv.FormatBool(e.Billable),
		}
	}
	return printEntityTable(entityTable{
		noun:    "employees",
		header:  []string{"id", "name", "capacity_percent", "vacation_days", "billable"},
		rows:    rows,
		jsonOut: nonNil(employees),
	}, cfg)
}

// PrintClients outputs a client listing.
func PrintClients(clients []schema.Client, cfg *contract.Config) error {
	rows := make([][]string, len(clients))
	for i, c := range clients {
		rows[i] = []string{id(c.ID), c.Name}
	}
	return printEntityTable(entityTable{
		noun:    "clients",
		header:  []string{"id", "name"},
		rows:    rows,
		jsonOut: nonNil(clients),
	}, cfg)
}

// PrintProjects outputs a project listing. The client column shows the client name.
func PrintProjects(projects []schema.Project, clients []schema.Client, cfg *contract.Config) error {
	names := make(map[int64]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	rows := make([][]string, len(projects))
	for i, p := range projects {
		var client string
		if p.ClientID != nil {
			client = names[*p.ClientID]
		}
		rows[i] = []string{id(p.ID), p.Name, client}
	}
	return printEntityTable(entityTable{
		noun:    "projects",
		header:  []string{"id", "name", "client"},
		rows:    rows,
		jsonOut: nonNil(projects),
	}, cfg)
}

// PrintCommitments outputs a commitment listing.
func PrintCommitments(commitments []schema.CommitmentView, cfg *contract.Config) error {
	rows := make([][]string, len(commitments))
	for i, c := range commitments {
		rows[i] = []string{
			id(c.ID),
			c.Employee,
			c.TargetType,
			c.Target,
			c.Start,
			c.End,
			strconv.Itoa(c.Percent),
		}
	}
	return printEntityTable(entityTable{
		noun:    "commitments",
		header:  []string{"id", "employee", "target_type", "target", "start", "end", "percent"},
		rows:    rows,
		jsonOut: nonNil(commitments),
	}, cfg)
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
