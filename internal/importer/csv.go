package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// CSV file names looked up inside a dataset directory.
const (
	EmployeesFile   = "employees.csv"
	ClientsFile     = "clients.csv"
	ProjectsFile    = "projects.csv"
	CommitmentsFile = "commitments.csv"
)

// Errors for malformed CSV content.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidNumber = errors.New("invalid number")
)

// row gives header-keyed access to one CSV record.
type row struct {
	columns map[string]int
	record  []string
}

func (r row) get(name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[idx])
}

func (r row) int64(name string) (int64, error) {
	v := r.get(name)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrInvalidNumber, name, v)
	}
	return n, nil
}

func (r row) intOr(name string, fallback int) (int, error) {
	v := r.get(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrInvalidNumber, name, v)
	}
	return n, nil
}

// readCSVDir loads every known CSV file in dir. Missing files are skipped.
func readCSVDir(dir string) (*schema.Dataset, error) {
	ds := &schema.Dataset{}
	steps := []struct {
		file     string
		required []string
		parse    func(row) error
	}{
		{EmployeesFile, []string{"id", "name"}, func(r row) error {
			e, err := parseEmployee(r)
			if err == nil {
				ds.Employees = append(ds.Employees, e)
			}
			return err
		}},
		{ClientsFile, []string{"id", "name"}, func(r row) error {
			id, err := r.int64("id")
			if err == nil {
				ds.Clients = append(ds.Clients, schema.Client{ID: id, Name: r.get("name")})
			}
			return err
		}},
		{ProjectsFile, []string{"id", "name"}, func(r row) error {
			p, err := parseProject(r)
			if err == nil {
				ds.Projects = append(ds.Projects, p)
			}
			return err
		}},
		{CommitmentsFile, []string{"id", "employee_id", "target_id", "percent"}, func(r row) error {
			c, err := parseCommitment(r)
			if err == nil {
				ds.Commitments = append(ds.Commitments, c)
			}
			return err
		}},
	}

	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			contract.Logger().Debug("dataset file not found, skipping", zap.String("file", path))
			continue
		}
		if err != nil {
			return nil, err
		}
		err = readCSV(f, step.file, step.required, step.parse)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// readCSV reads a headed CSV stream and calls parse for each data row.
// Header names are matched case-insensitively.
func readCSV(r io.Reader, name string, required []string, parse func(row) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return &ParseError{File: name, Line: 1, Err: err}
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return &ParseError{File: name, Line: 1, Err: fmt.Errorf("%w: %s", ErrMissingColumn, col)}
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ParseError{File: name, Line: line, Err: err}
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if err := parse(row{columns: columns, record: record}); err != nil {
			return &ParseError{File: name, Line: line, Err: err}
		}
	}
}

func parseEmployee(r row) (schema.Employee, error) {
	id, err := r.int64("id")
	if err != nil {
		return schema.Employee{}, err
	}
	capacity, err := r.intOr("capacity_percent", 100)
	if err != nil {
		return schema.Employee{}, err
	}
	e := schema.Employee{ID: id, Name: r.get("name"), CapacityPercent: capacity, Billable: true}
	if v := r.get("vacation_days"); v != "" {
		days, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return schema.Employee{}, fmt.Errorf("%w for vacation_days: %q", ErrInvalidNumber, v)
		}
		e.VacationDays = days
	}
	if v := r.get("billable"); v != "" {
		billable, err := contract.ParseBoolString(v)
		if err != nil {
			return schema.Employee{}, err
		}
		e.Billable = billable
	}
	return e, nil
}

func parseProject(r row) (schema.Project, error) {
	id, err := r.int64("id")
	if err != nil {
		return schema.Project{}, err
	}
	p := schema.Project{ID: id, Name: r.get("name")}
	if r.get("client_id") != "" {
		clientID, err := r.int64("client_id")
		if err != nil {
			return schema.Project{}, err
		}
		p.ClientID = &clientID
	}
	return p, nil
}

func parseCommitment(r row) (schema.Commitment, error) {
	var c schema.Commitment
	var err error
	if c.ID, err = r.int64("id"); err != nil {
		return c, err
	}
	if c.EmployeeID, err = r.int64("employee_id"); err != nil {
		return c, err
	}
	if c.TargetID, err = r.int64("target_id"); err != nil {
		return c, err
	}
	if c.Percent, err = r.intOr("percent", 0); err != nil {
		return c, err
	}
	if c.StartDate, err = parseDate(r.get("start_date")); err != nil {
		return c, err
	}
	if c.EndDate, err = parseDate(r.get("end_date")); err != nil {
		return c, err
	}
	c.TargetType = normalizeTargetType(r.get("target_type"))
	return c, nil
}
