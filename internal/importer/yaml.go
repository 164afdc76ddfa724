package importer

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/schema"
)

// datasetFile is the on-disk YAML layout. Dates are kept as YYYY-MM-DD strings.
type datasetFile struct {
	Employees   []employeeEntry   `yaml:"employees"`
	Clients     []clientEntry     `yaml:"clients"`
	Projects    []projectEntry    `yaml:"projects"`
	Commitments []commitmentEntry `yaml:"commitments"`
}

type employeeEntry struct {
	ID              int64   `yaml:"id"`
	Name            string  `yaml:"name"`
	CapacityPercent *int    `yaml:"capacity_percent,omitempty"`
	VacationDays    float64 `yaml:"vacation_days"`
	Billable        *bool   `yaml:"billable,omitempty"`
}

type clientEntry struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

type projectEntry struct {
	ID       int64  `yaml:"id"`
	Name     string `yaml:"name"`
	ClientID *int64 `yaml:"client_id,omitempty"`
}

type commitmentEntry struct {
	ID         int64  `yaml:"id"`
	EmployeeID int64  `yaml:"employee_id"`
	TargetType string `yaml:"target_type,omitempty"`
	TargetID   int64  `yaml:"target_id"`
	StartDate  string `yaml:"start_date,omitempty"`
	EndDate    string `yaml:"end_date,omitempty"`
	Percent    int    `yaml:"percent"`
}

// DecodeYAML reads a dataset document. Capacity defaults to 100, billable to true
// and target type to CLIENT when omitted.
func DecodeYAML(r io.Reader) (*schema.Dataset, error) {
	var file datasetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return &schema.Dataset{}, nil
		}
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	ds := &schema.Dataset{}
	for _, e := range file.Employees {
		emp := schema.Employee{ID: e.ID, Name: e.Name, CapacityPercent: 100, VacationDays: e.VacationDays, Billable: true}
		if e.CapacityPercent != nil {
			emp.CapacityPercent = *e.CapacityPercent
		}
		if e.Billable != nil {
			emp.Billable = *e.Billable
		}
		ds.Employees = append(ds.Employees, emp)
	}
	for _, c := range file.Clients {
		ds.Clients = append(ds.Clients, schema.Client{ID: c.ID, Name: c.Name})
	}
	for _, p := range file.Projects {
		ds.Projects = append(ds.Projects, schema.Project{ID: p.ID, Name: p.Name, ClientID: p.ClientID})
	}
	for i, c := range file.Commitments {
		start, err := parseDate(c.StartDate)
		if err != nil {
			return nil, fmt.Errorf("commitments[%d].start_date: %w", i, err)
		}
		end, err := parseDate(c.EndDate)
		if err != nil {
			return nil, fmt.Errorf("commitments[%d].end_date: %w", i, err)
		}
		ds.Commitments = append(ds.Commitments, schema.Commitment{
			ID:         c.ID,
			EmployeeID: c.EmployeeID,
			TargetType: normalizeTargetType(c.TargetType),
			TargetID:   c.TargetID,
			StartDate:  start,
			EndDate:    end,
			Percent:    c.Percent,
		})
	}
	return ds, nil
}

// EncodeYAML writes ds in the layout DecodeYAML accepts.
func EncodeYAML(w io.Writer, ds *schema.Dataset) error {
	var file datasetFile
	for _, e := range ds.Employees {
		capacity, billable := e.CapacityPercent, e.Billable
		file.Employees = append(file.Employees, employeeEntry{
			ID:              e.ID,
			Name:            e.Name,
			CapacityPercent: &capacity,
			VacationDays:    e.VacationDays,
			Billable:        &billable,
		})
	}
	for _, c := range ds.Clients {
		file.Clients = append(file.Clients, clientEntry(c))
	}
	for _, p := range ds.Projects {
		file.Projects = append(file.Projects, projectEntry(p))
	}
	for _, c := range ds.Commitments {
		file.Commitments = append(file.Commitments, commitmentEntry{
			ID:         c.ID,
			EmployeeID: c.EmployeeID,
			TargetType: string(c.TargetType),
			TargetID:   c.TargetID,
			StartDate:  dateutil.FormatOptionalDate(c.StartDate),
			EndDate:    dateutil.FormatOptionalDate(c.EndDate),
			Percent:    c.Percent,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	return enc.Close()
}

// normalizeTargetType upper-cases the value and defaults it to CLIENT.
// Unknown values pass through so validation can reject them later.
func normalizeTargetType(s string) schema.TargetType {
	if s == "" {
		return schema.ClientTarget
	}
	return schema.TargetType(strings.ToUpper(strings.TrimSpace(s)))
}
