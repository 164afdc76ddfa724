// Package schema has the entities, exception records and enums shared by all parts of alloctrack.
package schema

import "time"

// Employee is a person whose commitments are analyzed.
type Employee struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	CapacityPercent int     `json:"capacity_percent"` // contracted level, 0-100
	VacationDays    float64 `json:"vacation_days"`
	Billable        bool    `json:"billable"` // only billable employees get UNDER/OVER analysis
}

// Client is a customer that commitments can target directly.
type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Project is a unit of work, optionally owned by a client.
type Project struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ClientID *int64 `json:"client_id,omitempty"`
}

// Commitment assigns a percentage of an employee's time to a client or project.
// Both dates are inclusive; nil means unbounded in that direction.
type Commitment struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   int64      `json:"target_id"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Percent    int        `json:"percent"`
}

// Dataset is a complete set of entities, used for import and export.
type Dataset struct {
	Employees   []Employee
	Clients     []Client
	Projects    []Project
	Commitments []Commitment
}

// Counts summarizes how many of each entity a dataset holds.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"employees":   len(d.Employees),
		"clients":     len(d.Clients),
		"projects":    len(d.Projects),
		"commitments": len(d.Commitments),
	}
}

// CommitmentView is a commitment with its employee and target resolved to names.
// Unbounded dates are rendered as empty strings.
type CommitmentView struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id"`
	Employee   string `json:"employee"`
	TargetType string `json:"target_type"`
	TargetID   int64  `json:"target_id"`
	Target     string `json:"target"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Percent    int    `json:"percent"`
}

// EnrichCommitments resolves names for display. Missing references resolve to "".
func EnrichCommitments(commitments []Commitment, employees []Employee, clients []Client, projects []Project) []CommitmentView {
	employeeNames := make(map[int64]string, len(employees))
	for _, e := range employees {
		employeeNames[e.ID] = e.Name
	}
	clientNames := make(map[int64]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}
	projectNames := make(map[int64]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	out := make([]CommitmentView, len(commitments))
	for i, c := range commitments {
		target := projectNames[c.TargetID]
		if c.TargetType == ClientTarget {
			target = clientNames[c.TargetID]
		}
		out[i] = CommitmentView{
			ID:         c.ID,
			EmployeeID: c.EmployeeID,
			Employee:   employeeNames[c.EmployeeID],
			TargetType: string(c.TargetType),
			TargetID:   c.TargetID,
			Target:     target,
			Start:      formatOptional(c.StartDate),
			End:        formatOptional(c.EndDate),
			Percent:    c.Percent,
		}
	}
	return out
}

func formatOptional(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(time.DateOnly)
}
