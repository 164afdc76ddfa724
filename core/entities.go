package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// --- Validation ---

func validateEmployee(e *schema.Employee) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return contract.NewValidationError("name", "is required")
	}
	if e.CapacityPercent < 0 || e.CapacityPercent > 100 {
		return contract.NewValidationError("capacity_percent", fmt.Sprintf("must be between 0 and 100 (got %d)", e.CapacityPercent))
	}
	if e.VacationDays < 0 {
		return contract.NewValidationError("vacation_days", fmt.Sprintf("must not be negative (got %g)", e.VacationDays))
	}
	return nil
}

func validateName(name *string) error {
	*name = strings.TrimSpace(*name)
	if *name == "" {
		return contract.NewValidationError("name", "is required")
	}
	return nil
}

// validateCommitment checks the fields of c and that its employee and target exist.
func validateCommitment(ctx context.Context, store contract.EntityStore, c *schema.Commitment) error {
	if _, ok := schema.ValidTargetTypes[c.TargetType]; !ok {
		return contract.NewValidationError("target_type", fmt.Sprintf("must be CLIENT or PROJECT (got %q)", c.TargetType))
	}
	if c.Percent < 0 || c.Percent > 100 {
		return contract.NewValidationError("percent", fmt.Sprintf("must be between 0 and 100 (got %d)", c.Percent))
	}
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return contract.NewValidationError("end_date", "must not be before start_date")
	}

	if _, err := store.GetEmployee(ctx, c.EmployeeID); err != nil {
		return referenceError("employee", c.EmployeeID, err)
	}
	var err error
	if c.TargetType == schema.ClientTarget {
		_, err = store.GetClient(ctx, c.TargetID)
	} else {
		_, err = store.GetProject(ctx, c.TargetID)
	}
	if err != nil {
		return referenceError(strings.ToLower(string(c.TargetType)), c.TargetID, err)
	}
	return nil
}

// referenceError turns a missing referenced entity into ErrInvalidReference.
func referenceError(entity string, id int64, err error) error {
	if errors.Is(err, contract.ErrNotFound) {
		return fmt.Errorf("%w: %s %d does not exist", contract.ErrInvalidReference, entity, id)
	}
	return err
}

func checkProjectClient(ctx context.Context, store contract.EntityStore, p schema.Project) error {
	if p.ClientID == nil {
		return nil
	}
	if _, err := store.GetClient(ctx, *p.ClientID); err != nil {
		return referenceError("client", *p.ClientID, err)
	}
	return nil
}

// --- Employees ---

// AddEmployee validates and stores e, returning the new id.
func AddEmployee(ctx context.Context, store contract.EntityStore, e schema.Employee) (int64, error) {
	if err := validateEmployee(&e); err != nil {
		return 0, err
	}
	return store.CreateEmployee(ctx, e)
}

// UpdateEmployee validates and replaces the employee with e.ID.
func UpdateEmployee(ctx context.Context, store contract.EntityStore, e schema.Employee) error {
	if err := validateEmployee(&e); err != nil {
		return err
	}
	return store.UpdateEmployee(ctx, e)
}

// --- Clients ---

// AddClient validates and stores c, returning the new id.
func AddClient(ctx context.Context, store contract.EntityStore, c schema.Client) (int64, error) {
	if err := validateName(&c.Name); err != nil {
		return 0, err
	}
	return store.CreateClient(ctx, c)
}

// UpdateClient validates and replaces the client with c.ID.
func UpdateClient(ctx context.Context, store contract.EntityStore, c schema.Client) error {
	if err := validateName(&c.Name); err != nil {
		return err
	}
	return store.UpdateClient(ctx, c)
}

// --- Projects ---

// AddProject validates p, checks its client and stores it.
func AddProject(ctx context.Context, store contract.EntityStore, p schema.Project) (int64, error) {
	if err := validateName(&p.Name); err != nil {
		return 0, err
	}
	if err := checkProjectClient(ctx, store, p); err != nil {
		return 0, err
	}
	return store.CreateProject(ctx, p)
}

// UpdateProject validates p, checks its client and replaces the project with p.ID.
func UpdateProject(ctx context.Context, store contract.EntityStore, p schema.Project) error {
	if err := validateName(&p.Name); err != nil {
		return err
	}
	if err := checkProjectClient(ctx, store, p); err != nil {
		return err
	}
	return store.UpdateProject(ctx, p)
}

// --- Commitments ---

// AddCommitment validates c and its references and stores it.
func AddCommitment(ctx context.Context, store contract.EntityStore, c schema.Commitment) (int64, error) {
	if err := validateCommitment(ctx, store, &c); err != nil {
		return 0, err
	}
	return store.CreateCommitment(ctx, c)
}

// UpdateCommitment validates c and its references and replaces the commitment with c.ID.
func UpdateCommitment(ctx context.Context, store contract.EntityStore, c schema.Commitment) error {
	if _, err := store.GetCommitment(ctx, c.ID); err != nil {
		return err
	}
	if err := validateCommitment(ctx, store, &c); err != nil {
		return err
	}
	return store.UpdateCommitment(ctx, c)
}

// ListCommitmentViews returns commitments with employee and target names resolved.
// A non-nil employeeID limits the result to that employee.
func ListCommitmentViews(ctx context.Context, store contract.EntityStore, employeeID *int64) ([]schema.CommitmentView, error) {
	commitments, err := store.ListCommitments(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := store.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return schema.EnrichCommitments(commitments, employees, clients, projects), nil
}
