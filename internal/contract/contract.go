// Package contract provides interfaces and shared utilities for alloctrack's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/schema"
)

// StoreManager defines the interface for reaching the configured stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetEntityStore() EntityStore
	GetHistoryStore() HistoryStore
}

// EntityStore persists employees, clients, projects and commitments.
// Get, Update and Delete return ErrNotFound when the id does not exist.
type EntityStore interface {
	// --- Employees ---

	ListEmployees(ctx context.Context) ([]schema.Employee, error)
	GetEmployee(ctx context.Context, id int64) (schema.Employee, error)
	CreateEmployee(ctx context.Context, e schema.Employee) (int64, error)
	UpdateEmployee(ctx context.Context, e schema.Employee) error
	// DeleteEmployee also removes the employee's commitments.
	DeleteEmployee(ctx context.Context, id int64) error

	// --- Clients ---

	ListClients(ctx context.Context) ([]schema.Client, error)
	GetClient(ctx context.Context, id int64) (schema.Client, error)
	CreateClient(ctx context.Context, c schema.Client) (int64, error)
	UpdateClient(ctx context.Context, c schema.Client) error
	// DeleteClient also clears the client reference on its projects.
	DeleteClient(ctx context.Context, id int64) error

	// --- Projects ---

	ListProjects(ctx context.Context) ([]schema.Project, error)
	GetProject(ctx context.Context, id int64) (schema.Project, error)
	CreateProject(ctx context.Context, p schema.Project) (int64, error)
	UpdateProject(ctx context.Context, p schema.Project) error
	DeleteProject(ctx context.Context, id int64) error

	// --- Commitments ---

	// ListCommitments returns all commitments, or only one employee's when employeeID is set.
	ListCommitments(ctx context.Context, employeeID *int64) ([]schema.Commitment, error)

	// ListCommitmentsInRange returns the commitments that overlap the window.
	ListCommitmentsInRange(ctx context.Context, window dateutil.Range) ([]schema.Commitment, error)

	GetCommitment(ctx context.Context, id int64) (schema.Commitment, error)
	CreateCommitment(ctx context.Context, c schema.Commitment) (int64, error)
	UpdateCommitment(ctx context.Context, c schema.Commitment) error
	DeleteCommitment(ctx context.Context, id int64) error

	// Truncate removes every entity, keeping the tables.
	Truncate(ctx context.Context) error

	// GetStatus returns row counts and connectivity of the store.
	GetStatus(ctx context.Context) (schema.EntityStatus, error)

	// Close closes the underlying connection
	Close() error
}

// HistoryStore defines the interface for tracking analysis runs and their exceptions.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(ctx context.Context, runUUID string, startTime time.Time, window dateutil.Range, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(ctx context.Context, runID int64, endTime time.Time, totalEmployees, totalExceptions int) error

	// RecordExceptions stores the exceptions produced by a run
	RecordExceptions(ctx context.Context, runID int64, exceptions []schema.Exception) error

	// ListRuns returns all recorded runs, oldest first
	ListRuns(ctx context.Context) ([]schema.RunRecord, error)

	// ListRunExceptions returns all recorded exceptions ordered by run
	ListRunExceptions(ctx context.Context) ([]schema.RunExceptionRecord, error)

	// GetStatus returns status information about the history store
	GetStatus(ctx context.Context) (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
