// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteExceptions prints analysis results using the configured output format.
func (ow *OutWriter) WriteExceptions(exceptions []schema.Exception, cfg *contract.Config, duration time.Duration) error {
	return PrintExceptions(exceptions, cfg, duration)
}

// WriteEmployees prints an employee listing.
func (ow *OutWriter) WriteEmployees(employees []schema.Employee, cfg *contract.Config) error {
	return PrintEmployees(employees, cfg)
}

// WriteClients prints a client listing.
func (ow *OutWriter) WriteClients(clients []schema.Client, cfg *contract.Config) error {
	return PrintClients(clients, cfg)
}

// WriteProjects prints a project listing with client names resolved.
func (ow *OutWriter) WriteProjects(projects []schema.Project, clients []schema.Client, cfg *contract.Config) error {
	return PrintProjects(projects, clients, cfg)
}

// WriteCommitments prints a commitment listing.
func (ow *OutWriter) WriteCommitments(commitments []schema.CommitmentView, cfg *contract.Config) error {
	return PrintCommitments(commitments, cfg)
}
