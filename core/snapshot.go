package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dannybechar/allocation-tracker/core/analyzer"
	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
)

// LoadSnapshot reads everything the analyzer needs for window from the store.
// The four reads run concurrently; the first failure cancels the rest.
func LoadSnapshot(ctx context.Context, store contract.EntityStore, window dateutil.Range) (analyzer.Input, error) {
	in := analyzer.Input{Window: window}
	if store == nil {
		return in, fmt.Errorf("entity store is not initialized")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		employees, err := store.ListEmployees(gctx)
		if err != nil {
			return fmt.Errorf("loading employees: %w", err)
		}
		in.Employees = employees
		return nil
	})
	g.Go(func() error {
		commitments, err := store.ListCommitmentsInRange(gctx, window)
		if err != nil {
			return fmt.Errorf("loading commitments: %w", err)
		}
		in.Commitments = commitments
		return nil
	})
	g.Go(func() error {
		clients, err := store.ListClients(gctx)
		if err != nil {
			return fmt.Errorf("loading clients: %w", err)
		}
		in.Clients = clients
		return nil
	})
	g.Go(func() error {
		projects, err := store.ListProjects(gctx)
		if err != nil {
			return fmt.Errorf("loading projects: %w", err)
		}
		in.Projects = projects
		return nil
	})

	if err := g.Wait(); err != nil {
		return analyzer.Input{}, err
	}
	return in, nil
}
