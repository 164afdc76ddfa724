package core

import (
	"context"

	"github.com/dannybechar/allocation-tracker/internal/contract"
)

// ExecuteListEmployees writes all employees in the configured output format.
func ExecuteListEmployees(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	employees, err := mgr.GetEntityStore().ListEmployees(ctx)
	if err != nil {
		return err
	}
	return writer.WriteEmployees(employees, cfg)
}

// ExecuteListClients writes all clients in the configured output format.
func ExecuteListClients(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	clients, err := mgr.GetEntityStore().ListClients(ctx)
	if err != nil {
		return err
	}
	return writer.WriteClients(clients, cfg)
}

// ExecuteListProjects writes all projects with their client names.
func ExecuteListProjects(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	store := mgr.GetEntityStore()
	projects, err := store.ListProjects(ctx)
	if err != nil {
		return err
	}
	clients, err := store.ListClients(ctx)
	if err != nil {
		return err
	}
	return writer.WriteProjects(projects, clients, cfg)
}

// ListCommitmentsExecutor returns an executor that writes commitments,
// limited to one employee when employeeID is set.
func ListCommitmentsExecutor(employeeID *int64) ExecutorFunc {
	return func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
		views, err := ListCommitmentViews(ctx, mgr.GetEntityStore(), employeeID)
		if err != nil {
			return err
		}
		return writer.WriteCommitments(views, cfg)
	}
}
