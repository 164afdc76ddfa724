package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/internal/importer"
	"github.com/dannybechar/allocation-tracker/schema"
)

// ImportResult counts the rows stored and skipped by ImportDataset.
type ImportResult struct {
	Employees   int
	Clients     int
	Projects    int
	Commitments int
	Skipped     int
}

// ImportDataset stores every entity of ds. Ids in ds are file ids: they are
// remapped to the ids the store generates, and references are followed through
// that mapping. Rows that fail validation or reference an unknown id are skipped
// with a warning. With truncate set, all existing entities are removed first.
// Rows are written one at a time: when a store error aborts the import, the
// returned result counts the rows already stored, and with truncate set the
// previous contents are already gone.
func ImportDataset(ctx context.Context, store contract.EntityStore, ds *schema.Dataset, truncate bool) (ImportResult, error) {
	var result ImportResult
	if truncate {
		if err := store.Truncate(ctx); err != nil {
			return result, fmt.Errorf("failed to truncate entities: %w", err)
		}
	}

	employeeIDs := make(map[int64]int64, len(ds.Employees))
	clientIDs := make(map[int64]int64, len(ds.Clients))
	projectIDs := make(map[int64]int64, len(ds.Projects))

	// skip reports whether err is a row-level problem, logging it when it is.
	skip := func(entity string, fileID int64, err error) bool {
		if !errors.Is(err, contract.ErrValidation) && !errors.Is(err, contract.ErrInvalidReference) {
			return false
		}
		result.Skipped++
		contract.Logger().Warn("Skipping "+entity, zap.Int64("file_id", fileID), zap.Error(err))
		return true
	}

	for _, e := range ds.Employees {
		fileID := e.ID
		id, err := AddEmployee(ctx, store, e)
		if err != nil {
			if skip("employee", fileID, err) {
				continue
			}
			return result, err
		}
		employeeIDs[fileID] = id
		result.Employees++
	}

	for _, c := range ds.Clients {
		fileID := c.ID
		id, err := AddClient(ctx, store, c)
		if err != nil {
			if skip("client", fileID, err) {
				continue
			}
			return result, err
		}
		clientIDs[fileID] = id
		result.Clients++
	}

	for _, p := range ds.Projects {
		fileID := p.ID
		if p.ClientID != nil {
			storeID, ok := clientIDs[*p.ClientID]
			if !ok {
				skip("project", fileID, unknownReference("client", *p.ClientID))
				continue
			}
			p.ClientID = &storeID
		}
		id, err := AddProject(ctx, store, p)
		if err != nil {
			if skip("project", fileID, err) {
				continue
			}
			return result, err
		}
		projectIDs[fileID] = id
		result.Projects++
	}

	for _, c := range ds.Commitments {
		fileID := c.ID
		employeeID, ok := employeeIDs[c.EmployeeID]
		if !ok {
			skip("commitment", fileID, unknownReference("employee", c.EmployeeID))
			continue
		}
		targets := projectIDs
		if c.TargetType == schema.ClientTarget {
			targets = clientIDs
		}
		targetID, ok := targets[c.TargetID]
		if !ok {
			// Unknown target types fall through to validation with the file id.
			if _, valid := schema.ValidTargetTypes[c.TargetType]; valid {
				skip("commitment", fileID, unknownReference(string(c.TargetType), c.TargetID))
				continue
			}
			targetID = c.TargetID
		}
		c.EmployeeID, c.TargetID = employeeID, targetID
		if _, err := AddCommitment(ctx, store, c); err != nil {
			if skip("commitment", fileID, err) {
				continue
			}
			return result, err
		}
		result.Commitments++
	}

	return result, nil
}

func unknownReference(entity string, fileID int64) error {
	return fmt.Errorf("%w: %s %d is not in the dataset", contract.ErrInvalidReference, entity, fileID)
}

// ExportDataset reads every entity from the store.
func ExportDataset(ctx context.Context, store contract.EntityStore) (*schema.Dataset, error) {
	ds := &schema.Dataset{}
	var err error
	if ds.Employees, err = store.ListEmployees(ctx); err != nil {
		return nil, err
	}
	if ds.Clients, err = store.ListClients(ctx); err != nil {
		return nil, err
	}
	if ds.Projects, err = store.ListProjects(ctx); err != nil {
		return nil, err
	}
	if ds.Commitments, err = store.ListCommitments(ctx, nil); err != nil {
		return nil, err
	}
	return ds, nil
}

// ImportExecutor returns an executor that reads the dataset at path and imports it.
func ImportExecutor(path string, truncate bool) ExecutorFunc {
	return func(ctx context.Context, _ *contract.Config, mgr contract.StoreManager) error {
		ds, err := importer.ReadDataset(path)
		if err != nil {
			return fmt.Errorf("failed to read dataset: %w", err)
		}
		result, err := ImportDataset(ctx, mgr.GetEntityStore(), ds, truncate)
		if err != nil {
			return fmt.Errorf("import stopped after storing %d employees, %d clients, %d projects, %d commitments: %w",
				result.Employees, result.Clients, result.Projects, result.Commitments, err)
		}
		fmt.Printf("Imported %d employees, %d clients, %d projects, %d commitments from %s (%d skipped)\n",
			result.Employees, result.Clients, result.Projects, result.Commitments, path, result.Skipped)
		return nil
	}
}

// ExportExecutor returns an executor that writes every entity to path as YAML.
func ExportExecutor(path string) ExecutorFunc {
	return func(ctx context.Context, _ *contract.Config, mgr contract.StoreManager) error {
		ds, err := ExportDataset(ctx, mgr.GetEntityStore())
		if err != nil {
			return err
		}
		if err := importer.WriteDatasetFile(path, ds); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("Exported %d employees, %d clients, %d projects, %d commitments to %s\n",
			len(ds.Employees), len(ds.Clients), len(ds.Projects), len(ds.Commitments), path)
		return nil
	}
}
