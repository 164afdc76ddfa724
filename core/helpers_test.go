package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/iostore"
	"github.com/dannybechar/allocation-tracker/schema"
)

func newTestStore(t *testing.T) *iostore.EntityStoreImpl {
	t.Helper()
	store, err := iostore.NewEntityStore(context.Background(), schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustDate(s string) time.Time {
	d, err := dateutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := mustDate(s)
	return &d
}

func january(t *testing.T) dateutil.Range {
	t.Helper()
	w, err := dateutil.NewRange(mustDate("2026-01-01"), mustDate("2026-01-31"))
	require.NoError(t, err)
	return w
}

// seededIDs holds the store ids created by seed.
type seededIDs struct {
	dana, contractor, noa, full int64

	acme, hermes int64
}

// seed stores one employee per exception kind plus one fully committed employee.
func seed(t *testing.T, store *iostore.EntityStoreImpl) seededIDs {
	t.Helper()
	ctx := context.Background()
	var ids seededIDs
	var err error

	ids.dana, err = AddEmployee(ctx, store, schema.Employee{Name: "Dana Levi", CapacityPercent: 100, Billable: true})
	require.NoError(t, err)
	ids.contractor, err = AddEmployee(ctx, store, schema.Employee{Name: "Contractor", CapacityPercent: 0, Billable: true})
	require.NoError(t, err)
	ids.noa, err = AddEmployee(ctx, store, schema.Employee{Name: "Noa", CapacityPercent: 100, VacationDays: 12.5})
	require.NoError(t, err)
	ids.full, err = AddEmployee(ctx, store, schema.Employee{Name: "Full Timer", CapacityPercent: 100, Billable: true})
	require.NoError(t, err)

	ids.acme, err = AddClient(ctx, store, schema.Client{Name: "Acme"})
	require.NoError(t, err)
	ids.hermes, err = AddProject(ctx, store, schema.Project{Name: "Hermes", ClientID: &ids.acme})
	require.NoError(t, err)

	_, err = AddCommitment(ctx, store, schema.Commitment{EmployeeID: ids.contractor, TargetType: schema.ProjectTarget, TargetID: ids.hermes, Percent: 50})
	require.NoError(t, err)
	_, err = AddCommitment(ctx, store, schema.Commitment{EmployeeID: ids.full, TargetType: schema.ClientTarget, TargetID: ids.acme, Percent: 100})
	require.NoError(t, err)
	return ids
}
