package iostore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

func newTestEntityStore(t *testing.T) *EntityStoreImpl {
	t.Helper()
	store, err := NewEntityStore(context.Background(), schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func datePtr(s string) *time.Time {
	d, err := dateutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestNewEntityStoreNoneBackend(t *testing.T) {
	_, err := NewEntityStore(context.Background(), schema.NoneBackend, "")
	assert.Error(t, err)
}

func TestEmployeeCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestEntityStore(t)

	id, err := store.CreateEmployee(ctx, schema.Employee{Name: "Ann", CapacityPercent: 100, VacationDays: 2.5, Billable: true})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	got, err := store.GetEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, schema.Employee{ID: id, Name: "Ann", CapacityPercent: 100, VacationDays: 2.5, Billable: true}, got)

	got.Name = "Ann Lee"
	got.Billable = false
	require.NoError(t, store.UpdateEmployee(ctx, got))

	// An update that changes nothing still succeeds.
	require.NoError(t, store.UpdateEmployee(ctx, got))

	all, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ann Lee", all[0].Name)
	assert.False(t, all[0].Billable)

	require.NoError(t, store.DeleteEmployee(ctx, id))
	_, err = store.GetEmployee(ctx, id)
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestEntityStore(t)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"get employee", func() error { _, err := store.GetEmployee(ctx, 42); return err }},
		{"update employee", func() error { return store.UpdateEmployee(ctx, schema.Employee{ID: 42, Name: "x"}) }},
		{"delete employee", func() error { return store.DeleteEmployee(ctx, 42) }},
		{"get client", func() error { _, err := store.GetClient(ctx, 42); return err }},
		{"update client", func() error { return store.UpdateClient(ctx, schema.Client{ID: 42, Name: "x"}) }},
		{"delete client", func() error { return store.DeleteClient(ctx, 42) }},
		{"get project", func() error { _, err := store.GetProject(ctx, 42); return err }},
		{"update project", func() error { return store.UpdateProject(ctx, schema.Project{ID: 42, Name: "x"}) }},
		{"delete project", func() error { return store.DeleteProject(ctx, 42) }},
		{"get commitment", func() error { _, err := store.GetCommitment(ctx, 42); return err }},
		{"update commitment", func() error { return store.UpdateCommitment(ctx, schema.Commitment{ID: 42}) }},
		{"delete commitment", func() error { return store.DeleteCommitment(ctx, 42) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			assert.ErrorIs(t, err, contract.ErrNotFound)
			assert.Contains(t, err.Error(), "42")
		})
	}
}

func TestProjectClientReference(t *testing.T) {
	ctx := context.Background()
	store := newTestEntityStore(t)

	clientID, err := store.CreateClient(ctx, schema.Client{Name: "Acme"})
	require.NoError(t, err)
	projectID, err := store.CreateProject(ctx, schema.Project{Name: "Apollo", ClientID: &clientID})
	require.NoError(t, err)
	internalID, err := store.CreateProject(ctx, schema.Project{Name: "Internal"})
	require.NoError(t, err)

	p, err := store.GetProject(ctx, projectID)
	require.NoError(t, err)
	require.NotNil(t, p.ClientID)
	assert.Equal(t, clientID, *p.ClientID)

	internal, err := store.GetProject(ctx, internalID)
	require.NoError(t, err)
	assert.Nil(t, internal.ClientID)

	require.NoError(t, store.DeleteClient(ctx, clientID))
	p, err = store.GetProject(ctx, projectID)
	require.NoError(t, err)
	assert.Nil(t, p.ClientID, "deleting a client detaches its projects")
}

func TestCommitments(t *testing.T) {
	ctx := context.Background()
	store := newTestEntityStore(t)

	ann, err := store.CreateEmployee(ctx, schema.Employee{Name: "Ann", CapacityPercent: 100, Billable: true})
	require.NoError(t, err)
	bob, err := store.CreateEmployee(ctx, schema.Employee{Name: "Bob", CapacityPercent: 80, Billable: true})
	require.NoError(t, err)
	projectID, err := store.CreateProject(ctx, schema.Project{Name: "Apollo"})
	require.NoError(t, err)

	commitments := []schema.Commitment{
		{EmployeeID: ann, TargetType: schema.ProjectTarget, TargetID: projectID, StartDate: datePtr("2025-01-01"), EndDate: datePtr("2025-01-31"), Percent: 50},
		{EmployeeID: ann, TargetType: schema.ProjectTarget, TargetID: projectID, StartDate: datePtr("2025-03-01"), Percent: 50},
		{EmployeeID: bob, TargetType: schema.ProjectTarget, TargetID: projectID, EndDate: datePtr("2024-12-31"), Percent: 80},
		{EmployeeID: bob, TargetType: schema.ProjectTarget, TargetID: projectID, Percent: 10},
	}
	for i := range commitments {
		commitments[i].ID, err = store.CreateCommitment(ctx, commitments[i])
		require.NoError(t, err)
	}

	got, err := store.GetCommitment(ctx, commitments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, commitments[0], got)

	open, err := store.GetCommitment(ctx, commitments[3].ID)
	require.NoError(t, err)
	assert.Nil(t, open.StartDate)
	assert.Nil(t, open.EndDate)

	annOnly, err := store.ListCommitments(ctx, &ann)
	require.NoError(t, err)
	assert.Len(t, annOnly, 2)

	all, err := store.ListCommitments(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	t.Run("range", func(t *testing.T) {
		window, err := dateutil.NewRange(*datePtr("2025-01-15"), *datePtr("2025-02-15"))
		require.NoError(t, err)
		inRange, err := store.ListCommitmentsInRange(ctx, window)
		require.NoError(t, err)
		ids := make([]int64, 0, len(inRange))
		for _, c := range inRange {
			ids = append(ids, c.ID)
		}
		assert.Equal(t, []int64{commitments[0].ID, commitments[3].ID}, ids)
	})

	t.Run("range edges are inclusive", func(t *testing.T) {
		window, err := dateutil.NewRange(*datePtr("2024-12-31"), *datePtr("2025-03-01"))
		require.NoError(t, err)
		inRange, err := store.ListCommitmentsInRange(ctx, window)
		require.NoError(t, err)
		assert.Len(t, inRange, 4)
	})

	t.Run("update", func(t *testing.T) {
		c := commitments[1]
		c.EndDate = datePtr("2025-04-30")
		c.Percent = 70
		require.NoError(t, store.UpdateCommitment(ctx, c))
		got, err := store.GetCommitment(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("deleting an employee removes its commitments", func(t *testing.T) {
		require.NoError(t, store.DeleteEmployee(ctx, bob))
		left, err := store.ListCommitments(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, left, 2)
		for _, c := range left {
			assert.Equal(t, ann, c.EmployeeID)
		}
	})
}

func TestTruncateAndStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestEntityStore(t)

	id, err := store.CreateEmployee(ctx, schema.Employee{Name: "Ann", CapacityPercent: 100})
	require.NoError(t, err)
	_, err = store.CreateClient(ctx, schema.Client{Name: "Acme"})
	require.NoError(t, err)
	_, err = store.CreateCommitment(ctx, schema.Commitment{EmployeeID: id, TargetType: schema.ClientTarget, TargetID: 1, Percent: 100})
	require.NoError(t, err)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, map[string]int{"employees": 1, "clients": 1, "projects": 0, "commitments": 1}, status.TableCounts)

	require.NoError(t, store.Truncate(ctx))
	status, err = store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"employees": 0, "clients": 0, "projects": 0, "commitments": 0}, status.TableCounts)
}

func TestEntityStoreCloseNil(t *testing.T) {
	store := &EntityStoreImpl{}
	assert.NoError(t, store.Close())
}
