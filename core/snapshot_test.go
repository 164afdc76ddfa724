package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/iostore"
	"github.com/dannybechar/allocation-tracker/schema"
)

func TestLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ids := seed(t, store)

	// A commitment that ended before the window is not loaded.
	_, err := AddCommitment(ctx, store, schema.Commitment{
		EmployeeID: ids.dana, TargetType: schema.ClientTarget, TargetID: ids.acme,
		StartDate: datePtr("2025-06-01"), EndDate: datePtr("2025-12-31"), Percent: 100,
	})
	require.NoError(t, err)

	in, err := LoadSnapshot(ctx, store, january(t))
	require.NoError(t, err)
	assert.Len(t, in.Employees, 4)
	assert.Len(t, in.Commitments, 2)
	assert.Len(t, in.Clients, 1)
	assert.Len(t, in.Projects, 1)
	assert.Equal(t, january(t), in.Window)
}

func TestLoadSnapshotNilStore(t *testing.T) {
	_, err := LoadSnapshot(context.Background(), nil, january(t))
	assert.Error(t, err)
}

func TestLoadSnapshotErrorDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	window, err := dateutil.NewRange(mustDate("2026-01-01"), mustDate("2026-01-31"))
	require.NoError(t, err)

	store := &iostore.MockEntityStore{}
	store.On("ListEmployees", mock.Anything).Return([]schema.Employee{{ID: 1, Name: "A"}}, nil)
	store.On("ListCommitmentsInRange", mock.Anything, window).Return(nil, errors.New("connection reset"))
	store.On("ListClients", mock.Anything).Return([]schema.Client{}, nil)
	store.On("ListProjects", mock.Anything).Return([]schema.Project{}, nil)

	in, err := LoadSnapshot(context.Background(), store, window)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading commitments")
	assert.Empty(t, in.Employees, "partial results are discarded")
}

func TestLoadSnapshotCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := &iostore.MockEntityStore{}
	for _, method := range []string{"ListEmployees", "ListClients", "ListProjects"} {
		store.On(method, mock.Anything).Return(nil, context.Canceled)
	}
	store.On("ListCommitmentsInRange", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadSnapshot(ctx, store, january(t))
	assert.ErrorIs(t, err, context.Canceled)
}
