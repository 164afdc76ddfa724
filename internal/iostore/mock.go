package iostore

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetEntityStore implements the StoreManager interface.
func (m *MockStoreManager) GetEntityStore() contract.EntityStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.EntityStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockEntityStore is a mock implementation of EntityStore for testing.
type MockEntityStore struct {
	mock.Mock
}

var _ contract.EntityStore = &MockEntityStore{} // Compile-time check

func (m *MockEntityStore) ListEmployees(ctx context.Context) ([]schema.Employee, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]schema.Employee)
	return v, args.Error(1)
}

func (m *MockEntityStore) GetEmployee(ctx context.Context, id int64) (schema.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.Employee), args.Error(1)
}

func (m *MockEntityStore) CreateEmployee(ctx context.Context, e schema.Employee) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntityStore) UpdateEmployee(ctx context.Context, e schema.Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEntityStore) DeleteEmployee(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEntityStore) ListClients(ctx context.Context) ([]schema.Client, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]schema.Client)
	return v, args.Error(1)
}

func (m *MockEntityStore) GetClient(ctx context.Context, id int64) (schema.Client, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.Client), args.Error(1)
}

func (m *MockEntityStore) CreateClient(ctx context.Context, c schema.Client) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntityStore) UpdateClient(ctx context.Context, c schema.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockEntityStore) DeleteClient(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEntityStore) ListProjects(ctx context.Context) ([]schema.Project, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]schema.Project)
	return v, args.Error(1)
}

func (m *MockEntityStore) GetProject(ctx context.Context, id int64) (schema.Project, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.Project), args.Error(1)
}

func (m *MockEntityStore) CreateProject(ctx context.Context, p schema.Project) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntityStore) UpdateProject(ctx context.Context, p schema.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockEntityStore) DeleteProject(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEntityStore) ListCommitments(ctx context.Context, employeeID *int64) ([]schema.Commitment, error) {
	args := m.Called(ctx, employeeID)
	v, _ := args.Get(0).([]schema.Commitment)
	return v, args.Error(1)
}

func (m *MockEntityStore) ListCommitmentsInRange(ctx context.Context, window dateutil.Range) ([]schema.Commitment, error) {
	args := m.Called(ctx, window)
	v, _ := args.Get(0).([]schema.Commitment)
	return v, args.Error(1)
}

func (m *MockEntityStore) GetCommitment(ctx context.Context, id int64) (schema.Commitment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.Commitment), args.Error(1)
}

func (m *MockEntityStore) CreateCommitment(ctx context.Context, c schema.Commitment) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntityStore) UpdateCommitment(ctx context.Context, c schema.Commitment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockEntityStore) DeleteCommitment(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEntityStore) Truncate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockEntityStore) GetStatus(ctx context.Context) (schema.EntityStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.EntityStatus), args.Error(1)
}

func (m *MockEntityStore) Close() error {
	return m.Called().Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(ctx context.Context, runUUID string, startTime time.Time, window dateutil.Range, configParams map[string]any) (int64, error) {
	args := m.Called(ctx, runUUID, startTime, window, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(ctx context.Context, runID int64, endTime time.Time, totalEmployees, totalExceptions int) error {
	return m.Called(ctx, runID, endTime, totalEmployees, totalExceptions).Error(0)
}

// RecordExceptions implements the HistoryStore interface.
func (m *MockHistoryStore) RecordExceptions(ctx context.Context, runID int64, exceptions []schema.Exception) error {
	return m.Called(ctx, runID, exceptions).Error(0)
}

// ListRuns implements the HistoryStore interface.
func (m *MockHistoryStore) ListRuns(ctx context.Context) ([]schema.RunRecord, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]schema.RunRecord)
	return v, args.Error(1)
}

// ListRunExceptions implements the HistoryStore interface.
func (m *MockHistoryStore) ListRunExceptions(ctx context.Context) ([]schema.RunExceptionRecord, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]schema.RunExceptionRecord)
	return v, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus(ctx context.Context) (schema.HistoryStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}
