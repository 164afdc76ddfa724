package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dannybechar/allocation-tracker/core/dateutil"
	"github.com/dannybechar/allocation-tracker/internal/contract"
	"github.com/dannybechar/allocation-tracker/schema"
)

// Table names for entities.
const (
	employeesTable   = "employees"
	clientsTable     = "clients"
	projectsTable    = "projects"
	commitmentsTable = "commitments"
)

// entityTables is ordered so dependents come first.
var entityTables = []string{commitmentsTable, projectsTable, clientsTable, employeesTable}

// EntityStoreImpl implements the EntityStore interface on database/sql.
type EntityStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.EntityStore = &EntityStoreImpl{} // Compile-time check

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// NewEntityStore opens the entity database and makes sure its tables exist.
func NewEntityStore(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*EntityStoreImpl, error) {
	if backend == schema.NoneBackend {
		return nil, fmt.Errorf("entity store requires a database backend")
	}
	db, err := openDB(ctx, backend, connStr, contract.GetDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := applySchema(ctx, db, entitySet, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create entity tables: %w", err)
	}
	return &EntityStoreImpl{db: db, backend: backend}, nil
}

func (s *EntityStoreImpl) query(q string, tables ...any) string {
	quoted := make([]any, len(tables))
	for i, t := range tables {
		quoted[i] = quoteTableName(t.(string), s.backend)
	}
	return rebind(fmt.Sprintf(q, quoted...), s.backend)
}

// insert runs an INSERT and returns the generated id.
func (s *EntityStoreImpl) insert(ctx context.Context, q string, args ...any) (int64, error) {
	if s.backend == schema.PostgreSQLBackend {
		var id int64
		err := s.db.QueryRowContext(ctx, q+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// exists reports whether a row with id is present in table.
func (s *EntityStoreImpl) exists(ctx context.Context, table string, id int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.query("SELECT COUNT(*) FROM %s WHERE id = ?", table), id).Scan(&n)
	return n > 0, err
}

// update checks for the row first since MySQL reports zero affected rows for no-op updates.
func (s *EntityStoreImpl) update(ctx context.Context, entity, table string, id int64, q string, args ...any) error {
	ok, err := s.exists(ctx, table, id)
	if err != nil {
		return fmt.Errorf("failed to look up %s %d: %w", entity, id, err)
	}
	if !ok {
		return contract.NotFoundError(entity, id)
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("failed to update %s %d: %w", entity, id, err)
	}
	return nil
}

// withTx runs fn inside a transaction.
func (s *EntityStoreImpl) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// deleteByID removes one row inside tx, returning ErrNotFound when nothing matched.
func (s *EntityStoreImpl) deleteByID(ctx context.Context, tx *sql.Tx, entity, table string, id int64) error {
	res, err := tx.ExecContext(ctx, s.query("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", entity, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", entity, id, err)
	}
	if n == 0 {
		return contract.NotFoundError(entity, id)
	}
	return nil
}

// --- Employees ---

const employeeColumns = "id, name, capacity_percent, vacation_days, billable"

func scanEmployee(r rowScanner) (schema.Employee, error) {
	var e schema.Employee
	err := r.Scan(&e.ID, &e.Name, &e.CapacityPercent, &e.VacationDays, &e.Billable)
	return e, err
}

// ListEmployees returns all employees ordered by id.
func (s *EntityStoreImpl) ListEmployees(ctx context.Context) ([]schema.Employee, error) {
	rows, err := s.db.QueryContext(ctx, s.query("SELECT "+employeeColumns+" FROM %s ORDER BY id", employeesTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}
	return out, nil
}

// GetEmployee returns one employee.
func (s *EntityStoreImpl) GetEmployee(ctx context.Context, id int64) (schema.Employee, error) {
	row := s.db.QueryRowContext(ctx, s.query("SELECT "+employeeColumns+" FROM %s WHERE id = ?", employeesTable), id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return e, contract.NotFoundError("employee", id)
	}
	if err != nil {
		return e, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return e, nil
}

// CreateEmployee inserts an employee and returns its id.
func (s *EntityStoreImpl) CreateEmployee(ctx context.Context, e schema.Employee) (int64, error) {
	id, err := s.insert(ctx,
		s.query("INSERT INTO %s (name, capacity_percent, vacation_days, billable) VALUES (?, ?, ?, ?)", employeesTable),
		e.Name, e.CapacityPercent, e.VacationDays, e.Billable)
	if err != nil {
		return 0, fmt.Errorf("failed to insert employee: %w", err)
	}
	return id, nil
}

// UpdateEmployee replaces all fields of an existing employee.
func (s *EntityStoreImpl) UpdateEmployee(ctx context.Context, e schema.Employee) error {
	return s.update(ctx, "employee", employeesTable, e.ID,
		s.query("UPDATE %s SET name = ?, capacity_percent = ?, vacation_days = ?, billable = ? WHERE id = ?", employeesTable),
		e.Name, e.CapacityPercent, e.VacationDays, e.Billable, e.ID)
}

// DeleteEmployee removes an employee together with its commitments.
func (s *EntityStoreImpl) DeleteEmployee(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.query("DELETE FROM %s WHERE employee_id = ?", commitmentsTable), id); err != nil {
			return fmt.Errorf("failed to delete commitments of employee %d: %w", id, err)
		}
		return s.deleteByID(ctx, tx, "employee", employeesTable, id)
	})
}

// --- Clients ---

// ListClients returns all clients ordered by id.
func (s *EntityStoreImpl) ListClients(ctx context.Context) ([]schema.Client, error) {
	rows, err := s.db.QueryContext(ctx, s.query("SELECT id, name FROM %s ORDER BY id", clientsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Client
	for rows.Next() {
		var c schema.Client
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return out, nil
}

// GetClient returns one client.
func (s *EntityStoreImpl) GetClient(ctx context.Context, id int64) (schema.Client, error) {
	var c schema.Client
	err := s.db.QueryRowContext(ctx, s.query("SELECT id, name FROM %s WHERE id = ?", clientsTable), id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return c, contract.NotFoundError("client", id)
	}
	if err != nil {
		return c, fmt.Errorf("failed to get client %d: %w", id, err)
	}
	return c, nil
}

// CreateClient inserts a client and returns its id.
func (s *EntityStoreImpl) CreateClient(ctx context.Context, c schema.Client) (int64, error) {
	id, err := s.insert(ctx, s.query("INSERT INTO %s (name) VALUES (?)", clientsTable), c.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert client: %w", err)
	}
	return id, nil
}

// UpdateClient renames an existing client.
func (s *EntityStoreImpl) UpdateClient(ctx context.Context, c schema.Client) error {
	return s.update(ctx, "client", clientsTable, c.ID,
		s.query("UPDATE %s SET name = ? WHERE id = ?", clientsTable), c.Name, c.ID)
}

// DeleteClient removes a client and detaches its projects.
func (s *EntityStoreImpl) DeleteClient(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.query("UPDATE %s SET client_id = NULL WHERE client_id = ?", projectsTable), id); err != nil {
			return fmt.Errorf("failed to detach projects of client %d: %w", id, err)
		}
		return s.deleteByID(ctx, tx, "client", clientsTable, id)
	})
}

// --- Projects ---

func scanProject(r rowScanner) (schema.Project, error) {
	var p schema.Project
	var clientID sql.NullInt64
	if err := r.Scan(&p.ID, &p.Name, &clientID); err != nil {
		return p, err
	}
	if clientID.Valid {
		p.ClientID = &clientID.Int64
	}
	return p, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// ListProjects returns all projects ordered by id.
func (s *EntityStoreImpl) ListProjects(ctx context.Context) ([]schema.Project, error) {
	rows, err := s.db.QueryContext(ctx, s.query("SELECT id, name, client_id FROM %s ORDER BY id", projectsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return out, nil
}

// GetProject returns one project.
func (s *EntityStoreImpl) GetProject(ctx context.Context, id int64) (schema.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, s.query("SELECT id, name, client_id FROM %s WHERE id = ?", projectsTable), id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, contract.NotFoundError("project", id)
	}
	if err != nil {
		return p, fmt.Errorf("failed to get project %d: %w", id, err)
	}
	return p, nil
}

// CreateProject inserts a project and returns its id.
func (s *EntityStoreImpl) CreateProject(ctx context.Context, p schema.Project) (int64, error) {
	id, err := s.insert(ctx, s.query("INSERT INTO %s (name, client_id) VALUES (?, ?)", projectsTable), p.Name, nullableID(p.ClientID))
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return id, nil
}

// UpdateProject replaces all fields of an existing project.
func (s *EntityStoreImpl) UpdateProject(ctx context.Context, p schema.Project) error {
	return s.update(ctx, "project", projectsTable, p.ID,
		s.query("UPDATE %s SET name = ?, client_id = ? WHERE id = ?", projectsTable), p.Name, nullableID(p.ClientID), p.ID)
}

// DeleteProject removes a project.
func (s *EntityStoreImpl) DeleteProject(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteByID(ctx, tx, "project", projectsTable, id)
	})
}

// --- Commitments ---

const commitmentColumns = "id, employee_id, target_type, target_id, start_date, end_date, percent_allocated"

func scanCommitment(r rowScanner) (schema.Commitment, error) {
	var c schema.Commitment
	var target string
	var start, end sql.NullString
	if err := r.Scan(&c.ID, &c.EmployeeID, &target, &c.TargetID, &start, &end, &c.Percent); err != nil {
		return c, err
	}
	c.TargetType = schema.TargetType(target)

	var err error
	if c.StartDate, err = parseNullableDate(start); err != nil {
		return c, fmt.Errorf("commitment %d start_date: %w", c.ID, err)
	}
	if c.EndDate, err = parseNullableDate(end); err != nil {
		return c, fmt.Errorf("commitment %d end_date: %w", c.ID, err)
	}
	return c, nil
}

func (s *EntityStoreImpl) listCommitments(ctx context.Context, q string, args ...any) ([]schema.Commitment, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commitments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commitment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commitments: %w", err)
	}
	return out, nil
}

// ListCommitments returns all commitments, or one employee's when employeeID is set.
func (s *EntityStoreImpl) ListCommitments(ctx context.Context, employeeID *int64) ([]schema.Commitment, error) {
	if employeeID != nil {
		return s.listCommitments(ctx,
			s.query("SELECT "+commitmentColumns+" FROM %s WHERE employee_id = ? ORDER BY id", commitmentsTable), *employeeID)
	}
	return s.listCommitments(ctx, s.query("SELECT "+commitmentColumns+" FROM %s ORDER BY employee_id, id", commitmentsTable))
}

// ListCommitmentsInRange returns commitments overlapping the window. Dates are stored
// as YYYY-MM-DD so string comparison matches calendar order.
func (s *EntityStoreImpl) ListCommitmentsInRange(ctx context.Context, window dateutil.Range) ([]schema.Commitment, error) {
	return s.listCommitments(ctx,
		s.query("SELECT "+commitmentColumns+" FROM %s WHERE (start_date IS NULL OR start_date <= ?) AND (end_date IS NULL OR end_date >= ?) ORDER BY employee_id, id", commitmentsTable),
		dateutil.FormatDate(window.To), dateutil.FormatDate(window.From))
}

// GetCommitment returns one commitment.
func (s *EntityStoreImpl) GetCommitment(ctx context.Context, id int64) (schema.Commitment, error) {
	c, err := scanCommitment(s.db.QueryRowContext(ctx, s.query("SELECT "+commitmentColumns+" FROM %s WHERE id = ?", commitmentsTable), id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, contract.NotFoundError("commitment", id)
	}
	if err != nil {
		return c, fmt.Errorf("failed to get commitment %d: %w", id, err)
	}
	return c, nil
}

// CreateCommitment inserts a commitment and returns its id.
func (s *EntityStoreImpl) CreateCommitment(ctx context.Context, c schema.Commitment) (int64, error) {
	id, err := s.insert(ctx,
		s.query("INSERT INTO %s (employee_id, target_type, target_id, start_date, end_date, percent_allocated) VALUES (?, ?, ?, ?, ?, ?)", commitmentsTable),
		c.EmployeeID, string(c.TargetType), c.TargetID, nullableDate(c.StartDate), nullableDate(c.EndDate), c.Percent)
	if err != nil {
		return 0, fmt.Errorf("failed to insert commitment: %w", err)
	}
	return id, nil
}

// UpdateCommitment replaces all fields of an existing commitment.
func (s *EntityStoreImpl) UpdateCommitment(ctx context.Context, c schema.Commitment) error {
	return s.update(ctx, "commitment", commitmentsTable, c.ID,
		s.query("UPDATE %s SET employee_id = ?, target_type = ?, target_id = ?, start_date = ?, end_date = ?, percent_allocated = ? WHERE id = ?", commitmentsTable),
		c.EmployeeID, string(c.TargetType), c.TargetID, nullableDate(c.StartDate), nullableDate(c.EndDate), c.Percent, c.ID)
}

// DeleteCommitment removes a commitment.
func (s *EntityStoreImpl) DeleteCommitment(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteByID(ctx, tx, "commitment", commitmentsTable, id)
	})
}

// --- Administration ---

// Truncate deletes every row of every entity table.
func (s *EntityStoreImpl) Truncate(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range entityTables {
			if _, err := tx.ExecContext(ctx, s.query("DELETE FROM %s", table)); err != nil {
				return fmt.Errorf("failed to truncate %s: %w", table, err)
			}
		}
		return nil
	})
}

// GetStatus returns status information about the entity store.
func (s *EntityStoreImpl) GetStatus(ctx context.Context) (schema.EntityStatus, error) {
	status := schema.EntityStatus{
		Backend:     string(s.backend),
		Connected:   s.db != nil,
		TableCounts: make(map[string]int, len(entityTables)),
	}
	if s.db == nil {
		return status, nil
	}
	for _, table := range entityTables {
		var count int
		if err := s.db.QueryRowContext(ctx, s.query("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableCounts[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (s *EntityStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
