package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when an item id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStatus is returned for a status outside the item's enum.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrUnknownField is returned when a patch targets a field that is not
	// the item's classification attribute.
	ErrUnknownField = errors.New("unknown patch field")
)

// Store provides access to the crmboard database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode so the TUI can read while dispatch goroutines write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		email          TEXT DEFAULT '',
		company        TEXT DEFAULT '',
		customer_type  TEXT NOT NULL DEFAULT 'lead',
		created_at     DATETIME NOT NULL,
		updated_at     DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		description  TEXT DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'planning',
		customer_id  TEXT DEFAULT '',
		created_at   DATETIME NOT NULL,
		updated_at   DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'todo',
		priority     TEXT DEFAULT 'medium',
		project_id   TEXT DEFAULT '',
		due_date     DATETIME,
		created_at   DATETIME NOT NULL,
		updated_at   DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		item_kind   TEXT NOT NULL,
		item_id     TEXT NOT NULL,
		event_type  TEXT NOT NULL,
		content     TEXT DEFAULT '',
		timestamp   DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_item ON events(item_kind, item_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// --- Tasks ---

// TaskInput holds the fields accepted when creating a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      TaskStatus
	ProjectID   string
	DueDate     *time.Time
}

// CreateTask inserts a new task and returns it with the generated ID.
func (s *Store) CreateTask(in TaskInput) (*Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("create task: title is required")
	}
	if in.Priority == "" {
		in.Priority = "medium"
	}
	if in.Status == "" {
		in.Status = TaskTodo
	}
	if _, err := ParseTaskStatus(string(in.Status)); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	now := s.now()
	t := &Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		ProjectID:   in.ProjectID,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, description, status, priority, project_id, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status), t.Priority, t.ProjectID, t.DueDate, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	s.AddEvent(KindTask, t.ID, "created", fmt.Sprintf("Task created: %s", t.Title))
	return t, nil
}

const taskColumns = `id, title, description, status, priority, project_id, due_date, created_at, updated_at`

// GetTask returns a single task by ID.
func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// ListTasks returns all tasks, optionally filtered by status.
func (s *Store) ListTasks(status string) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus changes the status of a task.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status TaskStatus) error {
	if _, err := ParseTaskStatus(string(status)); err != nil {
		return err
	}
	return s.updateField(ctx, KindTask, "tasks", "status", id, string(status))
}

// --- Projects ---

// ProjectInput holds the fields accepted when creating a project.
type ProjectInput struct {
	Name        string
	Description string
	Status      ProjectStatus
	CustomerID  string
}

// CreateProject inserts a new project and returns it with the generated ID.
func (s *Store) CreateProject(in ProjectInput) (*Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("create project: name is required")
	}
	if in.Status == "" {
		in.Status = ProjectPlanning
	}
	if _, err := ParseProjectStatus(string(in.Status)); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	now := s.now()
	p := &Project{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		CustomerID:  in.CustomerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.Exec(
		`INSERT INTO projects (id, name, description, status, customer_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, string(p.Status), p.CustomerID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	s.AddEvent(KindProject, p.ID, "created", fmt.Sprintf("Project created: %s", p.Name))
	return p, nil
}

const projectColumns = `id, name, description, status, customer_id, created_at, updated_at`

// GetProject returns a single project by ID.
func (s *Store) GetProject(id string) (*Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// ListProjects returns all projects in creation order.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProjectStatus changes the status of a project.
func (s *Store) UpdateProjectStatus(ctx context.Context, id string, status ProjectStatus) error {
	if _, err := ParseProjectStatus(string(status)); err != nil {
		return err
	}
	return s.updateField(ctx, KindProject, "projects", "status", id, string(status))
}

// --- Customers ---

// CustomerInput holds the fields accepted when creating a customer.
type CustomerInput struct {
	Name         string
	Email        string
	Company      string
	CustomerType string
}

// CreateCustomer inserts a new customer. An empty type defaults to lead.
func (s *Store) CreateCustomer(in CustomerInput) (*Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("create customer: name is required")
	}
	if strings.TrimSpace(in.CustomerType) == "" {
		in.CustomerType = "lead"
	}

	now := s.now()
	c := &Customer{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Company:      in.Company,
		CustomerType: ParseCustomerType(in.CustomerType),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := s.db.Exec(
		`INSERT INTO customers (id, name, email, company, customer_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Company, c.CustomerType, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	s.AddEvent(KindCustomer, c.ID, "created", fmt.Sprintf("Customer created: %s", c.Name))
	return c, nil
}

const customerColumns = `id, name, email, company, customer_type, created_at, updated_at`

// GetCustomer returns a single customer by ID.
func (s *Store) GetCustomer(id string) (*Customer, error) {
	row := s.db.QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	return scanCustomer(row)
}

// ListCustomers returns all customers in creation order.
func (s *Store) ListCustomers() ([]Customer, error) {
	rows, err := s.db.Query(`SELECT ` + customerColumns + ` FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// UpdateCustomerType stores a new customer type. Any string is accepted;
// values outside the known set classify as other.
func (s *Store) UpdateCustomerType(ctx context.Context, id, customerType string) error {
	return s.updateField(ctx, KindCustomer, "customers", "customer_type", id, customerType)
}

// --- Patches ---

// Patch applies a partial update to the classification attribute of an
// item. Only status (tasks, projects) and customer_type (customers) are
// patchable.
func (s *Store) Patch(ctx context.Context, kind ItemKind, id string, p Patch) error {
	switch {
	case kind == KindTask && p.Field == "status":
		return s.UpdateTaskStatus(ctx, id, TaskStatus(p.Value))
	case kind == KindProject && p.Field == "status":
		return s.UpdateProjectStatus(ctx, id, ProjectStatus(p.Value))
	case kind == KindCustomer && p.Field == "customer_type":
		return s.UpdateCustomerType(ctx, id, p.Value)
	}
	return fmt.Errorf("%w: %s.%s", ErrUnknownField, kind, p.Field)
}

// updateField writes one column and records a reclassified event.
// table and column come from the fixed set above, never from user input.
func (s *Store) updateField(ctx context.Context, kind ItemKind, table, column, id, value string) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		value, now, id,
	)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", kind, column, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("update %s %s: %w", kind, id, ErrNotFound)
	}
	s.AddEvent(kind, id, "reclassified", fmt.Sprintf("%s changed to %s", column, value))
	return nil
}

// --- Events ---

// AddEvent records an event for an item. Failures are ignored: the
// history is informational.
func (s *Store) AddEvent(kind ItemKind, itemID, eventType, content string) {
	s.db.Exec(
		`INSERT INTO events (item_kind, item_id, event_type, content, timestamp) VALUES (?, ?, ?, ?, ?)`,
		string(kind), itemID, eventType, content, s.now(),
	)
}

// GetEvents returns all events for an item, oldest first.
func (s *Store) GetEvents(kind ItemKind, itemID string) ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT id, item_kind, item_id, event_type, content, timestamp FROM events
		 WHERE item_kind = ? AND item_id = ? ORDER BY timestamp, id`,
		string(kind), itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ItemKind, &e.ItemID, &e.Type, &e.Content, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// --- Scanning ---

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var due sql.NullTime
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.ProjectID, &due, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.CustomerID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &p, nil
}

func scanCustomer(row rowScanner) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.CustomerType, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return &c, nil
}
