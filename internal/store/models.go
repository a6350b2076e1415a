package store

import (
	"fmt"
	"time"
)

// TaskStatus represents the current state of a task on the task board.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskInReview   TaskStatus = "in_review"
	TaskBlocked    TaskStatus = "blocked"
	TaskDone       TaskStatus = "done"
)

// TaskStatuses lists every task status in board order.
var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskInReview, TaskBlocked, TaskDone}

// ParseTaskStatus validates a raw status string.
func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, st := range TaskStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: task status %q", ErrInvalidStatus, s)
}

// ProjectStatus represents the lifecycle stage of a project.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ProjectStatuses lists every project status in board order.
var ProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled}

// ParseProjectStatus validates a raw status string.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, st := range ProjectStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: project status %q", ErrInvalidStatus, s)
}

// ItemKind names the table an item lives in.
type ItemKind string

const (
	KindTask     ItemKind = "task"
	KindProject  ItemKind = "project"
	KindCustomer ItemKind = "customer"
)

// Task is a unit of work, optionally attached to a project.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    string     `json:"priority,omitempty"` // high, medium, low
	ProjectID   string     `json:"project_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Project groups tasks for a customer.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	CustomerID  string        `json:"customer_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Customer is a CRM contact. CustomerType is stored as an open string.
type Customer struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email,omitempty"`
	Company      string       `json:"company,omitempty"`
	CustomerType CustomerType `json:"customer_type"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Event represents something that happened to an item.
type Event struct {
	ID        int64     `json:"id"`
	ItemKind  ItemKind  `json:"item_kind"`
	ItemID    string    `json:"item_id"`
	Type      string    `json:"event_type"` // created, reclassified, comment
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Patch is a partial update of a single classification attribute,
// e.g. {status: in_review} or {customer_type: lead}.
type Patch struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (p Patch) String() string {
	return fmt.Sprintf("{%s: %s}", p.Field, p.Value)
}
