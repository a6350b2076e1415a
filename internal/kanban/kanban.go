// Package kanban defines the three board variants built on the board
// engine: tasks by status, projects by status and customers by type.
package kanban

import (
	"fmt"

	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/sirupsen/logrus"
)

// Variant describes one board: its columns, the item kind it shows and the
// attribute a reclassification writes.
type Variant struct {
	Name     string
	Kind     store.ItemKind
	Field    string
	Columns  []board.Column
	Fallback board.ColumnID
}

// OtherColumn is the catch-all column of the customer board.
const OtherColumn board.ColumnID = "other"

var (
	// Tasks is the 5-status task board.
	Tasks = Variant{
		Name:  "tasks",
		Kind:  store.KindTask,
		Field: "status",
		Columns: []board.Column{
			{ID: board.ColumnID(store.TaskTodo), Title: "To Do"},
			{ID: board.ColumnID(store.TaskInProgress), Title: "In Progress"},
			{ID: board.ColumnID(store.TaskInReview), Title: "In Review"},
			{ID: board.ColumnID(store.TaskBlocked), Title: "Blocked"},
			{ID: board.ColumnID(store.TaskDone), Title: "Done"},
		},
	}

	// Projects is the 5-status project board.
	Projects = Variant{
		Name:  "projects",
		Kind:  store.KindProject,
		Field: "status",
		Columns: []board.Column{
			{ID: board.ColumnID(store.ProjectPlanning), Title: "Planning"},
			{ID: board.ColumnID(store.ProjectActive), Title: "Active"},
			{ID: board.ColumnID(store.ProjectOnHold), Title: "On Hold"},
			{ID: board.ColumnID(store.ProjectCompleted), Title: "Completed"},
			{ID: board.ColumnID(store.ProjectCancelled), Title: "Cancelled"},
		},
	}

	// Customers is the customer-relationship board: four known types plus
	// a catch-all for any other value.
	Customers = Variant{
		Name:  "customers",
		Kind:  store.KindCustomer,
		Field: "customer_type",
		Columns: []board.Column{
			{ID: "client", Title: "Clients"},
			{ID: "prospect", Title: "Prospects"},
			{ID: "lead", Title: "Leads"},
			{ID: "inactive", Title: "Inactive"},
			{ID: OtherColumn, Title: "Other"},
		},
		Fallback: OtherColumn,
	}
)

// Variants lists the boards in display order.
var Variants = []Variant{Tasks, Projects, Customers}

// Lookup finds a variant by name. Singular names are accepted too.
func Lookup(name string) (Variant, error) {
	for _, v := range Variants {
		if name == v.Name || name == string(v.Kind) {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown board %q (want tasks, projects or customers)", name)
}

// Patch maps a column onto the variant's classification attribute.
func (v Variant) Patch(col board.ColumnID) store.Patch {
	return store.Patch{Field: v.Field, Value: string(col)}
}

// HasColumn reports whether id is a column of the variant.
func (v Variant) HasColumn(id board.ColumnID) bool {
	for _, c := range v.Columns {
		if c.ID == id {
			return true
		}
	}
	return false
}

// WithTitles returns a copy of v with column titles overridden. Unknown
// column ids are reported as an error.
func (v Variant) WithTitles(titles map[string]string) (Variant, error) {
	cols := make([]board.Column, len(v.Columns))
	copy(cols, v.Columns)
	for id, title := range titles {
		found := false
		for i := range cols {
			if string(cols[i].ID) == id {
				cols[i].Title = title
				found = true
			}
		}
		if !found {
			return v, fmt.Errorf("board %s has no column %q", v.Name, id)
		}
	}
	v.Columns = cols
	return v, nil
}

func (v Variant) options(log logrus.FieldLogger) []board.Option {
	opts := []board.Option{board.WithLogger(log)}
	if v.Fallback != "" {
		opts = append(opts, board.WithFallback(v.Fallback))
	}
	return opts
}

// ClassifyTask maps a task to the column of the same status.
func ClassifyTask(t store.Task) board.ColumnID { return board.ColumnID(t.Status) }

// ClassifyProject maps a project to the column of the same status.
func ClassifyProject(p store.Project) board.ColumnID { return board.ColumnID(p.Status) }

// ClassifyCustomer maps a customer to its normalized type, or to the
// other column for any type outside the known set.
func ClassifyCustomer(c store.Customer) board.ColumnID {
	if c.CustomerType.Kind == store.CustomerOther {
		return OtherColumn
	}
	return board.ColumnID(c.CustomerType.Name())
}

// NewTaskBoard builds a task board for variant v (normally Tasks).
func NewTaskBoard(v Variant, log logrus.FieldLogger) *board.Board[store.Task] {
	return board.New(v.Columns, ClassifyTask, func(t store.Task) string { return t.ID }, v.options(log)...)
}

// NewProjectBoard builds a project board for variant v (normally Projects).
func NewProjectBoard(v Variant, log logrus.FieldLogger) *board.Board[store.Project] {
	return board.New(v.Columns, ClassifyProject, func(p store.Project) string { return p.ID }, v.options(log)...)
}

// NewCustomerBoard builds a customer board for variant v (normally Customers).
func NewCustomerBoard(v Variant, log logrus.FieldLogger) *board.Board[store.Customer] {
	return board.New(v.Columns, ClassifyCustomer, func(c store.Customer) string { return c.ID }, v.options(log)...)
}
