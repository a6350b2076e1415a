package kanban

import (
	"testing"

	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskBoard_EveryStatusHasAColumn(t *testing.T) {
	for _, st := range store.TaskStatuses {
		assert.True(t, Tasks.HasColumn(ClassifyTask(store.Task{Status: st})), "status %s", st)
	}
	assert.Len(t, Tasks.Columns, 5)
}

func TestProjectBoard_EveryStatusHasAColumn(t *testing.T) {
	for _, st := range store.ProjectStatuses {
		assert.True(t, Projects.HasColumn(ClassifyProject(store.Project{Status: st})), "status %s", st)
	}
	assert.Len(t, Projects.Columns, 5)
}

func TestClassifyCustomer(t *testing.T) {
	tests := []struct {
		raw  string
		want board.ColumnID
	}{
		{"client", "client"},
		{"Client", "client"},
		{"PROSPECT", "prospect"},
		{"lead", "lead"},
		{"inactive", "inactive"},
		{"enterprise", OtherColumn},
		{"", OtherColumn},
	}
	for _, tt := range tests {
		c := store.Customer{CustomerType: store.ParseCustomerType(tt.raw)}
		got := ClassifyCustomer(c)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		assert.True(t, Customers.HasColumn(got))
	}
}

func TestCustomerBoard_FallbackContainment(t *testing.T) {
	b := NewCustomerBoard(Customers, nil)
	b.SetItems([]store.Customer{
		{ID: "c1", CustomerType: store.ParseCustomerType("client")},
		{ID: "c2", CustomerType: store.ParseCustomerType("enterprise")},
		{ID: "c3", CustomerType: store.ParseCustomerType("Lead")},
	})

	other := b.Items(OtherColumn)
	require.Len(t, other, 1)
	assert.Equal(t, "c2", other[0].ID)
	assert.Len(t, b.Items("lead"), 1)
}

func TestTaskBoard_HoverCrossingPatchesStatus(t *testing.T) {
	b := NewTaskBoard(Tasks, nil)
	b.SetItems([]store.Task{{ID: "t1", Status: store.TaskTodo}})

	var patches []store.Patch
	c := board.NewController(b, board.ReclassifierFunc(func(id string, col board.ColumnID) {
		patches = append(patches, Tasks.Patch(col))
	}))
	c.DragStart("t1")
	c.DragOver("t1", "in_progress")
	c.DragOver("t1", "in_review")
	c.DragEnd("t1", "in_review")

	assert.Equal(t, []store.Patch{
		{Field: "status", Value: "in_progress"},
		{Field: "status", Value: "in_review"},
	}, patches)
}

func TestCustomersPatch(t *testing.T) {
	assert.Equal(t, store.Patch{Field: "customer_type", Value: "prospect"}, Customers.Patch("prospect"))
}

func TestLookup(t *testing.T) {
	v, err := Lookup("customer")
	require.NoError(t, err)
	assert.Equal(t, "customers", v.Name)

	_, err = Lookup("invoices")
	assert.Error(t, err)
}

func TestWithTitles(t *testing.T) {
	v, err := Tasks.WithTitles(map[string]string{"todo": "Backlog"})
	require.NoError(t, err)
	assert.Equal(t, "Backlog", v.Columns[0].Title)
	assert.Equal(t, "To Do", Tasks.Columns[0].Title, "original variant unchanged")

	_, err = Tasks.WithTitles(map[string]string{"archived": "x"})
	assert.Error(t, err)
}
