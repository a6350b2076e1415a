package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/logging"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	m := New(s, Options{ActivationDistance: 3, Workers: 2, Logger: logging.Discard()})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, s
}

// reload refreshes every board synchronously.
func reload(t *testing.T, m Model) Model {
	t.Helper()
	for i, p := range m.panes {
		items, err := p.Fetch()
		require.NoError(t, err)
		m = send(t, m, itemsLoadedMsg{pane: i, items: items})
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	nm, _ := m.Update(msg)
	out, ok := nm.(Model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func createTask(t *testing.T, s *store.Store, title string, status store.TaskStatus) *store.Task {
	t.Helper()
	task, err := s.CreateTask(store.TaskInput{Title: title, Status: status})
	require.NoError(t, err)
	return task
}

func TestKeyboardDrag_CommitsOnHover(t *testing.T) {
	m, s := newTestModel(t)
	task := createTask(t, s, "Write docs", store.TaskTodo)
	m = reload(t, m)

	m = send(t, m, key(" "))
	require.True(t, m.kbDrag)
	assert.Equal(t, board.Dragging, m.pane().Session().State)

	m = send(t, m, key("l"))
	assert.Equal(t, 1, m.pane().Session().Dispatched)
	assert.Equal(t, board.ColumnID("in_progress"), m.pane().Session().Over)

	m = send(t, m, key("enter"))
	assert.False(t, m.kbDrag)
	assert.Equal(t, board.Idle, m.pane().Session().State)

	m.Wait()
	got, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, store.TaskInProgress, got.Status)
}

func TestKeyboardDrag_CancelKeepsCommittedMove(t *testing.T) {
	m, s := newTestModel(t)
	task := createTask(t, s, "Ship it", store.TaskTodo)
	m = reload(t, m)

	m = send(t, m, key(" "))
	m = send(t, m, key("l"))
	m = send(t, m, key("esc"))
	assert.False(t, m.kbDrag)

	m.Wait()
	got, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, store.TaskInProgress, got.Status, "cancel must not roll back a hover commit")
}

func TestKeyboardDrag_SameColumnDoesNotDispatch(t *testing.T) {
	m, s := newTestModel(t)
	createTask(t, s, "a", store.TaskTodo)
	createTask(t, s, "b", store.TaskTodo)
	m = reload(t, m)
	before := m.visibleCards(0)
	require.Len(t, before, 2)

	m = send(t, m, key(" "))
	m = send(t, m, key("j"))
	m = send(t, m, key("j"))
	assert.Equal(t, 0, m.pane().Session().Dispatched)

	m = send(t, m, key("enter"))
	assert.Contains(t, m.statusMsg, "Reordered")
	after := m.visibleCards(0)
	require.Len(t, after, 2)
	assert.Equal(t, before[1].ID, after[0].ID)
	assert.Equal(t, before[0].ID, after[1].ID)
}

func TestMouseDrag_DispatchesOnCrossing(t *testing.T) {
	m, s := newTestModel(t)
	task := createTask(t, s, "Drag me", store.TaskTodo)
	m = reload(t, m)

	// Column width is 20; the first card occupies rows 4-7 of column 0.
	require.Equal(t, task.ID, m.hit(3, cardsTop+1))

	m = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 3, cardsTop+1))
	assert.Equal(t, board.Idle, m.pane().Session().State, "press alone does not start a drag")

	m = send(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 45, cardsTop+1))
	sess := m.pane().Session()
	assert.Equal(t, board.Dragging, sess.State)
	assert.Equal(t, board.ColumnID("in_review"), sess.Over)
	assert.Equal(t, 1, sess.Dispatched)
	assert.Contains(t, m.View(), "Drag me")

	m = send(t, m, mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 45, cardsTop+1))
	assert.Equal(t, board.Idle, m.pane().Session().State)

	m.Wait()
	got, err := s.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, store.TaskInReview, got.Status)
}

func TestMouseDrag_BelowActivationDistanceIsClick(t *testing.T) {
	m, s := newTestModel(t)
	createTask(t, s, "Click me", store.TaskTodo)
	m = reload(t, m)

	m = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 3, cardsTop+1))
	m = send(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 4, cardsTop+1))
	assert.Equal(t, board.Idle, m.pane().Session().State)

	m = send(t, m, mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 4, cardsTop+1))
	assert.Equal(t, screenDetail, m.screen)
	assert.Equal(t, "Click me", m.detail.Title)
}

func TestMouseDrag_RightClickCancels(t *testing.T) {
	m, s := newTestModel(t)
	createTask(t, s, "x", store.TaskTodo)
	m = reload(t, m)

	m = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 3, cardsTop+1))
	m = send(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 3, cardsTop+4))
	require.Equal(t, board.Dragging, m.pane().Session().State)

	m = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonRight, 3, cardsTop+4))
	assert.Equal(t, board.Idle, m.pane().Session().State)
	assert.Equal(t, 0, m.pane().Session().Dispatched)
}

func TestHit(t *testing.T) {
	m, s := newTestModel(t)
	task := createTask(t, s, "a", store.TaskTodo)
	m = reload(t, m)

	assert.Equal(t, "", m.hit(10, 0), "header is not a target")
	assert.Equal(t, "todo", m.hit(10, columnTop), "column header")
	assert.Equal(t, task.ID, m.hit(10, cardsTop))
	assert.Equal(t, "todo", m.hit(10, cardsTop+cardHeight), "below the last card")
	assert.Equal(t, "done", m.hit(99, cardsTop))
	assert.Equal(t, "", m.hit(150, cardsTop), "past the last column")
}

func TestTabSwitchesBoard(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, "tasks", m.pane().Variant().Name)

	m = send(t, m, key("tab"))
	assert.Equal(t, "projects", m.pane().Variant().Name)
	m = send(t, m, key("tab"))
	assert.Equal(t, "customers", m.pane().Variant().Name)
	assert.Len(t, m.pane().Columns(), 5)
	m = send(t, m, key("tab"))
	assert.Equal(t, "tasks", m.pane().Variant().Name)
}

func TestTabDuringMouseDragEndsSession(t *testing.T) {
	m, s := newTestModel(t)
	createTask(t, s, "Half dragged", store.TaskTodo)
	m = reload(t, m)

	m = send(t, m, mouse(tea.MouseActionPress, tea.MouseButtonLeft, 3, cardsTop+1))
	m = send(t, m, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, 3, cardsTop+5))
	require.Equal(t, board.Dragging, m.pane().Session().State)

	m = send(t, m, key("tab"))
	assert.Equal(t, "projects", m.pane().Variant().Name)
	assert.False(t, m.detector.Dragging())
	m = send(t, m, mouse(tea.MouseActionRelease, tea.MouseButtonLeft, 3, cardsTop+5))

	sess := m.panes[0].Session()
	assert.Equal(t, board.Idle, sess.State)
	assert.Empty(t, sess.ActiveID)

	m = send(t, m, key("tab"))
	m = send(t, m, key("tab"))
	require.Equal(t, "tasks", m.pane().Variant().Name)
	assert.Equal(t, board.Idle, m.pane().Session().State)
}

func TestTickSkipsWhileBoardsLoading(t *testing.T) {
	m, _ := newTestModel(t)
	require.Equal(t, len(m.panes), m.pending, "Init loads every board")

	m = reload(t, m)
	require.Equal(t, 0, m.pending)

	m = send(t, m, tickMsg{})
	assert.Equal(t, len(m.panes), m.pending)

	// One board answering must not reopen the tick while the others are out.
	items, err := m.panes[0].Fetch()
	require.NoError(t, err)
	m = send(t, m, itemsLoadedMsg{pane: 0, items: items})
	assert.Equal(t, len(m.panes)-1, m.pending)

	m = send(t, m, tickMsg{})
	assert.Equal(t, len(m.panes)-1, m.pending)

	m = reload(t, m)
	assert.Equal(t, 0, m.pending)
}

func TestCreatePopup(t *testing.T) {
	m, s := newTestModel(t)
	m = send(t, m, key("tab"))
	m = send(t, m, key("tab"))
	m = send(t, m, key("l")) // prospect

	m = send(t, m, key("c"))
	require.Equal(t, popupCreate, m.popup)
	m = send(t, m, key("Acme"))

	nm, cmd := m.Update(key("enter"))
	m = nm.(Model)
	assert.Equal(t, popupNone, m.popup)
	require.NotNil(t, cmd)

	msg, ok := cmd().(itemCreatedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)

	customers, err := s.ListCustomers()
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Acme", customers[0].Name)
	assert.Equal(t, store.CustomerProspect, customers[0].CustomerType.Kind)
}

func TestFilterPopup(t *testing.T) {
	m, s := newTestModel(t)
	createTask(t, s, "Invoice Acme", store.TaskTodo)
	createTask(t, s, "Call Bob", store.TaskTodo)
	m = reload(t, m)

	m = send(t, m, key("/"))
	m = send(t, m, key("acme"))
	m = send(t, m, key("enter"))
	assert.Equal(t, "acme", m.filter)

	cards := m.visibleCards(0)
	require.Len(t, cards, 1)
	assert.Equal(t, "Invoice Acme", cards[0].Title)

	m = send(t, m, key("esc"))
	assert.Len(t, m.visibleCards(0), 2)
}

func TestResultErrorShowsStatus(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, resultMsg{ItemID: "gone", Column: "done", Err: store.ErrNotFound})
	assert.True(t, strings.HasPrefix(m.statusMsg, "Failed to move gone"))
}

func TestView_RendersColumns(t *testing.T) {
	m, s := newTestModel(t)
	createTask(t, s, "Visible", store.TaskBlocked)
	m = reload(t, m)

	out := m.View()
	for _, title := range []string{"To Do", "In Progress", "In Review", "Blocked", "Done", "Visible"} {
		assert.Contains(t, out, title)
	}
}
