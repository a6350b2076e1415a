package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/gesture"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If popup is active, handle popup keys first.
		if m.popup != popupNone {
			return m.handlePopupKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.screen != screenBoard || m.popup != popupNone || m.kbDrag {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vw := m.width - 4
		vh := m.height - 8
		if vw < 20 {
			vw = 20
		}
		if vh < 5 {
			vh = 5
		}
		m.detailViewport.Width = vw
		m.detailViewport.Height = vh
		return m, nil

	case itemsLoadedMsg:
		if msg.err != nil {
			m.setStatus("Failed to load items: " + msg.err.Error())
		} else if msg.pane < len(m.panes) {
			m.panes[msg.pane].SetItems(msg.items)
		}
		if m.pending > 0 {
			m.pending--
		}
		m.clampCursor()
		return m, nil

	case resultMsg:
		if msg.Err != nil {
			name := msg.ItemID
			if c, ok := m.cardFor(msg.ItemID); ok {
				name = c.Title
			}
			m.setStatus(fmt.Sprintf("Failed to move %s to %s: %v", name, msg.Column, msg.Err))
		}
		// The store is the source of truth; re-read it after every patch.
		load := m.reload()
		return m, tea.Batch(m.waitForResult(), load)

	case itemCreatedMsg:
		if msg.err != nil {
			m.setStatus("Error: " + msg.err.Error())
			return m, nil
		}
		m.setStatus("Created " + msg.title)
		load := m.reload()
		return m, load

	case eventsLoadedMsg:
		if msg.err != nil {
			m.setStatus("Failed to load history: " + msg.err.Error())
			return m, nil
		}
		m.detailViewport.SetContent(renderEvents(msg.events))
		m.detailViewport.GotoTop()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{m.tickCmd()}
		if m.statusMsg != "" && time.Since(m.statusTime) > 5*time.Second {
			m.statusMsg = ""
		}
		if m.pending == 0 {
			cmds = append(cmds, m.reload())
		}
		return m, tea.Batch(cmds...)
	}

	if m.screen == screenDetail {
		var cmd tea.Cmd
		m.detailViewport, cmd = m.detailViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.screen {
	case screenDetail:
		return m.handleDetailKey(msg)
	default:
		if m.kbDrag {
			return m.handleDragKey(msg)
		}
		return m.handleBoardKey(msg)
	}
}

// --- Board screen keys ---

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.clampCursor()
		} else if evs := m.detector.Cancel(); len(evs) > 0 {
			m.applyGestures(evs)
		}

	// Navigation.
	case "j", "down":
		m.cursorRow++
		m.clampCursor()
	case "k", "up":
		m.cursorRow--
		m.clampCursor()
	case "h", "left":
		m.cursorCol--
		m.clampCursor()
	case "l", "right":
		m.cursorCol++
		m.clampCursor()

	// Switch board.
	case "tab":
		m.switchBoard(1)
	case "shift+tab":
		m.switchBoard(len(m.panes) - 1)

	// Pick up the selected card.
	case " ":
		if c, ok := m.selectedCard(); ok {
			m.pane().DragStart(c.ID)
			if m.pane().Session().State == board.Dragging {
				m.kbDrag = true
				m.hoverCol, m.hoverRow = m.cursorCol, m.cursorRow
			}
		}

	// Open detail.
	case "enter":
		if c, ok := m.selectedCard(); ok {
			return m.openDetail(c)
		}

	// Create in focused column.
	case "c", "ctrl+n":
		col := m.pane().Columns()[m.cursorCol]
		m.popup = popupCreate
		m.textInput.Reset()
		m.textInput.Placeholder = fmt.Sprintf("New %s in %s...", m.pane().Variant().Kind, col.Title)
		m.textInput.Focus()
		return m, textinput.Blink

	// Filter.
	case "/":
		m.popup = popupFilter
		m.textInput.Reset()
		m.textInput.SetValue(m.filter)
		m.textInput.Placeholder = "Filter by title..."
		m.textInput.Focus()
		return m, textinput.Blink

	// Refresh.
	case "R":
		load := m.reload()
		return m, load
	}

	return m, nil
}

// switchBoard moves to another board. A mouse drag in progress is
// cancelled on the board it started on first.
func (m *Model) switchBoard(step int) {
	if evs := m.detector.Cancel(); len(evs) > 0 {
		m.applyGestures(evs)
	}
	m.current = (m.current + step) % len(m.panes)
	m.cursorCol, m.cursorRow = 0, 0
	m.clampCursor()
}

// --- Keyboard drag ---

// handleDragKey moves the hover target of a picked-up card. Every change
// of target is reported to the controller, which dispatches the
// reclassification as soon as the target lies in another column.
func (m Model) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sess := m.pane().Session()
	ncols := len(m.pane().Columns())

	switch msg.String() {
	case "h", "left":
		if m.hoverCol > 0 {
			m.hoverCol--
			m.hoverRow = len(m.visibleCards(m.hoverCol))
			m.pane().DragOver(sess.ActiveID, m.hoverTarget())
		}
	case "l", "right":
		if m.hoverCol < ncols-1 {
			m.hoverCol++
			m.hoverRow = len(m.visibleCards(m.hoverCol))
			m.pane().DragOver(sess.ActiveID, m.hoverTarget())
		}
	case "k", "up":
		if m.hoverRow > 0 {
			m.hoverRow--
			m.pane().DragOver(sess.ActiveID, m.hoverTarget())
		}
	case "j", "down":
		if m.hoverRow < len(m.visibleCards(m.hoverCol)) {
			m.hoverRow++
			m.pane().DragOver(sess.ActiveID, m.hoverTarget())
		}
	case "enter", " ":
		target := m.hoverTarget()
		kind := m.pane().DragEnd(sess.ActiveID, target)
		m.kbDrag = false
		m.cursorCol = m.hoverCol
		m.cursorRow = m.hoverRow
		m.clampCursor()
		if kind == board.Reordered {
			m.setStatus("Reordered (this order is not saved)")
		}
	case "esc", "q":
		m.pane().DragEnd(sess.ActiveID, "")
		m.kbDrag = false
	}
	return m, nil
}

// --- Mouse ---

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	target := m.hit(msg.X, msg.Y)
	var evs []gesture.Event

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			// Only cards can be picked up; pressing a column area arms nothing.
			id := target
			if _, ok := m.pane().Card(id); !ok {
				id = ""
			}
			evs = m.detector.Press(msg.X, msg.Y, id)
		case tea.MouseButtonRight:
			evs = m.detector.Cancel()
		}
	case tea.MouseActionMotion:
		evs = m.detector.Move(msg.X, msg.Y, target)
	case tea.MouseActionRelease:
		evs = m.detector.Release(msg.X, msg.Y, target)
	}

	return m.applyGestures(evs)
}

// applyGestures feeds detector events into the current board's controller.
func (m *Model) applyGestures(evs []gesture.Event) (tea.Model, tea.Cmd) {
	for _, ev := range evs {
		switch ev.Kind {
		case gesture.DragStart:
			m.pane().DragStart(ev.ActiveID)
		case gesture.DragOver:
			m.pane().DragOver(ev.ActiveID, ev.OverID)
		case gesture.DragEnd:
			if m.pane().DragEnd(ev.ActiveID, ev.OverID) == board.Reordered {
				m.setStatus("Reordered (this order is not saved)")
			}
		case gesture.Click:
			if c, ok := m.pane().Card(ev.ActiveID); ok {
				return m.openDetail(c)
			}
		}
	}
	return *m, nil
}

// --- Detail screen ---

func (m Model) openDetail(c card) (tea.Model, tea.Cmd) {
	m.detail = c
	m.detailKind = m.pane().Variant().Kind
	m.screen = screenDetail
	m.detailViewport.SetContent("Loading...")
	return m, m.loadEvents(m.detailKind, c.ID)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "backspace":
		m.screen = screenBoard
		load := m.reload()
		return m, load
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// --- Popups ---

func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.popup = popupNone
		m.textInput.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.textInput.Value())
		p := m.popup
		m.popup = popupNone
		m.textInput.Blur()
		switch p {
		case popupCreate:
			if value == "" {
				m.setStatus("Title cannot be empty")
				return m, nil
			}
			col := m.pane().Columns()[m.cursorCol]
			return m, m.createItem(m.pane().Variant(), col.ID, value)
		case popupFilter:
			m.filter = value
			m.cursorRow = 0
			m.clampCursor()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// cardFor finds an item on any board.
func (m *Model) cardFor(id string) (card, bool) {
	for _, p := range m.panes {
		if c, ok := p.Card(id); ok {
			return c, true
		}
	}
	return card{}, false
}
