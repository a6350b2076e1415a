package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/gesture"
	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/imkarma/crmboard/internal/worker"
	"github.com/sirupsen/logrus"
)

// screen represents which screen the TUI is showing.
type screen int

const (
	screenBoard  screen = iota // Column board (main)
	screenDetail               // Item detail with event history
)

// popup represents an overlay dialog.
type popup int

const (
	popupNone   popup = iota
	popupCreate       // New item in the focused column
	popupFilter       // Filter cards by title
)

// Options configures a Model.
type Options struct {
	Variants           []kanban.Variant
	ActivationDistance int
	Workers            int
	Timeout            time.Duration
	RefreshInterval    time.Duration
	Logger             logrus.FieldLogger
}

// Model is the top-level bubbletea model.
type Model struct {
	store *store.Store
	log   logrus.FieldLogger
	opts  Options

	width  int
	height int

	screen screen
	popup  popup

	panes       []pane
	dispatchers []*worker.Dispatcher
	current     int

	// Board cursor.
	cursorCol int
	cursorRow int

	// Keyboard drag target while a card is picked up.
	kbDrag   bool
	hoverCol int
	hoverRow int

	// Mouse gestures.
	detector *gesture.Detector

	filter    string
	textInput textinput.Model

	// Detail screen.
	detail         card
	detailKind     store.ItemKind
	detailViewport viewport.Model

	results chan worker.Result

	statusMsg  string
	statusTime time.Time
	pending    int // board loads still in flight
	quitting   bool
}

// New creates a new TUI model over the given store.
func New(s *store.Store, opts Options) Model {
	if len(opts.Variants) == 0 {
		opts.Variants = kanban.Variants
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	results := make(chan worker.Result, 64)
	dcfg := worker.Config{
		MaxWorkers: opts.Workers,
		Timeout:    opts.Timeout,
		OnResult: func(r worker.Result) {
			select {
			case results <- r:
			default:
				opts.Logger.WithField("item", r.ItemID).Warn("result channel full, dropping notification")
			}
		},
	}
	panes, dispatchers := newPanes(s, opts.Variants, dcfg, opts.Logger)

	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 50

	return Model{
		store:          s,
		log:            opts.Logger,
		opts:           opts,
		screen:         screenBoard,
		panes:          panes,
		dispatchers:    dispatchers,
		detector:       gesture.New(opts.ActivationDistance),
		textInput:      ti,
		detailViewport: viewport.New(80, 20),
		results:        results,
		pending:        len(panes), // started by Init
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadItems(), m.waitForResult(), m.tickCmd())
}

// Wait blocks until all background reclassifications have finished.
func (m Model) Wait() {
	for _, d := range m.dispatchers {
		d.Wait()
	}
}

type itemsLoadedMsg struct {
	pane  int
	items any
	err   error
}

type eventsLoadedMsg struct {
	events []store.Event
	err    error
}

type resultMsg worker.Result

type itemCreatedMsg struct {
	title string
	err   error
}

type tickMsg time.Time

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// reload starts a load of every board and counts it as outstanding.
func (m *Model) reload() tea.Cmd {
	m.pending += len(m.panes)
	return m.loadItems()
}

// loadItems re-reads every board from the store.
func (m Model) loadItems() tea.Cmd {
	var cmds []tea.Cmd
	for i, p := range m.panes {
		i, p := i, p
		cmds = append(cmds, func() tea.Msg {
			items, err := p.Fetch()
			return itemsLoadedMsg{pane: i, items: items, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (m Model) waitForResult() tea.Cmd {
	ch := m.results
	return func() tea.Msg {
		return resultMsg(<-ch)
	}
}

func (m Model) loadEvents(kind store.ItemKind, id string) tea.Cmd {
	return func() tea.Msg {
		events, err := m.store.GetEvents(kind, id)
		return eventsLoadedMsg{events: events, err: err}
	}
}

func (m Model) createItem(v kanban.Variant, col board.ColumnID, title string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		var err error
		switch v.Kind {
		case store.KindTask:
			_, err = s.CreateTask(store.TaskInput{Title: title, Status: store.TaskStatus(col)})
		case store.KindProject:
			_, err = s.CreateProject(store.ProjectInput{Name: title, Status: store.ProjectStatus(col)})
		case store.KindCustomer:
			_, err = s.CreateCustomer(store.CustomerInput{Name: title, CustomerType: string(col)})
		}
		return itemCreatedMsg{title: title, err: err}
	}
}

func (m *Model) pane() pane { return m.panes[m.current] }

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTime = time.Now()
}

// visibleCards returns the filtered cards of column i on the current board.
func (m *Model) visibleCards(i int) []card {
	cols := m.pane().Columns()
	if i < 0 || i >= len(cols) {
		return nil
	}
	return m.pane().Cards(cols[i].ID, m.filter)
}

func (m *Model) clampCursor() {
	n := len(m.pane().Columns())
	if m.cursorCol >= n {
		m.cursorCol = n - 1
	}
	if m.cursorCol < 0 {
		m.cursorCol = 0
	}
	cards := m.visibleCards(m.cursorCol)
	if m.cursorRow >= len(cards) {
		m.cursorRow = len(cards) - 1
	}
	if m.cursorRow < 0 {
		m.cursorRow = 0
	}
}

func (m *Model) selectedCard() (card, bool) {
	cards := m.visibleCards(m.cursorCol)
	if m.cursorRow < len(cards) {
		return cards[m.cursorRow], true
	}
	return card{}, false
}

// hoverTarget is the drop target of a keyboard drag: the hovered card, or
// the column itself when the hover row is past the last card.
func (m *Model) hoverTarget() string {
	cards := m.visibleCards(m.hoverCol)
	if m.hoverRow >= 0 && m.hoverRow < len(cards) {
		return cards[m.hoverRow].ID
	}
	return string(m.pane().Columns()[m.hoverCol].ID)
}
