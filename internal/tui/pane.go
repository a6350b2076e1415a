package tui

import (
	"fmt"
	"strings"

	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/imkarma/crmboard/internal/worker"
	"github.com/sirupsen/logrus"
)

// card is the display form of any board item.
type card struct {
	ID    string
	Title string
	Meta  string
}

// pane adapts one generic board and its controller to the TUI.
type pane interface {
	Variant() kanban.Variant
	Columns() []board.Column
	Cards(col board.ColumnID, filter string) []card
	Card(id string) (card, bool)
	Len() int

	Fetch() (any, error)
	SetItems(items any)

	Session() board.Session
	Active() (card, bool)
	DragStart(id string)
	DragOver(activeID, overID string)
	DragEnd(activeID, overID string) board.OutcomeKind
}

type boardPane[T any] struct {
	variant kanban.Variant
	ctrl    *board.Controller[T]
	list    func() ([]T, error)
	toCard  func(T) card
}

func (p *boardPane[T]) Variant() kanban.Variant      { return p.variant }
func (p *boardPane[T]) Columns() []board.Column      { return p.ctrl.Board().Columns() }
func (p *boardPane[T]) Len() int                     { return p.ctrl.Board().Len() }
func (p *boardPane[T]) Session() board.Session       { return p.ctrl.Session() }
func (p *boardPane[T]) Fetch() (any, error)          { return p.list() }
func (p *boardPane[T]) DragStart(id string)          { p.ctrl.DragStart(id) }
func (p *boardPane[T]) DragOver(active, over string) { p.ctrl.DragOver(active, over) }

func (p *boardPane[T]) SetItems(items any) {
	if list, ok := items.([]T); ok {
		p.ctrl.Board().SetItems(list)
	}
}

func (p *boardPane[T]) Cards(col board.ColumnID, filter string) []card {
	items := p.ctrl.Board().Items(col)
	filter = strings.ToLower(filter)
	out := make([]card, 0, len(items))
	for _, it := range items {
		c := p.toCard(it)
		if filter != "" && !strings.Contains(strings.ToLower(c.Title), filter) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (p *boardPane[T]) Card(id string) (card, bool) {
	it, ok := p.ctrl.Board().Item(id)
	if !ok {
		return card{}, false
	}
	return p.toCard(it), true
}

func (p *boardPane[T]) Active() (card, bool) {
	it, ok := p.ctrl.Active()
	if !ok {
		return card{}, false
	}
	return p.toCard(it), true
}

// DragEnd ends the gesture. A same-column drop shows the computed order
// until the next refresh replaces it.
func (p *boardPane[T]) DragEnd(active, over string) board.OutcomeKind {
	out := p.ctrl.DragEnd(active, over)
	if out.Kind == board.Reordered {
		p.ctrl.Board().ApplyOrder(out.Column, out.Order)
	}
	return out.Kind
}

// newPanes wires the three board variants to the store through one
// dispatcher each.
func newPanes(s *store.Store, variants []kanban.Variant, dcfg worker.Config, log logrus.FieldLogger) ([]pane, []*worker.Dispatcher) {
	var panes []pane
	var dispatchers []*worker.Dispatcher

	dispatcher := func(v kanban.Variant) *worker.Dispatcher {
		cfg := dcfg
		cfg.Patcher = s
		cfg.Kind = v.Kind
		cfg.ToPatch = v.Patch
		cfg.Logger = log.WithField("board", v.Name)
		d := worker.NewDispatcher(cfg)
		dispatchers = append(dispatchers, d)
		return d
	}

	for _, v := range variants {
		blog := log.WithField("board", v.Name)
		switch v.Kind {
		case store.KindTask:
			b := kanban.NewTaskBoard(v, blog)
			panes = append(panes, &boardPane[store.Task]{
				variant: v,
				ctrl:    board.NewController(b, dispatcher(v)),
				list:    func() ([]store.Task, error) { return s.ListTasks("") },
				toCard:  taskCard,
			})
		case store.KindProject:
			b := kanban.NewProjectBoard(v, blog)
			panes = append(panes, &boardPane[store.Project]{
				variant: v,
				ctrl:    board.NewController(b, dispatcher(v)),
				list:    s.ListProjects,
				toCard:  projectCard,
			})
		case store.KindCustomer:
			b := kanban.NewCustomerBoard(v, blog)
			panes = append(panes, &boardPane[store.Customer]{
				variant: v,
				ctrl:    board.NewController(b, dispatcher(v)),
				list:    s.ListCustomers,
				toCard:  customerCard,
			})
		}
	}
	return panes, dispatchers
}

func taskCard(t store.Task) card {
	meta := t.Priority
	if t.DueDate != nil {
		meta += " · due " + t.DueDate.Format("Jan 2")
	}
	return card{ID: t.ID, Title: t.Title, Meta: meta}
}

func projectCard(p store.Project) card {
	meta := fmt.Sprintf("updated %s", p.UpdatedAt.Format("Jan 2"))
	return card{ID: p.ID, Title: p.Name, Meta: meta}
}

func customerCard(c store.Customer) card {
	meta := c.Company
	if c.CustomerType.Kind == store.CustomerOther && c.CustomerType.Raw != "" {
		meta = strings.TrimSpace(meta + " [" + c.CustomerType.Raw + "]")
	}
	if meta == "" {
		meta = c.Email
	}
	return card{ID: c.ID, Title: c.Name, Meta: meta}
}
