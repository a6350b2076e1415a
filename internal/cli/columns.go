package cli

import (
	"fmt"
	"strings"

	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/sirupsen/logrus"
)

// cliCard is the printable form of a board item.
type cliCard struct {
	ID       string
	Title    string
	Meta     string
	Priority string
}

type cliColumn struct {
	ID    board.ColumnID
	Title string
	Cards []cliCard
}

// boardView is a loaded board plus a way to drag its items.
type boardView struct {
	Variant kanban.Variant
	Columns []cliColumn
	// move runs one drag gesture from the item to the target column.
	move func(id string, col board.ColumnID, r board.Reclassifier) board.Outcome[any]
}

// loadBoard reads one variant from the store and groups it.
func loadBoard(s *store.Store, v kanban.Variant, log logrus.FieldLogger) (*boardView, error) {
	switch v.Kind {
	case store.KindTask:
		tasks, err := s.ListTasks("")
		if err != nil {
			return nil, err
		}
		return newBoardView(v, kanban.NewTaskBoard(v, log), tasks, func(t store.Task) cliCard {
			return cliCard{ID: t.ID, Title: t.Title, Meta: t.Priority, Priority: t.Priority}
		}), nil
	case store.KindProject:
		projects, err := s.ListProjects()
		if err != nil {
			return nil, err
		}
		return newBoardView(v, kanban.NewProjectBoard(v, log), projects, func(p store.Project) cliCard {
			return cliCard{ID: p.ID, Title: p.Name}
		}), nil
	case store.KindCustomer:
		customers, err := s.ListCustomers()
		if err != nil {
			return nil, err
		}
		return newBoardView(v, kanban.NewCustomerBoard(v, log), customers, func(c store.Customer) cliCard {
			meta := c.Company
			if c.CustomerType.Kind == store.CustomerOther && c.CustomerType.Raw != "" {
				meta = strings.TrimSpace(meta + " [" + c.CustomerType.Raw + "]")
			}
			return cliCard{ID: c.ID, Title: c.Name, Meta: meta}
		}), nil
	}
	return nil, fmt.Errorf("unsupported item kind %q", v.Kind)
}

func newBoardView[T any](v kanban.Variant, b *board.Board[T], items []T, toCard func(T) cliCard) *boardView {
	b.SetItems(items)

	bv := &boardView{Variant: v}
	for _, g := range b.Groups() {
		col := cliColumn{ID: g.Column.ID, Title: g.Column.Title}
		for _, it := range g.Items {
			col.Cards = append(col.Cards, toCard(it))
		}
		bv.Columns = append(bv.Columns, col)
	}

	bv.move = func(id string, col board.ColumnID, r board.Reclassifier) board.Outcome[any] {
		c := board.NewController(b, r)
		c.DragStart(id)
		c.DragOver(id, string(col))
		out := c.DragEnd(id, string(col))
		return board.Outcome[any]{Kind: out.Kind, Session: out.Session, Column: out.Column}
	}
	return bv
}

// Len returns the number of grouped items.
func (bv *boardView) Len() int {
	n := 0
	for _, c := range bv.Columns {
		n += len(c.Cards)
	}
	return n
}

// Find looks an item up by full id or unique id prefix.
func (bv *boardView) Find(id string) (cliCard, board.ColumnID, error) {
	var (
		match    cliCard
		matchCol board.ColumnID
		n        int
	)
	for _, col := range bv.Columns {
		for _, c := range col.Cards {
			if c.ID == id {
				return c, col.ID, nil
			}
			if strings.HasPrefix(c.ID, id) {
				match, matchCol = c, col.ID
				n++
			}
		}
	}
	switch {
	case n == 1:
		return match, matchCol, nil
	case n > 1:
		return cliCard{}, "", fmt.Errorf("id prefix %q is ambiguous", id)
	}
	return cliCard{}, "", fmt.Errorf("%s %s: %w", bv.Variant.Kind, id, store.ErrNotFound)
}

// columnTitle returns the display title of a column id.
func (bv *boardView) columnTitle(id board.ColumnID) string {
	for _, c := range bv.Columns {
		if c.ID == id {
			return c.Title
		}
	}
	return string(id)
}
