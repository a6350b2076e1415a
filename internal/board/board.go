// Package board implements the drag-and-drop classification board engine.
//
// A Board partitions a live item list into columns with a Classifier. The
// grouping is derived: it is rebuilt from the latest item list on every
// SetItems call and never mutated on its own. A Controller owns the state of
// one drag gesture and turns cross-column hovers into Reclassifier calls.
package board

import (
	"io"

	"github.com/sirupsen/logrus"
)

// ColumnID identifies a column. Its values come from the classification
// domain of the board variant (a status, a customer type).
type ColumnID string

// Column is a named bucket of items.
type Column struct {
	ID    ColumnID
	Title string
}

// Classifier maps an item to the column it belongs in. It must be pure.
type Classifier[T any] func(T) ColumnID

// Group is one column together with the items currently classified into it.
type Group[T any] struct {
	Column Column
	Items  []T
}

// Board holds the static column list and the grouping derived from the
// current item list.
type Board[T any] struct {
	columns  []Column
	index    map[ColumnID]int
	classify Classifier[T]
	idOf     func(T) string
	fallback ColumnID
	log      logrus.FieldLogger

	items  []T
	byID   map[string]int
	groups [][]T
}

// Option configures a Board.
type Option func(*options)

type options struct {
	fallback ColumnID
	log      logrus.FieldLogger
}

// WithFallback names the catch-all column for items whose classification
// does not match any column.
func WithFallback(id ColumnID) Option {
	return func(o *options) { o.fallback = id }
}

// WithLogger sets the logger used by the board and its controllers.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// New creates a board over the given columns. idOf returns an item's
// stable unique identifier.
func New[T any](columns []Column, classify Classifier[T], idOf func(T) string, opts ...Option) *Board[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.log = discard
	}

	cols := make([]Column, len(columns))
	copy(cols, columns)
	index := make(map[ColumnID]int, len(cols))
	for i, c := range cols {
		index[c.ID] = i
	}

	b := &Board[T]{
		columns:  cols,
		index:    index,
		classify: classify,
		idOf:     idOf,
		fallback: o.fallback,
		log:      o.log,
	}
	b.SetItems(nil)
	return b
}

// SetItems replaces the item list and rebuilds the grouping. Any order
// applied with ApplyOrder is discarded.
func (b *Board[T]) SetItems(items []T) {
	b.items = make([]T, len(items))
	copy(b.items, items)
	b.byID = make(map[string]int, len(items))
	b.groups = make([][]T, len(b.columns))

	for i, it := range b.items {
		b.byID[b.idOf(it)] = i
		col, ok := b.columnOf(it)
		if !ok {
			b.log.WithFields(logrus.Fields{
				"item":   b.idOf(it),
				"column": b.classify(it),
			}).Warn("item classified into unknown column and board has no fallback")
			continue
		}
		idx := b.index[col]
		b.groups[idx] = append(b.groups[idx], it)
	}
}

// columnOf classifies an item and applies the fallback column.
func (b *Board[T]) columnOf(it T) (ColumnID, bool) {
	col := b.classify(it)
	if _, ok := b.index[col]; ok {
		return col, true
	}
	if b.fallback != "" {
		if _, ok := b.index[b.fallback]; ok {
			return b.fallback, true
		}
	}
	return "", false
}

// Columns returns the static column list.
func (b *Board[T]) Columns() []Column {
	out := make([]Column, len(b.columns))
	copy(out, b.columns)
	return out
}

// HasColumn reports whether id is one of the board's columns.
func (b *Board[T]) HasColumn(id ColumnID) bool {
	_, ok := b.index[id]
	return ok
}

// Len returns the number of items on the board.
func (b *Board[T]) Len() int { return len(b.items) }

// Items returns the ordered items of one column.
func (b *Board[T]) Items(col ColumnID) []T {
	idx, ok := b.index[col]
	if !ok {
		return nil
	}
	out := make([]T, len(b.groups[idx]))
	copy(out, b.groups[idx])
	return out
}

// Groups returns every column with its items, in column order.
func (b *Board[T]) Groups() []Group[T] {
	out := make([]Group[T], len(b.columns))
	for i, c := range b.columns {
		items := make([]T, len(b.groups[i]))
		copy(items, b.groups[i])
		out[i] = Group[T]{Column: c, Items: items}
	}
	return out
}

// Item looks up an item by id in the live list.
func (b *Board[T]) Item(id string) (T, bool) {
	i, ok := b.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return b.items[i], true
}

// ResolveContainer maps a drop target to a column. A column id resolves to
// itself, even when the column is empty; an item id resolves to the
// item's column. Column ids are checked first.
func (b *Board[T]) ResolveContainer(targetID string) (ColumnID, bool) {
	if targetID == "" {
		return "", false
	}
	if _, ok := b.index[ColumnID(targetID)]; ok {
		return ColumnID(targetID), true
	}
	it, ok := b.Item(targetID)
	if !ok {
		return "", false
	}
	return b.columnOf(it)
}

// Reorder computes the order of col after moving activeID to the position
// of overID. If overID is the column itself the item moves to the end.
// The result is for display only; the board is not changed.
func (b *Board[T]) Reorder(col ColumnID, activeID, overID string) []T {
	items := b.Items(col)
	from := b.indexIn(items, activeID)
	if from < 0 {
		return items
	}
	to := len(items) - 1
	if ColumnID(overID) != col {
		to = b.indexIn(items, overID)
		if to < 0 {
			return items
		}
	}
	return ArrayMove(items, from, to)
}

// ApplyOrder replaces the displayed order of one column until the next
// SetItems. items must be a permutation of the column's current items;
// anything else is ignored.
func (b *Board[T]) ApplyOrder(col ColumnID, items []T) {
	idx, ok := b.index[col]
	if !ok || len(items) != len(b.groups[idx]) {
		return
	}
	seen := make(map[string]bool, len(items))
	for _, it := range b.groups[idx] {
		seen[b.idOf(it)] = true
	}
	for _, it := range items {
		if !seen[b.idOf(it)] {
			return
		}
		delete(seen, b.idOf(it))
	}
	b.groups[idx] = append([]T(nil), items...)
}

func (b *Board[T]) indexIn(items []T, id string) int {
	for i, it := range items {
		if b.idOf(it) == id {
			return i
		}
	}
	return -1
}

// ArrayMove returns a copy of items with the element at from moved to
// index to. Out-of-range indexes return an unchanged copy.
func ArrayMove[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out
}
