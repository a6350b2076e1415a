package board

import (
	"github.com/sirupsen/logrus"
)

// Reclassifier receives reclassification intents. Calls are fire-and-forget:
// implementations must return promptly and must tolerate the same
// (itemID, column) pair arriving more than once.
type Reclassifier interface {
	Reclassify(itemID string, column ColumnID)
}

// ReclassifierFunc adapts a function to Reclassifier.
type ReclassifierFunc func(itemID string, column ColumnID)

// Reclassify implements Reclassifier.
func (f ReclassifierFunc) Reclassify(itemID string, column ColumnID) { f(itemID, column) }

// State is the phase of a drag session.
type State int

const (
	Idle State = iota
	Dragging
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Session is the transient state of one drag gesture.
type Session struct {
	State    State
	ActiveID string
	// Source is the active item's column when the gesture started.
	Source ColumnID
	// Over is the last column hovered during the gesture, if any.
	Over ColumnID
	// Dispatched counts reclassify calls issued during the gesture.
	Dispatched int
}

// OutcomeKind describes how a gesture ended.
type OutcomeKind int

const (
	// Aborted: dropped outside any target, cancelled, or the target could
	// not be resolved.
	Aborted OutcomeKind = iota
	// Reordered: dropped inside its own column. Order holds the computed
	// column order, which is not persisted.
	Reordered
	// Moved: dropped in another column. The reclassification was already
	// dispatched while hovering.
	Moved
)

func (k OutcomeKind) String() string {
	switch k {
	case Reordered:
		return "reordered"
	case Moved:
		return "moved"
	default:
		return "aborted"
	}
}

// Outcome is returned by DragEnd.
type Outcome[T any] struct {
	Kind    OutcomeKind
	Session Session // final session, State == Ended
	Column  ColumnID
	Order   []T
}

// Controller drives the drag session state machine for one board.
// It is not safe for concurrent use; host UI events are delivered on a
// single goroutine.
type Controller[T any] struct {
	board    *Board[T]
	dispatch Reclassifier
	log      logrus.FieldLogger
	session  Session
}

// NewController creates a controller that sends reclassifications to r.
func NewController[T any](b *Board[T], r Reclassifier) *Controller[T] {
	return &Controller[T]{board: b, dispatch: r, log: b.log}
}

// Board returns the board this controller operates on.
func (c *Controller[T]) Board() *Board[T] { return c.board }

// Session returns a copy of the current session.
func (c *Controller[T]) Session() Session { return c.session }

// Dragging reports whether a gesture is in progress.
func (c *Controller[T]) Dragging() bool { return c.session.State == Dragging }

// Active returns the item being dragged, for overlay rendering.
func (c *Controller[T]) Active() (T, bool) {
	if c.session.State != Dragging {
		var zero T
		return zero, false
	}
	return c.board.Item(c.session.ActiveID)
}

// DragStart begins a gesture on item id. The host must only call it once
// the pointer has travelled past its activation distance, so a plain click
// never starts a drag. Unknown ids leave the controller idle. A start
// during an active gesture replaces that gesture.
func (c *Controller[T]) DragStart(id string) {
	src, ok := c.board.ResolveContainer(id)
	if !ok || c.board.HasColumn(ColumnID(id)) {
		c.log.WithField("active", id).Debug("drag start on unknown item ignored")
		c.session = Session{}
		return
	}
	c.session = Session{State: Dragging, ActiveID: id, Source: src}
	c.log.WithFields(logrus.Fields{"active": id, "column": src}).Debug("drag started")
}

// DragOver handles a hover update. When the hovered column differs from
// the active item's column the reclassification is dispatched immediately,
// once per newly entered column.
func (c *Controller[T]) DragOver(activeID, overID string) {
	if c.session.State != Dragging || activeID != c.session.ActiveID {
		return
	}
	over, ok := c.board.ResolveContainer(overID)
	if !ok {
		return
	}
	if over == c.session.Over {
		return
	}
	c.session.Over = over

	source := c.currentSource()
	if over == source {
		return
	}

	c.log.WithFields(logrus.Fields{"active": activeID, "from": source, "column": over}).Debug("hover crossing")
	c.session.Dispatched++
	c.dispatch.Reclassify(activeID, over)
}

// DragEnd finishes the gesture. An empty overID aborts. A drop inside the
// active item's own column computes a display-only reorder; a drop in
// another column does nothing more because the hover already dispatched.
// The controller is idle afterwards in every case.
func (c *Controller[T]) DragEnd(activeID, overID string) Outcome[T] {
	sess := c.session
	c.session = Session{}
	sess.State = Ended

	out := Outcome[T]{Kind: Aborted, Session: sess}
	if sess.ActiveID == "" || activeID != sess.ActiveID || overID == "" {
		c.log.WithField("active", activeID).Debug("drag aborted")
		return out
	}

	source, ok := c.board.ResolveContainer(activeID)
	if !ok {
		source = sess.Source
	}
	over, ok := c.board.ResolveContainer(overID)
	if !ok {
		c.log.WithFields(logrus.Fields{"active": activeID, "over": overID}).Debug("drop target unresolved")
		return out
	}

	out.Column = over
	if source != over {
		out.Kind = Moved
		return out
	}

	out.Kind = Reordered
	out.Order = c.board.Reorder(over, activeID, overID)
	ids := make([]string, len(out.Order))
	for i, it := range out.Order {
		ids[i] = c.board.idOf(it)
	}
	// TODO: persist intra-column order once items carry a position field.
	c.log.WithFields(logrus.Fields{"column": over, "order": ids}).Debug("column reordered (not persisted)")
	return out
}

// currentSource re-resolves the active item's column from the live item
// list, so a refresh that lands mid-gesture is taken into account.
func (c *Controller[T]) currentSource() ColumnID {
	if src, ok := c.board.ResolveContainer(c.session.ActiveID); ok {
		return src
	}
	return c.session.Source
}
