// Package gesture turns raw pointer input into drag events.
//
// A press on an item only becomes a drag once the pointer has travelled at
// least the activation distance; a release before that is a click. Hover
// updates are reported only when the target under the pointer changes.
package gesture

// Kind is the type of an emitted event.
type Kind int

const (
	DragStart Kind = iota + 1
	DragOver
	DragEnd
	Click
)

func (k Kind) String() string {
	switch k {
	case DragStart:
		return "drag-start"
	case DragOver:
		return "drag-over"
	case DragEnd:
		return "drag-end"
	case Click:
		return "click"
	default:
		return "none"
	}
}

// Event is emitted by the detector. OverID is empty when the pointer is
// not over any target.
type Event struct {
	Kind     Kind
	ActiveID string
	OverID   string
	X, Y     int
}

// Detector tracks one pointer. The zero value is not usable; use New.
type Detector struct {
	minDistance int

	pressed  bool
	dragging bool
	originX  int
	originY  int
	pressID  string
	lastOver string
	x, y     int
}

// New creates a detector with the given activation distance in cells.
// Distances below 1 are raised to 1.
func New(minDistance int) *Detector {
	if minDistance < 1 {
		minDistance = 1
	}
	return &Detector{minDistance: minDistance}
}

// Dragging reports whether a drag has been activated.
func (d *Detector) Dragging() bool { return d.dragging }

// Pointer returns the last known pointer position.
func (d *Detector) Pointer() (int, int) { return d.x, d.y }

// Press records a button press on target id. Pressing on empty space or
// on a column header (empty id) arms nothing.
func (d *Detector) Press(x, y int, id string) []Event {
	d.x, d.y = x, y
	if d.dragging {
		// A second press during a drag cancels it.
		return d.Cancel()
	}
	d.pressed = id != ""
	d.pressID = id
	d.originX, d.originY = x, y
	d.lastOver = ""
	return nil
}

// Move records pointer motion over target over.
func (d *Detector) Move(x, y int, over string) []Event {
	d.x, d.y = x, y
	if !d.pressed {
		return nil
	}

	var events []Event
	if !d.dragging {
		if !d.exceeded(x, y) {
			return nil
		}
		d.dragging = true
		events = append(events, Event{Kind: DragStart, ActiveID: d.pressID, X: x, Y: y})
	}
	if over != d.lastOver {
		d.lastOver = over
		events = append(events, Event{Kind: DragOver, ActiveID: d.pressID, OverID: over, X: x, Y: y})
	}
	return events
}

// Release records the button release over target over.
func (d *Detector) Release(x, y int, over string) []Event {
	d.x, d.y = x, y
	if !d.pressed {
		return nil
	}
	id := d.pressID
	wasDragging := d.dragging
	d.reset()

	if !wasDragging {
		return []Event{{Kind: Click, ActiveID: id, OverID: id, X: x, Y: y}}
	}
	return []Event{{Kind: DragEnd, ActiveID: id, OverID: over, X: x, Y: y}}
}

// Cancel aborts an active drag. It emits DragEnd with no target when a
// drag was in progress.
func (d *Detector) Cancel() []Event {
	id := d.pressID
	wasDragging := d.dragging
	d.reset()
	if !wasDragging {
		return nil
	}
	return []Event{{Kind: DragEnd, ActiveID: id, X: d.x, Y: d.y}}
}

func (d *Detector) reset() {
	d.pressed = false
	d.dragging = false
	d.pressID = ""
	d.lastOver = ""
}

// exceeded reports whether (x, y) is at least minDistance cells from the
// press origin, measured as a straight line.
func (d *Detector) exceeded(x, y int) bool {
	dx := x - d.originX
	dy := y - d.originY
	return dx*dx+dy*dy >= d.minDistance*d.minDistance
}
