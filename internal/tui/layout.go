package tui

// Board geometry. View and hit share these so mouse coordinates land on
// what is drawn.
const (
	headerRows   = 2 // title line + blank
	columnTop    = headerRows
	columnHeadH  = 2 // column title + rule
	cardsTop     = columnTop + columnHeadH
	cardHeight   = 4 // border + title + meta + border
	footerRows   = 5 // overlay, status, footer
	defaultWidth = 100
	minColWidth  = 18
)

func (m *Model) colWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	n := len(m.pane().Columns())
	if n == 0 {
		return w
	}
	cw := w / n
	if cw < minColWidth {
		cw = minColWidth
	}
	return cw
}

// visibleRows is how many cards fit under each column header.
func (m *Model) visibleRows() int {
	if m.height <= 0 {
		return 8
	}
	rows := (m.height - cardsTop - footerRows) / cardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// colOffset scrolls a column so that its focused row stays on screen.
func (m *Model) colOffset(col int) int {
	row := -1
	switch {
	case m.kbDrag && col == m.hoverCol:
		row = m.hoverRow
	case col == m.cursorCol:
		row = m.cursorRow
	}
	if off := row - m.visibleRows() + 1; off > 0 {
		return off
	}
	return 0
}

// hit maps a terminal cell to a drop target: a card id, a column id, or
// "" outside the board.
func (m *Model) hit(x, y int) string {
	cols := m.pane().Columns()
	if y < columnTop || x < 0 || len(cols) == 0 {
		return ""
	}
	i := x / m.colWidth()
	if i >= len(cols) {
		return ""
	}
	colID := string(cols[i].ID)
	if y < cardsTop {
		return colID
	}
	slot := (y - cardsTop) / cardHeight
	if slot >= m.visibleRows() {
		return colID
	}
	cards := m.visibleCards(i)
	if idx := slot + m.colOffset(i); idx < len(cards) {
		return cards[idx].ID
	}
	return colID
}
