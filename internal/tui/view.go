package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/store"
)

// --- Color palette ---
var (
	clrSubtle    = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#666666"}
	clrHighlight = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	clrGreen     = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	clrYellow    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	clrRed       = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	clrCyan      = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	clrDim       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}
)

// --- Styles ---
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	dimStyle    = lipgloss.NewStyle().Foreground(clrDim)
	subtleStyle = lipgloss.NewStyle().Foreground(clrSubtle)

	tabStyle       = lipgloss.NewStyle().Foreground(clrSubtle).Padding(0, 1)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight).Underline(true).Padding(0, 1)

	columnHeadStyle      = lipgloss.NewStyle().Bold(true)
	columnHeadHoverStyle = lipgloss.NewStyle().Bold(true).Foreground(clrYellow)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrSubtle).
			Padding(0, 1)

	cardSelectedStyle = cardStyle.
				BorderForeground(clrHighlight).
				Bold(true)

	cardHoverStyle = cardStyle.
			BorderForeground(clrYellow)

	// Placeholder left in the source column while its card is dragged.
	cardGhostStyle = cardStyle.
			BorderForeground(clrDim).
			Foreground(clrDim)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(clrYellow).
			Padding(0, 1)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(clrHighlight).
			Padding(1, 2).
			Width(60)

	statusStyle = lipgloss.NewStyle().Foreground(clrGreen).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(clrRed).Bold(true)

	footerKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrHighlight)
	footerDescStyle = lipgloss.NewStyle().Foreground(clrSubtle)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.screen {
	case screenDetail:
		content = m.viewDetail()
	default:
		content = m.viewBoard()
	}

	if m.popup != popupNone {
		content = m.overlayPopup(content)
	}
	return content
}

// ════════════════════════════════════════════════
// BOARD VIEW
// ════════════════════════════════════════════════

func (m Model) viewBoard() string {
	var b strings.Builder

	// Header: one tab per board.
	var tabs []string
	for i, p := range m.panes {
		label := fmt.Sprintf("%s (%d)", p.Variant().Name, p.Len())
		if i == m.current {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	header := titleStyle.Render("crmboard") + "  " + strings.Join(tabs, "")
	if m.filter != "" {
		header += dimStyle.Render("  filter: " + m.filter)
	}
	b.WriteString(header + "\n\n")

	// Columns.
	cols := m.pane().Columns()
	rendered := make([]string, 0, len(cols))
	for i := range cols {
		rendered = append(rendered, m.renderColumn(i))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")

	// Drag overlay.
	b.WriteString(m.renderOverlay())

	// Status bar.
	if m.statusMsg != "" {
		b.WriteString("\n")
		if strings.HasPrefix(strings.ToLower(m.statusMsg), "failed") || strings.HasPrefix(strings.ToLower(m.statusMsg), "error") {
			b.WriteString(errorStyle.Render("  " + m.statusMsg))
		} else {
			b.WriteString(statusStyle.Render("  " + m.statusMsg))
		}
	}

	// Footer.
	b.WriteString("\n")
	b.WriteString(m.boardFooter())

	return b.String()
}

func (m Model) renderColumn(i int) string {
	col := m.pane().Columns()[i]
	cards := m.visibleCards(i)
	cw := m.colWidth()
	sess := m.pane().Session()

	var b strings.Builder

	head := truncate(fmt.Sprintf("%s %d", col.Title, len(cards)), cw-2)
	hovered := sess.State == board.Dragging && sess.Over == col.ID
	if hovered {
		b.WriteString(columnHeadHoverStyle.Render(head) + "\n")
	} else {
		b.WriteString(columnHeadStyle.Render(head) + "\n")
	}
	b.WriteString(subtleStyle.Render(strings.Repeat("─", cw-1)) + "\n")

	off := m.colOffset(i)
	end := off + m.visibleRows()
	if end > len(cards) {
		end = len(cards)
	}
	for row := off; row < end; row++ {
		b.WriteString(m.renderCard(cards[row], i, row, cw) + "\n")
	}

	return lipgloss.NewStyle().Width(cw).Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m Model) renderCard(c card, col, row, cw int) string {
	inner := cw - 5
	content := lipgloss.NewStyle().Bold(true).Render(truncate(c.Title, inner)) + "\n" +
		dimStyle.Render(truncate(c.Meta, inner))

	sess := m.pane().Session()
	style := cardStyle
	switch {
	case sess.State == board.Dragging && sess.ActiveID == c.ID:
		style = cardGhostStyle
	case m.kbDrag && col == m.hoverCol && row == m.hoverRow:
		style = cardHoverStyle
	case !m.kbDrag && col == m.cursorCol && row == m.cursorRow:
		style = cardSelectedStyle
	}
	return style.Width(cw - 3).Render(content)
}

// renderOverlay draws the active card apart from the columns while a drag
// is in progress.
func (m Model) renderOverlay() string {
	c, ok := m.pane().Active()
	if !ok {
		return "\n"
	}
	sess := m.pane().Session()

	target := "—"
	if sess.Over != "" {
		target = string(sess.Over)
		for _, col := range m.pane().Columns() {
			if col.ID == sess.Over {
				target = col.Title
			}
		}
	}
	line := lipgloss.NewStyle().Bold(true).Render(truncate(c.Title, 40)) +
		dimStyle.Render("  →  ") +
		lipgloss.NewStyle().Foreground(clrYellow).Render(target)
	if sess.Dispatched > 0 {
		line += dimStyle.Render(fmt.Sprintf("  (%d sent)", sess.Dispatched))
	}
	return overlayStyle.Render(line) + "\n"
}

func (m Model) boardFooter() string {
	if m.kbDrag {
		return renderFooter([]struct{ key, desc string }{
			{"←→", "column"},
			{"↑↓", "position"},
			{"enter", "drop"},
			{"esc", "cancel"},
		})
	}
	return renderFooter([]struct{ key, desc string }{
		{"↑↓←→", "navigate"},
		{"tab", "board"},
		{"space", "pick up"},
		{"enter", "open"},
		{"c", "new"},
		{"/", "filter"},
		{"R", "refresh"},
		{"q", "quit"},
	})
}

// ════════════════════════════════════════════════
// DETAIL VIEW
// ════════════════════════════════════════════════

func (m Model) viewDetail() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.detail.Title))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(string(m.detailKind) + " " + shortID(m.detail.ID)))
	b.WriteString("\n")
	if m.detail.Meta != "" {
		b.WriteString("  " + subtleStyle.Render(m.detail.Meta) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.detailViewport.View())
	b.WriteString("\n\n")

	b.WriteString(renderFooter([]struct{ key, desc string }{
		{"↑↓", "scroll"},
		{"esc", "back"},
	}))
	return b.String()
}

func renderEvents(events []store.Event) string {
	if len(events) == 0 {
		return dimStyle.Render("  No history.")
	}
	var b strings.Builder
	for _, ev := range events {
		ts := dimStyle.Render(ev.Timestamp.Local().Format("Jan 2 15:04"))
		typ := lipgloss.NewStyle().Foreground(clrCyan).Render(fmt.Sprintf("%-13s", ev.Type))
		b.WriteString(fmt.Sprintf("  %s  %s %s\n", ts, typ, ev.Content))
	}
	return b.String()
}

// ════════════════════════════════════════════════
// POPUPS
// ════════════════════════════════════════════════

func (m Model) overlayPopup(bg string) string {
	var popup string

	switch m.popup {
	case popupCreate:
		popup = m.viewInputPopup("New "+string(m.pane().Variant().Kind), "enter create • esc cancel")
	case popupFilter:
		popup = m.viewInputPopup("Filter", "enter apply • esc cancel")
	default:
		return bg
	}

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			popup,
			lipgloss.WithWhitespaceChars(" "),
		)
	}
	return popup
}

func (m Model) viewInputPopup(title, help string) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(clrHighlight).Render(title) + "\n\n")
	b.WriteString(m.textInput.View() + "\n\n")
	b.WriteString(footerDescStyle.Render(help))
	return m.popupBoxStyle().Render(b.String())
}

func (m Model) popupBoxStyle() lipgloss.Style {
	w := 60
	if m.width > 0 {
		w = m.width - 12
		if w < 42 {
			w = 42
		}
		if w > 84 {
			w = 84
		}
	}
	return popupStyle.Width(w)
}

// ════════════════════════════════════════════════
// SHARED HELPERS
// ════════════════════════════════════════════════

func renderFooter(keys []struct{ key, desc string }) string {
	var parts []string
	for _, k := range keys {
		key := footerKeyStyle.Render(k.key)
		desc := footerDescStyle.Render(k.desc)
		parts = append(parts, key+" "+desc)
	}
	return "  " + strings.Join(parts, "  ")
}

func truncate(s string, maxLen int) string {
	if maxLen < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
