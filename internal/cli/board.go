package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/imkarma/crmboard/internal/config"
	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/spf13/cobra"
)

// ANSI color codes.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
)

// columnColors cycles across a board's columns, left to right.
var columnColors = []string{colorWhite, colorBlue, colorMagenta, colorRed, colorGreen, colorDim}

var boardCmd = &cobra.Command{
	Use:   "board [tasks|projects|customers]",
	Short: "Print boards grouped by column",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBoard,
}

// selectVariants returns the named variant, or all of them, with config
// overrides applied.
func selectVariants(cfg *config.Config, args []string) ([]kanban.Variant, error) {
	if len(args) > 0 {
		v, err := kanban.Lookup(args[0])
		if err != nil {
			return nil, err
		}
		return []kanban.Variant{cfg.Variant(v)}, nil
	}
	out := make([]kanban.Variant, 0, len(kanban.Variants))
	for _, v := range kanban.Variants {
		out = append(out, cfg.Variant(v))
	}
	return out, nil
}

func runBoard(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	variants, err := selectVariants(sess.cfg, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, v := range variants {
		bv, err := loadBoard(sess.store, v, sess.log)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		printBoard(out, bv)
	}
	return nil
}

func printBoard(out io.Writer, bv *boardView) {
	fmt.Fprintf(out, "%s%s%s\n", colorBold, strings.ToUpper(bv.Variant.Name), colorReset)

	if bv.Len() == 0 {
		fmt.Fprintf(out, "%sBoard is empty.%s Create one: %scrmboard %s create \"title\"%s\n",
			colorDim, colorReset, colorCyan, bv.Variant.Kind, colorReset)
		return
	}

	// Print header.
	colWidth := 24
	headerLine := ""
	sepLine := ""
	for i, c := range bv.Columns {
		color := columnColors[i%len(columnColors)]
		label := strings.ToUpper(c.Title)
		count := len(c.Cards)
		header := fmt.Sprintf(" %s%s%s (%d)", color+colorBold, label, colorReset, count)
		// padding needs visible length, not byte length (ANSI codes add bytes).
		visibleLen := len([]rune(fmt.Sprintf(" %s (%d)", label, count)))
		padding := colWidth - visibleLen
		if padding < 0 {
			padding = 0
		}
		headerLine += header + strings.Repeat(" ", padding)
		sepLine += strings.Repeat("─", colWidth)
	}
	fmt.Fprintln(out, headerLine)
	fmt.Fprintln(out, colorDim+sepLine+colorReset)

	// Find max rows.
	maxRows := 0
	for _, c := range bv.Columns {
		if len(c.Cards) > maxRows {
			maxRows = len(c.Cards)
		}
	}

	// Print rows.
	for i := 0; i < maxRows; i++ {
		// Title line.
		line := ""
		for _, c := range bv.Columns {
			if i >= len(c.Cards) {
				line += strings.Repeat(" ", colWidth)
				continue
			}
			card := c.Cards[i]
			idStr := shortID(card.ID)
			titleStr := truncate(card.Title, colWidth-len(idStr)-3)
			cell := fmt.Sprintf(" %s%s%s %s", priorityColor(card.Priority), idStr, colorReset, titleStr)
			visibleLen := len([]rune(fmt.Sprintf(" %s %s", idStr, titleStr)))
			line += cell + strings.Repeat(" ", max(colWidth-visibleLen, 0))
		}
		fmt.Fprintln(out, line)

		// Meta line.
		detailLine := ""
		for _, c := range bv.Columns {
			if i >= len(c.Cards) || c.Cards[i].Meta == "" {
				detailLine += strings.Repeat(" ", colWidth)
				continue
			}
			meta := truncate(c.Cards[i].Meta, colWidth-6)
			detail := fmt.Sprintf("    %s[%s]%s", colorCyan, meta, colorReset)
			visibleLen := len([]rune(fmt.Sprintf("    [%s]", meta)))
			detailLine += detail + strings.Repeat(" ", max(colWidth-visibleLen, 0))
		}
		fmt.Fprintln(out, detailLine)
		fmt.Fprintln(out) // spacing between cards
	}

	fmt.Fprintf(out, "%s%d %ss%s\n", colorBold, bv.Len(), bv.Variant.Kind, colorReset)
}

func priorityColor(priority string) string {
	switch priority {
	case "high":
		return colorRed + colorBold
	case "medium":
		return colorYellow
	case "low":
		return colorDim
	default:
		return ""
	}
}
