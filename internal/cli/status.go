package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Quick status overview",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	variants, err := selectVariants(sess.cfg, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, v := range variants {
		bv, err := loadBoard(sess.store, v, sess.log)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s%s: %d total%s\n", colorBold, v.Name, bv.Len(), colorReset)
		for i, c := range bv.Columns {
			color := columnColors[i%len(columnColors)]
			fmt.Fprintf(out, "  %-14s %s%d%s\n", string(c.ID)+":", color, len(c.Cards), colorReset)
		}
	}
	return nil
}
