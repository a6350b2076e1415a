package cli

import (
	"fmt"

	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log [tasks|projects|customers] [id]",
	Short: "Show the event log for an item",
	Args:  cobra.ExactArgs(2),
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	v, err := kanban.Lookup(args[0])
	if err != nil {
		return err
	}
	bv, err := loadBoard(sess.store, sess.cfg.Variant(v), sess.log)
	if err != nil {
		return err
	}
	card, _, err := bv.Find(args[1])
	if err != nil {
		return err
	}

	events, err := sess.store.GetEvents(v.Kind, card.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintf(out, "No events for %s %s\n", v.Kind, shortID(card.ID))
		return nil
	}

	fmt.Fprintf(out, "Events for %s %s (%s):\n\n", v.Kind, shortID(card.ID), card.Title)
	printEvents(out, events, "  ", "2006-01-02 15:04:05")
	return nil
}
