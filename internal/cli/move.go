package cli

import (
	"fmt"

	"github.com/imkarma/crmboard/internal/board"
	"github.com/imkarma/crmboard/internal/kanban"
	"github.com/imkarma/crmboard/internal/worker"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move [tasks|projects|customers] [id] [column]",
	Short: "Move an item to another column",
	Long: "Drags an item into the given column, exactly as a drop in the UI would,\n" +
		"and waits for the change to be saved.",
	Args: cobra.ExactArgs(3),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}
	defer sess.Close()

	v, err := kanban.Lookup(args[0])
	if err != nil {
		return err
	}
	v = sess.cfg.Variant(v)

	target := board.ColumnID(args[2])
	if !v.HasColumn(target) {
		return fmt.Errorf("%s board has no column %q", v.Name, target)
	}

	bv, err := loadBoard(sess.store, v, sess.log)
	if err != nil {
		return err
	}
	card, from, err := bv.Find(args[1])
	if err != nil {
		return err
	}

	d := worker.NewDispatcher(worker.Config{
		Patcher:    sess.store,
		Kind:       v.Kind,
		ToPatch:    v.Patch,
		MaxWorkers: sess.cfg.Dispatch.Workers,
		Timeout:    sess.cfg.DispatchTimeout(),
		Logger:     sess.log.WithField("board", v.Name),
	})
	out := bv.move(card.ID, target, d)
	d.Wait()

	for _, r := range d.Results() {
		if r.Err != nil {
			return fmt.Errorf("move %s to %s: %w", shortID(card.ID), target, r.Err)
		}
	}

	w := cmd.OutOrStdout()
	switch out.Kind {
	case board.Moved:
		fmt.Fprintf(w, "Moved %s: %s → %s\n", card.Title, bv.columnTitle(from), bv.columnTitle(target))
	default:
		fmt.Fprintf(w, "%s is already in %s\n", card.Title, bv.columnTitle(from))
	}
	return nil
}
