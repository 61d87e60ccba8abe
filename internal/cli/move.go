package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shabarini/focus-app/internal/model"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <from> <to>",
	Short: "Move a task between sections",
	Long: `Move a task from one section to another. The task keeps its
content and lands at the bottom of the destination.

Example:
  focus move 1756600000000 todo today`,
	Args: cobra.ExactArgs(3),
	RunE: runMove,
}

var doneCmd = &cobra.Command{
	Use:   "done <id> <from>",
	Short: "Mark a task done",
	Long:  `Move a task from its section to Done.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runDone,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <section> <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(2),
	RunE:    runDelete,
}

var upCmd = &cobra.Command{
	Use:   "up <section> <id>",
	Short: "Move a task one position up within its section",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSwap(cmd, args, true) },
}

var downCmd = &cobra.Command{
	Use:   "down <section> <id>",
	Short: "Move a task one position down within its section",
	Args:  cobra.ExactArgs(2),
	RunE:  func(cmd *cobra.Command, args []string) error { return runSwap(cmd, args, false) },
}

var reorderCmd = &cobra.Command{
	Use:   "reorder <section> <id>...",
	Short: "Rewrite a section's order from an explicit id list",
	Long: `Reorder a section. The id list must name every task in the
section exactly once; positions follow the list.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runReorder,
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	from, err := model.ParseSection(args[1])
	if err != nil {
		return err
	}
	to, err := model.ParseSection(args[2])
	if err != nil {
		return err
	}

	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := e.MoveTask(id, from, to); err != nil {
		return err
	}

	fmt.Printf("✓ Moved %d: %s → %s\n", id, from, to)
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	from, err := model.ParseSection(args[1])
	if err != nil {
		return err
	}

	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := e.MoveTask(id, from, model.SectionDone); err != nil {
		return err
	}

	fmt.Printf("✓ Done: %d\n", id)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	sec, err := model.ParseSection(args[0])
	if err != nil {
		return err
	}
	id, err := parseTaskID(args[1])
	if err != nil {
		return err
	}

	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := e.DeleteTask(sec, id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted %d from %s\n", id, sec)
	return nil
}

func runSwap(cmd *cobra.Command, args []string, up bool) error {
	sec, err := model.ParseSection(args[0])
	if err != nil {
		return err
	}
	id, err := parseTaskID(args[1])
	if err != nil {
		return err
	}

	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	// Boundary moves are silent no-ops, same as in the TUI.
	if up {
		e.MoveTaskUp(sec, id)
	} else {
		e.MoveTaskDown(sec, id)
	}
	return nil
}

func runReorder(cmd *cobra.Command, args []string) error {
	sec, err := model.ParseSection(args[0])
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(args)-1)
	for _, arg := range args[1:] {
		id, err := parseTaskID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := e.ReorderSection(sec, ids); err != nil {
		return err
	}

	fmt.Printf("✓ Reordered %s\n", sec)
	return nil
}
