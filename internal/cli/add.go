package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shabarini/focus-app/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new task",
	Long: `Add a new task to a section.

Examples:
  focus add "Buy groceries"
  focus add "Quarterly report" --section today --project Work
  focus add "Call plumber" --tag urgent --tag call`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addSection string
	addNotes   string
	addProject string
	addTags    []string
)

func init() {
	addCmd.Flags().StringVarP(&addSection, "section", "s", "todo", "Section (today, todo, done)")
	addCmd.Flags().StringVarP(&addNotes, "notes", "n", "", "Notes for the task")
	addCmd.Flags().StringVarP(&addProject, "project", "P", "", "Project to assign")
	addCmd.Flags().StringArrayVarP(&addTags, "tag", "t", nil, "Tag to attach (repeatable)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	sec, err := model.ParseSection(addSection)
	if err != nil {
		return err
	}

	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	text := strings.Join(args, " ")
	task, err := e.AddTask(sec, text, addNotes, addProject, addTags, nil)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("✓ Added to [%s]: %q (id %d)\n", sec, task.Text, task.ID)
	return nil
}
