package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shabarini/focus-app/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list [section]",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, all sections or one, with optional filters.

Examples:
  focus list
  focus list today
  focus list todo --project Work
  focus list --tag urgent --search report`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var (
	listProject string
	listTag     string
	listSearch  string
)

func init() {
	listCmd.Flags().StringVarP(&listProject, "project", "P", "", "Filter by project")
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "Filter by tag")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Filter by text or notes")
}

func runList(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	sections := model.Sections()
	if len(args) == 1 {
		sec, err := model.ParseSection(args[0])
		if err != nil {
			return err
		}
		sections = []model.Section{sec}
	}

	total := 0
	for _, sec := range sections {
		tasks := e.ListSection(sec, listSearch, listProject, listTag)
		total += len(tasks)
		printSection(sec, tasks)
	}

	if total == 0 {
		fmt.Println("\nNo tasks found. Add one with: focus add \"Your task\"")
	}
	fmt.Println()
	return nil
}
