package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the project registry",
	Long: `Manage the project registry.

Removing a project leaves existing tasks untouched; use
'focus project clear <name>' to strip it from tasks as well.`,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	RunE:    runProjectList,
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a project from the registry",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectRemove,
}

var projectClearCmd = &cobra.Command{
	Use:   "clear <name>",
	Short: "Strip a project from every task that carries it",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectClear,
}

var projectColor string

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.AddCommand(projectClearCmd)

	projectAddCmd.Flags().StringVarP(&projectColor, "color", "c", "#A8D5BA", "Project color (#RRGGBB)")
}

func runProjectList(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	for _, p := range e.Projects() {
		fmt.Printf("  %-20s  %s\n", p.Name, p.Color)
	}
	return nil
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	p, err := e.AddProject(args[0], projectColor)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added project %s (%s)\n", p.Name, p.Color)
	return nil
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := e.RemoveProject(args[0]); err != nil {
		return err
	}

	fmt.Printf("✓ Removed project %s (tasks keep their label)\n", args[0])
	return nil
}

func runProjectClear(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	e.ClearProjectFromTasks(args[0])

	fmt.Printf("✓ Cleared project %s from all tasks\n", args[0])
	return nil
}
