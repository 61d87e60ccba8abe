package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage the tag registry",
	Long: `Manage the tag registry.

Removing a tag also strips it from every task in every section.`,
}

var tagListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered tags",
	RunE:    runTagList,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagAdd,
}

var tagRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a tag and strip it from all tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runTagRemove,
}

var tagListAll bool

func init() {
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)

	tagListCmd.Flags().BoolVarP(&tagListAll, "all", "a", false, "Include unregistered tags found on tasks")
}

func runTagList(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	tags := e.Tags()
	if tagListAll {
		tags = e.AllTags()
	}

	for _, tag := range tags {
		fmt.Printf("  #%s\n", tag)
	}
	return nil
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := e.AddTag(args[0]); err != nil {
		return err
	}

	fmt.Printf("✓ Added tag #%s\n", args[0])
	return nil
}

func runTagRemove(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := e.RemoveTag(args[0]); err != nil {
		return err
	}

	fmt.Printf("✓ Removed tag #%s from the registry and all tasks\n", args[0])
	return nil
}
