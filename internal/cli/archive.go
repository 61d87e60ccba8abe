package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive old done tasks",
	Long: `Move done tasks completed in past months into the monthly
archive. Tasks completed this month stay in Done.

Use 'focus archive list' to browse the archive.`,
	RunE: runArchive,
}

var archiveListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show archived tasks by month",
	RunE:    runArchiveList,
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	moved := e.ArchiveDone()
	if moved == 0 {
		fmt.Println("Nothing to archive.")
		return nil
	}

	fmt.Printf("✓ Archived %d task(s)\n", moved)
	return nil
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	buckets := e.Archive()
	if len(buckets) == 0 {
		fmt.Println("Archive is empty.")
		return nil
	}

	for _, bucket := range buckets {
		fmt.Printf("\n%s (%d)\n", bucket.Month, len(bucket.Tasks))
		for _, t := range bucket.Tasks {
			printTask(t)
		}
	}
	fmt.Println()
	return nil
}
