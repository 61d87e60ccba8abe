package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	s := e.Stats()
	fmt.Printf("Today:                %d\n", s.Today)
	fmt.Printf("To Do:                %d\n", s.Todo)
	fmt.Printf("Done:                 %d\n", s.Done)
	fmt.Printf("Completed today:      %d\n", s.CompletedToday)
	fmt.Printf("Completed this month: %d\n", s.CompletedThisMonth)
	return nil
}
