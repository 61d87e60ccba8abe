package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shabarini/focus-app/internal/db"
	"github.com/shabarini/focus-app/internal/model"
	"github.com/shabarini/focus-app/internal/remote"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all tasks, projects, tags and archive",
	Long: `Clear all data from the local database or/and the sync server.
By default only local data is cleared unless --remote or --all is given.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().Bool("local", true, "Clear local data (default)")
	clearCmd.Flags().Bool("remote", false, "Clear remote data on the sync server")
	clearCmd.Flags().Bool("all", false, "Clear both local and remote data")
	clearCmd.Flags().Bool("force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	local, _ := cmd.Flags().GetBool("local")
	remoteFlag, _ := cmd.Flags().GetBool("remote")
	all, _ := cmd.Flags().GetBool("all")
	force, _ := cmd.Flags().GetBool("force")

	if all {
		local = true
		remoteFlag = true
	}

	if !force {
		fmt.Printf("Are you sure you want to clear data? (y/N): ")
		var response string
		_, _ = fmt.Scanln(&response)
		if strings.ToLower(response) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if local {
		database, err := db.OpenDefault()
		if err != nil {
			return err
		}
		for _, field := range model.Fields() {
			if err := database.Delete(field); err != nil {
				_ = database.Close()
				return fmt.Errorf("failed to clear local data: %w", err)
			}
		}
		if err := database.Close(); err != nil {
			return err
		}
		fmt.Println("Local data cleared.")
	}

	if remoteFlag {
		client, err := remote.NewClient()
		if err != nil {
			return err
		}
		if !client.IsLoggedIn() {
			fmt.Println("Skipping remote clear: not logged in.")
		} else {
			if err := client.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear remote data: %w", err)
			}
			fmt.Println("Remote data cleared.")
		}
	}

	return nil
}
