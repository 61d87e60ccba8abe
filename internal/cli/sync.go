package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shabarini/focus-app/internal/engine"
	"github.com/shabarini/focus-app/internal/remote"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync with the server",
	Long: `Sync with the server.

Commands:
  focus sync              # Pull the remote document and push local state
  focus sync status       # Show session and sync status
  focus sync config       # Show or set the server URL`,
	RunE: runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE:  runSyncStatus,
}

var syncConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure sync settings",
	RunE:  runSyncConfig,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncConfigCmd)

	syncConfigCmd.Flags().String("server", "", "Set server URL")
}

func runSync(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}
	if !client.IsLoggedIn() {
		return fmt.Errorf("not logged in, run 'focus auth login' first")
	}

	fmt.Println("🔄 Synchronizing...")

	// Load pulls the remote document and caches it locally.
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if e.Status() == engine.StatusError {
		return fmt.Errorf("sync failed, server unreachable")
	}

	fmt.Println("✓ Sync complete!")
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	fmt.Printf("Server:  %s\n", client.ServerURL())
	if client.IsLoggedIn() {
		fmt.Printf("User ID: %s\n", client.UserID())
		fmt.Println("Status:  ✓ Logged in")
	} else {
		fmt.Println("Status:  Not logged in")
	}

	return nil
}

func runSyncConfig(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	server, _ := cmd.Flags().GetString("server")
	if server != "" {
		if err := client.SetServer(server); err != nil {
			return err
		}
		fmt.Printf("✓ Server set to: %s\n", server)
		return nil
	}

	fmt.Printf("Server: %s\n", client.ServerURL())
	return nil
}
