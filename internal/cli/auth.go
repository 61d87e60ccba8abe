package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shabarini/focus-app/internal/remote"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Manage authentication with the sync server.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the sync server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from the sync server",
	Long: `Logout from the sync server. Local data is kept; only the
session is dropped.`,
	RunE: runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account on the sync server",
	RunE:  runRegister,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runSyncStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Println("🔄 Logging in...")
	if err := client.Login(username, password); err != nil {
		return err
	}

	fmt.Println("✅ Logged in successfully!")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	if !client.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := client.Logout(); err != nil {
		return err
	}

	fmt.Println("✅ Logged out. Local data kept.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	client, err := remote.NewClient()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Print("Confirm Password: ")
	confirmBytes, _ := term.ReadPassword(int(syscall.Stdin))
	confirm := string(confirmBytes)
	fmt.Println()

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	if err := client.Register(username, email, password); err != nil {
		return err
	}

	fmt.Println("✅ Account created and logged in!")
	return nil
}
