package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all data as JSON",
	Long: `Export tasks, projects, tags and the archive as a single JSON
document. Writes to stdout when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a JSON export",
	Long: `Replace all local data with the contents of a JSON export.
The import is all-or-nothing: a malformed file changes nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runExport(cmd *cobra.Command, args []string) error {
	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	data, err := e.ExportJSON()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if len(args) == 0 {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("✓ Exported to %s\n", args[0])
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if err := e.ImportJSON(data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Imported %s\n", args[0])
	return nil
}
