package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shabarini/focus-app/internal/model"
)

var editCmd = &cobra.Command{
	Use:   "edit <section> <id>",
	Short: "Edit fields of a task",
	Long: `Edit one or more fields of an existing task.

Examples:
  focus edit todo 1756600000000 --text "New wording"
  focus edit today 1756600000000 --notes "Waiting on Bob" --project Work
  focus edit done 1756600000000 --add-tag idea --remove-tag urgent
  focus edit todo 1756600000000 --attach "report.pdf:application/pdf:52341"
  focus edit todo 1756600000000 --detach 1756600000123456`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

var (
	editText      string
	editNotes     string
	editProject   string
	editAddTag    string
	editRemoveTag string
	editAttach    string
	editDetach    int64
)

func init() {
	editCmd.Flags().StringVar(&editText, "text", "", "Replace the task text")
	editCmd.Flags().StringVar(&editNotes, "notes", "", "Replace the task notes")
	editCmd.Flags().StringVar(&editProject, "project", "", "Assign a project (empty string clears)")
	editCmd.Flags().StringVar(&editAddTag, "add-tag", "", "Attach a tag")
	editCmd.Flags().StringVar(&editRemoveTag, "remove-tag", "", "Detach a tag")
	editCmd.Flags().StringVar(&editAttach, "attach", "", "Attach file metadata as name:type:size")
	editCmd.Flags().Int64Var(&editDetach, "detach", 0, "Detach a file reference by id")
}

// parseAttachSpec splits a name:type:size attachment spec. The type and
// size are taken from the right so file names may contain colons.
func parseAttachSpec(spec string) (name, mimeType string, size int64, err error) {
	last := strings.LastIndex(spec, ":")
	if last < 0 {
		return "", "", 0, fmt.Errorf("attach spec must be name:type:size")
	}
	size, err = strconv.ParseInt(spec[last+1:], 10, 64)
	if err != nil || size < 0 {
		return "", "", 0, fmt.Errorf("attach spec size must be a byte count, got %q", spec[last+1:])
	}
	rest := spec[:last]
	mid := strings.LastIndex(rest, ":")
	if mid <= 0 || mid == len(rest)-1 {
		return "", "", 0, fmt.Errorf("attach spec must be name:type:size")
	}
	return rest[:mid], rest[mid+1:], size, nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	sec, err := model.ParseSection(args[0])
	if err != nil {
		return err
	}
	id, err := parseTaskID(args[1])
	if err != nil {
		return err
	}

	changed := false
	for _, name := range []string{"text", "notes", "project", "add-tag", "remove-tag", "attach", "detach"} {
		if cmd.Flags().Changed(name) {
			changed = true
		}
	}
	if !changed {
		return fmt.Errorf("nothing to edit, pass at least one field flag")
	}

	e, closer, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer closer()

	if cmd.Flags().Changed("text") {
		if err := e.UpdateTaskText(sec, id, editText); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("notes") {
		if err := e.UpdateTaskNotes(sec, id, editNotes); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("project") {
		if err := e.SetTaskProject(sec, id, editProject); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("add-tag") {
		if err := e.AddTaskTag(sec, id, editAddTag); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("remove-tag") {
		if err := e.RemoveTaskTag(sec, id, editRemoveTag); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("attach") {
		name, mimeType, size, err := parseAttachSpec(editAttach)
		if err != nil {
			return err
		}
		ref, err := e.AttachFile(sec, id, name, mimeType, size)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Attached %s (file id %d)\n", ref.Name, ref.ID)
	}
	if cmd.Flags().Changed("detach") {
		if err := e.RemoveFile(sec, id, editDetach); err != nil {
			return err
		}
	}

	fmt.Printf("✓ Updated %d\n", id)
	return nil
}
