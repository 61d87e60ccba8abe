package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shabarini/focus-app/internal/db"
	"github.com/shabarini/focus-app/internal/engine"
	"github.com/shabarini/focus-app/internal/model"
	"github.com/shabarini/focus-app/internal/remote"
	"github.com/shabarini/focus-app/internal/store"
)

// openEngine wires the local database and, when a session exists, the remote
// client into a loaded engine. The returned closer flushes the pending remote
// push and closes the database.
func openEngine(ctx context.Context) (*engine.Engine, func(), error) {
	database, err := db.OpenDefault()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	var rem store.Remote
	client, err := remote.NewClient()
	if err == nil && client.IsLoggedIn() {
		rem = client
	}

	e := engine.New(database, rem)
	if err := e.Load(ctx); err != nil {
		_ = database.Close()
		return nil, nil, err
	}

	closer := func() {
		waitForSync(e)
		_ = database.Close()
	}
	return e, closer, nil
}

// waitForSync blocks until the in-flight remote push settles, so one-shot
// commands do not exit mid-write.
func waitForSync(e *engine.Engine) {
	deadline := time.Now().Add(5 * time.Second)
	for e.Status() == engine.StatusSyncing && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func printSection(sec model.Section, tasks []model.Task) {
	fmt.Printf("\n%s (%d)\n", strings.ToUpper(string(sec)), len(tasks))
	fmt.Println(strings.Repeat("─", 60))
	for _, t := range tasks {
		printTask(t)
	}
}

func printTask(t model.Task) {
	text := t.Text
	if len(text) > 40 {
		text = text[:37] + "..."
	}

	project := ""
	if t.Project != "" {
		project = "[" + t.Project + "]"
	}

	tags := ""
	if len(t.Tags) > 0 {
		tags = "#" + strings.Join(t.Tags, " #")
	}

	fmt.Printf("  %-14d  %-40s  %-12s  %s\n", t.ID, text, project, tags)
}
