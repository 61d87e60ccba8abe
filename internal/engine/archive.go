package engine

import (
	"github.com/shabarini/focus-app/internal/logger"
	"github.com/shabarini/focus-app/internal/model"
)

const monthLayout = "2006-01"

// ArchiveDone moves done tasks created before the current calendar month
// into the archive and returns how many were archived. The bucket is
// recorded under the month the run happens in, not each task's own month;
// the original application behaves this way and changing it would split
// existing users' buckets. Archiving is additive: a second run in the same
// month merges into the existing bucket without duplicating ids.
func (e *Engine) ArchiveDone() int {
	e.mu.Lock()

	currentMonth := e.now().Format(monthLayout)

	var keep, old []model.Task
	for _, t := range e.root.Tasks.Done {
		if t.CreatedAt.Format(monthLayout) == currentMonth {
			keep = append(keep, t)
		} else {
			old = append(old, t)
		}
	}

	if len(old) == 0 {
		e.mu.Unlock()
		return 0
	}

	bucket := -1
	for i := range e.root.Archive {
		if e.root.Archive[i].Month == currentMonth {
			bucket = i
			break
		}
	}
	if bucket < 0 {
		e.root.Archive = append(e.root.Archive, model.ArchiveItem{Month: currentMonth})
		bucket = len(e.root.Archive) - 1
	}

	existing := map[int64]bool{}
	for _, t := range e.root.Archive[bucket].Tasks {
		existing[t.ID] = true
	}
	for _, t := range old {
		if !existing[t.ID] {
			e.root.Archive[bucket].Tasks = append(e.root.Archive[bucket].Tasks, t.Clone())
		}
	}

	e.root.Tasks.Done = keep

	notifyArchive := e.saveCollection(model.FieldArchive, e.root.Archive)
	notifyTasks := e.saveCollection(model.FieldTasks, e.root.Tasks)
	e.mu.Unlock()
	notifyArchive()
	notifyTasks()

	logger.Info("Archived done tasks", logger.F("count", len(old)),
		logger.F("month", currentMonth))
	return len(old)
}

// Archive returns the archive buckets.
func (e *Engine) Archive() []model.ArchiveItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.ArchiveItem, len(e.root.Archive))
	for i, item := range e.root.Archive {
		tasks := make([]model.Task, len(item.Tasks))
		for j, t := range item.Tasks {
			tasks[j] = t.Clone()
		}
		out[i] = model.ArchiveItem{Month: item.Month, Tasks: tasks}
	}
	return out
}
