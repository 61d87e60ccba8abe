package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/shabarini/focus-app/internal/logger"
	"github.com/shabarini/focus-app/internal/model"
	"github.com/shabarini/focus-app/internal/ordering"
)

// ErrTaskNotFound is returned when a mutation names a task id absent from
// the given section.
var ErrTaskNotFound = errors.New("task not found")

// AddTask validates and appends a new task to the section, assigning the
// next dense order value. Validation failures leave all state unchanged.
func (e *Engine) AddTask(sec model.Section, text, notes, project string, tags []string, files []model.FileRef) (model.Task, error) {
	normalized := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = model.NormalizeTag(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}

	e.mu.Lock()

	task := model.Task{
		Text:      text,
		Notes:     notes,
		Tags:      normalized,
		Files:     append([]model.FileRef(nil), files...),
		CreatedAt: e.now(),
		Order:     ordering.NextOrder(e.root.Tasks.Get(sec)),
	}
	if p := e.findProject(project); p != nil {
		task.Project = p.Name
		task.ProjectColor = p.Color
	}

	if err := task.Validate(); err != nil {
		e.mu.Unlock()
		return model.Task{}, err
	}

	task.ID = e.nextTaskID()
	e.root.Tasks.Set(sec, append(e.root.Tasks.Get(sec), task))
	notify := e.saveCollection(model.FieldTasks, e.root.Tasks)

	e.mu.Unlock()
	notify()

	logger.Info("Task added", logger.F("id", task.ID), logger.F("section", sec))
	return task.Clone(), nil
}

// UpdateTaskText replaces a task's text.
func (e *Engine) UpdateTaskText(sec model.Section, id int64, text string) error {
	return e.updateTask(sec, id, func(t *model.Task) error {
		updated := *t
		updated.Text = text
		if err := updated.Validate(); err != nil {
			return err
		}
		t.Text = text
		return nil
	})
}

// UpdateTaskNotes replaces a task's notes. The HTML is stored opaquely;
// sanitization is the editor's concern.
func (e *Engine) UpdateTaskNotes(sec model.Section, id int64, notes string) error {
	return e.updateTask(sec, id, func(t *model.Task) error {
		if len(notes) > model.MaxNotesLen {
			return fmt.Errorf("%w: notes exceed %d characters", model.ErrValidation, model.MaxNotesLen)
		}
		t.Notes = notes
		return nil
	})
}

// SetTaskProject assigns a registered project to a task, denormalizing its
// name and color. An empty name clears both fields.
func (e *Engine) SetTaskProject(sec model.Section, id int64, projectName string) error {
	return e.updateTask(sec, id, func(t *model.Task) error {
		if projectName == "" {
			t.Project = ""
			t.ProjectColor = ""
			return nil
		}
		p := e.findProject(projectName)
		if p == nil {
			return fmt.Errorf("%w: unknown project %q", model.ErrValidation, projectName)
		}
		t.Project = p.Name
		t.ProjectColor = p.Color
		return nil
	})
}

// AddTaskTag attaches a normalized tag to a task. Duplicates are no-ops.
func (e *Engine) AddTaskTag(sec model.Section, id int64, tag string) error {
	tag = model.NormalizeTag(tag)
	if err := model.ValidateTag(tag); err != nil {
		return err
	}
	return e.updateTask(sec, id, func(t *model.Task) error {
		if t.HasTag(tag) {
			return nil
		}
		if len(t.Tags) >= model.MaxTags {
			return fmt.Errorf("%w: at most %d tags per task", model.ErrValidation, model.MaxTags)
		}
		t.Tags = append(t.Tags, tag)
		return nil
	})
}

// RemoveTaskTag strips a tag from one task.
func (e *Engine) RemoveTaskTag(sec model.Section, id int64, tag string) error {
	tag = model.NormalizeTag(tag)
	return e.updateTask(sec, id, func(t *model.Task) error {
		out := t.Tags[:0]
		for _, existing := range t.Tags {
			if existing != tag {
				out = append(out, existing)
			}
		}
		t.Tags = out
		return nil
	})
}

// AttachFile records file metadata on a task. Only name, MIME type, and
// size are kept; file content never enters the store.
func (e *Engine) AttachFile(sec model.Section, id int64, name, mimeType string, size int64) (model.FileRef, error) {
	ref := model.FileRef{
		// Creation timestamp plus jitter keeps ids unique when several
		// files are attached in the same millisecond.
		ID:   e.now().UnixMilli()*1000 + rand.Int63n(1000),
		Name: name,
		Type: mimeType,
		Size: size,
	}
	err := e.updateTask(sec, id, func(t *model.Task) error {
		if len(t.Files) >= model.MaxFiles {
			return fmt.Errorf("%w: at most %d files per task", model.ErrValidation, model.MaxFiles)
		}
		if ref.Name == "" || len(ref.Name) > model.MaxFileNameLen {
			return fmt.Errorf("%w: file name must be 1-%d characters", model.ErrValidation, model.MaxFileNameLen)
		}
		t.Files = append(t.Files, ref)
		return nil
	})
	if err != nil {
		return model.FileRef{}, err
	}
	return ref, nil
}

// RemoveFile detaches a file reference from a task.
func (e *Engine) RemoveFile(sec model.Section, id, fileID int64) error {
	return e.updateTask(sec, id, func(t *model.Task) error {
		out := t.Files[:0]
		for _, f := range t.Files {
			if f.ID != fileID {
				out = append(out, f)
			}
		}
		t.Files = out
		return nil
	})
}

// MoveTask relocates a task between sections: removed from the source (the
// resulting order gap is tolerated, reads sort by relative order) and
// appended to the destination with a fresh order value.
func (e *Engine) MoveTask(id int64, from, to model.Section) error {
	if from == to {
		return nil
	}

	e.mu.Lock()

	source := e.root.Tasks.Get(from)
	idx := -1
	for i, t := range source {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: id %d in section %s", ErrTaskNotFound, id, from)
	}

	task := source[idx]
	e.root.Tasks.Set(from, append(source[:idx:idx], source[idx+1:]...))

	dest := e.root.Tasks.Get(to)
	task.Order = ordering.NextOrder(dest)
	e.root.Tasks.Set(to, append(dest, task))

	notify := e.saveCollection(model.FieldTasks, e.root.Tasks)
	e.mu.Unlock()
	notify()

	logger.Info("Task moved", logger.F("id", id), logger.F("from", from), logger.F("to", to))
	return nil
}

// DeleteTask removes a task from a section.
func (e *Engine) DeleteTask(sec model.Section, id int64) error {
	e.mu.Lock()

	tasks := e.root.Tasks.Get(sec)
	idx := -1
	for i, t := range tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: id %d in section %s", ErrTaskNotFound, id, sec)
	}

	e.root.Tasks.Set(sec, append(tasks[:idx:idx], tasks[idx+1:]...))
	notify := e.saveCollection(model.FieldTasks, e.root.Tasks)
	e.mu.Unlock()
	notify()

	logger.Info("Task deleted", logger.F("id", id), logger.F("section", sec))
	return nil
}

// MoveTaskUp swaps a task with its predecessor. Boundary positions and
// unknown ids are silent no-ops.
func (e *Engine) MoveTaskUp(sec model.Section, id int64) {
	e.swapTask(sec, id, ordering.SwapUp)
}

// MoveTaskDown swaps a task with its successor. Boundary positions and
// unknown ids are silent no-ops.
func (e *Engine) MoveTaskDown(sec model.Section, id int64) {
	e.swapTask(sec, id, ordering.SwapDown)
}

func (e *Engine) swapTask(sec model.Section, id int64, swap func([]model.Task, int64) bool) {
	e.mu.Lock()
	if !swap(e.root.Tasks.Get(sec), id) {
		e.mu.Unlock()
		return
	}
	notify := e.saveCollection(model.FieldTasks, e.root.Tasks)
	e.mu.Unlock()
	notify()
}

// ReorderSection applies a drag-and-drop permutation: every task is
// renumbered to its new zero-based position so the section stays dense
// after any sequence of moves.
func (e *Engine) ReorderSection(sec model.Section, ids []int64) error {
	e.mu.Lock()
	if !ordering.Renumber(e.root.Tasks.Get(sec), ids) {
		e.mu.Unlock()
		return fmt.Errorf("%w: ids are not a permutation of section %s", model.ErrValidation, sec)
	}
	notify := e.saveCollection(model.FieldTasks, e.root.Tasks)
	e.mu.Unlock()
	notify()
	return nil
}

// updateTask runs fn against the task in place and persists on success.
// fn returning an error leaves the stored state untouched.
func (e *Engine) updateTask(sec model.Section, id int64, fn func(*model.Task) error) error {
	e.mu.Lock()

	tasks := e.root.Tasks.Get(sec)
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		updated := tasks[i].Clone()
		if err := fn(&updated); err != nil {
			e.mu.Unlock()
			return err
		}
		tasks[i] = updated
		notify := e.saveCollection(model.FieldTasks, e.root.Tasks)
		e.mu.Unlock()
		notify()
		return nil
	}

	e.mu.Unlock()
	return fmt.Errorf("%w: id %d in section %s", ErrTaskNotFound, id, sec)
}

func (e *Engine) findProject(name string) *model.Project {
	if name == "" {
		return nil
	}
	for i := range e.root.Projects {
		if e.root.Projects[i].Name == name {
			return &e.root.Projects[i]
		}
	}
	return nil
}
