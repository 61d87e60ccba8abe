package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shabarini/focus-app/internal/logger"
	"github.com/shabarini/focus-app/internal/model"
)

// AddTag registers a tag in the global vocabulary. Names are trimmed and
// lowercased; empty and already-present tags are rejected.
func (e *Engine) AddTag(name string) error {
	tag := model.NormalizeTag(name)
	if err := model.ValidateTag(tag); err != nil {
		return err
	}

	e.mu.Lock()
	for _, existing := range e.root.Tags {
		if existing == tag {
			e.mu.Unlock()
			return fmt.Errorf("%w: tag %q already exists", model.ErrValidation, tag)
		}
	}
	e.root.Tags = append(e.root.Tags, tag)
	notify := e.saveCollection(model.FieldTags, e.root.Tags)
	e.mu.Unlock()
	notify()
	return nil
}

// RemoveTag removes a tag from the registry and cascades: the tag is
// stripped from every task in every section. The cascade across all three
// sections lands in a single tasks write.
func (e *Engine) RemoveTag(name string) error {
	tag := model.NormalizeTag(name)

	e.mu.Lock()

	found := false
	kept := e.root.Tags[:0]
	for _, existing := range e.root.Tags {
		if existing == tag {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		e.mu.Unlock()
		return fmt.Errorf("%w: tag %q is not registered", model.ErrValidation, tag)
	}
	e.root.Tags = kept

	for _, sec := range model.Sections() {
		tasks := e.root.Tasks.Get(sec)
		for i := range tasks {
			if !tasks[i].HasTag(tag) {
				continue
			}
			out := make([]string, 0, len(tasks[i].Tags)-1)
			for _, existing := range tasks[i].Tags {
				if existing != tag {
					out = append(out, existing)
				}
			}
			tasks[i].Tags = out
		}
	}

	notifyTags := e.saveCollection(model.FieldTags, e.root.Tags)
	notifyTasks := e.saveCollection(model.FieldTasks, e.root.Tasks)
	e.mu.Unlock()
	notifyTags()
	notifyTasks()

	logger.Info("Tag removed with cascade", logger.F("tag", tag))
	return nil
}

// Tags returns the registered tag vocabulary.
func (e *Engine) Tags() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.root.Tags...)
}

// AllTags returns the registry merged with every tag referenced by any
// task, for filter pickers.
func (e *Engine) AllTags() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := map[string]bool{}
	var out []string
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}
	for _, tag := range e.root.Tags {
		add(tag)
	}
	for _, sec := range model.Sections() {
		for _, t := range e.root.Tasks.Get(sec) {
			for _, tag := range t.Tags {
				add(tag)
			}
		}
	}
	return out
}

// AddProject registers a project. Names are unique per user.
func (e *Engine) AddProject(name, color string) (model.Project, error) {
	p := model.Project{
		Name:  strings.TrimSpace(name),
		Color: color,
	}
	if err := p.Validate(); err != nil {
		return model.Project{}, err
	}

	e.mu.Lock()
	if e.findProject(p.Name) != nil {
		e.mu.Unlock()
		return model.Project{}, fmt.Errorf("%w: project %q already exists", model.ErrValidation, p.Name)
	}
	p.ID = strconv.FormatInt(e.now().UnixMilli(), 10)
	e.root.Projects = append(e.root.Projects, p)
	notify := e.saveCollection(model.FieldProjects, e.root.Projects)
	e.mu.Unlock()
	notify()
	return p, nil
}

// RemoveProject deletes a project from the registry. Unlike tag removal
// this does NOT cascade: tasks keep their denormalized project name and
// color until ClearProjectFromTasks is called explicitly.
func (e *Engine) RemoveProject(name string) error {
	e.mu.Lock()

	found := false
	kept := e.root.Projects[:0]
	for _, p := range e.root.Projects {
		if p.Name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		e.mu.Unlock()
		return fmt.Errorf("%w: project %q is not registered", model.ErrValidation, name)
	}
	e.root.Projects = kept

	notify := e.saveCollection(model.FieldProjects, e.root.Projects)
	e.mu.Unlock()
	notify()
	return nil
}

// ClearProjectFromTasks clears the denormalized project fields from every
// task that references the named project. Callers pair this with
// RemoveProject when they want cascade semantics.
func (e *Engine) ClearProjectFromTasks(name string) {
	e.mu.Lock()

	changed := false
	for _, sec := range model.Sections() {
		tasks := e.root.Tasks.Get(sec)
		for i := range tasks {
			if tasks[i].Project == name {
				tasks[i].Project = ""
				tasks[i].ProjectColor = ""
				changed = true
			}
		}
	}

	if !changed {
		e.mu.Unlock()
		return
	}
	notify := e.saveCollection(model.FieldTasks, e.root.Tasks)
	e.mu.Unlock()
	notify()
}

// Projects returns the project registry.
func (e *Engine) Projects() []model.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]model.Project(nil), e.root.Projects...)
}
