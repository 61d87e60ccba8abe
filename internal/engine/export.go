package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shabarini/focus-app/internal/logger"
	"github.com/shabarini/focus-app/internal/model"
)

// exportEnvelope is the JSON interchange format. The four collections plus
// an export timestamp; the timestamp is informational and ignored on
// import.
type exportEnvelope struct {
	Tasks      *model.TaskSections `json:"tasks"`
	Projects   *[]model.Project    `json:"projects"`
	Tags       *[]string           `json:"tags"`
	Archive    []model.ArchiveItem `json:"archive,omitempty"`
	ExportedAt time.Time           `json:"exportedAt"`
}

// ExportJSON serializes the four collections.
func (e *Engine) ExportJSON() ([]byte, error) {
	root := e.Snapshot()
	env := exportEnvelope{
		Tasks:      &root.Tasks,
		Projects:   &root.Projects,
		Tags:       &root.Tags,
		Archive:    root.Archive,
		ExportedAt: e.now(),
	}
	return json.MarshalIndent(env, "", "  ")
}

// ImportJSON replaces all four collections from an exported document. The
// import is atomic: the payload is parsed and fully validated before any
// state changes, so a malformed document never leaves a partial import.
func (e *Engine) ImportJSON(data []byte) error {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", model.ErrValidation, err)
	}
	if env.Tasks == nil || env.Projects == nil || env.Tags == nil {
		return fmt.Errorf("%w: tasks, projects, and tags are required", model.ErrValidation)
	}

	incoming := model.CollectionRoot{
		Tasks:    *env.Tasks,
		Projects: *env.Projects,
		Tags:     *env.Tags,
		Archive:  env.Archive,
	}

	for _, sec := range model.Sections() {
		for _, t := range incoming.Tasks.Get(sec) {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("import rejected, section %s: %w", sec, err)
			}
		}
	}
	for _, p := range incoming.Projects {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("import rejected: %w", err)
		}
	}
	for _, tag := range incoming.Tags {
		if err := model.ValidateTag(tag); err != nil {
			return fmt.Errorf("import rejected: %w", err)
		}
	}
	for _, item := range incoming.Archive {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("import rejected: %w", err)
		}
	}

	e.mu.Lock()
	e.root = incoming.Clone()
	e.normalizeOrders()
	e.trackTaskIDs()

	notifiers := []func(){
		e.saveCollection(model.FieldTasks, e.root.Tasks),
		e.saveCollection(model.FieldProjects, e.root.Projects),
		e.saveCollection(model.FieldTags, e.root.Tags),
		e.saveCollection(model.FieldArchive, e.root.Archive),
	}
	e.mu.Unlock()
	for _, notify := range notifiers {
		notify()
	}

	logger.Info("Import applied")
	return nil
}
