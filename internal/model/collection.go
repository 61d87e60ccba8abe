package model

// Collection field names, used both as local store keys and as remote
// document fields.
const (
	FieldTasks    = "tasks"
	FieldProjects = "projects"
	FieldTags     = "tags"
	FieldArchive  = "archive"
)

// Fields returns all collection field names.
func Fields() []string {
	return []string{FieldTasks, FieldProjects, FieldTags, FieldArchive}
}

// TaskSections holds the three ordered task lists.
type TaskSections struct {
	Today []Task `json:"today"`
	Todo  []Task `json:"todo"`
	Done  []Task `json:"done"`
}

// Get returns the task list for a section.
func (s *TaskSections) Get(sec Section) []Task {
	switch sec {
	case SectionToday:
		return s.Today
	case SectionTodo:
		return s.Todo
	case SectionDone:
		return s.Done
	}
	return nil
}

// Set replaces the task list for a section.
func (s *TaskSections) Set(sec Section, tasks []Task) {
	switch sec {
	case SectionToday:
		s.Today = tasks
	case SectionTodo:
		s.Todo = tasks
	case SectionDone:
		s.Done = tasks
	}
}

// Clone returns a deep copy of all sections.
func (s TaskSections) Clone() TaskSections {
	return TaskSections{
		Today: cloneTasks(s.Today),
		Todo:  cloneTasks(s.Todo),
		Done:  cloneTasks(s.Done),
	}
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// CollectionRoot is the full persisted state for one user. The four fields
// are persisted independently; there is no cross-field atomicity.
type CollectionRoot struct {
	Tasks    TaskSections  `json:"tasks"`
	Projects []Project     `json:"projects"`
	Tags     []string      `json:"tags"`
	Archive  []ArchiveItem `json:"archive"`
}

// Clone returns a deep copy of the whole root.
func (c CollectionRoot) Clone() CollectionRoot {
	out := CollectionRoot{Tasks: c.Tasks.Clone()}
	if c.Projects != nil {
		out.Projects = append([]Project(nil), c.Projects...)
	}
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Archive != nil {
		out.Archive = make([]ArchiveItem, len(c.Archive))
		for i, item := range c.Archive {
			out.Archive[i] = ArchiveItem{Month: item.Month, Tasks: cloneTasks(item.Tasks)}
		}
	}
	return out
}

// DefaultProjects seeds the project registry on first run.
func DefaultProjects() []Project {
	return []Project{
		{ID: "1", Name: "Personal", Color: "#A8D5BA"},
		{ID: "2", Name: "Work", Color: "#B8D4E8"},
		{ID: "3", Name: "Home", Color: "#C3E8D1"},
	}
}

// DefaultTags seeds the tag registry on first run.
func DefaultTags() []string {
	return []string{"important", "urgent", "idea", "meeting", "call", "shopping"}
}
