package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation is wrapped by every validation failure so callers can
// distinguish rejected input from real faults.
var ErrValidation = errors.New("validation failed")

// Limits enforced at the mutation boundary.
const (
	MaxTextLen     = 500
	MaxNotesLen    = 5000
	MaxTags        = 10
	MaxTagLen      = 50
	MaxFiles       = 10
	MaxFileNameLen = 255
)

// Section is one of the three fixed task buckets.
type Section string

const (
	SectionToday Section = "today"
	SectionTodo  Section = "todo"
	SectionDone  Section = "done"
)

// Sections returns all sections in display order.
func Sections() []Section {
	return []Section{SectionToday, SectionTodo, SectionDone}
}

// ParseSection converts a string to a Section.
func ParseSection(s string) (Section, error) {
	switch Section(strings.ToLower(strings.TrimSpace(s))) {
	case SectionToday:
		return SectionToday, nil
	case SectionTodo:
		return SectionTodo, nil
	case SectionDone:
		return SectionDone, nil
	}
	return "", fmt.Errorf("%w: unknown section %q", ErrValidation, s)
}

// FileRef is a metadata-only reference to an attached file. No content is
// ever stored.
type FileRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Task is a single todo item. ID is the creation timestamp in milliseconds,
// unique within a client lifetime. Order is the dense section-local sort
// position.
type Task struct {
	ID           int64     `json:"id"`
	Text         string    `json:"text"`
	Notes        string    `json:"notes,omitempty"`
	Project      string    `json:"project,omitempty"`
	ProjectColor string    `json:"projectColor,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Files        []FileRef `json:"files,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Order        int       `json:"order"`
}

// Validate checks the task against the field limits. It returns an error
// wrapping ErrValidation on the first violation.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: task text is required", ErrValidation)
	}
	if len(t.Text) > MaxTextLen {
		return fmt.Errorf("%w: task text exceeds %d characters", ErrValidation, MaxTextLen)
	}
	if len(t.Notes) > MaxNotesLen {
		return fmt.Errorf("%w: notes exceed %d characters", ErrValidation, MaxNotesLen)
	}
	if len(t.Tags) > MaxTags {
		return fmt.Errorf("%w: at most %d tags per task", ErrValidation, MaxTags)
	}
	for _, tag := range t.Tags {
		if err := ValidateTag(tag); err != nil {
			return err
		}
	}
	if len(t.Files) > MaxFiles {
		return fmt.Errorf("%w: at most %d files per task", ErrValidation, MaxFiles)
	}
	for _, f := range t.Files {
		if f.Name == "" || len(f.Name) > MaxFileNameLen {
			return fmt.Errorf("%w: file name must be 1-%d characters", ErrValidation, MaxFileNameLen)
		}
	}
	return nil
}

// NormalizeTag trims and lowercases a tag name.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// ValidateTag checks a normalized tag name.
func ValidateTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: tag is required", ErrValidation)
	}
	if len(tag) > MaxTagLen {
		return fmt.Errorf("%w: tag exceeds %d characters", ErrValidation, MaxTagLen)
	}
	if tag != NormalizeTag(tag) {
		return fmt.Errorf("%w: tag must be trimmed lowercase", ErrValidation)
	}
	return nil
}

// HasTag reports whether the task carries the given tag.
func (t Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.Files != nil {
		out.Files = append([]FileRef(nil), t.Files...)
	}
	return out
}
