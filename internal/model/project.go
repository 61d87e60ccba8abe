package model

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxProjectNameLen caps project names.
const MaxProjectNameLen = 100

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Project groups tasks under a name and a display color. Tasks denormalize
// the name and color at assignment time, so deleting a project never
// cascades into tasks.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Validate checks project name and color.
func (p Project) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: project name is required", ErrValidation)
	}
	if len(name) > MaxProjectNameLen {
		return fmt.Errorf("%w: project name exceeds %d characters", ErrValidation, MaxProjectNameLen)
	}
	if !hexColor.MatchString(p.Color) {
		return fmt.Errorf("%w: project color must be #RRGGBB, got %q", ErrValidation, p.Color)
	}
	return nil
}
