package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() Task {
	return Task{
		ID:        1,
		Text:      "do the thing",
		CreatedAt: time.Now(),
	}
}

func TestTaskValidate(t *testing.T) {
	assert.NoError(t, validTask().Validate())

	cases := []struct {
		name   string
		mutate func(*Task)
	}{
		{"empty text", func(task *Task) { task.Text = "" }},
		{"whitespace text", func(task *Task) { task.Text = "  \t " }},
		{"oversized text", func(task *Task) { task.Text = strings.Repeat("x", MaxTextLen+1) }},
		{"oversized notes", func(task *Task) { task.Notes = strings.Repeat("n", MaxNotesLen+1) }},
		{"too many tags", func(task *Task) {
			task.Tags = make([]string, MaxTags+1)
			for i := range task.Tags {
				task.Tags[i] = "t"
			}
		}},
		{"uppercase tag", func(task *Task) { task.Tags = []string{"Loud"} }},
		{"oversized tag", func(task *Task) { task.Tags = []string{strings.Repeat("a", MaxTagLen+1)} }},
		{"too many files", func(task *Task) {
			task.Files = make([]FileRef, MaxFiles+1)
			for i := range task.Files {
				task.Files[i] = FileRef{ID: int64(i), Name: "f"}
			}
		}},
		{"unnamed file", func(task *Task) { task.Files = []FileRef{{ID: 1}} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := validTask()
			tc.mutate(&task)
			assert.ErrorIs(t, task.Validate(), ErrValidation)
		})
	}
}

func TestParseSection(t *testing.T) {
	for _, name := range []string{"today", "TODO", " Done "} {
		_, err := ParseSection(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseSection("someday")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "urgent", NormalizeTag("  URGENT "))
	assert.Equal(t, "", NormalizeTag("   "))
}

func TestProjectValidate(t *testing.T) {
	ok := Project{ID: "1", Name: "Work", Color: "#AABB00"}
	assert.NoError(t, ok.Validate())

	bad := []Project{
		{Name: "", Color: "#AABB00"},
		{Name: strings.Repeat("p", MaxProjectNameLen+1), Color: "#AABB00"},
		{Name: "Work", Color: "red"},
		{Name: "Work", Color: "#AB12"},
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), ErrValidation)
	}
}

func TestArchiveItemValidate(t *testing.T) {
	assert.NoError(t, ArchiveItem{Month: "2026-08"}.Validate())
	assert.ErrorIs(t, ArchiveItem{Month: "August"}.Validate(), ErrValidation)
}

func TestTaskClone_Independent(t *testing.T) {
	task := validTask()
	task.Tags = []string{"a"}
	task.Files = []FileRef{{ID: 1, Name: "f"}}

	clone := task.Clone()
	clone.Tags[0] = "b"
	clone.Files[0].Name = "g"

	assert.Equal(t, "a", task.Tags[0])
	assert.Equal(t, "f", task.Files[0].Name)
}

func TestCollectionRootClone_Independent(t *testing.T) {
	root := CollectionRoot{
		Tasks:    TaskSections{Today: []Task{validTask()}},
		Projects: DefaultProjects(),
		Tags:     DefaultTags(),
		Archive:  []ArchiveItem{{Month: "2026-01", Tasks: []Task{validTask()}}},
	}

	clone := root.Clone()
	clone.Tasks.Today[0].Text = "changed"
	clone.Projects[0].Name = "changed"
	clone.Tags[0] = "changed"
	clone.Archive[0].Tasks[0].Text = "changed"

	require.Equal(t, "do the thing", root.Tasks.Today[0].Text)
	assert.Equal(t, "Personal", root.Projects[0].Name)
	assert.Equal(t, "important", root.Tags[0])
	assert.Equal(t, "do the thing", root.Archive[0].Tasks[0].Text)
}
