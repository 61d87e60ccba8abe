package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shabarini/focus-app/internal/model"
	"github.com/shabarini/focus-app/internal/ordering"
)

func newLocalEngine(t *testing.T) (*Engine, *fakeLocal) {
	t.Helper()
	local := newFakeLocal()
	e := New(local, nil)
	require.NoError(t, e.Load(context.Background()))
	return e, local
}

func waitMerge(t *testing.T, r *fakeRemote, field string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-r.merged:
			if got == field {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for remote merge of %q", field)
		}
	}
}

func mustAdd(t *testing.T, e *Engine, sec model.Section, text string) model.Task {
	t.Helper()
	task, err := e.AddTask(sec, text, "", "", nil, nil)
	require.NoError(t, err)
	return task
}

func sectionIDs(e *Engine, sec model.Section) []int64 {
	var ids []int64
	for _, t := range e.ListSection(sec, "", "", "") {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestLoad_LocalOnlySeedsDefaults(t *testing.T) {
	e, _ := newLocalEngine(t)

	assert.Equal(t, StatusIdle, e.Status())
	assert.Equal(t, model.DefaultProjects(), e.Projects())
	assert.Equal(t, model.DefaultTags(), e.Tags())
	assert.Empty(t, e.ListSection(model.SectionToday, "", "", ""))
}

func TestAddTask_AppendsWithDenseOrder(t *testing.T) {
	e, local := newLocalEngine(t)

	first := mustAdd(t, e, model.SectionToday, "first")
	second := mustAdd(t, e, model.SectionToday, "second")

	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Greater(t, second.ID, first.ID)

	listed := e.ListSection(model.SectionToday, "", "", "")
	require.Len(t, listed, 2)
	assert.Equal(t, "first", listed[0].Text)
	assert.Equal(t, "second", listed[1].Text)

	// The mutation was persisted locally.
	assert.NotNil(t, local.raw(model.FieldTasks))
}

func TestAddTask_ValidationRejectsWithoutStateChange(t *testing.T) {
	e, local := newLocalEngine(t)
	before := len(local.setCalls)

	cases := []struct {
		name string
		run  func() error
	}{
		{"empty text", func() error {
			_, err := e.AddTask(model.SectionToday, "   ", "", "", nil, nil)
			return err
		}},
		{"oversized text", func() error {
			long := make([]byte, model.MaxTextLen+1)
			for i := range long {
				long[i] = 'x'
			}
			_, err := e.AddTask(model.SectionToday, string(long), "", "", nil, nil)
			return err
		}},
		{"too many tags", func() error {
			tags := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
			_, err := e.AddTask(model.SectionToday, "ok", "", "", tags, nil)
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.ErrorIs(t, err, model.ErrValidation)
		})
	}

	for _, sec := range model.Sections() {
		assert.Empty(t, e.ListSection(sec, "", "", ""), "section %s", sec)
	}
	assert.Equal(t, before, len(local.setCalls), "no persistence on rejection")
}

func TestAddTask_DenormalizesProject(t *testing.T) {
	e, _ := newLocalEngine(t)

	task, err := e.AddTask(model.SectionTodo, "write report", "", "Work", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Work", task.Project)
	assert.Equal(t, "#B8D4E8", task.ProjectColor)
}

func TestMoveTask_PreservesContent(t *testing.T) {
	e, _ := newLocalEngine(t)

	task, err := e.AddTask(model.SectionToday, "ship it", "notes here", "",
		[]string{"urgent"}, []model.FileRef{{ID: 7, Name: "brief.pdf", Type: "application/pdf", Size: 42}})
	require.NoError(t, err)
	mustAdd(t, e, model.SectionDone, "already done")

	require.NoError(t, e.MoveTask(task.ID, model.SectionToday, model.SectionDone))

	assert.Empty(t, e.ListSection(model.SectionToday, "", "", ""))
	done := e.ListSection(model.SectionDone, "", "", "")
	require.Len(t, done, 2)

	moved := done[1]
	assert.Equal(t, task.ID, moved.ID)
	assert.Equal(t, "ship it", moved.Text)
	assert.Equal(t, "notes here", moved.Notes)
	assert.Equal(t, []string{"urgent"}, moved.Tags)
	require.Len(t, moved.Files, 1)
	assert.Equal(t, "brief.pdf", moved.Files[0].Name)
	assert.Equal(t, 1, moved.Order, "order = destination length at insertion")
}

func TestMoveTask_UnknownID(t *testing.T) {
	e, _ := newLocalEngine(t)
	err := e.MoveTask(12345, model.SectionToday, model.SectionDone)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestMoveUpDown_Boundaries(t *testing.T) {
	e, _ := newLocalEngine(t)

	a := mustAdd(t, e, model.SectionTodo, "a")
	b := mustAdd(t, e, model.SectionTodo, "b")
	c := mustAdd(t, e, model.SectionTodo, "c")

	e.MoveTaskUp(model.SectionTodo, a.ID) // first: no-op
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, sectionIDs(e, model.SectionTodo))

	e.MoveTaskDown(model.SectionTodo, c.ID) // last: no-op
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, sectionIDs(e, model.SectionTodo))

	e.MoveTaskUp(model.SectionTodo, b.ID)
	assert.Equal(t, []int64{b.ID, a.ID, c.ID}, sectionIDs(e, model.SectionTodo))

	// Empty section does not error.
	e.MoveTaskUp(model.SectionToday, 1)
	e.MoveTaskDown(model.SectionToday, 1)
}

func TestOrderDensity_AfterMixedOperations(t *testing.T) {
	e, _ := newLocalEngine(t)

	a := mustAdd(t, e, model.SectionToday, "a")
	b := mustAdd(t, e, model.SectionToday, "b")
	c := mustAdd(t, e, model.SectionToday, "c")
	d := mustAdd(t, e, model.SectionToday, "d")

	e.MoveTaskUp(model.SectionToday, c.ID)
	e.MoveTaskDown(model.SectionToday, a.ID)
	require.NoError(t, e.ReorderSection(model.SectionToday, []int64{d.ID, a.ID, c.ID, b.ID}))
	require.NoError(t, e.MoveTask(b.ID, model.SectionToday, model.SectionTodo))
	e.MoveTaskUp(model.SectionToday, c.ID)

	tasks := e.ListSection(model.SectionToday, "", "", "")
	seen := map[int]bool{}
	for _, task := range tasks {
		assert.False(t, seen[task.Order], "duplicate order %d", task.Order)
		seen[task.Order] = true
	}
}

func TestReorderSection_RejectsNonPermutation(t *testing.T) {
	e, _ := newLocalEngine(t)
	a := mustAdd(t, e, model.SectionToday, "a")
	mustAdd(t, e, model.SectionToday, "b")

	err := e.ReorderSection(model.SectionToday, []int64{a.ID})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateTaskFields(t *testing.T) {
	e, _ := newLocalEngine(t)
	task := mustAdd(t, e, model.SectionToday, "draft")

	require.NoError(t, e.UpdateTaskText(model.SectionToday, task.ID, "final"))
	require.NoError(t, e.UpdateTaskNotes(model.SectionToday, task.ID, "<p>done</p>"))
	require.NoError(t, e.AddTaskTag(model.SectionToday, task.ID, "  Urgent "))
	require.NoError(t, e.SetTaskProject(model.SectionToday, task.ID, "Personal"))

	got := e.ListSection(model.SectionToday, "", "", "")[0]
	assert.Equal(t, "final", got.Text)
	assert.Equal(t, "<p>done</p>", got.Notes)
	assert.Equal(t, []string{"urgent"}, got.Tags, "tags are normalized")
	assert.Equal(t, "Personal", got.Project)
	assert.Equal(t, "#A8D5BA", got.ProjectColor)

	require.NoError(t, e.RemoveTaskTag(model.SectionToday, task.ID, "urgent"))
	require.NoError(t, e.SetTaskProject(model.SectionToday, task.ID, ""))
	got = e.ListSection(model.SectionToday, "", "", "")[0]
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.Project)
	assert.Empty(t, got.ProjectColor)
}

func TestUpdateTask_RejectionLeavesTaskUntouched(t *testing.T) {
	e, _ := newLocalEngine(t)
	task := mustAdd(t, e, model.SectionToday, "keep me")

	err := e.UpdateTaskText(model.SectionToday, task.ID, "   ")
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, "keep me", e.ListSection(model.SectionToday, "", "", "")[0].Text)
}

func TestAttachFile_MetadataOnly(t *testing.T) {
	e, _ := newLocalEngine(t)
	task := mustAdd(t, e, model.SectionToday, "with file")

	ref, err := e.AttachFile(model.SectionToday, task.ID, "photo.png", "image/png", 2048)
	require.NoError(t, err)
	assert.NotZero(t, ref.ID)

	got := e.ListSection(model.SectionToday, "", "", "")[0]
	require.Len(t, got.Files, 1)
	assert.Equal(t, "photo.png", got.Files[0].Name)

	require.NoError(t, e.RemoveFile(model.SectionToday, task.ID, ref.ID))
	assert.Empty(t, e.ListSection(model.SectionToday, "", "", "")[0].Files)
}

func TestTagCascade(t *testing.T) {
	e, _ := newLocalEngine(t)

	_, err := e.AddTask(model.SectionToday, "tagged", "", "", []string{"x", "keep"}, nil)
	require.NoError(t, err)
	mustAdd(t, e, model.SectionTodo, "untagged")
	_, err = e.AddTask(model.SectionDone, "done tagged", "", "", []string{"x"}, nil)
	require.NoError(t, err)

	require.NoError(t, e.AddTag("x"))
	require.NoError(t, e.RemoveTag("x"))

	assert.NotContains(t, e.Tags(), "x")
	assert.Equal(t, []string{"keep"},
		e.ListSection(model.SectionToday, "", "", "")[0].Tags)
	assert.Empty(t, e.ListSection(model.SectionDone, "", "", "")[0].Tags)
	assert.Empty(t, e.ListSection(model.SectionTodo, "", "", "")[0].Tags)
}

func TestProjectRemoval_DoesNotCascade(t *testing.T) {
	e, _ := newLocalEngine(t)

	task, err := e.AddTask(model.SectionToday, "work item", "", "Work", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "Work", task.Project)

	require.NoError(t, e.RemoveProject("Work"))

	// Denormalized fields survive project deletion.
	got := e.ListSection(model.SectionToday, "", "", "")[0]
	assert.Equal(t, "Work", got.Project)
	assert.Equal(t, "#B8D4E8", got.ProjectColor)

	// The cascade is explicit and separate.
	e.ClearProjectFromTasks("Work")
	got = e.ListSection(model.SectionToday, "", "", "")[0]
	assert.Empty(t, got.Project)
	assert.Empty(t, got.ProjectColor)
}

func TestAddTag_Normalization(t *testing.T) {
	e, _ := newLocalEngine(t)

	require.NoError(t, e.AddTag("  NewTag  "))
	assert.Contains(t, e.Tags(), "newtag")

	assert.ErrorIs(t, e.AddTag("newtag"), model.ErrValidation)
	assert.ErrorIs(t, e.AddTag("   "), model.ErrValidation)
}

func TestAddProject_Validation(t *testing.T) {
	e, _ := newLocalEngine(t)

	p, err := e.AddProject("Side Project", "#FF0000")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	_, err = e.AddProject("Side Project", "#00FF00")
	assert.ErrorIs(t, err, model.ErrValidation, "duplicate name")

	_, err = e.AddProject("Bad Color", "red")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestLocalWriteFailure_DoesNotBlockMutations(t *testing.T) {
	e, local := newLocalEngine(t)
	local.failSet = true

	task, err := e.AddTask(model.SectionToday, "still works", "", "", nil, nil)
	require.NoError(t, err, "local persistence errors are logged, not propagated")
	assert.Equal(t, "still works", e.ListSection(model.SectionToday, "", "", "")[0].Text)
	assert.Equal(t, task.ID, e.ListSection(model.SectionToday, "", "", "")[0].ID)
}

func TestStats(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	e := New(newFakeLocal(), nil, WithClock(func() time.Time { return now }))
	require.NoError(t, e.Load(context.Background()))

	mustAdd(t, e, model.SectionToday, "open")
	mustAdd(t, e, model.SectionDone, "done today")

	s := e.Stats()
	assert.Equal(t, 1, s.Today)
	assert.Equal(t, 1, s.Done)
	assert.Equal(t, 1, s.CompletedToday)
	assert.Equal(t, 1, s.CompletedThisMonth)
}

func TestExportImport_RoundTrip(t *testing.T) {
	e, _ := newLocalEngine(t)

	task, err := e.AddTask(model.SectionToday, "roundtrip", "<b>notes</b>", "Work",
		[]string{"urgent"}, []model.FileRef{{ID: 1, Name: "a.txt", Type: "text/plain", Size: 3}})
	require.NoError(t, err)
	mustAdd(t, e, model.SectionDone, "done item")
	require.NoError(t, e.AddTag("extra"))

	exported, err := e.ExportJSON()
	require.NoError(t, err)

	// Import into a fresh engine.
	other := New(newFakeLocal(), nil)
	require.NoError(t, other.Load(context.Background()))
	require.NoError(t, other.ImportJSON(exported))

	want := e.Snapshot()
	got := other.Snapshot()

	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))

	imported := other.ListSection(model.SectionToday, "", "", "")
	require.Len(t, imported, 1)
	assert.Equal(t, task.ID, imported[0].ID)
}

func TestImport_RejectedAtomically(t *testing.T) {
	e, _ := newLocalEngine(t)
	mustAdd(t, e, model.SectionToday, "survivor")

	cases := map[string]string{
		"malformed JSON":  `{"tasks": `,
		"missing fields":  `{"tasks": {"today": [], "todo": [], "done": []}}`,
		"invalid task":    `{"tasks": {"today": [{"id": 1, "text": ""}], "todo": [], "done": []}, "projects": [], "tags": []}`,
		"invalid project": `{"tasks": {"today": [], "todo": [], "done": []}, "projects": [{"id": "1", "name": "p", "color": "red"}], "tags": []}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			err := e.ImportJSON([]byte(payload))
			require.ErrorIs(t, err, model.ErrValidation)
			// Nothing was partially imported.
			assert.Equal(t, "survivor", e.ListSection(model.SectionToday, "", "", "")[0].Text)
		})
	}
}

func TestFilter_ListSection(t *testing.T) {
	e, _ := newLocalEngine(t)

	_, err := e.AddTask(model.SectionToday, "call the bank", "", "Work", []string{"call"}, nil)
	require.NoError(t, err)
	mustAdd(t, e, model.SectionToday, "walk the dog")

	byQuery := e.ListSection(model.SectionToday, "bank", "", "")
	require.Len(t, byQuery, 1)
	assert.Equal(t, "call the bank", byQuery[0].Text)

	byProject := e.ListSection(model.SectionToday, "", "Work", "")
	assert.Len(t, byProject, 1)

	byTag := e.ListSection(model.SectionToday, "", "", "call")
	assert.Len(t, byTag, 1)
}

func TestOrderTiebreak_StableForImportedDuplicates(t *testing.T) {
	e, _ := newLocalEngine(t)

	payload := `{
		"tasks": {
			"today": [
				{"id": 1, "text": "first", "createdAt": "2026-01-01T00:00:00Z", "order": 3},
				{"id": 2, "text": "second", "createdAt": "2026-01-01T00:00:00Z", "order": 3}
			],
			"todo": [], "done": []
		},
		"projects": [], "tags": []
	}`
	require.NoError(t, e.ImportJSON([]byte(payload)))

	got := e.ListSection(model.SectionToday, "", "", "")
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "second", got[1].Text)
}

func TestNormalizeOrders_BackfillsLegacyData(t *testing.T) {
	local := newFakeLocal()
	legacy := model.TaskSections{
		Today: []model.Task{
			{ID: 1, Text: "a", CreatedAt: time.Now()},
			{ID: 2, Text: "b", CreatedAt: time.Now()},
			{ID: 3, Text: "c", CreatedAt: time.Now()},
		},
	}
	require.NoError(t, local.Set(model.FieldTasks, legacy))

	e := New(local, nil)
	require.NoError(t, e.Load(context.Background()))

	got := e.ListSection(model.SectionToday, "", "", "")
	assert.Equal(t, []int{0, 1, 2}, []int{got[0].Order, got[1].Order, got[2].Order})

	// Density is restored so a later reorder works against real values.
	sorted := ordering.Sorted(got)
	assert.Equal(t, "a", sorted[0].Text)
}
