package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shabarini/focus-app/internal/model"
)

func section(texts ...string) []model.Task {
	tasks := make([]model.Task, len(texts))
	for i, text := range texts {
		tasks[i] = model.Task{ID: int64(i + 1), Text: text, Order: i}
	}
	return tasks
}

func orderedTexts(tasks []model.Task) []string {
	var out []string
	for _, t := range Sorted(tasks) {
		out = append(out, t.Text)
	}
	return out
}

func assertDense(t *testing.T, tasks []model.Task) {
	t.Helper()
	seen := map[int]bool{}
	for _, task := range tasks {
		assert.False(t, seen[task.Order], "duplicate order %d", task.Order)
		seen[task.Order] = true
	}
}

func TestNextOrder(t *testing.T) {
	assert.Equal(t, 0, NextOrder(nil))
	assert.Equal(t, 3, NextOrder(section("a", "b", "c")))
}

func TestSwapUp(t *testing.T) {
	tasks := section("a", "b", "c")

	assert.True(t, SwapUp(tasks, 2))
	assert.Equal(t, []string{"b", "a", "c"}, orderedTexts(tasks))
	assertDense(t, tasks)
}

func TestSwapUp_FirstTaskIsNoop(t *testing.T) {
	tasks := section("a", "b")
	assert.False(t, SwapUp(tasks, 1))
	assert.Equal(t, []string{"a", "b"}, orderedTexts(tasks))
}

func TestSwapDown_LastTaskIsNoop(t *testing.T) {
	tasks := section("a", "b")
	assert.False(t, SwapDown(tasks, 2))
	assert.Equal(t, []string{"a", "b"}, orderedTexts(tasks))
}

func TestSwap_UnknownIDIsNoop(t *testing.T) {
	tasks := section("a", "b")
	assert.False(t, SwapUp(tasks, 99))
	assert.False(t, SwapDown(tasks, 99))
}

func TestSwap_EmptySection(t *testing.T) {
	assert.False(t, SwapUp(nil, 1))
	assert.False(t, SwapDown(nil, 1))
}

func TestRenumber(t *testing.T) {
	tasks := section("a", "b", "c")

	require.True(t, Renumber(tasks, []int64{3, 1, 2}))
	assert.Equal(t, []string{"c", "a", "b"}, orderedTexts(tasks))
	assertDense(t, tasks)
}

func TestRenumber_RejectsBadPermutations(t *testing.T) {
	tasks := section("a", "b", "c")

	assert.False(t, Renumber(tasks, []int64{1, 2}), "wrong length")
	assert.False(t, Renumber(tasks, []int64{1, 2, 99}), "unknown id")
	assert.False(t, Renumber(tasks, []int64{1, 1, 2}), "duplicate id")
	assert.Equal(t, []string{"a", "b", "c"}, orderedTexts(tasks))
}

func TestSorted_StableOnDuplicateOrders(t *testing.T) {
	// Imported data can carry duplicate order values; array position is
	// the tiebreak.
	tasks := []model.Task{
		{ID: 1, Text: "first", Order: 0},
		{ID: 2, Text: "second", Order: 0},
		{ID: 3, Text: "third", Order: 0},
	}
	assert.Equal(t, []string{"first", "second", "third"}, orderedTexts(tasks))
}

func TestDensify_ClosesGaps(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Order: 5},
		{ID: 2, Order: 2},
		{ID: 3, Order: 9},
	}
	out := Densify(tasks)
	assert.Equal(t, []int64{2, 1, 3}, []int64{out[0].ID, out[1].ID, out[2].ID})
	for i, task := range out {
		assert.Equal(t, i, task.Order)
	}
}

func TestFilter_Query(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Text: "Buy milk", Order: 1},
		{ID: 2, Text: "Call bank", Notes: "about the milk bill", Order: 0},
		{ID: 3, Text: "Walk dog", Order: 2},
	}

	got := Filter(tasks, "MILK", "", "")
	require.Len(t, got, 2)
	// Result is re-sorted by order, not by match position.
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestFilter_ProjectAndTag(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Text: "a", Project: "Work", Tags: []string{"urgent"}, Order: 0},
		{ID: 2, Text: "b", Project: "Work", Order: 1},
		{ID: 3, Text: "c", Project: "Home", Tags: []string{"urgent"}, Order: 2},
	}

	byProject := Filter(tasks, "", "Work", "")
	assert.Len(t, byProject, 2)

	byTag := Filter(tasks, "", "", "urgent")
	assert.Len(t, byTag, 2)

	both := Filter(tasks, "", "Work", "urgent")
	require.Len(t, both, 1)
	assert.Equal(t, int64(1), both[0].ID)
}

func TestFilter_ResortsShuffledInput(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Text: "x", Order: 2},
		{ID: 2, Text: "x", Order: 0},
		{ID: 3, Text: "x", Order: 1},
	}
	got := Filter(tasks, "", "", "")
	assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})
}
