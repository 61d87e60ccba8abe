// Package ordering maintains the dense section-local task order. All
// functions are pure with respect to I/O and operate on task slices in
// place or return new slices; persistence is the caller's concern.
package ordering

import (
	"sort"
	"strings"

	"github.com/shabarini/focus-app/internal/model"
)

// NextOrder returns the order value for a task appended to the section.
func NextOrder(tasks []model.Task) int {
	return len(tasks)
}

// Sorted returns the tasks ascending by order. The sort is stable so that
// duplicate order values (possible after imports) keep their original
// relative position.
func Sorted(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// SwapUp exchanges the order values of the task with the given id and its
// predecessor in sorted position. It reports whether anything changed; the
// first task and unknown ids are no-ops.
func SwapUp(tasks []model.Task, id int64) bool {
	return swap(tasks, id, -1)
}

// SwapDown exchanges the order values of the task with the given id and its
// successor in sorted position. The last task and unknown ids are no-ops.
func SwapDown(tasks []model.Task, id int64) bool {
	return swap(tasks, id, +1)
}

func swap(tasks []model.Task, id int64, dir int) bool {
	sorted := Sorted(tasks)
	pos := -1
	for i, t := range sorted {
		if t.ID == id {
			pos = i
			break
		}
	}
	other := pos + dir
	if pos < 0 || other < 0 || other >= len(sorted) {
		return false
	}

	// Swap positions, not raw order values: duplicate orders would
	// otherwise leave both tasks in place.
	a, b := sorted[pos].ID, sorted[other].ID
	orders := map[int64]int{a: other, b: pos}
	for i := range tasks {
		if o, ok := orders[tasks[i].ID]; ok {
			tasks[i].Order = o
		}
	}
	return true
}

// Renumber assigns dense zero-based order values following the given id
// permutation, for drag-and-drop reorders. It reports false without
// touching the slice unless ids is exactly a permutation of the section's
// task ids.
func Renumber(tasks []model.Task, ids []int64) bool {
	if len(ids) != len(tasks) {
		return false
	}
	positions := make(map[int64]int, len(ids))
	for i, id := range ids {
		if _, dup := positions[id]; dup {
			return false
		}
		positions[id] = i
	}
	for _, t := range tasks {
		if _, ok := positions[t.ID]; !ok {
			return false
		}
	}
	for i := range tasks {
		tasks[i].Order = positions[tasks[i].ID]
	}
	return true
}

// Densify rewrites order values to the task's current sorted position,
// closing gaps left by removals or imported data.
func Densify(tasks []model.Task) []model.Task {
	out := Sorted(tasks)
	for i := range out {
		out[i].Order = i
	}
	return out
}

// Filter selects tasks matching a free-text query (over text and notes,
// case-insensitive), a project name, and a tag. Empty criteria match
// everything. The result is always re-sorted by order; filtering never
// relies on input order.
func Filter(tasks []model.Task, query, project, tag string) []model.Task {
	query = strings.ToLower(query)
	var out []model.Task
	for _, t := range tasks {
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Text), query) &&
			!strings.Contains(strings.ToLower(t.Notes), query) {
			continue
		}
		if project != "" && t.Project != project {
			continue
		}
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		out = append(out, t)
	}
	return Sorted(out)
}
