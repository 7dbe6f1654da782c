// Package query filters, searches and sorts task lists.
//
// Every function is pure: the input slice is never modified and the result
// is always a fresh slice. Unknown modes and missing parameters pass the
// input through unchanged.
package query

import (
	"strings"
	"time"

	"github.com/nibzard/tasks-go/internal/todo"
)

// FilterMode selects which tasks Filter keeps.
type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterDone     FilterMode = "done"
	FilterNotDone  FilterMode = "not_done"
	FilterCategory FilterMode = "category"
	FilterColor    FilterMode = "color"
	FilterPriority FilterMode = "priority"
)

// Params carries the values the category, color and priority filters match
// against. A nil field means the parameter was not supplied.
type Params struct {
	Category *string
	Color    *todo.Color
	Priority *int
}

// FilterModes lists the filter modes in menu order.
func FilterModes() []FilterMode {
	return []FilterMode{FilterAll, FilterNotDone, FilterDone, FilterCategory, FilterColor, FilterPriority}
}

// ParseFilterMode accepts a mode name, ignoring case and treating "-" like "_".
func ParseFilterMode(s string) (FilterMode, bool) {
	m := FilterMode(normalizeMode(s))
	for _, known := range FilterModes() {
		if m == known {
			return m, true
		}
	}
	return m, false
}

// Filter keeps the tasks matching mode.
func Filter(tasks []todo.Task, mode FilterMode, params Params) []todo.Task {
	var keep func(*todo.Task) bool
	switch mode {
	case FilterDone:
		keep = func(t *todo.Task) bool { return t.Done }
	case FilterNotDone:
		keep = func(t *todo.Task) bool { return !t.Done }
	case FilterCategory:
		if params.Category != nil {
			category := *params.Category
			keep = func(t *todo.Task) bool { return t.Theme == category }
		}
	case FilterColor:
		if params.Color != nil {
			color := *params.Color
			keep = func(t *todo.Task) bool { return t.Color == color }
		}
	case FilterPriority:
		if params.Priority != nil {
			priority := *params.Priority
			keep = func(t *todo.Task) bool { return t.Priority == priority }
		}
	}

	// all, unknown mode, or missing parameter
	if keep == nil {
		return clone(tasks)
	}

	out := make([]todo.Task, 0, len(tasks))
	for i := range tasks {
		if keep(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// Search keeps tasks whose text contains q, ignoring case. An empty query
// keeps everything.
func Search(tasks []todo.Task, q string) []todo.Task {
	needle := strings.ToLower(q)
	if needle == "" {
		return clone(tasks)
	}
	out := make([]todo.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Pipeline composes search, filter and sort in that order.
type Pipeline struct {
	Search string
	Filter FilterMode
	Params Params
	Sort   SortMode
}

// Run applies the pipeline to tasks. today anchors the deadline sort.
func (p Pipeline) Run(tasks []todo.Task, today time.Time) []todo.Task {
	out := Search(tasks, p.Search)
	out = Filter(out, p.Filter, p.Params)
	return Sort(out, p.Sort, today)
}

func clone(tasks []todo.Task) []todo.Task {
	out := make([]todo.Task, len(tasks))
	copy(out, tasks)
	return out
}

func normalizeMode(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
