package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/nibzard/tasks-go/internal/todo"
)

// SortMode selects the ordering applied by Sort.
type SortMode string

const (
	SortNone         SortMode = "none"
	SortDateAdded    SortMode = "date_added"
	SortDeadline     SortMode = "deadline"
	SortAlphabetical SortMode = "alphabetically"
	SortStatus       SortMode = "statut"
	SortPriority     SortMode = "priority"
)

// SortModes lists the sort modes in menu order.
func SortModes() []SortMode {
	return []SortMode{SortNone, SortDateAdded, SortDeadline, SortAlphabetical, SortStatus, SortPriority}
}

// ParseSortMode accepts a mode name, ignoring case and treating "-" like "_".
// "status" and "alpha" are accepted as aliases.
func ParseSortMode(s string) (SortMode, bool) {
	m := SortMode(normalizeMode(s))
	switch m {
	case "status":
		return SortStatus, true
	case "alpha", "alphabetical", "text":
		return SortAlphabetical, true
	case "date", "created":
		return SortDateAdded, true
	}
	for _, known := range SortModes() {
		if m == known {
			return m, true
		}
	}
	return m, false
}

// Sort returns tasks ordered by mode. All orderings are stable.
//
//   - date_added: oldest first, unparseable dates last
//   - deadline: tasks without a usable deadline first; then the deadline
//     farthest from today (past or future) first, ties by earlier date
//   - alphabetically: by text, ignoring case
//   - statut: done tasks first, each group in input order
//   - priority: highest first
func Sort(tasks []todo.Task, mode SortMode, today time.Time) []todo.Task {
	out := clone(tasks)
	switch mode {
	case SortDateAdded:
		slices.SortStableFunc(out, compareDateAdded)
	case SortDeadline:
		day := todo.Today(today)
		slices.SortStableFunc(out, func(a, b todo.Task) int {
			return compareDeadline(a, b, day)
		})
	case SortAlphabetical:
		slices.SortStableFunc(out, func(a, b todo.Task) int {
			return strings.Compare(strings.ToLower(a.Text), strings.ToLower(b.Text))
		})
	case SortStatus:
		slices.SortStableFunc(out, func(a, b todo.Task) int {
			return cmp.Compare(doneRank(a), doneRank(b))
		})
	case SortPriority:
		slices.SortStableFunc(out, func(a, b todo.Task) int {
			return cmp.Compare(b.Priority, a.Priority)
		})
	}
	return out
}

func compareDateAdded(a, b todo.Task) int {
	da, okA := a.CreatedDate()
	db, okB := b.CreatedDate()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return da.Compare(db)
}

func compareDeadline(a, b todo.Task, today time.Time) int {
	da, okA := a.DeadlineDate()
	db, okB := b.DeadlineDate()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	distA := absDays(todo.DaysBetween(today, da))
	distB := absDays(todo.DaysBetween(today, db))
	if c := cmp.Compare(distB, distA); c != 0 {
		return c
	}
	return da.Compare(db)
}

func doneRank(t todo.Task) int {
	if t.Done {
		return 0
	}
	return 1
}

func absDays(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
