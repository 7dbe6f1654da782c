// Package deadline reports undone tasks whose deadline is today or past.
package deadline

import (
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/tasks-go/internal/todo"
)

// Report partitions the urgent tasks of a list.
type Report struct {
	Overdue  []todo.Task
	DueToday []todo.Task
}

// Check scans tasks against today. Done tasks and tasks without a parseable
// deadline are skipped. Input order is kept within each group.
func Check(tasks []todo.Task, today time.Time) Report {
	day := todo.Today(today)
	var r Report
	for _, t := range tasks {
		if t.Done {
			continue
		}
		d, ok := t.DeadlineDate()
		if !ok {
			continue
		}
		switch {
		case d.Before(day):
			r.Overdue = append(r.Overdue, t)
		case d.Equal(day):
			r.DueToday = append(r.DueToday, t)
		}
	}
	return r
}

// Empty reports whether nothing is due.
func (r Report) Empty() bool {
	return len(r.Overdue) == 0 && len(r.DueToday) == 0
}

// Summary renders a one-line count, or "" for an empty report.
func (r Report) Summary() string {
	var parts []string
	if n := len(r.Overdue); n > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", n))
	}
	if n := len(r.DueToday); n > 0 {
		parts = append(parts, fmt.Sprintf("%d due today", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ")
}
