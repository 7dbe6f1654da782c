package deadline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/tasks-go/internal/todo"
)

var testToday = time.Date(2026, time.October, 18, 23, 59, 0, 0, time.Local)

func ids(tasks []todo.Task) []int {
	var out []int
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestCheck(t *testing.T) {
	tasks := []todo.Task{
		{ID: 1, Deadline: "17-10-2026"},
		{ID: 2, Deadline: "18-10-2026"},
		{ID: 3, Deadline: "19-10-2026"},
		{ID: 4, Deadline: "01-01-2020", Done: true},
		{ID: 5, Deadline: ""},
		{ID: 6, Deadline: "garbage"},
		{ID: 7, Deadline: "18-10-2026", Done: true},
		{ID: 8, Deadline: "1-9-2026"},
		{ID: 9, Deadline: "18-10-2026"},
	}

	r := Check(tasks, testToday)
	if diff := cmp.Diff([]int{1, 8}, ids(r.Overdue)); diff != "" {
		t.Errorf("overdue mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2, 9}, ids(r.DueToday)); diff != "" {
		t.Errorf("due today mismatch (-want +got):\n%s", diff)
	}
	if r.Empty() {
		t.Error("Empty() = true, want false")
	}
	if got, want := r.Summary(), "2 overdue, 2 due today"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestCheckPartition(t *testing.T) {
	tasks := []todo.Task{
		{ID: 1, Deadline: "10-10-2026"},
		{ID: 2, Deadline: "18-10-2026"},
		{ID: 3, Deadline: "25-10-2026"},
		{ID: 4, Deadline: "18-10-2026", Done: true},
	}
	r := Check(tasks, testToday)

	seen := map[int]int{}
	for _, task := range append(append([]todo.Task{}, r.Overdue...), r.DueToday...) {
		seen[task.ID]++
		if task.Done {
			t.Errorf("done task %d reported", task.ID)
		}
		d, ok := task.DeadlineDate()
		if !ok || d.After(todo.Today(testToday)) {
			t.Errorf("task %d reported with deadline %q", task.ID, task.Deadline)
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("task %d reported %d times", id, n)
		}
	}
	if len(seen) != 2 {
		t.Errorf("reported %d tasks, want 2", len(seen))
	}
}

func TestCheckDoesNotMutate(t *testing.T) {
	tasks := []todo.Task{{ID: 1, Deadline: "01-01-2026"}}
	r := Check(tasks, testToday)
	r.Overdue[0].Text = "changed"
	if tasks[0].Text != "" {
		t.Fatal("Check result aliases input")
	}
}

func TestEmptyReport(t *testing.T) {
	r := Check(nil, testToday)
	if !r.Empty() {
		t.Error("Empty() = false for no tasks")
	}
	if r.Summary() != "" {
		t.Errorf("Summary() = %q, want empty", r.Summary())
	}

	only := Report{DueToday: []todo.Task{{ID: 1}}}
	if got := only.Summary(); got != "1 due today" {
		t.Errorf("Summary() = %q", got)
	}
}
