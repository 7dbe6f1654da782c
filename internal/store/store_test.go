package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/tasks-go/internal/todo"
)

var fixedNow = time.Date(2026, time.October, 18, 10, 0, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ToDoList.json")
	s, result := Load(path, WithClock(fixedClock))
	if result.Status != Missing {
		t.Fatalf("Load() status = %v, want missing", result.Status)
	}
	return s, path
}

func mustAdd(t *testing.T, s *Store, text string) todo.Task {
	t.Helper()
	task, err := s.Add(todo.Draft{Text: text})
	if err != nil {
		t.Fatalf("Add(%q) failed: %v", text, err)
	}
	return task
}

func ids(tasks []todo.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestAddThenList(t *testing.T) {
	s, _ := newStore(t)

	task, err := s.Add(todo.Draft{Text: "buy milk", Theme: "default", Priority: 2, Color: "normal"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	want := todo.Task{
		ID:       1,
		Theme:    "default",
		Text:     "Buy milk",
		Date:     "18-10-2026",
		Priority: 2,
		Color:    todo.ColorNormal,
	}
	if diff := cmp.Diff(want, task); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]todo.Task{want}, s.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestGapFillingIDs(t *testing.T) {
	s, _ := newStore(t)
	mustAdd(t, s, "one")
	mustAdd(t, s, "two")
	mustAdd(t, s, "three")

	if err := s.Delete(2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	task := mustAdd(t, s, "again")
	if task.ID != 2 {
		t.Errorf("new id = %d, want 2", task.ID)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ids(s.List())); diff != "" {
		t.Errorf("ids not kept in ascending order (-want +got):\n%s", diff)
	}

	if err := s.Delete(1); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(3); err != nil {
		t.Fatal(err)
	}
	if got := mustAdd(t, s, "first").ID; got != 1 {
		t.Errorf("id after deleting 1 and 3 = %d, want 1", got)
	}
	if got := mustAdd(t, s, "third").ID; got != 3 {
		t.Errorf("next id = %d, want 3", got)
	}
	if got := mustAdd(t, s, "fourth").ID; got != 4 {
		t.Errorf("next id = %d, want 4", got)
	}
}

func TestInsertKeepsLoadedOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	f := &todo.File{Tasks: []todo.Task{
		{ID: 5, Text: "Five", Date: "01-01-2026", Color: todo.ColorNormal},
		{ID: 1, Text: "One", Date: "01-01-2026", Color: todo.ColorNormal},
		{ID: 3, Text: "Three", Date: "01-01-2026", Color: todo.ColorNormal},
	}}
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}

	s, result := Load(path, WithClock(fixedClock))
	if result.Status != Loaded || result.Tasks != 3 {
		t.Fatalf("Load() = %+v", result)
	}
	task := mustAdd(t, s, "two")
	if task.ID != 2 {
		t.Fatalf("id = %d, want 2", task.ID)
	}
	// inserted before the first task with a larger id (5)
	if diff := cmp.Diff([]int{2, 5, 1, 3}, ids(s.List())); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	s, path := newStore(t)
	mustAdd(t, s, "alpha")
	if _, err := s.Add(todo.Draft{Text: "bêta", Theme: "café", Deadline: "30-10-2026", Priority: 4, Color: "cyan", Done: true}); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, "gamma")
	if err := s.Delete(1); err != nil {
		t.Fatal(err)
	}

	reloaded, result := Load(path, WithClock(fixedClock))
	if result.Status != Loaded {
		t.Fatalf("reload status = %v (%v)", result.Status, result.Err)
	}
	if diff := cmp.Diff(s.List(), reloaded.List()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if err := reloaded.Save(); err != nil {
		t.Fatal(err)
	}
	again, _ := Load(path)
	if diff := cmp.Diff(s.List(), again.List()); diff != "" {
		t.Errorf("second round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	s, _ := newStore(t)
	task := mustAdd(t, s, "keep me")

	if err := s.Delete(99); err != nil {
		t.Fatalf("Delete(99) error = %v, want nil", err)
	}
	if diff := cmp.Diff([]todo.Task{task}, s.List()); diff != "" {
		t.Errorf("List() changed (-want +got):\n%s", diff)
	}
}

func TestEdit(t *testing.T) {
	s, path := newStore(t)
	task, err := s.Add(todo.Draft{Text: "draft report", Theme: "work", Deadline: "20-10-2026", Priority: 3, Color: "blue"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := s.Edit(task.ID, todo.Patch{Text: ptr("final report"), Priority: ptr(5)})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	want := task
	want.Text = "Final report"
	want.Priority = 5
	if diff := cmp.Diff(want, updated); diff != "" {
		t.Errorf("Edit() mismatch (-want +got):\n%s", diff)
	}

	got, ok := s.Get(task.ID)
	if !ok || got != want {
		t.Errorf("Get() = %+v, %v", got, ok)
	}

	reloaded, _ := Load(path)
	if diff := cmp.Diff([]todo.Task{want}, reloaded.List()); diff != "" {
		t.Errorf("edit not persisted (-want +got):\n%s", diff)
	}

	t.Run("not found", func(t *testing.T) {
		_, err := s.Edit(42, todo.Patch{Done: ptr(true)})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Edit(42) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("validation leaves store untouched", func(t *testing.T) {
		_, err := s.Edit(task.ID, todo.Patch{Deadline: ptr("01-01-2000")})
		var ve *todo.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Edit() error = %v, want *todo.ValidationError", err)
		}
		if got, _ := s.Get(task.ID); got != want {
			t.Errorf("task changed after failed edit: %+v", got)
		}
	})

	t.Run("past deadline kept when unchanged", func(t *testing.T) {
		later := &Store{path: s.path, now: func() time.Time { return fixedNow.AddDate(0, 1, 0) }, logger: s.logger}
		later.Reload()
		edited, err := later.Edit(task.ID, todo.Patch{Deadline: ptr("20-10-2026"), Done: ptr(true)})
		if err != nil {
			t.Fatalf("Edit() error = %v", err)
		}
		if edited.Deadline != "20-10-2026" || !edited.Done {
			t.Errorf("Edit() = %+v", edited)
		}
	})
}

func TestToggleDone(t *testing.T) {
	s, _ := newStore(t)
	task := mustAdd(t, s, "flip")

	toggled, err := s.ToggleDone(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !toggled.Done {
		t.Error("expected done after first toggle")
	}
	toggled, err = s.ToggleDone(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if toggled.Done {
		t.Error("expected not done after second toggle")
	}

	if _, err := s.ToggleDone(7); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleDone(7) error = %v, want ErrNotFound", err)
	}
}

func TestDuplicateIDsKeepEveryRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	f := &todo.File{Tasks: []todo.Task{
		{ID: 1, Text: "First", Date: "01-01-2026", Color: todo.ColorNormal},
		{ID: 1, Text: "Second", Date: "01-01-2026", Color: todo.ColorNormal},
	}}
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}
	s, result := Load(path, WithClock(fixedClock))
	if result.Status != Loaded {
		t.Fatalf("Load() = %+v", result)
	}

	if got, _ := s.Get(1); got.Text != "First" {
		t.Fatalf("Get(1).Text = %q, want First", got.Text)
	}
	edited, err := s.Edit(1, todo.Patch{Priority: ptr(3)})
	if err != nil {
		t.Fatal(err)
	}
	if edited.Text != "First" || edited.Priority != 3 {
		t.Errorf("Edit(1) = %+v", edited)
	}
	if _, err := s.ToggleDone(1); err != nil {
		t.Fatal(err)
	}

	loaded, err := todo.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []todo.Task{
		{ID: 1, Text: "First", Date: "01-01-2026", Priority: 3, Done: true, Color: todo.ColorNormal},
		{ID: 1, Text: "Second", Date: "01-01-2026", Color: todo.ColorNormal},
	}
	if diff := cmp.Diff(want, loaded.Tasks); diff != "" {
		t.Errorf("saved tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestEditKeepsUnpaddedPastDeadline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	f := &todo.File{Tasks: []todo.Task{
		{ID: 1, Text: "Old", Date: "01-01-2020", Deadline: "5-1-2020", Color: todo.ColorNormal},
	}}
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}
	s, _ := Load(path, WithClock(fixedClock))

	edited, err := s.Edit(1, todo.Patch{Deadline: ptr("05-01-2020"), Text: ptr("Older")})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if edited.Deadline != "05-01-2020" || edited.Text != "Older" {
		t.Errorf("Edit() = %+v", edited)
	}
}

func TestAddRejectsPastDeadline(t *testing.T) {
	s, path := newStore(t)
	_, err := s.Add(todo.Draft{Text: "too late", Deadline: "01-01-2000"})

	var ve *todo.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Add() error = %v, want *todo.ValidationError", err)
	}
	if !errors.Is(err, todo.ErrPastDeadline) {
		t.Errorf("Add() error = %v, want ErrPastDeadline", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("rejected add must not write the file")
	}
}

func TestListIsSnapshot(t *testing.T) {
	s, _ := newStore(t)
	mustAdd(t, s, "original")

	list := s.List()
	list[0].Text = "mutated"
	if got, _ := s.Get(1); got.Text != "Original" {
		t.Errorf("store changed through List() copy: %q", got.Text)
	}
}

func TestLoadDegraded(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    LoadStatus
	}{
		{"garbage", "not json at all", Corrupt},
		{"array", `[{"id": 1}]`, Corrupt},
		{"wrong types", `{"tasks": [{"id": "x"}]}`, Corrupt},
		{"no tasks key", `{"items": []}`, Loaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			s, result := Load(path)
			if result.Status != tt.want {
				t.Fatalf("status = %v, want %v (err %v)", result.Status, tt.want, result.Err)
			}
			if s.Len() != 0 {
				t.Errorf("Len() = %d, want 0", s.Len())
			}
			if result.Degraded() != (tt.want == Corrupt) {
				t.Errorf("Degraded() = %v", result.Degraded())
			}
			if tt.want == Corrupt {
				var pe *PersistenceError
				if !errors.As(result.Err, &pe) || pe.Op != "load" {
					t.Errorf("Err = %v, want load *PersistenceError", result.Err)
				}
			}
		})
	}

	t.Run("directory is unreadable", func(t *testing.T) {
		s, result := Load(t.TempDir())
		if result.Status != Unreadable {
			t.Fatalf("status = %v, want unreadable", result.Status)
		}
		if s.Len() != 0 {
			t.Errorf("Len() = %d, want 0", s.Len())
		}
	})
}

func TestSaveFailureIsReportedAndReverted(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	s, _ := Load(filepath.Join(blocker, "tasks.json"), WithClock(fixedClock))

	_, err := s.Add(todo.Draft{Text: "lost"})
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Add() error = %v, want *PersistenceError", err)
	}
	if pe.Op != "save" {
		t.Errorf("Op = %q, want save", pe.Op)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after failed save, want 0", s.Len())
	}
	if _, ok := s.Get(1); ok {
		t.Error("index still holds the reverted task")
	}
}

func TestThemesAndColors(t *testing.T) {
	s, _ := newStore(t)
	for _, d := range []todo.Draft{
		{Text: "a", Theme: "work", Color: "red"},
		{Text: "b", Theme: "home", Color: "blue"},
		{Text: "c", Theme: "work", Color: "red"},
		{Text: "d"},
	} {
		if _, err := s.Add(d); err != nil {
			t.Fatal(err)
		}
	}

	if diff := cmp.Diff([]string{"default", "home", "work"}, s.Themes()); diff != "" {
		t.Errorf("Themes() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]todo.Color{todo.ColorBlue, todo.ColorNormal, todo.ColorRed}, s.Colors()); diff != "" {
		t.Errorf("Colors() mismatch (-want +got):\n%s", diff)
	}
}

func TestReload(t *testing.T) {
	s, path := newStore(t)
	mustAdd(t, s, "first")

	other, _ := Load(path, WithClock(fixedClock))
	mustAdd(t, other, "second")

	result := s.Reload()
	if result.Status != Loaded || result.Tasks != 2 {
		t.Fatalf("Reload() = %+v", result)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestLoadStatusString(t *testing.T) {
	for status, want := range map[LoadStatus]string{
		Loaded: "loaded", Missing: "missing", Corrupt: "corrupt", Unreadable: "unreadable", LoadStatus(9): "LoadStatus(9)",
	} {
		if got := status.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
