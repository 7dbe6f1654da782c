// Package store owns the task list, its id index, and whole-file persistence.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
)

// ErrNotFound is returned when an id does not match any task.
var ErrNotFound = errors.New("task not found")

// PersistenceError reports a failed read or write of the task file.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// LoadStatus tells how the persisted state was obtained.
type LoadStatus int

const (
	// Loaded means the file was read and decoded.
	Loaded LoadStatus = iota
	// Missing means no file exists yet; the store starts empty.
	Missing
	// Corrupt means the file content is not a task document; the store starts empty.
	Corrupt
	// Unreadable means the file exists but could not be read; the store starts empty.
	Unreadable
)

func (s LoadStatus) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Corrupt:
		return "corrupt"
	case Unreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// LoadResult describes the outcome of Load or Reload. Err is set for Corrupt
// and Unreadable.
type LoadResult struct {
	Status LoadStatus
	Tasks  int
	Err    error
}

// Degraded reports whether the store fell back to an empty list because of a
// bad file.
func (r LoadResult) Degraded() bool {
	return r.Status == Corrupt || r.Status == Unreadable
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for creation dates and deadline checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for load/save diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store holds tasks in ascending id order plus an id index. Every mutation
// rewrites the whole file before returning. A Store is not safe for
// concurrent use.
type Store struct {
	path   string
	tasks  []todo.Task
	byID   map[int]int
	now    func() time.Time
	logger *log.Logger
}

// Load opens the task file at path. It never fails: a missing, unreadable or
// malformed file yields an empty store and the reason in LoadResult.
func Load(path string, opts ...Option) (*Store, LoadResult) {
	s := &Store{
		path:   path,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, s.Reload()
}

// Reload replaces the in-memory list with the file content.
func (s *Store) Reload() LoadResult {
	result := s.read()
	switch result.Status {
	case Loaded:
		s.logger.Debug("loaded tasks", "path", s.path, "count", result.Tasks)
	case Missing:
		s.logger.Debug("task file not found, starting empty", "path", s.path)
	default:
		s.logger.Warn("task file ignored, starting empty", "path", s.path, "status", result.Status, "err", result.Err)
	}
	return result
}

func (s *Store) read() LoadResult {
	f, err := todo.Load(s.path)
	if err != nil {
		s.tasks = nil
		s.reindex()
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return LoadResult{Status: Missing}
		case errors.Is(err, todo.ErrMalformed):
			return LoadResult{Status: Corrupt, Err: &PersistenceError{Op: "load", Path: s.path, Err: err}}
		default:
			return LoadResult{Status: Unreadable, Err: &PersistenceError{Op: "load", Path: s.path, Err: err}}
		}
	}
	s.tasks = f.Tasks
	s.reindex()
	return LoadResult{Status: Loaded, Tasks: len(s.tasks)}
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Today returns the store clock's current calendar day.
func (s *Store) Today() time.Time {
	return todo.Today(s.now())
}

// List returns a snapshot copy of all tasks in store order.
func (s *Store) List() []todo.Task {
	out := make([]todo.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns a copy of the task with id.
func (s *Store) Get(id int) (todo.Task, bool) {
	i, ok := s.byID[id]
	if !ok {
		return todo.Task{}, false
	}
	return s.tasks[i], true
}

// Add validates draft, assigns the smallest unused id, stamps today's date,
// inserts the task in id order and saves.
func (s *Store) Add(draft todo.Draft) (todo.Task, error) {
	today := s.Today()
	d, err := draft.Normalize(today)
	if err != nil {
		return todo.Task{}, err
	}

	task := todo.Task{
		ID:       s.nextID(),
		Done:     d.Done,
		Theme:    d.Theme,
		Text:     d.Text,
		Date:     todo.FormatDate(today),
		Deadline: d.Deadline,
		Priority: d.Priority,
		Color:    todo.Color(d.Color),
	}

	err = s.mutate(func(tasks []todo.Task) []todo.Task {
		return insertByID(tasks, task)
	})
	if err != nil {
		return todo.Task{}, err
	}
	s.logger.Info("added task", "id", task.ID)
	return task, nil
}

// Edit applies patch to the task with id and saves. Only fields set in the
// patch change.
func (s *Store) Edit(id int, patch todo.Patch) (todo.Task, error) {
	pos, ok := s.byID[id]
	if !ok {
		return todo.Task{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	updated, err := patch.Apply(s.tasks[pos], s.Today())
	if err != nil {
		return todo.Task{}, err
	}

	err = s.mutate(func(tasks []todo.Task) []todo.Task {
		tasks[pos] = updated
		return tasks
	})
	if err != nil {
		return todo.Task{}, err
	}
	s.logger.Info("edited task", "id", id)
	return updated, nil
}

// ToggleDone flips the done flag of the task with id and saves.
func (s *Store) ToggleDone(id int) (todo.Task, error) {
	pos, ok := s.byID[id]
	if !ok {
		return todo.Task{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	updated := s.tasks[pos]
	updated.Done = !updated.Done

	err := s.mutate(func(tasks []todo.Task) []todo.Task {
		tasks[pos] = updated
		return tasks
	})
	if err != nil {
		return todo.Task{}, err
	}
	s.logger.Info("toggled task", "id", id, "done", updated.Done)
	return updated, nil
}

// Delete removes the task with id and saves. An unknown id is not an error;
// the file is rewritten either way.
func (s *Store) Delete(id int) error {
	err := s.mutate(func(tasks []todo.Task) []todo.Task {
		out := make([]todo.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
	if err != nil {
		return err
	}
	s.logger.Info("deleted task", "id", id)
	return nil
}

// Themes returns the distinct non-empty themes in use, sorted.
func (s *Store) Themes() []string {
	return distinct(s.tasks, func(t todo.Task) string { return t.Theme })
}

// Colors returns the distinct non-empty colors in use, sorted.
func (s *Store) Colors() []todo.Color {
	names := distinct(s.tasks, func(t todo.Task) string { return string(t.Color) })
	colors := make([]todo.Color, len(names))
	for i, n := range names {
		colors[i] = todo.Color(n)
	}
	return colors
}

// Save writes the current list to disk.
func (s *Store) Save() error {
	f := &todo.File{Tasks: s.tasks}
	if err := f.Save(s.path); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	s.logger.Debug("saved tasks", "path", s.path, "count", len(s.tasks))
	return nil
}

// mutate applies change to a copy of the list, re-indexes and saves. If the
// save fails the previous list is restored and the error returned.
func (s *Store) mutate(change func([]todo.Task) []todo.Task) error {
	previous := s.tasks
	next := change(s.List())

	s.tasks = next
	s.reindex()
	if err := s.Save(); err != nil {
		s.tasks = previous
		s.reindex()
		return err
	}
	return nil
}

// reindex maps each id to the position of its first task. A hand-edited file
// may repeat an id; later records with that id are kept but not addressable.
func (s *Store) reindex() {
	s.byID = make(map[int]int, len(s.tasks))
	for i := range s.tasks {
		if _, seen := s.byID[s.tasks[i].ID]; !seen {
			s.byID[s.tasks[i].ID] = i
		}
	}
}

// nextID returns the smallest positive integer not used by any task.
func (s *Store) nextID() int {
	id := 1
	for {
		if _, used := s.byID[id]; !used {
			return id
		}
		id++
	}
}

// insertByID inserts task before the first task with a larger id, else
// appends.
func insertByID(tasks []todo.Task, task todo.Task) []todo.Task {
	for i := range tasks {
		if task.ID < tasks[i].ID {
			tasks = append(tasks, todo.Task{})
			copy(tasks[i+1:], tasks[i:])
			tasks[i] = task
			return tasks
		}
	}
	return append(tasks, task)
}

func distinct(tasks []todo.Task, key func(todo.Task) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range tasks {
		k := key(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
