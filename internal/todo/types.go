package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTheme is the theme given to tasks created without one.
const DefaultTheme = "default"

// MinPriority and MaxPriority bound Task.Priority. Zero means unset.
const (
	MinPriority = 0
	MaxPriority = 5
)

// ErrMalformed reports a task file whose content is not a task document.
var ErrMalformed = errors.New("malformed task file")

// Task represents a single task in the list.
type Task struct {
	ID       int    `json:"id"`
	Done     bool   `json:"done"`
	Theme    string `json:"theme"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	Deadline string `json:"deadline"`
	Priority int    `json:"priority"`
	Color    Color  `json:"color"`
}

// HasDeadline reports whether the task carries a deadline string.
func (t *Task) HasDeadline() bool {
	return t.Deadline != ""
}

// DeadlineDate parses the deadline. ok is false when there is none or it does
// not parse.
func (t *Task) DeadlineDate() (time.Time, bool) {
	if t.Deadline == "" {
		return time.Time{}, false
	}
	d, err := ParseDate(t.Deadline)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// CreatedDate parses the creation date.
func (t *Task) CreatedDate() (time.Time, bool) {
	d, err := ParseDate(t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsUrgent reports whether an undone task's deadline is today or already past.
func (t *Task) IsUrgent(today time.Time) bool {
	if t.Done {
		return false
	}
	d, ok := t.DeadlineDate()
	return ok && !d.After(Today(today))
}

// File represents the task file structure.
type File struct {
	Tasks []Task `json:"tasks"`
}

// Load reads and parses a task file from path.
// A missing file surfaces as an error satisfying errors.Is(err, fs.ErrNotExist);
// undecodable content wraps ErrMalformed.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Decode(data)
}

// Decode parses a task document. The top-level value must be an object; a
// missing "tasks" key yields an empty list.
func Decode(data []byte) (*File, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformed)
	}

	f := &File{Tasks: []Task{}}
	raw, ok := top["tasks"]
	if !ok {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.Tasks); err != nil {
		return nil, fmt.Errorf("%w: tasks: %v", ErrMalformed, err)
	}
	if f.Tasks == nil {
		return nil, fmt.Errorf("%w: tasks is not a list", ErrMalformed)
	}
	return f, nil
}

// Encode renders the document with 4-space indentation and a trailing newline.
func (f *File) Encode() ([]byte, error) {
	out := File{Tasks: f.Tasks}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("marshal task file: %w", err)
	}
	return buf.Bytes(), nil
}

// Save replaces the file at path with the encoded document. The content is
// written to a temporary file in the same directory and renamed over path.
func (f *File) Save(path string) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}
