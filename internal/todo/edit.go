package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/tasks-go/internal/utils"
)

// Causes carried by a *ValidationError.
var (
	ErrEmptyText     = errors.New("text is required")
	ErrBadDate       = errors.New("invalid date, expected DD-MM-YYYY")
	ErrPastDeadline  = errors.New("deadline is in the past")
	ErrPriorityRange = fmt.Errorf("priority must be between %d and %d", MinPriority, MaxPriority)
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // field or JSON path of the offending value
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Draft holds the user-supplied values for a new task.
type Draft struct {
	Text     string
	Theme    string
	Deadline string
	Priority int
	Color    string
	Done     bool
}

// Normalize validates the draft against today and returns it in stored form:
// trimmed and capitalized text, defaulted theme, canonical deadline, palette
// color.
func (d Draft) Normalize(today time.Time) (Draft, error) {
	text, err := normalizeText(d.Text)
	if err != nil {
		return Draft{}, err
	}
	deadline, err := normalizeDeadline(d.Deadline, today)
	if err != nil {
		return Draft{}, err
	}
	if err := checkPriority(d.Priority); err != nil {
		return Draft{}, err
	}

	return Draft{
		Text:     text,
		Theme:    normalizeTheme(d.Theme),
		Deadline: deadline,
		Priority: d.Priority,
		Color:    string(ParseColor(d.Color)),
		Done:     d.Done,
	}, nil
}

// Patch is a partial update of a task.
// nil pointer => no change
// non-nil => set, including to the empty value. An empty Deadline clears it,
// an empty Theme resets it to DefaultTheme, an empty Text is rejected.
type Patch struct {
	Text     *string
	Theme    *string
	Deadline *string
	Priority *int
	Color    *string
	Done     *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Theme == nil && p.Deadline == nil &&
		p.Priority == nil && p.Color == nil && p.Done == nil
}

// Apply validates the patch and returns an updated copy of current. A
// deadline on the same day as the current one is kept even if it is now in
// the past.
func (p Patch) Apply(current Task, today time.Time) (Task, error) {
	next := current

	if p.Text != nil {
		text, err := normalizeText(*p.Text)
		if err != nil {
			return current, err
		}
		next.Text = text
	}
	if p.Theme != nil {
		next.Theme = normalizeTheme(*p.Theme)
	}
	if p.Deadline != nil {
		deadline, err := patchDeadline(*p.Deadline, current.Deadline, today)
		if err != nil {
			return current, err
		}
		next.Deadline = deadline
	}
	if p.Priority != nil {
		if err := checkPriority(*p.Priority); err != nil {
			return current, err
		}
		next.Priority = *p.Priority
	}
	if p.Color != nil {
		next.Color = ParseColor(*p.Color)
	}
	if p.Done != nil {
		next.Done = *p.Done
	}
	return next, nil
}

func normalizeText(s string) (string, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return "", &ValidationError{Path: "text", Err: ErrEmptyText}
	}
	return utils.FirstUpper(text), nil
}

func normalizeTheme(s string) string {
	theme := strings.TrimSpace(s)
	if theme == "" {
		return DefaultTheme
	}
	return theme
}

func checkPriority(p int) error {
	if p < MinPriority || p > MaxPriority {
		return &ValidationError{Path: "priority", Err: fmt.Errorf("%w, got %d", ErrPriorityRange, p)}
	}
	return nil
}

// normalizeDeadline accepts "" or a DD-MM-YYYY day not before today.
func normalizeDeadline(s string, today time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return "", &ValidationError{Path: "deadline", Err: fmt.Errorf("%w: %q", ErrBadDate, s)}
	}
	if d.Before(Today(today)) {
		return "", &ValidationError{Path: "deadline", Err: fmt.Errorf("%w: %s", ErrPastDeadline, FormatDate(d))}
	}
	return FormatDate(d), nil
}

func patchDeadline(s, current string, today time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == current {
		return current, nil
	}
	// The same day in another spelling counts as unchanged.
	if d, err := ParseDate(s); err == nil {
		if c, err := ParseDate(current); err == nil && d.Equal(c) {
			return FormatDate(d), nil
		}
	}
	return normalizeDeadline(s, today)
}
