package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/deadline"
	"github.com/nibzard/tasks-go/internal/todo"
)

// Styles renders tasks and deadline banners for one output. Color support is
// detected from the writer, so plain buffers get plain text.
type Styles struct {
	renderer *lipgloss.Renderer

	title    lipgloss.Style
	done     lipgloss.Style
	urgent   lipgloss.Style
	meta     lipgloss.Style
	selected lipgloss.Style
	banner   lipgloss.Style
	status   lipgloss.Style
}

// NewStyles builds styles bound to w.
func NewStyles(w io.Writer) *Styles {
	return newStyles(lipgloss.NewRenderer(w))
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		renderer: r,
		title:    r.NewStyle().Bold(true),
		done:     r.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#808080")),
		urgent:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		meta:     r.NewStyle().Foreground(lipgloss.Color("241")),
		selected: r.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")),
		banner:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		status:   r.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}

// colorStyle returns the foreground style for a palette color. Normal keeps
// the terminal default.
func (s *Styles) colorStyle(c todo.Color) lipgloss.Style {
	if c == todo.ColorNormal || !c.Valid() {
		return s.renderer.NewStyle()
	}
	return s.renderer.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}

// Task renders one task as a single line, plus a details line when verbose.
func (s *Styles) Task(t todo.Task, today time.Time, verbose bool) string {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}

	text := s.colorStyle(t.Color).Render(t.Text)
	if t.Done {
		text = s.done.Render(t.Text)
	}

	var meta []string
	if t.Theme != "" && t.Theme != todo.DefaultTheme {
		meta = append(meta, "#"+t.Theme)
	}
	if t.Priority != 0 {
		meta = append(meta, fmt.Sprintf("P%d/%d", t.Priority, todo.MaxPriority))
	}

	line := fmt.Sprintf("%3d %s %s", t.ID, box, text)
	if len(meta) > 0 {
		line += "  " + s.meta.Render(strings.Join(meta, " "))
	}
	if t.HasDeadline() {
		if t.IsUrgent(today) {
			line += "  " + s.urgent.Render("! DEADLINE "+t.Deadline)
		} else {
			line += "  " + s.meta.Render("due "+t.Deadline)
		}
	}

	if !verbose {
		return line
	}
	status := "pending"
	if t.Done {
		status = "done"
	}
	details := fmt.Sprintf("      created %s  %s  color %s", t.Date, status, t.Color)
	return line + "\n" + s.meta.Render(details)
}

// Banner renders the deadline report, or "" when nothing is due.
func (s *Styles) Banner(r deadline.Report) string {
	if r.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.banner.Render("! " + r.Summary()))
	b.WriteString("\n")
	for _, t := range r.Overdue {
		b.WriteString(fmt.Sprintf("  - %s (overdue since %s)\n", t.Text, t.Deadline))
	}
	for _, t := range r.DueToday {
		b.WriteString(fmt.Sprintf("  - %s (due today)\n", t.Text))
	}
	return b.String()
}

// Title renders a heading underlined with '='.
func (s *Styles) Title(title string) string {
	return s.title.Render(title) + "\n" + strings.Repeat("=", len(title)) + "\n"
}
