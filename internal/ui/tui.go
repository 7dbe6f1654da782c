// Package ui provides the interactive terminal interface and the shared task
// rendering used by the CLI.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/deadline"
	"github.com/nibzard/tasks-go/internal/query"
	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	filter query.FilterMode
	params query.Params
	sort   query.SortMode
}

// WithFilter sets the initial filter mode.
func WithFilter(mode query.FilterMode) TUIOption {
	return func(c *tuiConfig) {
		c.filter = mode
	}
}

// WithParams sets the category, color or priority used by the matching
// filter modes.
func WithParams(p query.Params) TUIOption {
	return func(c *tuiConfig) {
		c.params = p
	}
}

// WithSort sets the initial sort mode.
func WithSort(mode query.SortMode) TUIOption {
	return func(c *tuiConfig) {
		c.sort = mode
	}
}

// cycleFilters are the filters reachable with the f key.
var cycleFilters = []query.FilterMode{query.FilterAll, query.FilterNotDone, query.FilterDone}

// RunTUI starts the TUI over st.
func RunTUI(ctx context.Context, st *store.Store, opts ...TUIOption) error {
	c := &tuiConfig{
		filter: query.FilterAll,
		sort:   query.SortNone,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(st, c, newStyles(lipgloss.DefaultRenderer()))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	store  *store.Store
	styles *Styles

	filter query.FilterMode
	params query.Params
	sort   query.SortMode
	search textinput.Model
	editor textinput.Model

	visible []todo.Task
	report  deadline.Report
	cursor  int

	searching bool
	editing   editMode
	editID    int
	showHelp  bool
	status    string
}

func newTUIModel(st *store.Store, c *tuiConfig, styles *Styles) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "Search tasks..."
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Width = 40

	ed := textinput.New()
	ed.CharLimit = 200
	ed.Width = 60

	m := &tuiModel{
		store:  st,
		styles: styles,
		filter: c.filter,
		params: c.params,
		sort:   c.sort,
		search: ti,
		editor: ed,
	}
	if !hasParam(m.filter, m.params) {
		m.filter = query.FilterAll
	}
	m.refresh()
	return m
}

// editMode tells what the editor line is collecting.
type editMode int

const (
	editNone editMode = iota
	editAdd
	editText
)

// hasParam reports whether p carries the value mode filters on.
func hasParam(mode query.FilterMode, p query.Params) bool {
	switch mode {
	case query.FilterCategory:
		return p.Category != nil
	case query.FilterColor:
		return p.Color != nil
	case query.FilterPriority:
		return p.Priority != nil
	}
	return true
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.search.Width = max(10, msg.Width/2)
		return m, nil
	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditor(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *tuiModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *tuiModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeEditor()
		return m, nil
	case "enter":
		m.commitEditor()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *tuiModel) openEditor(mode editMode, prompt, value string) tea.Cmd {
	m.editing = mode
	m.editor.Prompt = prompt
	m.editor.SetValue(value)
	m.editor.CursorEnd()
	m.editor.Focus()
	return textinput.Blink
}

func (m *tuiModel) closeEditor() {
	m.editing = editNone
	m.editor.Blur()
	m.editor.Reset()
}

// commitEditor adds or renames a task from the editor line. A rejected value
// keeps the editor open with the error in the status line.
func (m *tuiModel) commitEditor() {
	value := m.editor.Value()
	switch m.editing {
	case editAdd:
		t, err := m.store.Add(todo.Draft{Text: value})
		if err != nil {
			m.status = err.Error()
			return
		}
		m.status = fmt.Sprintf("added task %d", t.ID)
	case editText:
		if _, err := m.store.Edit(m.editID, todo.Patch{Text: &value}); err != nil {
			m.status = err.Error()
			return
		}
		m.status = fmt.Sprintf("updated task %d", m.editID)
	}
	m.closeEditor()
	m.refresh()
}

// cycleParam moves the filter to mode and advances its value through values,
// wrapping around.
func cycleParam[T comparable](m *tuiModel, mode query.FilterMode, cur *T, values []T, set func(*T)) {
	if len(values) == 0 {
		m.status = fmt.Sprintf("nothing to filter by %s", mode)
		return
	}
	next := values[0]
	if m.filter == mode && cur != nil {
		next = nextMode(values, *cur)
	}
	m.filter = mode
	set(&next)
	m.status = ""
	m.refresh()
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "x":
		if t, ok := m.selected(); ok {
			if _, err := m.store.ToggleDone(t.ID); err != nil {
				m.status = err.Error()
			} else {
				m.status = ""
			}
			m.refresh()
		}
	case "d":
		if t, ok := m.selected(); ok {
			if err := m.store.Delete(t.ID); err != nil {
				m.status = err.Error()
			} else {
				m.status = fmt.Sprintf("deleted task %d", t.ID)
			}
			m.refresh()
		}
	case "a":
		return m, m.openEditor(editAdd, "new task: ", "")
	case "e":
		if t, ok := m.selected(); ok {
			m.editID = t.ID
			return m, m.openEditor(editText, fmt.Sprintf("task %d: ", t.ID), t.Text)
		}
	case "f":
		m.filter = nextMode(cycleFilters, m.filter)
		m.refresh()
	case "c":
		cycleParam(m, query.FilterCategory, m.params.Category, m.store.Themes(),
			func(v *string) { m.params.Category = v })
	case "o":
		cycleParam(m, query.FilterColor, m.params.Color, m.store.Colors(),
			func(v *todo.Color) { m.params.Color = v })
	case "p":
		priorities := make([]int, 0, todo.MaxPriority-todo.MinPriority+1)
		for p := todo.MaxPriority; p >= todo.MinPriority; p-- {
			priorities = append(priorities, p)
		}
		cycleParam(m, query.FilterPriority, m.params.Priority, priorities,
			func(v *int) { m.params.Priority = v })
	case "s":
		m.sort = nextMode(query.SortModes(), m.sort)
		m.refresh()
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "esc":
		if m.search.Value() != "" {
			m.search.Reset()
			m.refresh()
		}
	case "r":
		res := m.store.Reload()
		m.status = reloadStatus(res)
		m.refresh()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title("Tasks"))
	b.WriteString("\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if banner := m.styles.Banner(m.report); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	b.WriteString(m.styles.meta.Render(fmt.Sprintf("Filter: %s | Sort: %s | %d of %d tasks",
		m.filterLabel(), m.sort, len(m.visible), m.store.Len())))
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if m.editing != editNone {
		b.WriteString(m.editor.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString("  No tasks to show.\n")
	}
	today := m.store.Today()
	for i, t := range m.visible {
		line := m.styles.Task(t, today, false)
		if i == m.cursor {
			line = m.styles.selected.Render(">") + line
		} else {
			line = " " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.styles.status.Render(m.status))
		b.WriteString("\n")
	}
	writeFooter(&b)
	return b.String()
}

// refresh recomputes the visible list and the deadline report from the store.
func (m *tuiModel) refresh() {
	tasks := m.store.List()
	today := m.store.Today()
	p := query.Pipeline{
		Search: m.search.Value(),
		Filter: m.filter,
		Params: m.params,
		Sort:   m.sort,
	}
	m.visible = p.Run(tasks, today)
	m.report = deadline.Check(tasks, today)
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// filterLabel names the filter with its value, e.g. "category=home".
func (m *tuiModel) filterLabel() string {
	switch {
	case m.filter == query.FilterCategory && m.params.Category != nil:
		return fmt.Sprintf("%s=%s", m.filter, *m.params.Category)
	case m.filter == query.FilterColor && m.params.Color != nil:
		return fmt.Sprintf("%s=%s", m.filter, *m.params.Color)
	case m.filter == query.FilterPriority && m.params.Priority != nil:
		return fmt.Sprintf("%s=%d", m.filter, *m.params.Priority)
	}
	return string(m.filter)
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return todo.Task{}, false
	}
	return m.visible[m.cursor], true
}

// nextMode returns the mode after cur in modes, wrapping around. An unknown
// cur starts the cycle over.
func nextMode[T comparable](modes []T, cur T) T {
	for i, m := range modes {
		if m == cur {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func reloadStatus(res store.LoadResult) string {
	switch res.Status {
	case store.Loaded:
		return fmt.Sprintf("reloaded %d tasks", res.Tasks)
	case store.Missing:
		return "task file not found, starting empty"
	default:
		return fmt.Sprintf("task file %s: %v", res.Status, res.Err)
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  j, k         Move down, up\n")
	b.WriteString("  space, x     Toggle done\n")
	b.WriteString("  a            Add task\n")
	b.WriteString("  e            Edit task text\n")
	b.WriteString("  d            Delete task\n")
	b.WriteString("  f            Cycle filter (all, not done, done)\n")
	b.WriteString("  c, o, p      Filter by category, color, priority\n")
	b.WriteString("  s            Cycle sort\n")
	b.WriteString("  /            Search (enter to keep, esc to clear)\n")
	b.WriteString("  r            Reload task file\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press ? for help | q to quit\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
