package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/tasks-go/internal/deadline"
	"github.com/nibzard/tasks-go/internal/query"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// lsCommand prints the deadline banner followed by the query result.
func lsCommand(e *env, args []string) error {
	fs := e.newFlagSet("ls")
	filterName := fs.String("filter", string(e.cfg.FilterMode()), "Filter mode")
	category := fs.String("category", "", "Theme to keep")
	color := fs.String("color", "", "Color to keep")
	priority := fs.Int("priority", 0, "Priority to keep")
	sortName := fs.String("sort", string(e.cfg.SortMode()), "Sort mode")
	search := fs.String("search", "", "Case-insensitive text search")
	verbose := fs.Bool("v", false, "Show more details")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	filterMode, ok := query.ParseFilterMode(*filterName)
	if !ok {
		return fmt.Errorf("unknown filter %q", *filterName)
	}
	sortMode, ok := query.ParseSortMode(*sortName)
	if !ok {
		return fmt.Errorf("unknown sort %q", *sortName)
	}

	set := setFlags(fs)
	params, implied, err := paramsFromFlags(set, *category, *color, *priority)
	if err != nil {
		return err
	}
	if !set["filter"] && implied != "" {
		filterMode = implied
	}

	st := e.openStore()
	today := st.Today()
	tasks := st.List()
	styles := ui.NewStyles(e.out)

	if banner := styles.Banner(deadline.Check(tasks, today)); banner != "" {
		fmt.Fprintln(e.out, banner)
	}

	p := query.Pipeline{Search: *search, Filter: filterMode, Params: params, Sort: sortMode}
	visible := p.Run(tasks, today)
	if len(visible) == 0 {
		fmt.Fprintln(e.out, "No tasks found.")
		return nil
	}
	for _, t := range visible {
		fmt.Fprintln(e.out, styles.Task(t, today, *verbose))
	}
	return nil
}

// addCommand creates a task from the remaining arguments.
func addCommand(e *env, args []string) error {
	fs := e.newFlagSet("add")
	var d todo.Draft
	fs.StringVar(&d.Theme, "theme", todo.DefaultTheme, "Category")
	fs.StringVar(&d.Deadline, "deadline", "", "Deadline (DD-MM-YYYY)")
	fs.IntVar(&d.Priority, "priority", 0, "Priority 0-5")
	fs.StringVar(&d.Color, "color", string(todo.ColorNormal), "Display color")
	fs.BoolVar(&d.Done, "done", false, "Mark as done")

	if err := fs.Parse(args); err != nil {
		return err
	}
	d.Text = strings.Join(fs.Args(), " ")

	st := e.openStore()
	task, err := st.Add(d)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}
	fmt.Fprintf(e.out, "Added task %d: %s\n", task.ID, task.Text)
	return nil
}

// editCommand changes only the fields whose flags were given.
func editCommand(e *env, args []string) error {
	fs := e.newFlagSet("edit")
	text := fs.String("text", "", "Task text")
	theme := fs.String("theme", "", "Category")
	deadlineStr := fs.String("deadline", "", "Deadline (DD-MM-YYYY), empty to clear")
	priority := fs.Int("priority", 0, "Priority 0-5")
	color := fs.String("color", "", "Display color")
	done := fs.Bool("done", false, "Done state")

	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := parseID(fs.Args())
	if err != nil {
		return err
	}

	var patch todo.Patch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "text":
			patch.Text = text
		case "theme":
			patch.Theme = theme
		case "deadline":
			patch.Deadline = deadlineStr
		case "priority":
			patch.Priority = priority
		case "color":
			patch.Color = color
		case "done":
			patch.Done = done
		}
	})
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to edit: give at least one of -text, -theme, -deadline, -priority, -color, -done")
	}

	st := e.openStore()
	task, err := st.Edit(id, patch)
	if err != nil {
		return fmt.Errorf("editing task %d: %w", id, err)
	}
	fmt.Fprintf(e.out, "Updated task %d: %s\n", task.ID, task.Text)
	return nil
}

// toggleCommand flips the done flag of one task.
func toggleCommand(e *env, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	st := e.openStore()
	task, err := st.ToggleDone(id)
	if err != nil {
		return fmt.Errorf("toggling task %d: %w", id, err)
	}
	state := "pending"
	if task.Done {
		state = "done"
	}
	fmt.Fprintf(e.out, "Task %d is now %s\n", task.ID, state)
	return nil
}

// rmCommand deletes one task. Deleting an unknown id succeeds.
func rmCommand(e *env, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	st := e.openStore()
	_, existed := st.Get(id)
	if err := st.Delete(id); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	if existed {
		fmt.Fprintf(e.out, "Deleted task %d\n", id)
	} else {
		fmt.Fprintf(e.out, "No task %d\n", id)
	}
	return nil
}

// checkCommand prints the deadline report. It always exits zero.
func checkCommand(e *env, args []string) error {
	fs := e.newFlagSet("check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st := e.openStore()
	report := deadline.Check(st.List(), st.Today())
	if report.Empty() {
		fmt.Fprintln(e.out, "No deadlines due.")
		return nil
	}
	fmt.Fprint(e.out, ui.NewStyles(e.out).Banner(report))
	return nil
}

// themesCommand lists the categories, or colors, in use.
func themesCommand(e *env, args []string) error {
	fs := e.newFlagSet("themes")
	colors := fs.Bool("colors", false, "List colors in use instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st := e.openStore()
	if *colors {
		for _, c := range st.Colors() {
			fmt.Fprintln(e.out, c)
		}
		return nil
	}
	for _, theme := range st.Themes() {
		fmt.Fprintln(e.out, theme)
	}
	return nil
}

// paramsFromFlags builds filter values from the -category, -color and
// -priority flags that were set, and returns the filter mode the first of
// them implies.
func paramsFromFlags(set map[string]bool, category, color string, priority int) (query.Params, query.FilterMode, error) {
	var params query.Params
	var implied query.FilterMode
	if set["priority"] {
		params.Priority = &priority
		implied = query.FilterPriority
	}
	if set["color"] {
		c := todo.Color(strings.ToLower(strings.TrimSpace(color)))
		if !c.Valid() {
			return params, "", fmt.Errorf("unknown color %q (palette: %v)", color, todo.Palette())
		}
		params.Color = &c
		implied = query.FilterColor
	}
	if set["category"] {
		params.Category = &category
		implied = query.FilterCategory
	}
	return params, implied, nil
}

// setFlags returns the names of flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}
