package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/tasks-go/internal/deadline"
	"github.com/nibzard/tasks-go/internal/todo"
)

// doctorCommand checks config and task file validity.
func doctorCommand(e *env, args []string) error {
	flags := e.newFlagSet("doctor")
	schemaPath := flags.String("schema", "", "Validate against this JSON Schema instead of the bundled one")
	noSchema := flags.Bool("no-schema", false, "Skip JSON Schema validation")
	verbose := flags.Bool("v", false, "Verbose output")

	if err := flags.Parse(args); err != nil {
		return err
	}

	remaining := flags.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	tasksPath := e.cfg.TasksFile
	if len(remaining) == 1 {
		tasksPath = remaining[0]
		if !filepath.IsAbs(tasksPath) {
			tasksPath = filepath.Join(e.cfg.ProjectRoot, tasksPath)
		}
	}

	w := e.out
	fmt.Fprintln(w, "Tasks Doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if file := e.sources.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "  File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  File: (none, using defaults)")
	}
	for _, entry := range e.sources.Entries() {
		fmt.Fprintf(w, "  %s = %s (%s)\n", entry.Name, entry.Value, entry.Source)
	}
	if err := e.cfg.Validate(); err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Task file
	fmt.Fprintf(w, "Task file: %s\n", tasksPath)
	data, err := os.ReadFile(tasksPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (created on first change)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	default:
		result := todo.ValidateDocument(data, todo.ValidationOptions{
			SchemaPath: *schemaPath,
			SkipSchema: *noSchema,
		})
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.UsedSchema {
			fmt.Fprintln(w, "  Schema: checked")
		}
		if result.Valid {
			fmt.Fprintln(w, "  ✅ Valid")
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, ve := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", ve)
			}
			allOK = false
		}

		if f, err := todo.Decode(data); err == nil {
			report := deadline.Check(f.Tasks, todo.Today(e.now()))
			fmt.Fprintf(w, "  Tasks: %d\n", len(f.Tasks))
			if !report.Empty() {
				fmt.Fprintf(w, "  ⚠️  Deadlines: %s\n", report.Summary())
			}
			if *verbose {
				for _, t := range f.Tasks {
					mark := " "
					if t.Done {
						mark = "x"
					}
					fmt.Fprintf(w, "    - [%s] %d: %s\n", mark, t.ID, t.Text)
				}
			}
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}
