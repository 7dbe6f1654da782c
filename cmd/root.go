// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// env carries what every command needs: resolved config, output streams,
// the logger and the clock.
type env struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	out     io.Writer
	errOut  io.Writer
	logger  *log.Logger
	now     func() time.Time
}

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr, time.Now)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, now func() time.Time) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	e := &env{
		cfg:     cws.Config,
		sources: cws,
		out:     stdout,
		errOut:  stderr,
		logger:  logging.NewFromConfig(stderr, cws.Config.LogLevel, cws.Config.LogFormat, cws.Config.LogTimestamps),
		now:     now,
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(e)
	}

	// No subcommand lists tasks
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}
	e.logger.Debug("running command", "command", subcommand, "file", e.cfg.TasksFile)

	switch subcommand {
	case "ls", "list":
		return lsCommand(e, remainingArgs)
	case "add":
		return addCommand(e, remainingArgs)
	case "edit":
		return editCommand(e, remainingArgs)
	case "toggle", "done":
		return toggleCommand(e, remainingArgs)
	case "rm", "delete":
		return rmCommand(e, remainingArgs)
	case "check":
		return checkCommand(e, remainingArgs)
	case "themes":
		return themesCommand(e, remainingArgs)
	case "doctor":
		return doctorCommand(e, remainingArgs)
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "init":
		return initCommand(e, remainingArgs)
	case "version":
		return versionCommand(e)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore loads the configured task file. A degraded load is reported on
// stderr and the command continues with an empty list.
func (e *env) openStore() *store.Store {
	st, res := store.Load(e.cfg.TasksFile, store.WithClock(e.now), store.WithLogger(e.logger))
	if res.Degraded() {
		fmt.Fprintf(e.errOut, "warning: task file %s is %s (%v); starting with an empty list\n",
			e.cfg.TasksFile, res.Status, res.Err)
	}
	return st
}

// newFlagSet returns a subcommand flag set that reports to stderr.
func (e *env) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasks "+name, flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	return fs
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, e *env, args []string) error {
	fs := e.newFlagSet("tui")
	category := fs.String("category", "", "Theme to keep")
	color := fs.String("color", "", "Color to keep")
	priority := fs.Int("priority", 0, "Priority to keep")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	params, implied, err := paramsFromFlags(setFlags(fs), *category, *color, *priority)
	if err != nil {
		return err
	}
	filterMode := e.cfg.FilterMode()
	if implied != "" {
		filterMode = implied
	}

	st := e.openStore()
	return ui.RunTUI(ctx, st,
		ui.WithFilter(filterMode),
		ui.WithParams(params),
		ui.WithSort(e.cfg.SortMode()),
	)
}

// versionCommand prints version information.
func versionCommand(e *env) error {
	fmt.Fprintf(e.out, "tasks version %s\n", Version)
	return nil
}

// parseID parses a single positional task id.
func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing task id")
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasks - A deadline-aware personal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [global options] [command] [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ls                List tasks (default command)")
	fmt.Fprintln(w, "  add <text...>     Add a task")
	fmt.Fprintln(w, "  edit <id>         Edit the fields given as options")
	fmt.Fprintln(w, "  toggle <id>       Flip a task between done and pending")
	fmt.Fprintln(w, "  rm <id>           Delete a task")
	fmt.Fprintln(w, "  check             Report overdue tasks and tasks due today")
	fmt.Fprintln(w, "  themes            List categories in use")
	fmt.Fprintln(w, "  doctor [file]     Check config and validate the task file")
	fmt.Fprintln(w, "  tui               Launch terminal UI")
	fmt.Fprintln(w, "  init              Write an example tasks.toml")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -filter string     all|done|not_done|category|color|priority")
	fmt.Fprintln(w, "  -category string   Theme to keep (implies -filter category)")
	fmt.Fprintln(w, "  -color string      Color to keep (implies -filter color)")
	fmt.Fprintln(w, "  -priority int      Priority to keep (implies -filter priority)")
	fmt.Fprintln(w, "  -sort string       none|date_added|deadline|alphabetically|statut|priority")
	fmt.Fprintln(w, "  -search string     Case-insensitive text search")
	fmt.Fprintln(w, "  -v                 Show more details")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add/Edit Options:")
	fmt.Fprintln(w, "  -text string       Task text (edit only; add takes it as arguments)")
	fmt.Fprintln(w, "  -theme string      Category (default \"default\")")
	fmt.Fprintln(w, "  -deadline string   DD-MM-YYYY, empty to clear")
	fmt.Fprintln(w, "  -priority int      0-5, 0 means unset")
	fmt.Fprintln(w, "  -color string      red|green|blue|yellow|cyan|magenta|black|normal")
	fmt.Fprintln(w, "  -done              Mark as done")
}
