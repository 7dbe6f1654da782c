package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nibzard/tasks-go/internal/config"
)

// initCommand writes an example tasks.toml into the project root.
func initCommand(e *env, args []string) error {
	flags := e.newFlagSet("init")
	force := flags.Bool("force", false, "Overwrite an existing tasks.toml")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	path := filepath.Join(e.cfg.ProjectRoot, "tasks.toml")
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(e.out, "Skipping %s (already exists, use -force to overwrite)\n", path)
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(e.out, "Wrote %s\n", path)
	return nil
}
