package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags

# Task file (relative to the current directory, supports ~ expansion)
tasks_file = "ToDoList.json"

# Default ordering for ls and the TUI:
# none, date_added, deadline, alphabetically, statut, priority
default_sort = "none"

# Default filter for ls and the TUI: all, done, not_done
default_filter = "all"

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json, logfmt
log_format = "text"

# Show timestamps in log lines
log_timestamps = false
`
}
