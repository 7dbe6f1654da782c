package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TASKS_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKS_FILE"); v != "" {
		cfg.TasksFile = v
		set("tasks_file")
	}
	if v := os.Getenv("TASKS_DEFAULT_SORT"); v != "" {
		cfg.DefaultSort = v
		set("default_sort")
	}
	if v := os.Getenv("TASKS_DEFAULT_FILTER"); v != "" {
		cfg.DefaultFilter = v
		set("default_filter")
	}

	// Logging configuration
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("TASKS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("TASKS_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
}

// boolFromString parses common truthy spellings.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
