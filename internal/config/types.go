package config

import (
	"fmt"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/query"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultTasksFile     = "ToDoList.json"
	DefaultSort          = string(query.SortNone)
	DefaultFilter        = string(query.FilterAll)
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
	DefaultLogTimestamps = false
)

// Config holds the full configuration for tasks.
type Config struct {
	// Task file, relative paths resolve against ProjectRoot
	TasksFile string `toml:"tasks_file"`

	// Listing defaults for ls and the TUI
	DefaultSort   string `toml:"default_sort"`
	DefaultFilter string `toml:"default_filter"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// SortMode returns the configured default sort.
func (c *Config) SortMode() query.SortMode {
	m, _ := query.ParseSortMode(c.DefaultSort)
	return m
}

// FilterMode returns the configured default filter.
func (c *Config) FilterMode() query.FilterMode {
	m, _ := query.ParseFilterMode(c.DefaultFilter)
	return m
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, ok := query.ParseSortMode(c.DefaultSort); !ok {
		return fmt.Errorf("invalid default_sort %q", c.DefaultSort)
	}
	if _, ok := query.ParseFilterMode(c.DefaultFilter); !ok {
		return fmt.Errorf("invalid default_filter %q", c.DefaultFilter)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return nil
}
