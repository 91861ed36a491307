// Package config loads interpreter settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a run.
type Config struct {
	// Capacity is the maximum number of distinct variable names.
	Capacity int `yaml:"capacity"`
	// StrictUndefined turns reads of unassigned variables into errors
	// instead of the -1 sentinel.
	StrictUndefined bool `yaml:"strict_undefined"`
	// MaxSteps bounds statements plus loop iterations per run; 0 is
	// unlimited.
	MaxSteps int64 `yaml:"max_steps"`
	// FoldConstants collapses literal operands while building trees.
	FoldConstants bool `yaml:"fold_constants"`
	Log           Log  `yaml:"log"`
}

// Log configures the diagnostic logger.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Capacity:      100,
		FoldConstants: true,
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Issues, "; ")
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var issues []string
	if c.Capacity < 1 {
		issues = append(issues, fmt.Sprintf("capacity must be at least 1, got %d", c.Capacity))
	}
	if c.MaxSteps < 0 {
		issues = append(issues, fmt.Sprintf("max_steps must not be negative, got %d", c.MaxSteps))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		issues = append(issues, fmt.Sprintf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		issues = append(issues, fmt.Sprintf("log.format must be console or json; got %q", c.Log.Format))
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
