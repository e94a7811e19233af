// Package config loads interpreter settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sergev/minijs/lang"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "MINIJS_CONFIG"

// DefaultFile is looked up in the home directory when no path is given.
const DefaultFile = ".minijs.yaml"

// Config holds interpreter and REPL settings.
type Config struct {
	Path string `yaml:"-"`

	MaxDepth           int    `yaml:"max_depth"`
	RandomSeed         *int64 `yaml:"random_seed"`
	HistoryFile        string `yaml:"history_file"`
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{
		MaxDepth:           lang.DefaultMaxDepth,
		Prompt:             "minijs> ",
		ContinuationPrompt: "....... ",
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		cfg.HistoryFile = filepath.Join(home, ".minijs_history")
	}
	return cfg
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Decode reads YAML settings from r over the defaults. Unknown keys are
// rejected; an empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.MaxDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_depth must be positive, got %d", c.MaxDepth))
	}
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must be a non-empty string")
	}
	if c.ContinuationPrompt == "" {
		errs.Issues = append(errs.Issues, "continuation_prompt must be a non-empty string")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Resolve picks the config file to use: an explicit path wins, then the
// environment variable, then the default file in the home directory. When
// none applies the defaults are returned.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Default(), nil
	}
	path := filepath.Join(home, DefaultFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}
	return Load(path)
}
