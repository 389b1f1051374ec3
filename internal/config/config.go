// Package config loads mdplay settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = ".mdplay.yaml"

// Setting keys served to the editor.
const (
	KeyLang     = "lang"
	KeyTool     = "tool"
	KeyCommand  = "command"
	KeyWorkDir  = "work_dir"
	KeyTempDir  = "temp_dir"
	KeyLogLevel = "log_level"
)

// Config represents mdplay configuration options.
type Config struct {
	// Lang is the fence language that can be run.
	Lang string `yaml:"lang"`

	// Tool is the compiler or interpreter substituted for {tool}.
	Tool string `yaml:"tool"`

	// Command is the shell command template run for a block.
	Command string `yaml:"command"`

	// WorkDir overrides the working directory. Empty means the directory of
	// the document.
	WorkDir string `yaml:"work_dir"`

	// TempDir is where per-run source files are written.
	TempDir string `yaml:"temp_dir"`

	// Keep leaves per-run source files in place after the run.
	Keep bool `yaml:"keep"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Lang:     "v",
		Tool:     "v",
		Command:  "{tool} run {}",
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from path, merging non-zero values over the
// defaults. A missing file yields the defaults; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.merge(&file)

	return cfg, nil
}

// fileConfig mirrors Config as read from YAML. Keep is a pointer so that an
// explicit "keep: false" is told apart from an absent key.
type fileConfig struct {
	Lang     string `yaml:"lang"`
	Tool     string `yaml:"tool"`
	Command  string `yaml:"command"`
	WorkDir  string `yaml:"work_dir"`
	TempDir  string `yaml:"temp_dir"`
	Keep     *bool  `yaml:"keep"`
	LogLevel string `yaml:"log_level"`
}

func (c *Config) merge(o *fileConfig) {
	if len(o.Lang) != 0 {
		c.Lang = o.Lang
	}

	if len(o.Tool) != 0 {
		c.Tool = o.Tool
	}

	if len(o.Command) != 0 {
		c.Command = o.Command
	}

	if len(o.WorkDir) != 0 {
		c.WorkDir = o.WorkDir
	}

	if len(o.TempDir) != 0 {
		c.TempDir = o.TempDir
	}

	if o.Keep != nil {
		c.Keep = *o.Keep
	}

	if len(o.LogLevel) != 0 {
		c.LogLevel = o.LogLevel
	}
}

// Setting returns the string value of a setting by key, or "" for unknown
// keys.
func (c *Config) Setting(key string) string {
	switch key {
	case KeyLang:
		return c.Lang
	case KeyTool:
		return c.Tool
	case KeyCommand:
		return c.Command
	case KeyWorkDir:
		return c.WorkDir
	case KeyTempDir:
		return c.TempDir
	case KeyLogLevel:
		return c.LogLevel
	default:
		return ""
	}
}

var ErrEmptyLang = errors.New("lang must not be empty")

var ErrEmptyCommand = errors.New("command must not be empty")

// Validate checks that the configuration can run a block.
func (c *Config) Validate() error {
	if len(c.Lang) == 0 {
		return ErrEmptyLang
	}

	if len(c.Command) == 0 {
		return ErrEmptyCommand
	}

	return nil
}
