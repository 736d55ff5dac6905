package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength  = 4096 // PATH_MAX on Linux
	MaxTitleLength = 200  // Document title
	MaxNameLength  = 100  // Author name
	MaxDateLength  = 50   // "2025-12-31" or "auto:MMMM D, YYYY"
	MaxLangLength  = 35   // BCP 47 tags are short in practice
	MaxTimeout     = 24 * time.Hour
)

// dirName is the per-user configuration directory name.
const dirName = "go-md2docx"

// Config holds all configuration for document conversion.
type Config struct {
	Input    InputConfig    `yaml:"input" toml:"input"`
	Output   OutputConfig   `yaml:"output" toml:"output"`
	Pandoc   PandocConfig   `yaml:"pandoc" toml:"pandoc"`
	Template TemplateConfig `yaml:"template" toml:"template"`
	Document DocumentConfig `yaml:"document" toml:"document"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // Default input (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir"` // Default output directory (empty = same as source)
}

// PandocConfig defines how the external converter is invoked.
type PandocConfig struct {
	Binary  string `yaml:"binary" toml:"binary"`   // Executable name or path (default: "pandoc")
	Timeout string `yaml:"timeout" toml:"timeout"` // Per-file deadline, e.g. "2m" (empty = none)
}

// TemplateConfig defines the style template.
type TemplateConfig struct {
	Path     string `yaml:"path" toml:"path"`         // reference.docx location (empty = user config dir)
	Disabled bool   `yaml:"disabled" toml:"disabled"` // Always use basic conversion
}

// DocumentConfig defines metadata passed to pandoc.
type DocumentConfig struct {
	Title  string `yaml:"title" toml:"title"`   // Literal or "auto" (first H1, then file name)
	Author string `yaml:"author" toml:"author"` // Author name
	Date   string `yaml:"date" toml:"date"`     // Literal, "auto", or "auto:FORMAT"
	Lang   string `yaml:"lang" toml:"lang"`     // Document language, e.g. "en-US"
}

// Validate checks field lengths and value syntax.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"pandoc.binary", c.Pandoc.Binary, MaxPathLength},
		{"template.path", c.Template.Path, MaxPathLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.author", c.Document.Author, MaxNameLength},
		{"document.date", c.Document.Date, MaxDateLength},
		{"document.lang", c.Document.Lang, MaxLangLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if strings.ContainsRune(c.Pandoc.Binary, 0) {
		return fmt.Errorf("%w: pandoc.binary contains a null byte", ErrInvalidValue)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses Pandoc.Timeout. An empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Pandoc.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Pandoc.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: pandoc.timeout %q: %v", ErrInvalidValue, c.Pandoc.Timeout, err)
	}
	if d < 0 || d > MaxTimeout {
		return 0, fmt.Errorf("%w: pandoc.timeout %s must be between 0 and %s", ErrInvalidValue, d, MaxTimeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that converts with the default
// template location and no extra metadata.
func DefaultConfig() *Config {
	return &Config{
		Pandoc: PandocConfig{Binary: "pandoc"},
	}
}

// NotFoundError reports the locations searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

// Is makes errors.Is(err, ErrConfigNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := decode(configPath, data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, <UserConfigDir>/go-md2docx/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml", ".toml"}
	dirs := []string{""}
	if dir, err := userConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, dirName))
	}

	tried := make([]string, 0, len(extensions)*len(dirs))
	for _, dir := range dirs {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, name+ext)
			if fileutil.FileExists(candidate) {
				return candidate, nil
			}
			tried = append(tried, candidate)
		}
	}

	return "", &NotFoundError{Name: name, Tried: tried}
}
