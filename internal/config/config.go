// Package config provides configuration types and defaults for cate.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/cate/internal/encoding"
	"github.com/zjrosen/cate/internal/log"
	"github.com/zjrosen/cate/internal/render"
	"github.com/zjrosen/cate/internal/syntax"
	"github.com/zjrosen/cate/internal/termcolor"
)

// Config holds all configuration options for cate. Command-line flags
// override the config file, which overrides the defaults.
type Config struct {
	Encoding   string `mapstructure:"encoding"`    // fallback for non-UTF-8 input, empty for the system default
	Theme      string `mapstructure:"theme"`       // chroma style name
	Language   string `mapstructure:"language"`    // force a grammar, empty to detect
	Color      string `mapstructure:"color"`       // auto, always or never
	Number     bool   `mapstructure:"number"`      // prefix lines with numbers
	NumberMode string `mapstructure:"number_mode"` // streaming or document
	Highlight  bool   `mapstructure:"highlight"`
	DebugLog   string `mapstructure:"debug_log"` // write debug logs to this file
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Theme:      "monokai",
		Color:      string(termcolor.ChoiceAuto),
		NumberMode: render.NumberStreaming.String(),
		Highlight:  true,
	}
}

// DefaultConfigPath returns ~/.config/cate/config.yaml, or an empty string
// when the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cate", "config.yaml")
}

// ValidateEncoding checks that label names a supported encoding. Empty is valid.
func ValidateEncoding(label string) error {
	if label == "" {
		return nil
	}
	_, err := encoding.Parse(label)
	return err
}

// ValidateTheme checks that name is a theme known to d.
func ValidateTheme(d *syntax.Directory, name string) error {
	_, err := d.Theme(name)
	return err
}

// ValidateColor checks the colour choice.
func ValidateColor(choice string) error {
	_, err := termcolor.ParseChoice(choice)
	return err
}

// ValidateNumberMode checks the line-number mode.
func ValidateNumberMode(mode string) error {
	_, err := render.ParseNumberMode(mode)
	return err
}

// Validate checks every setting. It is called before any output is written
// so that a bad value fails the run without partial output.
func Validate(c Config, d *syntax.Directory) error {
	if err := ValidateEncoding(c.Encoding); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if err := ValidateTheme(d, c.Theme); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	if err := ValidateColor(c.Color); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if err := ValidateNumberMode(c.NumberMode); err != nil {
		return fmt.Errorf("number_mode: %w", err)
	}
	return nil
}

// DefaultConfigTemplate returns the template for a new config file.
func DefaultConfigTemplate() string {
	return `# cate configuration
#
# Command-line flags override these values. Environment variables work too:
# CATE_THEME, CATE_COLOR, CATE_NUMBER, ...

# Syntax highlighting theme (run 'cate --list-themes' to see them all)
theme: monokai

# When to emit colour escapes: auto, always or never
# auto colours only when writing to a terminal and NO_COLOR is unset
color: auto

# Highlight source code (same as omitting --no-highlight)
highlight: true

# Show line numbers (-n)
number: false

# How line numbers are aligned:
#   streaming - fixed width of 6, grows for very long input (default)
#   document  - width of the document's own line count
number_mode: streaming

# Encoding used when input is neither marked with a BOM nor valid UTF-8
# (run 'cate --list-encodings'). Empty uses the system default.
# encoding: gbk

# Force a syntax instead of detecting it (run 'cate --list-syntaxes')
# language: go

# Write debug logs to a file
# debug_log: /tmp/cate.log
`
}

// WriteDefaultConfig writes DefaultConfigTemplate to configPath, creating
// parent directories. An existing file is left alone.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
