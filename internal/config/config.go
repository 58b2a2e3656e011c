// Package config provides configuration management for the weft engine using
// Viper for flexible configuration loading from files, environment variables,
// and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with a WEFT_ prefix. It manages the project content root, the
// modules directory, theme and user style files, the resolution mode, and
// logging options.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Mode selects the engine's caching behavior.
type Mode string

const (
	// ModeDevelopment rebuilds content and styles from disk on every access.
	ModeDevelopment Mode = "development"
	// ModeProduction computes content and styles once per process lifetime.
	ModeProduction Mode = "production"
)

type Config struct {
	Content    ContentConfig    `yaml:"content"`
	Styles     StylesConfig     `yaml:"styles"`
	Projection ProjectionConfig `yaml:"projection"`
	Log        LogConfig        `yaml:"log"`
	Mode       Mode             `yaml:"mode"`
}

type ContentConfig struct {
	// Root is the project's own content directory, scanned last as the
	// override layer.
	Root string `yaml:"root"`
	// ModulesDir is scanned for installed modules contributing content.
	ModulesDir string `yaml:"modules_dir"`
}

type StylesConfig struct {
	// Theme is the theme-defined style tree file.
	Theme string `yaml:"theme"`
	// User is the project's style override file, merged on top of the theme.
	User string `yaml:"user"`
}

type ProjectionConfig struct {
	// ReservedFields overrides the default set of fields stripped from the
	// public export. Empty means the built-in default.
	ReservedFields []string `yaml:"reserved_fields"`
	// PublicRole overrides the sentinel role granting anonymous access.
	PublicRole string `yaml:"public_role"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle string values set via viper directly (flag/env bindings)
	if viper.IsSet("mode") {
		config.Mode = Mode(viper.GetString("mode"))
	}
	if viper.IsSet("content.root") {
		config.Content.Root = viper.GetString("content.root")
	}
	if viper.IsSet("content.modules_dir") {
		config.Content.ModulesDir = viper.GetString("content.modules_dir")
	}
	if viper.IsSet("projection.reserved_fields") && len(config.Projection.ReservedFields) == 0 {
		config.Projection.ReservedFields = viper.GetStringSlice("projection.reserved_fields")
	}
	if viper.IsSet("projection.public_role") {
		config.Projection.PublicRole = viper.GetString("projection.public_role")
	}

	// Apply defaults
	if config.Content.Root == "" {
		config.Content.Root = "./content"
	}
	if config.Content.ModulesDir == "" {
		config.Content.ModulesDir = "./modules"
	}
	if config.Styles.Theme == "" {
		config.Styles.Theme = "./theme/classes.yaml"
	}
	if config.Styles.User == "" {
		config.Styles.User = "./classes.yaml"
	}
	if config.Mode == "" {
		config.Mode = ModeDevelopment
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if config.Mode != ModeDevelopment && config.Mode != ModeProduction {
		return fmt.Errorf("mode %q is not one of %q, %q", config.Mode, ModeDevelopment, ModeProduction)
	}

	for name, path := range map[string]string{
		"content.root":        config.Content.Root,
		"content.modules_dir": config.Content.ModulesDir,
		"styles.theme":        config.Styles.Theme,
		"styles.user":         config.Styles.User,
	} {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, path, err)
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	// Reject dangerous characters
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
