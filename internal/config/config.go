// Package config loads the tlc.json project configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the tlc.json configuration file.
type Config struct {
	Name string `json:"name"`

	// Schema lists the input documents, concatenated in order before parsing.
	Schema []string `json:"schema"`

	// Docs is the optional keyed description table path.
	Docs string `json:"docs"`

	Language string      `json:"language"`
	Package  string      `json:"package"`
	Build    BuildConfig `json:"build"`
	Watch    WatchConfig `json:"watch"`

	// AllowDuplicates restores last-wins handling of duplicate combinator
	// names instead of failing the parse.
	AllowDuplicates bool `json:"allowDuplicates"`

	// Comments controls documentation comment emission; defaults to true.
	Comments *bool `json:"comments"`
}

// BuildConfig contains generation output configuration.
type BuildConfig struct {
	Output string `json:"output"`
}

// WatchConfig contains watch-mode configuration.
type WatchConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// IncludeComments reports whether generated artifacts carry documentation
// comments.
func (c *Config) IncludeComments() bool {
	return c.Comments == nil || *c.Comments
}

// LoadConfig loads tlc.json from the current directory or a parent directory.
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	if len(config.Schema) == 0 {
		config.Schema = []string{"api.tl"}
	}
	if config.Docs == "" {
		config.Docs = "docs.json"
	}
	if config.Language == "" {
		config.Language = "go"
	}
	if config.Package == "" {
		config.Package = "tlschema"
	}
	if config.Build.Output == "" {
		config.Build.Output = "./gen"
	}
	if len(config.Watch.Include) == 0 {
		config.Watch.Include = []string{"*.tl", "**/*.tl", "docs.json"}
	}
	if len(config.Watch.Exclude) == 0 {
		config.Watch.Exclude = []string{"gen", ".git"}
	}

	return &config, nil
}

// loadConfigFromDir searches for tlc.json in the given directory and its
// parents.
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, "tlc.json")
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("no tlc.json found in %s or any parent directory", startDir)
}
