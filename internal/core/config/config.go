// Package config handles configuration loading and validation for patchwork.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/patchwork/internal/core/hunk"
)

// Review keyboard actions.
const (
	ActionAcceptFile = "accept-file"
	ActionRejectFile = "reject-file"
	ActionPrevHunk   = "prev-hunk"
	ActionNextHunk   = "next-hunk"
	ActionPrevFile   = "prev-file"
	ActionNextFile   = "next-file"
	ActionToggleHunk = "toggle-hunk"
	ActionGotoFile   = "goto-file"
	ActionCommit     = "commit"
	ActionQuit       = "quit"
)

// Actions lists every action a key can be bound to.
var Actions = []string{
	ActionAcceptFile,
	ActionRejectFile,
	ActionPrevHunk,
	ActionNextHunk,
	ActionPrevFile,
	ActionNextFile,
	ActionToggleHunk,
	ActionGotoFile,
	ActionCommit,
	ActionQuit,
}

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]string{
	"a":     ActionAcceptFile,
	"r":     ActionRejectFile,
	"up":    ActionPrevHunk,
	"k":     ActionPrevHunk,
	"down":  ActionNextHunk,
	"j":     ActionNextHunk,
	"left":  ActionPrevFile,
	"h":     ActionPrevFile,
	"right": ActionNextFile,
	"l":     ActionNextFile,
	" ":     ActionToggleHunk,
	"g":     ActionGotoFile,
	"c":     ActionCommit,
	"q":     ActionQuit,
}

// DefaultKeybindings returns a copy of the built-in key map.
func DefaultKeybindings() map[string]string {
	return mergeKeybindings(defaultKeybindings, nil)
}

// Config holds the application configuration.
type Config struct {
	Offload OffloadConfig `yaml:"offload"`
	Review  ReviewConfig  `yaml:"review"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// OffloadConfig controls when parsing and application leave the caller's
// goroutine.
type OffloadConfig struct {
	Enabled  bool `yaml:"enabled"`
	MaxBytes int  `yaml:"max_bytes"`
	MaxLines int  `yaml:"max_lines"`
}

// ReviewConfig holds review session settings.
type ReviewConfig struct {
	// ContextLines is the unified context window. Only the default is
	// supported; the key exists so configs can pin it.
	ContextLines int `yaml:"context_lines"`
	// Exclude holds doublestar globs; matching paths are left out of review.
	Exclude     []string          `yaml:"exclude"`
	Keybindings map[string]string `yaml:"keybindings"` // key -> action
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Offload: OffloadConfig{
			Enabled:  true,
			MaxBytes: 50 * 1024,
			MaxLines: 1000,
		},
		Review: ReviewConfig{
			ContextLines: hunk.ContextLines,
			Exclude:      []string{},
			Keybindings:  map[string]string{},
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// User keybindings override defaults for the same key
	cfg.Review.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Review.Keybindings)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Offload.MaxBytes == 0 {
		c.Offload.MaxBytes = defaults.Offload.MaxBytes
	}
	if c.Offload.MaxLines == 0 {
		c.Offload.MaxLines = defaults.Offload.MaxLines
	}
	if c.Review.ContextLines == 0 {
		c.Review.ContextLines = defaults.Review.ContextLines
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]string) map[string]string {
	result := make(map[string]string, len(defaults)+len(user))
	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}
	return result
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Offload.MaxBytes < 1 {
		return fmt.Errorf("offload.max_bytes must be at least 1")
	}

	if c.Offload.MaxLines < 1 {
		return fmt.Errorf("offload.max_lines must be at least 1")
	}

	if c.Review.ContextLines != hunk.ContextLines {
		return fmt.Errorf("review.context_lines must be %d", hunk.ContextLines)
	}

	for key, action := range c.Review.Keybindings {
		if key == "" {
			return fmt.Errorf("keybinding with empty key for action %q", action)
		}
		if !IsValidAction(action) {
			return fmt.Errorf("keybinding %q has invalid action %q", key, action)
		}
	}

	return nil
}

// IsValidAction reports whether action names a review action.
func IsValidAction(action string) bool {
	for _, a := range Actions {
		if a == action {
			return true
		}
	}
	return false
}

// LogFile returns the default log file path under the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "patchwork.log")
}
