package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// glob patterns, key map consistency, and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateExcludes(),
		c.validateKeybindings(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if !c.Offload.Enabled {
		warnings = append(warnings, ValidationWarning{
			Category: "Offload",
			Message:  "offloading is disabled; large files are diffed on the calling goroutine",
		})
	}

	for _, pattern := range c.Review.Exclude {
		if pattern == "**" || pattern == "**/*" {
			warnings = append(warnings, ValidationWarning{
				Category: "Review",
				Item:     pattern,
				Message:  "exclude pattern matches every file",
			})
		}
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateExcludes checks that every exclude entry is a valid doublestar glob.
func (c *Config) validateExcludes() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Review.Exclude {
		if pattern == "" {
			errs = errs.Append(fmt.Sprintf("review.exclude[%d]", i), fmt.Errorf("pattern cannot be empty"))
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("review.exclude[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	return errs.ToError()
}

// validateKeybindings checks that the core review actions stay reachable
// after user overrides.
func (c *Config) validateKeybindings() error {
	bound := make(map[string]bool, len(c.Review.Keybindings))
	for _, action := range c.Review.Keybindings {
		bound[action] = true
	}

	required := []string{ActionAcceptFile, ActionRejectFile, ActionCommit, ActionQuit}
	sort.Strings(required)

	var errs criterio.FieldErrorsBuilder
	for _, action := range required {
		if !bound[action] {
			errs = errs.Append("review.keybindings", fmt.Errorf("no key bound to %q", action))
		}
	}
	return errs.ToError()
}
