package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/colonyops/patchwork/internal/core/config"
	"github.com/colonyops/patchwork/internal/offload"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// NewBridge builds an offload bridge from the loaded configuration.
func (f *Flags) NewBridge(logger zerolog.Logger) *offload.Bridge {
	cfg := offload.DefaultConfig()
	if f.Config != nil {
		cfg = offload.Config{
			Enabled:  f.Config.Offload.Enabled,
			MaxBytes: f.Config.Offload.MaxBytes,
			MaxLines: f.Config.Offload.MaxLines,
		}
	}
	return offload.New(cfg, logger)
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "patchwork", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "patchwork")
}
