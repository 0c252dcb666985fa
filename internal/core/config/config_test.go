package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.True(t, cfg.Offload.Enabled)
	assert.Equal(t, 50*1024, cfg.Offload.MaxBytes)
	assert.Equal(t, 1000, cfg.Offload.MaxLines)
	assert.Equal(t, 3, cfg.Review.ContextLines)
	assert.Equal(t, DefaultKeybindings(), cfg.Review.Keybindings)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ActionAcceptFile, cfg.Review.Keybindings["a"])
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
offload:
  enabled: false
  max_lines: 200
review:
  exclude: ["**/*.lock", "vendor/**"]
  keybindings:
    x: reject-file
    a: toggle-hunk
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.False(t, cfg.Offload.Enabled)
	assert.Equal(t, 200, cfg.Offload.MaxLines)
	assert.Equal(t, 50*1024, cfg.Offload.MaxBytes, "unset keys keep defaults")
	assert.Equal(t, []string{"**/*.lock", "vendor/**"}, cfg.Review.Exclude)

	assert.Equal(t, ActionRejectFile, cfg.Review.Keybindings["x"])
	assert.Equal(t, ActionToggleHunk, cfg.Review.Keybindings["a"], "user binding overrides default")
	assert.Equal(t, ActionRejectFile, cfg.Review.Keybindings["r"], "untouched defaults survive")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "offload: [\n")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "context lines",
			content: "review:\n  context_lines: 5\n",
			wantErr: "review.context_lines must be 3",
		},
		{
			name:    "negative max bytes",
			content: "offload:\n  max_bytes: -1\n",
			wantErr: "offload.max_bytes",
		},
		{
			name:    "negative max lines",
			content: "offload:\n  max_lines: -10\n",
			wantErr: "offload.max_lines",
		},
		{
			name:    "unknown action",
			content: "review:\n  keybindings:\n    z: explode\n",
			wantErr: `keybinding "z" has invalid action "explode"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RequiresDataDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestDefaultKeybindings_ReturnsCopy(t *testing.T) {
	kb := DefaultKeybindings()
	kb["a"] = ActionQuit

	assert.Equal(t, ActionAcceptFile, DefaultKeybindings()["a"])
}

func TestIsValidAction(t *testing.T) {
	for _, a := range Actions {
		assert.True(t, IsValidAction(a), a)
	}
	assert.False(t, IsValidAction(""))
	assert.False(t, IsValidAction("accept"))
}
