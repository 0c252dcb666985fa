package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/patchwork/internal/core/changeset"
	"github.com/colonyops/patchwork/internal/core/config"
	"github.com/colonyops/patchwork/internal/core/hunk"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		total   int
		want    []int
		wantErr string
	}{
		{name: "all", input: "all", total: 3, want: []int{0, 1, 2}},
		{name: "all uppercase", input: " ALL ", total: 2, want: []int{0, 1}},
		{name: "none", input: "none", total: 3, want: []int{}},
		{name: "empty", input: "", total: 3, want: []int{}},
		{name: "list", input: "0, 2", total: 3, want: []int{0, 2}},
		{name: "trailing comma", input: "1,", total: 3, want: []int{1}},
		{name: "out of range kept", input: "9", total: 3, want: []int{9}},
		{name: "not a number", input: "0,x", total: 3, wantErr: `invalid hunk index "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSelection(tt.input, tt.total)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadPair(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("b\n"), 0o644))

	t.Run("update uses new path", func(t *testing.T) {
		in, err := readPair([]string{oldPath, newPath}, "update", "")
		require.NoError(t, err)
		assert.Equal(t, "a\n", in.oldContent)
		assert.Equal(t, "b\n", in.newContent)
		assert.Equal(t, newPath, in.path)
		assert.Equal(t, hunk.OpUpdate, in.op)
	})

	t.Run("delete uses old path", func(t *testing.T) {
		in, err := readPair([]string{oldPath, os.DevNull}, "delete", "")
		require.NoError(t, err)
		assert.Empty(t, in.newContent)
		assert.Equal(t, oldPath, in.path)
	})

	t.Run("path flag wins", func(t *testing.T) {
		in, err := readPair([]string{os.DevNull, newPath}, "create", "src/x.txt")
		require.NoError(t, err)
		assert.Equal(t, "src/x.txt", in.path)
		assert.Empty(t, in.oldContent)
	})

	t.Run("wrong arg count", func(t *testing.T) {
		_, err := readPair([]string{oldPath}, "update", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected OLD and NEW")
	})

	t.Run("bad operation", func(t *testing.T) {
		_, err := readPair([]string{oldPath, newPath}, "rename", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid operation")
	})
}

// testApp builds a root command with the given subcommands registered and
// output captured.
func testApp(t *testing.T, register ...func(*cli.Command) *cli.Command) (*cli.Command, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := &cli.Command{Name: "patchwork", Writer: &out, ErrWriter: &errOut}
	for _, r := range register {
		app = r(app)
	}
	return app, &out
}

func testFlags(t *testing.T) *Flags {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &Flags{Config: &cfg}
}

func twoHunkFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	var oldText, newText string
	for i := 1; i <= 20; i++ {
		line := "line\n"
		oldText += line
		switch i {
		case 2:
			newText += "CHANGED 2\n"
		case 18:
			newText += "CHANGED 18\n"
		default:
			newText += line
		}
	}

	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(oldPath, []byte(oldText), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(newText), 0o644))
	return oldPath, newPath
}

func TestHunksCmd_JSON(t *testing.T) {
	oldPath, newPath := twoHunkFiles(t)
	flags := testFlags(t)

	app, out := testApp(t, NewHunksCmd(flags).Register)
	err := app.Run(context.Background(), []string{"patchwork", "hunks", "--json", oldPath, newPath})
	require.NoError(t, err)

	var parsed hunk.ParsedHunks
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
	assert.Equal(t, newPath, parsed.Path)
	assert.Len(t, parsed.Hunks, 2)
}

func TestHunksCmd_Plain(t *testing.T) {
	oldPath, newPath := twoHunkFiles(t)
	flags := testFlags(t)

	app, out := testApp(t, NewHunksCmd(flags).Register)
	err := app.Run(context.Background(), []string{"patchwork", "hunks", "--path", "f.txt", oldPath, newPath})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "# f.txt (update) 2 hunk(s) +2 -2")
	assert.Contains(t, out.String(), "[0] @@")
	assert.Contains(t, out.String(), "+CHANGED 18")
}

func TestApplyCmd(t *testing.T) {
	oldPath, newPath := twoHunkFiles(t)
	flags := testFlags(t)

	app, out := testApp(t, NewApplyCmd(flags).Register)
	err := app.Run(context.Background(), []string{"patchwork", "apply", "--select", "1", oldPath, newPath})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "CHANGED 18\n")
	assert.NotContains(t, out.String(), "CHANGED 2\n")
}

func TestApplyCmd_OutputFile(t *testing.T) {
	oldPath, newPath := twoHunkFiles(t)
	flags := testFlags(t)
	dest := filepath.Join(t.TempDir(), "out.txt")

	app, _ := testApp(t, NewApplyCmd(flags).Register)
	err := app.Run(context.Background(), []string{"patchwork", "apply", "-o", dest, oldPath, newPath})
	require.NoError(t, err)

	want, err := os.ReadFile(newPath)
	require.NoError(t, err)
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestReviewCmd_AcceptAll(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("old\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "gone.txt"), []byte("bye\n"), 0o644))

	change := changeset.New("test",
		changeset.Update("keep.txt", "new\n"),
		changeset.Create("made.txt", "hello\n"),
		changeset.Delete("gone.txt"),
	)
	doc, err := json.Marshal(change)
	require.NoError(t, err)
	changePath := filepath.Join(t.TempDir(), "change.json")
	require.NoError(t, os.WriteFile(changePath, doc, 0o644))

	flags := testFlags(t)
	app, out := testApp(t, NewReviewCmd(flags).Register)
	err = app.Run(context.Background(), []string{
		"patchwork", "review", "-f", changePath, "--root", root, "--accept-all", "--json",
	})
	require.NoError(t, err)

	var results []changeset.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Success, r.Error)
	}

	got, err := os.ReadFile(filepath.Join(root, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(got))

	got, err = os.ReadFile(filepath.Join(root, "made.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	assert.NoFileExists(t, filepath.Join(root, "gone.txt"))
}
