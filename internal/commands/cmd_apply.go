package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/patchwork/internal/core/logging"
	"github.com/colonyops/patchwork/internal/offload"
)

type ApplyCmd struct {
	flags *Flags

	// flags
	op     string
	path   string
	sel    string
	output string
}

// NewApplyCmd creates a new apply command.
func NewApplyCmd(flags *Flags) *ApplyCmd {
	return &ApplyCmd{flags: flags}
}

// Register adds the apply command to the application.
func (cmd *ApplyCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "apply",
		Usage:     "Reconstruct a file from a subset of its hunks",
		UsageText: "patchwork apply OLD NEW --select 0,2 [-o OUT]",
		Description: `Parses OLD and NEW, keeps only the selected hunks, and writes the
resulting text. Unselected hunks keep the original lines.

--select takes comma separated hunk indices as listed by 'patchwork hunks',
"all", or "none". Out of range indices are ignored.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "select",
				Aliases:     []string{"s"},
				Usage:       "hunk indices to apply (e.g. 0,2), all, or none",
				Value:       "all",
				Destination: &cmd.sel,
			},
			&cli.StringFlag{
				Name:        "op",
				Usage:       "operation kind (create, update, delete)",
				Value:       "update",
				Destination: &cmd.op,
			},
			&cli.StringFlag{
				Name:        "path",
				Usage:       "path recorded while parsing",
				Destination: &cmd.path,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write the result to a file instead of stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ApplyCmd) run(ctx context.Context, c *cli.Command) error {
	in, err := readPair(c.Args().Slice(), cmd.op, cmd.path)
	if err != nil {
		return err
	}

	bridge := cmd.flags.NewBridge(logging.Component("offload"))
	defer bridge.Shutdown()

	ctx = logging.WithPath(ctx, in.path)
	parsed, err := bridge.Parse(ctx, offload.ParseRequest{
		OldContent:    in.oldContent,
		NewContent:    in.newContent,
		Path:          in.path,
		OperationKind: in.op,
	})
	if err != nil {
		return fmt.Errorf("parse hunks: %w", err)
	}

	selected, err := parseSelection(cmd.sel, parsed.Len())
	if err != nil {
		return err
	}

	text, err := bridge.Apply(ctx, offload.ApplyRequest{
		OldContent:          in.oldContent,
		ParsedHunks:         parsed,
		SelectedHunkIndices: selected,
	})
	if err != nil {
		return fmt.Errorf("apply hunks: %w", err)
	}

	if cmd.output == "" {
		_, err = fmt.Fprint(c.Root().Writer, text)
		return err
	}

	if err := os.WriteFile(cmd.output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	NewPrinter(c.Root().ErrWriter).Successf("Applied %d of %d hunk(s) to %s", len(selected), parsed.Len(), cmd.output)
	return nil
}

// parseSelection turns "all", "none", or a comma separated index list into
// hunk indices.
func parseSelection(s string, total int) ([]int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out, nil
	case "", "none":
		return []int{}, nil
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid hunk index %q", p)
		}
		out = append(out, idx)
	}
	return out, nil
}
