package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/patchwork/internal/core/changeset"
	"github.com/colonyops/patchwork/internal/core/keymap"
	"github.com/colonyops/patchwork/internal/core/logging"
	"github.com/colonyops/patchwork/internal/data/stores"
	"github.com/colonyops/patchwork/internal/reviewer"
	"github.com/colonyops/patchwork/internal/tui/review"
	"github.com/colonyops/patchwork/pkg/iojson"
)

type ReviewCmd struct {
	flags *Flags

	// flags
	root      string
	acceptAll bool
	jsonOut   bool
	input     iojson.FileReader[changeset.Change]
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "review",
		Usage: "Review a pending multi-file change hunk by hunk",
		Description: `Review reads a change document and opens a TUI for accepting or
rejecting each file and toggling individual hunks. On commit the selected
hunks are written under --root.

The change document is JSON:

  {"title": "...", "files": [
    {"path": "a.go", "operation": "update", "content": "..."},
    {"path": "b.go", "operation": "delete"}
  ]}

Examples:
  patchwork review -f change.json
  generate-change | patchwork review --root ./repo
  patchwork review -f change.json --accept-all --json`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.StringFlag{
				Name:        "root",
				Usage:       "directory the change paths are relative to",
				Value:       ".",
				Destination: &cmd.root,
			},
			&cli.BoolFlag{
				Name:        "accept-all",
				Usage:       "commit every hunk without opening the TUI",
				Destination: &cmd.acceptAll,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print per-file results as JSON",
				Destination: &cmd.jsonOut,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	change, err := cmd.input.Read()
	if err != nil {
		return fmt.Errorf("read change: %w", err)
	}

	store, err := stores.NewDirStore(cmd.root)
	if err != nil {
		return err
	}

	bridge := cmd.flags.NewBridge(logging.Component("offload"))
	defer bridge.Shutdown()

	svc := reviewer.New(store, bridge, reviewer.Options{
		Exclude: cmd.flags.Config.Review.Exclude,
	}, logging.Component("reviewer"))

	sess, err := svc.Open(ctx, change)
	if err != nil {
		return err
	}

	p := NewPrinter(c.Root().ErrWriter)
	for _, path := range sess.Skipped {
		p.Infof("Skipped %s (excluded)", path)
	}

	var results []changeset.Result
	if cmd.acceptAll {
		results, err = sess.Commit(ctx)
		if err != nil {
			return err
		}
	} else {
		committed, res, err := cmd.runTUI(ctx, sess)
		if err != nil {
			return err
		}
		if !committed {
			p.Infof("Review cancelled, nothing written")
			return nil
		}
		results = res
	}

	return cmd.report(c, results)
}

func (cmd *ReviewCmd) runTUI(ctx context.Context, sess *reviewer.Session) (bool, []changeset.Result, error) {
	keys := keymap.New(cmd.flags.Config.Review.Keybindings)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// The change arrived on stdin; read keys from the controlling terminal.
		opts = append(opts, tea.WithInputTTY())
	}

	final, err := tea.NewProgram(review.New(ctx, sess, keys), opts...).Run()
	if err != nil {
		return false, nil, fmt.Errorf("run review: %w", err)
	}

	m, ok := final.(review.Model)
	if !ok {
		return false, nil, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Committed()
}

func (cmd *ReviewCmd) report(c *cli.Command, results []changeset.Result) error {
	if cmd.jsonOut {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, results); err != nil {
			return err
		}
	}

	p := NewPrinter(c.Root().ErrWriter)
	failures := 0
	for _, r := range results {
		if !r.Success {
			failures++
			p.Errorf("%s", r.Error)
			continue
		}
		if !cmd.jsonOut {
			for _, path := range r.AffectedPaths {
				p.Successf("%s", path)
			}
		}
	}

	log.Info().Int("files", len(results)).Int("failed", failures).Msg("review committed")

	if failures > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d file(s) failed", failures, len(results)), 1)
	}
	return nil
}
