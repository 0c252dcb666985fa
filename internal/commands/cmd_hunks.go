package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/patchwork/internal/core/hunk"
	"github.com/colonyops/patchwork/internal/core/logging"
	"github.com/colonyops/patchwork/internal/core/styles"
	"github.com/colonyops/patchwork/internal/offload"
	"github.com/colonyops/patchwork/pkg/iojson"
)

type HunksCmd struct {
	flags *Flags

	// flags
	op         string
	path       string
	patchFile  string
	jsonOutput bool
}

// NewHunksCmd creates a new hunks command.
func NewHunksCmd(flags *Flags) *HunksCmd {
	return &HunksCmd{flags: flags}
}

// Register adds the hunks command to the application.
func (cmd *HunksCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "hunks",
		Usage:     "Split the difference between two files into numbered hunks",
		UsageText: "patchwork hunks OLD NEW [--op update|create|delete] [--json]\n   patchwork hunks --patch FILE [--json]",
		Description: `Parses OLD and NEW into hunks with a fixed context window of three lines.
Hunk numbers are the indices accepted by 'patchwork apply --select'.

Use /dev/null for the missing side of a create or delete. With --patch, a
git-style unified diff is imported instead of diffing two files.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "op",
				Usage:       "operation kind (create, update, delete)",
				Value:       string(hunk.OpUpdate),
				Destination: &cmd.op,
			},
			&cli.StringFlag{
				Name:        "path",
				Usage:       "path recorded in the result (defaults to NEW, or OLD for delete)",
				Destination: &cmd.path,
			},
			&cli.StringFlag{
				Name:        "patch",
				Usage:       "read hunks from a unified diff file",
				Destination: &cmd.patchFile,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output parsed hunks as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HunksCmd) run(ctx context.Context, c *cli.Command) error {
	var results []hunk.ParsedHunks

	if cmd.patchFile != "" {
		data, err := os.ReadFile(cmd.patchFile)
		if err != nil {
			return fmt.Errorf("read patch: %w", err)
		}
		results, err = hunk.FromPatch(string(data))
		if err != nil {
			return fmt.Errorf("import patch: %w", err)
		}
	} else {
		parsed, err := parsePair(ctx, cmd.flags, c.Args().Slice(), cmd.op, cmd.path)
		if err != nil {
			return err
		}
		results = []hunk.ParsedHunks{parsed}
	}

	w := c.Root().Writer
	if cmd.jsonOutput {
		if cmd.patchFile != "" {
			return iojson.WriteWith(w, c.Root().ErrWriter, results)
		}
		return iojson.WriteWith(w, c.Root().ErrWriter, results[0])
	}

	color := isTerminal(w)
	for _, parsed := range results {
		writeHunks(w, parsed, color)
	}
	return nil
}

// pairInput holds the texts and operation of an OLD/NEW argument pair.
type pairInput struct {
	oldContent string
	newContent string
	path       string
	op         hunk.OperationKind
}

func readPair(args []string, opFlag, pathFlag string) (pairInput, error) {
	if len(args) != 2 {
		return pairInput{}, fmt.Errorf("expected OLD and NEW arguments, got %d", len(args))
	}

	op, err := hunk.ParseOperation(opFlag)
	if err != nil {
		return pairInput{}, err
	}

	oldContent, err := readOptional(args[0])
	if err != nil {
		return pairInput{}, err
	}
	newContent, err := readOptional(args[1])
	if err != nil {
		return pairInput{}, err
	}

	path := pathFlag
	if path == "" {
		path = args[1]
		if op == hunk.OpDelete {
			path = args[0]
		}
	}

	return pairInput{oldContent: oldContent, newContent: newContent, path: path, op: op}, nil
}

func parsePair(ctx context.Context, flags *Flags, args []string, opFlag, pathFlag string) (hunk.ParsedHunks, error) {
	in, err := readPair(args, opFlag, pathFlag)
	if err != nil {
		return hunk.ParsedHunks{}, err
	}

	bridge := flags.NewBridge(logging.Component("offload"))
	defer bridge.Shutdown()

	return bridge.Parse(logging.WithPath(ctx, in.path), offload.ParseRequest{
		OldContent:    in.oldContent,
		NewContent:    in.newContent,
		Path:          in.path,
		OperationKind: in.op,
	})
}

// readOptional reads a file; /dev/null and missing files read as empty.
func readOptional(path string) (string, error) {
	if path == os.DevNull {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func writeHunks(w io.Writer, parsed hunk.ParsedHunks, color bool) {
	added, removed := parsed.Stats()
	summary := fmt.Sprintf("%s (%s) %d hunk(s) +%d -%d", parsed.Path, parsed.Operation, parsed.Len(), added, removed)

	if !color {
		_, _ = fmt.Fprintf(w, "# %s\n", summary)
		for _, h := range parsed.Hunks {
			_, _ = fmt.Fprintf(w, "[%d] %s\n", h.Index, renderLines(h))
		}
		return
	}

	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render(summary))
	for _, h := range parsed.Hunks {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.TextMutedStyle.Render(fmt.Sprintf("[%d]", h.Index)), styles.DiffHeaderStyle.Render(h.Header))
		for _, l := range h.Lines {
			_, _ = fmt.Fprintln(w, styleLine(l))
		}
	}
}

func renderLines(h hunk.Hunk) string {
	var b strings.Builder
	b.WriteString(h.Header)
	for _, l := range h.Lines {
		b.WriteByte('\n')
		b.WriteString(prefix(l.Kind))
		b.WriteString(l.Text)
		if l.NoNewline {
			b.WriteString("\n")
			b.WriteString(hunk.NoNewlineSentinel)
		}
	}
	return b.String()
}

func styleLine(l hunk.Line) string {
	text := prefix(l.Kind) + l.Text
	switch l.Kind {
	case hunk.LineAdded:
		return styles.DiffAddedStyle.Render(text)
	case hunk.LineRemoved:
		return styles.DiffRemovedStyle.Render(text)
	default:
		return styles.DiffContextStyle.Render(text)
	}
}

func prefix(kind hunk.LineKind) string {
	switch kind {
	case hunk.LineAdded:
		return "+"
	case hunk.LineRemoved:
		return "-"
	default:
		return " "
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
