// Package parse provides the parse command.
package parse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/rtx/internal/cmd/cmdutil"
	"github.com/open-cli-collective/rtx/internal/config"
	"github.com/open-cli-collective/rtx/internal/logging"
	"github.com/open-cli-collective/rtx/internal/view"
	"github.com/open-cli-collective/rtx/pkg/markup"
)

type parseOptions struct {
	rules          string
	events         bool
	warnings       bool
	noBBCode       bool
	disablePlugins []string
	output         string
	noColor        bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewCmdParse creates the parse command.
func NewCmdParse() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse markup into the tagged representation",
		Long: `Parse text carrying BBCode markup and plugin-detected patterns, and print
the tagged XML representation. Reads stdin when no file is given.

Several files are parsed concurrently, at most max_workers at a time.`,
		Example: `  # Parse a string
  echo '[b]bold[/b]' | rtx parse

  # Parse files and show the dropped tags
  rtx parse post1.txt post2.txt --warnings

  # Show the resolved events as a table
  rtx parse post.txt --events`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()

			cfg, err := cmdutil.LoadConfig(cmd)
			if err != nil {
				return err
			}
			return runParse(cmd.Context(), args, opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.rules, "rules", "r", "", "Rule-set file (default: configured rules or the built-in set)")
	cmd.Flags().BoolVar(&opts.events, "events", false, "Print the resolved events instead of XML")
	cmd.Flags().BoolVar(&opts.warnings, "warnings", false, "Print the tags that were dropped and why")
	cmd.Flags().BoolVar(&opts.noBBCode, "no-bbcode", false, "Only run plugins, ignore bracket markup")
	cmd.Flags().StringSliceVar(&opts.disablePlugins, "disable-plugin", nil, "Plugins to skip (repeatable)")

	return cmd
}

// fileResult is the outcome of parsing one input.
type fileResult struct {
	Name     string     `json:"file"`
	XML      string     `json:"xml"`
	Warnings []string   `json:"warnings,omitempty"`
	Events   []eventRow `json:"events,omitempty"`
	result   *markup.Result
}

type eventRow struct {
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Tag   string `json:"tag,omitempty"`
	Text  string `json:"text"`
}

func runParse(ctx context.Context, files []string, opts *parseOptions, cfg *config.Config) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	engine, err := cmdutil.NewEngine(cfg, cmdutil.EngineOptions{
		RulesPath:      opts.rules,
		DisablePlugins: opts.disablePlugins,
		NoBBCode:       opts.noBBCode,
	})
	if err != nil {
		return err
	}

	if len(files) == 0 {
		files = []string{"-"}
	}
	if err := checkStdinOnce(files); err != nil {
		return err
	}
	results, err := parseAll(ctx, engine.Parser, files, cfg.Workers(), opts.stdin)
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if renderer.Format() == view.FormatJSON {
		if opts.events {
			for _, r := range results {
				r.Events = eventRows(r.result)
			}
		}
		return renderer.RenderJSON(results)
	}

	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				renderer.RenderText("")
			}
			renderer.RenderText("==> " + r.Name + " <==")
		}
		if opts.events {
			renderEvents(renderer, eventRows(r.result))
		} else {
			renderer.RenderText(r.XML)
		}
	}

	if opts.warnings {
		warn := view.NewRenderer(view.FormatTable, opts.noColor)
		warn.SetWriter(opts.stderr)
		for _, r := range results {
			for _, w := range r.Warnings {
				if len(results) > 1 {
					w = r.Name + ":" + w
				}
				warn.Warning(w)
			}
		}
	}
	return nil
}

// parseAll parses every file with at most workers goroutines. Results keep
// the order of files.
func parseAll(ctx context.Context, p *markup.Parser, files []string, workers int, stdin io.Reader) ([]*fileResult, error) {
	logger := logging.GetLogger("parse")
	defer logging.LogOperationStart(logger, "parse")()

	results := make([]*fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := cmdutil.ReadInput(name, stdin)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			res, err := p.Parse(text)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			logger.Debug().Str("file", name).Int("bytes", len(text)).Int("warnings", len(res.Warnings)).Msg("Parsed")

			fr := &fileResult{Name: displayName(name), XML: res.XML, result: res}
			for _, w := range res.Warnings {
				fr.Warnings = append(fr.Warnings, w.String())
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkStdinOnce rejects file lists naming stdin more than once; parseAll
// reads every input concurrently and stdin can only be drained once.
func checkStdinOnce(files []string) error {
	seen := false
	for _, name := range files {
		if name != "" && name != "-" {
			continue
		}
		if seen {
			return errors.New("stdin (-) can only be given once")
		}
		seen = true
	}
	return nil
}

func displayName(name string) string {
	if name == "-" {
		return "(stdin)"
	}
	return name
}

func eventRows(res *markup.Result) []eventRow {
	rows := make([]eventRow, 0, len(res.Events))
	for _, ev := range res.Events {
		row := eventRow{
			Kind:  ev.Kind.String(),
			Start: ev.Start,
			End:   ev.End,
			Text:  res.Text[ev.Start:ev.End],
		}
		if ev.Tag != nil {
			row.Tag = ev.Tag.Name
		}
		rows = append(rows, row)
	}
	return rows
}

func renderEvents(renderer *view.Renderer, rows []eventRow) {
	table := make([][]string, len(rows))
	for i, row := range rows {
		table[i] = []string{
			row.Kind,
			strconv.Itoa(row.Start),
			strconv.Itoa(row.End),
			row.Tag,
			view.Snippet(row.Text, 40),
		}
	}
	renderer.RenderTable([]string{"KIND", "START", "END", "TAG", "TEXT"}, table)
}
