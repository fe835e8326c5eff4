package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bsm/sstview"
	"github.com/bsm/sstview/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts report.Options
	var verbose bool

	cmd := &cobra.Command{
		Use:   "sstview [flags] <file>...",
		Short: "Visualise the internal structure of SST files",
		Long: `Decodes SST files and renders their sections, block index, blocks and
bloom filter metadata as an HTML page or a plain text summary.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			for _, name := range args {
				if _, err := os.Stat(name); err != nil {
					return fmt.Errorf("file %q does not exist", name)
				}
			}
			if err := checkOutputs(&opts, args); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			return run(cmd.Context(), logger, stdout, &opts, args)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "sst_html", "directory for HTML reports")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", report.FormatHTML, "output format, html or text")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// checkOutputs rejects runs in which two files would share a report path.
func checkOutputs(opts *report.Options, names []string) error {
	if opts.Format == report.FormatText {
		return nil
	}

	seen := make(map[string]string, len(names))
	for _, name := range names {
		path := opts.Path(name)
		if prev, ok := seen[path]; ok {
			return fmt.Errorf("files %q and %q would both be written to %s", prev, name, path)
		}
		seen[path] = name
	}
	return nil
}

// run decodes each file independently and renders its report. Text reports
// are printed in argument order once all files are done.
func run(ctx context.Context, logger *slog.Logger, stdout io.Writer, opts *report.Options, names []string) error {
	outputs := make([][]byte, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			out, err := inspect(logger.With("file", name), opts, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("inspection failed", "error", err)
		return err
	}

	for _, out := range outputs {
		if _, err := stdout.Write(out); err != nil {
			return err
		}
	}
	return nil
}

// inspect decodes a single file. It returns the rendered text report, if
// requested.
func inspect(logger *slog.Logger, opts *report.Options, name string) ([]byte, error) {
	t, err := sstview.Open(name)
	if err != nil {
		return nil, err
	}

	logger.Debug("decoded",
		"size", t.Size,
		"meta_entries", len(t.Meta),
		"blocks", t.NumBlocks(),
		"bloom", t.Bloom.Status.String(),
	)
	for _, w := range t.Warnings {
		logger.Warn("skipped", "section", w.Section, "index", w.Index, "offset", w.Offset, "error", w.Err)
	}

	r := report.New(name, t)
	if opts.Format == report.FormatText {
		buf := new(bytes.Buffer)
		if err := r.WriteText(buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	path, err := r.WriteFile(opts)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	logger.Info("report written", "path", path)
	return nil, nil
}
