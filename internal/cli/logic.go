package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/idelchi/dirscan/internal/integration"
	"github.com/idelchi/dirscan/internal/scan"
	"github.com/idelchi/dirscan/internal/tui"
)

// options converts the flag values into scan.Options.
func (f *flags) options() (scan.Options, error) {
	if f.depth < 0 {
		return scan.Options{}, errors.New("depth cannot be negative")
	}

	opts := scan.DefaultOptions()
	opts.MaxDepth = f.depth
	opts.Excludes = f.excludes
	opts.IncludeHidden = f.hidden
	opts.IncludeLinkSize = f.linkSize
	opts.Concurrency = f.concurrency
	opts.DedupHardlinks = f.dedup
	opts.IgnoreErrors = f.ignoreErrors
	opts.Debug = f.debug

	if f.fast {
		opts.Accelerator = &scan.FastWalker{}
	}

	if err := opts.Validate(); err != nil {
		return scan.Options{}, err
	}

	return opts, nil
}

// validateOutput checks the output format flag.
func validateOutput(output string) error {
	switch strings.ToLower(output) {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be one of [table json]", output)
	}
}

// withProgress attaches an in-place stderr progress hook when the output is
// an interactive terminal and the format allows it.
func withProgress(opts scan.Options, output string) (scan.Options, func()) {
	enable := strings.ToLower(output) != "json" &&
		!opts.Debug &&
		isatty.IsTerminal(os.Stderr.Fd())

	if !enable {
		return opts, func() {}
	}

	// Hide cursor for in-place updates; restore on exit.
	fmt.Fprint(os.Stderr, "\033[?25l")

	opts.Progress = func(entries, bytes int64) {
		msg := fmt.Sprintf("Scanning… %d entries, %s",
			entries, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
		fmt.Fprintf(os.Stderr, "\r\033[2K%s\r", msg)
	}

	cleanup := func() {
		fmt.Fprint(os.Stderr, "\r\033[2K\r\033[?25h")
	}

	return opts, cleanup
}

func runSize(f *flags, path string) error {
	if err := validateOutput(f.output); err != nil {
		return err
	}

	opts, err := f.options()
	if err != nil {
		return err
	}

	opts, cleanup := withProgress(opts, f.output)

	start := time.Now()
	res, err := scan.Size(context.Background(), path, opts)

	cleanup()

	if err != nil {
		return err
	}

	switch strings.ToLower(f.output) {
	case "json":
		return PrintJSON(res, os.Stdout)
	default:
		return PrintResult(res, time.Since(start), os.Stdout)
	}
}

func runTree(f *flags, path string) error {
	if err := validateOutput(f.output); err != nil {
		return err
	}

	opts, err := f.options()
	if err != nil {
		return err
	}

	opts, cleanup := withProgress(opts, f.output)

	node, err := scan.Tree(context.Background(), path, opts)

	cleanup()

	if err != nil {
		return err
	}

	if node == nil {
		return fmt.Errorf("path %q was skipped by the configured filters", path)
	}

	switch strings.ToLower(f.output) {
	case "json":
		return PrintJSON(node, os.Stdout)
	default:
		return PrintTree(node, os.Stdout)
	}
}

func runBrowse(f *flags, path string, initialDepth int) error {
	opts, err := f.options()
	if err != nil {
		return err
	}

	// The browser resolves deeper levels on demand.
	opts.PrecheckChildren = true

	return tui.Run(path, opts, initialDepth)
}

func initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Output shell integration script",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rendered, err := integration.Render()
			if err != nil {
				return fmt.Errorf("rendering integration script: %w", err)
			}

			//nolint:forbidigo // Integration script output to console
			fmt.Println(rendered)

			return nil
		},
	}
}
