package cli

import (
	"errors"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// DefaultExcludes contains the default exclusion patterns.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{`.*\.git/.*`, `.*node_modules/.*`}

// flags mirrors the scan.Options surface on the command line.
type flags struct {
	excludes     []string
	hidden       bool
	linkSize     bool
	depth        int
	concurrency  int
	dedup        bool
	ignoreErrors bool
	fast         bool
	output       string
	debug        bool
}

// Execute runs the CLI with the provided arguments.
func (c CLI) Execute() error {
	var opts flags

	root := &cobra.Command{
		Use:     "dirscan",
		Version: c.version,
		Short:   "Compute sizes and trees of directory subtrees",
		Long: heredoc.Doc(`
			dirscan computes aggregate statistics (total size, file/directory/link
			counts) and tree representations of a directory subtree.

			Concurrent filesystem operations are bounded, symbolic links are never
			followed, and hard-linked files are counted once unless deduplication
			is disabled.

			The "size" command prints aggregate statistics, "tree" prints an eager
			tree, and "browse" opens an interactive lazily-expanding browser.

			The "init" command emits a shell integration script that pipes tree
			output through fzf.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringSliceVarP(&opts.excludes, "exclude", "e", DefaultExcludes, "Regex patterns to exclude (matched against the full path)")
	pf.BoolVar(&opts.hidden, "hidden", true, "Include hidden entries (names starting with '.')")
	pf.BoolVar(&opts.linkSize, "link-size", true, "Count symbolic link sizes in the total")
	pf.IntVarP(&opts.depth, "depth", "d", 0, "Maximum traversal depth (0=unlimited)")
	pf.IntVarP(&opts.concurrency, "concurrency", "c", 0, "Concurrent filesystem operations (0=default)")
	pf.BoolVar(&opts.dedup, "dedup", true, "Count hard-linked files once")
	pf.BoolVar(&opts.ignoreErrors, "ignore-errors", false, "Skip inaccessible entries instead of aborting")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug output")

	root.AddCommand(
		sizeCommand(&opts),
		treeCommand(&opts),
		browseCommand(&opts),
		initCommand(),
	)

	return root.Execute()
}

// pathArg resolves the optional positional path argument.
func pathArg(args []string) string {
	if len(args) == 0 {
		return "."
	}

	return args[0]
}

func sizeCommand(opts *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size [path]",
		Short: "Print aggregate statistics for a subtree",
		Long: heredoc.Doc(`
			size walks the subtree and prints the total byte size together with
			file, directory, and symbolic link counts. The directory count
			excludes the root itself.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSize(opts, pathArg(args))
		},
	}

	cmd.Flags().BoolVar(&opts.fast, "fast", false, "Try the accelerated backend first, falling back to the portable walk")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format: json or table")

	return cmd
}

func treeCommand(opts *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [path]",
		Short: "Print an eager tree of a subtree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTree(opts, pathArg(args))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format: json or table")

	return cmd
}

func browseCommand(opts *flags) *cobra.Command {
	var initialDepth int

	cmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "Browse a subtree interactively, expanding directories on demand",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if initialDepth < 0 {
				return errors.New("initial depth cannot be negative")
			}

			return runBrowse(opts, pathArg(args), initialDepth)
		},
	}

	cmd.Flags().IntVar(&initialDepth, "initial-depth", 1, "Levels to materialize before the first expand")

	return cmd
}
