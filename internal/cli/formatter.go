package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dirscan/internal/scan"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2

	// treeIndent is the per-level indentation of the tree renderer.
	treeIndent = "  "
)

// PrintJSON outputs a value in JSON format.
func PrintJSON(v any, writer io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// humanBytes renders a big.Int byte count. Totals beyond uint64 range are
// printed exactly, without a unit.
func humanBytes(n *big.Int) string {
	if n.IsUint64() {
		return humanize.IBytes(n.Uint64())
	}

	return n.String() + " B"
}

// PrintResult outputs aggregate statistics in human-readable table format.
func PrintResult(res *scan.Result, elapsed time.Duration, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "Stats:\t\t")
	fmt.Fprintf(w, "Total size:\t%s (%s bytes)\n", humanBytes(res.Bytes), res.Bytes.String())
	fmt.Fprintf(w, "Files:\t%d\n", res.Files)
	fmt.Fprintf(w, "Directories:\t%d\n", res.Dirs)
	fmt.Fprintf(w, "Symlinks:\t%d\n", res.Links)
	fmt.Fprintf(w, "\nElapsed:\t%v\n", elapsed)

	return w.Flush()
}

// PrintTree outputs a tree in indented human-readable form.
func PrintTree(node *scan.Node, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	var render func(n *scan.Node)
	render = func(n *scan.Node) {
		indent := strings.Repeat(treeIndent, n.Depth)

		switch n.Kind {
		case scan.KindDir:
			fmt.Fprintf(w, "%s%s/\t\n", indent, n.Name)
		case scan.KindSymlink:
			fmt.Fprintf(w, "%s%s@\t%s\n", indent, n.Name, humanize.IBytes(uint64(n.Size))) //nolint:gosec // Size is non-negative
		default:
			fmt.Fprintf(w, "%s%s\t%s\n", indent, n.Name, humanize.IBytes(uint64(n.Size))) //nolint:gosec // Size is non-negative
		}

		for _, child := range n.Children {
			render(child)
		}
	}

	render(node)

	return w.Flush()
}
