package scan

import (
	"context"
	"path/filepath"
)

// Node is one node of an eager tree. Nodes are owned by their parent;
// there are no back-references.
type Node struct {
	// Name is the final path component.
	Name string `json:"name"`
	// Path is the absolute path of the node.
	Path string `json:"path"`
	// Kind is the entry classification.
	Kind Kind `json:"kind"`
	// Size in bytes; meaningful for files and symbolic links.
	Size int64 `json:"size"`
	// Depth is the distance from the root (root = 0); always parent
	// depth + 1 for children.
	Depth int `json:"depth"`
	// Children holds child nodes in listing order. Empty for
	// non-directories.
	Children []*Node `json:"children,omitempty"`
}

// Tree builds an eager tree for the subtree rooted at root, honoring the
// same filtering, deduplication, depth, and concurrency options as Size.
//
// A nil node with a nil error means the root itself was skipped.
func Tree(ctx context.Context, root string, opts Options) (*Node, error) {
	abs, err := filepath.Abs(root)
	if err == nil {
		root = abs
	}

	return Traverse(ctx, root, opts, func(entry Entry, children []*Node) *Node {
		return &Node{
			Name:     entry.Name,
			Path:     entry.Path,
			Kind:     entry.Kind,
			Size:     entry.Size,
			Depth:    entry.Depth,
			Children: children,
		}
	})
}
