package scan

import (
	"context"
	"path/filepath"
	"sync"
)

// Presence is the tri-state answer to "does this directory have children",
// resolved only when the directory is actually read.
type Presence int8

const (
	ChildrenUnknown Presence = iota
	ChildrenAbsent
	ChildrenPresent
)

func (p Presence) String() string {
	switch p {
	case ChildrenAbsent:
		return "absent"
	case ChildrenPresent:
		return "present"
	default:
		return "unknown"
	}
}

// presenceOf maps a child count to a Presence.
func presenceOf(n int) Presence {
	if n > 0 {
		return ChildrenPresent
	}

	return ChildrenAbsent
}

// LazyNode is a tree node whose children may not have been materialized
// yet. Directories beyond the initial depth of LazyTree start unloaded and
// transition to loaded exactly once, via Expand.
type LazyNode struct {
	// Name is the final path component.
	Name string `json:"name"`
	// Path is the absolute path of the node.
	Path string `json:"path"`
	// Kind is the entry classification.
	Kind Kind `json:"kind"`
	// Size in bytes; meaningful for files and symbolic links.
	Size int64 `json:"size"`
	// Depth is the distance from the lazy tree's root (root = 0).
	Depth int `json:"depth"`
	// Children holds materialized child nodes in listing order.
	Children []*LazyNode `json:"children,omitempty"`
	// Loaded reports whether children have been fetched. Always true for
	// non-directories.
	Loaded bool `json:"loaded"`
	// HasChildren is resolved when the directory is read (or prechecked).
	HasChildren Presence `json:"has_children"`

	mu sync.Mutex
}

// LazyTree builds a tree for the subtree rooted at root, materializing
// directories eagerly only up to initialDepth levels below the root.
// Directories at the boundary are returned with Loaded false and empty
// children; their HasChildren is resolved only when opts.PrecheckChildren
// is set (a one-level listing without recursion).
//
// A nil node with a nil error means the root itself was skipped.
func LazyTree(ctx context.Context, root string, opts Options, initialDepth int) (*LazyNode, error) {
	if initialDepth < 0 {
		return nil, &InvalidOptionsError{Field: "initialDepth", Reason: "cannot be negative"}
	}

	abs, err := filepath.Abs(root)
	if err == nil {
		root = abs
	}

	return traverse(ctx, root, opts, initialDepth, lazyVisit(0, initialDepth, opts))
}

// lazyVisit builds LazyNode values during a boundary traversal. baseDepth
// offsets the reported node depths (used by Expand, where the engine's
// depth 0 is the expanded node itself).
func lazyVisit(baseDepth, boundary int, opts Options) VisitFunc[*LazyNode] {
	return func(entry Entry, children []*LazyNode) *LazyNode {
		node := &LazyNode{
			Name:     entry.Name,
			Path:     entry.Path,
			Kind:     entry.Kind,
			Size:     entry.Size,
			Depth:    baseDepth + entry.Depth,
			Children: children,
			Loaded:   true,
		}

		if entry.Kind != KindDir {
			return node
		}

		if entry.Depth >= boundary {
			// Unloaded boundary directory. A precheck listing resolves
			// HasChildren without materializing anything.
			node.Loaded = false
			node.Children = nil

			if opts.PrecheckChildren && entry.ChildCount >= 0 {
				node.HasChildren = presenceOf(entry.ChildCount)
			}

			return node
		}

		node.HasChildren = presenceOf(len(children))

		return node
	}
}

// Expand materializes the direct children of n with a concurrency-limited
// single-level traversal. It is a no-op for non-directories and for nodes
// that are already loaded (expanding is idempotent). On hard failure the
// node stays unloaded so the expansion can be retried.
//
// Expansion applies the filtering, deduplication, and concurrency options
// from opts, but not MaxDepth: expanding is an explicit request for one
// more level.
func (n *LazyNode) Expand(ctx context.Context, opts Options) error {
	if n.Kind != KindDir {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Loaded {
		return nil
	}

	opts.MaxDepth = 0

	res, err := traverse(ctx, n.Path, opts, 1, lazyVisit(n.Depth, 1, opts))
	if err != nil {
		return err
	}

	if res != nil {
		n.Children = res.Children
	}

	n.Loaded = true
	n.HasChildren = presenceOf(len(n.Children))

	return nil
}
