// Package scan computes aggregate statistics and tree representations of
// directory subtrees.
//
// A single recursive traversal engine ([Traverse]) underlies all entry
// points: [Size] folds the walk into aggregate counters, [Tree] into an
// eager tree, and [LazyTree] into a tree whose deeper levels are
// materialized on demand via [LazyNode.Expand].
//
// The number of simultaneously outstanding filesystem operations is bounded
// by Options.Concurrency, hard-linked files are counted once when
// deduplication is enabled, and symbolic links are never followed.
package scan
