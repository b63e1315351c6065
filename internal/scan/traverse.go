package scan

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// VisitFunc folds one visited entry and its already-folded children into
// the caller's result shape. For non-directories children is nil; for
// directories it contains the results of the entries that were visited, in
// listing order (skipped entries are absent).
//
// VisitFunc may be called concurrently for different entries and must be
// safe for concurrent use.
type VisitFunc[T any] func(entry Entry, children []T) T

// Traverse walks the subtree rooted at root depth-first, applying the skip
// predicate, hard-link deduplication, and the concurrency limit from opts,
// and folds the walk into a result via visit. This is the single engine
// behind Size, Tree, and LazyTree.
//
// The returned result is the fold of the root entry. When the root itself
// is skipped (hidden, excluded, or a swallowed error), the zero value of T
// is returned with a nil error. On abort (error policy or ctx) the
// accumulated state is discarded and only the error is returned.
func Traverse[T any](ctx context.Context, root string, opts Options, visit VisitFunc[T]) (T, error) {
	return traverse(ctx, root, opts, noBoundary, visit)
}

// traverse is the shared engine entry point. boundary is the lazy descent
// cutoff (noBoundary for eager traversals).
func traverse[T any](ctx context.Context, root string, opts Options, boundary int, visit VisitFunc[T]) (T, error) {
	var zero T

	if err := opts.Validate(); err != nil {
		return zero, err
	}

	root = filepath.Clean(root)

	w, err := newWalker(opts, boundary)
	if err != nil {
		return zero, err
	}

	// Child context so the progress reporter stops when the walk returns.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, w)

	res, ok, err := walk(ctx, w, root, 0, visit)
	if err != nil {
		return zero, err
	}

	if !ok {
		return zero, nil
	}

	return res, nil
}

// noBoundary disables the lazy descent boundary.
const noBoundary = -1

// walker carries the per-call traversal state: the compiled skip predicate,
// the permit semaphore, the identity tracker, and the progress counters.
// The tracker and semaphore are exclusively owned by one top-level call.
type walker struct {
	opts     Options
	excludes []*regexp.Regexp
	sem      *semaphore
	tracker  *tracker

	// boundary is the lazy descent cutoff: directories at depth >= boundary
	// are visited but not descended into. noBoundary disables it.
	boundary int

	entries atomic.Int64
	bytes   atomic.Int64

	log logger
}

func newWalker(opts Options, boundary int) (*walker, error) {
	excludes, err := compileExcludes(opts.Excludes)
	if err != nil {
		return nil, err
	}

	return &walker{
		opts:     opts,
		excludes: excludes,
		sem:      newSemaphore(opts.concurrency()),
		tracker:  newTracker(),
		boundary: boundary,
		log:      logger{enabled: opts.Debug},
	}, nil
}

// skip applies the pure skip predicate.
func (w *walker) skip(path, name string) bool {
	return shouldSkip(path, name, w.opts.IncludeHidden, w.excludes)
}

// canDescend reports whether children of a directory at depth should be
// traversed. Visiting is bounded separately (depth <= MaxDepth).
func (w *walker) canDescend(depth int) bool {
	if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth {
		return false
	}

	if w.boundary != noBoundary && depth >= w.boundary {
		return false
	}

	return true
}

// atBoundary reports whether depth is at the lazy descent cutoff while
// still within the depth limit, i.e. the directory becomes an unloaded node.
func (w *walker) atBoundary(depth int) bool {
	if w.boundary == noBoundary || depth < w.boundary {
		return false
	}

	return w.opts.MaxDepth == 0 || depth < w.opts.MaxDepth
}

// policy applies the error policy to a per-entry failure. A nil return
// means "swallow and continue"; ErrStopped or the failure itself aborts
// the traversal.
func (w *walker) policy(aerr *AccessError) error {
	if w.opts.OnError != nil {
		if w.opts.OnError(aerr, aerr.Path) {
			return nil
		}

		return ErrStopped
	}

	if w.opts.IgnoreErrors {
		return nil
	}

	return aerr
}

// count records one visited entry and its byte contribution for progress
// reporting.
func (w *walker) count(contributed int64) {
	w.entries.Add(1)

	if contributed > 0 {
		w.bytes.Add(contributed)
	}
}

// walk processes a single path at the given depth and recurses into
// directories. The boolean result is false when the entry was skipped
// (filtered, deduplicated, beyond the depth limit, or a swallowed error).
//
// A permit is held exactly for the duration of the entry's own filesystem
// work (Lstat and, for directories, the listing) and released before
// waiting on child traversals, so the semaphore bounds simultaneously
// outstanding filesystem operations without deadlocking on deep trees.
func walk[T any](ctx context.Context, w *walker, path string, depth int, visit VisitFunc[T]) (T, bool, error) {
	var zero T

	// Cancellation prevents starting new work; in-flight siblings finish
	// naturally.
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	if w.opts.MaxDepth > 0 && depth > w.opts.MaxDepth {
		return zero, false, nil
	}

	name := filepath.Base(path)
	if w.skip(path, name) {
		w.log.printf("[debug]: skipping (filtered): %s\n", path)

		return zero, false, nil
	}

	if err := w.sem.Acquire(ctx); err != nil {
		return zero, false, err
	}

	held := true
	release := func() {
		if held {
			held = false

			w.sem.Release()
		}
	}
	defer release()

	info, statErr := os.Lstat(path)
	if statErr != nil {
		release()

		if perr := w.policy(&AccessError{Path: path, Op: "lstat", Err: statErr}); perr != nil {
			return zero, false, perr
		}

		return zero, false, nil
	}

	if w.opts.DedupHardlinks && w.tracker.checkAndRecord(identityFor(path, info)) {
		w.log.printf("[debug]: skipping (hard link already seen): %s\n", path)

		return zero, false, nil
	}

	entry := Entry{
		Path:       path,
		Name:       name,
		Depth:      depth,
		Kind:       kindOf(info.Mode()),
		Size:       info.Size(),
		ChildCount: -1,
	}

	if entry.Kind != KindDir {
		release()

		switch entry.Kind {
		case KindFile:
			w.count(entry.Size)
		case KindSymlink:
			if w.opts.IncludeLinkSize {
				w.count(entry.Size)
			} else {
				w.count(0)
			}
		default:
			w.count(0)
		}

		return visit(entry, nil), true, nil
	}

	// Directory: list children while still holding the permit. A failed
	// listing still completes the directory's own node (as childless),
	// since its metadata is already known.
	var names []string

	descend := w.canDescend(depth)
	precheck := !descend && w.atBoundary(depth) && w.opts.PrecheckChildren

	if descend || precheck {
		dirents, readErr := os.ReadDir(path)
		if readErr != nil {
			release()

			if perr := w.policy(&AccessError{Path: path, Op: "readdir", Err: readErr}); perr != nil {
				return zero, false, perr
			}
		} else {
			names = make([]string, 0, len(dirents))
			for _, d := range dirents {
				childName := d.Name()
				if !w.skip(filepath.Join(path, childName), childName) {
					names = append(names, childName)
				}
			}

			entry.ChildCount = len(names)
		}
	}

	release()

	w.count(0)

	if !descend || len(names) == 0 {
		return visit(entry, nil), true, nil
	}

	// One recursive walk per child, joined before this node folds
	// (structured concurrency). Results land in index-addressed slots so
	// merging stays deterministic despite unordered completion.
	children := make([]T, len(names))
	present := make([]bool, len(names))

	group, gctx := errgroup.WithContext(ctx)

	for i, child := range names {
		i, child := i, child
		group.Go(func() error {
			res, ok, err := walk(gctx, w, filepath.Join(path, child), depth+1, visit)
			if err != nil {
				return err
			}

			if ok {
				children[i] = res
				present[i] = true
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return zero, false, err
	}

	folded := make([]T, 0, len(children))

	for i := range children {
		if present[i] {
			folded = append(folded, children[i])
		}
	}

	return visit(entry, folded), true, nil
}
