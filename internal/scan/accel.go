package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// Accelerator is an optional backend for aggregate computation. Backends
// are best-effort: any error makes Size fall back to the portable engine,
// so implementations are free to fail on configurations or platforms they
// do not support.
type Accelerator interface {
	// Aggregate computes the same statistics as Size for the subtree
	// rooted at root.
	Aggregate(ctx context.Context, root string, opts Options) (*Result, error)
}

// FastWalker is an Accelerator backed by fastwalk's parallel traversal.
// It honors the full Options surface except Concurrency, which fastwalk
// manages with its own worker pool.
type FastWalker struct {
	// Config overrides the fastwalk configuration. Symlinks are never
	// followed regardless.
	Config *fastwalk.Config
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// accumulator merges entries from concurrent fastwalk callbacks under a
// mutex; fastwalk invokes the callback from multiple goroutines.
type accumulator struct {
	mu  sync.Mutex
	res *Result
}

func (a *accumulator) add(kind Kind, size int64, includeLinkSize bool, root bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch kind {
	case KindFile:
		a.res.Files++
		a.res.addBytes(size)
	case KindDir:
		if !root {
			a.res.Dirs++
		}
	case KindSymlink:
		a.res.Links++

		if includeLinkSize {
			a.res.addBytes(size)
		}
	}
}

// Aggregate walks root with fastwalk and folds every surviving entry into
// one Result. The error policy is identical to the portable engine's.
func (f *FastWalker) Aggregate(ctx context.Context, root string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	root = filepath.Clean(root)

	excludes, err := compileExcludes(opts.Excludes)
	if err != nil {
		return nil, err
	}

	seen := newTracker()
	acc := &accumulator{res: NewResult()}
	log := logger{enabled: opts.Debug}

	policy := func(aerr *AccessError) error {
		if opts.OnError != nil {
			if opts.OnError(aerr, aerr.Path) {
				return nil
			}

			return ErrStopped
		}

		if opts.IgnoreErrors {
			return nil
		}

		return aerr
	}

	conf := f.Config
	if conf == nil {
		conf = &fastwalk.Config{}
	}

	conf.Follow = false // never follow symlinks

	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return policy(&AccessError{Path: path, Op: "readdir", Err: err})
		}

		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		depth := calculateDepth(path, root)
		if opts.MaxDepth > 0 && depth > opts.MaxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if path != root && shouldSkip(path, d.Name(), opts.IncludeHidden, excludes) {
			log.printf("[debug]: excluding: %s\n", filepath.ToSlash(path))

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		// DirEntry.Info reports the link itself for symlinks, matching the
		// portable engine's Lstat.
		info, infoErr := d.Info()
		if infoErr != nil {
			return policy(&AccessError{Path: path, Op: "lstat", Err: infoErr})
		}

		kind := kindOf(info.Mode())

		if opts.DedupHardlinks && seen.checkAndRecord(identityFor(path, info)) {
			if kind == KindDir {
				return filepath.SkipDir
			}

			return nil
		}

		acc.add(kind, info.Size(), opts.IncludeLinkSize, path == root)

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return acc.res, nil
}
