package scan

import (
	"fmt"
	"time"
)

// DefaultConcurrency is the permit count used when Options.Concurrency is 0.
const DefaultConcurrency = 2

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// ErrorFunc decides per-error whether a traversal continues.
//
// It receives the error (an *AccessError) and the path of the entry that
// failed. Returning true swallows the error and continues with the entry's
// siblings; returning false aborts the entire traversal with ErrStopped.
//
// ErrorFunc may be called concurrently and must be safe for concurrent use.
type ErrorFunc func(err error, path string) bool

// ProgressFunc receives periodic progress updates: the number of entries
// visited so far and the bytes accumulated so far.
type ProgressFunc func(entries, bytes int64)

// Options configures a traversal. The zero value is not ready for use;
// start from DefaultOptions and override fields per call. Options are
// never mutated by the package.
type Options struct {
	// MaxDepth limits traversal depth. The root is depth 0 and its direct
	// children are depth 1; entries deeper than MaxDepth are not visited.
	// 0 means unbounded.
	MaxDepth int

	// Excludes contains regex patterns. An entry is skipped when any
	// pattern matches its full slash-separated path.
	Excludes []string

	// IncludeHidden controls whether entries whose name starts with "."
	// are visited.
	IncludeHidden bool

	// IncludeLinkSize controls whether a symbolic link's own size is added
	// to the byte total. Links are counted in Result.Links regardless.
	IncludeLinkSize bool

	// Concurrency bounds the number of simultaneously outstanding
	// filesystem operations. 0 uses DefaultConcurrency.
	Concurrency int

	// DedupHardlinks skips entries whose (device, inode) identity was
	// already seen during the same call, so hard-linked files are counted
	// once.
	DedupHardlinks bool

	// IgnoreErrors controls the fallback error policy when OnError is nil:
	// true swallows per-entry errors, false aborts the traversal on the
	// first one.
	IgnoreErrors bool

	// OnError, when set, is the authoritative per-error policy.
	// See ErrorFunc.
	OnError ErrorFunc

	// PrecheckChildren makes LazyTree resolve HasChildren for unloaded
	// boundary directories with a cheap one-level listing (no recursion).
	PrecheckChildren bool

	// Accelerator, when set, is tried first by Size. Any accelerator error
	// falls back to the portable traversal.
	Accelerator Accelerator

	// Progress, when set, is invoked on every ProgressInterval tick.
	Progress ProgressFunc

	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration

	// Debug enables debug output to the console.
	Debug bool
}

// DefaultOptions returns options with every field at its documented default:
// unbounded depth, no excludes, hidden entries included, link sizes
// included, concurrency 2, hard-link deduplication on, errors fatal.
func DefaultOptions() Options {
	return Options{
		IncludeHidden:   true,
		IncludeLinkSize: true,
		Concurrency:     DefaultConcurrency,
		DedupHardlinks:  true,
	}
}

// Validate checks the options and returns an *InvalidOptionsError for the
// first rejected field.
func (o Options) Validate() error {
	if o.MaxDepth < 0 {
		return &InvalidOptionsError{Field: "MaxDepth", Reason: "cannot be negative"}
	}

	if o.Concurrency < 0 {
		return &InvalidOptionsError{Field: "Concurrency", Reason: "cannot be negative"}
	}

	for _, p := range o.Excludes {
		if _, err := compileExcludes([]string{p}); err != nil {
			return &InvalidOptionsError{Field: "Excludes", Reason: fmt.Sprintf("pattern %q: %v", p, err)}
		}
	}

	return nil
}

// concurrency resolves the effective permit count.
func (o Options) concurrency() int {
	if o.Concurrency <= 0 {
		return DefaultConcurrency
	}

	return o.Concurrency
}
