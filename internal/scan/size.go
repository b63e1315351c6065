package scan

import (
	"context"
	"errors"
)

// Size computes aggregate statistics for the subtree rooted at root.
//
// When opts.Accelerator is set it is tried first; an accelerator error
// falls back to the portable traversal, except for deliberate stops
// (ErrStopped) and context cancellation, which would otherwise run the
// error callbacks twice. The directory count excludes the root itself.
func Size(ctx context.Context, root string, opts Options) (*Result, error) {
	if opts.Accelerator != nil {
		res, err := opts.Accelerator.Aggregate(ctx, root, opts)
		if err == nil {
			return res, nil
		}

		if errors.Is(err, ErrStopped) || ctx.Err() != nil {
			return nil, err
		}

		logger{enabled: opts.Debug}.printf("[debug]: accelerator failed, falling back: %v\n", err)
	}

	res, err := Traverse(ctx, root, opts, func(entry Entry, children []*Result) *Result {
		r := NewResult()

		switch entry.Kind {
		case KindFile:
			r.Files++
			r.addBytes(entry.Size)
		case KindDir:
			if entry.Depth > 0 {
				r.Dirs++
			}
		case KindSymlink:
			r.Links++

			if opts.IncludeLinkSize {
				r.addBytes(entry.Size)
			}
		}

		for _, child := range children {
			r.Merge(child)
		}

		return r
	})
	if err != nil {
		return nil, err
	}

	if res == nil {
		// Root was skipped by the filter or a swallowed error.
		res = NewResult()
	}

	return res, nil
}
