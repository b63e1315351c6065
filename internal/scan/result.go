package scan

import "math/big"

// Result holds aggregate statistics for one traversal.
//
// Bytes is a big.Int: file trees legitimately exceed what a float (or a
// JSON number consumer) can represent exactly, and accumulation must be
// exact integer addition.
type Result struct {
	// Bytes is the cumulative size of counted files (and, when enabled,
	// symbolic links).
	Bytes *big.Int `json:"bytes"`
	// Files is the number of regular files counted.
	Files int64 `json:"files"`
	// Dirs is the number of directories counted, excluding the root itself.
	Dirs int64 `json:"dirs"`
	// Links is the number of symbolic links counted.
	Links int64 `json:"links"`
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{Bytes: new(big.Int)}
}

// Merge folds other into r. Merging is associative and commutative, so
// concurrent branches can be combined in any completion order.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}

	r.Bytes.Add(r.Bytes, other.Bytes)
	r.Files += other.Files
	r.Dirs += other.Dirs
	r.Links += other.Links
}

// addBytes adds a non-negative byte count.
func (r *Result) addBytes(n int64) {
	if n > 0 {
		r.Bytes.Add(r.Bytes, big.NewInt(n))
	}
}
