package scan

import "io/fs"

// Kind classifies a filesystem entry. It is determined once per entry from
// non-following metadata; a symbolic link keeps KindSymlink regardless of
// its target.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindDir
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// kindOf classifies a file mode.
func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	default:
		return KindUnknown
	}
}

// Entry describes one visited filesystem entry.
type Entry struct {
	// Path is the full path of the entry.
	Path string
	// Name is the final path component.
	Name string
	// Depth is the distance from the traversal root (root = 0).
	Depth int
	// Kind is the entry classification.
	Kind Kind
	// Size is the Lstat-reported size in bytes. For symbolic links this is
	// the link's own size, not the target's.
	Size int64
	// ChildCount is the number of direct children that passed the skip
	// predicate, when the directory was listed; -1 when it was not read
	// (non-directories, unread lazy boundaries, failed listings).
	ChildCount int
}
