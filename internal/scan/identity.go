package scan

import (
	"os"
	"sync"
)

// identity uniquely identifies physical storage objects. Two identities
// compare equal iff they denote the same object, which is what hard-link
// detection relies on. On platforms without device/inode information the
// path itself is used as a synthetic key.
type identity struct {
	dev      uint64
	ino      uint64
	fallback string
}

// identityFor derives the identity for path from already-fetched metadata.
func identityFor(path string, info os.FileInfo) identity {
	if id, ok := nativeIdentity(info); ok {
		return id
	}

	return identity{fallback: path}
}

// tracker records identities seen during one traversal. It is owned by a
// single top-level call and must not leak state across calls.
type tracker struct {
	// most identities have not been seen, so no need for a RWMutex
	mu   sync.Mutex
	seen map[identity]struct{}
}

func newTracker() *tracker {
	return &tracker{seen: make(map[identity]struct{}, 128)}
}

// checkAndRecord reports whether id was already seen, recording it as a
// side effect if not. Check and insert happen atomically under one lock
// section.
func (t *tracker) checkAndRecord(id identity) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return true
	}

	t.seen[id] = struct{}{}

	return false
}

// reset discards all recorded identities.
func (t *tracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seen = make(map[identity]struct{}, 128)
}
