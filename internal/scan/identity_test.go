//go:build unix

package scan

import (
	"os"
	"testing"
)

func TestIdentityHardLinksShareKey(t *testing.T) {
	dir := t.TempDir()

	a := join(dir, "a")
	b := join(dir, "b")
	c := join(dir, "c")

	writeFileOfSize(t, a, 10)
	writeFileOfSize(t, c, 10)
	hardlink(t, a, b)

	lstat := func(path string) os.FileInfo {
		info, err := os.Lstat(path)
		if err != nil {
			t.Fatalf("lstat %s: %v", path, err)
		}

		return info
	}

	idA := identityFor(a, lstat(a))
	idB := identityFor(b, lstat(b))
	idC := identityFor(c, lstat(c))

	if idA != idB {
		t.Errorf("hard links have different identities: %+v vs %+v", idA, idB)
	}

	if idA == idC {
		t.Errorf("distinct files share an identity: %+v", idA)
	}

	if idA.fallback != "" {
		t.Errorf("unix identity used fallback key %q", idA.fallback)
	}
}

func TestTrackerCheckAndRecord(t *testing.T) {
	tr := newTracker()

	id := identity{dev: 1, ino: 2}

	if tr.checkAndRecord(id) {
		t.Fatal("first sighting reported as seen")
	}

	if !tr.checkAndRecord(id) {
		t.Fatal("second sighting not reported as seen")
	}

	tr.reset()

	if tr.checkAndRecord(id) {
		t.Fatal("sighting after reset reported as seen")
	}
}
