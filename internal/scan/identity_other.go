//go:build !unix

package scan

import "os"

// nativeIdentity is unavailable on this platform; callers fall back to a
// synthetic path-based key.
func nativeIdentity(_ os.FileInfo) (identity, bool) {
	return identity{}, false
}
