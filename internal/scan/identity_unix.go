//go:build unix

package scan

import (
	"os"
	"syscall"
)

// nativeIdentity extracts the device/inode pair from info. The second
// return value is false when the platform or info does not expose it.
func nativeIdentity(info os.FileInfo) (identity, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat == nil {
		return identity{}, false
	}

	return identity{
		dev: uint64(stat.Dev), //nolint:unconvert // Dev is int32 on some platforms
		ino: uint64(stat.Ino),
	}, true
}
