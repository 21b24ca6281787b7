//go:build unix

package platform

import (
	"io/fs"
	"syscall"
)

// FileID identifies the inode behind info so hard links can be grouped.
// ok is false when the underlying stat data is unavailable.
func FileID(info fs.FileInfo) (id [2]uint64, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return id, false
	}
	return [2]uint64{uint64(stat.Dev), uint64(stat.Ino)}, true //nolint:unconvert // Dev is int32 on darwin
}
