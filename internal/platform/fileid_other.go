//go:build !unix

package platform

import "io/fs"

// FileID always reports ok=false; hard links are not detected on this platform.
func FileID(fs.FileInfo) (id [2]uint64, ok bool) {
	return id, false
}
