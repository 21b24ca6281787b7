//go:build unix && !linux

package platform

import (
	"os"
	"path/filepath"
)

// bindAt binds base inside dir by its full path, which fails with EINVAL
// when the path outgrows sun_path.
func bindAt(root *os.Root, dir, base string) error {
	if _, err := root.Lstat(dir); err != nil {
		return err
	}
	return bindUnixgram(filepath.Join(root.Name(), filepath.FromSlash(dir), base))
}
