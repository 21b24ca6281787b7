//go:build unix && !linux

package platform

import (
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Mkfifo creates a named pipe at name inside root.
func Mkfifo(root *os.Root, name string, perm fs.FileMode) error {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return &fs.PathError{Op: "mkfifo", Path: name, Err: fs.ErrInvalid}
	}
	full := filepath.Join(root.Name(), filepath.FromSlash(name))
	if err := unix.Mkfifo(full, uint32(perm.Perm())); err != nil {
		return &fs.PathError{Op: "mkfifo", Path: name, Err: err}
	}
	return nil
}
