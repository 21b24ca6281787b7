//go:build linux

package platform

import (
	"io/fs"
	"os"
	"path"

	"golang.org/x/sys/unix"
)

// Mkfifo creates a named pipe at name inside root.
// The parent directory is opened through root so the FIFO cannot land outside it.
func Mkfifo(root *os.Root, name string, perm fs.FileMode) error {
	dir, err := root.Open(path.Dir(name))
	if err != nil {
		return err
	}
	defer dir.Close()

	if err := unix.Mkfifoat(int(dir.Fd()), path.Base(name), uint32(perm.Perm())); err != nil {
		return &fs.PathError{Op: "mkfifo", Path: name, Err: err}
	}
	return nil
}
