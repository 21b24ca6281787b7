//go:build !unix

package platform

import (
	"errors"
	"io/fs"
	"os"
)

// Mkfifo is not supported on this platform.
func Mkfifo(_ *os.Root, name string, _ fs.FileMode) error {
	return &fs.PathError{Op: "mkfifo", Path: name, Err: errors.ErrUnsupported}
}
