//go:build !unix

package platform

import (
	"errors"
	"io/fs"
	"os"
)

// Mksocket is not supported on this platform.
func Mksocket(_ *os.Root, name string) error {
	return &fs.PathError{Op: "mksocket", Path: name, Err: errors.ErrUnsupported}
}
