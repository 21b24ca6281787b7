//go:build unix

package platform

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// ReadFileNoFollow reads the regular file name inside root. A final
// symlink yields ErrSymlink; a pipe, socket or device yields ErrNotRegular
// instead of blocking.
func ReadFileNoFollow(root *os.Root, name string) ([]byte, error) {
	f, err := root.OpenFile(name, os.O_RDONLY|unix.O_NOFOLLOW|unix.O_NONBLOCK, 0)
	if errors.Is(err, unix.ELOOP) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrSymlink}
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readRegular(f, name)
}
