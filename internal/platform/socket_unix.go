//go:build unix

package platform

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var socketSeq atomic.Uint64

// Mksocket leaves a unix datagram socket file at name inside root. The
// socket is bound under a short temporary name in the parent directory
// and renamed into place, since sun_path holds barely a hundred bytes.
func Mksocket(root *os.Root, name string) error {
	if _, err := root.Lstat(name); err == nil {
		return &fs.PathError{Op: "mksocket", Path: name, Err: fs.ErrExist}
	}
	dir := path.Dir(name)
	tmp := path.Join(dir, fmt.Sprintf(".sock-%d-%d", os.Getpid(), socketSeq.Add(1)))

	if err := bindAt(root, dir, path.Base(tmp)); err != nil {
		return &fs.PathError{Op: "mksocket", Path: name, Err: err}
	}
	if err := root.Rename(tmp, name); err != nil {
		_ = root.Remove(tmp) //nolint:errcheck // rename error takes precedence
		return &fs.PathError{Op: "mksocket", Path: name, Err: err}
	}
	return nil
}

// bindUnixgram creates the socket file at addr and closes the descriptor.
func bindUnixgram(addr string) error {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_DGRAM, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Bind(fd, &unix.SockaddrUnix{Name: addr})
}
