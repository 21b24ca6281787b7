// Package fsys defines the filesystem capability fixtures are written to and
// listed from.
//
// All names are slash-separated and relative to the capability's root; the
// root itself is ".". Failures are reported as *fs.PathError carrying the
// relative name.
package fsys

import (
	"errors"
	"io/fs"
)

// ErrUnsupported is returned by backends that cannot perform an operation,
// e.g. symlinks on an in-memory afero filesystem.
var ErrUnsupported = errors.ErrUnsupported

// FS is a rooted filesystem that fixtures can be materialized into and listed from.
type FS interface {
	// Mkdir creates a single directory.
	Mkdir(name string, perm fs.FileMode) error

	// WriteFile creates name (which must not exist) with the given content.
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Chmod sets the permission bits of name. Never called on symlinks.
	Chmod(name string, mode fs.FileMode) error

	// Symlink creates name as a symbolic link whose target is stored verbatim.
	Symlink(target, name string) error

	// Link creates newname as a hard link to oldname.
	Link(oldname, newname string) error

	// Mkfifo creates a named pipe.
	Mkfifo(name string, perm fs.FileMode) error

	// Mksocket creates a bound unix-domain socket with no listener behind it.
	// Permissions are left to a following Chmod.
	Mksocket(name string) error

	// Lstat describes name without following a final symlink.
	Lstat(name string) (fs.FileInfo, error)

	// ReadDir lists a single directory level.
	ReadDir(name string) ([]fs.DirEntry, error)

	// ReadFile reads a regular file. It fails rather than follow a symlink.
	ReadFile(name string) ([]byte, error)

	// Readlink returns the literal target of a symlink.
	Readlink(name string) (string, error)
}

func pathErr(op, name string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		pe.Path = name
		return err
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}
