package platform

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

var (
	// ErrSymlink is returned when a path expected to name a regular file is a symbolic link.
	ErrSymlink = errors.New("platform: unexpected symbolic link")

	// ErrNotRegular is returned when a path expected to name a regular file names something else.
	ErrNotRegular = errors.New("platform: not a regular file")
)

// readRegular reads f to the end after checking, on the open handle, that
// it is a regular file.
func readRegular(f *os.File, name string) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: ErrNotRegular}
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return data, nil
}
