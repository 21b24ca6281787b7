//go:build !unix

package platform

import (
	"io/fs"
	"os"
)

// ReadFileNoFollow reads the regular file name inside root. A final
// symlink yields ErrSymlink. The check and the open are not atomic here.
func ReadFileNoFollow(root *os.Root, name string) ([]byte, error) {
	info, err := root.Lstat(name)
	if err != nil {
		return nil, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrSymlink}
	}
	if !info.Mode().IsRegular() {
		return nil, &fs.PathError{Op: "open", Path: name, Err: ErrNotRegular}
	}
	f, err := root.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readRegular(f, name)
}
