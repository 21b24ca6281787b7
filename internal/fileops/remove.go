// Package fileops holds small I/O and host filesystem helpers shared by
// fixtures, codecs and tests.
package fileops

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// RemoveAll removes dir and everything below it, first granting the owner
// full access to every directory so that restrictive fixture modes do not
// get in the way. Symlinks are never followed. A missing dir is not an error.
func RemoveAll(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode().Perm()&0o700 == 0o700 {
			return nil
		}
		return os.Chmod(path, info.Mode().Perm()|0o700)
	})
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
