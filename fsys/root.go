package fsys

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meigma/dirfixture/internal/platform"
)

// Root is an FS backed by os.Root. No operation can reach outside the directory.
type Root struct {
	root *os.Root
}

var _ FS = (*Root)(nil)

// OpenRoot opens dir as an FS. The caller must Close it.
func OpenRoot(dir string) (*Root, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	return &Root{root: root}, nil
}

// Name returns the directory the Root was opened on.
func (r *Root) Name() string {
	return r.root.Name()
}

// Close releases the underlying directory handle.
func (r *Root) Close() error {
	return r.root.Close()
}

func (r *Root) Mkdir(name string, perm fs.FileMode) error {
	return wrap("mkdir", name, r.root.Mkdir(native(name), perm))
}

func (r *Root) WriteFile(name string, data []byte, perm fs.FileMode) error {
	f, err := r.root.OpenFile(native(name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return wrap("create", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return wrap("write", name, err)
	}
	return wrap("close", name, f.Close())
}

func (r *Root) Chmod(name string, mode fs.FileMode) error {
	return wrap("chmod", name, r.root.Chmod(native(name), mode))
}

func (r *Root) Symlink(target, name string) error {
	return wrap("symlink", name, r.root.Symlink(target, native(name)))
}

func (r *Root) Link(oldname, newname string) error {
	return wrap("link", newname, r.root.Link(native(oldname), native(newname)))
}

func (r *Root) Mkfifo(name string, perm fs.FileMode) error {
	return wrap("mkfifo", name, platform.Mkfifo(r.root, name, perm))
}

func (r *Root) Mksocket(name string) error {
	return wrap("mksocket", name, platform.Mksocket(r.root, name))
}

func (r *Root) Lstat(name string) (fs.FileInfo, error) {
	info, err := r.root.Lstat(native(name))
	return info, wrap("lstat", name, err)
}

func (r *Root) ReadDir(name string) ([]fs.DirEntry, error) {
	f, err := r.root.Open(native(name))
	if err != nil {
		return nil, wrap("open", name, err)
	}
	defer f.Close()
	entries, err := f.ReadDir(-1)
	return entries, wrap("readdir", name, err)
}

func (r *Root) ReadFile(name string) ([]byte, error) {
	data, err := platform.ReadFileNoFollow(r.root, native(name))
	return data, wrap("read", name, err)
}

func (r *Root) Readlink(name string) (string, error) {
	target, err := r.root.Readlink(native(name))
	return target, wrap("readlink", name, err)
}

func native(name string) string {
	return filepath.FromSlash(name)
}

func wrap(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return pathErr(op, name, err)
}
