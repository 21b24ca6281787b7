package fsys

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Afero is an FS backed by an afero.Fs, rooted at a directory of that filesystem.
//
// Symlinks need a backend implementing afero.Symlinker and afero.LinkReader
// (afero.OsFs does, afero.MemMapFs does not). Hard links, FIFOs and sockets are
// never supported.
type Afero struct {
	fs  afero.Fs
	dir string
}

var _ FS = (*Afero)(nil)

// NewAfero returns an FS rooted at dir inside afs. Symlink targets are
// passed through untouched; afero.BasePathFs would rewrite them.
func NewAfero(afs afero.Fs, dir string) *Afero {
	return &Afero{fs: afs, dir: dir}
}

func (a *Afero) real(name string) string {
	if name == "." || name == "" {
		return a.dir
	}
	return filepath.Join(a.dir, filepath.FromSlash(name))
}

func (a *Afero) Mkdir(name string, perm fs.FileMode) error {
	return wrap("mkdir", name, a.fs.Mkdir(a.real(name), perm))
}

func (a *Afero) WriteFile(name string, data []byte, perm fs.FileMode) error {
	f, err := a.fs.OpenFile(a.real(name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return wrap("create", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return wrap("write", name, err)
	}
	return wrap("close", name, f.Close())
}

func (a *Afero) Chmod(name string, mode fs.FileMode) error {
	return wrap("chmod", name, a.fs.Chmod(a.real(name), mode))
}

func (a *Afero) Symlink(target, name string) error {
	linker, ok := a.fs.(afero.Symlinker)
	if !ok {
		return wrap("symlink", name, ErrUnsupported)
	}
	return wrap("symlink", name, linker.SymlinkIfPossible(target, a.real(name)))
}

func (a *Afero) Link(_, newname string) error {
	return wrap("link", newname, ErrUnsupported)
}

func (a *Afero) Mkfifo(name string, _ fs.FileMode) error {
	return wrap("mkfifo", name, ErrUnsupported)
}

func (a *Afero) Mksocket(name string) error {
	return wrap("mksocket", name, ErrUnsupported)
}

func (a *Afero) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(a.real(name))
		return info, wrap("lstat", name, err)
	}
	info, err := a.fs.Stat(a.real(name))
	return info, wrap("lstat", name, err)
}

func (a *Afero) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(a.fs, a.real(name))
	if err != nil {
		return nil, wrap("readdir", name, err)
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

func (a *Afero) ReadFile(name string) ([]byte, error) {
	info, err := a.Lstat(name)
	if err != nil {
		return nil, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil, wrap("open", name, fs.ErrInvalid)
	}
	data, err := afero.ReadFile(a.fs, a.real(name))
	return data, wrap("read", name, err)
}

func (a *Afero) Readlink(name string) (string, error) {
	reader, ok := a.fs.(afero.LinkReader)
	if !ok {
		return "", wrap("readlink", name, ErrUnsupported)
	}
	target, err := reader.ReadlinkIfPossible(a.real(name))
	return target, wrap("readlink", name, err)
}
