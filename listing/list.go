package listing

import (
	_ "crypto/sha256" // registers digest.SHA256
	_ "crypto/sha512" // registers digest.SHA384 and digest.SHA512
	"os"
	"path/filepath"

	"github.com/meigma/dirfixture/fsys"
	"github.com/meigma/dirfixture/internal/pathutil"
	"github.com/meigma/dirfixture/internal/platform"
)

// List walks the tree rooted at root and returns its canonical listing.
//
// The root itself is not part of the listing when it is a directory. A root
// that is a file or symlink yields a single entry with Path ".".
func List(root string, opts ...ListOption) (Listing, error) {
	info, err := os.Lstat(root)
	if err != nil {
		return nil, err
	}
	dir, name := root, "."
	if !info.IsDir() {
		dir, name = filepath.Dir(root), filepath.Base(root)
	}

	r, err := fsys.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if name != "." {
		cfg, err := newListConfig(opts)
		if err != nil {
			return nil, err
		}
		w := newWalker(r, cfg)
		e, err := w.describe(name, ".")
		if err != nil {
			return nil, err
		}
		return Listing{e}, nil
	}
	return ListFS(r, opts...)
}

// ListFS is List over a filesystem capability, rooted at its ".".
func ListFS(fsys fsys.FS, opts ...ListOption) (Listing, error) {
	cfg, err := newListConfig(opts)
	if err != nil {
		return nil, err
	}
	w := newWalker(fsys, cfg)

	info, err := fsys.Lstat(".")
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		e, err := w.describe(".", ".")
		if err != nil {
			return nil, err
		}
		return Listing{e}, nil
	}

	if err := w.walk("."); err != nil {
		return nil, err
	}
	w.out.Sort()
	w.linkHardLinks()
	cfg.logger.Debug("listed tree", "entries", len(w.out))
	return w.out, nil
}

type walker struct {
	fsys fsys.FS
	cfg  listConfig
	out  Listing
	ids  map[string][2]uint64
}

func newWalker(fsys fsys.FS, cfg listConfig) *walker {
	return &walker{fsys: fsys, cfg: cfg, ids: make(map[string][2]uint64)}
}

// walk appends every descendant of dir. Symlinked directories are leaves.
func (w *walker) walk(dir string) error {
	children, err := w.fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, child := range children {
		rel := pathutil.Join(dir, child.Name())
		e, err := w.describe(rel, rel)
		if err != nil {
			return err
		}
		w.out = append(w.out, e)
		if e.Kind == KindDir {
			if err := w.walk(rel); err != nil {
				return err
			}
		}
	}
	return nil
}

// describe builds the entry for name, recorded under path.
func (w *walker) describe(name, path string) (Entry, error) {
	info, err := w.fsys.Lstat(name)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		Path: path,
		Kind: KindOf(info.Mode()),
		Mode: info.Mode().Perm(),
	}
	switch e.Kind {
	case KindFile:
		content, err := w.fsys.ReadFile(name)
		if err != nil {
			return Entry{}, err
		}
		e.Content = content
		if id, ok := platform.FileID(info); ok {
			w.ids[path] = id
		}
	case KindSymlink:
		target, err := w.fsys.Readlink(name)
		if err != nil {
			return Entry{}, err
		}
		e.Target = target
	}
	return w.cfg.project(e), nil
}

// linkHardLinks marks every file sharing an inode with an earlier entry.
// It must run after sorting so the first path of each group is canonical.
func (w *walker) linkHardLinks() {
	if len(w.ids) == 0 {
		return
	}
	first := make(map[[2]uint64]string, len(w.ids))
	for i := range w.out {
		e := &w.out[i]
		id, ok := w.ids[e.Path]
		if !ok {
			continue
		}
		if p, seen := first[id]; seen {
			e.HardLinkOf = p
			continue
		}
		first[id] = e.Path
	}
}

// project applies the comparable subset selected by the options to e.
func (cfg listConfig) project(e Entry) Entry {
	if e.Kind == KindSymlink {
		e.Mode = 0
	} else {
		e.Mode &= cfg.permMask
	}
	if e.Kind != KindFile {
		e.Content, e.Size, e.Digest = nil, 0, ""
		return e
	}
	if e.Digest == "" {
		e.Size = int64(len(e.Content))
	}
	if cfg.digest != "" && e.Digest == "" {
		e.Digest = cfg.digest.FromBytes(e.Content)
		e.Content = nil
	}
	if len(e.Content) == 0 {
		e.Content = nil
	}
	return e
}

// Normalize projects an existing listing (for instance one derived from an
// in-memory tree) the same way List would, and sorts it.
func Normalize(l Listing, opts ...ListOption) (Listing, error) {
	cfg, err := newListConfig(opts)
	if err != nil {
		return nil, err
	}
	out := make(Listing, len(l))
	for i, e := range l {
		out[i] = cfg.project(e)
	}
	out.Sort()
	return out, nil
}
