package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/meigma/dirfixture/fsys"
	"github.com/meigma/dirfixture/internal/pathutil"
)

// materializeConfig holds configuration for materialization.
type materializeConfig struct {
	logger *slog.Logger
}

// MaterializeOption configures Materialize and MaterializeFS.
type MaterializeOption func(*materializeConfig)

// MaterializeWithLogger sets the logger for materialization diagnostics.
func MaterializeWithLogger(logger *slog.Logger) MaterializeOption {
	return func(cfg *materializeConfig) {
		cfg.logger = logger
	}
}

// Materialize writes the tree rooted at root into dest.
//
// dest must either not exist (its parent must) or be an empty directory.
// Everything is created strictly below dest; dest's own permissions are set
// to root's mode last. On failure a partial tree may remain; removing it is
// up to the caller.
func Materialize(root *Entry, dest string, opts ...MaterializeOption) error {
	if root.Kind != KindDir {
		return fmt.Errorf("tree: materialize: %w: root is a %s", ErrNotDir, root.Kind)
	}
	if err := prepareDest(dest); err != nil {
		return fmt.Errorf("tree: materialize: %w", err)
	}

	r, err := fsys.OpenRoot(dest)
	if err != nil {
		return fmt.Errorf("tree: materialize: %w", err)
	}
	err = MaterializeFS(root, r, opts...)
	if closeErr := r.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if err := os.Chmod(dest, root.Mode); err != nil {
		return fmt.Errorf("tree: materialize: %w", err)
	}
	return nil
}

// prepareDest creates dest, or checks that it is an empty directory.
func prepareDest(dest string) error {
	info, err := os.Lstat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return os.Mkdir(dest, 0o700)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "materialize", Path: dest, Err: ErrNotDir}
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return &fs.PathError{Op: "materialize", Path: dest, Err: ErrNotEmpty}
	}
	return nil
}

// MaterializeFS writes the entries below root into the root of fsys, which
// must exist. The mode of fsys's root is left untouched.
//
// Entries are created in three passes: everything but hard links in
// pre-order with directories kept owner-writable, then hard links (their
// targets may sort later), then directory permissions in post-order so that
// tightening a directory never blocks creating its contents.
func MaterializeFS(root *Entry, fsys fsys.FS, opts ...MaterializeOption) error {
	if root.Kind != KindDir {
		return fmt.Errorf("tree: materialize: %w: root is a %s", ErrNotDir, root.Kind)
	}
	cfg := materializeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &materializer{fsys: fsys, logger: cfg.logger}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}

	if err := m.create(root, "."); err != nil {
		return fmt.Errorf("tree: materialize: %w", err)
	}
	for _, l := range m.links {
		if err := fsys.Link(l.target, l.path); err != nil {
			return fmt.Errorf("tree: materialize: %w", err)
		}
	}
	for _, d := range m.dirs {
		if err := fsys.Chmod(d.path, d.mode); err != nil {
			return fmt.Errorf("tree: materialize: %w", err)
		}
	}

	m.logger.Debug("materialized tree", "entries", m.count, "dirs", len(m.dirs), "links", len(m.links))
	return nil
}

type pendingLink struct {
	path   string
	target string
}

type pendingDir struct {
	path string
	mode fs.FileMode
}

// materializer holds state for a single materialization.
type materializer struct {
	fsys   fsys.FS
	logger *slog.Logger
	links  []pendingLink
	dirs   []pendingDir
	count  int
}

// create writes the children of dir. Subdirectories are recorded in m.dirs
// after their own contents, which yields post-order.
func (m *materializer) create(dir *Entry, dirPath string) error {
	for _, c := range dir.Sorted() {
		p := pathutil.Join(dirPath, c.Name)
		m.count++
		switch c.Kind {
		case KindDir:
			if err := m.fsys.Mkdir(p, 0o700); err != nil {
				return err
			}
			if err := m.create(c, p); err != nil {
				return err
			}
			m.dirs = append(m.dirs, pendingDir{path: p, mode: c.Mode})
		case KindFile:
			if err := m.fsys.WriteFile(p, c.Content, 0o600); err != nil {
				return err
			}
			if err := m.fsys.Chmod(p, c.Mode); err != nil {
				return err
			}
		case KindSymlink:
			if err := m.fsys.Symlink(c.Target, p); err != nil {
				return err
			}
		case KindHardLink:
			m.links = append(m.links, pendingLink{path: p, target: c.Target})
		case KindFifo:
			if err := m.fsys.Mkfifo(p, 0o600); err != nil {
				return err
			}
			if err := m.fsys.Chmod(p, c.Mode); err != nil {
				return err
			}
		case KindSocket:
			if err := m.fsys.Mksocket(p); err != nil {
				return err
			}
			if err := m.fsys.Chmod(p, c.Mode); err != nil {
				return err
			}
		default:
			return &fs.PathError{Op: "materialize", Path: p, Err: fmt.Errorf("unknown kind %s", c.Kind)}
		}
	}
	return nil
}
