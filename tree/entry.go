package tree

import (
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"

	"github.com/meigma/dirfixture/internal/pathutil"
	"github.com/meigma/dirfixture/listing"
)

// Kind is the type of a tree entry.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindDir
	KindSymlink
	// KindHardLink is a second name for a regular file elsewhere in the tree.
	KindHardLink
	// KindFifo is a named pipe.
	KindFifo
	// KindSocket is a bound unix-domain socket file. It is never generated
	// unless asked for.
	KindSocket
)

// String returns a short lower-case name for the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	case KindHardLink:
		return "hardlink"
	case KindFifo:
		return "fifo"
	case KindSocket:
		return "socket"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// SymlinkMode is the mode recorded for symlinks, whose own permissions
// cannot be set portably.
const SymlinkMode fs.FileMode = 0o777

// Entry is one node of an in-memory tree. A tree is not modified after it
// has been built.
type Entry struct {
	Name string
	Kind Kind

	// Mode holds permission bits only.
	Mode fs.FileMode

	// Content is set for regular files.
	Content []byte

	// Target is the literal target of a symlink, or the root-relative path
	// of the regular file a hard link points at.
	Target string

	// Children is set for directories and keyed by child name.
	Children map[string]*Entry
}

// Dir returns a directory entry holding children.
// It panics if two children share a name.
func Dir(name string, mode fs.FileMode, children ...*Entry) *Entry {
	e := &Entry{Name: name, Kind: KindDir, Mode: mode.Perm(), Children: make(map[string]*Entry, len(children))}
	for _, c := range children {
		if _, dup := e.Children[c.Name]; dup {
			panic("tree: duplicate child name " + c.Name)
		}
		e.Children[c.Name] = c
	}
	return e
}

// File returns a regular file entry.
func File(name string, mode fs.FileMode, content []byte) *Entry {
	return &Entry{Name: name, Kind: KindFile, Mode: mode.Perm(), Content: content}
}

// Symlink returns a symlink entry pointing at target verbatim.
func Symlink(name, target string) *Entry {
	return &Entry{Name: name, Kind: KindSymlink, Mode: SymlinkMode, Target: target}
}

// HardLink returns a hard link to the regular file at the root-relative path target.
func HardLink(name, target string) *Entry {
	return &Entry{Name: name, Kind: KindHardLink, Target: target}
}

// Fifo returns a named pipe entry.
func Fifo(name string, mode fs.FileMode) *Entry {
	return &Entry{Name: name, Kind: KindFifo, Mode: mode.Perm()}
}

// Socket returns a unix-domain socket entry.
func Socket(name string, mode fs.FileMode) *Entry {
	return &Entry{Name: name, Kind: KindSocket, Mode: mode.Perm()}
}

// Sorted returns the children of a directory ordered by name.
func (e *Entry) Sorted() []*Entry {
	names := slices.Sorted(maps.Keys(e.Children))
	out := make([]*Entry, len(names))
	for i, n := range names {
		out[i] = e.Children[n]
	}
	return out
}

// Walk calls fn for every entry below e in pre-order, children by name.
// path is relative to e. e itself is not visited.
func (e *Entry) Walk(fn func(path string, entry *Entry) error) error {
	return e.walk(".", fn)
}

func (e *Entry) walk(dir string, fn func(string, *Entry) error) error {
	for _, c := range e.Sorted() {
		p := pathutil.Join(dir, c.Name)
		if err := fn(p, c); err != nil {
			return err
		}
		if c.Kind == KindDir {
			if err := c.walk(p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Depth returns the number of directory levels below e.
// A directory without subdirectories has depth 0.
func (e *Entry) Depth() int {
	depth := 0
	for _, c := range e.Children {
		if c.Kind == KindDir {
			depth = max(depth, 1+c.Depth())
		}
	}
	return depth
}

// MaxFanout returns the largest number of children of any directory in the tree.
func (e *Entry) MaxFanout() int {
	fanout := len(e.Children)
	for _, c := range e.Children {
		if c.Kind == KindDir {
			fanout = max(fanout, c.MaxFanout())
		}
	}
	return fanout
}

// Count returns the number of entries below e.
func (e *Entry) Count() int {
	n := 0
	_ = e.Walk(func(string, *Entry) error { //nolint:errcheck // callback never fails
		n++
		return nil
	})
	return n
}

// Find returns the entry at the relative path p, or nil.
func (e *Entry) Find(p string) *Entry {
	cur := e
	for _, part := range strings.Split(p, "/") {
		if part == "." {
			continue
		}
		if cur.Kind != KindDir {
			return nil
		}
		next, ok := cur.Children[part]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Validate checks that e is a well-formed tree root: a directory whose
// entries have legal, unique names, consistent fields for their kind, and
// hard links that point at regular files of the same tree.
func (e *Entry) Validate() error {
	if e.Kind != KindDir {
		return fmt.Errorf("%w: root is a %s", ErrInvalidTree, e.Kind)
	}
	return e.Walk(func(p string, c *Entry) error {
		if !pathutil.ValidName(c.Name) || pathutil.Base(p) != c.Name {
			return fmt.Errorf("%w: %q: illegal name", ErrInvalidTree, p)
		}
		if c.Kind != KindDir && c.Children != nil {
			return fmt.Errorf("%w: %q: %s with children", ErrInvalidTree, p, c.Kind)
		}
		if c.Kind != KindFile && len(c.Content) > 0 {
			return fmt.Errorf("%w: %q: %s with content", ErrInvalidTree, p, c.Kind)
		}
		switch c.Kind {
		case KindFile, KindDir, KindFifo, KindSocket:
			if c.Target != "" {
				return fmt.Errorf("%w: %q: %s with target", ErrInvalidTree, p, c.Kind)
			}
		case KindSymlink:
			if !pathutil.ValidTarget(c.Target) {
				return fmt.Errorf("%w: %q: bad symlink target %q", ErrInvalidTree, p, c.Target)
			}
		case KindHardLink:
			if t := e.Find(c.Target); t == nil || t.Kind != KindFile {
				return fmt.Errorf("%w: %q: hard link target %q is not a regular file", ErrInvalidTree, p, c.Target)
			}
		default:
			return fmt.Errorf("%w: %q: unknown kind %s", ErrInvalidTree, p, c.Kind)
		}
		return nil
	})
}

// Listing returns the listing that List should produce for a faithful
// materialization of e, projected through opts.
func (e *Entry) Listing(opts ...listing.ListOption) (listing.Listing, error) {
	var out listing.Listing
	groups := make(map[string][]int) // hard link target -> indexes into out
	err := e.Walk(func(p string, c *Entry) error {
		le := listing.Entry{Path: p, Mode: c.Mode}
		switch c.Kind {
		case KindFile:
			le.Kind = listing.KindFile
			le.Content = c.Content
			groups[p] = append(groups[p], len(out))
		case KindDir:
			le.Kind = listing.KindDir
		case KindSymlink:
			le.Kind = listing.KindSymlink
			le.Target = c.Target
		case KindFifo:
			le.Kind = listing.KindFifo
		case KindSocket:
			le.Kind = listing.KindSocket
		case KindHardLink:
			t := e.Find(c.Target)
			if t == nil || t.Kind != KindFile {
				return fmt.Errorf("%w: %q: dangling hard link", ErrInvalidTree, p)
			}
			le.Kind = listing.KindFile
			le.Mode = t.Mode
			le.Content = t.Content
			groups[c.Target] = append(groups[c.Target], len(out))
		}
		out = append(out, le)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, idx := range groups {
		if len(idx) < 2 {
			continue
		}
		first := out[idx[0]].Path
		for _, i := range idx[1:] {
			if pathutil.Compare(out[i].Path, first) < 0 {
				first = out[i].Path
			}
		}
		for _, i := range idx {
			if out[i].Path != first {
				out[i].HardLinkOf = first
			}
		}
	}
	return listing.Normalize(out, opts...)
}
