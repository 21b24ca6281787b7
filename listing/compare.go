package listing

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/meigma/dirfixture/internal/pathutil"
)

// ErrDigestUnavailable is returned when ListWithDigest names an algorithm
// that is not linked into the binary.
var ErrDigestUnavailable = errors.New("listing: digest algorithm unavailable")

// Listing is a canonically ordered sequence of entries.
type Listing []Entry

// Sort orders the listing component-wise by path.
func (l Listing) Sort() {
	slices.SortFunc(l, func(a, b Entry) int {
		return pathutil.Compare(a.Path, b.Path)
	})
}

// Paths returns the relative paths in listing order.
func (l Listing) Paths() []string {
	paths := make([]string, len(l))
	for i := range l {
		paths[i] = l[i].Path
	}
	return paths
}

// Find returns the entry recorded under path, or nil.
func (l Listing) Find(path string) *Entry {
	i, ok := slices.BinarySearchFunc(l, path, func(e Entry, p string) int {
		return pathutil.Compare(e.Path, p)
	})
	if !ok {
		return nil
	}
	return &l[i]
}

// Equal reports whether two listings describe the same tree.
func Equal(a, b Listing) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(&b[i]) {
			return false
		}
	}
	return true
}

// Mismatch describes the first difference between two listings.
type Mismatch struct {
	// Index is the position in the listings at which they diverge.
	Index int

	// Path is the first relative path that differs.
	Path string

	// Want and Got are the entries recorded under Path on each side; one of
	// them is nil when the path exists on only one side.
	Want *Entry
	Got  *Entry

	// Reason names the differing field, or "missing" / "unexpected".
	Reason string
}

// String renders the mismatch for test failure messages.
func (m *Mismatch) String() string {
	switch {
	case m.Got == nil:
		return fmt.Sprintf("%q: missing (want %s)", m.Path, m.Want)
	case m.Want == nil:
		return fmt.Sprintf("%q: unexpected (got %s)", m.Path, m.Got)
	default:
		return fmt.Sprintf("%q: %s differs (want %s, got %s)", m.Path, m.Reason, m.Want, m.Got)
	}
}

// Diff returns the first difference between want and got, or nil when they
// are equal. Both listings must be sorted, as List and Normalize return them.
func Diff(want, got Listing) *Mismatch {
	n := min(len(want), len(got))
	for i := range n {
		w, g := &want[i], &got[i]
		if w.Equal(g) {
			continue
		}
		switch c := pathutil.Compare(w.Path, g.Path); {
		case c < 0:
			return &Mismatch{Index: i, Path: w.Path, Want: w, Reason: "missing"}
		case c > 0:
			return &Mismatch{Index: i, Path: g.Path, Got: g, Reason: "unexpected"}
		}
		return &Mismatch{Index: i, Path: w.Path, Want: w, Got: g, Reason: fieldDiff(w, g)}
	}
	switch {
	case len(want) > n:
		return &Mismatch{Index: n, Path: want[n].Path, Want: &want[n], Reason: "missing"}
	case len(got) > n:
		return &Mismatch{Index: n, Path: got[n].Path, Got: &got[n], Reason: "unexpected"}
	}
	return nil
}

func fieldDiff(w, g *Entry) string {
	switch {
	case w.Kind != g.Kind:
		return "kind"
	case w.Mode != g.Mode:
		return "mode"
	case w.Size != g.Size, !bytes.Equal(w.Content, g.Content), w.Digest != g.Digest:
		return "content"
	case w.Target != g.Target:
		return "target"
	default:
		return "hardlink"
	}
}
