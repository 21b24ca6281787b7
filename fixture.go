package dirfixture

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/dirfixture/arbitrary"
	"github.com/meigma/dirfixture/internal/fileops"
	"github.com/meigma/dirfixture/listing"
	"github.com/meigma/dirfixture/tree"
)

// New generates a tree from src and materializes it in a fresh directory
// that is removed when tb finishes. It returns the directory and the tree.
func New(tb testing.TB, src arbitrary.Source, opts ...tree.GenerateOption) (string, *tree.Entry) {
	tb.Helper()
	root, err := tree.Generate(src, opts...)
	require.NoError(tb, err, "generate fixture")
	return NewTree(tb, root), root
}

// NewTree materializes root, typically built by hand with the tree
// constructors, in a fresh directory that is removed when tb finishes.
func NewTree(tb testing.TB, root *tree.Entry) string {
	tb.Helper()
	dir := tempDir(tb)
	dest := filepath.Join(dir, "fixture")
	require.NoError(tb, tree.Materialize(root, dest), "materialize fixture")
	return dest
}

// AssertSameTree lists want and got and reports the first difference.
// It returns whether the trees are the same.
func AssertSameTree(tb testing.TB, want, got string, opts ...listing.ListOption) bool {
	tb.Helper()
	a, err := listing.List(want, opts...)
	if !assert.NoError(tb, err, "list %s", want) {
		return false
	}
	b, err := listing.List(got, opts...)
	if !assert.NoError(tb, err, "list %s", got) {
		return false
	}
	if m := listing.Diff(a, b); m != nil {
		return assert.Fail(tb, "directory trees differ", "%s\nwant tree: %s\ngot tree:  %s", m, want, got)
	}
	return true
}

// tempDir is tb.TempDir that also copes with restrictive directory modes.
func tempDir(tb testing.TB) string {
	tb.Helper()
	dir := tb.TempDir()
	tb.Cleanup(func() {
		if err := fileops.RemoveAll(dir); err != nil {
			tb.Errorf("remove fixture: %v", err)
		}
	})
	return dir
}
