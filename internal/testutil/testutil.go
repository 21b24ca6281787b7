// Package testutil provides helpers for building small directory trees by hand in tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/dirfixture/internal/fileops"
)

// TempDir is t.TempDir for fixtures that may contain restrictive
// directories, which the stock cleanup cannot remove.
func TempDir(tb testing.TB) string {
	tb.Helper()
	dir := tb.TempDir()
	tb.Cleanup(func() {
		if err := fileops.RemoveAll(dir); err != nil {
			tb.Errorf("remove %s: %v", dir, err)
		}
	})
	return dir
}

// WriteFiles writes files under dir, creating parent directories as needed.
// Keys are slash-separated relative paths.
func WriteFiles(tb testing.TB, dir string, files map[string][]byte) {
	tb.Helper()
	for path, content := range files {
		fullPath := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(tb, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(tb, os.WriteFile(fullPath, content, 0o644))
	}
}

// Mkdir creates dir/path with the given permissions, ignoring the umask.
func Mkdir(tb testing.TB, dir, path string, perm os.FileMode) {
	tb.Helper()
	fullPath := filepath.Join(dir, filepath.FromSlash(path))
	require.NoError(tb, os.Mkdir(fullPath, perm))
	require.NoError(tb, os.Chmod(fullPath, perm))
}

// WriteFile writes a single file with exact permissions, ignoring the umask.
func WriteFile(tb testing.TB, dir, path string, content []byte, perm os.FileMode) {
	tb.Helper()
	fullPath := filepath.Join(dir, filepath.FromSlash(path))
	require.NoError(tb, os.WriteFile(fullPath, content, perm))
	require.NoError(tb, os.Chmod(fullPath, perm))
}

// Symlink creates dir/path pointing at target, verbatim.
func Symlink(tb testing.TB, dir, path, target string) {
	tb.Helper()
	require.NoError(tb, os.Symlink(target, filepath.Join(dir, filepath.FromSlash(path))))
}

// RequireSymlinks skips the test where unprivileged symlinks are unavailable.
func RequireSymlinks(tb testing.TB) {
	tb.Helper()
	if runtime.GOOS == "windows" {
		tb.Skip("symlinks need privileges on windows")
	}
}

// RequireUnix skips the test on platforms without FIFOs and POSIX permissions.
func RequireUnix(tb testing.TB) {
	tb.Helper()
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" {
		tb.Skip("needs a unix filesystem")
	}
}

// Seeds returns n distinct seeds starting at base.
func Seeds(base uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = base + uint64(i) //nolint:gosec // i is non-negative
	}
	return seeds
}
