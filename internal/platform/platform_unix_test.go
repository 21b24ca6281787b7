//go:build unix

package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRoot(t *testing.T) (*os.Root, string) {
	t.Helper()
	dir := t.TempDir()
	root, err := os.OpenRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return root, dir
}

func TestReadFileNoFollow(t *testing.T) {
	t.Parallel()

	root, dir := openRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), []byte("content"), 0o600))
	require.NoError(t, os.Symlink("file", filepath.Join(dir, "link")))
	require.NoError(t, Mkfifo(root, "pipe", 0o600))
	require.NoError(t, Mksocket(root, "sock"))

	data, err := ReadFileNoFollow(root, "file")
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)

	_, err = ReadFileNoFollow(root, "link")
	require.ErrorIs(t, err, ErrSymlink)

	// Opening a pipe for reading must not wait for a writer.
	_, err = ReadFileNoFollow(root, "pipe")
	require.ErrorIs(t, err, ErrNotRegular)

	_, err = ReadFileNoFollow(root, "sock")
	require.Error(t, err)

	_, err = ReadFileNoFollow(root, "missing")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileID_HardLinksShareIdentity(t *testing.T) {
	t.Parallel()

	_, dir := openRoot(t)
	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o600))
	require.NoError(t, os.Link(a, filepath.Join(dir, "b")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c"), []byte("x"), 0o600))

	stat := func(name string) [2]uint64 {
		info, err := os.Lstat(filepath.Join(dir, name))
		require.NoError(t, err)
		id, ok := FileID(info)
		require.True(t, ok)
		return id
	}
	assert.Equal(t, stat("a"), stat("b"))
	assert.NotEqual(t, stat("a"), stat("c"))
}

func TestMkfifo(t *testing.T) {
	t.Parallel()

	root, dir := openRoot(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))

	require.NoError(t, Mkfifo(root, "sub/pipe", 0o640))

	info, err := os.Lstat(filepath.Join(dir, "sub", "pipe"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeNamedPipe)

	err = Mkfifo(root, "sub/pipe", 0o640)
	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "sub/pipe", pathErr.Path)
}

func TestMksocket(t *testing.T) {
	t.Parallel()

	root, dir := openRoot(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))

	require.NoError(t, Mksocket(root, "sub/sock"))

	info, err := os.Lstat(filepath.Join(dir, "sub", "sock"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSocket)

	entries, err := os.ReadDir(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary socket name is gone")

	err = Mksocket(root, "sub/sock")
	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "sub/sock", pathErr.Path)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestMksocket_LongName(t *testing.T) {
	t.Parallel()
	if runtime.GOOS != "linux" {
		t.Skip("only linux binds through a descriptor path")
	}

	root, _ := openRoot(t)
	name := strings.Repeat("s", 200)
	require.NoError(t, Mksocket(root, name))

	info, err := root.Lstat(name)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSocket)
}
