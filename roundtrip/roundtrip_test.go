package roundtrip

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/meigma/dirfixture/arbitrary"
	"github.com/meigma/dirfixture/internal/testutil"
	"github.com/meigma/dirfixture/listing"
	"github.com/meigma/dirfixture/roundtrip/tarzst"
	"github.com/meigma/dirfixture/tree"
)

func exampleTree() *tree.Entry {
	return tree.Dir(".", 0o755,
		tree.Dir("a", 0o750,
			tree.File("b", 0o640, []byte("hello")),
			tree.Symlink("up", "../c"),
		),
		tree.File("c", 0o600, nil),
	)
}

// after wraps a working codec and then damages its output with fn.
func after(fn func(dst string, l listing.Listing) error) Codec {
	return func(ctx context.Context, src, dst string) error {
		if err := tarzst.RoundTrip(ctx, src, dst); err != nil {
			return err
		}
		l, err := listing.List(dst)
		if err != nil {
			return err
		}
		return fn(dst, l)
	}
}

var dropSymlinks = after(func(dst string, l listing.Listing) error {
	for _, e := range l {
		if e.Kind == listing.KindSymlink {
			if err := os.Remove(filepath.Join(dst, filepath.FromSlash(e.Path))); err != nil {
				return err
			}
		}
	}
	return nil
})

var resetFileModes = after(func(dst string, l listing.Listing) error {
	for _, e := range l {
		if e.Kind == listing.KindFile {
			if err := os.Chmod(filepath.Join(dst, filepath.FromSlash(e.Path)), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
})

func TestRunTree_FaithfulCodec(t *testing.T) {
	t.Parallel()
	testutil.RequireUnix(t)

	work := testutil.TempDir(t)
	res, err := RunTree(context.Background(), exampleTree(), tarzst.RoundTrip, work)
	require.NoError(t, err)
	assert.Nil(t, res.Mismatch)
	assert.Equal(t, []string{"a", "a/b", "a/up", "c"}, res.Want.Paths())
	assert.Equal(t, res.Want, res.Got)

	_, err = os.Lstat(res.Dir)
	assert.ErrorIs(t, err, fs.ErrNotExist, "successful runs are cleaned up")
}

func TestRunTree_Keep(t *testing.T) {
	t.Parallel()
	testutil.RequireUnix(t)

	res, err := RunTree(context.Background(), exampleTree(), tarzst.RoundTrip, testutil.TempDir(t), WithKeep(true))
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(res.Dir, "src"))
	assert.DirExists(t, filepath.Join(res.Dir, "dst"))
}

func TestRunTree_DroppedSymlink(t *testing.T) {
	t.Parallel()
	testutil.RequireUnix(t)

	res, err := RunTree(context.Background(), exampleTree(), dropSymlinks, testutil.TempDir(t))
	require.NoError(t, err)
	require.NotNil(t, res.Mismatch)
	assert.Equal(t, "a/up", res.Mismatch.Path)
	assert.Equal(t, "missing", res.Mismatch.Reason)
	assert.DirExists(t, res.Dir, "failed runs are kept")
}

func TestRunTree_ChangedPermissions(t *testing.T) {
	t.Parallel()
	testutil.RequireUnix(t)

	res, err := RunTree(context.Background(), exampleTree(), resetFileModes, testutil.TempDir(t))
	require.NoError(t, err)
	require.NotNil(t, res.Mismatch)
	assert.Equal(t, "a/b", res.Mismatch.Path)
	assert.Equal(t, "mode", res.Mismatch.Reason)

	// Masking permissions out accepts the same codec.
	res, err = RunTree(context.Background(), exampleTree(), resetFileModes, testutil.TempDir(t),
		WithListOptions(listing.ListWithPermMask(0)))
	require.NoError(t, err)
	assert.Nil(t, res.Mismatch)
}

func TestRunTree_CodecError(t *testing.T) {
	t.Parallel()
	testutil.RequireSymlinks(t)

	boom := errors.New("boom")
	codec := func(context.Context, string, string) error { return boom }

	res, err := RunTree(context.Background(), exampleTree(), codec, testutil.TempDir(t))
	require.ErrorIs(t, err, boom)
	require.NotNil(t, res)
	assert.DirExists(t, filepath.Join(res.Dir, "src"))
}

func TestRunTree_MissingOutput(t *testing.T) {
	t.Parallel()
	testutil.RequireSymlinks(t)

	codec := func(context.Context, string, string) error { return nil }
	_, err := RunTree(context.Background(), exampleTree(), codec, testutil.TempDir(t))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRun_GenerationExhausted(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), arbitrary.FromBytes(nil), tarzst.RoundTrip, t.TempDir())
	require.ErrorIs(t, err, arbitrary.ErrExhausted)
}

func TestRun_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, arbitrary.NewRand(1), tarzst.RoundTrip, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

// fakeTB records the first failure instead of stopping the test.
type fakeTB struct {
	failed string
}

func (*fakeTB) Helper() {}

func (f *fakeTB) Fatalf(format string, args ...any) {
	if f.failed == "" {
		f.failed = fmt.Sprintf(format, args...)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	testutil.RequireUnix(t)

	ok := &fakeTB{}
	res := Check(ok, testutil.TempDir(t), arbitrary.NewRand(3), tarzst.RoundTrip)
	assert.Empty(t, ok.failed)
	require.NotNil(t, res)

	onlySymlinks := tree.GenerateWithKinds(tree.KindSymlink)
	seed := uint64(0)
	for ; ; seed++ {
		root, err := tree.Generate(arbitrary.NewRand(seed), onlySymlinks)
		require.NoError(t, err)
		if len(root.Children) > 0 {
			break
		}
	}

	lossy := &fakeTB{}
	Check(lossy, testutil.TempDir(t), arbitrary.NewRand(seed), dropSymlinks, WithGenerateOptions(onlySymlinks))
	assert.Contains(t, lossy.failed, "missing")
}

func TestRunSeeds(t *testing.T) {
	t.Parallel()
	testutil.RequireUnix(t)

	seeds := testutil.Seeds(0, 40)
	err := RunSeeds(context.Background(), testutil.TempDir(t), seeds, tarzst.RoundTrip,
		WithConcurrency(4),
		WithGenerateOptions(tree.GenerateWithKinds(tree.KindFile, tree.KindDir, tree.KindSymlink, tree.KindHardLink, tree.KindFifo)),
	)
	require.NoError(t, err)
}

func TestRunSeeds_ReportsFailingSeed(t *testing.T) {
	t.Parallel()
	testutil.RequireUnix(t)

	seeds := testutil.Seeds(100, 8)
	err := RunSeeds(context.Background(), testutil.TempDir(t), seeds, dropSymlinks,
		WithGenerateOptions(tree.GenerateWithKinds(tree.KindSymlink)),
	)
	var serr *SeedError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, seeds, serr.Seed)
	require.NotNil(t, serr.Mismatch)
	assert.Equal(t, "missing", serr.Mismatch.Reason)

	// The reported seed reproduces the failure on its own.
	res, err := Run(context.Background(), arbitrary.NewRand(serr.Seed), dropSymlinks, testutil.TempDir(t),
		WithGenerateOptions(tree.GenerateWithKinds(tree.KindSymlink)))
	require.NoError(t, err)
	assert.Equal(t, serr.Mismatch.Path, res.Mismatch.Path)
}

func TestRunSeeds_CodecError(t *testing.T) {
	t.Parallel()
	testutil.RequireSymlinks(t)

	boom := errors.New("boom")
	codec := func(context.Context, string, string) error { return boom }
	err := RunSeeds(context.Background(), testutil.TempDir(t), []uint64{7}, codec)

	var serr *SeedError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, uint64(7), serr.Seed)
	assert.ErrorIs(t, err, boom)
}

func TestCheck_RapidProperty(t *testing.T) {
	t.Parallel()
	testutil.RequireUnix(t)

	work := testutil.TempDir(t)
	rapid.Check(t, func(rt *rapid.T) {
		Check(rt, work, arbitrary.FromRapid(rt), tarzst.RoundTrip,
			WithGenerateOptions(tree.GenerateWithMaxFanout(5)))
	})
}
