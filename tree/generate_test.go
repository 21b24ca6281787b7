package tree

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/meigma/dirfixture/arbitrary"
	"github.com/meigma/dirfixture/internal/pathutil"
)

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	for seed := range uint64(20) {
		a, err := Generate(arbitrary.NewRand(seed))
		require.NoError(t, err)
		b, err := Generate(arbitrary.NewRand(seed))
		require.NoError(t, err)
		assert.Equal(t, a, b, "seed %d", seed)
	}
}

func TestGenerate_SameBytesSameTree(t *testing.T) {
	t.Parallel()

	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i*31 + 7)
	}
	a, errA := Generate(arbitrary.FromBytes(data))
	b, errB := Generate(arbitrary.FromBytes(data))
	assert.Equal(t, errA, errB)
	assert.Equal(t, a, b)
}

func TestGenerate_Exhausted(t *testing.T) {
	t.Parallel()

	_, err := Generate(arbitrary.FromBytes(nil))
	require.ErrorIs(t, err, arbitrary.ErrExhausted)

	_, err = Generate(arbitrary.FromBytes([]byte{0xff, 0xff, 5}))
	require.ErrorIs(t, err, arbitrary.ErrExhausted, "fan-out of 5 with no data left")
}

func TestGenerate_EmptyRoot(t *testing.T) {
	t.Parallel()

	// Two bytes for the root mode, one for a fan-out of zero.
	root, err := Generate(arbitrary.FromBytes([]byte{0, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, KindDir, root.Kind)
	assert.Empty(t, root.Children)
	assert.Equal(t, fs.FileMode(0o700), root.Mode)
}

func TestGenerate_NoKinds(t *testing.T) {
	t.Parallel()

	_, err := Generate(arbitrary.NewRand(1), GenerateWithKinds())
	require.ErrorIs(t, err, ErrNoKinds)
}

func TestGenerate_RespectsKinds(t *testing.T) {
	t.Parallel()

	for seed := range uint64(30) {
		root, err := Generate(arbitrary.NewRand(seed), GenerateWithKinds(KindFile))
		require.NoError(t, err)
		require.NoError(t, root.Walk(func(p string, e *Entry) error {
			assert.Equal(t, KindFile, e.Kind, p)
			return nil
		}))
	}
}

func TestGenerate_ZeroDepthHasNoSubdirectories(t *testing.T) {
	t.Parallel()

	for seed := range uint64(30) {
		root, err := Generate(arbitrary.NewRand(seed), GenerateWithMaxDepth(0))
		require.NoError(t, err)
		assert.Zero(t, root.Depth())
	}
}

func TestGenerate_OptionalKinds(t *testing.T) {
	t.Parallel()

	seen := map[Kind]int{}
	for seed := range uint64(50) {
		root, err := Generate(arbitrary.NewRand(seed),
			GenerateWithKinds(KindFile, KindDir, KindSymlink, KindHardLink, KindFifo))
		require.NoError(t, err)
		require.NoError(t, root.Validate())
		require.NoError(t, root.Walk(func(_ string, e *Entry) error {
			seen[e.Kind]++
			return nil
		}))
	}
	for _, k := range []Kind{KindFile, KindDir, KindSymlink, KindHardLink, KindFifo} {
		assert.Positive(t, seen[k], "no %s generated in 50 trees", k)
	}
}

func TestGenerate_SocketsOnlyWhenAsked(t *testing.T) {
	t.Parallel()

	sockets := 0
	for seed := range uint64(50) {
		root, err := Generate(arbitrary.NewRand(seed))
		require.NoError(t, err)
		require.NoError(t, root.Walk(func(p string, e *Entry) error {
			assert.NotEqual(t, KindSocket, e.Kind, "default kinds produced a socket at %s", p)
			return nil
		}))

		root, err = Generate(arbitrary.NewRand(seed), GenerateWithKinds(KindFile, KindDir, KindSocket))
		require.NoError(t, err)
		require.NoError(t, root.Validate())
		require.NoError(t, root.Walk(func(p string, e *Entry) error {
			if e.Kind == KindSocket {
				sockets++
				assert.Equal(t, fs.FileMode(0o600), e.Mode&0o600, "socket %s not owner read/write", p)
			}
			return nil
		}))
	}
	assert.Positive(t, sockets)
}

func TestGenerate_PrintableNames(t *testing.T) {
	t.Parallel()

	root, err := Generate(arbitrary.NewRand(3), GenerateWithPrintableNames(true))
	require.NoError(t, err)
	require.NoError(t, root.Walk(func(_ string, e *Entry) error {
		for _, c := range []byte(e.Name) {
			assert.True(t, c >= 'a' && c <= 'z', "name %q", e.Name)
		}
		return nil
	}))
}

// TestGenerate_Properties checks the structural guarantees for arbitrary
// configurations and draws.
func TestGenerate_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		maxDepth := rapid.IntRange(0, 4).Draw(rt, "maxDepth")
		maxFanout := rapid.IntRange(0, 6).Draw(rt, "maxFanout")
		maxContent := rapid.IntRange(0, 32).Draw(rt, "maxContent")
		maxName := rapid.IntRange(1, 12).Draw(rt, "maxName")

		root, err := Generate(arbitrary.FromRapid(rt),
			GenerateWithMaxDepth(maxDepth),
			GenerateWithMaxFanout(maxFanout),
			GenerateWithMaxContentLen(maxContent),
			GenerateWithMaxNameLen(maxName),
			GenerateWithKinds(KindFile, KindDir, KindSymlink, KindHardLink, KindFifo),
		)
		require.NoError(rt, err)
		require.NoError(rt, root.Validate())

		if root.Depth() > maxDepth {
			rt.Fatalf("depth %d exceeds %d", root.Depth(), maxDepth)
		}
		if root.MaxFanout() > maxFanout {
			rt.Fatalf("fan-out %d exceeds %d", root.MaxFanout(), maxFanout)
		}
		if root.Mode&0o700 != 0o700 {
			rt.Fatalf("root mode %o not owner-accessible", root.Mode)
		}

		err = root.Walk(func(p string, e *Entry) error {
			if len(e.Name) > maxName || !pathutil.ValidName(e.Name) {
				return errors.New("bad name at " + p)
			}
			switch e.Kind {
			case KindDir:
				if e.Mode&0o700 != 0o700 {
					return errors.New("directory not traversable at " + p)
				}
			case KindFile, KindFifo:
				if e.Mode&0o600 != 0o600 {
					return errors.New("file not owner read/write at " + p)
				}
				if len(e.Content) > maxContent {
					return errors.New("content too long at " + p)
				}
			}
			return nil
		})
		require.NoError(rt, err)
	})
}

func FuzzGenerate(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 0, 3, 1, 'a', 0, 0, 0, 0})
	f.Add([]byte("a reasonably long seed input for the tree generator"))

	f.Fuzz(func(t *testing.T, data []byte) {
		root, err := Generate(arbitrary.FromBytes(data), GenerateWithMaxFanout(4))
		if errors.Is(err, arbitrary.ErrExhausted) {
			t.Skip("input too short")
		}
		require.NoError(t, err)
		require.NoError(t, root.Validate())
		assert.LessOrEqual(t, root.Depth(), DefaultMaxDepth)
		assert.LessOrEqual(t, root.MaxFanout(), 4)
	})
}

// FuzzGenerateRapid feeds fuzzer input through rapid's own bitstream, so
// the fuzzer and the property tests share one draw encoding.
func FuzzGenerateRapid(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("eight by"))

	f.Fuzz(rapid.MakeFuzz(func(rt *rapid.T) {
		root, err := Generate(arbitrary.FromRapid(rt),
			GenerateWithMaxFanout(4),
			GenerateWithKinds(KindFile, KindDir, KindSymlink, KindHardLink, KindFifo, KindSocket),
		)
		require.NoError(rt, err)
		require.NoError(rt, root.Validate())
	}))
}
