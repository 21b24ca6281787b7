package arbitrary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestUnstructured_IntRange(t *testing.T) {
	t.Parallel()

	u := FromBytes([]byte{7, 0x01, 0x00})

	v, err := u.IntRange(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v) // 7 % 4

	v, err = u.IntRange(5, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, 2, u.Len(), "single-value range consumes nothing")

	v, err = u.IntRange(0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 256, v)
	assert.Zero(t, u.Len())
}

func TestUnstructured_NegativeRange(t *testing.T) {
	t.Parallel()

	u := FromBytes([]byte{0, 1, 2})
	for _, want := range []int{-1, 0, 1} {
		v, err := u.IntRange(-1, 1)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestUnstructured_Exhausted(t *testing.T) {
	t.Parallel()

	u := FromBytes([]byte{1})
	_, err := u.Bool()
	require.NoError(t, err)

	_, err = u.Bool()
	require.ErrorIs(t, err, ErrExhausted)

	_, err = FromBytes([]byte{5, 'a'}).Bytes(10)
	require.ErrorIs(t, err, ErrExhausted, "length 5 with one byte left")
}

func TestUnstructured_Bytes(t *testing.T) {
	t.Parallel()

	u := FromBytes([]byte{2, 'h', 'i', 'x'})
	s, err := u.String(10)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	assert.Equal(t, 1, u.Len())
}

func TestUnstructured_MinimalConsumption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		lo, hi int
		used   int
	}{
		{name: "single value", lo: 9, hi: 9, used: 0},
		{name: "one byte span", lo: 0, hi: 255, used: 1},
		{name: "two byte span", lo: -1, hi: 255, used: 2},
		{name: "mode bits", lo: 0, hi: 0o777, used: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := FromBytes(make([]byte, 8))
			v, err := u.IntRange(tt.lo, tt.hi)
			require.NoError(t, err)
			assert.Equal(t, tt.lo, v)
			assert.Equal(t, 8-tt.used, u.Len())
		})
	}

	_, err := FromBytes(nil).IntRange(4, 4)
	require.NoError(t, err, "a single-value range needs no input")
}

func TestUnstructured_BytesBounded(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")
		maxLen := rapid.IntRange(-2, 40).Draw(rt, "maxLen")

		u := FromBytes(data)
		b, err := u.Bytes(maxLen)
		if errors.Is(err, ErrExhausted) {
			if u.Len() != 0 {
				rt.Fatalf("exhausted with %d bytes left", u.Len())
			}
			return
		}
		require.NoError(rt, err)
		if len(b) > max(maxLen, 0) {
			rt.Fatalf("got %d bytes, max %d", len(b), maxLen)
		}
	})
}

func TestInvalidRange(t *testing.T) {
	t.Parallel()

	for _, src := range []Source{FromBytes([]byte{1, 2, 3}), NewRand(1)} {
		_, err := src.IntRange(3, 2)
		require.ErrorIs(t, err, ErrInvalidRange)
	}
}

func TestRand_Deterministic(t *testing.T) {
	t.Parallel()

	draw := func(src Source) []int {
		out := make([]int, 0, 32)
		for range 32 {
			v, err := src.IntRange(-50, 50)
			require.NoError(t, err)
			out = append(out, v)
		}
		b, err := src.Bytes(16)
		require.NoError(t, err)
		return append(out, len(b))
	}

	a, b := NewRand(42), NewRand(42)
	assert.Equal(t, draw(a), draw(b))
	assert.Equal(t, uint64(42), a.Seed())
	assert.NotEqual(t, draw(NewRand(42)), draw(NewRand(43)))
}

func TestRand_Bounds(t *testing.T) {
	t.Parallel()

	r := NewRand(7)
	for range 1000 {
		v, err := r.IntRange(3, 9)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 9)

		b, err := r.Bytes(4)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(b), 4)
	}
}

func TestFromRapid_Bounds(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		src := FromRapid(rt)
		v, err := src.IntRange(-3, 3)
		require.NoError(rt, err)
		if v < -3 || v > 3 {
			rt.Fatalf("draw %d out of range", v)
		}
		s, err := src.String(5)
		require.NoError(rt, err)
		if len(s) > 5 {
			rt.Fatalf("string %q longer than 5", s)
		}
	})
}
