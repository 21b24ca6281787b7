package arbitrary

import "math/rand/v2" //nolint:gosec // fixtures need reproducible streams, not secrecy

// Rand is an endless seeded source. Two Rand values with the same seed
// produce the same draws.
type Rand struct {
	seed uint64
	rng  *rand.Rand
}

// NewRand returns a source seeded with seed.
func NewRand(seed uint64) *Rand {
	return &Rand{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // see import
	}
}

// Seed returns the seed the source was created with.
func (r *Rand) Seed() uint64 {
	return r.seed
}

// Bool draws a fair coin.
func (r *Rand) Bool() (bool, error) {
	return r.rng.Uint64()&1 == 1, nil
}

// IntRange draws uniformly from [lo, hi].
func (r *Rand) IntRange(lo, hi int) (int, error) {
	if err := checkRange(lo, hi); err != nil {
		return 0, err
	}
	span := uint64(hi) - uint64(lo)
	if span == ^uint64(0) {
		return int(r.rng.Uint64()), nil //nolint:gosec // full range
	}
	return int(uint64(lo) + r.rng.Uint64N(span+1)), nil //nolint:gosec // result is within [lo, hi]
}

// Bytes draws a uniform length and fills it with random bytes.
func (r *Rand) Bytes(maxLen int) ([]byte, error) {
	n := r.rng.IntN(clampLen(maxLen) + 1)
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(r.rng.Uint32())
	}
	return out, nil
}

// String is Bytes converted to a string.
func (r *Rand) String(maxLen int) (string, error) {
	b, _ := r.Bytes(maxLen)
	return string(b), nil
}
