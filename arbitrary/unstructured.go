package arbitrary

// Unstructured interprets a fixed byte slice as a stream of draws.
// It is meant for fuzz targets: the fuzzer mutates the bytes, and the same
// bytes always produce the same values.
type Unstructured struct {
	data []byte
}

// FromBytes returns a source that consumes data front to back.
func FromBytes(data []byte) *Unstructured {
	return &Unstructured{data: data}
}

// Len reports how many bytes are left.
func (u *Unstructured) Len() int {
	return len(u.data)
}

// Bool consumes one byte and returns its low bit.
func (u *Unstructured) Bool() (bool, error) {
	b, err := u.take(1)
	if err != nil {
		return false, err
	}
	return b[0]&1 == 1, nil
}

// IntRange consumes just enough bytes to cover the span of the range.
// A single-value range consumes nothing.
func (u *Unstructured) IntRange(lo, hi int) (int, error) {
	if err := checkRange(lo, hi); err != nil {
		return 0, err
	}
	span := uint64(hi) - uint64(lo)
	if span == 0 {
		return lo, nil
	}
	n := 0
	for s := span; s > 0; s >>= 8 {
		n++
	}
	b, err := u.take(n)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	if span != ^uint64(0) {
		v %= span + 1
	}
	return int(uint64(lo) + v), nil //nolint:gosec // result is within [lo, hi]
}

// Bytes draws a length and then takes that many bytes verbatim.
func (u *Unstructured) Bytes(maxLen int) ([]byte, error) {
	n, err := u.IntRange(0, clampLen(maxLen))
	if err != nil {
		return nil, err
	}
	b, err := u.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// String is Bytes converted to a string.
func (u *Unstructured) String(maxLen int) (string, error) {
	b, err := u.Bytes(maxLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (u *Unstructured) take(n int) ([]byte, error) {
	if n > len(u.data) {
		u.data = u.data[len(u.data):]
		return nil, ErrExhausted
	}
	b := u.data[:n]
	u.data = u.data[n:]
	return b, nil
}
