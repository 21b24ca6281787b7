package arbitrary

import "pgregory.net/rapid"

type rapidSource struct {
	t *rapid.T
}

// FromRapid adapts a rapid property-test session into a Source, so that
// failing fixtures are shrunk and replayed by rapid.
func FromRapid(t *rapid.T) Source {
	return rapidSource{t: t}
}

func (s rapidSource) Bool() (bool, error) {
	return rapid.Bool().Draw(s.t, "bool"), nil
}

func (s rapidSource) IntRange(lo, hi int) (int, error) {
	if err := checkRange(lo, hi); err != nil {
		return 0, err
	}
	return rapid.IntRange(lo, hi).Draw(s.t, "int"), nil
}

func (s rapidSource) Bytes(maxLen int) ([]byte, error) {
	return rapid.SliceOfN(rapid.Byte(), 0, clampLen(maxLen)).Draw(s.t, "bytes"), nil
}

func (s rapidSource) String(maxLen int) (string, error) {
	b, _ := s.Bytes(maxLen)
	return string(b), nil
}
