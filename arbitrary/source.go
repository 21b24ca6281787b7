// Package arbitrary supplies the structured random values that drive fixture generation.
//
// A [Source] is the only entropy a generator sees. Every implementation is
// deterministic for a fixed input (byte slice, seed, or rapid session), so a
// failing fixture can always be replayed.
package arbitrary

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is returned when a finite source runs out of data before
	// the requested value could be produced.
	ErrExhausted = errors.New("arbitrary: source exhausted")

	// ErrInvalidRange is returned when a bounded draw is asked for an empty range.
	ErrInvalidRange = errors.New("arbitrary: invalid range")
)

// Source produces arbitrary values of primitive shapes.
type Source interface {
	// Bool draws a boolean.
	Bool() (bool, error)

	// IntRange draws an integer in the inclusive range [lo, hi].
	IntRange(lo, hi int) (int, error)

	// Bytes draws a byte slice whose length is in [0, maxLen].
	Bytes(maxLen int) ([]byte, error)

	// String draws a string of arbitrary bytes whose length is in [0, maxLen].
	String(maxLen int) (string, error)
}

func checkRange(lo, hi int) error {
	if lo > hi {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, lo, hi)
	}
	return nil
}

func clampLen(maxLen int) int {
	if maxLen < 0 {
		return 0
	}
	return maxLen
}
