package dirfixture

import (
	"github.com/meigma/dirfixture/arbitrary"
	"github.com/meigma/dirfixture/fsys"
	"github.com/meigma/dirfixture/listing"
	"github.com/meigma/dirfixture/roundtrip"
	"github.com/meigma/dirfixture/roundtrip/tarzst"
	"github.com/meigma/dirfixture/tree"
)

// Errors re-exported from arbitrary.
var (
	// ErrExhausted is returned when a finite source runs out of data.
	ErrExhausted = arbitrary.ErrExhausted

	// ErrInvalidRange is returned when a bounded draw is asked for an empty range.
	ErrInvalidRange = arbitrary.ErrInvalidRange
)

// Errors re-exported from tree.
var (
	// ErrNotDir is returned when a tree root or destination is not a directory.
	ErrNotDir = tree.ErrNotDir

	// ErrNotEmpty is returned when a destination already has entries.
	ErrNotEmpty = tree.ErrNotEmpty

	// ErrInvalidTree is returned when a tree breaks a structural invariant.
	ErrInvalidTree = tree.ErrInvalidTree

	// ErrNoKinds is returned when generation has no entry kinds enabled.
	ErrNoKinds = tree.ErrNoKinds
)

// Errors re-exported from listing, fsys, roundtrip and tarzst.
var (
	ErrDigestUnavailable = listing.ErrDigestUnavailable
	ErrUnsupported       = fsys.ErrUnsupported
	ErrFixtureMismatch   = roundtrip.ErrFixtureMismatch
	ErrUnsafePath        = tarzst.ErrUnsafePath
)
