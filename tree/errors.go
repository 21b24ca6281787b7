package tree

import "errors"

// Sentinel errors for tree operations.
var (
	// ErrNotDir is returned when a tree root, or a materialization
	// destination, is not a directory.
	ErrNotDir = errors.New("tree: not a directory")

	// ErrNotEmpty is returned when a materialization destination already has entries.
	ErrNotEmpty = errors.New("tree: destination not empty")

	// ErrInvalidTree is returned by Validate when a tree breaks a structural invariant.
	ErrInvalidTree = errors.New("tree: invalid tree")

	// ErrNoKinds is returned when generation is configured with no entry kinds.
	ErrNoKinds = errors.New("tree: no entry kinds enabled")
)
