// Package tarzst is a small directory codec: a tar stream of a directory
// tree, optionally compressed with zstd, and its inverse.
//
// It preserves structure, regular file content, permission bits, literal
// symlink targets, hard links and named pipes, which makes it a complete
// round trip as far as listings are concerned. It is used to exercise the
// round-trip driver and doubles as a worked example of a codec under test.
package tarzst
