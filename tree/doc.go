// Package tree models a directory tree in memory, generates random trees
// from an [arbitrary.Source], and materializes trees onto a filesystem.
//
// Generation is pure: it never touches the filesystem and draws every
// decision from the source, so the same draws always yield the same tree.
// Depth and fan-out are bounded, so generation always terminates.
//
// Materialization writes exactly what the tree describes under a destination
// directory and nothing outside it. It never cleans up after a failure; the
// destination belongs to the caller.
package tree
