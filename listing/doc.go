// Package listing walks a directory tree and produces a canonical,
// order-independent description of it that two trees can be compared by.
//
// A listing never follows symlinks: a link is recorded as a leaf carrying its
// literal target, which keeps traversal safe against cycles and dangling links
// and makes listings of independently rooted trees directly comparable.
//
// Entries are sorted component-wise by relative path, so a directory always
// precedes its contents regardless of the order the filesystem enumerates
// them in. Listing is all-or-nothing: the first error aborts it.
package listing
