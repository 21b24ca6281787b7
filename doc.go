// Package dirfixture generates random directory trees for testing code that
// reads, writes, copies or archives directories.
//
// A fixture is drawn from an [arbitrary.Source], built in memory by the
// [tree] package, written to disk, and later compared against whatever the
// code under test produced by way of canonical [listing] values.
//
// # Quick Start
//
// Generate and materialize a fixture inside a test:
//
//	dir, root := dirfixture.New(t, arbitrary.NewRand(42))
//	out := filepath.Join(t.TempDir(), "out")
//	require.NoError(t, mycopy.Copy(dir, out))
//	dirfixture.AssertSameTree(t, dir, out)
//
// Drive a codec over many generated trees:
//
//	err := roundtrip.RunSeeds(ctx, t.TempDir(), seeds, myCodec)
//
// # Property Tests
//
// [arbitrary.FromRapid] draws fixtures from pgregory.net/rapid, which then
// shrinks failing trees:
//
//	rapid.Check(t, func(rt *rapid.T) {
//	    roundtrip.Check(rt, workDir, arbitrary.FromRapid(rt), myCodec)
//	})
//
// # Comparison
//
// Listings record paths, kinds, permission bits, content and literal
// symlink targets. They never follow symlinks and ignore ownership and
// timestamps. Use [listing.ListWithPermMask] and [listing.ListWithDigest] to
// relax or compact comparisons.
package dirfixture
