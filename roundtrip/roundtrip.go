// Package roundtrip drives a directory codec over generated trees and
// reports whether it reproduced them faithfully.
//
// A single run generates a tree, materializes it as "src" inside a fresh
// working directory, invokes the codec to produce "dst", lists both and
// compares the listings.
package roundtrip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meigma/dirfixture/arbitrary"
	"github.com/meigma/dirfixture/internal/fileops"
	"github.com/meigma/dirfixture/listing"
	"github.com/meigma/dirfixture/tree"
)

// ErrFixtureMismatch is returned when the materialized source tree does not
// list as the generated tree, i.e. the host filesystem could not hold it.
var ErrFixtureMismatch = errors.New("roundtrip: materialized fixture does not match its tree")

// Codec turns the directory tree at src into an equivalent tree at dst.
// dst does not exist when the codec is called; its parent does.
type Codec func(ctx context.Context, src, dst string) error

// Result is the outcome of a single round trip.
type Result struct {
	// Dir is the run's working directory. It has been removed unless the run
	// failed or WithKeep was given.
	Dir string

	Tree *tree.Entry

	// Want lists the materialized source, Got the codec's output.
	Want listing.Listing
	Got  listing.Listing

	// Mismatch is nil when the codec preserved the tree.
	Mismatch *listing.Mismatch
}

// Run generates a tree from src and round trips it through codec inside a
// new directory below workDir.
//
// Errors cover the harness and the codec itself; a codec that runs cleanly
// but alters the tree yields a Result with a non-nil Mismatch.
func Run(ctx context.Context, src arbitrary.Source, codec Codec, workDir string, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	root, err := tree.Generate(src, cfg.generateOptions()...)
	if err != nil {
		return nil, fmt.Errorf("roundtrip: %w", err)
	}
	return runTree(ctx, cfg, root, codec, workDir)
}

// RunTree round trips a given tree, such as one built by hand.
func RunTree(ctx context.Context, root *tree.Entry, codec Codec, workDir string, opts ...Option) (*Result, error) {
	return runTree(ctx, newConfig(opts), root, codec, workDir)
}

func runTree(ctx context.Context, cfg config, root *tree.Entry, codec Codec, workDir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp(workDir, "run-")
	if err != nil {
		return nil, fmt.Errorf("roundtrip: %w", err)
	}
	res := &Result{Dir: dir, Tree: root}

	if err := roundTrip(ctx, cfg, res, codec); err != nil {
		cfg.logger.Warn("round trip failed", "dir", dir, "error", err)
		return res, err
	}
	if res.Mismatch != nil {
		cfg.logger.Warn("round trip mismatch", "dir", dir, "mismatch", res.Mismatch.String())
		return res, nil
	}

	cfg.logger.Debug("round trip ok", "dir", dir, "entries", len(res.Want))
	if !cfg.keep {
		if err := fileops.RemoveAll(dir); err != nil {
			return res, fmt.Errorf("roundtrip: clean up: %w", err)
		}
	}
	return res, nil
}

func roundTrip(ctx context.Context, cfg config, res *Result, codec Codec) error {
	listOpts := cfg.listOptions()
	srcDir := filepath.Join(res.Dir, "src")
	dstDir := filepath.Join(res.Dir, "dst")

	if err := tree.Materialize(res.Tree, srcDir, tree.MaterializeWithLogger(cfg.logger)); err != nil {
		return fmt.Errorf("roundtrip: %w", err)
	}
	want, err := listing.List(srcDir, listOpts...)
	if err != nil {
		return fmt.Errorf("roundtrip: list source: %w", err)
	}
	res.Want = want

	model, err := res.Tree.Listing(listOpts...)
	if err != nil {
		return fmt.Errorf("roundtrip: %w", err)
	}
	if m := listing.Diff(model, want); m != nil {
		return fmt.Errorf("%w: %s", ErrFixtureMismatch, m)
	}

	if err := codec(ctx, srcDir, dstDir); err != nil {
		return fmt.Errorf("roundtrip: codec: %w", err)
	}
	got, err := listing.List(dstDir, listOpts...)
	if err != nil {
		return fmt.Errorf("roundtrip: list output: %w", err)
	}
	res.Got = got
	res.Mismatch = listing.Diff(want, got)
	return nil
}

// TB is the part of testing.TB that Check needs. *rapid.T satisfies it too.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Check runs a round trip and fails t on any error or mismatch.
func Check(t TB, workDir string, src arbitrary.Source, codec Codec, opts ...Option) *Result {
	t.Helper()
	res, err := Run(context.Background(), src, codec, workDir, opts...)
	if err != nil {
		t.Fatalf("round trip: %v", err)
		return res
	}
	if res.Mismatch != nil {
		t.Fatalf("round trip changed the tree (kept in %s): %s", res.Dir, res.Mismatch)
	}
	return res
}
