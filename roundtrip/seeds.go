package roundtrip

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/dirfixture/arbitrary"
	"github.com/meigma/dirfixture/listing"
)

// SeedError reports the seed whose round trip failed, so it can be replayed
// with arbitrary.NewRand.
type SeedError struct {
	Seed uint64

	// Dir is the kept working directory, when the run got that far.
	Dir string

	// Mismatch is set when the codec ran but altered the tree.
	Mismatch *listing.Mismatch

	// Err is set when the run itself failed.
	Err error
}

func (e *SeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("seed %d: %v", e.Seed, e.Err)
	}
	return fmt.Sprintf("seed %d: tree changed (kept in %s): %s", e.Seed, e.Dir, e.Mismatch)
}

func (e *SeedError) Unwrap() error {
	return e.Err
}

// RunSeeds round trips one generated tree per seed, running up to
// WithConcurrency seeds at once. Each seed gets its own working directory
// below workDir. The first failure cancels the remaining seeds and is
// returned as a *SeedError.
func RunSeeds(ctx context.Context, workDir string, seeds []uint64, codec Codec, opts ...Option) error {
	cfg := newConfig(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for _, seed := range seeds {
		g.Go(func() error {
			res, err := Run(gctx, arbitrary.NewRand(seed), codec, workDir, opts...)
			switch {
			case err != nil:
				serr := &SeedError{Seed: seed, Err: err}
				if res != nil {
					serr.Dir = res.Dir
				}
				return serr
			case res.Mismatch != nil:
				return &SeedError{Seed: seed, Dir: res.Dir, Mismatch: res.Mismatch}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cfg.logger.Debug("round trip seeds ok", "seeds", len(seeds))
	return ctx.Err()
}
