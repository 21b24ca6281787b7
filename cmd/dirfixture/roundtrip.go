package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/dirfixture/internal/fileops"
	"github.com/meigma/dirfixture/roundtrip"
	"github.com/meigma/dirfixture/roundtrip/tarzst"
	"github.com/meigma/dirfixture/tree"
)

func newRoundTripCmd(a *app) *cobra.Command {
	var (
		gf          generateFlags
		iterations  int
		compression string
		concurrency int
		workDir     string
		keep        bool
	)
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Self-check the bundled tar+zstd codec over generated trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, ok := tarzst.ParseCompression(compression)
			if !ok {
				return fmt.Errorf("unknown compression %q", compression)
			}
			if iterations < 1 {
				return fmt.Errorf("--iterations must be at least 1, got %d", iterations)
			}
			gen, err := gf.options(cmd)
			if err != nil {
				return err
			}

			dir := workDir
			if dir == "" {
				dir, err = os.MkdirTemp("", "dirfixture-roundtrip-")
				if err != nil {
					return err
				}
			}

			seeds := make([]uint64, iterations)
			for i := range seeds {
				seeds[i] = gf.seed + uint64(i) //nolint:gosec // i is non-negative
			}
			codec := tarzst.Codec(tarzst.WithCompression(c), tarzst.WithLogger(a.logger))
			err = roundtrip.RunSeeds(cmd.Context(), dir, seeds, roundtrip.Codec(codec),
				roundtrip.WithGenerateOptions(gen...),
				roundtrip.WithLogger(a.logger),
				roundtrip.WithConcurrency(concurrency),
				roundtrip.WithKeep(keep),
			)

			var serr *roundtrip.SeedError
			if errors.As(err, &serr) && serr.Mismatch != nil {
				return fmt.Errorf("%w: %s", errMismatch, serr)
			}
			if err != nil {
				return err
			}
			if workDir == "" && !keep {
				if err := fileops.RemoveAll(dir); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d trees round tripped (%s)\n", iterations, c)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.Uint64Var(&gf.seed, "seed", 1, "Seed of the first tree")
	fl.IntVar(&iterations, "iterations", 100, "Number of trees to round trip")
	fl.StringVar(&compression, "compression", tarzst.CompressionZstd.String(), "Compression: none or zstd")
	fl.IntVar(&concurrency, "concurrency", 0, "Trees in flight (default GOMAXPROCS)")
	fl.StringVar(&workDir, "work-dir", "", "Directory for run directories (default a new temporary directory)")
	fl.BoolVar(&keep, "keep", false, "Keep run directories of successful trees")
	fl.IntVar(&gf.maxDepth, "max-depth", tree.DefaultMaxDepth, "Maximum directory nesting")
	fl.IntVar(&gf.maxFanout, "max-fanout", tree.DefaultMaxFanout, "Maximum children per directory")
	fl.IntVar(&gf.maxContent, "max-content", tree.DefaultMaxContentLen, "Maximum file size in bytes")
	fl.IntVar(&gf.maxName, "max-name", tree.DefaultMaxNameLen, "Maximum name length in bytes")
	fl.BoolVar(&gf.printable, "printable", false, "Restrict names to [a-z] (default on darwin)")
	fl.StringSliceVar(&gf.kinds, "kinds", kindNames(archiveKinds), "Entry kinds: file, dir, symlink, hardlink, fifo, socket")
	gf.count = 1
	return cmd
}
