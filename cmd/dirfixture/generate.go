package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/dirfixture/arbitrary"
	"github.com/meigma/dirfixture/tree"
)

type generateFlags struct {
	seed       uint64
	count      int
	maxDepth   int
	maxFanout  int
	maxContent int
	maxName    int
	printable  bool
	kinds      []string
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate DEST",
		Short: "Materialize a random tree at DEST",
		Long: `Generate draws a tree from a seeded random stream and writes it to DEST,
which must not exist or be empty. The same seed and flags always produce the
same tree. With --count N, N trees are written to DEST/0000 .. DEST/N-1 using
consecutive seeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			opts = append(opts, tree.GenerateWithLogger(a.logger))
			return runGenerate(cmd, a, args[0], f, opts)
		},
	}
	fl := cmd.Flags()
	fl.Uint64Var(&f.seed, "seed", 1, "Seed of the first tree")
	fl.IntVar(&f.count, "count", 1, "Number of trees to generate")
	fl.IntVar(&f.maxDepth, "max-depth", tree.DefaultMaxDepth, "Maximum directory nesting")
	fl.IntVar(&f.maxFanout, "max-fanout", tree.DefaultMaxFanout, "Maximum children per directory")
	fl.IntVar(&f.maxContent, "max-content", tree.DefaultMaxContentLen, "Maximum file size in bytes")
	fl.IntVar(&f.maxName, "max-name", tree.DefaultMaxNameLen, "Maximum name length in bytes")
	fl.BoolVar(&f.printable, "printable", false, "Restrict names to [a-z] (default on darwin)")
	fl.StringSliceVar(&f.kinds, "kinds", kindNames(tree.DefaultKinds), "Entry kinds: file, dir, symlink, hardlink, fifo, socket")
	return cmd
}

func (f generateFlags) options(cmd *cobra.Command) ([]tree.GenerateOption, error) {
	if f.count < 1 {
		return nil, fmt.Errorf("--count must be at least 1, got %d", f.count)
	}
	kinds, err := parseKinds(f.kinds)
	if err != nil {
		return nil, err
	}
	opts := []tree.GenerateOption{
		tree.GenerateWithMaxDepth(f.maxDepth),
		tree.GenerateWithMaxFanout(f.maxFanout),
		tree.GenerateWithMaxContentLen(f.maxContent),
		tree.GenerateWithMaxNameLen(f.maxName),
		tree.GenerateWithKinds(kinds...),
	}
	if cmd.Flags().Changed("printable") {
		opts = append(opts, tree.GenerateWithPrintableNames(f.printable))
	}
	return opts, nil
}

func runGenerate(cmd *cobra.Command, a *app, dest string, f generateFlags, opts []tree.GenerateOption) error {
	out := cmd.OutOrStdout()
	if f.count == 1 {
		n, err := generateOne(dest, f.seed, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "seed %d: %s (%d entries)\n", f.seed, dest, n)
		return nil
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range f.count {
		seed := f.seed + uint64(i) //nolint:gosec // i is non-negative
		dir := filepath.Join(dest, fmt.Sprintf("%04d", i))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := generateOne(dir, seed, opts)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			a.logger.Debug("generated fixture", "seed", seed, "dir", dir, "entries", n)
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "seed %d: %s (%d entries)\n", seed, dir, n)
			return nil
		})
	}
	return g.Wait()
}

// generateOne materializes the tree for seed at dest and returns its size.
func generateOne(dest string, seed uint64, opts []tree.GenerateOption) (int, error) {
	root, err := tree.Generate(arbitrary.NewRand(seed), opts...)
	if err != nil {
		return 0, err
	}
	if err := tree.Materialize(root, dest); err != nil {
		return 0, err
	}
	return root.Count(), nil
}

// archiveKinds are the kinds the tar codec can carry.
var archiveKinds = []tree.Kind{tree.KindFile, tree.KindDir, tree.KindSymlink, tree.KindHardLink, tree.KindFifo}

var allKinds = append(slices.Clone(archiveKinds), tree.KindSocket)

func parseKinds(names []string) ([]tree.Kind, error) {
	kinds := make([]tree.Kind, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		found := false
		for _, k := range allKinds {
			if k.String() == name {
				kinds = append(kinds, k)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown kind %q", name)
		}
	}
	return kinds, nil
}

func kindNames(kinds []tree.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
