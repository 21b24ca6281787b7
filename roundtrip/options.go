package roundtrip

import (
	"log/slog"
	"runtime"

	"github.com/meigma/dirfixture/listing"
	"github.com/meigma/dirfixture/tree"
)

// config holds configuration for a round trip.
type config struct {
	generate    []tree.GenerateOption
	list        []listing.ListOption
	logger      *slog.Logger
	concurrency int
	keep        bool
}

// Option configures Run, RunTree, Check and RunSeeds.
type Option func(*config)

// WithGenerateOptions passes options through to tree.Generate.
func WithGenerateOptions(opts ...tree.GenerateOption) Option {
	return func(c *config) {
		c.generate = append(c.generate, opts...)
	}
}

// WithListOptions passes options through to both listings, for example to
// mask permission bits a codec does not preserve.
func WithListOptions(opts ...listing.ListOption) Option {
	return func(c *config) {
		c.list = append(c.list, opts...)
	}
}

// WithLogger sets the logger for round trip diagnostics. It is also handed
// to the generator, materializer and walker.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithConcurrency bounds how many seeds RunSeeds runs at once.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

// WithKeep keeps the working directory of successful runs. Directories of
// failed runs are always kept for inspection.
func WithKeep(keep bool) Option {
	return func(c *config) {
		c.keep = keep
	}
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = runtime.GOMAXPROCS(0)
	}
	return cfg
}

func (c config) generateOptions() []tree.GenerateOption {
	return append([]tree.GenerateOption{tree.GenerateWithLogger(c.logger)}, c.generate...)
}

func (c config) listOptions() []listing.ListOption {
	return append([]listing.ListOption{listing.ListWithLogger(c.logger)}, c.list...)
}
