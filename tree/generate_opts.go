package tree

import (
	"log/slog"
	"runtime"
)

// Generation defaults.
const (
	DefaultMaxDepth      = 3
	DefaultMaxFanout     = 8
	DefaultMaxContentLen = 64
	DefaultMaxNameLen    = 16
	DefaultMaxTargetLen  = 32
)

// DefaultKinds are the kinds generated when GenerateWithKinds is not used.
var DefaultKinds = []Kind{KindFile, KindDir, KindSymlink}

// generateConfig holds configuration for tree generation.
type generateConfig struct {
	maxDepth       int
	maxFanout      int
	maxContentLen  int
	maxNameLen     int
	maxTargetLen   int
	printableNames bool
	kinds          []Kind
	logger         *slog.Logger
}

// GenerateOption configures Generate.
type GenerateOption func(*generateConfig)

// GenerateWithMaxDepth bounds how deeply directories nest below the root.
// Zero allows no subdirectories at all.
func GenerateWithMaxDepth(n int) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.maxDepth = max(n, 0)
	}
}

// GenerateWithMaxFanout bounds the number of children of every directory.
func GenerateWithMaxFanout(n int) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.maxFanout = max(n, 0)
	}
}

// GenerateWithMaxContentLen bounds the size of regular file content.
func GenerateWithMaxContentLen(n int) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.maxContentLen = max(n, 0)
	}
}

// GenerateWithMaxNameLen bounds the length of entry names, in bytes.
// Values outside [1, 255] are clamped.
func GenerateWithMaxNameLen(n int) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.maxNameLen = min(max(n, 1), 255)
	}
}

// GenerateWithMaxTargetLen bounds the length of arbitrary symlink targets.
func GenerateWithMaxTargetLen(n int) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.maxTargetLen = max(n, 1)
	}
}

// GenerateWithPrintableNames restricts names to lower-case ASCII letters.
// Useful when fixtures end up in command lines, or on filesystems that fold
// case or normalize Unicode.
func GenerateWithPrintableNames(printable bool) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.printableNames = printable
	}
}

// GenerateWithKinds selects which entry kinds may be generated.
// The root is always a directory regardless of this setting.
func GenerateWithKinds(kinds ...Kind) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.kinds = append([]Kind(nil), kinds...)
	}
}

// GenerateWithLogger sets the logger for generation diagnostics.
func GenerateWithLogger(logger *slog.Logger) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.logger = logger
	}
}

func newGenerateConfig(opts []GenerateOption) generateConfig {
	cfg := generateConfig{
		maxDepth:       DefaultMaxDepth,
		maxFanout:      DefaultMaxFanout,
		maxContentLen:  DefaultMaxContentLen,
		maxNameLen:     DefaultMaxNameLen,
		maxTargetLen:   DefaultMaxTargetLen,
		printableNames: runtime.GOOS == "darwin",
		kinds:          DefaultKinds,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}
