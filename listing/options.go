package listing

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/opencontainers/go-digest"
)

// DefaultPermMask keeps the rwx bits for user, group and other.
const DefaultPermMask fs.FileMode = 0o777

// listConfig holds configuration for listing and normalization.
type listConfig struct {
	permMask fs.FileMode
	digest   digest.Algorithm
	logger   *slog.Logger
}

// ListOption configures List, ListFS and Normalize.
type ListOption func(*listConfig)

// ListWithPermMask restricts which permission bits take part in comparison.
// Zero ignores permissions entirely. The default is DefaultPermMask.
func ListWithPermMask(mask fs.FileMode) ListOption {
	return func(cfg *listConfig) {
		cfg.permMask = mask.Perm()
	}
}

// ListWithDigest records a content digest instead of the full content of
// each regular file. Both sides of a comparison must use the same algorithm.
func ListWithDigest(alg digest.Algorithm) ListOption {
	return func(cfg *listConfig) {
		cfg.digest = alg
	}
}

// ListWithLogger sets the logger for traversal diagnostics.
func ListWithLogger(logger *slog.Logger) ListOption {
	return func(cfg *listConfig) {
		cfg.logger = logger
	}
}

func newListConfig(opts []ListOption) (listConfig, error) {
	cfg := listConfig{permMask: DefaultPermMask}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.digest != "" && !cfg.digest.Available() {
		return cfg, fmt.Errorf("%w: %q", ErrDigestUnavailable, cfg.digest)
	}
	return cfg, nil
}
