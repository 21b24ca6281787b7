package tarzst

import "log/slog"

// Compression identifies the compression applied to the tar stream.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
)

// String returns the human-readable name of the compression algorithm.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompression maps a name produced by Compression.String back to its value.
func ParseCompression(name string) (Compression, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	default:
		return 0, false
	}
}

// config holds configuration for packing and unpacking.
type config struct {
	compression Compression
	logger      *slog.Logger
}

// Option configures Pack, Unpack and RoundTrip.
type Option func(*config)

// WithCompression sets the compression used by Pack. Unpack detects it.
// The default is CompressionZstd.
func WithCompression(c Compression) Option {
	return func(cfg *config) {
		cfg.compression = c
	}
}

// WithLogger sets the logger for codec diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

func newConfig(opts []Option) config {
	cfg := config{compression: CompressionZstd}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}
