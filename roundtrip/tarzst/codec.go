package tarzst

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/dirfixture/fsys"
)

// RoundTrip packs src and unpacks the stream into dst using default options.
// Its signature matches roundtrip.Codec.
func RoundTrip(ctx context.Context, src, dst string) error {
	return Codec()(ctx, src, dst)
}

// Codec returns a round-trip function with the given options. Packing and
// unpacking run concurrently over a pipe, so the archive is never held in
// memory as a whole. dst is created when it does not exist.
func Codec(opts ...Option) func(ctx context.Context, src, dst string) error {
	return func(ctx context.Context, src, dst string) error {
		in, err := fsys.OpenRoot(src)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer in.Close()

		if err := os.Mkdir(dst, 0o700); err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create destination: %w", err)
		}
		out, err := fsys.OpenRoot(dst)
		if err != nil {
			return fmt.Errorf("open destination: %w", err)
		}
		defer out.Close()

		pr, pw := io.Pipe()
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			err := Pack(gctx, in, pw, opts...)
			pw.CloseWithError(err)
			return err
		})
		g.Go(func() error {
			err := Unpack(gctx, pr, out, opts...)
			if err == nil {
				// Let Pack finish writing trailers the reader stopped short of.
				_, err = io.Copy(io.Discard, pr)
			}
			pr.CloseWithError(err)
			return err
		})
		return g.Wait()
	}
}
