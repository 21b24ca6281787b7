package fileops

import (
	"context"
	"errors"
	"io"
)

// chunkSize is the read size between cancellation checks.
const chunkSize = 32 << 10

// ReadAllContext reads r to EOF like io.ReadAll, checking ctx between
// reads. size is a capacity hint and may be zero.
func ReadAllContext(ctx context.Context, r io.Reader, size int64) ([]byte, error) {
	buf := make([]byte, 0, max(min(size, 1<<20), 0))
	for {
		if err := ctx.Err(); err != nil {
			return buf, err
		}
		if len(buf) == cap(buf) {
			buf = append(buf, 0)[:len(buf)]
		}
		n, err := r.Read(buf[len(buf):min(cap(buf), len(buf)+chunkSize)])
		buf = buf[:len(buf)+n]
		if errors.Is(err, io.EOF) {
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
	}
}
