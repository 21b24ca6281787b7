package tarzst

import (
	"archive/tar"
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/meigma/dirfixture/fsys"
	"github.com/meigma/dirfixture/internal/fileops"
	"github.com/meigma/dirfixture/internal/pathutil"
)

// ErrUnsafePath is returned when an archive entry name or hard link target
// is absolute, empty, or contains a "." or ".." element.
var ErrUnsafePath = errors.New("tarzst: unsafe path")

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Unpack extracts a stream written by Pack into dst, which should be empty.
//
// Compression is detected from the stream. Directories are created
// owner-writable and receive their recorded mode after everything else has
// been extracted, so restrictive directories do not block their children.
func Unpack(ctx context.Context, r io.Reader, dst fsys.FS, opts ...Option) error {
	cfg := newConfig(opts)

	br := bufio.NewReader(r)
	in := io.Reader(br)
	compression := CompressionNone
	if magic, _ := br.Peek(len(zstdMagic)); bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
		if err != nil {
			return fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		in = dec
		compression = CompressionZstd
	}

	type pendingDir struct {
		name string
		mode fs.FileMode
	}
	var dirs []pendingDir
	count := 0

	tr := tar.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return &fs.PathError{Op: "unpack", Path: hdr.Name, Err: ErrUnsafePath}
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		name := strings.TrimSuffix(hdr.Name, "/")
		if !safePath(name) {
			return &fs.PathError{Op: "unpack", Path: hdr.Name, Err: ErrUnsafePath}
		}
		mode := fs.FileMode(hdr.Mode).Perm() //nolint:gosec // masked to permission bits

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := dst.Mkdir(name, 0o700); err != nil {
				return err
			}
			dirs = append(dirs, pendingDir{name: name, mode: mode})
		case tar.TypeReg:
			data, err := fileops.ReadAllContext(ctx, tr, hdr.Size)
			if err != nil {
				return &fs.PathError{Op: "unpack", Path: name, Err: err}
			}
			if err := dst.WriteFile(name, data, 0o600); err != nil {
				return err
			}
			if err := dst.Chmod(name, mode); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := dst.Symlink(hdr.Linkname, name); err != nil {
				return err
			}
		case tar.TypeLink:
			if !safePath(hdr.Linkname) {
				return &fs.PathError{Op: "unpack", Path: hdr.Linkname, Err: ErrUnsafePath}
			}
			if err := dst.Link(hdr.Linkname, name); err != nil {
				return err
			}
		case tar.TypeFifo:
			if err := dst.Mkfifo(name, 0o600); err != nil {
				return err
			}
			if err := dst.Chmod(name, mode); err != nil {
				return err
			}
		default:
			return &fs.PathError{Op: "unpack", Path: name, Err: ErrUnsupportedEntry}
		}
		count++
	}

	// Children always follow their parent in the stream.
	for _, d := range slices.Backward(dirs) {
		if err := dst.Chmod(d.name, d.mode); err != nil {
			return err
		}
	}

	cfg.logger.Debug("unpacked tree", "entries", count, "compression", compression.String())
	return nil
}

func safePath(name string) bool {
	if name == "" {
		return false
	}
	for elem := range strings.SplitSeq(name, "/") {
		if !pathutil.ValidName(elem) {
			return false
		}
	}
	return true
}
