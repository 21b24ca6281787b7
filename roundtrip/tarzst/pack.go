package tarzst

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/meigma/dirfixture/fsys"
	"github.com/meigma/dirfixture/internal/pathutil"
	"github.com/meigma/dirfixture/internal/platform"
)

// ErrUnsupportedEntry is returned for entry types the codec cannot carry,
// such as sockets and devices.
var ErrUnsupportedEntry = errors.New("tarzst: unsupported entry type")

// Pack writes the tree below the root of src to w.
//
// Entries are written in pre-order with children sorted by name. Symlinks
// are stored, never followed. A regular file sharing its inode with one
// written earlier is stored as a hard link to it.
func Pack(ctx context.Context, src fsys.FS, w io.Writer, opts ...Option) error {
	cfg := newConfig(opts)

	out := w
	var enc *zstd.Encoder
	if cfg.compression == CompressionZstd {
		var err error
		enc, err = zstd.NewWriter(w, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
		if err != nil {
			return fmt.Errorf("create zstd encoder: %w", err)
		}
		out = enc
	}

	p := &packer{
		src:   src,
		tw:    tar.NewWriter(out),
		links: make(map[[2]uint64]string),
	}
	if err := p.dir(ctx, "."); err != nil {
		if enc != nil {
			_ = enc.Close() //nolint:errcheck // pack error takes precedence
		}
		return err
	}
	if err := p.tw.Close(); err != nil {
		return fmt.Errorf("close tar stream: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("close zstd encoder: %w", err)
		}
	}

	cfg.logger.Debug("packed tree", "entries", p.count, "compression", cfg.compression.String())
	return nil
}

// packer holds state for a single Pack call.
type packer struct {
	src   fsys.FS
	tw    *tar.Writer
	links map[[2]uint64]string
	count int
}

func (p *packer) dir(ctx context.Context, dir string) error {
	children, err := p.src.ReadDir(dir)
	if err != nil {
		return err
	}
	slices.SortFunc(children, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := pathutil.Join(dir, child.Name())
		isDir, err := p.entry(name)
		if err != nil {
			return err
		}
		if isDir {
			if err := p.dir(ctx, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// entry writes the header (and content) for name.
func (p *packer) entry(name string) (isDir bool, err error) {
	info, err := p.src.Lstat(name)
	if err != nil {
		return false, err
	}
	hdr := &tar.Header{
		Name:    name,
		Mode:    int64(info.Mode().Perm()),
		ModTime: info.ModTime(),
	}

	var content []byte
	mode := info.Mode()
	switch {
	case mode.IsDir():
		hdr.Typeflag = tar.TypeDir
		hdr.Name += "/"
	case mode.IsRegular():
		id, ok := platform.FileID(info)
		if first, seen := p.links[id]; ok && seen {
			hdr.Typeflag = tar.TypeLink
			hdr.Linkname = first
			break
		}
		if ok {
			p.links[id] = name
		}
		content, err = p.src.ReadFile(name)
		if err != nil {
			return false, err
		}
		hdr.Typeflag = tar.TypeReg
		hdr.Size = int64(len(content))
	case mode&fs.ModeSymlink != 0:
		target, err := p.src.Readlink(name)
		if err != nil {
			return false, err
		}
		hdr.Typeflag = tar.TypeSymlink
		hdr.Linkname = target
		hdr.Mode = 0o777
	case mode&fs.ModeNamedPipe != 0:
		hdr.Typeflag = tar.TypeFifo
	default:
		return false, &fs.PathError{Op: "pack", Path: name, Err: ErrUnsupportedEntry}
	}

	if err := p.tw.WriteHeader(hdr); err != nil {
		return false, &fs.PathError{Op: "pack", Path: name, Err: err}
	}
	if len(content) > 0 {
		if _, err := p.tw.Write(content); err != nil {
			return false, &fs.PathError{Op: "pack", Path: name, Err: err}
		}
	}
	p.count++
	return hdr.Typeflag == tar.TypeDir, nil
}
