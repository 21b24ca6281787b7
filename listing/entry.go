package listing

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/opencontainers/go-digest"
)

// Kind classifies a listed entry.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindDir
	KindSymlink
	KindFifo
	KindSocket
	KindDevice
	KindOther
)

var kindNames = map[Kind]string{
	KindFile:    "file",
	KindDir:     "dir",
	KindSymlink: "symlink",
	KindFifo:    "fifo",
	KindSocket:  "socket",
	KindDevice:  "device",
	KindOther:   "other",
}

// String returns a short lower-case name for the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// KindOf maps a file mode onto a Kind.
func KindOf(mode fs.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode&fs.ModeNamedPipe != 0:
		return KindFifo
	case mode&fs.ModeSocket != 0:
		return KindSocket
	case mode&fs.ModeDevice != 0:
		return KindDevice
	default:
		return KindOther
	}
}

// Entry is the comparable projection of one filesystem entry.
//
// Ownership and timestamps are deliberately absent. Mode holds permission
// bits after masking and is always zero for symlinks.
type Entry struct {
	// Path is slash-separated and relative to the listed root.
	Path string
	Kind Kind
	Mode fs.FileMode

	// Size is the length of a regular file's content.
	Size int64

	// Content holds a regular file's bytes, unless the listing was made with a digest.
	Content []byte

	// Digest holds a regular file's content digest when listing with ListWithDigest.
	Digest digest.Digest

	// Target is the literal target of a symlink.
	Target string

	// HardLinkOf is set on a regular file that shares its inode with an
	// earlier entry, and names that entry.
	HardLinkOf string
}

// Equal reports whether e and o are indistinguishable.
func (e *Entry) Equal(o *Entry) bool {
	return e.Path == o.Path &&
		e.Kind == o.Kind &&
		e.Mode == o.Mode &&
		e.Size == o.Size &&
		bytes.Equal(e.Content, o.Content) &&
		e.Digest == o.Digest &&
		e.Target == o.Target &&
		e.HardLinkOf == o.HardLinkOf
}

// String renders the entry on one line for diagnostics.
func (e *Entry) String() string {
	switch e.Kind {
	case KindFile:
		s := fmt.Sprintf("%s %s %04o size=%d", e.Path, e.Kind, uint32(e.Mode), e.Size)
		if e.Digest != "" {
			s += " " + e.Digest.String()
		}
		if e.HardLinkOf != "" {
			s += " link=" + e.HardLinkOf
		}
		return s
	case KindSymlink:
		return fmt.Sprintf("%s %s -> %q", e.Path, e.Kind, e.Target)
	default:
		return fmt.Sprintf("%s %s %04o", e.Path, e.Kind, uint32(e.Mode))
	}
}
