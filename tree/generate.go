package tree

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/meigma/dirfixture/arbitrary"
	"github.com/meigma/dirfixture/internal/pathutil"
)

// nameAttempts is how often a colliding or illegal name is redrawn before
// the child is dropped.
const nameAttempts = 4

// kindWeights biases generation toward files and directories.
var kindWeights = map[Kind]int{
	KindFile:     4,
	KindDir:      3,
	KindSymlink:  2,
	KindHardLink: 1,
	KindFifo:     1,
	KindSocket:   1,
}

// Generate draws a random tree from src. The root is always a directory.
//
// Errors from src, such as arbitrary.ErrExhausted, are returned wrapped and
// are never retried.
func Generate(src arbitrary.Source, opts ...GenerateOption) (*Entry, error) {
	cfg := newGenerateConfig(opts)
	if len(cfg.kinds) == 0 {
		return nil, ErrNoKinds
	}

	g := &generator{src: src, cfg: cfg}
	mode, err := g.mode(0o700)
	if err != nil {
		return nil, fmt.Errorf("tree: generate: %w", err)
	}
	root := &Entry{Name: ".", Kind: KindDir, Mode: mode, Children: make(map[string]*Entry)}
	if err := g.fill(root, ".", 0); err != nil {
		return nil, fmt.Errorf("tree: generate: %w", err)
	}

	cfg.logger.Debug("generated tree",
		"entries", len(g.paths),
		"files", len(g.files),
		"depth", root.Depth(),
	)
	return root, nil
}

// generator holds state for a single Generate call.
type generator struct {
	src arbitrary.Source
	cfg generateConfig

	// paths lists every non-directory entry generated so far, for live symlinks.
	paths []string

	// files lists regular files generated so far, for hard links.
	files []*Entry
	// filePaths parallels files.
	filePaths []string
}

// fill draws the children of dir, which sits at depth below the root.
func (g *generator) fill(dir *Entry, dirPath string, depth int) error {
	n, err := g.src.IntRange(0, g.cfg.maxFanout)
	if err != nil {
		return err
	}
	for range n {
		name, ok, err := g.name(dir)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		kind, ok, err := g.kind(depth)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		child, err := g.entry(kind, name, dirPath, depth)
		if err != nil {
			return err
		}
		dir.Children[name] = child
	}
	return nil
}

// entry builds a child of the given kind. Directories are filled recursively.
func (g *generator) entry(kind Kind, name, dirPath string, depth int) (*Entry, error) {
	p := pathutil.Join(dirPath, name)
	switch kind {
	case KindDir:
		mode, err := g.mode(0o700)
		if err != nil {
			return nil, err
		}
		e := &Entry{Name: name, Kind: KindDir, Mode: mode, Children: make(map[string]*Entry)}
		if err := g.fill(e, p, depth+1); err != nil {
			return nil, err
		}
		return e, nil

	case KindFile:
		mode, err := g.mode(0o600)
		if err != nil {
			return nil, err
		}
		content, err := g.src.Bytes(g.cfg.maxContentLen)
		if err != nil {
			return nil, err
		}
		e := File(name, mode, content)
		g.files = append(g.files, e)
		g.filePaths = append(g.filePaths, p)
		g.paths = append(g.paths, p)
		return e, nil

	case KindSymlink:
		target, err := g.target(dirPath)
		if err != nil {
			return nil, err
		}
		g.paths = append(g.paths, p)
		return Symlink(name, target), nil

	case KindHardLink:
		i, err := g.src.IntRange(0, len(g.files)-1)
		if err != nil {
			return nil, err
		}
		e := HardLink(name, g.filePaths[i])
		e.Mode = g.files[i].Mode
		g.paths = append(g.paths, p)
		return e, nil

	case KindFifo:
		mode, err := g.mode(0o600)
		if err != nil {
			return nil, err
		}
		g.paths = append(g.paths, p)
		return Fifo(name, mode), nil

	case KindSocket:
		mode, err := g.mode(0o600)
		if err != nil {
			return nil, err
		}
		g.paths = append(g.paths, p)
		return Socket(name, mode), nil
	}
	return nil, fmt.Errorf("unknown kind %s", kind)
}

// kind picks a weighted kind among those allowed at depth.
// ok is false when nothing can be generated here.
func (g *generator) kind(depth int) (kind Kind, ok bool, err error) {
	candidates := make([]Kind, 0, len(g.cfg.kinds))
	total := 0
	for _, k := range g.cfg.kinds {
		switch {
		case k == KindDir && depth >= g.cfg.maxDepth:
			continue
		case k == KindHardLink && len(g.files) == 0:
			continue
		case kindWeights[k] == 0, slices.Contains(candidates, k):
			continue
		}
		candidates = append(candidates, k)
		total += kindWeights[k]
	}
	if total == 0 {
		return 0, false, nil
	}
	r, err := g.src.IntRange(0, total-1)
	if err != nil {
		return 0, false, err
	}
	for _, k := range candidates {
		if r < kindWeights[k] {
			return k, true, nil
		}
		r -= kindWeights[k]
	}
	return candidates[len(candidates)-1], true, nil
}

// name draws a legal name not yet used in dir.
func (g *generator) name(dir *Entry) (name string, ok bool, err error) {
	for range nameAttempts {
		raw, err := g.src.String(g.cfg.maxNameLen)
		if err != nil {
			return "", false, err
		}
		name := g.sanitizeName(raw)
		if !pathutil.ValidName(name) {
			continue
		}
		if _, taken := dir.Children[name]; taken {
			continue
		}
		return name, true, nil
	}
	return "", false, nil
}

func (g *generator) sanitizeName(raw string) string {
	b := []byte(raw)
	for i, c := range b {
		if g.cfg.printableNames {
			b[i] = 'a' + c%26
		} else {
			b[i] = pathutil.SanitizeNameByte(c)
		}
	}
	return string(b)
}

// mode draws permission bits and forces the owner bits in required on.
func (g *generator) mode(required fs.FileMode) (fs.FileMode, error) {
	bits, err := g.src.IntRange(0, 0o777)
	if err != nil {
		return 0, err
	}
	return fs.FileMode(bits)&fs.ModePerm | required, nil //nolint:gosec // bits is within [0, 0o777]
}

// target draws a symlink target: either a relative path to an entry that
// already exists, or an arbitrary (possibly absolute, possibly dangling) string.
// Live targets never name a directory, so following them cannot loop.
func (g *generator) target(dirPath string) (string, error) {
	live, err := g.src.Bool()
	if err != nil {
		return "", err
	}
	if live && len(g.paths) > 0 {
		i, err := g.src.IntRange(0, len(g.paths)-1)
		if err != nil {
			return "", err
		}
		return pathutil.Rel(dirPath, g.paths[i]), nil
	}

	raw, err := g.src.String(g.cfg.maxTargetLen)
	if err != nil {
		return "", err
	}
	target := strings.ReplaceAll(raw, "\x00", "_")
	if target == "" {
		target = "_"
	}
	return target, nil
}
