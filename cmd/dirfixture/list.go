package main

import (
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meigma/dirfixture/listing"
)

// listingFlags are shared by list and diff.
type listingFlags struct {
	digest   string
	permMask string
}

func (f *listingFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.digest, "digest", string(digest.SHA256), `Compare file content by digest (sha256, sha384, sha512; "" compares raw bytes)`)
	cmd.Flags().StringVar(&f.permMask, "perm-mask", "777", "Octal mask of permission bits to compare")
}

func (f *listingFlags) options(a *app) ([]listing.ListOption, error) {
	mask, err := strconv.ParseUint(f.permMask, 8, 32)
	if err != nil {
		return nil, fmt.Errorf("--perm-mask: %w", err)
	}
	opts := []listing.ListOption{
		listing.ListWithPermMask(fs.FileMode(mask)),
		listing.ListWithLogger(a.logger),
	}
	if f.digest != "" {
		opts = append(opts, listing.ListWithDigest(digest.Algorithm(f.digest)))
	}
	return opts, nil
}

func newListCmd(a *app) *cobra.Command {
	var (
		lf     listingFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "list DIR",
		Short: "Print the canonical listing of DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(a)
			if err != nil {
				return err
			}
			l, err := listing.List(args[0], opts...)
			if err != nil {
				return err
			}
			switch format {
			case "text":
				return writeText(cmd.OutOrStdout(), l)
			case "yaml":
				return writeYAML(cmd.OutOrStdout(), l)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	lf.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	return cmd
}

// writeText prints one line per entry. Paths and targets are Go-quoted so
// names holding newlines or control bytes cannot forge extra lines.
func writeText(w io.Writer, l listing.Listing) error {
	for i := range l {
		e := &l[i]
		line := fmt.Sprintf("%04o %-7s %8s %s", uint32(e.Mode), e.Kind, size(e), strconv.Quote(e.Path))
		switch {
		case e.Kind == listing.KindSymlink:
			line += " -> " + strconv.Quote(e.Target)
		case e.HardLinkOf != "":
			line += " => " + strconv.Quote(e.HardLinkOf)
		}
		if e.Digest != "" {
			line += " " + e.Digest.Encoded()[:12]
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func size(e *listing.Entry) string {
	if e.Kind != listing.KindFile {
		return "-"
	}
	return humanize.IBytes(uint64(e.Size)) //nolint:gosec // sizes are never negative
}

// yamlEntry is the serialized form of a listing entry.
type yamlEntry struct {
	Path       string `yaml:"path"`
	Kind       string `yaml:"kind"`
	Mode       string `yaml:"mode"`
	Size       int64  `yaml:"size,omitempty"`
	Digest     string `yaml:"digest,omitempty"`
	Target     string `yaml:"target,omitempty"`
	HardLinkOf string `yaml:"hardlink_of,omitempty"`
}

func writeYAML(w io.Writer, l listing.Listing) error {
	entries := make([]yamlEntry, len(l))
	for i, e := range l {
		entries[i] = yamlEntry{
			Path:       e.Path,
			Kind:       e.Kind.String(),
			Mode:       fmt.Sprintf("%04o", uint32(e.Mode)),
			Size:       e.Size,
			Digest:     e.Digest.String(),
			Target:     e.Target,
			HardLinkOf: e.HardLinkOf,
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return err
	}
	return enc.Close()
}
