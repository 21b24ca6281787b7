package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/dirfixture/listing"
)

func newDiffCmd(a *app) *cobra.Command {
	var lf listingFlags
	cmd := &cobra.Command{
		Use:   "diff WANT GOT",
		Short: "Compare two directory trees",
		Long: `Diff lists both trees and reports the first path at which they differ.
It exits with status 1 when the trees differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options(a)
			if err != nil {
				return err
			}
			want, err := listing.List(args[0], opts...)
			if err != nil {
				return err
			}
			got, err := listing.List(args[1], opts...)
			if err != nil {
				return err
			}
			if m := listing.Diff(want, got); m != nil {
				return fmt.Errorf("%w: %s", errMismatch, m)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "identical (%d entries)\n", len(want))
			return nil
		},
	}
	lf.bind(cmd)
	return cmd
}
