package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

// errMismatch marks a comparison that ran but found differing trees.
var errMismatch = errors.New("trees differ")

// app carries state shared by all subcommands.
type app struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	cmd := &cobra.Command{
		Use:   "dirfixture",
		Short: "Generate, list and compare random directory trees",
		Long: `dirfixture builds random directory trees for testing code that copies,
archives or synchronizes directories, and compares trees by their canonical
listings.

Exit Codes:
  0  - Success
  1  - Trees differ
  2  - Usage or runtime error`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newGenerateCmd(a),
		newListCmd(a),
		newDiffCmd(a),
		newRoundTripCmd(a),
	)
	return cmd
}
