// Command dirfixture generates, lists and compares directory fixtures.
package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes.
const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errMismatch):
		fmt.Fprintln(os.Stderr, err)
		return exitMismatch
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitError
	}
}
