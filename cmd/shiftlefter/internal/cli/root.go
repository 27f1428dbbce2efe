// Package cli wires the spf13/cobra command tree for the shiftlefter binary:
// fmt (--check/--write/--canonical) and run.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// Execute builds and runs the root command, returning the process exit
// code (never calling os.Exit itself, so it stays testable).
func Execute() int {
	exitCode = exitCodeUnset
	root := newRootCmd()
	err := root.Execute()
	if exitCode != exitCodeUnset {
		return exitCode
	}
	if err != nil {
		return 2
	}
	return 0
}

// exitCode is set by whichever subcommand ran; cobra's own Execute error
// return only distinguishes "cobra-level usage error" from "ran to
// completion", so the subcommands stash their own exit code here instead of
// returning it through the error chain. exitCodeUnset marks that no
// subcommand body ran yet — e.g. argument validation failed before RunE —
// in which case a non-nil err from root.Execute() is a cobra-level usage
// error (exit 2).
const exitCodeUnset = -1

var exitCode = exitCodeUnset

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shiftlefter",
		Short:         "Gherkin lexer, parser, formatter, pickle compiler, and step runner",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newFmtCmd())
	root.AddCommand(newRunCmd())
	return root
}
