// Command shiftlefter is the cobra-based CLI collaborator for the
// ShiftLefter Gherkin toolchain: fmt --check/--write/--canonical and run.
// The toolchain itself (gherkin/*, registry, bind, exec, report) never
// imports this package; it is a thin, replaceable frontend.
package main

import (
	"os"

	"github.com/shiftlefter/shiftlefter/cmd/shiftlefter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
