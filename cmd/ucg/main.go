// Command ucg is the CLI collaborator described in spec §6: it discovers
// source files, assembles an internal/config.Config, and drives
// internal/driver. It is explicitly out of the core language engine's
// scope; it exists only so this repository can demonstrate the engine.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to spec §6's exit codes: 0 success (handled by
// cobra returning nil), 1 user error (parse/type/assert failure), 2
// internal error. Errors raised by internal/errors are user errors by
// construction; anything else (I/O, viper, cobra usage) is internal.
func exitCodeFor(err error) int {
	if isUserError(err) {
		return 1
	}
	return 2
}
