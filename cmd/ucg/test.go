package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ucg-lang/ucg/internal/driver"
)

var testCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Run assertions in *_test.ucg files and their imports",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	files, err := driver.DiscoverTestFiles(path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "%s no *_test.ucg files found under %s\n", yellow("warning:"), path)
	}

	d := newDriver()
	anyFailed := false
	for _, f := range files {
		report, err := d.RunTest(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: %v\n", red("FAIL"), f, err)
			anyFailed = true
			continue
		}
		for _, a := range report.Asserts {
			if a.OK {
				fmt.Printf("%s %s: %s\n", green("PASS"), f, a.Desc)
			} else {
				fmt.Printf("%s %s: %s\n", red("FAIL"), f, a.Desc)
			}
		}
		if report.Failed() {
			anyFailed = true
		}
	}

	if anyFailed {
		return errTestsFailed
	}
	return nil
}

// errTestsFailed is returned (not printed) so main's exit-code mapping
// treats a failing test run as a user error (exit 1) without repeating the
// PASS/FAIL lines test already printed to stdout.
var errTestsFailed = &testsFailedError{}

type testsFailedError struct{}

func (*testsFailedError) Error() string { return "" }
