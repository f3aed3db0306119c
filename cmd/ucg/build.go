package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var buildWatch bool

var buildCmd = &cobra.Command{
	Use:   "build <file.ucg>",
	Short: "Evaluate a root file and emit its 'out' artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "rebuild whenever a file in the root file's directory changes")
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := buildOnce(path); err != nil {
		return err
	}
	if !buildWatch {
		return nil
	}
	return watchAndRebuild(path)
}

func buildOnce(path string) error {
	d := newDriver()
	report, err := d.RunBuild(path)
	if err != nil {
		return err
	}
	if report.Out == nil {
		fmt.Fprintf(os.Stderr, "%s %s has no 'out' statement; nothing to emit\n", yellow("warning:"), report.Path)
		return nil
	}
	conv, ok := d.Converters.Lookup(report.Out.Converter)
	if !ok {
		return fmt.Errorf("unknown converter %q", report.Out.Converter)
	}
	if err := conv.Convert(report.Out.Value, os.Stdout); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s built %s\n", green("✓"), report.Path)
	return nil
}

// watchAndRebuild rebuilds path whenever it changes, using the same
// coarse-grained strategy as the teacher's own file watchers in the
// retrieval pack: watch the root file's directory and rebuild on any write.
// UCG's Source Registry has no file-change hooks of its own (§5 is
// synchronous/non-reactive), so a fresh driver.Driver is constructed per
// rebuild to discard stale import-cache entries.
func watchAndRebuild(path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s watching %s for changes (ctrl-c to stop)\n", cyan("→"), dir)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := buildOnce(path); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", red("error"), err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%s watch error: %v\n", red("error"), err)
		}
	}
}
