package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ucg-lang/ucg/internal/config"
	"github.com/ucg-lang/ucg/internal/convert"
	"github.com/ucg-lang/ucg/internal/driver"
	ucgerrors "github.com/ucg-lang/ucg/internal/errors"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var importRoots []string

var rootCmd = &cobra.Command{
	Use:   "ucg",
	Short: "UCG — Universal Configuration Grammar",
	Long:  "ucg builds, tests, and inspects UCG sources: a small, statically type-inferred, purely functional configuration language.",

	// main prints the diagnostic and maps the exit code itself.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .ucg.yaml or .ucg.toml)")
	rootCmd.PersistentFlags().StringArrayVarP(&importRoots, "import-root", "I", nil, "add an import root (repeatable)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose diagnostic output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(buildCmd, testCmd, convertersCmd, inspectCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ucg")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	viper.SetEnvPrefix("UCG")
	viper.AutomaticEnv()
	// No config file is a legal default; ucg runs fine on flags alone.
	_ = viper.ReadInConfig()
}

// newDriver builds a driver.Driver from the process-wide converter registry
// and the import roots assembled from internal/config plus -I flags.
func newDriver() *driver.Driver {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Config{}
	}
	roots := append([]string{}, cfg.ImportRoots...)
	roots = append(roots, importRoots...)
	return driver.New(roots, converters)
}

// converters is the process-wide converter registry. No concrete format is
// bundled (spec §1 keeps JSON/YAML/TOML/XML/exec/flags out of core scope);
// a real deployment registers its converters here before Execute runs.
var converters = convert.NewRegistry()

// isUserError reports whether err originates from the language engine
// (lex/parse/type/arity/index/import/resource) or the converter boundary,
// as opposed to an internal/CLI-collaborator failure (I/O, bad flags).
func isUserError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*ucgerrors.Diagnostic); ok {
		return true
	}
	if _, ok := err.(*convert.ErrUnknownConverter); ok {
		return true
	}
	if _, ok := err.(*testsFailedError); ok {
		return true
	}
	return false
}
