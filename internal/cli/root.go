// Package cli implements the resmerge command line tool.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "resmerge",
	Version: "dev",
	Short:   "Diff, package, and merge game resource mods",
	Long: `resmerge packages modified game resources as structural diffs against a
base game dump and merges any number of such packages into one output,
resolving overlapping edits by load order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion overrides the build version shown by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the root command and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

// newLogger returns the logger for merge internals. Quiet by default; -v
// turns on the development logger.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log merge internals")
	rootCmd.AddCommand(infoCmd, packCmd, diffCmd, mergeCmd)
}
