// Command ballast inspects and edits .env files with typed values.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/ballastdev/ballast"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	envPath string
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ballast",
	Short: "Typed .env configuration store",
	Long: `ballast reads, edits, and exports .env files with typed values.

Numeric values become ints or floats, true/enable and false/disable become
booleans, [a,b,c] becomes a list. Keys can be disabled in place and changes
persist back to the file without disturbing unrelated lines.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	},
}

// openStore loads the configured env file. A missing file is fatal: every
// subcommand needs the base environment to exist.
func openStore() *ballast.Store {
	return ballast.MustOpen(envPath, ballast.WithLogger(logger))
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&envPath, "file", "f", ".env", "path to the env file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
