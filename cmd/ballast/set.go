package main

import (
	"fmt"
	"os"

	"github.com/ballastdev/ballast"
	"github.com/spf13/cobra"
)

var setNoPersist bool

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a key, persisting to the env file",
	Long: `Set writes a typed value into the store and, unless --no-persist is
given, rewrites the env file in place. Prefixing the key with ';' disables
the entry instead.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		key, value := args[0], args[1]

		opts := []ballast.SetOption{ballast.Persist()}
		if setNoPersist {
			opts = nil
		}
		if !store.Set(key, value, opts...) {
			fmt.Fprintf(os.Stderr, "set failed: %s\n", key)
			os.Exit(1)
		}
	},
}

func init() {
	setCmd.Flags().BoolVar(&setNoPersist, "no-persist", false, "update the running store only")
	rootCmd.AddCommand(setCmd)
}
