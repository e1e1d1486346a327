package main

import (
	"fmt"
	"os"

	"github.com/ballastdev/ballast"
	"github.com/spf13/cobra"
)

var unsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Disable a key",
	Long: `Unset removes the key from the running store and comments its line
out in the env file, keeping the value around for later re-enabling.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		key := args[0]

		if !store.Set(";"+key, "", ballast.Persist()) {
			fmt.Fprintf(os.Stderr, "unset failed: %s\n", key)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(unsetCmd)
}
