package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getDefault string

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the value of a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		key := args[0]

		v, ok := store.Get(key)
		if !ok {
			if cmd.Flags().Changed("default") {
				fmt.Println(getDefault)
				return
			}
			fmt.Fprintf(os.Stderr, "key not set: %s\n", key)
			os.Exit(1)
		}
		fmt.Println(v.Encode())
	},
}

func init() {
	getCmd.Flags().StringVar(&getDefault, "default", "", "value to print when the key is not set")
	rootCmd.AddCommand(getCmd)
}
