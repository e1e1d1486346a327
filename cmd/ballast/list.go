package main

import (
	"strings"

	"github.com/ballastdev/ballast"
	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

var listRedact bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all keys with types and origins",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()

		headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
		tbl := table.New("Key", "Type", "Value", "Origin")
		tbl.WithHeaderFormatter(headerFmt)

		for _, key := range store.Keys() {
			v, _ := store.Get(key)
			origin, _ := store.Origin(key)

			display := v.String()
			if listRedact && isSecretKey(key) {
				display = "***redacted***"
			}
			tbl.AddRow(key, v.Kind().String(), display, origin)
		}

		tbl.Print()
	},
}

func isSecretKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range ballast.DefaultRedactPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

func init() {
	listCmd.Flags().BoolVar(&listRedact, "redact", false, "hide values of secret-looking keys")
	rootCmd.AddCommand(listCmd)
}
