package main

import (
	"fmt"
	"os"

	"github.com/ballastdev/ballast"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportRedact bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the store as env, JSON, YAML, or TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()

		var opts []ballast.ExportOption
		switch exportFormat {
		case "env":
			opts = append(opts, ballast.AsEnv())
		case "json":
			opts = append(opts, ballast.AsJSON())
		case "yaml":
			opts = append(opts, ballast.AsYAML())
		case "toml":
			opts = append(opts, ballast.AsTOML())
		default:
			return fmt.Errorf("unknown format: %s", exportFormat)
		}
		if exportRedact {
			opts = append(opts, ballast.WithRedaction())
		}

		if exportOut != "" {
			return store.ExportFile(exportOut, opts...)
		}
		return store.Export(os.Stdout, opts...)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "env", "output format: env, json, yaml, toml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout (atomic)")
	exportCmd.Flags().BoolVar(&exportRedact, "redact", false, "redact secret-looking keys")
	rootCmd.AddCommand(exportCmd)
}
