package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload and report changes as the env file is edited",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := openStore()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		snapshots, errs, err := store.Watch(ctx)
		if err != nil {
			return err
		}

		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return nil
				}
				fmt.Printf("v%d %s: %s\n", snap.Version, snap.Cause, strings.Join(snap.Changed, ", "))
			case err, ok := <-errs:
				if !ok {
					return nil
				}
				logger.Warn("watch error", "error", err)
			case <-ctx.Done():
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
