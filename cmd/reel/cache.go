package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached catalog listings",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached listing so the next load hits TMDB",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		a.catalog.InvalidateAll()
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Listing cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
