// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the processed-paper dedup cache",
	Long: `Cache shows what the dedup cache currently holds. Papers listed here
are skipped by future digest runs even when a source returns them again.`,
}

var cacheCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of cached paper IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := openCache(cmd).Load()
		fmt.Println(len(ids))
		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all cached paper IDs, one per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := openCache(cmd).Load()
		sorted := make([]string, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)
		for _, id := range sorted {
			fmt.Println(id)
		}
		return nil
	},
}

func openCache(cmd *cobra.Command) *cache.Cache {
	path, _ := cmd.Flags().GetString("cache-path")
	return cache.New(path, zerolog.Nop())
}

func init() {
	cacheCmd.PersistentFlags().String("cache-path", "", "dedup cache file (default \"processed_papers_cache.json\")")

	cacheCmd.AddCommand(cacheCountCmd)
	cacheCmd.AddCommand(cacheListCmd)

	rootCmd.AddCommand(cacheCmd)
}
