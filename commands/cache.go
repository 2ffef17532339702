package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yswstools/hackreview/internal/config"
	"github.com/yswstools/hackreview/internal/data/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local heartbeat and source cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached heartbeat days and source files",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if err := initRuntime(); err != nil {
		return err
	}

	dir := config.Get().CacheDir
	store, err := cache.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println("Cache cleared.")
	return nil
}
