package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/usharma123/ShellHacks2025/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the request cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache configuration and hit counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Printf("Directory: %s\n", cfg.Cache.Dir)
		fmt.Printf("Persistent tier: %v\n", !cfg.Cache.Disabled)
		if ttl := cfg.Cache.TTL(); ttl > 0 {
			fmt.Printf("TTL: %s\n", ttl)
		} else {
			fmt.Println("TTL: entries never go stale")
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		c := cache.New(cfg.Cache.Dir, cfg.Cache.TTL(), cfg.Cache.Disabled)
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		color.Green("Cleared cache at %s", c.Dir())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
