package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the local unit cache",
	}

	cacheCmd.AddCommand(newCacheInitCommand(ctx))
	cacheCmd.AddCommand(newCacheSizeCommand(ctx))
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the cache directory layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cache ready at %s\n", manager.Root())
			return nil
		},
	}
}

func newCacheSizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Print the total size of the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatBytes(manager.Size()))
			return nil
		},
	}
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage and free space",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			stats := manager.Stats()
			rows := [][]string{
				{"Cached units", fmt.Sprintf("%d", stats.UnitCount)},
				{"Cache size", formatBytes(stats.TotalBytes)},
				{"Disk free", formatBytes(int64(stats.FreeBytes))},
				{"Disk total", formatBytes(int64(stats.TotalFSBytes))},
				{"Free ratio", fmt.Sprintf("%.1f%%", stats.FreeRatio*100)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached unit, image, and sidecar list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("cache clear removes all cached data; rerun with --force to confirm")
			}
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			if !manager.Clear() {
				return fmt.Errorf("clear cache at %s", manager.Root())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation requirement")
	return cmd
}
