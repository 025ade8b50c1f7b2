package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecentCommand(ctx *commandContext) *cobra.Command {
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "Manage the recently-used unit list",
	}

	recentCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show recently-used units, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			printUnitList(cmd, "Recently used", manager.RecentlyUsed())
			return nil
		},
	})

	recentCmd.AddCommand(&cobra.Command{
		Use:   "add <unit-id>",
		Short: "Record a unit as recently used",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			if !manager.AddRecentlyUsed(args[0]) {
				return fmt.Errorf("record %s as recently used", args[0])
			}
			return nil
		},
	})

	recentCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the recently-used list",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			if !manager.ClearRecentlyUsed() {
				return fmt.Errorf("clear recently-used list")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Recently-used list cleared")
			return nil
		},
	})

	return recentCmd
}

func newFavoritesCommand(ctx *commandContext) *cobra.Command {
	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage the favorites unit list",
	}

	favoritesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show favorite units",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			printUnitList(cmd, "Favorites", manager.Favorites())
			return nil
		},
	})

	favoritesCmd.AddCommand(&cobra.Command{
		Use:   "add <unit-id>",
		Short: "Mark a unit as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			if !manager.AddFavorite(args[0]) {
				return fmt.Errorf("add %s to favorites", args[0])
			}
			return nil
		},
	})

	favoritesCmd.AddCommand(&cobra.Command{
		Use:   "remove <unit-id>",
		Short: "Remove a unit from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			if !manager.RemoveFavorite(args[0]) {
				return fmt.Errorf("remove %s from favorites", args[0])
			}
			return nil
		},
	})

	favoritesCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the favorites list",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.cacheManager()
			if err != nil {
				return err
			}
			if !manager.ClearFavorites() {
				return fmt.Errorf("clear favorites list")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Favorites cleared")
			return nil
		},
	})

	return favoritesCmd
}

func printUnitList(cmd *cobra.Command, title string, unitIDs []string) {
	out := cmd.OutOrStdout()
	for _, line := range sectionHeading(out, title) {
		fmt.Fprintln(out, line)
	}
	if len(unitIDs) == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	for i, id := range unitIDs {
		fmt.Fprintf(out, "%2d. %s\n", i+1, id)
	}
}
