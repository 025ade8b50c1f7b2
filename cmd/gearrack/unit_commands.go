package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gearrack/internal/catalog"
)

func newUnitsCommand(ctx *commandContext) *cobra.Command {
	unitsCmd := &cobra.Command{
		Use:   "units",
		Short: "Browse and fetch gear units",
	}

	unitsCmd.AddCommand(newUnitsListCommand(ctx))
	unitsCmd.AddCommand(newUnitsSearchCommand(ctx))
	unitsCmd.AddCommand(newUnitsFetchCommand(ctx))

	return unitsCmd
}

func newUnitsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogued units",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(index *catalog.Index) error {
				entries, err := index.List(cmd.Context())
				if err != nil {
					return err
				}
				printEntries(cmd, entries)
				return nil
			})
		},
	}
}

func newUnitsSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search catalogued units by name, category, or id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(index *catalog.Index) error {
				entries, err := index.Search(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printEntries(cmd, entries)
				return nil
			})
		},
	}
}

func printEntries(cmd *cobra.Command, entries []catalog.Entry) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No units found")
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.UnitID,
			entry.Name,
			entry.Category,
			entry.Version,
			entry.CachedAt.Format("2006-01-02 15:04"),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Unit", "Name", "Category", "Version", "Cached"}, rows, nil))
}

func newUnitsFetchCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "fetch <unit-id>...",
		Short: "Download unit definitions into the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, cleanup, err := ctx.newLibrary()
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if refresh {
				if lib.Refresh(cmd.Context()) {
					fmt.Fprintln(out, "Library index refreshed")
				} else {
					fmt.Fprintln(out, "Library index refresh failed; proceeding with cached data")
				}
			}

			var failed []string
			for _, id := range args {
				item := lib.EnsureUnit(cmd.Context(), id)
				if item == nil {
					failed = append(failed, id)
					fmt.Fprintf(out, "%-24s fetch failed\n", id)
					continue
				}
				fmt.Fprintf(out, "%-24s %s (schema: %s)\n", item.UnitID, item.Name, yesNo(item.HasSchema()))
			}
			if len(failed) > 0 {
				return fmt.Errorf("failed to fetch: %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh the remote library index first")
	return cmd
}
