package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"gearrack/internal/rack"
)

func newPresetCommand(ctx *commandContext) *cobra.Command {
	presetCmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage stored rack presets",
	}

	presetCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}
			names := manager.PresetNames()
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No presets stored")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	})

	presetCmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print the state tree stored in a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}
			tree, ok := manager.LoadPreset(args[0])
			if !ok {
				return fmt.Errorf("load preset %q: %s", args[0], manager.LastError())
			}
			printStateNode(cmd.OutOrStdout(), tree, 0)
			return nil
		},
	})

	presetCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}
			if !manager.DeletePreset(args[0]) {
				return fmt.Errorf("delete preset %q: %s", args[0], manager.LastError())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %s\n", args[0])
			return nil
		},
	})

	return presetCmd
}

func printStateNode(out io.Writer, node *rack.StateNode, depth int) {
	if node == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(out, "%s%s\n", indent, node.Name)

	keys := make([]string, 0, len(node.Properties))
	for key := range node.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "%s  %s = %s\n", indent, key, node.Properties[key])
	}
	for _, child := range node.Children {
		printStateNode(out, child, depth+1)
	}
}
