package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dragonplug/internal/groups"
)

var groupsCmd = &cobra.Command{
	Use:   "groups [name]",
	Short: "List energy group structures or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range groups.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}
		bounds, err := groups.Boundaries(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d boundaries (eV)\n", args[0], len(bounds))
		for _, b := range bounds {
			fmt.Fprintf(cmd.OutOrStdout(), "  %.6E\n", b)
		}
		return nil
	},
}

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dragonplug version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dragonplug %s\n", version)
	},
}
