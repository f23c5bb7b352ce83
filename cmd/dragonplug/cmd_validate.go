package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dragonplug/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Inspect the configuration and environment",
	Long: `Checks the active configuration the way a run would: the DRAGON
executable, the nuclear data file, and the group structure. Warnings are
informational; errors would block 'dragonplug run'.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	findings := cfg.Validate()
	if len(findings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration OK")
		return nil
	}
	for _, f := range findings {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	if config.Blocking(findings) {
		return fmt.Errorf("configuration has blocking errors")
	}
	return nil
}
