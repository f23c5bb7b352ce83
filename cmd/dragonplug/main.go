package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dragonplug/internal/config"
	"dragonplug/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	workRoot   string
	timeout    time.Duration

	// Loaded in PersistentPreRunE, available to every subcommand.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dragonplug",
	Short: "DRAGON lattice physics driver",
	Long: `dragonplug renders DRAGON input decks from material compositions,
runs the DRAGON executable in isolated working directories, and collects
the ISOTXS cross-section artifacts it produces.

Cases are described in YAML files; see 'dragonplug render --help' for the
layout. Configuration comes from a config file plus DRAGONPLUG_* environment
overrides.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if workRoot != "" {
			cfg.Execution.WorkRoot = workRoot
		}
		if timeout > 0 {
			cfg.Execution.Timeout = timeout.String()
		}

		logCfg := cfg.Logging
		if verbose {
			logCfg.Debug = true
		}
		if err := logging.Init(logCfg); err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workRoot, "work-root", "w", "", "Override the execution work root")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Override the per-subprocess timeout")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
