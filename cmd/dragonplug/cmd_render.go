package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dragonplug/internal/casefile"
	"dragonplug/internal/deck"
	"dragonplug/internal/groups"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render [case.yaml]",
	Short: "Render a DRAGON input deck without running it",
	Long: `Renders the input deck for one case file and writes it to stdout
or to --out. Nothing is executed; use this to inspect what DRAGON would
be fed.

A case file names an optional two character cross-section suffix and a
list of mixtures:

  name: inner core fuel
  xs_id: AA
  mixtures:
    - temperature_k: 900.0
      nuclides:
        - name: U235
          density: 0.0012345`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Write the deck to this file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	c, err := casefile.Load(args[0])
	if err != nil {
		return err
	}
	mixtures, err := c.DeckMixtures()
	if err != nil {
		return err
	}

	bounds, err := cfg.ResolveGroupBounds()
	if err != nil {
		return err
	}
	deckBytes, err := deck.Render(mixtures, deck.Options{
		GroupBounds:      groups.Inner(bounds),
		CriticalBuckling: cfg.Dragon.CriticalBuckling,
		NucData:          deck.ShortLibName(cfg.Dragon.DataPath),
		NucDataComment:   cfg.Dragon.DataPath,
	})
	if err != nil {
		return err
	}

	if renderOut == "" {
		_, err = cmd.OutOrStdout().Write(deckBytes)
		return err
	}
	if err := os.WriteFile(renderOut, deckBytes, 0o644); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", renderOut, len(deckBytes))
	return nil
}
