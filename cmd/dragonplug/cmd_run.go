package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dragonplug/internal/casefile"
	"dragonplug/internal/config"
	"dragonplug/internal/plugin"
)

// loadRequests turns case files into solve requests. The region label is
// the case name, falling back to the file path.
func loadRequests(paths []string) ([]plugin.SolveRequest, error) {
	reqs := make([]plugin.SolveRequest, 0, len(paths))
	for _, path := range paths {
		c, err := casefile.Load(path)
		if err != nil {
			return nil, err
		}
		mixtures, err := c.DeckMixtures()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		region := c.Name
		if region == "" {
			region = path
		}
		reqs = append(reqs, plugin.SolveRequest{
			Region:   region,
			XsID:     c.XsID,
			Mixtures: mixtures,
		})
	}
	return reqs, nil
}

var runCmd = &cobra.Command{
	Use:   "run [case.yaml ...]",
	Short: "Render and execute DRAGON for one or more cases",
	Long: `Runs the full pipeline for each case file: render the deck, execute
DRAGON in a private working directory, and report where the ISOTXS and
output listing landed. Cases run concurrently up to execution.max_parallel.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCases,
}

// printSink reports solve outcomes to the terminal.
type printSink struct {
	out func(format string, a ...any)
}

func (s *printSink) SolveSucceeded(res *plugin.SolveResult) {
	cached := ""
	if res.Cached {
		cached = " (cached)"
	}
	s.out("✓ %s: %s%s\n", res.Region, res.ISOTXSPath, cached)
}

func (s *printSink) SolveFailed(req plugin.SolveRequest, err error) {
	s.out("✗ %s: %v\n", req.Region, err)
}

func runCases(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted, stopping solves")
			cancel()
		case <-done:
		}
	}()

	findings := cfg.Validate()
	for _, f := range findings {
		fmt.Fprintln(cmd.ErrOrStderr(), f)
	}
	if config.Blocking(findings) {
		return fmt.Errorf("configuration errors prevent running")
	}

	reqs, err := loadRequests(args)
	if err != nil {
		return err
	}

	p, err := plugin.New(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	runner := &plugin.Runner{
		Solver: p,
		Sink: &printSink{out: func(format string, a ...any) {
			fmt.Fprintf(cmd.OutOrStdout(), format, a...)
		}},
		MaxParallel: cfg.Execution.MaxParallel,
	}
	return runner.RunAll(ctx, reqs)
}
