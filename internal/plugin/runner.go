package plugin

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"dragonplug/internal/logging"
)

// Runner fans independent solve requests out over a worker pool. One
// request failing does not cancel its siblings; every outcome is reported
// to the sink and the host decides what a partial failure means.
type Runner struct {
	Solver      Solver
	Sink        ResultSink
	MaxParallel int // <= 0 means unbounded
}

// RunAll executes every request and reports each outcome. The returned
// error summarizes failures; per-request detail goes through the sink.
func (r *Runner) RunAll(ctx context.Context, reqs []SolveRequest) error {
	log := logging.For(logging.CategoryPlugin)
	log.Infow("running lattice solves", "requests", len(reqs), "max_parallel", r.MaxParallel)

	var g errgroup.Group
	if r.MaxParallel > 0 {
		g.SetLimit(r.MaxParallel)
	}

	var failures atomic.Int64
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			res, err := r.Solver.Solve(ctx, req)
			if err != nil {
				failures.Add(1)
				log.Warnw("lattice solve failed", "region", req.Region, "error", err)
				if r.Sink != nil {
					r.Sink.SolveFailed(req, err)
				}
				return nil
			}
			if r.Sink != nil {
				r.Sink.SolveSucceeded(res)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; they report through the sink

	if n := failures.Load(); n > 0 {
		return fmt.Errorf("%d of %d lattice solves failed", n, len(reqs))
	}
	return nil
}
