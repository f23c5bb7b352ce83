// Package plugin exposes the lattice physics capability to a host
// reactor-modeling framework.
//
// The host side is abstract on purpose: registration and result reporting
// go through small interfaces, so the renderer and executor stay usable
// without any host at all (the CLI drives them the same way).
package plugin

import (
	"context"
	"time"

	"dragonplug/internal/deck"
)

// SolveRequest asks for one lattice physics solve over a composition
// snapshot. Requests are self-contained; concurrent requests share no
// mutable state.
type SolveRequest struct {
	// Region labels the block/region this solve represents.
	Region string

	// XsID is the cross-section id; it names the returned artifact.
	XsID string

	// Mixtures is the composition snapshot, already in renderer form.
	// Order is meaningful: it fixes the deck MIX indices.
	Mixtures []deck.Mixture
}

// SolveResult references the produced artifacts on success.
type SolveResult struct {
	Region     string
	XsID       string
	DeckPath   string
	ISOTXSPath string // binary cross-section library, opaque to this plugin
	LogPath    string
	Cached     bool
	Elapsed    time.Duration
}

// Solver is the physics-coupling hook the host invokes.
type Solver interface {
	Solve(ctx context.Context, req SolveRequest) (*SolveResult, error)
}

// SolverFunc adapts a function to the Solver interface.
type SolverFunc func(ctx context.Context, req SolveRequest) (*SolveResult, error)

func (f SolverFunc) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	return f(ctx, req)
}

// Registrar is the host's plugin manager surface: the one call this
// plugin needs from it.
type Registrar interface {
	RegisterLatticeSolver(name string, s Solver) error
}

// ResultSink is the host's result-reporting interface. Implementations
// must be safe for concurrent use; the runner reports from worker
// goroutines.
type ResultSink interface {
	SolveSucceeded(res *SolveResult)
	SolveFailed(req SolveRequest, err error)
}

// RegistrationError means the plugin could not attach to the host. It is
// fatal at startup.
type RegistrationError struct {
	Hook string
	Err  error
}

func (e *RegistrationError) Error() string {
	return "registering " + e.Hook + ": " + e.Err.Error()
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
