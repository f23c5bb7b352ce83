package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dragonplug/internal/cache"
	"dragonplug/internal/config"
	"dragonplug/internal/deck"
	"dragonplug/internal/executor"
	"dragonplug/internal/groups"
	"dragonplug/internal/logging"
)

// HookName is the capability name this plugin registers under.
const HookName = "lattice-physics/dragon"

// Plugin wires the deck renderer and executor into a host-invokable
// solver. One Plugin serves many concurrent solve requests; it holds no
// per-request state.
type Plugin struct {
	cfg     *config.Config
	factory *Factory
	cache   *cache.Cache
}

// New builds a plugin from settings, with the stock DRAGON components
// registered under the default kernel key.
func New(cfg *config.Config) (*Plugin, error) {
	f := NewFactory()
	if err := f.RegisterWriter(config.KernelName, deck.Render); err != nil {
		return nil, err
	}
	err := f.RegisterExecuter(config.KernelName, func(opts executor.Options, c *cache.Cache) Executer {
		return executor.New(opts, c)
	})
	if err != nil {
		return nil, err
	}
	f.SetKey(config.KernelName)

	p := &Plugin{cfg: cfg, factory: f}

	if cfg.Cache.Enabled {
		path := cfg.Cache.Path
		if path == "" {
			root := cfg.Execution.WorkRoot
			if root == "" {
				root = os.TempDir()
			}
			path = filepath.Join(root, "dragon-cache.db")
		}
		c, err := cache.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening output cache: %w", err)
		}
		p.cache = c
	}
	return p, nil
}

// Factory exposes the component registry so applications can register
// design-specific writers or executers before the first solve.
func (p *Plugin) Factory() *Factory {
	return p.factory
}

// Close releases plugin resources.
func (p *Plugin) Close() error {
	return p.cache.Close()
}

// Register attaches the solve hook to the host. The plugin stays inert
// when another cross-section kernel is selected; a blocking settings
// finding or a rejected hook is a *RegistrationError, fatal at startup.
func (p *Plugin) Register(r Registrar) error {
	log := logging.For(logging.CategoryPlugin)
	if p.cfg.XsKernel != config.KernelName {
		log.Infow("kernel not selected, plugin inert", "kernel", p.cfg.XsKernel)
		return nil
	}

	findings := p.cfg.Validate()
	for _, f := range findings {
		log.Warnw("settings inspection", "level", f.Level, "message", f.Message)
	}
	if config.Blocking(findings) {
		return &RegistrationError{Hook: HookName,
			Err: errors.New("settings inspection found blocking problems")}
	}

	if err := r.RegisterLatticeSolver(HookName, p); err != nil {
		return &RegistrationError{Hook: HookName, Err: err}
	}
	log.Infow("lattice physics hook registered", "hook", HookName)
	return nil
}

// Solve renders the deck for one composition snapshot, runs the external
// code, and reports the produced artifacts. The lifecycle is strictly
// request, render, execute, report, once; failures surface immediately
// with no retry and no partial results.
func (p *Plugin) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	log := logging.For(logging.CategoryPlugin)
	log.Infow("lattice solve requested", "region", req.Region, "xsid", req.XsID)

	bounds, err := p.cfg.ResolveGroupBounds()
	if err != nil {
		return nil, err
	}

	writer, err := p.factory.MakeWriter()
	if err != nil {
		return nil, err
	}
	deckBytes, err := writer(req.Mixtures, deck.Options{
		GroupBounds:      groups.Inner(bounds),
		CriticalBuckling: p.cfg.Dragon.CriticalBuckling,
		NucData:          deck.ShortLibName(p.cfg.Dragon.DataPath),
		NucDataComment:   p.cfg.Dragon.DataPath,
	})
	if err != nil {
		return nil, err
	}

	// Each invocation gets its own directory: DRAGON's output names are
	// fixed by convention, so sharing one would collide.
	root := p.cfg.Execution.WorkRoot
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating work root: %w", err)
	}
	invDir, err := os.MkdirTemp(root, "case-"+req.XsID+"-")
	if err != nil {
		return nil, fmt.Errorf("creating invocation directory: %w", err)
	}

	deckPath := filepath.Join(invDir, "dragon"+req.XsID+".x2m")
	if err := os.WriteFile(deckPath, deckBytes, 0o644); err != nil {
		return nil, fmt.Errorf("writing deck: %w", err)
	}
	logging.For(logging.CategoryRender).Infow("deck written",
		"path", deckPath, "mixtures", len(req.Mixtures))

	ex, err := p.factory.MakeExecuter(executor.Options{
		ExePath:     p.cfg.Dragon.ExePath,
		DataPath:    p.cfg.Dragon.DataPath,
		WorkRoot:    p.cfg.Execution.WorkRoot,
		XsID:        req.XsID,
		Timeout:     p.cfg.SubprocessTimeout(),
		KeepWorkDir: p.cfg.Execution.KeepWorkDir,
	}, p.cache)
	if err != nil {
		return nil, err
	}

	res, err := ex.Run(ctx, deckPath)
	if err != nil {
		return nil, err
	}

	return &SolveResult{
		Region:     req.Region,
		XsID:       req.XsID,
		DeckPath:   deckPath,
		ISOTXSPath: res.ISOTXSPath,
		LogPath:    res.LogPath,
		Cached:     res.Cached,
		Elapsed:    res.Elapsed,
	}, nil
}
