package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dragonplug/internal/config"
	"dragonplug/internal/deck"
)

type recordingRegistrar struct {
	name   string
	solver Solver
	err    error
}

func (r *recordingRegistrar) RegisterLatticeSolver(name string, s Solver) error {
	if r.err != nil {
		return r.err
	}
	r.name = name
	r.solver = s
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dataPath := filepath.Join(t.TempDir(), "draglibendfb7r1SHEM361")
	if err := os.WriteFile(dataPath, []byte("fake draglib"), 0o644); err != nil {
		t.Fatal(err)
	}
	exePath := filepath.Join(t.TempDir(), "dragon")
	script := "#!/bin/sh\ncat > /dev/null\necho 'normal end'\nprintf 'XS' > ISOTXS000001\n"
	if err := os.WriteFile(exePath, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Dragon.ExePath = exePath
	cfg.Dragon.DataPath = dataPath
	cfg.Dragon.GroupBounds = []float64{1.0e7, 1.0e5}
	cfg.Execution.WorkRoot = t.TempDir()
	return cfg
}

func exampleRequest() SolveRequest {
	return SolveRequest{
		Region: "core-fuel-1",
		XsID:   "AA",
		Mixtures: []deck.Mixture{{
			TemperatureK: 900.0,
			Nuclides: []deck.Nuclide{
				{Name: "U235", XsID: "1", LibID: "U235", Density: 0.0012345, SelfShield: "1"},
			},
		}},
	}
}

func TestRegister(t *testing.T) {
	p, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	reg := &recordingRegistrar{}
	if err := p.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.name != HookName {
		t.Errorf("registered as %q, want %q", reg.name, HookName)
	}
	if reg.solver == nil {
		t.Error("no solver registered")
	}
}

func TestRegisterInertForOtherKernel(t *testing.T) {
	cfg := testConfig(t)
	cfg.XsKernel = "MC2"
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	reg := &recordingRegistrar{}
	if err := p.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.solver != nil {
		t.Error("plugin should stay inert for other kernels")
	}
}

func TestRegisterBlockingSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dragon.GroupBounds = nil
	cfg.Dragon.GroupStructure = "NOPE"
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	err = p.Register(&recordingRegistrar{})
	var rerr *RegistrationError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want *RegistrationError", err)
	}
}

func TestRegisterHostRejection(t *testing.T) {
	p, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	err = p.Register(&recordingRegistrar{err: errors.New("hook signature mismatch")})
	var rerr *RegistrationError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want *RegistrationError", err)
	}
}

func TestSolveEndToEnd(t *testing.T) {
	p, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	res, err := p.Solve(context.Background(), exampleRequest())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	deckText, err := os.ReadFile(res.DeckPath)
	if err != nil {
		t.Fatalf("reading deck: %v", err)
	}
	if !strings.Contains(string(deckText), "MIX 1 900.000000") {
		t.Errorf("deck missing mixture card:\n%s", deckText)
	}
	// Explicit bounds [1e7 1e5]: the top bound is implied by the library,
	// so only the inner one appears.
	if !strings.Contains(string(deckText), "1.000000E+05") {
		t.Errorf("deck missing inner group boundary:\n%s", deckText)
	}
	if strings.Contains(string(deckText), "1.000000E+07") {
		t.Errorf("top boundary should have been dropped:\n%s", deckText)
	}

	if _, err := os.Stat(res.ISOTXSPath); err != nil {
		t.Errorf("missing ISOTXS artifact: %v", err)
	}
	if filepath.Base(res.ISOTXSPath) != "ISOAA" {
		t.Errorf("artifact named %q, want ISOAA", filepath.Base(res.ISOTXSPath))
	}
	if _, err := os.Stat(res.LogPath); err != nil {
		t.Errorf("missing run log: %v", err)
	}
}

func TestSolveRenderFailureBeforeAnyWrite(t *testing.T) {
	p, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	req := exampleRequest()
	req.Mixtures = nil
	_, err = p.Solve(context.Background(), req)
	var rerr *deck.RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want *deck.RenderError", err)
	}
}

func TestSolveIsolatesConcurrentInvocations(t *testing.T) {
	p, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	a, err := p.Solve(context.Background(), exampleRequest())
	if err != nil {
		t.Fatalf("first Solve: %v", err)
	}
	b, err := p.Solve(context.Background(), exampleRequest())
	if err != nil {
		t.Fatalf("second Solve: %v", err)
	}
	if a.ISOTXSPath == b.ISOTXSPath {
		t.Error("two invocations shared an artifact path")
	}
}
