package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/goleak"

	"dragonplug/internal/config"
	"dragonplug/internal/logging"
)

const testCase = `
name: test fuel
xs_id: AA
mixtures:
  - temperature_k: 900.0
    nuclides:
      - name: U235
        density: 0.0012345
      - name: U238
        density: 0.008
`

func writeCase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.yaml")
	if err := os.WriteFile(path, []byte(testCase), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cfg = config.Default()
	if err := logging.Init(logging.Config{}); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func TestRunRender(t *testing.T) {
	cmd, out := newTestCmd(t)
	if err := runRender(cmd, []string{writeCase(t)}); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	deck := out.String()
	if !strings.Contains(deck, "MIX 1 900.000000") {
		t.Errorf("deck missing mixture card:\n%s", deck)
	}
	if !strings.Contains(deck, "U235AA") {
		t.Errorf("deck missing nuclide line:\n%s", deck)
	}
}

func TestRunRenderToFile(t *testing.T) {
	cmd, out := newTestCmd(t)
	dest := filepath.Join(t.TempDir(), "deck.x2m")
	renderOut = dest
	defer func() { renderOut = "" }()

	if err := runRender(cmd, []string{writeCase(t)}); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if !strings.Contains(out.String(), "Wrote") {
		t.Errorf("expected confirmation, got: %s", out.String())
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("deck file: %v", err)
	}
	if !strings.Contains(string(data), "END: ;") {
		t.Error("deck file missing terminator")
	}
}

func TestLoadRequests(t *testing.T) {
	reqs, err := loadRequests([]string{writeCase(t)})
	if err != nil {
		t.Fatalf("loadRequests: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if reqs[0].Region != "test fuel" {
		t.Errorf("region = %q", reqs[0].Region)
	}
	if reqs[0].XsID != "AA" {
		t.Errorf("xsid = %q", reqs[0].XsID)
	}
}

func TestRunCasesMissingFile(t *testing.T) {
	// The interrupt watcher must exit with the command, not linger.
	defer goleak.VerifyNone(t)

	cmd, _ := newTestCmd(t)
	cmd.SetContext(context.Background())
	err := runCases(cmd, []string{filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Fatal("expected error for missing case file")
	}
}

func TestRunValidateDefaults(t *testing.T) {
	cmd, out := newTestCmd(t)
	// Defaults point at an executable and data file that do not exist
	// here, so findings are warnings, never blocking errors.
	if err := runValidate(cmd, nil); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected at least one finding on a bare machine")
	}
}

func TestGroupsCommand(t *testing.T) {
	cmd, out := newTestCmd(t)
	if err := groupsCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("groups list: %v", err)
	}
	if !strings.Contains(out.String(), "ANL33") {
		t.Errorf("expected ANL33 in listing, got: %s", out.String())
	}

	out.Reset()
	if err := groupsCmd.RunE(cmd, []string{"ANL33"}); err != nil {
		t.Fatalf("groups ANL33: %v", err)
	}
	if !strings.Contains(out.String(), "33 boundaries") {
		t.Errorf("expected 33 boundaries, got: %s", out.String())
	}
}
