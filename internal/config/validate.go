package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"dragonplug/internal/groups"
)

// Finding is one settings inspection result. Errors block a run; warnings
// are surfaced to the user and the run proceeds.
type Finding struct {
	Level      string // "error" or "warning"
	Message    string
	Suggestion string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s (%s)", f.Level, f.Message, f.Suggestion)
}

// ResolveGroupBounds returns the configured energy group boundaries:
// explicit bounds when given, otherwise the named catalog structure.
func (c *Config) ResolveGroupBounds() ([]float64, error) {
	if len(c.Dragon.GroupBounds) > 0 {
		return c.Dragon.GroupBounds, nil
	}
	return groups.Boundaries(c.Dragon.GroupStructure)
}

// Validate inspects the settings the way the host inspects plugin settings
// at startup. Nothing is validated when another kernel is selected.
func (c *Config) Validate() []Finding {
	if c.XsKernel != KernelName {
		return nil
	}

	var findings []Finding

	if _, err := exec.LookPath(c.Dragon.ExePath); err != nil {
		findings = append(findings, Finding{
			Level:      "warning",
			Message:    fmt.Sprintf("DRAGON executable %q not found", c.Dragon.ExePath),
			Suggestion: "update exe_path to the correct location",
		})
	}

	if _, err := os.Stat(c.Dragon.DataPath); err != nil {
		findings = append(findings, Finding{
			Level:      "warning",
			Message:    fmt.Sprintf("nuclear data file %q not found", c.Dragon.DataPath),
			Suggestion: "update data_path to the correct location",
		})
	}

	bounds, err := c.ResolveGroupBounds()
	if err != nil {
		findings = append(findings, Finding{
			Level:      "error",
			Message:    err.Error(),
			Suggestion: "choose a known group_structure or set group_bounds",
		})
	} else if len(bounds) > 33 {
		findings = append(findings, Finding{
			Level: "warning",
			Message: fmt.Sprintf("%d groups requested; DRAGON computes <400 fine groups "+
				"and maps poorly onto more than 33 broad groups", len(bounds)),
			Suggestion: "proceed with caution, or choose a structure with at most 33 groups",
		})
	}

	if strings.Contains(c.Dragon.DataPath, "7r0") {
		findings = append(findings, Finding{
			Level: "warning",
			Message: "ENDF/B-VII.0 selected, but Mo98 is absent from that library; " +
				"runs with any Mo in the system will likely fail",
			Suggestion: "switch to ENDF/B-VII.1 or ENDF/B-VIII.0, or remove Mo98 from the model",
		})
	}

	return findings
}

// Blocking reports whether any finding is an error.
func Blocking(findings []Finding) bool {
	for _, f := range findings {
		if f.Level == "error" {
			return true
		}
	}
	return false
}
