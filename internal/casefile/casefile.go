// Package casefile loads standalone lattice cases from YAML.
//
// Inside a host framework the composition snapshot comes from the host's
// reactor model; the case file is the CLI's substitute, so decks can be
// generated and run without any host process.
package casefile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dragonplug/internal/deck"
	"dragonplug/internal/nuclide"
)

// Case is one standalone solve description.
type Case struct {
	Name     string        `yaml:"name"`
	XsID     string        `yaml:"xs_id"`
	Mixtures []MixtureSpec `yaml:"mixtures"`
}

// MixtureSpec is one material composition in the case file.
type MixtureSpec struct {
	TemperatureK float64       `yaml:"temperature_k"`
	Nuclides     []NuclideSpec `yaml:"nuclides"`
}

// NuclideSpec is one isotope entry. LibID and SelfShield are usually left
// blank and derived; set them to override.
type NuclideSpec struct {
	Name    string  `yaml:"name"`    // host label, e.g. U235 or AM242M
	Density float64 `yaml:"density"` // atoms/b-cm

	// LibID overrides the derived DRAGLIB identifier.
	LibID string `yaml:"lib_id"`

	// SelfShield: "" applies the default rule, "none" disables, anything
	// else is used verbatim as the resonant region index.
	SelfShield string `yaml:"self_shield"`
}

// Load reads and decodes a case file.
func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	var c Case
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing case file %s: %w", path, err)
	}
	if c.XsID == "" {
		c.XsID = "AA"
	}
	return &c, nil
}

// DeckMixtures converts the case into renderer mixtures, deriving DRAGLIB
// identifiers and self-shielding indices where the file left them blank.
func (c *Case) DeckMixtures() ([]deck.Mixture, error) {
	mixtures := make([]deck.Mixture, 0, len(c.Mixtures))
	for mi, spec := range c.Mixtures {
		total := 0.0
		for _, n := range spec.Nuclides {
			total += n.Density
		}

		mix := deck.Mixture{TemperatureK: spec.TemperatureK}
		for _, n := range spec.Nuclides {
			base, err := nuclide.Parse(n.Name)
			if err != nil {
				return nil, fmt.Errorf("mixture %d: %w", mi+1, err)
			}

			libID := n.LibID
			if libID == "" {
				libID = base.DragLibID()
			}

			var shield string
			switch n.SelfShield {
			case "":
				shield = deck.SelfShieldIndex(base.IsHeavyMetal(), total, mi)
			case "none":
				shield = ""
			default:
				shield = n.SelfShield
			}

			mix.Nuclides = append(mix.Nuclides, deck.Nuclide{
				Name:       base.HostLabel(),
				XsID:       c.XsID,
				LibID:      libID,
				Density:    n.Density,
				SelfShield: shield,
			})
		}
		mixtures = append(mixtures, mix)
	}
	return mixtures, nil
}
