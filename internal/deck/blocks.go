package deck

import (
	"fmt"
	"strings"
)

// Each output block has its own formatting function so blocks can be tested
// byte-for-byte in isolation. The template only decides where blocks go.

// mixtureBlock emits the MIX cards for every mixture, 1-indexed in input
// order. Temperatures are Kelvin with six decimals.
func mixtureBlock(mixtures []Mixture) string {
	var b strings.Builder
	for i, mix := range mixtures {
		fmt.Fprintf(&b, "  MIX %d %.6f\n", i+1, mix.TemperatureK)
		for _, nuc := range mix.Nuclides {
			b.WriteString(nuclideLine(nuc))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// nuclideLine formats one isotope entry with the fixed-width alignment the
// DRAGON parser requires: name right-justified to 5, xs-id suffix padded to
// 2, DRAGLIB id right-justified to 7, density %.6E, shield index
// right-justified to 3.
func nuclideLine(n Nuclide) string {
	line := fmt.Sprintf("  %5s%-2s %7s %.6E %3s",
		n.Name, n.XsID, n.LibID, n.Density, n.SelfShield)
	return strings.TrimRight(line, " ")
}

// fluxTypeKeywords selects between the two flux solution keyword
// sequences. There is no third option and no default.
func fluxTypeKeywords(buckling bool) string {
	if buckling {
		return "TYPE B B1 SIGS"
	}
	return "TYPE K"
}

// boundaryBlock emits one line per group boundary, preserving input order
// exactly. DRAGON reads ordering as energy-group indexing, so any
// reordering here would silently corrupt the physics downstream.
func boundaryBlock(bounds []float64) string {
	var b strings.Builder
	for _, bound := range bounds {
		fmt.Fprintf(&b, "  %.6E\n", bound)
	}
	return b.String()
}
