// Package groups provides named energy group structures for lattice runs.
//
// Boundaries are group upper bounds in eV, ordered from highest to lowest
// energy. DRAGON assumes the lowest bound is 0 eV and the top bound is the
// highest fine-group boundary of the nuclear data library, so the deck
// carries inner boundaries only.
//
// Whether the external code expects ascending or descending bounds depends
// on the code version; this package preserves whatever order the structure
// defines and never reorders user-supplied bounds.
package groups

import (
	"fmt"
	"math"
	"sort"
)

// topEnergyEV is the upper bound of the ANL equal-lethargy structures.
const topEnergyEV = 1.4190675e7

// anl returns an n-group ANL-style structure: equal lethargy width 0.5
// descending from the top fast-reactor boundary.
func anl(n int) []float64 {
	bounds := make([]float64, n)
	for i := 0; i < n; i++ {
		bounds[i] = topEnergyEV * math.Exp(-0.5*float64(i))
	}
	return bounds
}

var catalog = map[string]func() []float64{
	"ANL33": func() []float64 { return anl(33) },
}

// Names lists the built-in structure names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Boundaries returns the group upper bounds for a named structure.
func Boundaries(name string) ([]float64, error) {
	gen, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown group structure %q (have %v)", name, Names())
	}
	return gen(), nil
}

// Inner drops the top boundary: DRAGON infers it from the library.
func Inner(bounds []float64) []float64 {
	if len(bounds) == 0 {
		return nil
	}
	inner := make([]float64, len(bounds)-1)
	copy(inner, bounds[1:])
	return inner
}
