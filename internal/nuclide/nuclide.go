// Package nuclide maps host-side nuclide labels onto DRAGLIB identifiers.
//
// Host labels are upper-case element symbol + mass number + optional
// metastable marker ("U235", "NA23", "AM242M"). DRAGLIB names are case
// sensitive ("U235", "Na23", "Am242m"), so the conversion matters.
package nuclide

import (
	"fmt"
	"strconv"
	"strings"
)

// Nuclide is one isotope identified by element and mass number.
type Nuclide struct {
	Symbol     string // canonical element symbol, e.g. "Am"
	A          int    // mass number; 0 for a natural element
	Metastable bool
}

// Parse decodes a host nuclide label.
func Parse(label string) (Nuclide, error) {
	s := strings.TrimSpace(strings.ToUpper(label))
	if s == "" {
		return Nuclide{}, fmt.Errorf("empty nuclide label")
	}

	meta := false
	if strings.HasSuffix(s, "M") && hasDigit(s) {
		meta = true
		s = strings.TrimSuffix(s, "M")
	}

	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	sym, digits := s[:i], s[i:]

	z, ok := atomicNumbers[sym]
	if !ok {
		return Nuclide{}, fmt.Errorf("unknown element symbol in nuclide label %q", label)
	}

	a := 0
	if digits != "" {
		var err error
		a, err = strconv.Atoi(digits)
		if err != nil {
			return Nuclide{}, fmt.Errorf("bad mass number in nuclide label %q", label)
		}
	}
	if meta && a == 0 {
		return Nuclide{}, fmt.Errorf("metastable marker without mass number in %q", label)
	}

	return Nuclide{Symbol: symbols[z], A: a, Metastable: meta}, nil
}

// Z returns the atomic number.
func (n Nuclide) Z() int {
	return atomicNumbers[strings.ToUpper(n.Symbol)]
}

// DragLibID returns the DRAGLIB isotope name for this nuclide, e.g. "Am242m".
// DRAGLIB names are compatible with the libraries published at
// https://www.polymtl.ca/merlin/libraries.htm.
func (n Nuclide) DragLibID() string {
	id := n.Symbol
	if n.A > 0 {
		id += strconv.Itoa(n.A)
	}
	if n.Metastable {
		id += "m"
	}
	return id
}

// HostLabel returns the short host-side label, at most five characters.
// Labels that do not fit drop the hundreds digit of the mass number, so
// AM242M becomes AM42M.
func (n Nuclide) HostLabel() string {
	sym := strings.ToUpper(n.Symbol)
	label := sym
	if n.A > 0 {
		label += strconv.Itoa(n.A)
	}
	if n.Metastable {
		label += "M"
	}
	if len(label) <= 5 {
		return label
	}
	short := sym + strconv.Itoa(n.A%100)
	if n.Metastable {
		short += "M"
	}
	return short
}

// IsHeavyMetal reports whether the nuclide is an actinide (actinium and
// above). Heavy metals always get a self-shielding treatment.
func (n Nuclide) IsHeavyMetal() bool {
	return n.Z() >= 89
}

func hasDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}
