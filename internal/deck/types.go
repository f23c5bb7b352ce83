// Package deck renders DRAGON input decks from in-memory mixture data.
//
// The renderer is a pure text transformation: it performs no I/O and is
// callable without any host framework. The DRAGON input language is
// fixed-column (72-character statements, comments introduced by '*', no
// tabs), so column alignment here is a correctness requirement, not
// cosmetics.
package deck

import (
	"path/filepath"
	"strconv"
)

// MaxLibIDChars is the widest DRAGLIB isotope identifier the fixed-width
// nuclide line can carry.
const MaxLibIDChars = 7

// MaxNameChars is the widest host-side nuclide name the nuclide line can
// carry.
const MaxNameChars = 5

// MaxXsIDChars is the widest cross-section id suffix on a nuclide line.
const MaxXsIDChars = 2

// MaxLibNameChars limits the nuclear data file name referenced from a deck.
// DRAGON cannot open library files with longer names.
const MaxLibNameChars = 8

// MaxLineChars is the DRAGON statement column limit. Comment lines are
// exempt.
const MaxLineChars = 72

// Nuclide is one isotope within a mixture, ready for deck output.
type Nuclide struct {
	Name       string  // host-side label, e.g. "U235"
	XsID       string  // cross-section id suffix appended to the name
	LibID      string  // DRAGLIB identifier, e.g. "Am242m"
	Density    float64 // number density, atoms/b-cm
	SelfShield string  // resonant region index; empty = no self-shielding
}

// Mixture is one homogenized material composition. Mixtures are read-only
// to the renderer and ordered: deck MIX indices are their 1-based positions.
type Mixture struct {
	TemperatureK float64
	Nuclides     []Nuclide
}

// Options carries the per-run numeric controls substituted into the deck.
type Options struct {
	// GroupBounds are inner group boundaries in eV, emitted verbatim in the
	// given order. The renderer cannot tell ascending from descending
	// conventions apart and deliberately does not reorder.
	GroupBounds []float64

	// CriticalBuckling selects the buckling-search keyword sequence in the
	// flux solution instead of the plain eigenvalue sequence.
	CriticalBuckling bool

	// NucData is the library file name referenced by the deck (short form,
	// at most MaxLibNameChars characters).
	NucData string

	// NucDataComment is the full library path, echoed into a comment for
	// traceability only.
	NucDataComment string
}

// ShortLibName returns the trailing MaxLibNameChars characters of the data
// file's base name, the form a deck can legally reference.
func ShortLibName(path string) string {
	base := filepath.Base(path)
	if len(base) <= MaxLibNameChars {
		return base
	}
	return base[len(base)-MaxLibNameChars:]
}

// SelfShieldIndex applies the default resonance treatment rule: heavy
// metals always self-shield, and anything in a reasonably dense mixture
// does too. The index is the mixture's 1-based position so each mixture
// gets its own fine-group flux.
func SelfShieldIndex(heavyMetal bool, mixtureDensity float64, mixIndex int) string {
	if heavyMetal || mixtureDensity > 1e-4 {
		return strconv.Itoa(mixIndex + 1)
	}
	return ""
}
