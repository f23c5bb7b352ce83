package deck

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed dragon0d.tmpl
var deckTemplateSrc string

var deckTemplate = template.Must(
	template.New("dragon0d").Funcs(template.FuncMap{
		"mixtureBlock":  mixtureBlock,
		"fluxType":      fluxTypeKeywords,
		"boundaryBlock": boundaryBlock,
	}).Parse(deckTemplateSrc),
)

// templateData is the substitution payload handed to the deck template.
type templateData struct {
	Mixtures       []Mixture
	Buckling       bool
	GroupBounds    []float64
	NucData        string
	NucDataComment string
}

// Render produces a complete DRAGON input deck. It is deterministic and has
// no side effects; the caller decides where (and whether) to persist the
// result. Any input that cannot be expressed in the fixed-column format
// yields a *RenderError and no output.
func Render(mixtures []Mixture, opts Options) ([]byte, error) {
	if err := validateInputs(mixtures, opts); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err := deckTemplate.Execute(&buf, templateData{
		Mixtures:       mixtures,
		Buckling:       opts.CriticalBuckling,
		GroupBounds:    opts.GroupBounds,
		NucData:        opts.NucData,
		NucDataComment: opts.NucDataComment,
	})
	if err != nil {
		return nil, fmt.Errorf("executing deck template: %w", err)
	}

	if err := checkColumns(buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func validateInputs(mixtures []Mixture, opts Options) error {
	if len(mixtures) == 0 {
		// The format has no null-mixture keyword; an empty library
		// definition is not a legal deck.
		return renderErrorf("mixture list is empty")
	}
	for mi, mix := range mixtures {
		for _, nuc := range mix.Nuclides {
			if len(nuc.LibID) > MaxLibIDChars {
				return renderErrorf("mixture %d: DRAGLIB id %q exceeds %d characters",
					mi+1, nuc.LibID, MaxLibIDChars)
			}
			if len(nuc.Name) > MaxNameChars {
				return renderErrorf("mixture %d: nuclide name %q exceeds %d characters",
					mi+1, nuc.Name, MaxNameChars)
			}
			if len(nuc.XsID) > MaxXsIDChars {
				return renderErrorf("mixture %d: xs id %q exceeds %d characters",
					mi+1, nuc.XsID, MaxXsIDChars)
			}
		}
	}
	if opts.NucData == "" {
		return renderErrorf("nuclear data file name is empty")
	}
	if len(opts.NucData) > MaxLibNameChars {
		return renderErrorf("nuclear data file name %q exceeds %d characters",
			opts.NucData, MaxLibNameChars)
	}
	return nil
}

// checkColumns enforces the DRAGON statement limits on the rendered text:
// 72 columns outside comments, and no tab characters anywhere.
func checkColumns(deck []byte) error {
	for i, line := range strings.Split(string(deck), "\n") {
		if strings.ContainsRune(line, '\t') {
			return renderErrorf("line %d contains a tab character", i+1)
		}
		if strings.HasPrefix(line, "*") || strings.HasPrefix(line, "!") {
			continue
		}
		if len(line) > MaxLineChars {
			return renderErrorf("line %d exceeds %d columns: %q", i+1, MaxLineChars, line)
		}
	}
	return nil
}
