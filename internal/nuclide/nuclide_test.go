package nuclide

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		label string
		want  Nuclide
	}{
		{"U235", Nuclide{Symbol: "U", A: 235}},
		{"NA23", Nuclide{Symbol: "Na", A: 23}},
		{"AM242M", Nuclide{Symbol: "Am", A: 242, Metastable: true}},
		{"am242m", Nuclide{Symbol: "Am", A: 242, Metastable: true}},
		{"FE56", Nuclide{Symbol: "Fe", A: 56}},
		{"C", Nuclide{Symbol: "C"}},
		{"ZR90", Nuclide{Symbol: "Zr", A: 90}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.label)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.label, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.label, got, tt.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, label := range []string{"", "Q999", "235", "XX12"} {
		if _, err := Parse(label); err == nil {
			t.Errorf("Parse(%q) should have failed", label)
		}
	}
}

func TestDragLibID(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"U235", "U235"},
		{"NA23", "Na23"},
		{"AM242M", "Am242m"},
		{"C", "C"},
	}
	for _, tt := range tests {
		n, err := Parse(tt.label)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.label, err)
		}
		if got := n.DragLibID(); got != tt.want {
			t.Errorf("DragLibID(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestHostLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"U235", "U235"},
		{"PU239", "PU239"},
		{"AM242M", "AM42M"},
		{"NA23", "NA23"},
		{"C", "C"},
	}
	for _, tt := range tests {
		n, err := Parse(tt.label)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.label, err)
		}
		if got := n.HostLabel(); got != tt.want {
			t.Errorf("HostLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestIsHeavyMetal(t *testing.T) {
	hm := []string{"TH232", "U235", "U238", "PU239", "AM242M"}
	for _, label := range hm {
		n, _ := Parse(label)
		if !n.IsHeavyMetal() {
			t.Errorf("%s should be heavy metal", label)
		}
	}
	light := []string{"NA23", "FE56", "ZR90", "PB208"}
	for _, label := range light {
		n, _ := Parse(label)
		if n.IsHeavyMetal() {
			t.Errorf("%s should not be heavy metal", label)
		}
	}
}
