package betadiv

import (
	"errors"
	"testing"
)

func TestParseMeasure_Aliases(t *testing.T) {
	tests := []struct {
		name string
		want Measure
	}{
		{"Bray-Curtis", BrayCurtis},
		{"BC", BrayCurtis},
		{"BrayCurtis", BrayCurtis},
		{"NWU", BrayCurtis},
		{"Normalized weighted UniFrac", BrayCurtis},
		{"Normalized Weighted UniFrac", BrayCurtis},
		{"NormalizedWeightedUniFrac", BrayCurtis},
		{"Canberra", Canberra},
		{"CS", CoefficientOfSimilarity},
		{"Complete Tree", CompleteTree},
		{"CT", CompleteTree},
		{"Euclidean", Euclidean},
		{"Gower", Gower},
		{"Kulczynski", Kulczynski},
		{"Lennon", LennonCompositionalDifference},
		{"LCD", LennonCompositionalDifference},
		{"Manhattan", Manhattan},
		{"MH", MorisitaHorn},
		{"Morisita-Horn", MorisitaHorn},
		{"Ruzicka", Soergel},
		{"Soergel", Soergel},
		{"TC", TamasCoefficient},
		{"WC", WeightedCorrelation},
		{"Weighted correlation", WeightedCorrelation},
		{"YC", YueClayton},
		{"Yue-Clayton", YueClayton},
		{"Sum", Sum},
		{"Extents", Extents},
	}
	for _, tc := range tests {
		got, err := ParseMeasure(tc.name)
		if err != nil {
			t.Errorf("ParseMeasure(%q): %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMeasure(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseMeasure_Errors(t *testing.T) {
	if _, err := ParseMeasure(""); !errors.Is(err, ErrEmptyMeasure) {
		t.Errorf("empty name: err = %v, want ErrEmptyMeasure", err)
	}
	for _, name := range []string{"bray-curtis", "bc", "UniFrac", "Jaccard"} {
		if _, err := ParseMeasure(name); !errors.Is(err, ErrUnknownMeasure) {
			t.Errorf("%q: err = %v, want ErrUnknownMeasure", name, err)
		}
	}
}

func TestMeasures_RoundTripNames(t *testing.T) {
	all := Measures()
	if len(all) != 16 {
		t.Fatalf("len(Measures()) = %d, want 16", len(all))
	}
	for _, m := range all {
		got, err := ParseMeasure(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMeasure(%q) = %v, %v; want %v", m.String(), got, err, m)
		}
		for _, a := range m.Aliases() {
			if got, _ := ParseMeasure(a); got != m {
				t.Errorf("alias %q resolves to %v, want %v", a, got, m)
			}
		}
	}
}

func TestMeasure_Diagnostics(t *testing.T) {
	for _, m := range Measures() {
		want := m == Sum || m == Extents
		if m.IsDiagnostic() != want {
			t.Errorf("%v.IsDiagnostic() = %v", m, m.IsDiagnostic())
		}
	}
	if Measure(99).String() != "Measure(99)" {
		t.Errorf("out-of-range String = %q", Measure(99).String())
	}
}

func TestMeasure_Requirements(t *testing.T) {
	tests := []struct {
		m    Measure
		want requirement
	}{
		{BrayCurtis, 0},
		{CompleteTree, needExtents},
		{Gower, needExtents},
		{TamasCoefficient, needExtents},
		{Extents, needExtents},
		{Kulczynski, needRowSums},
		{MorisitaHorn, needRowSums},
		{WeightedCorrelation, needRowSums | needTotalWeight},
		{Euclidean, 0},
	}
	for _, tc := range tests {
		if got := tc.m.requires(); got != tc.want {
			t.Errorf("%v.requires() = %b, want %b", tc.m, got, tc.want)
		}
	}
}
