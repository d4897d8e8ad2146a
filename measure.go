package betadiv

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMeasure is returned when no measure name is given.
	ErrEmptyMeasure = errors.New("betadiv: no measure specified")

	// ErrUnknownMeasure is returned for a name that matches no measure or alias.
	ErrUnknownMeasure = errors.New("betadiv: unknown measure")
)

// Measure identifies one beta-diversity dissimilarity measure.
type Measure int

const (
	BrayCurtis Measure = iota
	Canberra
	CoefficientOfSimilarity
	CompleteTree
	Euclidean
	Gower
	Kulczynski
	LennonCompositionalDifference
	Manhattan
	MorisitaHorn
	Soergel
	TamasCoefficient
	WeightedCorrelation
	YueClayton
	// Sum and Extents are diagnostics, not dissimilarities.
	Sum
	Extents

	numMeasures
)

// requirement flags the shared aggregates a measure reads.
type requirement uint8

const (
	needExtents requirement = 1 << iota
	needRowSums
	needTotalWeight
)

type measureInfo struct {
	name    string
	aliases []string
	aka     string
}

var measureTable = [numMeasures]measureInfo{
	BrayCurtis: {
		name: "Bray-Curtis",
		aliases: []string{"BC", "BrayCurtis",
			"Normalized weighted UniFrac", "NWU", "NormalizedWeightedUniFrac", "Normalized Weighted UniFrac"},
		aka: "Sorensen, PhyloSor, Dice's index, pairwise Whittaker; weighted: normalized weighted UniFrac, percentage difference",
	},
	Canberra:                {name: "Canberra"},
	CoefficientOfSimilarity: {name: "Coefficient of similarity", aliases: []string{"CS", "CoefficientOfSimilarity"}},
	CompleteTree:            {name: "Complete tree", aliases: []string{"CT", "CompleteTree", "Complete Tree"}},
	Euclidean:               {name: "Euclidean"},
	Gower:                   {name: "Gower"},
	Kulczynski:              {name: "Kulczynski", aka: "Kulczynski-Cody, Sokal-Sneath"},
	LennonCompositionalDifference: {
		name: "Lennon compositional difference", aliases: []string{"Lennon", "LCD"},
	},
	Manhattan:    {name: "Manhattan", aka: "Hamming distance; weighted: weighted UniFrac"},
	MorisitaHorn: {name: "Morisita-Horn", aliases: []string{"MH", "MorisitaHorn"}},
	Soergel: {
		name: "Soergel", aliases: []string{"Ruzicka"},
		aka: "unweighted UniFrac, Jaccard; weighted: Ruzicka, Marczewski-Steinhaus, percentage remoteness",
	},
	TamasCoefficient:    {name: "Tamas coefficient", aliases: []string{"TC", "TamasCoefficient"}, aka: "simple matching coefficient"},
	WeightedCorrelation: {name: "Weighted correlation", aliases: []string{"WC", "WeightedCorrelation"}},
	YueClayton:          {name: "Yue-Clayton", aliases: []string{"YC", "YueClayton"}, aka: "similarity ratio"},
	Sum:                 {name: "Sum"},
	Extents:             {name: "Extents"},
}

// measureByName maps every canonical name and alias to its measure.
var measureByName = func() map[string]Measure {
	m := make(map[string]Measure)
	for i, info := range measureTable {
		m[info.name] = Measure(i)
		for _, a := range info.aliases {
			m[a] = Measure(i)
		}
	}
	return m
}()

// ParseMeasure resolves a case-sensitive measure name or alias.
func ParseMeasure(name string) (Measure, error) {
	if name == "" {
		return 0, ErrEmptyMeasure
	}
	m, ok := measureByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMeasure, name)
	}
	return m, nil
}

// Measures returns every measure in declaration order.
func Measures() []Measure {
	out := make([]Measure, numMeasures)
	for i := range out {
		out[i] = Measure(i)
	}
	return out
}

// String returns the canonical name.
func (m Measure) String() string {
	if m < 0 || m >= numMeasures {
		return fmt.Sprintf("Measure(%d)", int(m))
	}
	return measureTable[m].name
}

// Aliases returns the alternative names accepted by ParseMeasure.
func (m Measure) Aliases() []string {
	return append([]string(nil), measureTable[m].aliases...)
}

// AlsoKnownAs returns the other names the measure goes by in the
// literature, or "".
func (m Measure) AlsoKnownAs() string { return measureTable[m].aka }

// IsDiagnostic reports whether m is a diagnostic rather than a dissimilarity.
func (m Measure) IsDiagnostic() bool { return m == Sum || m == Extents }

func (m Measure) requires() requirement {
	switch m {
	case CompleteTree, Gower, TamasCoefficient, Extents:
		return needExtents
	case Kulczynski, MorisitaHorn:
		return needRowSums
	case WeightedCorrelation:
		return needRowSums | needTotalWeight
	default:
		return 0
	}
}

// dissimilarity evaluates m for the feature vectors of analysis samples i
// and j.
func (m Measure) dissimilarity(a, b []float64, i, j int, agg *aggregates) float64 {
	w := agg.weights
	switch m {
	case BrayCurtis:
		return brayCurtis(a, b, w)
	case Canberra:
		return canberra(a, b, w)
	case CoefficientOfSimilarity:
		return coefficientOfSimilarity(a, b, w)
	case CompleteTree:
		return completeTree(a, b, w, agg.minExtent, agg.maxExtent)
	case Euclidean:
		return euclidean(a, b, w)
	case Gower:
		return gower(a, b, w, agg.minExtent, agg.maxExtent)
	case Kulczynski:
		return kulczynski(a, b, w, agg.rowSums[i], agg.rowSums[j])
	case LennonCompositionalDifference:
		return lennonCD(a, b, w)
	case Manhattan:
		return manhattan(a, b, w)
	case MorisitaHorn:
		return morisitaHorn(a, b, w, agg.rowSums[i], agg.rowSums[j])
	case Soergel:
		return soergel(a, b, w)
	case TamasCoefficient:
		return tamasCoefficient(a, b, w, agg.maxExtent)
	case WeightedCorrelation:
		return weightedCorrelation(a, b, w, agg.rowSums[i], agg.rowSums[j], agg.totalWeight)
	case YueClayton:
		return yueClayton(a, b, w)
	case Sum:
		return sum(a, b, w)
	case Extents:
		return extents(w, agg.minExtent, agg.maxExtent)
	default:
		panic(fmt.Sprintf("betadiv: unhandled measure %d", int(m)))
	}
}
