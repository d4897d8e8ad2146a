package betadiv

import "math"

// Every kernel weights column n by the split weight w[n]. For presence data
// with unit weights they reduce to the textbook unweighted forms.

// brayCurtis: Σ|a-b| / Σ(a+b).
func brayCurtis(a, b, w []float64) float64 {
	var num, den float64
	for n := range a {
		num += math.Abs(a[n]-b[n]) * w[n]
		den += (a[n] + b[n]) * w[n]
	}
	return num / den
}

// canberra: Σ |a-b|/(a+b), skipping columns where both are zero.
func canberra(a, b, w []float64) float64 {
	var diss float64
	for n := range a {
		if den := a[n] + b[n]; den != 0 {
			diss += math.Abs(a[n]-b[n]) / den * w[n]
		}
	}
	return diss
}

// coefficientOfSimilarity: Σ |a-b|/max(a,b) over columns with max > 0.
func coefficientOfSimilarity(a, b, w []float64) float64 {
	var diss float64
	for n := range a {
		if m := max(a[n], b[n]); m > 0 {
			diss += math.Abs(a[n]-b[n]) / m * w[n]
		}
	}
	return diss
}

// completeTree: Σ|a-b| / Σ(max_n-min_n); 1 when no column varies.
func completeTree(a, b, w, lo, hi []float64) float64 {
	var num, den float64
	for n := range a {
		num += math.Abs(a[n]-b[n]) * w[n]
		den += (hi[n] - lo[n]) * w[n]
	}
	if den == 0 {
		return 1
	}
	return num / den
}

func euclidean(a, b, w []float64) float64 {
	var sum float64
	for n := range a {
		d := a[n] - b[n]
		sum += w[n] * d * d
	}
	return math.Sqrt(sum)
}

// gower: Σ |a-b|/(max_n-min_n) over columns with a positive range.
func gower(a, b, w, lo, hi []float64) float64 {
	var diss float64
	for n := range a {
		if r := hi[n] - lo[n]; r > 0 {
			diss += math.Abs(a[n]-b[n]) / r * w[n]
		}
	}
	return diss
}

// kulczynski: 1 - (Σmin/rowSumA + Σmin/rowSumB)/2.
func kulczynski(a, b, w []float64, rowSumA, rowSumB float64) float64 {
	var sumMin float64
	for n := range a {
		sumMin += min(a[n], b[n]) * w[n]
	}
	return 1 - 0.5*(sumMin/rowSumA+sumMin/rowSumB)
}

// lennonCD: min(B,C) / (min(B,C)+A) with A the shared and B, C the
// unshared parts of each sample.
func lennonCD(a, b, w []float64) float64 {
	var shared, onlyA, onlyB float64
	for n := range a {
		hi := max(a[n], b[n])
		shared += min(a[n], b[n]) * w[n]
		onlyA += (hi - b[n]) * w[n]
		onlyB += (hi - a[n]) * w[n]
	}
	m := min(onlyA, onlyB)
	return m / (m + shared)
}

func manhattan(a, b, w []float64) float64 {
	var sum float64
	for n := range a {
		sum += math.Abs(a[n]-b[n]) * w[n]
	}
	return sum
}

// morisitaHorn: 1 - 2Σab / ((Σa²/RA² + Σb²/RB²)·RA·RB) with RA, RB the
// weighted row sums.
func morisitaHorn(a, b, w []float64, rowSumA, rowSumB float64) float64 {
	var prod, sqA, sqB float64
	for n := range a {
		prod += a[n] * b[n] * w[n]
		sqA += a[n] * a[n] * w[n]
		sqB += b[n] * b[n] * w[n]
	}
	den := (sqA/(rowSumA*rowSumA) + sqB/(rowSumB*rowSumB)) * rowSumA * rowSumB
	return 1 - 2*prod/den
}

// soergel: Σ|a-b| / Σmax(a,b).
func soergel(a, b, w []float64) float64 {
	var num, den float64
	for n := range a {
		num += math.Abs(a[n]-b[n]) * w[n]
		den += max(a[n], b[n]) * w[n]
	}
	return num / den
}

// tamasCoefficient: Σ|a-b| / Σmax_n.
func tamasCoefficient(a, b, w, hi []float64) float64 {
	var num, den float64
	for n := range a {
		num += math.Abs(a[n]-b[n]) * w[n]
		den += hi[n] * w[n]
	}
	return num / den
}

// weightedCorrelation: one minus the split-weighted Pearson correlation of
// a and b. Column means come from the precomputed row sums; zero variance
// in either sample gives 0.
func weightedCorrelation(a, b, w []float64, rowSumA, rowSumB, total float64) float64 {
	meanA := rowSumA / total
	meanB := rowSumB / total

	var covAB, varA, varB float64
	for n := range a {
		da := a[n] - meanA
		db := b[n] - meanB
		covAB += w[n] * da * db
		varA += w[n] * da * da
		varB += w[n] * db * db
	}
	covAB /= total
	varA /= total
	varB /= total

	den := math.Sqrt(varA * varB)
	if den == 0 {
		return 0
	}
	return 1 - covAB/den
}

// yueClayton: 1 - Σab / Σ((a-b)² + ab).
func yueClayton(a, b, w []float64) float64 {
	var num, den float64
	for n := range a {
		p := a[n] * b[n]
		d := a[n] - b[n]
		num += p * w[n]
		den += (d*d + p) * w[n]
	}
	return 1 - num/den
}

// sum: Σ(a+b). Diagnostic.
func sum(a, b, w []float64) float64 {
	var s float64
	for n := range a {
		s += (a[n] + b[n]) * w[n]
	}
	return s
}

// extents: Σ(max_n-min_n). Diagnostic; independent of the pair.
func extents(w, lo, hi []float64) float64 {
	var s float64
	for n := range w {
		s += (hi[n] - lo[n]) * w[n]
	}
	return s
}
