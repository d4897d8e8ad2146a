package betadiv

import (
	"log/slog"
	"math"
)

// Edge joins samples A and B of a spanning tree.
type Edge struct {
	A, B   int
	Weight float64
}

// PrimMST computes a minimum spanning tree over n samples with Prim's
// algorithm on a dense dissimilarity function. Returns n-1 edges in the
// order their B endpoint joined the tree. Pairs whose dissimilarity is NaN
// (e.g. two empty samples under a ratio measure) are never preferred; if a
// sample is reachable only through them it is attached with a NaN edge and
// a warning is logged.
func PrimMST(n int, dist func(i, j int) float64, logger *slog.Logger) []Edge {
	if n <= 1 {
		return nil
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	inTree := make([]bool, n)
	best := make([]float64, n)
	from := make([]int, n)

	inTree[0] = true
	for j := 1; j < n; j++ {
		best[j] = dist(0, j)
		from[j] = 0
	}

	edges := make([]Edge, 0, n-1)
	undefined := 0

	for i := 0; i < n-1; i++ {
		minDist := math.Inf(1)
		minNode := -1
		for j := 0; j < n; j++ {
			if inTree[j] || math.IsNaN(best[j]) {
				continue
			}
			if minNode == -1 || best[j] < minDist {
				minDist = best[j]
				minNode = j
			}
		}

		// Only NaN candidates remain.
		if minNode == -1 {
			for j := 0; j < n; j++ {
				if !inTree[j] {
					minNode = j
					minDist = best[j]
					break
				}
			}
			undefined++
		}

		edges = append(edges, Edge{A: from[minNode], B: minNode, Weight: minDist})
		inTree[minNode] = true

		for k := 0; k < n; k++ {
			if inTree[k] {
				continue
			}
			d := dist(minNode, k)
			if d < best[k] || (math.IsNaN(best[k]) && !math.IsNaN(d)) {
				best[k] = d
				from[k] = minNode
			}
		}
	}

	if undefined > 0 {
		logger.Warn("spanning tree has undefined edge weights", "edges", undefined)
	}
	return edges
}
