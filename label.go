package betadiv

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyMatrix is returned when clustering a matrix with no samples.
var ErrEmptyMatrix = errors.New("betadiv: matrix has no samples")

// Merge is one step of a single-linkage dendrogram: clusters Left and Right
// join at Height into a cluster of Size samples. Samples are clusters
// 0..n-1; the merge at index k creates cluster n+k.
type Merge struct {
	Left, Right int
	Height      float64
	Size        int
}

// Label turns spanning-tree edges over n samples into single-linkage merges,
// lowest edge first. Edges with NaN weight merge last.
func Label(edges []Edge, n int) []Merge {
	if len(edges) == 0 {
		return nil
	}

	sorted := append([]Edge(nil), edges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Weight, sorted[j].Weight
		return a < b || (!math.IsNaN(a) && math.IsNaN(b))
	})

	cs := newClusterSets(n)
	merges := make([]Merge, 0, len(sorted))
	for _, e := range sorted {
		a := cs.find(e.A)
		b := cs.find(e.B)
		id := cs.merge(a, b)
		merges = append(merges, Merge{Left: a, Right: b, Height: e.Weight, Size: cs.size[id]})
	}
	return merges
}

// Cluster builds a single-linkage dendrogram of the matrix's samples. Leaves
// are named after samples; an internal node sits at the dissimilarity where
// its two subtrees merged, and each branch length is the parent's height
// minus the child's.
func Cluster(lt *LowerTriangle) (*Tree, error) {
	n := lt.Len()
	if n == 0 {
		return nil, ErrEmptyMatrix
	}
	if n == 1 {
		return NewTree(lt.Name(0)), nil
	}

	merges := Label(PrimMST(n, lt.At, nil), n)

	height := func(cluster int) float64 {
		if cluster < n {
			return 0
		}
		return merges[cluster-n].Height
	}
	label := func(cluster int) string {
		if cluster < n {
			return lt.Name(cluster)
		}
		return ""
	}

	t := NewTree("")
	top := n + len(merges) - 1
	type pending struct {
		cluster int
		node    NodeID
	}
	stack := []pending{{cluster: top, node: t.Root()}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m := merges[p.cluster-n]
		for _, child := range [2]int{m.Left, m.Right} {
			id := t.AddChild(p.node, label(child), m.Height-height(child))
			if child >= n {
				stack = append(stack, pending{cluster: child, node: id})
			}
		}
	}
	return t, nil
}
