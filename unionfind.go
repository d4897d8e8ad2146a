package betadiv

// clusterSets tracks which dendrogram cluster each sample currently belongs
// to. Samples are clusters 0..n-1; each merge creates the next id, n and up,
// so storage covers 2n-1 clusters.
type clusterSets struct {
	parent []int // -1 marks a live cluster
	size   []int
	next   int
}

func newClusterSets(n int) *clusterSets {
	total := max(2*n-1, 1)
	cs := &clusterSets{
		parent: make([]int, total),
		size:   make([]int, total),
		next:   n,
	}
	for i := range cs.parent {
		cs.parent[i] = -1
	}
	for i := 0; i < n; i++ {
		cs.size[i] = 1
	}
	return cs
}

// find returns the live cluster containing x, compressing the path.
func (cs *clusterSets) find(x int) int {
	root := x
	for cs.parent[root] != -1 {
		root = cs.parent[root]
	}
	for cs.parent[x] != -1 {
		x, cs.parent[x] = cs.parent[x], root
	}
	return root
}

// merge joins two live clusters under a new cluster id and returns it.
func (cs *clusterSets) merge(a, b int) int {
	id := cs.next
	cs.next++
	cs.size[id] = cs.size[a] + cs.size[b]
	cs.parent[a] = id
	cs.parent[b] = id
	return id
}
