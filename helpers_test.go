package betadiv

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tol
}

// sameFloat is bitwise equality that also matches NaN with NaN.
func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// memSource is an in-memory SampleSource.
type memSource struct {
	samples      []string
	seqs         []string
	counts       [][]float64 // [sample][sequence]
	outgroup     int
	outgroupSeqs []string
}

func newMemSource(seqs []string) *memSource {
	return &memSource{seqs: seqs, outgroup: -1}
}

func (m *memSource) add(name string, counts ...float64) *memSource {
	if len(counts) != len(m.seqs) {
		panic(fmt.Sprintf("sample %s: %d counts for %d sequences", name, len(counts), len(m.seqs)))
	}
	m.samples = append(m.samples, name)
	m.counts = append(m.counts, counts)
	return m
}

// withOutgroup appends an outgroup sample row made of the named sequences,
// which are not part of the ingroup universe.
func (m *memSource) withOutgroup(seqs ...string) *memSource {
	m.outgroup = len(m.samples)
	m.outgroupSeqs = seqs
	m.samples = append(m.samples, "outgroup")
	m.counts = append(m.counts, make([]float64, len(m.seqs)))
	return m
}

func (m *memSource) NumSamples() int         { return len(m.samples) }
func (m *memSource) SampleName(i int) string { return m.samples[i] }

func (m *memSource) Counts(i int) ([]float64, float64, error) {
	c := append([]float64(nil), m.counts[i]...)
	var total float64
	for _, v := range c {
		total += v
	}
	return c, total, nil
}

func (m *memSource) HasOutgroup() bool           { return m.outgroup >= 0 }
func (m *memSource) OutgroupSample() int         { return m.outgroup }
func (m *memSource) OutgroupSequences() []string { return m.outgroupSeqs }
func (m *memSource) NumSequences() int           { return len(m.seqs) }

func (m *memSource) SequenceID(name string) (int, bool) {
	for i, s := range m.seqs {
		if s == name {
			return i, true
		}
	}
	return 0, false
}

// simpleTree is (A:1,(B:1,C:1):1);
func simpleTree() *Tree {
	t := NewTree("")
	t.AddChild(t.Root(), "A", 1)
	bc := t.AddChild(t.Root(), "", 1)
	t.AddChild(bc, "B", 1)
	t.AddChild(bc, "C", 1)
	return t
}

// simpleSystem pairs simpleTree with three samples holding one of A, B and C
// each.
func simpleSystem() *SplitSystem {
	src := newMemSource([]string{"A", "B", "C"}).
		add("S0", 1, 0, 0).
		add("S1", 0, 1, 0).
		add("S2", 0, 0, 1)
	ss := NewSplitSystem(src)
	if _, err := ss.AddTree(simpleTree()); err != nil {
		panic(err)
	}
	return ss
}

// randomTree joins numTaxa leaves named T0.. into a random binary tree with
// positive branch lengths.
func randomTree(rng *rand.Rand, numTaxa int) *Tree {
	// Join bottom-up as nested descriptions, then materialize top-down.
	type desc struct {
		name     string
		children []*desc
		dist     float64
	}
	pool := make([]*desc, numTaxa)
	for i := range pool {
		pool[i] = &desc{name: fmt.Sprintf("T%d", i), dist: rng.Float64()*2 + 1e-3}
	}
	for len(pool) > 1 {
		i := rng.Intn(len(pool))
		a := pool[i]
		pool = append(pool[:i], pool[i+1:]...)
		j := rng.Intn(len(pool))
		b := pool[j]
		pool[j] = &desc{children: []*desc{a, b}, dist: rng.Float64()*2 + 1e-3}
	}

	t := NewTree("")
	var build func(d *desc, parent NodeID)
	build = func(d *desc, parent NodeID) {
		id := t.AddChild(parent, d.name, d.dist)
		for _, c := range d.children {
			build(c, id)
		}
	}
	for _, c := range pool[0].children {
		build(c, t.Root())
	}
	return t
}

// randomSource gives numSamples samples over taxa T0.. with random counts;
// every sample holds at least one sequence.
func randomSource(rng *rand.Rand, numTaxa, numSamples int) *memSource {
	seqs := make([]string, numTaxa)
	for i := range seqs {
		seqs[i] = fmt.Sprintf("T%d", i)
	}
	src := newMemSource(seqs)
	for s := 0; s < numSamples; s++ {
		counts := make([]float64, numTaxa)
		for k := range counts {
			if rng.Float64() < 0.4 {
				counts[k] = float64(rng.Intn(20))
			}
		}
		counts[rng.Intn(numTaxa)] += 1
		src.add(fmt.Sprintf("S%d", s), counts...)
	}
	return src
}

// bruteForce computes the full lower triangle without blocking.
func bruteForce(t testing.TB, c *Calculator) [][]float64 {
	n := c.ss.NumSamples()
	vecs, err := c.dataVectors(0, n)
	if err != nil {
		t.Fatal(err)
	}
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, i)
		for j := 0; j < i; j++ {
			out[i][j] = c.measure.dissimilarity(vecs[i], vecs[j], i, j, &c.agg)
		}
	}
	return out
}
