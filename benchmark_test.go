package betadiv

import (
	"io"
	"math/rand"
	"testing"
)

func generateBenchSystem(numTaxa, numSamples int) *SplitSystem {
	rng := rand.New(rand.NewSource(42))
	tree := randomTree(rng, numTaxa)
	src := randomSource(rng, numTaxa, numSamples)
	ss := NewSplitSystem(src)
	if _, err := ss.AddTree(tree); err != nil {
		panic(err)
	}
	return ss
}

// --- Dissimilarity ---

func benchDissimilarity(b *testing.B, numSamples, maxDataVecs, workers int) {
	b.Helper()
	ss := generateBenchSystem(200, numSamples)
	cfg := DefaultConfig()
	cfg.Measure = "BC"
	cfg.Weighted = true
	cfg.MaxDataVecs = maxDataVecs
	cfg.Workers = workers
	c, err := NewCalculator(ss, cfg)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Dissimilarity(io.Discard); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDissimilarity_100(b *testing.B)  { benchDissimilarity(b, 100, 1000, 1) }
func BenchmarkDissimilarity_500(b *testing.B)  { benchDissimilarity(b, 500, 1000, 1) }
func BenchmarkDissimilarity_1000(b *testing.B) { benchDissimilarity(b, 1000, 1000, 1) }

func BenchmarkDissimilarity_1000_Blocked(b *testing.B) { benchDissimilarity(b, 1000, 100, 1) }
func BenchmarkDissimilarity_1000_Parallel(b *testing.B) {
	benchDissimilarity(b, 1000, 1000, 4)
}

// --- Measures needing aggregates ---

func benchMeasure(b *testing.B, measure string) {
	b.Helper()
	ss := generateBenchSystem(200, 300)
	cfg := DefaultConfig()
	cfg.Measure = measure
	cfg.Weighted = true
	c, err := NewCalculator(ss, cfg)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Matrix(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMeasure_Gower(b *testing.B)               { benchMeasure(b, "Gower") }
func BenchmarkMeasure_WeightedCorrelation(b *testing.B) { benchMeasure(b, "WC") }
func BenchmarkMeasure_YueClayton(b *testing.B)          { benchMeasure(b, "YC") }

// --- Clustering ---

func BenchmarkCluster_500(b *testing.B) {
	ss := generateBenchSystem(100, 500)
	cfg := DefaultConfig()
	cfg.Measure = "BC"
	c, err := NewCalculator(ss, cfg)
	if err != nil {
		b.Fatal(err)
	}
	lt, err := c.Matrix()
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Cluster(lt); err != nil {
			b.Fatal(err)
		}
	}
}
