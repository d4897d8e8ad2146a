// Package betadiv computes phylogenetic beta-diversity: pairwise
// dissimilarities between ecological samples, where each sample is viewed
// through the splits (bipartitions) of a phylogenetic tree or split network.
//
// A [SplitSystem] holds the splits over one taxon universe together with a
// [SampleSource] supplying per-sample abundances. Every split becomes one
// feature column, weighted by its branch length; a sample's value in that
// column aggregates the abundances of the taxa on the split's left side.
//
// Basic usage:
//
//	ss := betadiv.NewSplitSystem(samples)
//	missing, err := ss.AddTree(tree)
//	cfg := betadiv.DefaultConfig()
//	cfg.Measure = "Bray-Curtis"
//	cfg.Weighted = true
//	calc, err := betadiv.NewCalculator(ss, cfg)
//	err = calc.DissimilarityFile("diss.dst")
//
// # Measures
//
// [ParseMeasure] accepts canonical names and aliases ("Bray-Curtis", "BC",
// "NWU", ...). All formulas weight column n by the split weight. Without
// Config.Weighted, feature values are presence flags and several measures
// reduce to their unweighted UniFrac-style forms (Soergel is unweighted
// UniFrac, Bray-Curtis is PhyloSor).
//
// # Memory
//
// The matrix is computed in row-blocks of Config.MaxDataVecs/2 samples
// against each earlier column-block, so no more than MaxDataVecs feature
// vectors are held at once. Results do not depend on the block size, nor on
// Config.Workers.
//
// # Output
//
// The strict lower triangle is written as text: the sample count, then one
// line per sample with its name and its dissimilarity to every earlier
// sample, tab-separated. [ReadMatrix] parses it back and [Cluster] builds a
// single-linkage dendrogram of the samples from it.
package betadiv
