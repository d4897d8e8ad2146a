package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorS/betadiv"
)

func matrix(t *testing.T, res *Result, measure string) *betadiv.LowerTriangle {
	t.Helper()
	cfg := betadiv.DefaultConfig()
	cfg.Measure = measure
	cfg.Weighted = true
	c, err := betadiv.NewCalculator(res.Splits, cfg)
	require.NoError(t, err)
	lt, err := c.Matrix()
	require.NoError(t, err)
	return lt
}

func TestLoad_Newick(t *testing.T) {
	res, err := Load(Options{
		NewickFile: "testdata/tree.nwk",
		SampleFile: "testdata/samples.tsv",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Splits.NumSamples())
	assert.Equal(t, 3, res.Splits.NumSequences())
	// A, B, C and the (B,C) clade; the outgroup is pruned.
	assert.Equal(t, 4, res.Splits.NumSplits())
	assert.Empty(t, res.MissingInPhylogeny)
	assert.Empty(t, res.MissingInSamples)
	assert.Zero(t, res.DiscardedSplits)
	assert.Equal(t, []string{"O"}, res.Table.OutgroupSequences())
}

func TestLoad_Nexus(t *testing.T) {
	res, err := Load(Options{
		NexusFile:  "testdata/splits.nex",
		SampleFile: "testdata/samples.tsv",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Splits.NumSplits())
	// The outgroup-only split and the full ingroup split carry nothing.
	assert.Equal(t, 2, res.DiscardedSplits)
	assert.Empty(t, res.MissingInPhylogeny)
	assert.Empty(t, res.MissingInSamples)
}

// The Nexus fixture lists the splits induced by the Newick fixture, so both
// inputs must give the same dissimilarities.
func TestLoad_NewickAndNexusAgree(t *testing.T) {
	fromTree, err := Load(Options{NewickFile: "testdata/tree.nwk", SampleFile: "testdata/samples.tsv"}, nil)
	require.NoError(t, err)
	fromSplits, err := Load(Options{NexusFile: "testdata/splits.nex", SampleFile: "testdata/samples.tsv"}, nil)
	require.NoError(t, err)

	for _, m := range []string{"Bray-Curtis", "Manhattan", "Gower", "Weighted correlation"} {
		a := matrix(t, fromTree, m)
		b := matrix(t, fromSplits, m)
		require.Equal(t, a.Names(), b.Names(), m)
		for i := 0; i < a.Len(); i++ {
			for j := 0; j < i; j++ {
				assert.InDelta(t, a.At(i, j), b.At(i, j), 1e-12, "%s d(%d,%d)", m, i, j)
			}
		}
	}
}

func TestLoad_MissingTaxa(t *testing.T) {
	dir := t.TempDir()
	samples := filepath.Join(dir, "samples.tsv")
	tree := filepath.Join(dir, "tree.nwk")
	require.NoError(t, os.WriteFile(samples, []byte("A\tB\tD\nS0\t1\t0\t2\nS1\t0\t1\t1\n"), 0o644))
	require.NoError(t, os.WriteFile(tree, []byte("((A:1,X:1):1,B:1);"), 0o644))

	res, err := Load(Options{NewickFile: tree, SampleFile: samples}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"D"}, res.MissingInPhylogeny)
	assert.Equal(t, []string{"X"}, res.MissingInSamples)
	assert.Equal(t, 2, res.Splits.NumSequences())
	// X is pruned, so A's branch absorbs its parent: splits A and B.
	assert.Equal(t, 2, res.Splits.NumSplits())
	assert.Equal(t, 2.0, res.Splits.Split(0).Weight())
}

func TestLoad_NexusMissingTaxa(t *testing.T) {
	dir := t.TempDir()
	samples := filepath.Join(dir, "samples.tsv")
	nex := filepath.Join(dir, "splits.nex")
	require.NoError(t, os.WriteFile(samples, []byte("A\tB\tD\nS0\t1\t0\t2\nS1\t0\t1\t1\n"), 0o644))
	require.NoError(t, os.WriteFile(nex, []byte(
		"BEGIN TAXA;\nTAXLABELS A B X;\nEND;\nBEGIN SPLITS;\nMATRIX\n[1]\t1\t1,\n[2]\t-1\t2,\n[3]\t1\t3,\n;\nEND;\n"), 0o644))

	res, err := Load(Options{NexusFile: nex, SampleFile: samples}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"D"}, res.MissingInPhylogeny)
	assert.Equal(t, []string{"X"}, res.MissingInSamples)
	// The negative split is discarded and the X-only split has an empty
	// ingroup side.
	assert.Equal(t, 2, res.DiscardedSplits)
	assert.Equal(t, 1, res.Splits.NumSplits())
}

func TestLoad_OptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"no samples", Options{NewickFile: "testdata/tree.nwk"}, ErrNoSamples},
		{"no phylogeny", Options{SampleFile: "testdata/samples.tsv"}, ErrNoPhylogeny},
		{"both", Options{
			NewickFile: "testdata/tree.nwk",
			NexusFile:  "testdata/splits.nex",
			SampleFile: "testdata/samples.tsv",
		}, ErrBothPhylogenies},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.opts, nil)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoad_MissingFiles(t *testing.T) {
	_, err := Load(Options{NewickFile: "testdata/tree.nwk", SampleFile: "testdata/none.tsv"}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(Options{NewickFile: "testdata/none.nwk", SampleFile: "testdata/samples.tsv"}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(Options{NexusFile: "testdata/none.nex", SampleFile: "testdata/samples.tsv"}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
