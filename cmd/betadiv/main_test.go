package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorS/betadiv"
)

const (
	testSamples = "../../loader/testdata/samples.tsv"
	testTree    = "../../loader/testdata/tree.nwk"
	testSplits  = "../../loader/testdata/splits.nex"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cliParser()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readMatrix(t *testing.T, path string) *betadiv.LowerTriangle {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	lt, err := betadiv.ReadMatrix(f)
	require.NoError(t, err)
	return lt
}

func TestRun_Newick(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bc.dst")
	_, err := execute(t, "-c", "BC", "-w", "-t", testTree, "-s", testSamples, "-o", out)
	require.NoError(t, err)

	lt := readMatrix(t, out)
	assert.Equal(t, []string{"S0", "S1", "S2"}, lt.Names())
	for i := 0; i < lt.Len(); i++ {
		for j := 0; j < i; j++ {
			assert.GreaterOrEqual(t, lt.At(i, j), 0.0)
			assert.LessOrEqual(t, lt.At(i, j), 1.0)
		}
	}
}

func TestRun_NexusMatchesNewick(t *testing.T) {
	dir := t.TempDir()
	fromTree := filepath.Join(dir, "tree.dst")
	fromSplits := filepath.Join(dir, "splits.dst")

	_, err := execute(t, "-c", "Manhattan", "-w", "-y", "-t", testTree, "-s", testSamples, "-o", fromTree)
	require.NoError(t, err)
	_, err = execute(t, "--calculator", "Manhattan", "--weighted", "--count",
		"--nexus-file", testSplits, "--sample-file", testSamples, "--output-file", fromSplits,
		"--max-data-vecs", "2", "--workers", "2")
	require.NoError(t, err)

	a := readMatrix(t, fromTree)
	b := readMatrix(t, fromSplits)
	require.Equal(t, a.Len(), b.Len())
	for i := 0; i < a.Len(); i++ {
		for j := 0; j < i; j++ {
			assert.InDelta(t, a.At(i, j), b.At(i, j), 1e-12)
		}
	}
}

func TestRun_ValidationErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.dst")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no calculator", []string{"-t", testTree, "-s", testSamples, "-o", out}, "calculator"},
		{"no samples", []string{"-c", "BC", "-t", testTree, "-o", out}, "sample-file"},
		{"no output", []string{"-c", "BC", "-t", testTree, "-s", testSamples}, "output-file"},
		{"no phylogeny", []string{"-c", "BC", "-s", testSamples, "-o", out}, "is required"},
		{"both phylogenies", []string{"-c", "BC", "-t", testTree, "-n", testSplits, "-s", testSamples, "-o", out}, "either"},
		{"unknown measure", []string{"-c", "Nope", "-t", testTree, "-s", testSamples, "-o", out}, "unknown measure"},
		{"bad block size", []string{"-c", "BC", "-x", "1", "-t", testTree, "-s", testSamples, "-o", out}, "MaxDataVecs"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "from-config.dst")
	cfgPath := filepath.Join(dir, "run.yaml")
	cfg := "calculator: Bogus\n" +
		"weighted: true\n" +
		"newick_file: " + testTree + "\n" +
		"sample_file: " + testSamples + "\n" +
		"output_file: " + out + "\n" +
		"max_data_vecs: 2\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	// The file's calculator is invalid; the flag wins.
	_, err := execute(t, "--config", cfgPath, "-c", "Soergel")
	require.NoError(t, err)
	assert.Equal(t, 3, readMatrix(t, out).Len())

	_, err = execute(t, "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown measure")

	_, err = execute(t, "--config", filepath.Join(dir, "missing.yaml"), "-c", "BC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Bray-Curtis [BC,")
	assert.Contains(t, out, "Yue-Clayton [YC, YueClayton] (aka: similarity ratio)")
	assert.Contains(t, out, "\nDiagnostics:\n  Sum\n  Extents\n")

	flagOut, err := execute(t, "-l")
	require.NoError(t, err)
	assert.Equal(t, out, flagOut)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "betadiv v1.0.0\n", out)
}

func TestCluster(t *testing.T) {
	dir := t.TempDir()
	matrix := filepath.Join(dir, "m.dst")
	require.NoError(t, os.WriteFile(matrix, []byte("3\nx\ny\t0.5\nz\t2\t2\n"), 0o644))

	out, err := execute(t, "cluster", "-i", matrix)
	require.NoError(t, err)
	assert.Equal(t, "((x:0.5,y:0.5):1.5,z:2);\n", out)

	tree := filepath.Join(dir, "m.tre")
	_, err = execute(t, "cluster", "-i", matrix, "-o", tree)
	require.NoError(t, err)
	data, err := os.ReadFile(tree)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestCluster_Errors(t *testing.T) {
	_, err := execute(t, "cluster")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")

	bad := filepath.Join(t.TempDir(), "bad.dst")
	require.NoError(t, os.WriteFile(bad, []byte("2\nx\n"), 0o644))
	_, err = execute(t, "cluster", "-i", bad)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "reading"))
}
