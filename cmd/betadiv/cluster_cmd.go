package main

import (
	"fmt"
	"io"
	"os"

	"github.com/TrevorS/betadiv"
	"github.com/TrevorS/betadiv/newick"
	"github.com/spf13/cobra"
)

type clusterCmdConfig struct {
	*rootCmdConfig
	input  string
	output string
}

func clusterCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &clusterCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster samples from a dissimilarity matrix",
		Long: `Build a single-linkage dendrogram of the samples in a dissimilarity matrix
written by betadiv and print it in Newick format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.input == "" {
				return fmt.Errorf("required input flag was not set")
			}
			return config.run(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&(config.input), "input", "i", "", "dissimilarity matrix file (required)")
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "file to write the Newick tree to (defaults to STDOUT)")
	return cmd
}

func (ccc *clusterCmdConfig) run(stdout io.Writer) (err error) {
	logger := newLogger(ccc.verbose)

	f, err := os.Open(ccc.input)
	if err != nil {
		return err
	}
	defer f.Close()
	lt, err := betadiv.ReadMatrix(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", ccc.input, err)
	}

	tree, err := betadiv.Cluster(lt)
	if err != nil {
		return err
	}
	logger.Debug("samples clustered", "samples", lt.Len())

	if ccc.output == "" {
		return newick.Write(stdout, tree)
	}
	out, err := os.Create(ccc.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return newick.Write(out, tree)
}
