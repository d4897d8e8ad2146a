package main

import (
	"fmt"
	"os"

	"github.com/TrevorS/betadiv"
	"github.com/TrevorS/betadiv/loader"
	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

type runCmdConfig struct {
	*rootCmdConfig
	configFile  string
	calculator  string
	weighted    bool
	count       bool
	nexusFile   string
	newickFile  string
	sampleFile  string
	outputFile  string
	maxDataVecs int
	workers     int
	listCalc    bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootConfig := &rootCmdConfig{}
	config := &runCmdConfig{rootCmdConfig: rootConfig}
	rootCmd := &cobra.Command{
		Use:   "betadiv",
		Short: "betadiv computes phylogenetic beta-diversity between samples",
		Long: `Compute a beta-diversity dissimilarity matrix between samples over the splits
of a phylogenetic tree (Newick) or a rooted split system (Nexus).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.listCalc {
				return printMeasures(cmd.OutOrStdout())
			}
			if err := config.applyFile(cmd); err != nil {
				return err
			}
			if err := config.Validate(); err != nil {
				return err
			}
			return config.run()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log timing and progress to stderr")

	flags := rootCmd.Flags()
	flags.StringVar(&(config.configFile), "config", "", "YAML file with run settings; flags given on the command line take precedence")
	flags.StringVarP(&(config.calculator), "calculator", "c", "", "beta-diversity measure to use (see 'betadiv list')")
	flags.BoolVarP(&(config.weighted), "weighted", "w", false, "use sequence abundances instead of presence/absence")
	flags.BoolVarP(&(config.count), "count", "y", false, "use raw counts instead of relative proportions (with --weighted)")
	flags.StringVarP(&(config.nexusFile), "nexus-file", "n", "", "Nexus file with a TAXA and a SPLITS block, rooted by outgroup taxa")
	flags.StringVarP(&(config.newickFile), "newick-file", "t", "", "Newick tree file (treated as rooted)")
	flags.StringVarP(&(config.sampleFile), "sample-file", "s", "", "sample table of sequence counts per sample (may be gzip or zstd compressed)")
	flags.StringVarP(&(config.outputFile), "output-file", "o", "", "file to write the dissimilarity matrix to")
	flags.IntVarP(&(config.maxDataVecs), "max-data-vecs", "x", 1000, "maximum number of sample vectors held in memory at once")
	flags.IntVarP(&(config.workers), "workers", "j", 1, "goroutines computing matrix rows")
	flags.BoolVarP(&(config.listCalc), "list-calc", "l", false, "list supported measures and exit")

	rootCmd.AddCommand(versionCmd(), listCmd(), clusterCmd(rootConfig))
	return rootCmd
}

func (rcc *runCmdConfig) Validate() error {
	if rcc.calculator == "" {
		return fmt.Errorf("required calculator flag was not set")
	}
	if rcc.sampleFile == "" {
		return fmt.Errorf("required sample-file flag was not set")
	}
	if rcc.outputFile == "" {
		return fmt.Errorf("required output-file flag was not set")
	}
	if rcc.nexusFile != "" && rcc.newickFile != "" {
		return fmt.Errorf("specify either a Nexus (-n) or Newick (-t) file")
	}
	if rcc.nexusFile == "" && rcc.newickFile == "" {
		return fmt.Errorf("a Nexus (-n) or Newick (-t) file is required")
	}
	return nil
}

func (rcc *runCmdConfig) run() error {
	logger := newLogger(rcc.verbose)

	res, err := loader.Load(loader.Options{
		NexusFile:  rcc.nexusFile,
		NewickFile: rcc.newickFile,
		SampleFile: rcc.sampleFile,
	}, logger)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	cfg := betadiv.DefaultConfig()
	cfg.Measure = rcc.calculator
	cfg.Weighted = rcc.weighted
	cfg.Count = rcc.count
	cfg.MaxDataVecs = rcc.maxDataVecs
	cfg.Workers = rcc.workers
	cfg.Logger = logger

	calc, err := betadiv.NewCalculator(res.Splits, cfg)
	if err != nil {
		return err
	}
	if err := calc.DissimilarityFile(rcc.outputFile); err != nil {
		return err
	}
	logger.Info("dissimilarity matrix written",
		"measure", calc.Measure().String(), "samples", res.Splits.NumSamples(), "file", rcc.outputFile)
	return nil
}
