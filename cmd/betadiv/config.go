package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML form of the run flags. Unset keys leave the flag
// defaults alone.
type fileConfig struct {
	Calculator  string `yaml:"calculator"`
	Weighted    *bool  `yaml:"weighted"`
	Count       *bool  `yaml:"count"`
	NexusFile   string `yaml:"nexus_file"`
	NewickFile  string `yaml:"newick_file"`
	SampleFile  string `yaml:"sample_file"`
	OutputFile  string `yaml:"output_file"`
	MaxDataVecs *int   `yaml:"max_data_vecs"`
	Workers     *int   `yaml:"workers"`
	Verbose     *bool  `yaml:"verbose"`
}

func readFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, nil
}

// applyFile fills every setting not given on the command line from the
// --config file, if any.
func (rcc *runCmdConfig) applyFile(cmd *cobra.Command) error {
	if rcc.configFile == "" {
		return nil
	}
	fc, err := readFileConfig(rcc.configFile)
	if err != nil {
		return err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	setString := func(name string, dst *string, v string) {
		if v != "" && !changed(name) {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool, v *bool) {
		if v != nil && !changed(name) {
			*dst = *v
		}
	}
	setInt := func(name string, dst *int, v *int) {
		if v != nil && !changed(name) {
			*dst = *v
		}
	}

	setString("calculator", &rcc.calculator, fc.Calculator)
	setBool("weighted", &rcc.weighted, fc.Weighted)
	setBool("count", &rcc.count, fc.Count)
	setString("nexus-file", &rcc.nexusFile, fc.NexusFile)
	setString("newick-file", &rcc.newickFile, fc.NewickFile)
	setString("sample-file", &rcc.sampleFile, fc.SampleFile)
	setString("output-file", &rcc.outputFile, fc.OutputFile)
	setInt("max-data-vecs", &rcc.maxDataVecs, fc.MaxDataVecs)
	setInt("workers", &rcc.workers, fc.Workers)
	setBool("verbose", &rcc.verbose, fc.Verbose)
	return nil
}
