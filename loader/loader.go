// Package loader builds a populated split system from a sample table and
// either a Newick tree or a Nexus split block.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/TrevorS/betadiv"
	"github.com/TrevorS/betadiv/newick"
	"github.com/TrevorS/betadiv/nexus"
	"github.com/TrevorS/betadiv/sample"
)

var (
	// ErrNoPhylogeny is returned when neither a Newick nor a Nexus file is given.
	ErrNoPhylogeny = errors.New("loader: specify a Newick or a Nexus file")

	// ErrBothPhylogenies is returned when both are given.
	ErrBothPhylogenies = errors.New("loader: specify either a Newick or a Nexus file, not both")

	// ErrNoSamples is returned when no sample file is given.
	ErrNoSamples = errors.New("loader: no sample file")
)

// Options names the input files.
type Options struct {
	NexusFile  string
	NewickFile string
	SampleFile string
}

// Result is a loaded split system and what was left out while building it.
type Result struct {
	Splits *betadiv.SplitSystem
	Table  *sample.Table

	// MissingInPhylogeny lists sample sequences the tree or split block
	// does not mention.
	MissingInPhylogeny []string
	// MissingInSamples lists phylogeny taxa absent from the sample table.
	MissingInSamples []string
	// DiscardedSplits counts split rows dropped as uninformative or
	// malformed.
	DiscardedSplits int
}

// Load reads the inputs and builds the split system. Taxa found in only one
// of the inputs are excluded and logged as warnings. logger may be nil.
func Load(opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch {
	case opts.SampleFile == "":
		return nil, ErrNoSamples
	case opts.NexusFile != "" && opts.NewickFile != "":
		return nil, ErrBothPhylogenies
	case opts.NexusFile == "" && opts.NewickFile == "":
		return nil, ErrNoPhylogeny
	}

	start := time.Now()
	table, err := sample.ReadFile(opts.SampleFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("sample file read",
		"file", opts.SampleFile, "samples", table.NumSamples(),
		"sequences", table.NumSequences(), "outgroup", table.HasOutgroup(),
		"elapsed", time.Since(start))

	var res *Result
	if opts.NewickFile != "" {
		res, err = loadTree(opts.NewickFile, table)
	} else {
		res, err = loadSplits(opts.NexusFile, table)
	}
	if err != nil {
		return nil, err
	}

	if len(res.MissingInPhylogeny) > 0 {
		logger.Warn("taxa in sample file but not in phylogeny",
			"count", len(res.MissingInPhylogeny), "taxa", res.MissingInPhylogeny)
	}
	if len(res.MissingInSamples) > 0 {
		logger.Warn("taxa in phylogeny but not in sample file",
			"count", len(res.MissingInSamples), "taxa", res.MissingInSamples)
	}
	if res.DiscardedSplits > 0 {
		logger.Info("uninformative or malformed splits discarded", "count", res.DiscardedSplits)
	}
	logger.Debug("split system built",
		"splits", res.Splits.NumSplits(), "samples", res.Splits.NumSamples(),
		"elapsed", time.Since(start))
	return res, nil
}

func loadTree(path string, table *sample.Table) (*Result, error) {
	tree, err := newick.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res := &Result{Table: table}
	res.MissingInPhylogeny = table.Restrict(tree.LeafNames(tree.Root()))
	res.Splits = betadiv.NewSplitSystem(table)
	missing, err := res.Splits.AddTree(tree)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	sort.Strings(missing)
	res.MissingInSamples = missing
	return res, nil
}

func loadSplits(path string, table *sample.Table) (*Result, error) {
	doc, err := nexus.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res := &Result{Table: table, DiscardedSplits: doc.Skipped}

	outgroup := make(map[string]bool)
	for _, name := range table.OutgroupSequences() {
		outgroup[name] = true
	}
	for _, name := range doc.Taxa {
		if _, ok := table.SequenceID(name); !ok && !outgroup[name] {
			res.MissingInSamples = append(res.MissingInSamples, name)
		}
	}
	sort.Strings(res.MissingInSamples)

	res.MissingInPhylogeny = table.Restrict(doc.Taxa)
	res.Splits = betadiv.NewSplitSystem(table)
	for _, row := range doc.Splits {
		kept, err := res.Splits.AddSideSplit(row.Weight, row.Taxa)
		switch {
		case errors.Is(err, betadiv.ErrNegativeWeight):
			res.DiscardedSplits++
		case err != nil:
			return nil, fmt.Errorf("loader: %s: %w", path, err)
		case !kept:
			res.DiscardedSplits++
		}
	}
	return res, nil
}
