package betadiv

import (
	"errors"
	"fmt"
)

// ErrUnknownSequence is returned when a tree leaf that survived projection
// has no sequence id in the sample source.
var ErrUnknownSequence = errors.New("betadiv: unknown sequence")

// DataMode selects how per-taxon abundances are aggregated into a split
// feature value.
type DataMode int

const (
	// Proportion sums each taxon's share of the sample total.
	Proportion DataMode = iota
	// Count sums raw counts.
	Count
	// Presence is 1 if any taxon on the split's left side is present.
	Presence
)

func (m DataMode) String() string {
	switch m {
	case Proportion:
		return "proportion"
	case Count:
		return "count"
	case Presence:
		return "presence"
	default:
		return fmt.Sprintf("DataMode(%d)", int(m))
	}
}

// SampleSource supplies per-sample sequence abundances over the ingroup
// sequence universe. Sample indices cover every sample row, including an
// outgroup sample if there is one.
type SampleSource interface {
	NumSamples() int
	SampleName(i int) string
	// Counts returns the abundance of each ingroup sequence (indexed by
	// sequence id) in sample i, and their total.
	Counts(i int) (counts []float64, total float64, err error)
	HasOutgroup() bool
	// OutgroupSample returns the outgroup sample's index, or -1.
	OutgroupSample() int
	// OutgroupSequences lists the sequences making up the outgroup.
	OutgroupSequences() []string
	SequenceID(name string) (int, bool)
	// NumSequences is the size of the ingroup sequence universe.
	NumSequences() int
}

// SplitSystem is an ordered list of splits over one taxon universe together
// with the samples whose feature vectors are read through them. Splits are
// appended while loading and never changed afterwards.
type SplitSystem struct {
	source  SampleSource
	splits  []Split
	samples []int // analysis index -> source index, outgroup excluded
}

// NewSplitSystem returns an empty split system over the source's ingroup
// sequences.
func NewSplitSystem(source SampleSource) *SplitSystem {
	ss := &SplitSystem{source: source}
	out := -1
	if source.HasOutgroup() {
		out = source.OutgroupSample()
	}
	for i := 0; i < source.NumSamples(); i++ {
		if i != out {
			ss.samples = append(ss.samples, i)
		}
	}
	return ss
}

// AddSplit appends s, assigning its id.
func (ss *SplitSystem) AddSplit(s Split) {
	s.id = len(ss.splits)
	ss.splits = append(ss.splits, s)
}

// AddSideSplit builds a rooted split from a weight and the names of the taxa
// on one side, as read from an explicit split block. Names unknown to the
// sample source are ignored. It reports whether the split was kept.
func (ss *SplitSystem) AddSideSplit(weight float64, side []string) (bool, error) {
	outgroup := make(map[string]bool)
	for _, name := range ss.source.OutgroupSequences() {
		outgroup[name] = true
	}

	members := make([]bool, ss.source.NumSequences())
	outgroupOnSide := 0
	for _, name := range side {
		if outgroup[name] {
			outgroupOnSide++
			continue
		}
		if id, ok := ss.source.SequenceID(name); ok {
			members[id] = true
		}
	}

	s, ok, err := RootedSplit(weight, members, outgroupOnSide, len(outgroup))
	if err != nil || !ok {
		return false, err
	}
	ss.AddSplit(s)
	return true, nil
}

// AddTree projects t onto the source's ingroup sequences and appends one
// split per non-root node, in post-order. Each split's left side is the
// node's leaf set and its weight the node's branch length; an undefined
// length counts as 1 and a negative one as 0.
//
// It returns the names of leaves that are neither ingroup sequences nor
// outgroup sequences, i.e. taxa in the tree but not the sample source.
func (ss *SplitSystem) AddTree(t *Tree) (missing []string, err error) {
	outgroup := make(map[string]bool)
	for _, name := range ss.source.OutgroupSequences() {
		outgroup[name] = true
	}

	remove := make(map[string]bool)
	for name := range outgroup {
		remove[name] = true
	}
	for _, name := range t.LeafNames(t.Root()) {
		if _, ok := ss.source.SequenceID(name); ok {
			continue
		}
		remove[name] = true
		if !outgroup[name] {
			missing = append(missing, name)
		}
	}
	if len(remove) > 0 {
		t.Project(remove)
	}
	if t.Root() == NoNode {
		return missing, nil
	}

	numTaxa := ss.source.NumSequences()
	hasOutgroup := len(outgroup) > 0
	for _, id := range t.PostOrder(t.Root()) {
		if t.IsRoot(id) {
			continue
		}
		members := make([]bool, numTaxa)
		for _, leaf := range t.Leaves(id) {
			name := t.NodeName(leaf)
			seq, ok := ss.source.SequenceID(name)
			if !ok {
				return missing, fmt.Errorf("%w: %q", ErrUnknownSequence, name)
			}
			members[seq] = true
		}

		weight := t.DistanceToParent(id)
		switch {
		case weight == NoDistance:
			weight = 1
		case weight < 0:
			weight = 0
		}

		s, err := NewSplit(weight, members, false, hasOutgroup)
		if err != nil {
			return missing, err
		}
		ss.AddSplit(s)
	}
	return missing, nil
}

// NumSplits returns the number of splits.
func (ss *SplitSystem) NumSplits() int { return len(ss.splits) }

// Split returns the split with the given id.
func (ss *SplitSystem) Split(id int) Split { return ss.splits[id] }

// NumSequences returns the size of the taxon universe.
func (ss *SplitSystem) NumSequences() int { return ss.source.NumSequences() }

// NumSamples returns the number of samples under analysis (the outgroup
// sample is excluded).
func (ss *SplitSystem) NumSamples() int { return len(ss.samples) }

// SampleName returns the name of analysis sample i.
func (ss *SplitSystem) SampleName(i int) string { return ss.source.SampleName(ss.samples[i]) }

// SampleData returns the feature vector of analysis sample i: one value per
// split, aggregated over the taxa on the split's left side.
func (ss *SplitSystem) SampleData(i int, mode DataMode) ([]float64, error) {
	counts, total, err := ss.source.Counts(ss.samples[i])
	if err != nil {
		return nil, fmt.Errorf("betadiv: sample %q: %w", ss.SampleName(i), err)
	}

	data := make([]float64, len(ss.splits))
	for k := range ss.splits {
		var v float64
		for _, seq := range ss.splits[k].leftIDs {
			c := counts[seq]
			switch mode {
			case Proportion:
				if total > 0 {
					v += c / total
				}
			case Count:
				v += c
			case Presence:
				if c > 0 {
					v = 1
				}
			}
		}
		data[k] = v
	}
	return data, nil
}
