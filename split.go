package betadiv

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrOutgroupBothSides is returned for a split with outgroup taxa on
	// both sides, which cannot be rooted.
	ErrOutgroupBothSides = errors.New("betadiv: outgroup taxa on both sides of split")

	// ErrNegativeWeight is returned for a split weight that is negative or NaN.
	ErrNegativeWeight = errors.New("betadiv: split weight must be a non-negative number")

	// ErrSplitCounts is returned when a split's stored side sizes disagree
	// with its membership vector.
	ErrSplitCounts = errors.New("betadiv: split side counts do not match membership")
)

// Split is one bipartition of the ingroup taxon universe. Taxa marked true
// in the membership vector are on the left; outgroup taxa, when present, are
// always on the right. A Split is immutable once built.
type Split struct {
	id            int
	weight        float64
	members       []bool
	leftIDs       []int
	leftCount     int
	rightCount    int
	outgroupLeft  bool
	outgroupRight bool
}

// NewSplit builds a split from its membership vector (true = left side).
// The vector is copied.
func NewSplit(weight float64, members []bool, outgroupLeft, outgroupRight bool) (Split, error) {
	if weight < 0 || math.IsNaN(weight) {
		return Split{}, fmt.Errorf("%w: %v", ErrNegativeWeight, weight)
	}
	if outgroupLeft && outgroupRight {
		return Split{}, ErrOutgroupBothSides
	}

	s := Split{
		id:            -1,
		weight:        weight,
		members:       append([]bool(nil), members...),
		outgroupLeft:  outgroupLeft,
		outgroupRight: outgroupRight,
	}
	for i, in := range members {
		if in {
			s.leftIDs = append(s.leftIDs, i)
		}
	}
	s.leftCount = len(s.leftIDs)
	s.rightCount = len(members) - s.leftCount
	return s, nil
}

// RootedSplit orients a split read from an explicit split block. members
// marks the ingroup taxa named on one side, outgroupOnSide is how many
// outgroup taxa were named on that side and outgroupTotal is the outgroup
// size. The result has outgroup taxa on the right.
//
// ok is false when the split carries no information for a rooted analysis:
// outgroup taxa on both sides, or an empty ingroup side.
func RootedSplit(weight float64, members []bool, outgroupOnSide, outgroupTotal int) (s Split, ok bool, err error) {
	onLeft := outgroupOnSide > 0
	onRight := outgroupTotal-outgroupOnSide > 0
	if onLeft && onRight {
		return Split{}, false, nil
	}

	side := members
	if onLeft {
		side = make([]bool, len(members))
		for i, in := range members {
			side[i] = !in
		}
	}

	left := 0
	for _, in := range side {
		if in {
			left++
		}
	}
	if left == 0 || left == len(side) {
		return Split{}, false, nil
	}

	s, err = NewSplit(weight, side, false, outgroupTotal > 0)
	if err != nil {
		return Split{}, false, err
	}
	return s, true, nil
}

// ID returns the split's position in its SplitSystem, or -1 before it is
// added to one.
func (s Split) ID() int { return s.id }

func (s Split) Weight() float64 { return s.weight }

// Members returns a copy of the membership vector.
func (s Split) Members() []bool { return append([]bool(nil), s.members...) }

// NumTaxa returns the size of the taxon universe.
func (s Split) NumTaxa() int { return len(s.members) }

// LeftIDs returns the taxon ids on the left side. The slice must not be
// modified.
func (s Split) LeftIDs() []int { return s.leftIDs }

// RightIDs returns the taxon ids on the right side.
func (s Split) RightIDs() []int {
	ids := make([]int, 0, s.rightCount)
	for i, in := range s.members {
		if !in {
			ids = append(ids, i)
		}
	}
	return ids
}

// SmallestSideIDs returns the ids of the smaller side (right on ties).
func (s Split) SmallestSideIDs() []int {
	if s.leftCount < s.rightCount {
		return append([]int(nil), s.leftIDs...)
	}
	return s.RightIDs()
}

// Size is the number of taxa on the smaller side.
func (s Split) Size() int { return min(s.leftCount, s.rightCount) }

func (s Split) LeftCount() int  { return s.leftCount }
func (s Split) RightCount() int { return s.rightCount }

func (s Split) OutgroupOnLeft() bool  { return s.outgroupLeft }
func (s Split) OutgroupOnRight() bool { return s.outgroupRight }

// IsTrivial reports whether one side holds a single ingroup taxon facing
// the outgroup.
func (s Split) IsTrivial() bool {
	return (s.leftCount == 1 && s.outgroupRight) || (s.rightCount == 1 && s.outgroupLeft)
}

// Validate recounts both sides from the membership vector.
func (s Split) Validate() error {
	left := 0
	for _, in := range s.members {
		if in {
			left++
		}
	}
	if left != s.leftCount || len(s.members)-left != s.rightCount {
		return fmt.Errorf("%w: stored %d/%d, counted %d/%d",
			ErrSplitCounts, s.leftCount, s.rightCount, left, len(s.members)-left)
	}
	if s.outgroupLeft && s.outgroupRight {
		return ErrOutgroupBothSides
	}
	return nil
}
