package betadiv

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// aggregates holds the global quantities some measures read. They are
// computed once by NewCalculator and only read afterwards.
type aggregates struct {
	weights     []float64 // split weights, one per column
	totalWeight float64
	minExtent   []float64
	maxExtent   []float64
	rowSums     []float64 // weighted row sum per analysis sample
}

// computeAggregates fills c.agg with everything the measure requires,
// streaming feature vectors in batches of MaxDataVecs samples.
func (c *Calculator) computeAggregates() error {
	numSplits := c.ss.NumSplits()
	c.agg.weights = make([]float64, numSplits)
	for k := range c.agg.weights {
		c.agg.weights[k] = c.ss.Split(k).Weight()
	}

	req := c.measure.requires()
	if req&needTotalWeight != 0 {
		c.agg.totalWeight = floats.Sum(c.agg.weights)
	}
	if req&needExtents != 0 {
		if err := c.computeExtents(); err != nil {
			return err
		}
	}
	if req&needRowSums != 0 {
		if err := c.computeRowSums(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Calculator) computeExtents() error {
	start := time.Now()
	numSplits := c.ss.NumSplits()
	c.agg.minExtent = make([]float64, numSplits)
	c.agg.maxExtent = make([]float64, numSplits)
	for k := range c.agg.minExtent {
		c.agg.minExtent[k] = math.MaxFloat64
	}

	err := c.eachBatch(func(_ int, vecs [][]float64) {
		for _, v := range vecs {
			for k, x := range v {
				c.agg.minExtent[k] = min(c.agg.minExtent[k], x)
				c.agg.maxExtent[k] = max(c.agg.maxExtent[k], x)
			}
		}
	})
	if err != nil {
		return err
	}
	c.logger.Debug("column extents computed", "splits", numSplits, "elapsed", time.Since(start))
	return nil
}

func (c *Calculator) computeRowSums() error {
	start := time.Now()
	c.agg.rowSums = make([]float64, c.ss.NumSamples())

	err := c.eachBatch(func(first int, vecs [][]float64) {
		for i, v := range vecs {
			c.agg.rowSums[first+i] = floats.Dot(c.agg.weights, v)
		}
	})
	if err != nil {
		return err
	}
	c.logger.Debug("weighted row sums computed", "samples", len(c.agg.rowSums), "elapsed", time.Since(start))
	return nil
}

// eachBatch calls fn with consecutive batches of at most MaxDataVecs
// feature vectors; first is the analysis index of the batch's first sample.
func (c *Calculator) eachBatch(fn func(first int, vecs [][]float64)) error {
	for first := 0; first < c.ss.NumSamples(); first += c.cfg.MaxDataVecs {
		vecs, err := c.dataVectors(first, c.cfg.MaxDataVecs)
		if err != nil {
			return err
		}
		fn(first, vecs)
	}
	return nil
}

// dataVectors returns the feature vectors of up to count analysis samples
// starting at first.
func (c *Calculator) dataVectors(first, count int) ([][]float64, error) {
	end := min(first+count, c.ss.NumSamples())
	vecs := make([][]float64, 0, max(end-first, 0))
	for i := first; i < end; i++ {
		v, err := c.ss.SampleData(i, c.mode)
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, v)
	}
	return vecs, nil
}
