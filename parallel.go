package betadiv

import "golang.org/x/sync/errgroup"

// fillBlock computes every lower-triangle cell pairing a row of the current
// row-block with a column of one column-block. rows[li] is the vector of
// analysis sample rowStart+li, cols[lj] that of colStart+lj.
//
// With more than one worker the rows are split into contiguous ranges and
// computed concurrently. Each cell is written by exactly one goroutine and
// evaluated with the same arithmetic, so the result is bitwise identical to
// the sequential path.
func (c *Calculator) fillBlock(buf *blockBuffer, rows [][]float64, rowStart int, cols [][]float64, colStart int) {
	workers := c.cfg.Workers
	if workers <= 1 || len(rows) <= 1 {
		c.fillRows(buf, rows, rowStart, cols, colStart, 0, len(rows))
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	rowsPerWorker := (len(rows) + workers - 1) / workers
	for start := 0; start < len(rows); start += rowsPerWorker {
		end := min(start+rowsPerWorker, len(rows))
		g.Go(func() error {
			c.fillRows(buf, rows, rowStart, cols, colStart, start, end)
			return nil
		})
	}
	_ = g.Wait() // fillRows never fails
}

func (c *Calculator) fillRows(buf *blockBuffer, rows [][]float64, rowStart int, cols [][]float64, colStart, from, to int) {
	for li := from; li < to; li++ {
		i := rowStart + li
		for lj, col := range cols {
			j := colStart + lj
			if j >= i {
				break
			}
			buf.Set(li, j, c.measure.dissimilarity(rows[li], col, i, j, &c.agg))
		}
	}
}
