package betadiv

import "gonum.org/v1/gonum/mat"

// blockBuffer is the scratch space for one row-block of the lower triangle:
// rows are addressed by their position inside the block, columns by global
// sample index. Out-of-range access panics.
type blockBuffer struct {
	m *mat.Dense
}

func newBlockBuffer(rows, cols int) *blockBuffer {
	return &blockBuffer{m: mat.NewDense(rows, cols, nil)}
}

func (b *blockBuffer) Set(localRow, col int, v float64) { b.m.Set(localRow, col, v) }

func (b *blockBuffer) At(localRow, col int) float64 { return b.m.At(localRow, col) }

// Row returns the first n columns of a row, without copying.
func (b *blockBuffer) Row(localRow, n int) []float64 {
	return b.m.RawRowView(localRow)[:n]
}

func (b *blockBuffer) Reset() { b.m.Zero() }
