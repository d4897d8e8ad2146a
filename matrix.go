package betadiv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrMalformedMatrix is returned by ReadMatrix for input that is not a
// lower-triangle dissimilarity matrix.
var ErrMalformedMatrix = errors.New("betadiv: malformed dissimilarity matrix")

// LowerTriangle is a symmetric dissimilarity matrix with a zero diagonal,
// stored as its strict lower triangle: row i holds the i values against
// samples 0..i-1.
type LowerTriangle struct {
	names  []string
	values [][]float64
}

// Len returns the number of samples.
func (lt *LowerTriangle) Len() int { return len(lt.names) }

// Names returns the sample names in row order.
func (lt *LowerTriangle) Names() []string { return append([]string(nil), lt.names...) }

// Name returns the name of sample i.
func (lt *LowerTriangle) Name(i int) string { return lt.names[i] }

// At returns the dissimilarity between samples i and j.
func (lt *LowerTriangle) At(i, j int) float64 {
	switch {
	case i == j:
		return 0
	case j < i:
		return lt.values[i][j]
	default:
		return lt.values[j][i]
	}
}

// Dense expands the triangle into a full symmetric matrix.
func (lt *LowerTriangle) Dense() *mat.SymDense {
	n := lt.Len()
	if n == 0 {
		return &mat.SymDense{}
	}
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			m.SetSym(i, j, lt.values[i][j])
		}
	}
	return m
}

// WriteTo writes the triangle in the same format as
// [Calculator.Dissimilarity].
func (lt *LowerTriangle) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	if _, err := fmt.Fprintf(bw, "%d\n", lt.Len()); err != nil {
		return cw.n, err
	}
	for i, name := range lt.names {
		if err := writeRow(bw, name, lt.values[i]); err != nil {
			return cw.n, err
		}
	}
	err := bw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeRow emits one matrix line: name, then each value after a tab.
func writeRow(w *bufio.Writer, name string, values []float64) error {
	if _, err := w.WriteString(name); err != nil {
		return err
	}
	var scratch [32]byte
	for _, v := range values {
		if err := w.WriteByte('\t'); err != nil {
			return err
		}
		if _, err := w.Write(strconv.AppendFloat(scratch[:0], v, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// ReadMatrix parses a matrix written by [Calculator.Dissimilarity].
func ReadMatrix(r io.Reader) (*LowerTriangle, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<30)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty input", ErrMalformedMatrix)
	}
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: bad sample count %q", ErrMalformedMatrix, sc.Text())
	}

	lt := &LowerTriangle{
		names:  make([]string, 0, n),
		values: make([][]float64, 0, n),
	}
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedMatrix, n, i)
		}
		fields := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
		if len(fields) != i+1 {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrMalformedMatrix, i, len(fields)-1, i)
		}
		row := make([]float64, i)
		for j, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrMalformedMatrix, i, j, err)
			}
			row[j] = v
		}
		lt.names = append(lt.names, fields[0])
		lt.values = append(lt.values, row)
	}
	return lt, sc.Err()
}
