// Package sample reads sample-count tables: how often each sequence was
// observed in each sample.
//
// The first line names the sequences, tab-separated. Every further line is
// a sample: its name, then one count per sequence in header order. A sample
// named "outgroup" or "Outgroup" is the outgroup; every sequence it
// contains is an outgroup sequence and leaves the ingroup universe.
//
// Input compressed with gzip or zstd is detected from its magic bytes.
package sample

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrNoHeader is returned for input without a sequence header line.
	ErrNoHeader = errors.New("sample: missing header line")

	// ErrRowLength is returned when a sample row's count column count differs
	// from the header's.
	ErrRowLength = errors.New("sample: row length does not match header")

	// ErrBadCount is returned for a count that is not a non-negative number.
	ErrBadCount = errors.New("sample: invalid count")

	// ErrDuplicateSequence is returned when the header names a sequence twice.
	ErrDuplicateSequence = errors.New("sample: duplicate sequence name")

	// ErrDuplicateOutgroup is returned for a second outgroup row.
	ErrDuplicateOutgroup = errors.New("sample: more than one outgroup sample")
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// row holds one sample's non-zero counts, indexed by header column.
type row struct {
	name   string
	cols   []int
	counts []float64
}

// Table is an in-memory sample-count table. It implements
// betadiv.SampleSource over its ingroup sequences.
type Table struct {
	header   []string
	colToID  []int // header column -> ingroup sequence id, -1 if excluded
	seqNames []string
	seqIndex map[string]int

	rows         []row
	outgroup     int
	outgroupSeqs []string
}

// ReadFile reads the named table, decompressing it if needed.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a table from r, decompressing gzip or zstd input.
func Read(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)

	var src io.Reader = br
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("sample: gzip: %w", err)
		}
		defer zr.Close()
		src = zr
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("sample: zstd: %w", err)
		}
		defer zr.Close()
		src = zr
	}
	return parse(src)
}

func parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<30)

	t := &Table{outgroup: -1}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if t.header == nil {
			if err := t.parseHeader(line); err != nil {
				return nil, err
			}
			continue
		}

		rw, err := parseRow(line, len(t.header), lineNo)
		if err != nil {
			return nil, err
		}
		if rw.name == "outgroup" || rw.name == "Outgroup" {
			if t.outgroup >= 0 {
				return nil, fmt.Errorf("%w (line %d)", ErrDuplicateOutgroup, lineNo)
			}
			t.outgroup = len(t.rows)
		}
		t.rows = append(t.rows, rw)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sample: read: %w", err)
	}
	if t.header == nil {
		return nil, ErrNoHeader
	}

	excluded := make(map[int]bool)
	if t.outgroup >= 0 {
		for _, col := range t.rows[t.outgroup].cols {
			excluded[col] = true
			t.outgroupSeqs = append(t.outgroupSeqs, t.header[col])
		}
		sort.Strings(t.outgroupSeqs)
	}
	t.renumber(excluded)
	return t, nil
}

func (t *Table) parseHeader(line string) error {
	seen := make(map[string]bool)
	for _, tok := range strings.Split(line, "\t") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if seen[tok] {
			return fmt.Errorf("%w: %q", ErrDuplicateSequence, tok)
		}
		seen[tok] = true
		t.header = append(t.header, tok)
	}
	if len(t.header) == 0 {
		return ErrNoHeader
	}
	return nil
}

func parseRow(line string, numCols, lineNo int) (row, error) {
	fields := strings.Split(line, "\t")
	for len(fields) > 1 && strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}
	rw := row{name: strings.TrimSpace(fields[0])}
	values := fields[1:]
	if len(values) != numCols {
		return row{}, fmt.Errorf("%w: line %d has %d counts, header has %d",
			ErrRowLength, lineNo, len(values), numCols)
	}
	for col, f := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || v < 0 {
			return row{}, fmt.Errorf("%w: line %d column %d: %q", ErrBadCount, lineNo, col+2, f)
		}
		if v != 0 {
			rw.cols = append(rw.cols, col)
			rw.counts = append(rw.counts, v)
		}
	}
	return rw, nil
}

// renumber rebuilds the ingroup universe from the header, leaving out the
// excluded columns and keeping header order.
func (t *Table) renumber(excluded map[int]bool) {
	t.colToID = make([]int, len(t.header))
	t.seqNames = t.seqNames[:0]
	t.seqIndex = make(map[string]int)
	for col, name := range t.header {
		if excluded[col] {
			t.colToID[col] = -1
			continue
		}
		t.colToID[col] = len(t.seqNames)
		t.seqIndex[name] = len(t.seqNames)
		t.seqNames = append(t.seqNames, name)
	}
}

// Restrict drops ingroup sequences that are not in the phylogeny and
// returns their names, sorted. Outgroup sequences stay excluded.
func (t *Table) Restrict(phylogenyTaxa []string) (missing []string) {
	inPhylogeny := make(map[string]bool, len(phylogenyTaxa))
	for _, name := range phylogenyTaxa {
		inPhylogeny[name] = true
	}

	excluded := make(map[int]bool)
	for col, name := range t.header {
		switch {
		case t.colToID[col] < 0:
			excluded[col] = true
		case !inPhylogeny[name]:
			excluded[col] = true
			missing = append(missing, name)
		}
	}
	t.renumber(excluded)
	sort.Strings(missing)
	return missing
}

// NumSamples counts every sample row, the outgroup included.
func (t *Table) NumSamples() int { return len(t.rows) }

func (t *Table) SampleName(i int) string { return t.rows[i].name }

// Counts returns sample i's abundance for every ingroup sequence and their
// sum.
func (t *Table) Counts(i int) ([]float64, float64, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, 0, fmt.Errorf("sample: index %d out of range [0,%d)", i, len(t.rows))
	}
	counts := make([]float64, len(t.seqNames))
	var total float64
	rw := t.rows[i]
	for k, col := range rw.cols {
		if id := t.colToID[col]; id >= 0 {
			counts[id] = rw.counts[k]
			total += rw.counts[k]
		}
	}
	return counts, total, nil
}

func (t *Table) HasOutgroup() bool { return t.outgroup >= 0 }

// OutgroupSample returns the outgroup row's index, or -1.
func (t *Table) OutgroupSample() int { return t.outgroup }

// OutgroupSequences returns the sorted names of the outgroup sequences.
func (t *Table) OutgroupSequences() []string { return append([]string(nil), t.outgroupSeqs...) }

func (t *Table) SequenceID(name string) (int, bool) {
	id, ok := t.seqIndex[name]
	return id, ok
}

// NumSequences is the size of the ingroup universe.
func (t *Table) NumSequences() int { return len(t.seqNames) }

// SequenceNames lists the ingroup sequences by id.
func (t *Table) SequenceNames() []string { return append([]string(nil), t.seqNames...) }

// HeaderSequences lists every sequence named in the header, outgroup and
// restricted ones included.
func (t *Table) HeaderSequences() []string { return append([]string(nil), t.header...) }
