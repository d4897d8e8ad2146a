// Package nexus reads the TAXA and SPLITS blocks of a Nexus file, as
// written by SplitsTree and similar network tools. Other blocks are
// skipped.
package nexus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrTaxaAfterSplits is returned when a SPLITS block appears before any
	// TAXA block; split rows refer to taxa by position.
	ErrTaxaAfterSplits = errors.New("nexus: TAXA block must precede SPLITS block")

	// ErrNoSplits is returned when the file has no SPLITS block.
	ErrNoSplits = errors.New("nexus: no SPLITS block")
)

// Row is one split: its weight and the taxa named on one side.
type Row struct {
	Weight float64
	Taxa   []string
}

// Document is the parsed content of a Nexus file.
type Document struct {
	// Taxa lists taxon labels in declaration order. Split rows refer to
	// them 1-based.
	Taxa   []string
	Splits []Row
	// Skipped counts malformed split rows that were dropped.
	Skipped int
}

// ReadFile parses the named file.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nexus: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads blocks until the end of the first SPLITS block.
func Parse(r io.Reader) (*Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	doc := &Document{}
	haveTaxa := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		upper := strings.ToUpper(line)
		if !strings.HasPrefix(upper, "BEGIN") {
			continue
		}
		block := strings.TrimSuffix(strings.TrimSpace(upper[len("BEGIN"):]), ";")

		switch block {
		case "TAXA":
			doc.Taxa = readTaxa(sc)
			haveTaxa = true
		case "SPLITS":
			if !haveTaxa {
				return nil, ErrTaxaAfterSplits
			}
			readSplits(sc, doc)
			return doc, sc.Err()
		default:
			skipBlock(sc)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("nexus: read: %w", err)
	}
	return nil, ErrNoSplits
}

func isEnd(line string) bool {
	u := strings.ToUpper(line)
	return strings.HasPrefix(u, "END;") || u == "END" || strings.HasPrefix(u, "ENDBLOCK")
}

func skipBlock(sc *bufio.Scanner) {
	for sc.Scan() {
		if isEnd(strings.TrimSpace(sc.Text())) {
			return
		}
	}
}

// readTaxa collects labels from "[i] 'name'" lines or a TAXLABELS
// statement, whichever the block uses.
func readTaxa(sc *bufio.Scanner) []string {
	var taxa []string
	inLabels := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if isEnd(line) {
			break
		}
		if strings.HasPrefix(strings.ToUpper(line), "TAXLABELS") {
			inLabels = true
			line = strings.TrimSpace(line[len("TAXLABELS"):])
		}

		switch {
		case strings.HasPrefix(line, "["):
			open := strings.IndexByte(line, '\'')
			closing := strings.LastIndexByte(line, '\'')
			if open >= 0 && closing > open {
				taxa = append(taxa, line[open+1:closing])
			} else if end := strings.IndexByte(line, ']'); end >= 0 && inLabels {
				taxa = append(taxa, labels(line[end+1:])...)
			}
		case inLabels:
			taxa = append(taxa, labels(line)...)
		}
		if strings.HasSuffix(line, ";") {
			inLabels = false
		}
	}
	return taxa
}

// labels splits a TAXLABELS fragment into names, honoring single quotes.
func labels(s string) []string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	var out []string
	for len(s) > 0 {
		s = strings.TrimSpace(s)
		if s == "" {
			break
		}
		if s[0] == '\'' {
			end := strings.IndexByte(s[1:], '\'')
			if end < 0 {
				out = append(out, s[1:])
				break
			}
			out = append(out, s[1:end+1])
			s = s[end+2:]
			continue
		}
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:end])
		s = s[end:]
	}
	return out
}

// readSplits reads MATRIX rows until the terminating ';' or END. A row has
// three tab-separated columns (label, weight, ids) or four (label, extra,
// weight, ids); ids are 1-based taxon positions ending with ','.
func readSplits(sc *bufio.Scanner, doc *Document) {
	inMatrix := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if isEnd(line) {
			return
		}
		if !inMatrix {
			if strings.HasPrefix(strings.ToUpper(line), "MATRIX") {
				inMatrix = true
			}
			continue
		}
		if line == "" {
			continue
		}
		if line == ";" {
			return
		}

		row, ok := parseRow(line, doc.Taxa)
		if !ok {
			doc.Skipped++
			continue
		}
		doc.Splits = append(doc.Splits, row)
	}
}

func parseRow(line string, taxa []string) (Row, bool) {
	var fields []string
	for _, f := range strings.Split(line, "\t") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}

	var weightField, idField string
	switch len(fields) {
	case 3:
		weightField, idField = fields[1], fields[2]
	case 4:
		weightField, idField = fields[2], fields[3]
	default:
		return Row{}, false
	}

	weight, err := strconv.ParseFloat(weightField, 64)
	if err != nil {
		return Row{}, false
	}

	idField = strings.TrimSuffix(strings.TrimSuffix(idField, ";"), ",")
	row := Row{Weight: weight}
	for _, tok := range strings.Fields(idField) {
		id, err := strconv.Atoi(tok)
		if err != nil || id < 1 || id > len(taxa) {
			return Row{}, false
		}
		row.Taxa = append(row.Taxa, taxa[id-1])
	}
	return row, true
}
