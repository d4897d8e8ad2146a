package betadiv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// ErrInvalidConfig is wrapped by every Config validation error.
var ErrInvalidConfig = errors.New("betadiv: invalid config")

// Config controls how a Calculator reads samples and computes the matrix.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Measure names the dissimilarity measure, canonical name or alias
	// (see [ParseMeasure]). Required.
	Measure string

	// Weighted aggregates abundances instead of presence/absence.
	// Default: false.
	Weighted bool

	// Count uses raw counts instead of proportions when Weighted is set.
	// Ignored otherwise. Default: false.
	Count bool

	// MaxDataVecs bounds how many sample feature vectors are held in memory
	// at once. Each row-block covers MaxDataVecs/2 samples. Must be >= 2.
	// Default: 1000.
	MaxDataVecs int

	// Workers is the number of goroutines computing rows of a block.
	// 1 computes sequentially. Must be >= 0; 0 means 1. Default: 1.
	Workers int

	// Logger receives timing and progress at Debug level. nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with reasonable defaults. Measure is left
// empty and must be set.
func DefaultConfig() Config {
	return Config{
		MaxDataVecs: 1000,
		Workers:     1,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.MaxDataVecs == 0 {
		cfg.MaxDataVecs = 1000
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.MaxDataVecs < 2 {
		return fmt.Errorf("%w: MaxDataVecs must be >= 2, got %d", ErrInvalidConfig, cfg.MaxDataVecs)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: Workers must be >= 0, got %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}

// modeFor maps the Weighted/Count switches to a data mode.
func modeFor(cfg Config) DataMode {
	switch {
	case cfg.Weighted && cfg.Count:
		return Count
	case cfg.Weighted:
		return Proportion
	default:
		return Presence
	}
}

// Calculator computes a beta-diversity dissimilarity matrix over the samples
// of a SplitSystem. A non-nil Calculator returned by NewCalculator is ready:
// its measure is bound and the aggregates the measure needs are computed.
type Calculator struct {
	ss      *SplitSystem
	measure Measure
	mode    DataMode
	cfg     Config
	logger  *slog.Logger
	agg     aggregates
}

// NewCalculator resolves the configured measure and precomputes its global
// aggregates. The SplitSystem must not change afterwards.
func NewCalculator(ss *SplitSystem, cfg Config) (*Calculator, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	m, err := ParseMeasure(cfg.Measure)
	if err != nil {
		return nil, err
	}

	c := &Calculator{
		ss:      ss,
		measure: m,
		mode:    modeFor(cfg),
		cfg:     cfg,
		logger:  cfg.Logger,
	}
	if err := c.computeAggregates(); err != nil {
		return nil, err
	}
	c.logger.Debug("calculator ready",
		"measure", m.String(), "mode", c.mode.String(),
		"samples", ss.NumSamples(), "splits", ss.NumSplits())
	return c, nil
}

// Measure returns the bound measure.
func (c *Calculator) Measure() Measure { return c.measure }

// Mode returns the data mode derived from Weighted and Count.
func (c *Calculator) Mode() DataMode { return c.mode }

// Dissimilarity writes the strict lower triangle of the matrix to w: the
// sample count on the first line, then one line per sample holding its name
// and its values against every earlier sample, tab-separated.
func (c *Calculator) Dissimilarity(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", c.ss.NumSamples()); err != nil {
		return err
	}
	err := c.lowerTriangle(func(i int, values []float64) error {
		return writeRow(bw, c.ss.SampleName(i), values)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// DissimilarityFile writes the matrix to path, creating or truncating it.
// Nothing is computed if the file cannot be created.
func (c *Calculator) DissimilarityFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("betadiv: create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return c.Dissimilarity(f)
}

// Matrix computes the lower triangle in memory.
func (c *Calculator) Matrix() (*LowerTriangle, error) {
	n := c.ss.NumSamples()
	lt := &LowerTriangle{
		names:  make([]string, n),
		values: make([][]float64, n),
	}
	err := c.lowerTriangle(func(i int, values []float64) error {
		lt.names[i] = c.ss.SampleName(i)
		lt.values[i] = append([]float64(nil), values...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lt, nil
}

// lowerTriangle runs the blocked computation. Samples are taken in
// row-blocks of MaxDataVecs/2; for each row-block every column-block up to
// and including the diagonal one is loaded in turn, so at most MaxDataVecs
// feature vectors are live. emit receives each finished row in order; the
// values slice is reused after emit returns.
func (c *Calculator) lowerTriangle(emit func(i int, values []float64) error) error {
	n := c.ss.NumSamples()
	if n == 0 {
		return nil
	}
	blockLen := c.cfg.MaxDataVecs / 2
	numBlocks := (n + blockLen - 1) / blockLen
	buf := newBlockBuffer(min(blockLen, n), n)

	for r := 0; r < numBlocks; r++ {
		start := time.Now()
		rowStart := r * blockLen
		rows, err := c.dataVectors(rowStart, blockLen)
		if err != nil {
			return err
		}
		buf.Reset()

		for cb := 0; cb <= r; cb++ {
			colStart := cb * blockLen
			cols := rows
			if cb != r {
				cols, err = c.dataVectors(colStart, blockLen)
				if err != nil {
					return err
				}
			}
			c.fillBlock(buf, rows, rowStart, cols, colStart)
		}

		for li := range rows {
			i := rowStart + li
			if err := emit(i, buf.Row(li, i)); err != nil {
				return err
			}
		}
		c.logger.Debug("row block done", "block", r+1, "of", numBlocks, "elapsed", time.Since(start))
	}
	return nil
}
