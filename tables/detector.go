package tables

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/text"
)

// ErrInvalidConfig is wrapped by Config.Validate errors
var ErrInvalidConfig = errors.New("tables: invalid config")

// Detector is the interface for table detection algorithms
type Detector interface {
	// Detect looks for one table made of all the given spans
	Detect(spans []text.TextSpan) (*DetectedTable, bool)

	// Name returns the detector name
	Name() string

	// Configure sets detector parameters
	Configure(config Config) error
}

// Config holds detector configuration
type Config struct {
	// Minimum rows for a valid table
	MinRows int `yaml:"min_rows" json:"min_rows"`

	// Minimum and maximum number of columns
	MinColumns int `yaml:"min_columns" json:"min_columns"`
	MaxColumns int `yaml:"max_columns" json:"max_columns"`

	// Row grouping tolerance as a fraction of the median font size
	YToleranceFactor float64 `yaml:"y_tolerance_factor" json:"y_tolerance_factor"`

	// Fraction of rows that must support a column, and that must be aligned
	MinAlignmentRatio float64 `yaml:"min_alignment_ratio" json:"min_alignment_ratio"`

	// Minimum distance between columns, also the alignment tolerance (points)
	MinColumnGap float64 `yaml:"min_column_gap" json:"min_column_gap"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:           2,
		MinColumns:        2,
		MaxColumns:        20,
		YToleranceFactor:  0.3,
		MinAlignmentRatio: 0.5,
		MinColumnGap:      10.0,
	}
}

// Validate checks that the thresholds are usable
func (c Config) Validate() error {
	switch {
	case c.MinRows < 1:
		return fmt.Errorf("%w: min_rows must be at least 1, got %d", ErrInvalidConfig, c.MinRows)
	case c.MinColumns < 1:
		return fmt.Errorf("%w: min_columns must be at least 1, got %d", ErrInvalidConfig, c.MinColumns)
	case c.MaxColumns < c.MinColumns:
		return fmt.Errorf("%w: max_columns %d is below min_columns %d", ErrInvalidConfig, c.MaxColumns, c.MinColumns)
	case c.YToleranceFactor <= 0:
		return fmt.Errorf("%w: y_tolerance_factor must be positive", ErrInvalidConfig)
	case c.MinAlignmentRatio <= 0 || c.MinAlignmentRatio > 1:
		return fmt.Errorf("%w: min_alignment_ratio must be in (0, 1]", ErrInvalidConfig)
	case c.MinColumnGap < 0:
		return fmt.Errorf("%w: min_column_gap must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Row is one table row: its Y coordinate and the spans on it, left to right
type Row struct {
	Y     float64
	Spans []text.TextSpan
}

// DetectedTable is the structure found by a Detector
type DetectedTable struct {
	// BBox covers every span of the table
	BBox model.BBox

	// Columns are the column X positions, ascending
	Columns []float64

	// Rows are ordered top to bottom
	Rows []Row
}
