package tables

import (
	"math"
	"sort"

	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/text"
)

// GeometricDetector detects tables from the horizontal alignment of text
type GeometricDetector struct {
	config Config
}

// NewGeometricDetector creates a detector with default configuration
func NewGeometricDetector() *GeometricDetector {
	return &GeometricDetector{config: DefaultConfig()}
}

// NewGeometricDetectorWithConfig creates a detector with custom configuration
func NewGeometricDetectorWithConfig(config Config) *GeometricDetector {
	return &GeometricDetector{config: config}
}

// Name returns the detector name
func (d *GeometricDetector) Name() string {
	return "geometric"
}

// Configure sets detector parameters
func (d *GeometricDetector) Configure(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	d.config = config
	return nil
}

// Detect reports whether the spans form a table and returns its structure
func (d *GeometricDetector) Detect(spans []text.TextSpan) (*DetectedTable, bool) {
	if len(spans) == 0 {
		return nil, false
	}

	tolerance := median(fontSizes(spans)) * d.config.YToleranceFactor
	if tolerance < 1.0 {
		tolerance = 1.0
	}

	rows := groupRows(spans, tolerance)
	if len(rows) < d.config.MinRows {
		return nil, false
	}

	columns := d.detectColumns(rows)
	if len(columns) < d.config.MinColumns || len(columns) > d.config.MaxColumns {
		return nil, false
	}

	if !d.validateAlignment(rows, columns) {
		return nil, false
	}

	var bbox model.BBox
	for _, s := range spans {
		bbox = bbox.Union(s.BBox())
	}

	return &DetectedTable{BBox: bbox, Columns: columns, Rows: rows}, true
}

// groupRows sorts spans top to bottom, left to right, and groups those within
// tolerance of a row's first span.
func groupRows(spans []text.TextSpan, tolerance float64) []Row {
	sorted := make([]text.TextSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []Row
	for _, s := range sorted {
		if n := len(rows); n > 0 && math.Abs(rows[n-1].Y-s.Y) <= tolerance {
			rows[n-1].Spans = append(rows[n-1].Spans, s)
			continue
		}
		rows = append(rows, Row{Y: s.Y, Spans: []text.TextSpan{s}})
	}

	for i := range rows {
		r := rows[i].Spans
		sort.SliceStable(r, func(a, b int) bool { return r[a].X < r[b].X })
	}
	return rows
}

// columnBucket accumulates the votes for one rounded X position
type columnBucket struct {
	key   int
	votes int
	sumX  float64
}

// detectColumns votes on rounded X positions, one vote per row per bucket,
// keeps buckets supported by enough rows and merges neighbours closer than
// MinColumnGap.
func (d *GeometricDetector) detectColumns(rows []Row) []float64 {
	buckets := make(map[int]*columnBucket)
	for _, row := range rows {
		seen := make(map[int]bool, len(row.Spans))
		for _, s := range row.Spans {
			key := int(math.Round(s.X))
			if seen[key] {
				continue
			}
			seen[key] = true

			b, ok := buckets[key]
			if !ok {
				b = &columnBucket{key: key}
				buckets[key] = b
			}
			b.votes++
			b.sumX += s.X
		}
	}

	threshold := int(math.Ceil(float64(len(rows)) * d.config.MinAlignmentRatio))
	var candidates []float64
	for _, b := range buckets {
		if b.votes >= threshold {
			candidates = append(candidates, b.sumX/float64(b.votes))
		}
	}
	sort.Float64s(candidates)

	var columns []float64
	for _, x := range candidates {
		if n := len(columns); n > 0 && x-columns[n-1] < d.config.MinColumnGap {
			continue
		}
		columns = append(columns, x)
	}
	return columns
}

// validateAlignment checks that enough rows have spans on at least half the
// columns.
func (d *GeometricDetector) validateAlignment(rows []Row, columns []float64) bool {
	need := int(math.Ceil(float64(len(columns)) / 2))

	aligned := 0
	for _, row := range rows {
		hit := 0
		for _, col := range columns {
			for _, s := range row.Spans {
				if math.Abs(s.X-col) <= d.config.MinColumnGap {
					hit++
					break
				}
			}
		}
		if hit >= need {
			aligned++
		}
	}

	return float64(aligned)/float64(len(rows)) >= d.config.MinAlignmentRatio
}

func fontSizes(spans []text.TextSpan) []float64 {
	sizes := make([]float64, len(spans))
	for i, s := range spans {
		sizes[i] = s.FontSize
	}
	return sizes
}

// median returns the median of values, or 0 for none
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
