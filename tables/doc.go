// Package tables detects tables in blocks of positioned text.
//
// Detection needs no ruling lines. The [GeometricDetector] groups spans into
// rows by vertical proximity, then votes on column positions: every row casts
// at most one vote per rounded X position, positions backed by enough rows
// become columns, and the block is accepted when enough rows line up with
// those columns.
//
//	det := tables.NewGeometricDetector()
//	if table, ok := det.Detect(spans); ok {
//	    headers, rows := tables.ExtractGrid(table)
//	}
//
// # Configuration
//
// [Config] holds the thresholds. [DefaultConfig] returns:
//
//	MinRows:           2
//	MinColumns:        2
//	MaxColumns:        20
//	YToleranceFactor:  0.3
//	MinAlignmentRatio: 0.5
//	MinColumnGap:      10
//
// A block that fails detection is not an error. Callers fall back to
// treating it as plain text.
package tables
