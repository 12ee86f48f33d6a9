package tables

import (
	"math"
	"strings"
)

// ExtractGrid lays the table's spans out as cells. Every span goes to the
// column nearest its X position and texts sharing a cell are joined with a
// space. The first row becomes the headers.
func ExtractGrid(table *DetectedTable) (headers []string, rows [][]string) {
	if table == nil || len(table.Rows) == 0 || len(table.Columns) == 0 {
		return nil, nil
	}

	grid := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([][]string, len(table.Columns))
		for _, s := range row.Spans {
			col := nearestColumn(table.Columns, s.X)
			if t := strings.TrimSpace(s.Text); t != "" {
				cells[col] = append(cells[col], t)
			}
		}

		out := make([]string, len(cells))
		for i, parts := range cells {
			out[i] = strings.Join(parts, " ")
		}
		grid = append(grid, out)
	}

	return grid[0], grid[1:]
}

// nearestColumn returns the index of the column closest to x; ties go left
func nearestColumn(columns []float64, x float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range columns {
		if d := math.Abs(x - c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
