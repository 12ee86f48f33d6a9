package tables

import (
	"reflect"
	"testing"

	"github.com/tsawler/pdfoutline/text"
)

func TestExtractGrid(t *testing.T) {
	table, ok := NewGeometricDetector().Detect(grid3x3())
	if !ok {
		t.Fatal("Detect() failed")
	}

	headers, rows := ExtractGrid(table)

	if want := []string{"Name", "Age", "City"}; !reflect.DeepEqual(headers, want) {
		t.Errorf("headers = %v, want %v", headers, want)
	}
	want := [][]string{{"Ann", "31", "Oslo"}, {"Bob", "27", "Rome"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestExtractGrid_SharedAndEmptyCells(t *testing.T) {
	table := &DetectedTable{
		Columns: []float64{10, 100},
		Rows: []Row{
			{Y: 50, Spans: []text.TextSpan{span("Key", 10, 50), span("Value", 100, 50)}},
			{Y: 30, Spans: []text.TextSpan{span("New", 10, 30), span("York", 40, 30)}},
			{Y: 10, Spans: []text.TextSpan{span("x", 99, 10)}},
		},
	}

	headers, rows := ExtractGrid(table)
	if !reflect.DeepEqual(headers, []string{"Key", "Value"}) {
		t.Errorf("headers = %v", headers)
	}
	want := [][]string{{"New York", ""}, {"", "x"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestExtractGrid_Empty(t *testing.T) {
	headers, rows := ExtractGrid(nil)
	if headers != nil || rows != nil {
		t.Errorf("ExtractGrid(nil) = %v, %v", headers, rows)
	}
}

func TestNearestColumn(t *testing.T) {
	cols := []float64{10, 50, 90}
	tests := []struct {
		x    float64
		want int
	}{
		{0, 0},
		{29, 0},
		{30, 0},
		{31, 1},
		{200, 2},
	}
	for _, tt := range tests {
		if got := nearestColumn(cols, tt.x); got != tt.want {
			t.Errorf("nearestColumn(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}
}
