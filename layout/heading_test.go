package layout

import (
	"strings"
	"testing"
)

func line(s string, size float64) TextLine {
	return TextLine{Runs: []string{s}, FontSize: size}
}

func TestClassifyHeadings(t *testing.T) {
	stats := FontStats{BodySize: 10, HeadingThreshold: 11.5}

	page1 := []TextLine{
		line("Title", 24),
		line("body", 10),
		line("Section", 16),
		line("bold body", 10),
	}
	page2 := []TextLine{
		line("Another Section", 16),
		line("Minor", 12),
		line("threshold exactly", 11.5),
	}

	ClassifyHeadings(stats, page1, page2)

	tests := []struct {
		line  TextLine
		level int
	}{
		{page1[0], 1},
		{page1[1], 0},
		{page1[2], 2},
		{page1[3], 0},
		{page2[0], 2},
		{page2[1], 3},
		{page2[2], 0},
	}

	for _, tt := range tests {
		if tt.line.IsHeading != (tt.level > 0) || tt.line.HeadingLevel != tt.level {
			t.Errorf("%q: IsHeading=%v level=%d, want level %d",
				tt.line.Text(), tt.line.IsHeading, tt.line.HeadingLevel, tt.level)
		}
	}
}

func TestClassifyHeadings_LevelCap(t *testing.T) {
	stats := FontStats{BodySize: 10, HeadingThreshold: 11.5}

	var lines []TextLine
	for _, size := range []float64{30, 28, 26, 24, 22, 20, 18} {
		lines = append(lines, line("Heading", size))
	}

	ClassifyHeadings(stats, lines)

	for i, l := range lines[:6] {
		if l.HeadingLevel != i+1 {
			t.Errorf("size %v: level %d, want %d", l.FontSize, l.HeadingLevel, i+1)
		}
	}
	if lines[6].IsHeading {
		t.Error("seventh distinct size should not be a heading")
	}
}

func TestClassifyHeadings_LongLine(t *testing.T) {
	stats := FontStats{BodySize: 10, HeadingThreshold: 11.5}
	lines := []TextLine{line(strings.Repeat("x", MaxHeadingChars+1), 20)}

	ClassifyHeadings(stats, lines)

	if lines[0].IsHeading {
		t.Error("line longer than MaxHeadingChars classified as heading")
	}
}
