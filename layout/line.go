package layout

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdfoutline/text"
)

// TextLine is a set of spans sharing a baseline, sorted left to right
type TextLine struct {
	Spans []text.TextSpan

	// Runs are the merged texts of the line, left to right. Spans that
	// could not be merged into the previous run start a new one.
	Runs []string

	// Y and X are taken from the first span
	Y, X float64

	// FontSize is the quantized size covering the most characters
	FontSize float64

	IsHeading    bool
	HeadingLevel int
}

// Text returns the line's runs joined with single spaces
func (l TextLine) Text() string {
	if l.Runs == nil {
		return strings.Join(mergeRuns(l.Spans, DefaultLineConfig()), " ")
	}
	return strings.Join(l.Runs, " ")
}

// CharCount returns the number of characters in the rendered line
func (l TextLine) CharCount() int {
	return utf8.RuneCountInString(l.Text())
}

// LineConfig holds configuration for line grouping
type LineConfig struct {
	// YTolerance is the maximum baseline difference within one line (points)
	YTolerance float64

	// SizeTolerance is the maximum size difference for spans to share a font
	SizeTolerance float64

	// JoinGap is the gap below which same-font spans are concatenated
	// without a space. The default of 0 only joins overlapping spans.
	JoinGap float64

	// WordGapFactor times the font size is the largest gap that still
	// continues a run with a single space
	WordGapFactor float64
}

// DefaultLineConfig returns sensible defaults for line grouping
func DefaultLineConfig() LineConfig {
	return LineConfig{
		YTolerance:    1.0,
		SizeTolerance: 0.5,
		JoinGap:       0,
		WordGapFactor: 2.0,
	}
}

// LineGrouper groups spans into lines
type LineGrouper struct {
	config LineConfig
}

// NewLineGrouper creates a line grouper with default configuration
func NewLineGrouper() *LineGrouper {
	return &LineGrouper{config: DefaultLineConfig()}
}

// NewLineGrouperWithConfig creates a line grouper with custom configuration
func NewLineGrouperWithConfig(config LineConfig) *LineGrouper {
	return &LineGrouper{config: config}
}

// GroupLines sorts spans top to bottom and groups those whose baseline lies
// within YTolerance of a line's first span.
func (g *LineGrouper) GroupLines(spans []text.TextSpan) []TextLine {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]text.TextSpan, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var groups [][]text.TextSpan
	var lineY float64
	for _, s := range sorted {
		if n := len(groups); n > 0 && math.Abs(lineY-s.Y) <= g.config.YTolerance {
			groups[n-1] = append(groups[n-1], s)
			continue
		}
		groups = append(groups, []text.TextSpan{s})
		lineY = s.Y
	}

	lines := make([]TextLine, 0, len(groups))
	for _, group := range groups {
		lines = append(lines, g.buildLine(group))
	}
	return lines
}

func (g *LineGrouper) buildLine(spans []text.TextSpan) TextLine {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].X < spans[j].X
	})

	counts := make(map[float64]int)
	for _, s := range spans {
		addSize(counts, s)
	}
	size, ok := dominantSize(sizeHistogram(counts))
	if !ok {
		size = QuantizeSize(spans[0].FontSize)
	}

	return TextLine{
		Spans:    spans,
		Runs:     mergeRuns(spans, g.config),
		Y:        spans[0].Y,
		X:        spans[0].X,
		FontSize: size,
	}
}

// mergeRuns concatenates adjacent spans of the same font. Small gaps join
// directly, word-sized gaps join with a space unless both sides are in a
// script written without spaces, and anything wider starts a new run.
func mergeRuns(spans []text.TextSpan, config LineConfig) []string {
	var runs []string
	var cur strings.Builder
	var prev *text.TextSpan

	for i := range spans {
		s := &spans[i]
		if prev != nil && sameFont(*prev, *s, config.SizeTolerance) {
			gap := s.X - (prev.X + prev.Width)
			if gap < config.JoinGap {
				cur.WriteString(s.Text)
				prev = s
				continue
			}
			if gap < config.WordGapFactor*prev.FontSize {
				joined := cur.String()
				if !text.JoinsWithoutSpace(joined, s.Text) &&
					!strings.HasSuffix(joined, " ") && !strings.HasPrefix(s.Text, " ") {
					cur.WriteByte(' ')
				}
				cur.WriteString(s.Text)
				prev = s
				continue
			}
		}

		if r := strings.TrimSpace(cur.String()); r != "" {
			runs = append(runs, r)
		}
		cur.Reset()
		cur.WriteString(s.Text)
		prev = s
	}

	if r := strings.TrimSpace(cur.String()); r != "" {
		runs = append(runs, r)
	}
	return runs
}

// sameFont reports whether two spans share name, size and style
func sameFont(a, b text.TextSpan, sizeTolerance float64) bool {
	return a.FontName == b.FontName &&
		math.Abs(a.FontSize-b.FontSize) <= sizeTolerance &&
		a.Bold == b.Bold &&
		a.Italic == b.Italic
}
