package layout

import (
	"math"
	"sort"

	"github.com/tsawler/pdfoutline/text"
)

const (
	// DefaultBodySize is used when a document has no measurable text
	DefaultBodySize = 12.0

	// HeadingMargin is how much larger than the body size a line must be set
	// to become a heading candidate
	HeadingMargin = 1.5
)

// SizeCount is one histogram bucket: a quantized font size and the number of
// characters set in it
type SizeCount struct {
	Size  float64 `json:"size"`
	Chars int     `json:"chars"`
}

// FontStats summarizes font size usage across a document
type FontStats struct {
	BodySize         float64     `json:"body_size"`
	HeadingThreshold float64     `json:"heading_threshold"`
	Histogram        []SizeCount `json:"histogram"` // largest size first
}

// QuantizeSize rounds a font size to the nearest half point
func QuantizeSize(size float64) float64 {
	return math.Round(size*2) / 2
}

// ComputeFontStats builds the character-weighted size histogram of every
// page's spans and picks the most used size as the body size.
func ComputeFontStats(pages ...[]text.TextSpan) FontStats {
	counts := make(map[float64]int)
	for _, spans := range pages {
		for _, s := range spans {
			addSize(counts, s)
		}
	}

	hist := sizeHistogram(counts)
	body, ok := dominantSize(hist)
	if !ok {
		body = DefaultBodySize
	}

	return FontStats{
		BodySize:         body,
		HeadingThreshold: body + HeadingMargin,
		Histogram:        hist,
	}
}

func addSize(counts map[float64]int, s text.TextSpan) {
	if s.FontSize <= 0 {
		return
	}
	if n := s.CharCount(); n > 0 {
		counts[QuantizeSize(s.FontSize)] += n
	}
}

// sizeHistogram flattens counts, largest size first
func sizeHistogram(counts map[float64]int) []SizeCount {
	hist := make([]SizeCount, 0, len(counts))
	for size, chars := range counts {
		hist = append(hist, SizeCount{Size: size, Chars: chars})
	}
	sort.Slice(hist, func(i, j int) bool {
		return hist[i].Size > hist[j].Size
	})
	return hist
}

// dominantSize returns the size with the most characters. The histogram is
// ordered largest first, so ties go to the larger size.
func dominantSize(hist []SizeCount) (float64, bool) {
	if len(hist) == 0 {
		return 0, false
	}
	best := hist[0]
	for _, b := range hist[1:] {
		if b.Chars > best.Chars {
			best = b
		}
	}
	return best.Size, true
}
