package layout

import "sort"

const (
	// MaxHeadingChars is the longest line that can still be a heading
	MaxHeadingChars = 200

	// MaxHeadingLevels is the number of distinct heading sizes ranked
	MaxHeadingLevels = 6
)

// ClassifyHeadings marks heading lines in place. Lines set larger than the
// heading threshold are candidates; their distinct sizes are ranked largest
// first into levels 1 to MaxHeadingLevels. Candidates whose size falls
// outside the ranked levels stay body text. Only font size matters, so a
// bold line at body size is never promoted.
//
// All pages must be passed in one call since levels are document-wide.
func ClassifyHeadings(stats FontStats, pages ...[]TextLine) {
	seen := make(map[float64]bool)
	var sizes []float64

	for _, lines := range pages {
		for i := range lines {
			lines[i].IsHeading = false
			lines[i].HeadingLevel = 0

			if !isHeadingCandidate(lines[i], stats) {
				continue
			}
			size := QuantizeSize(lines[i].FontSize)
			if !seen[size] {
				seen[size] = true
				sizes = append(sizes, size)
			}
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	if len(sizes) > MaxHeadingLevels {
		sizes = sizes[:MaxHeadingLevels]
	}

	levels := make(map[float64]int, len(sizes))
	for i, size := range sizes {
		levels[size] = i + 1
	}

	for _, lines := range pages {
		for i := range lines {
			if !isHeadingCandidate(lines[i], stats) {
				continue
			}
			if level, ok := levels[QuantizeSize(lines[i].FontSize)]; ok {
				lines[i].IsHeading = true
				lines[i].HeadingLevel = level
			}
		}
	}
}

func isHeadingCandidate(line TextLine, stats FontStats) bool {
	if line.FontSize <= stats.HeadingThreshold {
		return false
	}
	n := line.CharCount()
	return n > 0 && n <= MaxHeadingChars
}
