package outline

import (
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/tsawler/pdfoutline/model"
)

// PeekOptions controls PeekSection
type PeekOptions struct {
	Position model.Position
	Limit    int

	// Rand drives PositionRandom. Nil uses a time-seeded source.
	Rand *rand.Rand
}

// PeekSection returns a window of at most Limit characters of a section's
// rendered text, taken from the requested position.
func PeekSection(tree *model.DocumentTree, blocks []model.ClassifiedBlock, id *model.SectionID, opts PeekOptions) (model.PeekContent, error) {
	content, err := ReadSection(tree, blocks, id)
	if err != nil {
		return model.PeekContent{}, err
	}

	total := utf8.RuneCountInString(content.Text)
	offset := WindowOffset(opts.Position, total, opts.Limit, opts.Rand)

	return model.PeekContent{
		SectionID:  id,
		Title:      content.Title,
		Snippet:    ExtractWindow(content.Text, offset, opts.Limit),
		Position:   opts.Position,
		TotalChars: total,
	}, nil
}

// WindowOffset computes the character offset of a window of limit
// characters in a text of total characters
func WindowOffset(pos model.Position, total, limit int, rng *rand.Rand) int {
	room := total - limit
	if room < 0 {
		room = 0
	}

	switch pos {
	case model.PositionEnding:
		return room
	case model.PositionMiddle:
		return room / 2
	case model.PositionRandom:
		if room == 0 {
			return 0
		}
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		return rng.Intn(room + 1)
	default:
		return 0
	}
}

// ExtractWindow returns up to limit characters of text starting at the
// character offset. Offsets are counted in runes, never bytes.
func ExtractWindow(text string, offset, limit int) string {
	if limit <= 0 || text == "" || offset < 0 {
		return ""
	}

	start := -1
	n := 0
	for i := range text {
		if n == offset {
			start = i
		}
		if n == offset+limit {
			return text[start:i]
		}
		n++
	}

	if start < 0 {
		return ""
	}
	return text[start:]
}
