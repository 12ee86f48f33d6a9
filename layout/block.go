package layout

import (
	"math"
	"strings"

	"github.com/tsawler/pdfoutline/text"
)

// BlockGapFactor times the previous line's font size is the largest
// vertical gap inside one block
const BlockGapFactor = 1.4

// BlockType classifies a group of lines
type BlockType int

const (
	BlockParagraph BlockType = iota
	BlockHeading
	BlockListItem
	// BlockTable marks a block already known to be tabular. Paragraph blocks
	// are table candidates too.
	BlockTable
)

// String returns a string representation of the block type
func (t BlockType) String() string {
	switch t {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockListItem:
		return "list_item"
	case BlockTable:
		return "table"
	default:
		return "unknown"
	}
}

// TextBlock is a run of consecutive lines of one type. A heading block holds
// exactly one line.
type TextBlock struct {
	Type  BlockType
	Level int // heading level, 0 otherwise
	Lines []TextLine
}

// Spans returns every span of the block in line order
func (b TextBlock) Spans() []text.TextSpan {
	var spans []text.TextSpan
	for _, l := range b.Lines {
		spans = append(spans, l.Spans...)
	}
	return spans
}

// Text returns the non-empty line texts joined with sep
func (b TextBlock) Text(sep string) string {
	parts := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		if t := strings.TrimSpace(l.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

func lineType(l TextLine) BlockType {
	if l.IsHeading {
		return BlockHeading
	}
	if IsListItem(l.Text()) {
		return BlockListItem
	}
	return BlockParagraph
}

// GroupBlocks groups one page's lines into blocks. Headings always stand
// alone. Other lines start a new block when their type differs from the
// block's or when they sit more than BlockGapFactor line heights below the
// previous line.
func GroupBlocks(lines []TextLine) []TextBlock {
	var blocks []TextBlock
	var cur *TextBlock

	flush := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for _, line := range lines {
		typ := lineType(line)

		if typ == BlockHeading {
			flush()
			blocks = append(blocks, TextBlock{
				Type:  BlockHeading,
				Level: line.HeadingLevel,
				Lines: []TextLine{line},
			})
			continue
		}

		if cur != nil {
			prev := cur.Lines[len(cur.Lines)-1]
			if cur.Type != typ || math.Abs(prev.Y-line.Y) > BlockGapFactor*prev.FontSize {
				flush()
			}
		}

		if cur == nil {
			cur = &TextBlock{Type: typ}
		}
		cur.Lines = append(cur.Lines, line)
	}
	flush()

	return blocks
}
