package model

import "strings"

// BlockKind identifies what a ClassifiedBlock holds
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindTable
	KindImage
)

// String returns a string representation of the block kind
func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// ClassifiedBlock is one entry of the page-ordered block stream produced by
// layout analysis. Which fields are meaningful depends on Kind.
type ClassifiedBlock struct {
	Kind BlockKind `json:"kind"`

	// Page is the 1-based page the block was found on
	Page int `json:"page"`

	// Level is the heading level (1-6) for headings, 0 otherwise
	Level int `json:"level,omitempty"`

	// Text is the heading title or the paragraph text
	Text string `json:"text,omitempty"`

	// Headers and Rows hold a detected table's grid
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`

	// ImageID identifies an image placement
	ImageID string `json:"image_id,omitempty"`
}

// HeadingBlock creates a heading block
func HeadingBlock(level int, title string, page int) ClassifiedBlock {
	return ClassifiedBlock{Kind: KindHeading, Level: level, Text: title, Page: page}
}

// ParagraphBlock creates a paragraph block
func ParagraphBlock(text string, page int) ClassifiedBlock {
	return ClassifiedBlock{Kind: KindParagraph, Text: text, Page: page}
}

// TableBlock creates a table block
func TableBlock(headers []string, rows [][]string, page int) ClassifiedBlock {
	return ClassifiedBlock{Kind: KindTable, Headers: headers, Rows: rows, Page: page}
}

// ImageBlock creates an image placement block
func ImageBlock(id string, page int) ClassifiedBlock {
	return ClassifiedBlock{Kind: KindImage, ImageID: id, Page: page}
}

// IsContent reports whether the block attaches to a section rather than
// opening one.
func (b ClassifiedBlock) IsContent() bool {
	return b.Kind != KindHeading
}

// PlainText returns the block's text for previews and page summaries.
// Tables flatten to their cells separated by spaces; images have no text.
func (b ClassifiedBlock) PlainText() string {
	switch b.Kind {
	case KindParagraph, KindHeading:
		return b.Text
	case KindTable:
		parts := make([]string, 0, len(b.Headers))
		for _, h := range b.Headers {
			if h != "" {
				parts = append(parts, h)
			}
		}
		for _, row := range b.Rows {
			for _, cell := range row {
				if cell != "" {
					parts = append(parts, cell)
				}
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// Markdown renders the block the way section reads present it: tables as
// pipe-delimited rows, headings with '#' prefixes, images as a placeholder.
func (b ClassifiedBlock) Markdown() string {
	switch b.Kind {
	case KindHeading:
		level := b.Level
		if level < 1 {
			level = 1
		}
		return strings.Repeat("#", level) + " " + b.Text
	case KindTable:
		var sb strings.Builder
		writeRow(&sb, b.Headers)
		sep := make([]string, len(b.Headers))
		for i := range sep {
			sep[i] = "---"
		}
		sb.WriteByte('\n')
		writeRow(&sb, sep)
		for _, row := range b.Rows {
			sb.WriteByte('\n')
			writeRow(&sb, row)
		}
		return sb.String()
	case KindImage:
		return "[image: " + b.ImageID + "]"
	default:
		return b.Text
	}
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(c, "|", "\\|"))
		sb.WriteString(" |")
	}
}
