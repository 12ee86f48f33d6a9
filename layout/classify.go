package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/tables"
)

// PageImage is an image resource of a page
type PageImage struct {
	ID string

	// Y is the top of the image on the page; meaningful only when Placed
	Y float64

	// Placed is false for images the content stream never draws
	Placed bool
}

// Classifier turns text blocks into classified blocks
type Classifier struct {
	detector tables.Detector
}

// NewClassifier creates a classifier. A nil detector uses the geometric
// detector with default configuration.
func NewClassifier(detector tables.Detector) *Classifier {
	if detector == nil {
		detector = tables.NewGeometricDetector()
	}
	return &Classifier{detector: detector}
}

// Classify converts one page's blocks. Headings keep their level, list
// blocks become paragraphs with one line per item, and every other block is
// offered to table detection, falling back to a paragraph of its joined
// lines. Blocks without text are dropped. Images are placed before the
// first block lying below them; images never drawn go last.
func (c *Classifier) Classify(page int, blocks []TextBlock, images []PageImage) []model.ClassifiedBlock {
	placed, unplaced := splitImages(images)

	out := make([]model.ClassifiedBlock, 0, len(blocks)+len(images))
	next := 0
	for _, b := range blocks {
		if len(b.Lines) == 0 {
			continue
		}
		top := b.Lines[0].Y
		for next < len(placed) && placed[next].Y > top {
			out = append(out, model.ImageBlock(placed[next].ID, page))
			next++
		}

		if cb, ok := c.classifyBlock(page, b); ok {
			out = append(out, cb)
		}
	}

	for _, img := range placed[next:] {
		out = append(out, model.ImageBlock(img.ID, page))
	}
	for _, img := range unplaced {
		out = append(out, model.ImageBlock(img.ID, page))
	}
	return out
}

func (c *Classifier) classifyBlock(page int, b TextBlock) (model.ClassifiedBlock, bool) {
	switch b.Type {
	case BlockHeading:
		title := strings.TrimSpace(b.Text(" "))
		if title == "" {
			return model.ClassifiedBlock{}, false
		}
		return model.HeadingBlock(b.Level, title, page), true

	case BlockListItem:
		body := b.Text("\n")
		if body == "" {
			return model.ClassifiedBlock{}, false
		}
		return model.ParagraphBlock(body, page), true
	}

	if table, ok := c.detector.Detect(b.Spans()); ok {
		headers, rows := tables.ExtractGrid(table)
		if hasCells(headers, rows) {
			return model.TableBlock(headers, rows, page), true
		}
	}

	body := b.Text(" ")
	if body == "" {
		return model.ClassifiedBlock{}, false
	}
	return model.ParagraphBlock(body, page), true
}

// splitImages orders placed images top first and keeps unplaced ones in
// resource order
func splitImages(images []PageImage) (placed, unplaced []PageImage) {
	for _, img := range images {
		if img.Placed {
			placed = append(placed, img)
		} else {
			unplaced = append(unplaced, img)
		}
	}
	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].Y > placed[j].Y
	})
	return placed, unplaced
}

func hasCells(headers []string, rows [][]string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}
	for _, r := range rows {
		for _, cell := range r {
			if cell != "" {
				return true
			}
		}
	}
	return false
}
