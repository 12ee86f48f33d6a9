package outline

import (
	"fmt"

	"github.com/tsawler/pdfoutline/model"
)

// DocumentSectionTitle names the synthetic section holding images that
// appear before the first heading
const DocumentSectionTitle = "(Document)"

// FormatLookup resolves the format of an image id
type FormatLookup func(imageID string) (model.ImageFormat, bool)

// ListSectionImages lists the images of a section, or of every section when
// id is nil. Each image belongs to its innermost enclosing section, or to
// the "(Document)" section when no heading precedes it. Images whose format
// cannot be resolved are left out.
func ListSectionImages(tree *model.DocumentTree, blocks []model.ClassifiedBlock, id *model.SectionID, lookup FormatLookup) ([]model.EnrichedImageRef, error) {
	if id != nil && *id != model.DocumentSectionID {
		if _, ok := tree.Index.Lookup(*id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
		}
	}

	refs := []model.EnrichedImageRef{}
	add := func(b model.ClassifiedBlock, sid model.SectionID, title string) {
		if id != nil && *id != sid {
			return
		}
		format, ok := lookup(b.ImageID)
		if !ok {
			return
		}
		refs = append(refs, model.EnrichedImageRef{
			ID:           b.ImageID,
			Format:       format,
			SectionID:    sid,
			SectionTitle: title,
			Page:         b.Page,
		})
	}

	if !hasHeadings(blocks) {
		for _, b := range blocks {
			if b.Kind == model.KindImage {
				add(b, pageSectionID(b.Page), pageTitle(b.Page))
			}
		}
		return refs, nil
	}

	Walk(blocks, Visitor{
		OnContent: func(stack []OpenSection, b model.ClassifiedBlock) {
			if b.Kind != model.KindImage {
				return
			}
			if len(stack) == 0 {
				add(b, model.DocumentSectionID, DocumentSectionTitle)
				return
			}
			inner := stack[len(stack)-1]
			add(b, inner.ID, inner.Title)
		},
	})
	return refs, nil
}
