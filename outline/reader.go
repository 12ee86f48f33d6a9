package outline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/pdfoutline/model"
)

// ErrSectionNotFound is returned for ids missing from the tree's index
var ErrSectionNotFound = errors.New("outline: section not found")

// ReadSection renders the content of one section, including its
// sub-sections, or of the whole document when id is nil. Blocks must be the
// stream the tree was built from.
func ReadSection(tree *model.DocumentTree, blocks []model.ClassifiedBlock, id *model.SectionID) (model.SectionContent, error) {
	if id == nil {
		return render(nil, tree.Title, blocks), nil
	}

	entry, ok := tree.Index.Lookup(*id)
	if !ok {
		return model.SectionContent{}, fmt.Errorf("%w: %s", ErrSectionNotFound, id)
	}

	return render(id, entry.Title, sectionBlocks(blocks, *id)), nil
}

// sectionBlocks selects the blocks of one section: its sub-headings and all
// content whose open sections include it. Without headings, a section is a
// page.
func sectionBlocks(blocks []model.ClassifiedBlock, id model.SectionID) []model.ClassifiedBlock {
	var out []model.ClassifiedBlock

	if !hasHeadings(blocks) {
		for _, b := range blocks {
			if b.IsContent() && pageSectionID(b.Page) == id {
				out = append(out, b)
			}
		}
		return out
	}

	Walk(blocks, Visitor{
		OnOpen: func(ancestors []OpenSection, sec OpenSection) {
			if containsID(ancestors, id) {
				out = append(out, model.HeadingBlock(sec.Level, sec.Title, sec.Page))
			}
		},
		OnContent: func(stack []OpenSection, b model.ClassifiedBlock) {
			if containsID(stack, id) {
				out = append(out, b)
			}
		},
	})
	return out
}

// render joins the blocks' markdown with blank lines and lists their images
func render(id *model.SectionID, title string, blocks []model.ClassifiedBlock) model.SectionContent {
	parts := make([]string, 0, len(blocks))
	images := []model.ImageRef{}

	for _, b := range blocks {
		if b.Kind == model.KindImage {
			images = append(images, model.ImageRef{ID: b.ImageID, Page: b.Page})
		}
		if md := strings.TrimSpace(b.Markdown()); md != "" {
			parts = append(parts, md)
		}
	}

	return model.SectionContent{
		ID:     id,
		Title:  title,
		Text:   strings.Join(parts, "\n\n"),
		Images: images,
	}
}
