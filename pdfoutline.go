// Package pdfoutline turns a PDF into a navigable outline.
//
// The text-positioning operators of every page are reduced to positioned
// text spans, grouped into lines and blocks, classified as headings,
// paragraphs, list items, tables and images, and assembled into a nested
// section tree with stable ids ("s{depth}-{index}") and a breadcrumb index.
// Sections can then be read in full, peeked at through bounded character
// windows, or searched for images.
//
// One-shot usage:
//
//	tree, err := pdfoutline.Parse(data)
//	if errors.Is(err, pdfoutline.ErrEncrypted) {
//	    // password-protected
//	}
//	for _, entry := range tree.Index {
//	    fmt.Println(entry.ID, entry.Breadcrumb())
//	}
//
// Parse once, query many times:
//
//	doc, err := pdfoutline.Open(data, pdfoutline.WithWorkers(4))
//	if err != nil {
//	    // handle error
//	}
//	id, _ := model.ParseSectionID("s1-2")
//	content, err := doc.ReadSection(&id)
//
// The per-call functions below parse the document every time they are
// called; their results are identical to the Document methods.
package pdfoutline

import (
	"github.com/tsawler/pdfoutline/images"
	"github.com/tsawler/pdfoutline/model"
)

// DefaultPeekLimit is the window size front ends use when none is given
const DefaultPeekLimit = 500

// Parse builds the outline of a document
func Parse(data []byte, opts ...Option) (*model.DocumentTree, error) {
	doc, err := Open(data, opts...)
	if err != nil {
		return nil, err
	}
	return doc.Tree(), nil
}

// ReadSection renders one section, or the whole document when id is nil
func ReadSection(data []byte, id *model.SectionID, opts ...Option) (model.SectionContent, error) {
	doc, err := Open(data, opts...)
	if err != nil {
		return model.SectionContent{}, err
	}
	return doc.ReadSection(id)
}

// PeekSection returns a bounded window of a section's content
func PeekSection(data []byte, id *model.SectionID, position model.Position, limit int, opts ...Option) (model.PeekContent, error) {
	doc, err := Open(data, opts...)
	if err != nil {
		return model.PeekContent{}, err
	}
	return doc.PeekSection(id, position, limit)
}

// ListSectionImages lists a section's images with their formats
func ListSectionImages(data []byte, id *model.SectionID, opts ...Option) ([]model.EnrichedImageRef, error) {
	doc, err := Open(data, opts...)
	if err != nil {
		return nil, err
	}
	return doc.ListSectionImages(id)
}

// GetImage extracts one image. Only the image's page is read.
func GetImage(data []byte, imageID string) (model.ImageData, error) {
	src, err := openSource(data)
	if err != nil {
		return model.ImageData{}, err
	}
	img, err := images.NewSource(src).Extract(imageID)
	if err != nil {
		return model.ImageData{}, classify(imageID, err)
	}
	return img, nil
}

// Info returns document metadata without building the outline
func Info(data []byte) (model.Metadata, error) {
	src, err := openSource(data)
	if err != nil {
		return model.Metadata{}, err
	}
	return src.Metadata(), nil
}
