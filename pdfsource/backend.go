package pdfsource

import (
	"errors"

	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/text"
)

var (
	// ErrNotPDF is returned when the bytes cannot be opened as a PDF
	ErrNotPDF = errors.New("pdfsource: cannot open document")

	// ErrEncrypted is returned for documents that need a password
	ErrEncrypted = errors.New("pdfsource: document is encrypted")

	// ErrNoPageTree is returned when the catalog has no usable page tree
	ErrNoPageTree = errors.New("pdfsource: cannot resolve page tree")

	// ErrPageNotFound is returned for page numbers outside the document
	ErrPageNotFound = errors.New("pdfsource: page not found")

	// ErrObjectNotFound is returned for missing resources
	ErrObjectNotFound = errors.New("pdfsource: object not found")
)

// PageRef identifies a page by its 1-based number
type PageRef struct {
	Number int
}

// Backend is read access to a parsed document
type Backend interface {
	// Pages returns every page in page order
	Pages() []PageRef

	// PageFonts describes the page's font resources
	PageFonts(p PageRef) []text.FontInfo

	// PageContent returns the page's decompressed content stream
	PageContent(p PageRef) ([]byte, error)

	// DecodeText converts a string operand shown with the font registered
	// under fontKey to text
	DecodeText(p PageRef, fontKey string, raw []byte) string

	// Metadata returns the document information
	Metadata() model.Metadata
}
