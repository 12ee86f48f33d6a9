package pdfoutline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/tsawler/pdfoutline/format"
	"github.com/tsawler/pdfoutline/images"
	"github.com/tsawler/pdfoutline/layout"
	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/outline"
	"github.com/tsawler/pdfoutline/pdfsource"
)

// Document is a parsed PDF. The outline is built once by Open; every query
// afterwards works from the stored classified blocks. A Document is safe for
// concurrent use.
type Document struct {
	tree   *model.DocumentTree
	blocks []model.ClassifiedBlock
	images *images.Source
	meta   model.Metadata
	logger *slog.Logger

	mu   sync.Mutex
	rand *rand.Rand
}

// Open parses data and builds its outline
func Open(data []byte, opts ...Option) (*Document, error) {
	return OpenContext(context.Background(), data, opts...)
}

// OpenContext is Open with cancellation of the per-page extraction
func OpenContext(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.analyzer.Table.Validate(); err != nil {
		return nil, fmt.Errorf("pdfoutline: %w", err)
	}

	src, err := openSource(data)
	if err != nil {
		return nil, err
	}
	imgs := images.NewSource(src)

	start := time.Now()
	inputs, err := extractPages(ctx, src, imgs, o.workers, o.logger)
	if err != nil {
		return nil, classify("extract pages", err)
	}

	result := layout.NewAnalyzerWithConfig(o.analyzer).Analyze(inputs)
	meta := src.Metadata()
	tree := outline.BuildTree(result.Blocks, meta)

	o.logger.Debug("document parsed",
		"pages", meta.PageCount,
		"blocks", len(result.Blocks),
		"sections", len(tree.Index),
		"body_size", result.Stats.BodySize,
		"elapsed", time.Since(start))

	rng := o.rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Document{
		tree:   tree,
		blocks: result.Blocks,
		images: imgs,
		meta:   meta,
		logger: o.logger,
		rand:   rng,
	}, nil
}

// Tree returns the document outline
func (d *Document) Tree() *model.DocumentTree {
	return d.tree
}

// Blocks returns the classified block stream the outline was built from
func (d *Document) Blocks() []model.ClassifiedBlock {
	return d.blocks
}

// Info returns the document metadata
func (d *Document) Info() model.Metadata {
	return d.meta
}

// ReadSection renders a section's full content. A nil id reads the whole
// document.
func (d *Document) ReadSection(id *model.SectionID) (model.SectionContent, error) {
	content, err := outline.ReadSection(d.tree, d.blocks, id)
	if err != nil {
		return model.SectionContent{}, classify(sectionMsg(id), err)
	}
	return content, nil
}

// PeekSection returns at most limit characters of a section's content,
// taken from position. A nil id peeks at the whole document.
func (d *Document) PeekSection(id *model.SectionID, position model.Position, limit int) (model.PeekContent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	peek, err := outline.PeekSection(d.tree, d.blocks, id, outline.PeekOptions{
		Position: position,
		Limit:    limit,
		Rand:     d.rand,
	})
	if err != nil {
		return model.PeekContent{}, classify(sectionMsg(id), err)
	}
	return peek, nil
}

// ListSectionImages lists the images whose nearest enclosing section is
// id. A nil id lists every image in the document.
func (d *Document) ListSectionImages(id *model.SectionID) ([]model.EnrichedImageRef, error) {
	refs, err := outline.ListSectionImages(d.tree, d.blocks, id, d.images.Format)
	if err != nil {
		return nil, classify(sectionMsg(id), err)
	}
	return refs, nil
}

// GetImage extracts an image by id
func (d *Document) GetImage(imageID string) (model.ImageData, error) {
	img, err := d.images.Extract(imageID)
	if err != nil {
		return model.ImageData{}, classify(imageID, err)
	}
	if img.Format == model.ImageFormatUnknown {
		d.logger.Warn("image could not be decoded", "image", imageID)
	}
	return img, nil
}

func sectionMsg(id *model.SectionID) string {
	if id == nil {
		return "document"
	}
	return id.String()
}

// openSource opens the raw document, turning away inputs that are
// recognisably some other kind of file
func openSource(data []byte) (*pdfsource.Document, error) {
	if f := format.Sniff(data); f != format.PDF && f != format.Unknown {
		return nil, &Error{Kind: KindParse, Msg: fmt.Sprintf("input is a %s file, not a PDF", f)}
	}
	src, err := pdfsource.Open(data)
	if err != nil {
		return nil, classify("open", err)
	}
	return src, nil
}
