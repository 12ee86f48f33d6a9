package pdfoutline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tsawler/pdfoutline/images"
	"github.com/tsawler/pdfoutline/layout"
	"github.com/tsawler/pdfoutline/pdfsource"
	"github.com/tsawler/pdfoutline/text"
)

// backend is the document access the pipeline needs
type backend interface {
	pdfsource.Backend
	images.Backend
}

// errRecovered marks a page whose backend calls panicked
var errRecovered = errors.New("recovered backend panic")

// extractPages turns every page into analyzer input using a bounded pool
// of workers. Results are in page order. A page that fails is logged and
// contributes no spans.
func extractPages(ctx context.Context, b backend, src *images.Source, workers int, logger *slog.Logger) ([]layout.PageInput, error) {
	pages := b.Pages()
	inputs := make([]layout.PageInput, len(pages))

	if workers < 1 {
		workers = 1
	}

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
	)

	for i, p := range pages {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(i int, p pdfsource.PageRef) {
			defer wg.Done()
			defer func() { <-sem }()

			input, err := extractPage(b, src, p)
			switch {
			case errors.Is(err, errRecovered):
				logger.Warn("page extraction panicked", "page", p.Number, "error", err)
			case err != nil:
				logger.Debug("page extraction failed", "page", p.Number, "error", err)
			}
			inputs[i] = input
		}(i, p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// extractPage runs the span extractor over one page and matches its image
// placements with the page's image resources
func extractPage(b backend, src *images.Source, p pdfsource.PageRef) (input layout.PageInput, err error) {
	input.Number = p.Number

	defer func() {
		if r := recover(); r != nil {
			input = layout.PageInput{Number: p.Number}
			err = fmt.Errorf("%w: %v", errRecovered, r)
		}
	}()

	content, err := b.PageContent(p)
	if err != nil {
		input.Images = pageImages(src.List(p.Number), nil)
		return input, err
	}

	decode := func(fontKey string, raw []byte) string {
		return b.DecodeText(p, fontKey, raw)
	}
	extractor := text.NewExtractor(b.PageFonts(p), decode)

	spans, err := extractor.ExtractFromBytes(content)
	input.Spans = spans
	input.Images = pageImages(src.List(p.Number), extractor.Placements())
	return input, err
}

// pageImages pairs each image resource with its first placement. Images
// the content stream never draws are unplaced.
func pageImages(refs []images.ImageRef, placements []text.ImagePlacement) []layout.PageImage {
	if len(refs) == 0 {
		return nil
	}

	first := make(map[string]text.ImagePlacement, len(placements))
	for _, pl := range placements {
		if _, ok := first[pl.Name]; !ok {
			first[pl.Name] = pl
		}
	}

	out := make([]layout.PageImage, 0, len(refs))
	for _, ref := range refs {
		img := layout.PageImage{ID: ref.ID}
		if pl, ok := first[ref.Name]; ok {
			img.Y = pl.Y
			img.Placed = true
		}
		out = append(out, img)
	}
	return out
}
