package images

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/tsawler/pdfoutline/format"
	"github.com/tsawler/pdfoutline/internal/filters"
	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/pdfsource"
)

var (
	// ErrNotFound is returned for ids that name no image
	ErrNotFound = errors.New("images: image not found")

	// ErrInvalidID is returned for ids not of the form p{page}-{name}
	ErrInvalidID = errors.New("images: invalid image id")
)

// Backend is the document access the source needs
type Backend interface {
	PageImages(p pdfsource.PageRef) []pdfsource.ImageObject
	ImageStream(p pdfsource.PageRef, name string) (pdfsource.ImageObject, []byte, string, error)
}

// ImageRef describes one image XObject
type ImageRef struct {
	ID     string
	Page   int
	Name   string
	Format model.ImageFormat
}

// ID returns the identifier of the image registered as name on page
func ID(page int, name string) string {
	return fmt.Sprintf("p%d-%s", page, name)
}

// ParseID splits an identifier into its page number and resource name
func ParseID(id string) (page int, name string, err error) {
	rest, ok := strings.CutPrefix(id, "p")
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	num, name, ok := strings.Cut(rest, "-")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	page, err = strconv.Atoi(num)
	if err != nil || page < 1 {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return page, name, nil
}

// Source lists and extracts images. Listings are cached per page.
type Source struct {
	backend Backend

	mu    sync.Mutex
	pages map[int][]ImageRef
}

// NewSource creates a source reading from backend
func NewSource(backend Backend) *Source {
	return &Source{
		backend: backend,
		pages:   make(map[int][]ImageRef),
	}
}

// List returns the images declared in a page's resources, sorted by name
func (s *Source) List(page int) []ImageRef {
	s.mu.Lock()
	refs, ok := s.pages[page]
	s.mu.Unlock()
	if ok {
		return refs
	}

	objects := s.backend.PageImages(pdfsource.PageRef{Number: page})
	refs = make([]ImageRef, 0, len(objects))
	for _, obj := range objects {
		refs = append(refs, ImageRef{
			ID:     ID(page, obj.Name),
			Page:   page,
			Name:   obj.Name,
			Format: formatOf(obj),
		})
	}

	s.mu.Lock()
	s.pages[page] = refs
	s.mu.Unlock()
	return refs
}

// Format reports the delivery format of an image, and whether it exists
func (s *Source) Format(id string) (model.ImageFormat, bool) {
	page, name, err := ParseID(id)
	if err != nil {
		return "", false
	}
	for _, ref := range s.List(page) {
		if ref.Name == name {
			return ref.Format, true
		}
	}
	return "", false
}

// Extract returns an image's bytes in its delivery format. Images that
// cannot be decoded come back with the unknown format and whatever bytes
// could be read.
func (s *Source) Extract(id string) (model.ImageData, error) {
	page, name, err := ParseID(id)
	if err != nil {
		return model.ImageData{}, err
	}

	obj, data, codec, err := s.backend.ImageStream(pdfsource.PageRef{Number: page}, name)
	if err != nil {
		if errors.Is(err, pdfsource.ErrObjectNotFound) || errors.Is(err, pdfsource.ErrPageNotFound) {
			return model.ImageData{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.ImageData{Format: model.ImageFormatUnknown}, nil
	}

	switch codec {
	case "DCTDecode":
		if format.Sniff(data) != format.JPEG {
			return model.ImageData{Format: model.ImageFormatUnknown, Data: data}, nil
		}
		return model.ImageData{Format: model.ImageFormatJPEG, Data: data}, nil
	case "JPXDecode":
		if format.Sniff(data) != format.JPX {
			return model.ImageData{Format: model.ImageFormatUnknown, Data: data}, nil
		}
		return model.ImageData{Format: model.ImageFormatJPX, Data: data}, nil
	case "JBIG2Decode":
		// Embedded JBIG2 streams carry no file header to check.
		return model.ImageData{Format: model.ImageFormatJBIG2, Data: data}, nil
	case "":
	default:
		return model.ImageData{Format: model.ImageFormatUnknown, Data: data}, nil
	}

	encoded, err := ToPNG(obj, data)
	if err != nil {
		return model.ImageData{Format: model.ImageFormatUnknown, Data: data}, nil
	}
	return model.ImageData{Format: model.ImageFormatPNG, Data: encoded}, nil
}

// formatOf predicts the delivery format from the image dictionary alone
func formatOf(obj pdfsource.ImageObject) model.ImageFormat {
	for _, f := range obj.Filters {
		if !filters.Supports(f.Name) {
			return model.ImageFormatUnknown
		}
	}

	switch obj.Codec() {
	case "DCTDecode":
		return model.ImageFormatJPEG
	case "JPXDecode":
		return model.ImageFormatJPX
	case "JBIG2Decode":
		return model.ImageFormatJBIG2
	}

	if convertible(obj) {
		return model.ImageFormatPNG
	}
	return model.ImageFormatUnknown
}
