package pdfsource

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/text"
)

// Document is a PDF opened for reading. It is safe for concurrent use.
type Document struct {
	reader    *pdf.Reader
	data      []byte
	encrypted bool
	pageCount int

	mu       sync.Mutex
	encoders map[fontRef]pdf.TextEncoding
}

type fontRef struct {
	page int
	key  string
}

var _ Backend = (*Document)(nil)

// Open parses the document's cross-reference data and page tree root.
// Encrypted documents open only when the empty user password works;
// otherwise the error wraps ErrEncrypted.
func Open(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	data = normalize(data)
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if isEncryptionError(err, data) {
			return nil, fmt.Errorf("%w: %v", ErrEncrypted, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	pages := reader.Trailer().Key("Root").Key("Pages")
	if pages.Kind() != pdf.Dict {
		return nil, ErrNoPageTree
	}

	return &Document{
		reader:    reader,
		data:      data,
		encrypted: !reader.Trailer().Key("Encrypt").IsNull(),
		pageCount: reader.NumPage(),
		encoders:  make(map[fontRef]pdf.TextEncoding),
	}, nil
}

// normalize lets the reader accept PDF 2.0 headers and trailing bytes after
// the final %%EOF, both of which it otherwise rejects.
func normalize(data []byte) []byte {
	out := data
	if i := bytes.LastIndex(out, []byte("%%EOF")); i >= 0 && i+5 < len(out) {
		rest := bytes.TrimLeft(out[i+5:], "\r\n")
		if len(rest) > 0 {
			out = append([]byte(nil), out[:i+5]...)
			out = append(out, '\n')
		}
	}
	if bytes.HasPrefix(out, []byte("%PDF-2.")) {
		if &out[0] == &data[0] {
			out = append([]byte(nil), out...)
		}
		copy(out, "%PDF-1.7")
	}
	return out
}

func isEncryptionError(err error, data []byte) bool {
	if errors.Is(err, pdf.ErrInvalidPassword) {
		return true
	}
	msg := err.Error()
	return bytes.Contains(data, []byte("/Encrypt")) &&
		(strings.Contains(msg, "encrypt") || strings.Contains(msg, "password"))
}

// Encrypted reports whether the document was decrypted with the empty
// password
func (d *Document) Encrypted() bool {
	return d.encrypted
}

// Pages returns every page in page order
func (d *Document) Pages() []PageRef {
	pages := make([]PageRef, d.pageCount)
	for i := range pages {
		pages[i] = PageRef{Number: i + 1}
	}
	return pages
}

func (d *Document) page(p PageRef) (pdf.Page, bool) {
	if p.Number < 1 || p.Number > d.pageCount {
		return pdf.Page{}, false
	}
	page := d.reader.Page(p.Number)
	return page, !page.V.IsNull()
}

// PageFonts describes the page's font resources, sorted by resource key
func (d *Document) PageFonts(p PageRef) (fonts []text.FontInfo) {
	defer func() {
		if recover() != nil {
			fonts = nil
		}
	}()

	page, ok := d.page(p)
	if !ok {
		return nil
	}

	keys := page.Fonts()
	sort.Strings(keys)
	for _, key := range keys {
		f := page.Font(key)
		fonts = append(fonts, text.FontInfo{
			ResourceKey: key,
			BaseFont:    f.BaseFont(),
			Subtype:     f.V.Key("Subtype").Name(),
			Encoding:    encodingName(f.V.Key("Encoding")),
		})
	}
	return fonts
}

func encodingName(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Name:
		return v.Name()
	case pdf.Dict:
		if base := v.Key("BaseEncoding").Name(); base != "" {
			return base
		}
		return "Differences"
	}
	return ""
}

// PageContent returns the page's content streams, decoded and joined
func (d *Document) PageContent(p PageRef) (content []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			content, err = nil, fmt.Errorf("page %d: %v", p.Number, r)
		}
	}()

	page, ok := d.page(p)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPageNotFound, p.Number)
	}

	contents := page.V.Key("Contents")
	switch contents.Kind() {
	case pdf.Stream:
		return d.streamData(contents)
	case pdf.Array:
		var buf bytes.Buffer
		for i := 0; i < contents.Len(); i++ {
			part, err := d.streamData(contents.Index(i))
			if err != nil {
				return nil, fmt.Errorf("page %d content %d: %w", p.Number, i, err)
			}
			buf.Write(part)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	default:
		return nil, nil
	}
}

// DecodeText decodes a string operand with the font's encoding. Unknown
// fonts and encodings fall back to DecodeGeneric.
func (d *Document) DecodeText(p PageRef, fontKey string, raw []byte) (decoded string) {
	enc := d.encoder(p, fontKey)
	if enc == nil {
		return DecodeGeneric(raw)
	}

	defer func() {
		if recover() != nil {
			decoded = DecodeGeneric(raw)
		}
	}()
	return enc.Decode(string(raw))
}

// encoder returns the cached encoder of a page font, or nil when the
// library has no usable encoding for it
func (d *Document) encoder(p PageRef, fontKey string) pdf.TextEncoding {
	ref := fontRef{page: p.Number, key: fontKey}

	d.mu.Lock()
	enc, ok := d.encoders[ref]
	d.mu.Unlock()
	if ok {
		return enc
	}

	enc = d.loadEncoder(p, fontKey)

	d.mu.Lock()
	d.encoders[ref] = enc
	d.mu.Unlock()
	return enc
}

func (d *Document) loadEncoder(p PageRef, fontKey string) (enc pdf.TextEncoding) {
	defer func() {
		if recover() != nil {
			enc = nil
		}
	}()

	page, ok := d.page(p)
	if !ok {
		return nil
	}
	font := page.Font(fontKey)
	if font.V.Kind() != pdf.Dict {
		return nil
	}
	if !libraryEncodes(font.V) {
		return nil
	}
	return font.Encoder()
}

// libraryEncodes reports whether the library maps this font's codes to
// text itself rather than passing the bytes through
func libraryEncodes(font pdf.Value) bool {
	if font.Key("ToUnicode").Kind() == pdf.Stream {
		return true
	}
	enc := font.Key("Encoding")
	switch enc.Kind() {
	case pdf.Name:
		switch enc.Name() {
		case "WinAnsiEncoding", "MacRomanEncoding":
			return true
		}
		return false
	case pdf.Dict:
		return true
	}
	return false
}

// Metadata returns the document information dictionary and page count
func (d *Document) Metadata() (meta model.Metadata) {
	meta.PageCount = d.pageCount
	if d.encrypted {
		// strings are not decrypted by the reader
		return meta
	}

	defer func() {
		_ = recover()
	}()

	info := d.reader.Trailer().Key("Info")
	meta.Title = strings.TrimSpace(info.Key("Title").Text())
	meta.Author = strings.TrimSpace(info.Key("Author").Text())
	meta.Subject = strings.TrimSpace(info.Key("Subject").Text())
	meta.Creator = strings.TrimSpace(info.Key("Creator").Text())
	meta.Producer = strings.TrimSpace(info.Key("Producer").Text())
	return meta
}
