// Package format identifies inputs by their leading bytes. It tells PDFs
// apart from the documents users commonly upload by mistake, and checks that
// image streams passed through unchanged really hold the codec they claim.
package format

import (
	"archive/zip"
	"bytes"
	"strings"
)

// Format is a file type recognised by Sniff.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// XLSX indicates a Microsoft Excel (.xlsx) document.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) document.
	PPTX
	// HTML indicates an HTML document.
	HTML
	// JPEG indicates a baseline or progressive JPEG stream.
	JPEG
	// PNG indicates a PNG image.
	PNG
	// JPX indicates a JPEG 2000 file or bare codestream.
	JPX
	// JBIG2 indicates a JBIG2 file with its file header.
	JBIG2
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case HTML:
		return "HTML"
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case JPX:
		return "JPX"
	case JBIG2:
		return "JBIG2"
	default:
		return "Unknown"
	}
}

// IsImage reports whether f is one of the image formats
func (f Format) IsImage() bool {
	return f >= JPEG && f <= JBIG2
}

// pdfSearchWindow is how far into the data a %PDF header may start. Some
// producers emit a few bytes of junk first.
const pdfSearchWindow = 1024

var (
	zipMagic   = []byte("PK\x03\x04")
	pngMagic   = []byte("\x89PNG\r\n\x1a\n")
	jp2Magic   = []byte("\x00\x00\x00\x0cjP  \r\n\x87\n")
	j2kMagic   = []byte{0xFF, 0x4F, 0xFF, 0x51}
	jbig2Magic = []byte{0x97, 'J', 'B', '2', '\r', '\n', 0x1A, '\n'}
)

// Sniff determines the format of data from its content. Returns Unknown if
// nothing matches.
func Sniff(data []byte) Format {
	switch {
	case len(data) < 4:
		return Unknown
	case bytes.HasPrefix(data, []byte("%PDF")):
		return PDF
	case bytes.HasPrefix(data, zipMagic):
		return sniffZIP(data)
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return JPEG
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case bytes.HasPrefix(data, jp2Magic), bytes.HasPrefix(data, j2kMagic):
		return JPX
	case bytes.HasPrefix(data, jbig2Magic):
		return JBIG2
	case bytes.Contains(data[:min(len(data), pdfSearchWindow)], []byte("%PDF-")):
		return PDF
	case isHTML(data):
		return HTML
	}
	return Unknown
}

// isHTML checks if the data looks like HTML content.
func isHTML(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	head := strings.ToUpper(string(data[:min(len(data), 512)]))
	if strings.HasPrefix(head, "<!DOCTYPE HTML") || strings.HasPrefix(head, "<HTML") {
		return true
	}
	// XHTML
	return strings.HasPrefix(head, "<?XML") && strings.Contains(head, "<HTML")
}

// sniffZIP inspects a ZIP archive to determine if it's DOCX, XLSX, PPTX or
// ODT.
func sniffZIP(data []byte) Format {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Unknown
	}

	// OpenDocument stores its type in a leading mimetype entry
	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		buf := make([]byte, 256)
		n, _ := rc.Read(buf)
		rc.Close()
		if strings.Contains(string(buf[:n]), "application/vnd.oasis.opendocument.text") {
			return ODT
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX
		}
	}
	return Unknown
}
