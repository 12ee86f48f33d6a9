package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPosition is returned by ParsePosition for unknown values
var ErrInvalidPosition = errors.New("model: invalid peek position")

// Position selects where a peek window is taken from
type Position int

const (
	PositionBeginning Position = iota
	PositionMiddle
	PositionEnding
	PositionRandom
)

// String returns a string representation of the position
func (p Position) String() string {
	switch p {
	case PositionBeginning:
		return "beginning"
	case PositionMiddle:
		return "middle"
	case PositionEnding:
		return "ending"
	case PositionRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParsePosition parses a position name, ignoring case
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginning":
		return PositionBeginning, nil
	case "middle":
		return PositionMiddle, nil
	case "ending":
		return PositionEnding, nil
	case "random":
		return PositionRandom, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
}

// MarshalText implements encoding.TextMarshaler
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Position) UnmarshalText(b []byte) error {
	parsed, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PeekContent is a bounded window of a section's rendered text.
// A nil SectionID means the whole document.
type PeekContent struct {
	SectionID  *SectionID `json:"section_id,omitempty"`
	Title      string     `json:"title"`
	Snippet    string     `json:"snippet"`
	Position   Position   `json:"position"`
	TotalChars int        `json:"total_chars"`
}

// ImageRef locates an image placement inside rendered section content
type ImageRef struct {
	ID   string `json:"id"`
	Page int    `json:"page"`
}

// SectionContent is the full rendered text of a section.
// A nil ID means the whole document.
type SectionContent struct {
	ID     *SectionID `json:"id,omitempty"`
	Title  string     `json:"title"`
	Text   string     `json:"text"`
	Images []ImageRef `json:"images"`
}

// ImageFormat is the encoding an extracted image is delivered in
type ImageFormat string

const (
	ImageFormatJPEG    ImageFormat = "jpeg"
	ImageFormatPNG     ImageFormat = "png"
	ImageFormatJPX     ImageFormat = "jpx"
	ImageFormatJBIG2   ImageFormat = "jbig2"
	ImageFormatUnknown ImageFormat = "unknown"
)

// MIMEType returns the media type for the format
func (f ImageFormat) MIMEType() string {
	switch f {
	case ImageFormatJPEG:
		return "image/jpeg"
	case ImageFormatPNG:
		return "image/png"
	case ImageFormatJPX:
		return "image/jpx"
	case ImageFormatJBIG2:
		return "image/x-jbig2"
	default:
		return "application/octet-stream"
	}
}

// Extension returns a file extension, without the dot, for the format
func (f ImageFormat) Extension() string {
	switch f {
	case ImageFormatJPEG:
		return "jpg"
	case ImageFormatPNG:
		return "png"
	case ImageFormatJPX:
		return "jp2"
	case ImageFormatJBIG2:
		return "jb2"
	default:
		return "bin"
	}
}

// ImageData is an extracted image
type ImageData struct {
	Format ImageFormat `json:"format"`
	Data   []byte      `json:"data"`
}

// EnrichedImageRef describes an image together with the section it sits in
type EnrichedImageRef struct {
	ID           string      `json:"id"`
	Format       ImageFormat `json:"format"`
	SectionID    SectionID   `json:"section_id"`
	SectionTitle string      `json:"section_title"`
	Page         int         `json:"page"`
}
