package filters

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for filters this package cannot decode
var ErrUnsupported = errors.New("filters: unsupported filter")

// Filter is one entry of a stream's /Filter array with its DecodeParms
type Filter struct {
	Name   string
	Params Params
}

var abbreviations = map[string]string{
	"AHx": "ASCIIHexDecode",
	"A85": "ASCII85Decode",
	"LZW": "LZWDecode",
	"Fl":  "FlateDecode",
	"RL":  "RunLengthDecode",
	"CCF": "CCITTFaxDecode",
	"DCT": "DCTDecode",
}

// Canonical expands abbreviated filter names
func Canonical(name string) string {
	if full, ok := abbreviations[name]; ok {
		return full
	}
	return name
}

// IsImageCodec reports whether a filter's output is a complete image file
// rather than raw samples
func IsImageCodec(name string) bool {
	switch Canonical(name) {
	case "DCTDecode", "JPXDecode", "JBIG2Decode":
		return true
	}
	return false
}

// Supports reports whether Decode can apply a filter, or pass it through as
// an image codec
func Supports(name string) bool {
	switch Canonical(name) {
	case "FlateDecode", "ASCIIHexDecode", "ASCII85Decode", "RunLengthDecode", "CCITTFaxDecode":
		return true
	}
	return IsImageCodec(name)
}

// Decode runs data through the chain in order. It stops at the first image
// codec and returns the data still encoded with it, together with the
// codec's canonical name. codec is empty when the whole chain was applied.
func Decode(data []byte, chain []Filter) (out []byte, codec string, err error) {
	out = data
	for i, f := range chain {
		name := Canonical(f.Name)
		if IsImageCodec(name) {
			return out, name, nil
		}

		switch name {
		case "FlateDecode":
			out, err = FlateDecode(out, f.Params)
		case "ASCIIHexDecode":
			out, err = ASCIIHexDecode(out)
		case "ASCII85Decode":
			out, err = ASCII85Decode(out)
		case "RunLengthDecode":
			out, err = RunLengthDecode(out)
		case "CCITTFaxDecode":
			out, err = CCITTFaxDecode(out, f.Params)
		default:
			return nil, "", fmt.Errorf("%w: %s", ErrUnsupported, f.Name)
		}
		if err != nil {
			return nil, "", fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
	}
	return out, "", nil
}
