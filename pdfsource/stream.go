package pdfsource

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdfoutline/internal/filters"
)

// streamData returns a stream's fully decoded data
func (d *Document) streamData(v pdf.Value) ([]byte, error) {
	data, codec, err := d.streamPartial(v)
	if err != nil {
		return nil, err
	}
	if codec != "" {
		return nil, fmt.Errorf("%w: %s", filters.ErrUnsupported, codec)
	}
	return data, nil
}

// streamPartial decodes a stream up to its first image codec
func (d *Document) streamPartial(v pdf.Value) (data []byte, codec string, err error) {
	if v.Kind() != pdf.Stream {
		return nil, "", fmt.Errorf("%w: not a stream", ErrObjectNotFound)
	}

	if d.encrypted {
		return decryptedStream(v)
	}

	raw, err := d.rawStream(v)
	if err != nil {
		return nil, "", err
	}
	return filters.Decode(raw, filterChain(v))
}

// rawStream slices the undecoded stream bytes out of the file
func (d *Document) rawStream(v pdf.Value) ([]byte, error) {
	desc := v.String()
	at := strings.LastIndex(desc, "@")
	if at < 0 {
		return nil, fmt.Errorf("%w: stream offset", ErrObjectNotFound)
	}
	offset, err := strconv.ParseInt(desc[at+1:], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stream offset %q: %w", desc[at+1:], err)
	}

	length := v.Key("Length").Int64()
	if offset < 0 || offset > int64(len(d.data)) {
		return nil, fmt.Errorf("stream offset %d out of range", offset)
	}
	end := offset + length
	if length <= 0 || end > int64(len(d.data)) {
		// bad /Length: scan for the endstream keyword instead
		rest := d.data[offset:]
		i := bytes.Index(rest, []byte("endstream"))
		if i < 0 {
			return rest, nil
		}
		return trimEOL(rest[:i]), nil
	}
	return d.data[offset:end], nil
}

func trimEOL(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return b
}

// decryptedStream reads an encrypted document's stream through the
// library, which decrypts and applies Flate and ASCII85 itself. Image codecs
// are left in place.
func decryptedStream(v pdf.Value) (data []byte, codec string, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, codec, err = nil, "", fmt.Errorf("%w: %v", filters.ErrUnsupported, r)
		}
	}()

	chain := filterChain(v)
	for _, f := range chain {
		if filters.IsImageCodec(f.Name) {
			codec = filters.Canonical(f.Name)
		}
	}
	if codec != "" {
		// the library refuses image codecs; report what would be needed
		return nil, codec, fmt.Errorf("%w: encrypted %s stream", filters.ErrUnsupported, codec)
	}

	rc := v.Reader()
	defer rc.Close()
	data, err = io.ReadAll(rc)
	return data, "", err
}

// filterChain reads a stream's /Filter and /DecodeParms entries
func filterChain(v pdf.Value) []filters.Filter {
	filter := v.Key("Filter")
	parms := v.Key("DecodeParms")

	switch filter.Kind() {
	case pdf.Name:
		return []filters.Filter{{Name: filter.Name(), Params: params(parms)}}
	case pdf.Array:
		chain := make([]filters.Filter, 0, filter.Len())
		for i := 0; i < filter.Len(); i++ {
			p := parms
			if parms.Kind() == pdf.Array {
				p = parms.Index(i)
			} else if i > 0 {
				p = pdf.Value{}
			}
			chain = append(chain, filters.Filter{Name: filter.Index(i).Name(), Params: params(p)})
		}
		return chain
	}
	return nil
}

func params(v pdf.Value) filters.Params {
	if v.Kind() != pdf.Dict {
		return nil
	}
	p := make(filters.Params)
	for _, k := range v.Keys() {
		e := v.Key(k)
		switch e.Kind() {
		case pdf.Integer:
			p[k] = e.Int64()
		case pdf.Real:
			p[k] = e.Float64()
		case pdf.Bool:
			p[k] = e.Bool()
		case pdf.Name:
			p[k] = e.Name()
		}
	}
	return p
}
