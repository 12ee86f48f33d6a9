package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FlateDecode decompresses zlib data and undoes the predictor named in
// params. Streams truncated before their checksum are returned as far as
// they decoded, since many writers emit them.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	decompressed, err := inflate(data)
	if err != nil {
		return nil, err
	}

	predictor := params.Int("Predictor", 1)
	if predictor <= 1 {
		return decompressed, nil
	}
	out, err := unpredict(decompressed, predictor, params)
	if err != nil {
		return nil, fmt.Errorf("predictor %d: %w", predictor, err)
	}
	return out, nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib header: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		if buf.Len() > 0 && (errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum)) {
			return buf.Bytes(), nil
		}
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return buf.Bytes(), nil
}

// rowGeometry describes predicted rows: bytes per row without the tag byte
// and the byte distance to the corresponding byte of the previous pixel
type rowGeometry struct {
	rowLen int
	bpp    int
}

func geometry(params Params) rowGeometry {
	columns := params.Int("Columns", 1)
	colors := params.Int("Colors", 1)
	bpc := params.Int("BitsPerComponent", 8)

	bpp := colors * bpc / 8
	if bpp < 1 {
		bpp = 1
	}
	return rowGeometry{
		rowLen: (columns*colors*bpc + 7) / 8,
		bpp:    bpp,
	}
}

func unpredict(data []byte, predictor int, params Params) ([]byte, error) {
	switch {
	case predictor == 2:
		return tiffUnpredict(data, params)
	case predictor >= 10 && predictor <= 15:
		return pngUnpredict(data, geometry(params))
	default:
		return nil, fmt.Errorf("unsupported predictor")
	}
}

// tiffUnpredict undoes TIFF predictor 2: each sample is stored as the
// difference from the same component of the pixel to its left
func tiffUnpredict(data []byte, params Params) ([]byte, error) {
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor needs 8 bits per component, got %d", bpc)
	}
	colors := params.Int("Colors", 1)
	rowLen := params.Int("Columns", 1) * colors
	if rowLen <= 0 || len(data)%rowLen != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowLen)
	}

	out := make([]byte, len(data))
	copy(out, data)
	for start := 0; start < len(out); start += rowLen {
		row := out[start : start+rowLen]
		for i := colors; i < len(row); i++ {
			row[i] += row[i-colors]
		}
	}
	return out, nil
}

// pngUnpredict undoes PNG filtering. Every row carries its own filter type
// byte, whatever predictor value 10-15 the dictionary names.
func pngUnpredict(data []byte, g rowGeometry) ([]byte, error) {
	stride := g.rowLen + 1
	if g.rowLen <= 0 || len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}

	rows := len(data) / stride
	out := make([]byte, rows*g.rowLen)
	prev := make([]byte, g.rowLen)

	for r := 0; r < rows; r++ {
		tag := data[r*stride]
		src := data[r*stride+1 : (r+1)*stride]
		cur := out[r*g.rowLen : (r+1)*g.rowLen]

		for i := range src {
			var left, upLeft byte
			if i >= g.bpp {
				left = cur[i-g.bpp]
				upLeft = prev[i-g.bpp]
			}
			up := prev[i]

			switch tag {
			case 0:
				cur[i] = src[i]
			case 1:
				cur[i] = src[i] + left
			case 2:
				cur[i] = src[i] + up
			case 3:
				cur[i] = src[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = src[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter type %d", r, tag)
			}
		}
		prev = cur
	}
	return out, nil
}

// paeth picks whichever of left, up and upper-left is closest to
// left + up - upLeft
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
