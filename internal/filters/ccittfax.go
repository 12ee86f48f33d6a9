package filters

import (
	"bytes"
	"io"

	"golang.org/x/image/ccitt"
)

// DefaultFaxColumns is the CCITT line width when DecodeParms omits Columns
const DefaultFaxColumns = 1728

// CCITTFaxDecode decodes Group 3 or Group 4 fax data to packed 1-bit rows,
// where a 1 bit is white unless BlackIs1 is set.
//
// K selects the encoding (negative for Group 4). Rows of 0 lets the decoder
// find the height itself.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := params.Int("Columns", DefaultFaxColumns)
	rows := params.Int("Rows", 0)
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}

	sf := ccitt.Group3
	if params.Int("K", 0) < 0 {
		sf = ccitt.Group4
	}

	opts := &ccitt.Options{Invert: params.Bool("BlackIs1", false)}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts)
	return io.ReadAll(r)
}
