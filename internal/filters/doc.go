// Package filters decodes PDF stream data.
//
// [Decode] applies a stream's filter chain in order:
//
//	data, codec, err := filters.Decode(raw, []filters.Filter{
//	    {Name: "FlateDecode", Params: filters.Params{"Predictor": 12, "Columns": 4}},
//	})
//
// Byte filters (FlateDecode, ASCIIHexDecode, ASCII85Decode, RunLengthDecode,
// CCITTFaxDecode) are decoded. Image codecs (DCTDecode, JPXDecode,
// JBIG2Decode) are left in place: their output is an image file format in
// its own right, so Decode stops there and reports the codec name.
//
// Abbreviated names used in inline images (Fl, AHx, A85, RL, CCF, DCT) are
// accepted.
//
// FlateDecode supports TIFF predictor 2 and the PNG predictors 10 to 15 at
// 8 bits per component, and PNG predictors at 1, 2 and 4 bits.
package filters
