// Package text turns PDF content stream operations into positioned text
// spans.
//
// The [Extractor] runs a reduced text state machine (BT/ET, Tf, Tm, Td, TD,
// T*, TL, Tc, Tw, Tz, Ts and the four show operators) over one page:
//
//	ex := text.NewExtractor(fonts, decode)
//	spans := ex.Extract(ops)
//	images := ex.Placements()
//
// No glyph metrics are consulted. Widths are estimated as half an em per
// character plus character and word spacing, which is enough for line and
// column grouping. Inside a TJ array an adjustment wider than 30% of one
// estimated glyph becomes a space, and the whole array yields one span.
//
// Bold and italic flags come from the font's base name. [IsSpaceless]
// reports whether a rune belongs to a script that does not put spaces
// between words.
package text
