package text

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdfoutline/contentstream"
	"github.com/tsawler/pdfoutline/graphicsstate"
	"github.com/tsawler/pdfoutline/model"
)

// wordGapRatio is the fraction of one estimated glyph width above which a TJ
// adjustment is read as a word boundary.
const wordGapRatio = 0.3

// TextSpan is one contiguous run of decoded text drawn with a single font
type TextSpan struct {
	Text     string
	X, Y     float64
	Width    float64
	FontSize float64 // effective size, after matrix scaling
	FontName string
	Bold     bool
	Italic   bool
}

// BBox returns the span's box, using the font size as its height
func (s TextSpan) BBox() model.BBox {
	return model.NewBBox(s.X, s.Y, s.Width, s.FontSize)
}

// CharCount returns the number of characters in the span
func (s TextSpan) CharCount() int {
	return utf8.RuneCountInString(s.Text)
}

// FontInfo describes one entry of a page's font resources
type FontInfo struct {
	ResourceKey string
	BaseFont    string
	Subtype     string
	Encoding    string
}

// Decoder converts the raw bytes of a string operand shown with the font
// registered under fontKey into text.
type Decoder func(fontKey string, raw []byte) string

// ImagePlacement records where an XObject was painted with the Do operator.
// Y is the top edge of the painted unit square in device space.
type ImagePlacement struct {
	Name string
	X, Y float64
}

// Extractor extracts text spans from content stream operations
type Extractor struct {
	gs     *graphicsstate.GraphicsState
	fonts  map[string]FontInfo
	decode Decoder

	spans      []TextSpan
	placements []ImagePlacement

	// accumulating TJ run
	run      strings.Builder
	runX     float64
	runY     float64
	runStart bool
}

// NewExtractor creates a text extractor for one page. fonts are the page's
// font resources; decode turns string operands into text and may be nil, in
// which case bytes are taken as UTF-8.
func NewExtractor(fonts []FontInfo, decode Decoder) *Extractor {
	e := &Extractor{
		gs:     graphicsstate.NewGraphicsState(),
		fonts:  make(map[string]FontInfo, len(fonts)),
		decode: decode,
	}
	for _, f := range fonts {
		e.fonts[f.ResourceKey] = f
	}
	if e.decode == nil {
		e.decode = func(_ string, raw []byte) string { return string(raw) }
	}
	return e
}

// Extract runs the operations through the text state machine and returns the
// spans in drawing order. Operators it does not know, and known operators
// with operands of the wrong shape, are skipped.
func (e *Extractor) Extract(operations []contentstream.Operation) []TextSpan {
	e.spans = nil
	e.placements = nil
	for _, op := range operations {
		e.processOperation(op)
	}
	return e.spans
}

// ExtractFromBytes parses raw content stream data and extracts spans. The
// parse error, if any, is returned together with the spans recovered.
func (e *Extractor) ExtractFromBytes(data []byte) ([]TextSpan, error) {
	ops, err := contentstream.Parse(data)
	return e.Extract(ops), err
}

// Placements returns the image placements seen by the last Extract call
func (e *Extractor) Placements() []ImagePlacement {
	return e.placements
}

// processOperation processes a single content stream operation
func (e *Extractor) processOperation(op contentstream.Operation) {
	args := op.Operands

	switch op.Operator {
	// Graphics state
	case "q":
		e.gs.Save()
	case "Q":
		// An unbalanced Q leaves the state as is.
		_ = e.gs.Restore()
	case "cm":
		if m, ok := toMatrix(args); ok {
			e.gs.Transform(m)
		}
	case "Do":
		if len(args) == 1 {
			if name, ok := args[0].AsName(); ok {
				e.placeImage(name)
			}
		}

	// Text objects
	case "BT", "ET":
		e.gs.BeginText()

	// Text state
	case "Tf":
		if len(args) == 2 {
			name, ok1 := args[0].AsName()
			size, ok2 := args[1].Number()
			if ok1 && ok2 {
				e.gs.SetFont(name, size)
			}
		}
	case "Tc":
		if v, ok := singleNumber(args); ok {
			e.gs.SetCharSpacing(v)
		}
	case "Tw":
		if v, ok := singleNumber(args); ok {
			e.gs.SetWordSpacing(v)
		}
	case "Tz":
		if v, ok := singleNumber(args); ok {
			e.gs.SetHorizontalScaling(v)
		}
	case "TL":
		if v, ok := singleNumber(args); ok {
			e.gs.SetLeading(v)
		}
	case "Ts":
		if v, ok := singleNumber(args); ok {
			e.gs.SetTextRise(v)
		}

	// Text positioning
	case "Tm":
		if m, ok := toMatrix(args); ok {
			e.gs.SetTextMatrix(m)
		}
	case "Td", "TD":
		if len(args) == 2 {
			tx, ok1 := args[0].Number()
			ty, ok2 := args[1].Number()
			if !ok1 || !ok2 {
				return
			}
			if op.Operator == "TD" {
				e.gs.TranslateTextSetLeading(tx, ty)
			} else {
				e.gs.TranslateText(tx, ty)
			}
		}
	case "T*":
		e.gs.NextLine()

	// Text showing
	case "Tj":
		if len(args) == 1 {
			if raw, ok := args[0].AsString(); ok {
				e.showText(raw)
			}
		}
	case "TJ":
		if len(args) == 1 && args[0].Kind == contentstream.KindArray {
			e.showTextArray(args[0].Array)
		}
	case "'":
		if len(args) == 1 {
			if raw, ok := args[0].AsString(); ok {
				e.gs.NextLine()
				e.showText(raw)
			}
		}
	case "\"":
		if len(args) == 3 {
			aw, ok1 := args[0].Number()
			ac, ok2 := args[1].Number()
			raw, ok3 := args[2].AsString()
			if ok1 && ok2 && ok3 {
				e.gs.SetWordSpacing(aw)
				e.gs.SetCharSpacing(ac)
				e.gs.NextLine()
				e.showText(raw)
			}
		}
	}
}

// showText emits one span for a Tj-style string and advances the matrix
func (e *Extractor) showText(raw []byte) {
	decoded := e.decode(e.gs.Text.FontKey, raw)
	if decoded == "" {
		return
	}

	x, y := e.gs.TextPosition()
	e.gs.AdvanceText(utf8.RuneCountInString(decoded), strings.Count(decoded, " "))
	endX, _ := e.gs.TextPosition()

	e.emit(decoded, x, y, endX)
}

// showTextArray accumulates the strings of a TJ array into one run. Large
// negative adjustments become spaces inside the run.
func (e *Extractor) showTextArray(items []contentstream.Value) {
	e.run.Reset()
	e.runStart = false

	for _, item := range items {
		if raw, ok := item.AsString(); ok {
			decoded := e.decode(e.gs.Text.FontKey, raw)
			if decoded == "" {
				continue
			}
			if !e.runStart {
				e.runX, e.runY = e.gs.TextPosition()
				e.runStart = true
			}
			e.run.WriteString(decoded)
			e.gs.AdvanceText(utf8.RuneCountInString(decoded), strings.Count(decoded, " "))
			continue
		}

		adj, ok := item.Number()
		if !ok {
			continue
		}
		tx := e.gs.Kern(adj)
		if e.runStart && tx > wordGapRatio*e.gs.CharWidth() && !strings.HasSuffix(e.run.String(), " ") {
			e.run.WriteByte(' ')
		}
	}

	if !e.runStart {
		return
	}
	endX, _ := e.gs.TextPosition()
	e.emit(strings.TrimRight(e.run.String(), " "), e.runX, e.runY, endX)
}

func (e *Extractor) emit(s string, x, y, endX float64) {
	if s == "" {
		return
	}

	width := endX - x
	if width < 0 {
		width = -width
	}

	info, ok := e.fonts[e.gs.Text.FontKey]
	name := e.gs.Text.FontKey
	if ok && info.BaseFont != "" {
		name = stripSubsetTag(info.BaseFont)
	}
	upper := strings.ToUpper(name)

	e.spans = append(e.spans, TextSpan{
		Text:     s,
		X:        x,
		Y:        y,
		Width:    width,
		FontSize: e.gs.EffectiveFontSize(),
		FontName: name,
		Bold:     strings.Contains(upper, "BOLD"),
		Italic:   strings.Contains(upper, "ITALIC") || strings.Contains(upper, "OBLIQUE"),
	})
}

// placeImage records a Do invocation. The XObject is painted into the unit
// square of the current user space.
func (e *Extractor) placeImage(name string) {
	x0, y0 := e.gs.UserPoint(0, 0)
	_, y1 := e.gs.UserPoint(0, 1)
	if y1 > y0 {
		y0 = y1
	}
	e.placements = append(e.placements, ImagePlacement{Name: name, X: x0, Y: y0})
}

// stripSubsetTag removes the "ABCDEF+" prefix of embedded font subsets
func stripSubsetTag(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}

func singleNumber(args []contentstream.Value) (float64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	return args[0].Number()
}

// toMatrix converts six numeric operands to a matrix
func toMatrix(args []contentstream.Value) (model.Matrix, bool) {
	var m model.Matrix
	if len(args) != 6 {
		return m, false
	}
	for i, a := range args {
		v, ok := a.Number()
		if !ok {
			return m, false
		}
		m[i] = v
	}
	return m, true
}
