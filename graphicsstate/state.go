package graphicsstate

import (
	"errors"

	"github.com/tsawler/pdfoutline/model"
)

// ErrStackUnderflow is returned by Restore when there is no saved state
var ErrStackUnderflow = errors.New("graphicsstate: stack underflow")

// GlyphWidthFactor is the estimated glyph advance as a fraction of the font
// size.
const GlyphWidthFactor = 0.5

// GraphicsState represents the PDF graphics state
type GraphicsState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []saved
}

type saved struct {
	ctm  model.Matrix
	text TextState
}

// TextState represents text-specific state
type TextState struct {
	// Font resource key and size (Tf operator)
	FontKey  string
	FontSize float64

	// Character and word spacing (Tc, Tw operators)
	CharSpacing float64
	WordSpacing float64

	// Horizontal scaling in percent (Tz operator)
	HorizontalScaling float64

	// Leading (TL operator)
	Leading float64

	// Text rise (Ts operator)
	Rise float64

	// Text matrices
	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

// NewGraphicsState creates a new graphics state with default values
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM: model.Identity(),
		Text: TextState{
			FontSize:          12.0,
			HorizontalScaling: 100.0,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, saved{ctm: gs.CTM, text: gs.Text})
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return ErrStackUnderflow
	}

	top := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]
	gs.CTM = top.ctm
	gs.Text = top.text
	return nil
}

// Depth returns the number of saved states
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Transform applies a transformation matrix to CTM (cm operator)
func (gs *GraphicsState) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetFont sets the current font (Tf operator)
func (gs *GraphicsState) SetFont(key string, size float64) {
	gs.Text.FontKey = key
	gs.Text.FontSize = size
}

// SetCharSpacing sets character spacing (Tc operator)
func (gs *GraphicsState) SetCharSpacing(spacing float64) {
	gs.Text.CharSpacing = spacing
}

// SetWordSpacing sets word spacing (Tw operator)
func (gs *GraphicsState) SetWordSpacing(spacing float64) {
	gs.Text.WordSpacing = spacing
}

// SetHorizontalScaling sets horizontal scaling (Tz operator)
func (gs *GraphicsState) SetHorizontalScaling(scale float64) {
	gs.Text.HorizontalScaling = scale
}

// SetLeading sets text leading (TL operator)
func (gs *GraphicsState) SetLeading(leading float64) {
	gs.Text.Leading = leading
}

// SetTextRise sets text rise (Ts operator)
func (gs *GraphicsState) SetTextRise(rise float64) {
	gs.Text.Rise = rise
}

// BeginText resets both text matrices (BT operator). ET does the same so a
// stray text operator outside BT/ET starts from the origin.
func (gs *GraphicsState) BeginText() {
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// SetTextMatrix sets the text matrix (Tm operator)
func (gs *GraphicsState) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText translates the text matrix (Td operator)
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	// Td is equivalent to: Tm = Tlm = T(tx, ty) × Tlm
	gs.Text.TextLineMatrix = model.Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading translates text and sets leading (TD operator)
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.SetLeading(-ty)
	gs.TranslateText(tx, ty)
}

// NextLine moves to the start of the next line (T* operator)
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// HorizontalScale returns the Tz scaling as a factor
func (gs *GraphicsState) HorizontalScale() float64 {
	return gs.Text.HorizontalScaling / 100.0
}

// CharWidth returns the estimated advance of one glyph in text space
func (gs *GraphicsState) CharWidth() float64 {
	return gs.Text.FontSize * GlyphWidthFactor * gs.HorizontalScale()
}

// AdvanceText moves the text matrix past chars glyphs, spaces of which are
// literal space characters, and returns the distance in text space.
func (gs *GraphicsState) AdvanceText(chars, spaces int) float64 {
	h := gs.HorizontalScale()
	tx := float64(chars)*(gs.Text.FontSize*GlyphWidthFactor+gs.Text.CharSpacing)*h +
		float64(spaces)*gs.Text.WordSpacing*h
	gs.Shift(tx)
	return tx
}

// Kern applies a TJ position adjustment, given in thousandths of an em, and
// returns the resulting displacement in text space.
func (gs *GraphicsState) Kern(adjustment float64) float64 {
	tx := -adjustment / 1000.0 * gs.Text.FontSize * gs.HorizontalScale()
	gs.Shift(tx)
	return tx
}

// Shift moves the text matrix horizontally by tx text space units
func (gs *GraphicsState) Shift(tx float64) {
	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
}

// renderMatrix maps text space to device space
func (gs *GraphicsState) renderMatrix() model.Matrix {
	return gs.Text.TextMatrix.Multiply(gs.CTM)
}

// TextPosition returns the current text origin in device space, including
// the text rise.
func (gs *GraphicsState) TextPosition() (x, y float64) {
	p := gs.renderMatrix().Transform(model.Point{X: 0, Y: gs.Text.Rise})
	return p.X, p.Y
}

// EffectiveFontSize returns the font size scaled by the vertical scale of
// the text rendering matrix, i.e. size × sqrt(b² + d²).
func (gs *GraphicsState) EffectiveFontSize() float64 {
	return gs.Text.FontSize * gs.renderMatrix().VerticalScale()
}

// UserPoint maps a point in the current user space to device space
func (gs *GraphicsState) UserPoint(x, y float64) (float64, float64) {
	p := gs.CTM.Transform(model.Point{X: x, Y: y})
	return p.X, p.Y
}
