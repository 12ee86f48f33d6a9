// Package graphicsstate tracks the parts of the PDF graphics state needed to
// position text and images.
//
// The main type is GraphicsState, which holds the current transformation
// matrix, a q/Q save stack and the text state:
//
//	gs := graphicsstate.NewGraphicsState()
//	gs.Save()                 // q
//	gs.Transform(matrix)      // cm
//	gs.BeginText()            // BT
//	gs.SetFont("F1", 12)      // Tf
//	gs.TranslateText(72, 700) // Td
//	x, y := gs.TextPosition()
//	gs.Restore()              // Q
//
// No glyph metrics are available, so advances are estimated: every
// character is half an em wide. See AdvanceText.
package graphicsstate
