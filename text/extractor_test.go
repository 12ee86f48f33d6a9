package text

import (
	"math"
	"testing"

	"github.com/tsawler/pdfoutline/contentstream"
)

var helvetica = []FontInfo{
	{ResourceKey: "F1", BaseFont: "Helvetica", Subtype: "Type1"},
	{ResourceKey: "F2", BaseFont: "ABCDEF+Times-BoldItalic", Subtype: "TrueType"},
	{ResourceKey: "F3", BaseFont: "Courier-Oblique", Subtype: "Type1"},
}

func extract(t *testing.T, stream string) []TextSpan {
	t.Helper()
	spans, err := NewExtractor(helvetica, nil).ExtractFromBytes([]byte(stream))
	if err != nil {
		t.Fatalf("ExtractFromBytes failed: %v", err)
	}
	return spans
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// TestSimpleTextExtraction tests basic text extraction
func TestSimpleTextExtraction(t *testing.T) {
	spans := extract(t, "BT /F1 12 Tf 100 200 Td (Hello) Tj ET")

	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Text != "Hello" {
		t.Errorf("expected text 'Hello', got %q", s.Text)
	}
	if s.X != 100 || s.Y != 200 {
		t.Errorf("position = (%v, %v), want (100, 200)", s.X, s.Y)
	}
	if s.FontSize != 12 {
		t.Errorf("font size = %v, want 12", s.FontSize)
	}
	// 5 chars * 12 * 0.5
	if !approx(s.Width, 30) {
		t.Errorf("width = %v, want 30", s.Width)
	}
	if s.FontName != "Helvetica" || s.Bold || s.Italic {
		t.Errorf("font = %q bold=%v italic=%v", s.FontName, s.Bold, s.Italic)
	}
}

func TestFontStyleFromBaseName(t *testing.T) {
	tests := []struct {
		font       string
		wantName   string
		wantBold   bool
		wantItalic bool
	}{
		{"F1", "Helvetica", false, false},
		{"F2", "Times-BoldItalic", true, true},
		{"F3", "Courier-Oblique", false, true},
		{"F9", "F9", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.font, func(t *testing.T) {
			spans := extract(t, "BT /"+tt.font+" 10 Tf (x) Tj ET")
			if len(spans) != 1 {
				t.Fatalf("got %d spans", len(spans))
			}
			s := spans[0]
			if s.FontName != tt.wantName || s.Bold != tt.wantBold || s.Italic != tt.wantItalic {
				t.Errorf("got %q bold=%v italic=%v", s.FontName, s.Bold, s.Italic)
			}
		})
	}
}

func TestEffectiveFontSizeFromMatrix(t *testing.T) {
	spans := extract(t, "BT /F1 1 Tf 18 0 0 18 50 600 Tm (Title) Tj ET")
	if len(spans) != 1 {
		t.Fatalf("got %d spans", len(spans))
	}
	if !approx(spans[0].FontSize, 18) {
		t.Errorf("font size = %v, want 18", spans[0].FontSize)
	}
	if !approx(spans[0].Width, 45) {
		t.Errorf("width = %v, want 45", spans[0].Width)
	}
}

func TestLineMovement(t *testing.T) {
	spans := extract(t, "BT /F1 10 Tf 14 TL 72 700 Td (one) Tj T* (two) Tj (three) ' 0 -20 TD (four) Tj T* (five) Tj ET")

	want := []struct {
		text string
		x, y float64
	}{
		{"one", 72, 700},
		{"two", 72, 686},
		{"three", 72, 672},
		{"four", 72, 652},
		{"five", 72, 632},
	}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d", len(spans), len(want))
	}
	for i, w := range want {
		s := spans[i]
		if s.Text != w.text || !approx(s.X, w.x) || !approx(s.Y, w.y) {
			t.Errorf("span %d = %q (%v, %v), want %q (%v, %v)", i, s.Text, s.X, s.Y, w.text, w.x, w.y)
		}
	}
}

func TestConsecutiveTjAdvance(t *testing.T) {
	spans := extract(t, "BT /F1 10 Tf 0 0 Td (ab) Tj (cd) Tj ET")
	if len(spans) != 2 {
		t.Fatalf("got %d spans", len(spans))
	}
	if !approx(spans[1].X, 10) {
		t.Errorf("second span x = %v, want 10", spans[1].X)
	}
}

func TestSpacingOperators(t *testing.T) {
	// 3 chars, 1 space: 3*(5+1) + 1*2 = 20, then scaled by 50%
	spans := extract(t, "BT /F1 10 Tf 1 Tc 2 Tw 50 Tz (a b) Tj (x) Tj ET")
	if len(spans) != 2 {
		t.Fatalf("got %d spans", len(spans))
	}
	if !approx(spans[0].Width, 10) {
		t.Errorf("width = %v, want 10", spans[0].Width)
	}
	if !approx(spans[1].X, 10) {
		t.Errorf("next x = %v, want 10", spans[1].X)
	}
}

func TestDoubleQuoteOperator(t *testing.T) {
	spans := extract(t, "BT /F1 10 Tf 12 TL 0 100 Td 3 1 (a b) \" ET")
	if len(spans) != 1 {
		t.Fatalf("got %d spans", len(spans))
	}
	s := spans[0]
	if !approx(s.Y, 88) {
		t.Errorf("y = %v, want 88", s.Y)
	}
	// 3*(5+1) + 3
	if !approx(s.Width, 21) {
		t.Errorf("width = %v, want 21", s.Width)
	}
}

func TestTextRise(t *testing.T) {
	spans := extract(t, "BT /F1 10 Tf 0 100 Td 4 Ts (sup) Tj ET")
	if len(spans) != 1 || !approx(spans[0].Y, 104) {
		t.Fatalf("spans = %+v", spans)
	}
}

func TestTJWordBoundary(t *testing.T) {
	tests := []struct {
		name string
		tj   string
		want string
	}{
		{"kerning only", "[(Hel) -20 (lo)]", "Hello"},
		{"word gap", "[(Hello) -250 (World)]", "Hello World"},
		{"threshold", "[(a) -150 (b)]", "ab"},
		{"just above threshold", "[(a) -151 (b)]", "a b"},
		{"positive adjustment", "[(a) 400 (b)]", "ab"},
		{"no double space", "[(a ) -500 (b)]", "a b"},
		{"leading adjustment", "[-500 (a)]", "a"},
		{"trailing gap", "[(a) -900]", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := extract(t, "BT /F1 10 Tf "+tt.tj+" TJ ET")
			if len(spans) != 1 {
				t.Fatalf("got %d spans", len(spans))
			}
			if spans[0].Text != tt.want {
				t.Errorf("text = %q, want %q", spans[0].Text, tt.want)
			}
		})
	}
}

func TestTJPositionAndWidth(t *testing.T) {
	// leading -500 moves the start by 5; "ab" is 10 wide, -1000 adds 10
	spans := extract(t, "BT /F1 10 Tf 100 50 Td [-500 (ab) -1000 (c)] TJ (d) Tj ET")
	if len(spans) != 2 {
		t.Fatalf("got %d spans", len(spans))
	}
	if !approx(spans[0].X, 105) {
		t.Errorf("x = %v, want 105", spans[0].X)
	}
	if !approx(spans[0].Width, 25) {
		t.Errorf("width = %v, want 25", spans[0].Width)
	}
	if !approx(spans[1].X, 130) {
		t.Errorf("next x = %v, want 130", spans[1].X)
	}
}

func TestEmptyAndMalformed(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   int
	}{
		{"empty string", "BT /F1 10 Tf () Tj ET", 0},
		{"Tj wrong type", "BT /F1 10 Tf 5 Tj ET", 0},
		{"Tf wrong arity", "BT /F1 Tf (a) Tj ET", 1},
		{"Td wrong type", "BT /F1 10 Tf (x) (y) Td (a) Tj ET", 1},
		{"unknown operator", "BT /F1 10 Tf 1 2 3 zz (a) Tj ET", 1},
		{"TJ not array", "BT /F1 10 Tf (a) TJ ET", 0},
		{"stray Q", "Q Q BT /F1 10 Tf (a) Tj ET", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := extract(t, tt.stream)
			if len(spans) != tt.want {
				t.Errorf("got %d spans, want %d", len(spans), tt.want)
			}
		})
	}
}

func TestBTResetsMatrix(t *testing.T) {
	spans := extract(t, "BT /F1 10 Tf 300 300 Td (a) Tj ET BT (b) Tj ET")
	if len(spans) != 2 {
		t.Fatalf("got %d spans", len(spans))
	}
	if spans[1].X != 0 || spans[1].Y != 0 {
		t.Errorf("second span at (%v, %v), want origin", spans[1].X, spans[1].Y)
	}
}

func TestCTMAppliesToText(t *testing.T) {
	spans := extract(t, "q 1 0 0 1 50 400 cm BT /F1 10 Tf 10 0 Td (a) Tj ET Q BT /F1 10 Tf (b) Tj ET")
	if len(spans) != 2 {
		t.Fatalf("got %d spans", len(spans))
	}
	if !approx(spans[0].X, 60) || !approx(spans[0].Y, 400) {
		t.Errorf("span in cm = (%v, %v), want (60, 400)", spans[0].X, spans[0].Y)
	}
	if spans[1].X != 0 || spans[1].Y != 0 {
		t.Errorf("span after Q = (%v, %v)", spans[1].X, spans[1].Y)
	}
}

func TestDecoderIsUsed(t *testing.T) {
	var keys []string
	decode := func(key string, raw []byte) string {
		keys = append(keys, key)
		if key == "F2" {
			return "décodé"
		}
		return string(raw)
	}

	ex := NewExtractor(helvetica, decode)
	ops, _ := contentstream.Parse([]byte("BT /F2 10 Tf <0102> Tj ET"))
	spans := ex.Extract(ops)

	if len(spans) != 1 || spans[0].Text != "décodé" {
		t.Fatalf("spans = %+v", spans)
	}
	// rune count drives the width: 6 chars * 5
	if !approx(spans[0].Width, 30) {
		t.Errorf("width = %v, want 30", spans[0].Width)
	}
	if len(keys) != 1 || keys[0] != "F2" {
		t.Errorf("decoder keys = %v", keys)
	}
}

func TestImagePlacements(t *testing.T) {
	ex := NewExtractor(nil, nil)
	ops, _ := contentstream.Parse([]byte("q 200 0 0 100 50 500 cm /Im1 Do Q /Im2 Do"))
	ex.Extract(ops)

	got := ex.Placements()
	if len(got) != 2 {
		t.Fatalf("got %d placements", len(got))
	}
	if got[0].Name != "Im1" || !approx(got[0].X, 50) || !approx(got[0].Y, 600) {
		t.Errorf("placement 0 = %+v", got[0])
	}
	if got[1].Name != "Im2" || got[1].Y != 1 {
		t.Errorf("placement 1 = %+v", got[1])
	}
}

func TestStripSubsetTag(t *testing.T) {
	tests := map[string]string{
		"ABCDEF+Arial": "Arial",
		"Abcdef+Arial": "Abcdef+Arial",
		"Arial":        "Arial",
		"ABCDEF+":      "ABCDEF+",
	}
	for in, want := range tests {
		if got := stripSubsetTag(in); got != want {
			t.Errorf("stripSubsetTag(%q) = %q, want %q", in, got, want)
		}
	}
}
