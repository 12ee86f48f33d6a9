package graphicsstate

import (
	"errors"
	"math"
	"testing"

	"github.com/tsawler/pdfoutline/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestNewGraphicsState tests initial state
func TestNewGraphicsState(t *testing.T) {
	gs := NewGraphicsState()

	if gs.Text.FontSize != 12.0 {
		t.Errorf("expected font size 12.0, got %f", gs.Text.FontSize)
	}
	if gs.Text.HorizontalScaling != 100.0 {
		t.Errorf("expected horizontal scaling 100.0, got %f", gs.Text.HorizontalScaling)
	}
	if gs.CTM != model.Identity() {
		t.Error("expected CTM to be identity matrix")
	}
}

// TestSaveRestore tests q/Q operators
func TestSaveRestore(t *testing.T) {
	gs := NewGraphicsState()
	gs.SetFont("F1", 14)
	gs.Save()
	gs.SetFont("F2", 18)
	gs.Transform(model.Translate(10, 10))

	if err := gs.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if gs.Text.FontKey != "F1" || gs.Text.FontSize != 14 {
		t.Errorf("restored font = %s %v, want F1 14", gs.Text.FontKey, gs.Text.FontSize)
	}
	if gs.CTM != model.Identity() {
		t.Errorf("restored CTM = %v", gs.CTM)
	}
	if err := gs.Restore(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("Restore on empty stack = %v, want ErrStackUnderflow", err)
	}
}

func TestTranslateText(t *testing.T) {
	gs := NewGraphicsState()
	gs.BeginText()
	gs.TranslateText(72, 700)
	gs.TranslateText(0, -14)

	x, y := gs.TextPosition()
	if !approx(x, 72) || !approx(y, 686) {
		t.Errorf("position = (%v, %v), want (72, 686)", x, y)
	}
}

func TestTranslateTextSetLeading(t *testing.T) {
	gs := NewGraphicsState()
	gs.TranslateTextSetLeading(0, -15)
	if gs.Text.Leading != 15 {
		t.Errorf("leading = %v, want 15", gs.Text.Leading)
	}

	gs.NextLine()
	if _, y := gs.TextPosition(); !approx(y, -30) {
		t.Errorf("y after T* = %v, want -30", y)
	}
}

func TestAdvanceText(t *testing.T) {
	tests := []struct {
		name    string
		size    float64
		tc, tw  float64
		tz      float64
		chars   int
		spaces  int
		wantAdv float64
	}{
		{"plain", 10, 0, 0, 100, 4, 0, 20},
		{"char spacing", 10, 1, 0, 100, 4, 0, 24},
		{"word spacing", 10, 0, 3, 100, 5, 1, 28},
		{"horizontal scale", 10, 0, 0, 50, 4, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGraphicsState()
			gs.SetFont("F1", tt.size)
			gs.SetCharSpacing(tt.tc)
			gs.SetWordSpacing(tt.tw)
			gs.SetHorizontalScaling(tt.tz)

			got := gs.AdvanceText(tt.chars, tt.spaces)
			if !approx(got, tt.wantAdv) {
				t.Errorf("AdvanceText() = %v, want %v", got, tt.wantAdv)
			}
			if x, _ := gs.TextPosition(); !approx(x, tt.wantAdv) {
				t.Errorf("x = %v, want %v", x, tt.wantAdv)
			}
		})
	}
}

func TestKern(t *testing.T) {
	gs := NewGraphicsState()
	gs.SetFont("F1", 10)

	if got := gs.Kern(-500); !approx(got, 5) {
		t.Errorf("Kern(-500) = %v, want 5", got)
	}
	if got := gs.Kern(200); !approx(got, -2) {
		t.Errorf("Kern(200) = %v, want -2", got)
	}
	if x, _ := gs.TextPosition(); !approx(x, 3) {
		t.Errorf("x = %v, want 3", x)
	}
}

func TestEffectiveFontSize(t *testing.T) {
	tests := []struct {
		name string
		size float64
		tm   model.Matrix
		ctm  model.Matrix
		want float64
	}{
		{"identity", 12, model.Identity(), model.Identity(), 12},
		{"scaled matrix", 1, model.Matrix{14, 0, 0, 14, 0, 0}, model.Identity(), 14},
		{"ctm scale", 10, model.Identity(), model.Matrix{2, 0, 0, 2, 0, 0}, 20},
		{"rotated", 10, model.Matrix{0, 1, -1, 0, 0, 0}, model.Identity(), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGraphicsState()
			gs.Transform(tt.ctm)
			gs.SetFont("F1", tt.size)
			gs.SetTextMatrix(tt.tm)
			if got := gs.EffectiveFontSize(); !approx(got, tt.want) {
				t.Errorf("EffectiveFontSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextRise(t *testing.T) {
	gs := NewGraphicsState()
	gs.SetTextMatrix(model.Translate(10, 100))
	gs.SetTextRise(3)
	if _, y := gs.TextPosition(); !approx(y, 103) {
		t.Errorf("y = %v, want 103", y)
	}
}

func TestUserPoint(t *testing.T) {
	gs := NewGraphicsState()
	gs.Transform(model.Matrix{100, 0, 0, 50, 20, 300})

	x, y := gs.UserPoint(0, 1)
	if !approx(x, 20) || !approx(y, 350) {
		t.Errorf("UserPoint(0,1) = (%v, %v), want (20, 350)", x, y)
	}
}
