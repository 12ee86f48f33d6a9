package images

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/tsawler/pdfoutline/internal/testpdf"
	"github.com/tsawler/pdfoutline/model"
	"github.com/tsawler/pdfoutline/pdfsource"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		id       string
		wantPage int
		wantName string
		wantErr  bool
	}{
		{"p1-Im1", 1, "Im1", false},
		{"p12-X-Obj", 12, "X-Obj", false},
		{"p0-Im1", 0, "", true},
		{"1-Im1", 0, "", true},
		{"p1-", 0, "", true},
		{"px-Im1", 0, "", true},
		{"", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			page, name, err := ParseID(tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Errorf("expected ErrInvalidID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID failed: %v", err)
			}
			if page != tt.wantPage || name != tt.wantName {
				t.Errorf("ParseID = %d, %q; want %d, %q", page, name, tt.wantPage, tt.wantName)
			}
			if ID(page, name) != tt.id {
				t.Errorf("ID(%d, %q) = %q", page, name, ID(page, name))
			}
		})
	}
}

func gallery(t *testing.T) *Source {
	t.Helper()
	data := testpdf.Build(testpdf.Document{Pages: []testpdf.Page{{
		Contents: []string{testpdf.Draw("Im1", 0, 0, 10, 10)},
		Images: map[string]testpdf.Image{
			"Im1": {
				Width: 2, Height: 1, ColorSpace: "/DeviceRGB",
				Filter: "/FlateDecode",
				Data:   testpdf.Deflate([]byte{255, 0, 0, 0, 0, 255}),
			},
			"Im2": {
				Width: 1, Height: 1, ColorSpace: "/DeviceRGB",
				Filter: "/DCTDecode",
				Data:   []byte{0xFF, 0xD8, 0xFF, 0xD9},
			},
			"Im3": {
				Width: 2, Height: 1,
				ColorSpace: "[/Indexed /DeviceRGB 1 <00ff000000ff>]",
				Data:       []byte{1, 0},
			},
			"Im4": {
				Width: 8, Height: 1, ImageMask: true,
				Data: []byte{0x0F},
			},
			"Im5": {
				Width: 1, Height: 1, ColorSpace: "/DeviceGray",
				Filter: "/LZWDecode",
				Data:   []byte{0x80},
			},
		},
	}}})

	doc, err := pdfsource.Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return NewSource(doc)
}

func TestList(t *testing.T) {
	s := gallery(t)

	refs := s.List(1)
	want := []struct {
		id     string
		format model.ImageFormat
	}{
		{"p1-Im1", model.ImageFormatPNG},
		{"p1-Im2", model.ImageFormatJPEG},
		{"p1-Im3", model.ImageFormatPNG},
		{"p1-Im4", model.ImageFormatPNG},
		{"p1-Im5", model.ImageFormatUnknown},
	}
	if len(refs) != len(want) {
		t.Fatalf("expected %d images, got %d", len(want), len(refs))
	}
	for i, w := range want {
		if refs[i].ID != w.id || refs[i].Format != w.format || refs[i].Page != 1 {
			t.Errorf("refs[%d] = %+v, want %s %s", i, refs[i], w.id, w.format)
		}
	}

	if got := s.List(2); len(got) != 0 {
		t.Errorf("missing page listed %d images", len(got))
	}

	if f, ok := s.Format("p1-Im2"); !ok || f != model.ImageFormatJPEG {
		t.Errorf("Format(p1-Im2) = %s, %v", f, ok)
	}
	if _, ok := s.Format("p1-Nope"); ok {
		t.Error("Format found a missing image")
	}
}

func TestExtractPassThrough(t *testing.T) {
	img, err := gallery(t).Extract("p1-Im2")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if img.Format != model.ImageFormatJPEG || !bytes.Equal(img.Data, []byte{0xFF, 0xD8, 0xFF, 0xD9}) {
		t.Errorf("Extract = %s %v", img.Format, img.Data)
	}
}

func TestExtractPNG(t *testing.T) {
	s := gallery(t)

	tests := []struct {
		id   string
		want []color.NRGBA
	}{
		{"p1-Im1", []color.NRGBA{{255, 0, 0, 255}, {0, 0, 255, 255}}},
		{"p1-Im3", []color.NRGBA{{0, 0, 255, 255}, {0, 255, 0, 255}}},
		{"p1-Im4", []color.NRGBA{{0, 0, 0, 255}, {0, 0, 0, 255}, {0, 0, 0, 255}, {0, 0, 0, 255},
			{255, 255, 255, 255}, {255, 255, 255, 255}, {255, 255, 255, 255}, {255, 255, 255, 255}}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			data, err := s.Extract(tt.id)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if data.Format != model.ImageFormatPNG {
				t.Fatalf("format = %s, want png", data.Format)
			}
			img, err := png.Decode(bytes.NewReader(data.Data))
			if err != nil {
				t.Fatalf("png.Decode failed: %v", err)
			}
			for x, want := range tt.want {
				got := color.NRGBAModel.Convert(img.At(x, 0)).(color.NRGBA)
				if got != want {
					t.Errorf("pixel %d = %v, want %v", x, got, want)
				}
			}
		})
	}
}

func TestExtractDegrades(t *testing.T) {
	s := gallery(t)

	img, err := s.Extract("p1-Im5")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if img.Format != model.ImageFormatUnknown {
		t.Errorf("format = %s, want unknown", img.Format)
	}

	if _, err := s.Extract("p1-Missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Extract("p7-Im1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing page, got %v", err)
	}
	if _, err := s.Extract("bogus"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestExtractRejectsMislabeledStreams(t *testing.T) {
	data := testpdf.Build(testpdf.Document{Pages: []testpdf.Page{{
		Images: map[string]testpdf.Image{
			"Im1": {
				Width: 1, Height: 1, ColorSpace: "/DeviceRGB",
				Filter: "/DCTDecode",
				Data:   []byte("not a jpeg"),
			},
			"Im2": {
				Width: 1, Height: 1, ColorSpace: "/DeviceRGB",
				Filter: "/JPXDecode",
				Data:   []byte{0xFF, 0x4F, 0xFF, 0x51, 0x00, 0x29},
			},
		},
	}}})
	doc, err := pdfsource.Open(data)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s := NewSource(doc)

	img, err := s.Extract("p1-Im1")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if img.Format != model.ImageFormatUnknown {
		t.Errorf("mislabeled DCT format = %s, want unknown", img.Format)
	}

	img, err = s.Extract("p1-Im2")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if img.Format != model.ImageFormatJPX {
		t.Errorf("JPX format = %s, want jpx", img.Format)
	}
}
