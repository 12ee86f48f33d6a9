package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/tsawler/pdfoutline/pdfsource"
)

// maxPixels bounds the size of images converted to PNG
const maxPixels = 1 << 26

var errUnsupported = errors.New("images: unsupported sample layout")

// raster is packed sample data, rows padded to whole bytes
type raster struct {
	width  int
	height int
	bpc    int
	comps  int
	data   []byte
}

func (r raster) rowBytes() int {
	return (r.width*r.comps*r.bpc + 7) / 8
}

// sample returns component c of pixel (x, y) as a raw value
func (r raster) sample(x, y, c int) int {
	bit := (x*r.comps + c) * r.bpc
	row := r.data[y*r.rowBytes():]
	switch r.bpc {
	case 8:
		return int(row[bit/8])
	case 16:
		return int(row[bit/8])<<8 | int(row[bit/8+1])
	default:
		shift := 8 - r.bpc - bit%8
		return int(row[bit/8]>>shift) & (1<<r.bpc - 1)
	}
}

// level returns component c of pixel (x, y) scaled to 0-255
func (r raster) level(x, y, c int) uint8 {
	v := r.sample(x, y, c)
	if r.bpc == 16 {
		return uint8(v >> 8)
	}
	return uint8(v * 255 / (1<<r.bpc - 1))
}

func validDepth(bpc int) bool {
	switch bpc {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}

// convertible reports whether ToPNG can handle the image's sample layout
func convertible(obj pdfsource.ImageObject) bool {
	if obj.Width <= 0 || obj.Height <= 0 || obj.Width*obj.Height > maxPixels {
		return false
	}
	if !validDepth(obj.BitsPerComponent) {
		return false
	}
	switch obj.ColorSpace {
	case "DeviceGray", "DeviceRGB", "DeviceCMYK":
		return true
	case "Indexed":
		return obj.BitsPerComponent <= 8 && baseComponents(obj.Base) > 0
	}
	return false
}

func baseComponents(space string) int {
	switch space {
	case "DeviceGray":
		return 1
	case "DeviceRGB":
		return 3
	case "DeviceCMYK":
		return 4
	}
	return 0
}

// ToPNG converts decoded image samples to PNG
func ToPNG(obj pdfsource.ImageObject, data []byte) ([]byte, error) {
	img, err := toImage(obj, data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func toImage(obj pdfsource.ImageObject, data []byte) (image.Image, error) {
	if !convertible(obj) {
		return nil, fmt.Errorf("%w: %s %d-bit %dx%d", errUnsupported,
			obj.ColorSpace, obj.BitsPerComponent, obj.Width, obj.Height)
	}

	r := raster{
		width:  obj.Width,
		height: obj.Height,
		bpc:    obj.BitsPerComponent,
		comps:  obj.Components,
		data:   data,
	}
	if r.comps == 0 {
		r.comps = 1
	}
	if expected := r.rowBytes() * r.height; len(data) < expected {
		return nil, fmt.Errorf("insufficient data: got %d, expected %d", len(data), expected)
	}

	switch obj.ColorSpace {
	case "DeviceGray":
		return toGray(r), nil
	case "DeviceRGB":
		return toRGB(r), nil
	case "DeviceCMYK":
		return toCMYK(r), nil
	default:
		return toPaletted(r, obj), nil
	}
}

func toGray(r raster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			img.Pix[y*img.Stride+x] = r.level(x, y, 0)
		}
	}
	return img
}

func toRGB(r raster) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			i := y*img.Stride + x*4
			img.Pix[i+0] = r.level(x, y, 0)
			img.Pix[i+1] = r.level(x, y, 1)
			img.Pix[i+2] = r.level(x, y, 2)
			img.Pix[i+3] = 255
		}
	}
	return img
}

func toCMYK(r raster) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			red, green, blue := color.CMYKToRGB(r.level(x, y, 0), r.level(x, y, 1), r.level(x, y, 2), r.level(x, y, 3))
			i := y*img.Stride + x*4
			img.Pix[i+0] = red
			img.Pix[i+1] = green
			img.Pix[i+2] = blue
			img.Pix[i+3] = 255
		}
	}
	return img
}

func toPaletted(r raster, obj pdfsource.ImageObject) *image.Paletted {
	palette := buildPalette(obj)
	img := image.NewPaletted(image.Rect(0, 0, r.width, r.height), palette)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			idx := r.sample(x, y, 0)
			if idx >= len(palette) {
				idx = len(palette) - 1
			}
			img.Pix[y*img.Stride+x] = uint8(idx)
		}
	}
	return img
}

// buildPalette expands an Indexed lookup table. Entries missing from a
// short table are black.
func buildPalette(obj pdfsource.ImageObject) color.Palette {
	n := obj.HiVal + 1
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	comps := baseComponents(obj.Base)

	palette := make(color.Palette, n)
	for i := range palette {
		entry := make([]uint8, comps)
		if end := (i + 1) * comps; end <= len(obj.Palette) {
			copy(entry, obj.Palette[i*comps:end])
		}
		switch comps {
		case 1:
			palette[i] = color.Gray{Y: entry[0]}
		case 3:
			palette[i] = color.NRGBA{R: entry[0], G: entry[1], B: entry[2], A: 255}
		case 4:
			red, green, blue := color.CMYKToRGB(entry[0], entry[1], entry[2], entry[3])
			palette[i] = color.NRGBA{R: red, G: green, B: blue, A: 255}
		}
	}
	return palette
}
