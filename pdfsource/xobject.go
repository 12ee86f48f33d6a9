package pdfsource

import (
	"fmt"
	"sort"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdfoutline/internal/filters"
)

// ImageObject describes an image XObject in a page's resources
type ImageObject struct {
	Name             string
	Width            int
	Height           int
	BitsPerComponent int
	ColorSpace       string
	Components       int
	ImageMask        bool
	Filters          []filters.Filter

	// Indexed images only
	Base    string
	HiVal   int
	Palette []byte
}

// Codec returns the image codec in the filter chain, or ""
func (o ImageObject) Codec() string {
	for _, f := range o.Filters {
		if filters.IsImageCodec(f.Name) {
			return filters.Canonical(f.Name)
		}
	}
	return ""
}

// PageImages lists the image XObjects a page's resources declare, sorted by
// resource name
func (d *Document) PageImages(p PageRef) (images []ImageObject) {
	defer func() {
		if recover() != nil {
			images = nil
		}
	}()

	page, ok := d.page(p)
	if !ok {
		return nil
	}
	xobjects := page.Resources().Key("XObject")
	keys := xobjects.Keys()
	sort.Strings(keys)

	for _, key := range keys {
		v := xobjects.Key(key)
		if v.Key("Subtype").Name() != "Image" {
			continue
		}
		images = append(images, d.imageObject(page, key, v))
	}
	return images
}

// ImageStream returns an image's data decoded up to its image codec. codec
// is the canonical codec name, or "" when the data is raw samples.
func (d *Document) ImageStream(p PageRef, name string) (obj ImageObject, data []byte, codec string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image %s on page %d: %v", name, p.Number, r)
		}
	}()

	page, ok := d.page(p)
	if !ok {
		return obj, nil, "", fmt.Errorf("%w: %d", ErrPageNotFound, p.Number)
	}
	v := page.Resources().Key("XObject").Key(name)
	if v.Kind() != pdf.Stream || v.Key("Subtype").Name() != "Image" {
		return obj, nil, "", fmt.Errorf("%w: image %s on page %d", ErrObjectNotFound, name, p.Number)
	}

	obj = d.imageObject(page, name, v)
	data, codec, err = d.streamPartial(v)
	return obj, data, codec, err
}

func (d *Document) imageObject(page pdf.Page, name string, v pdf.Value) ImageObject {
	obj := ImageObject{
		Name:             name,
		Width:            int(v.Key("Width").Int64()),
		Height:           int(v.Key("Height").Int64()),
		BitsPerComponent: int(v.Key("BitsPerComponent").Int64()),
		ImageMask:        v.Key("ImageMask").Bool(),
		Filters:          filterChain(v),
	}

	if obj.ImageMask {
		obj.ColorSpace = "DeviceGray"
		obj.Components = 1
		obj.BitsPerComponent = 1
		return obj
	}

	cs := v.Key("ColorSpace")
	if cs.Kind() == pdf.Name {
		if named := page.Resources().Key("ColorSpace").Key(cs.Name()); !named.IsNull() {
			cs = named
		}
	}
	d.resolveColorSpace(&obj, cs)
	return obj
}

func (d *Document) resolveColorSpace(obj *ImageObject, cs pdf.Value) {
	switch cs.Kind() {
	case pdf.Name:
		obj.ColorSpace, obj.Components = deviceSpace(cs.Name())
	case pdf.Array:
		family := cs.Index(0).Name()
		switch family {
		case "ICCBased":
			n := int(cs.Index(1).Key("N").Int64())
			obj.ColorSpace, obj.Components = iccSpace(n)
		case "Indexed", "I":
			obj.ColorSpace = "Indexed"
			obj.Components = 1
			obj.Base, _ = baseSpace(cs.Index(1))
			obj.HiVal = int(cs.Index(2).Int64())
			obj.Palette = d.lookupTable(cs.Index(3))
		case "CalGray", "Separation":
			obj.ColorSpace, obj.Components = "DeviceGray", 1
		case "CalRGB", "Lab":
			obj.ColorSpace, obj.Components = "DeviceRGB", 3
		case "DeviceN":
			obj.ColorSpace, obj.Components = "DeviceN", cs.Index(1).Len()
		default:
			obj.ColorSpace, obj.Components = deviceSpace(family)
		}
	}
}

func baseSpace(v pdf.Value) (string, int) {
	if v.Kind() == pdf.Array && v.Index(0).Name() == "ICCBased" {
		return iccSpace(int(v.Index(1).Key("N").Int64()))
	}
	return deviceSpace(v.Name())
}

func deviceSpace(name string) (string, int) {
	switch name {
	case "DeviceGray", "G", "CalGray":
		return "DeviceGray", 1
	case "DeviceRGB", "RGB", "CalRGB":
		return "DeviceRGB", 3
	case "DeviceCMYK", "CMYK":
		return "DeviceCMYK", 4
	}
	return name, 0
}

func iccSpace(n int) (string, int) {
	switch n {
	case 1:
		return "DeviceGray", 1
	case 4:
		return "DeviceCMYK", 4
	default:
		return "DeviceRGB", 3
	}
}

// lookupTable returns an Indexed palette given as a string or a stream
func (d *Document) lookupTable(v pdf.Value) []byte {
	switch v.Kind() {
	case pdf.String:
		return []byte(v.RawString())
	case pdf.Stream:
		data, err := d.streamData(v)
		if err != nil {
			return nil
		}
		return data
	}
	return nil
}
