// Package testpdf builds small, well-formed PDF files for tests.
package testpdf

import (
	"bytes"
	"compress/zlib"
	"crypto/md5"
	"crypto/rc4"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Font is a simple font resource
type Font struct {
	BaseFont  string
	Subtype   string
	Encoding  string
	ToUnicode string
}

// Image is an image XObject. ColorSpace and DecodeParms are raw PDF
// object syntax, e.g. "/DeviceRGB" or "[/Indexed /DeviceRGB 1 <ff0000 00ff00>]".
type Image struct {
	Width            int
	Height           int
	BitsPerComponent int
	ColorSpace       string
	Filter           string
	DecodeParms      string
	ImageMask        bool
	Data             []byte
}

// Page is one page. Contents holds one or more content streams.
type Page struct {
	Contents []string
	Fonts    map[string]Font
	Images   map[string]Image
	Flate    bool
}

// Document describes a whole file
type Document struct {
	Version string
	Pages   []Page
	Info    map[string]string

	// Encrypt protects the file with RC4 and an empty user password.
	Encrypt bool

	// Locked protects the file with a user password other than empty.
	Locked bool
}

var passwordPad = []byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41, 0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80, 0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

var fileID = []byte("pdfoutline-test!")

type object struct {
	dict   string
	stream []byte
	isStrm bool
}

type builder struct {
	objects []object
	key     []byte
}

func (b *builder) add(o object) int {
	b.objects = append(b.objects, o)
	return len(b.objects)
}

func (b *builder) set(id int, o object) {
	b.objects[id-1] = o
}

// Build renders the document
func Build(doc Document) []byte {
	b := &builder{}
	catalog := b.add(object{})
	pages := b.add(object{})

	var kids []string
	for _, p := range doc.Pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", b.addPage(p, pages)))
	}

	b.set(catalog, object{dict: fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pages)})
	b.set(pages, object{dict: fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(kids))})

	info := 0
	if len(doc.Info) > 0 {
		info = b.add(object{dict: infoDict(doc.Info)})
	}

	encrypt := 0
	if doc.Encrypt || doc.Locked {
		var dict string
		dict, b.key = encryption(doc.Locked)
		encrypt = b.add(object{dict: dict})
	}

	return b.write(doc.Version, catalog, info, encrypt)
}

func (b *builder) addPage(p Page, parent int) int {
	var contents []string
	for _, c := range p.Contents {
		o := object{stream: []byte(c), isStrm: true}
		if p.Flate {
			o.dict = "/Filter /FlateDecode"
			o.stream = Deflate([]byte(c))
		}
		contents = append(contents, fmt.Sprintf("%d 0 R", b.add(o)))
	}

	var fonts []string
	for _, key := range sortedKeys(p.Fonts) {
		fonts = append(fonts, fmt.Sprintf("/%s %d 0 R", key, b.addFont(p.Fonts[key])))
	}

	var images []string
	for _, key := range sortedKeys(p.Images) {
		images = append(images, fmt.Sprintf("/%s %d 0 R", key, b.addImage(p.Images[key])))
	}

	var res strings.Builder
	res.WriteString("<<")
	if len(fonts) > 0 {
		res.WriteString(" /Font << " + strings.Join(fonts, " ") + " >>")
	}
	if len(images) > 0 {
		res.WriteString(" /XObject << " + strings.Join(images, " ") + " >>")
	}
	res.WriteString(" >>")

	var cref string
	switch len(contents) {
	case 0:
	case 1:
		cref = " /Contents " + contents[0]
	default:
		cref = " /Contents [" + strings.Join(contents, " ") + "]"
	}

	return b.add(object{dict: fmt.Sprintf(
		"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources %s%s >>",
		parent, res.String(), cref)})
}

func (b *builder) addFont(f Font) int {
	base := f.BaseFont
	if base == "" {
		base = "Helvetica"
	}
	subtype := f.Subtype
	if subtype == "" {
		subtype = "Type1"
	}

	dict := fmt.Sprintf("<< /Type /Font /Subtype /%s /BaseFont /%s", subtype, base)
	if f.Encoding != "" {
		dict += " /Encoding /" + f.Encoding
	}
	if f.ToUnicode != "" {
		cmap := b.add(object{stream: []byte(f.ToUnicode), isStrm: true})
		dict += fmt.Sprintf(" /ToUnicode %d 0 R", cmap)
	}
	return b.add(object{dict: dict + " >>"})
}

func (b *builder) addImage(img Image) int {
	bpc := img.BitsPerComponent
	if bpc == 0 {
		bpc = 8
	}
	dict := fmt.Sprintf("/Type /XObject /Subtype /Image /Width %d /Height %d", img.Width, img.Height)
	if img.ImageMask {
		dict += " /ImageMask true"
	} else {
		cs := img.ColorSpace
		if cs == "" {
			cs = "/DeviceGray"
		}
		dict += fmt.Sprintf(" /ColorSpace %s /BitsPerComponent %d", cs, bpc)
	}
	if img.Filter != "" {
		dict += " /Filter " + img.Filter
	}
	if img.DecodeParms != "" {
		dict += " /DecodeParms " + img.DecodeParms
	}
	return b.add(object{dict: dict, stream: img.Data, isStrm: true})
}

func (b *builder) write(version string, catalog, info, encrypt int) []byte {
	if version == "" {
		version = "1.7"
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-" + version + "\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(b.objects))
	for i, o := range b.objects {
		id := i + 1
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", id)
		if !o.isStrm {
			buf.WriteString(o.dict)
			buf.WriteString("\nendobj\n")
			continue
		}

		data := o.stream
		if b.key != nil && id != encrypt {
			data = b.encrypt(id, data)
		}
		fmt.Fprintf(&buf, "<< /Length %d %s >>\nstream\n", len(data), o.dict)
		buf.Write(data)
		buf.WriteString("\nendstream\nendobj\n")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(b.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R", len(b.objects)+1, catalog)
	if info > 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", info)
	}
	if encrypt > 0 {
		id := hex.EncodeToString(fileID)
		fmt.Fprintf(&buf, " /Encrypt %d 0 R /ID [<%s> <%s>]", encrypt, id, id)
	}
	fmt.Fprintf(&buf, " >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// encryption returns a standard security handler dictionary (revision 2,
// 40-bit RC4) and the file key for the empty user password
func encryption(locked bool) (string, []byte) {
	var perms int32 = -4
	owner := bytes.Repeat([]byte{0x5A}, 32)

	h := md5.New()
	h.Write(passwordPad)
	h.Write(owner)
	p := uint32(perms)
	h.Write([]byte{byte(p), byte(p >> 8), byte(p >> 16), byte(p >> 24)})
	h.Write(fileID)
	key := h.Sum(nil)[:5]

	user := make([]byte, 32)
	if locked {
		for i := range user {
			user[i] = 0x01
		}
	} else {
		c, _ := rc4.NewCipher(key)
		c.XORKeyStream(user, passwordPad)
	}

	dict := fmt.Sprintf("<< /Filter /Standard /V 1 /R 2 /O <%s> /U <%s> /P %d >>",
		hex.EncodeToString(owner), hex.EncodeToString(user), perms)
	return dict, key
}

func (b *builder) encrypt(id int, data []byte) []byte {
	h := md5.New()
	h.Write(b.key)
	h.Write([]byte{byte(id), byte(id >> 8), byte(id >> 16), 0, 0})
	c, _ := rc4.NewCipher(h.Sum(nil))
	out := make([]byte, len(data))
	c.XORKeyStream(out, data)
	return out
}

func infoDict(info map[string]string) string {
	var parts []string
	for _, k := range sortedKeys(info) {
		parts = append(parts, fmt.Sprintf("/%s %s", k, Literal(info[k])))
	}
	return "<< " + strings.Join(parts, " ") + " >>"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Deflate compresses data with zlib
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// Literal formats s as a PDF literal string
func Literal(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return "(" + r.Replace(s) + ")"
}

// Text returns a text object that shows s at (x, y) in the given font
func Text(font string, size, x, y float64, s string) string {
	return fmt.Sprintf("BT /%s %g Tf 1 0 0 1 %g %g Tm %s Tj ET\n", font, size, x, y, Literal(s))
}

// Draw returns a content fragment that paints the named image XObject
func Draw(name string, x, y, w, h float64) string {
	return fmt.Sprintf("q %g 0 0 %g %g %g cm /%s Do Q\n", w, h, x, y, name)
}

// Helvetica is the default font map used by most tests
func Helvetica() map[string]Font {
	return map[string]Font{
		"F1": {BaseFont: "Helvetica", Encoding: "WinAnsiEncoding"},
		"F2": {BaseFont: "Helvetica-Bold", Encoding: "WinAnsiEncoding"},
	}
}
