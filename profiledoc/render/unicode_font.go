package render

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf16"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"
)

// Text that Windows-1252 cannot encode is drawn with the Go fonts, embedded
// as CIDFontType2 with Identity-H encoding: two bytes per glyph id, plus a
// ToUnicode map so the text stays extractable.

type glyphInfo struct {
	gid   sfnt.GlyphIndex
	width int
	ok    bool
}

// unicodeFace is a parsed TrueType font shared by every document.
type unicodeFace struct {
	name string
	ttf  []byte
	font *sfnt.Font
	upem int

	ascent, descent, capHeight int
	bbox                       [4]int

	deflateOnce sync.Once
	deflated    []byte
	deflateErr  error

	mu    sync.Mutex
	cache map[rune]glyphInfo
}

var loadFaces = sync.OnceValues(func() ([2]*unicodeFace, error) {
	var out [2]*unicodeFace
	for i, src := range []struct {
		name string
		ttf  []byte
	}{{"GoRegular", goregular.TTF}, {"GoBold", gobold.TTF}} {
		face, err := parseFace(src.name, src.ttf)
		if err != nil {
			return out, err
		}
		out[i] = face
	}
	return out, nil
})

func parseFace(name string, ttf []byte) (*unicodeFace, error) {
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	face := &unicodeFace{name: name, ttf: ttf, font: f, upem: int(f.UnitsPerEm()), cache: make(map[rune]glyphInfo)}

	var buf sfnt.Buffer
	ppem := fixed.I(face.upem)
	m, err := f.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("%s metrics: %w", name, err)
	}
	b, err := f.Bounds(&buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("%s bounds: %w", name, err)
	}
	face.ascent = face.thousandths(m.Ascent)
	face.descent = -face.thousandths(m.Descent)
	face.capHeight = face.thousandths(m.CapHeight)
	// sfnt's y axis points down.
	face.bbox = [4]int{
		face.thousandths(b.Min.X), -face.thousandths(b.Max.Y),
		face.thousandths(b.Max.X), -face.thousandths(b.Min.Y),
	}
	return face, nil
}

// thousandths converts a value measured at ppem == unitsPerEm to 1/1000 em.
func (f *unicodeFace) thousandths(v fixed.Int26_6) int {
	return v.Round() * 1000 / f.upem
}

func (f *unicodeFace) glyph(r rune) glyphInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.cache[r]; ok {
		return g
	}
	var buf sfnt.Buffer
	g := glyphInfo{}
	if gid, err := f.font.GlyphIndex(&buf, r); err == nil && gid != 0 {
		if adv, err := f.font.GlyphAdvance(&buf, gid, fixed.I(f.upem), font.HintingNone); err == nil {
			g = glyphInfo{gid: gid, width: f.thousandths(adv), ok: true}
		}
	}
	f.cache[r] = g
	return g
}

// resolve returns the glyph drawn for r. Runes the font lacks become '?'.
func (f *unicodeFace) resolve(r rune) (glyphInfo, rune) {
	if unicode.IsControl(r) {
		r = ' '
	}
	if g := f.glyph(r); g.ok {
		return g, r
	}
	return f.glyph('?'), '?'
}

func (f *unicodeFace) compressed() ([]byte, error) {
	f.deflateOnce.Do(func() {
		var out bytes.Buffer
		zw := zlib.NewWriter(&out)
		if _, err := zw.Write(f.ttf); err != nil {
			f.deflateErr = err
			return
		}
		if err := zw.Close(); err != nil {
			f.deflateErr = err
			return
		}
		f.deflated = out.Bytes()
	})
	return f.deflated, f.deflateErr
}

func faceFor(bold bool) (*unicodeFace, error) {
	faces, err := loadFaces()
	if err != nil {
		return nil, err
	}
	if bold {
		return faces[1], nil
	}
	return faces[0], nil
}

// winAnsi reports whether the standard fonts can draw s without loss.
func winAnsi(s string) bool {
	for _, r := range s {
		if r < 0x80 {
			continue
		}
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// Unrenderable returns the distinct runes of s that no font of the document
// can draw; they are rendered as '?'.
func Unrenderable(s string) []rune {
	if winAnsi(s) {
		return nil
	}
	face, err := faceFor(false)
	var out []rune
	seen := map[rune]bool{}
	for _, r := range s {
		if seen[r] || unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		seen[r] = true
		if err != nil || !face.glyph(r).ok {
			out = append(out, r)
		}
	}
	return out
}

// unicodeFont is one embedded face as used by one document.
type unicodeFont struct {
	face     *unicodeFace
	resource string
	id       int
	used     map[sfnt.GlyphIndex]glyphUse
}

type glyphUse struct {
	r     rune
	width int
}

// show encodes s as a hex string of glyph ids and records the glyphs used.
func (u *unicodeFont) show(s string) string {
	var b strings.Builder
	b.WriteByte('<')
	for _, r := range s {
		g, drawn := u.face.resolve(r)
		if _, ok := u.used[g.gid]; !ok {
			u.used[g.gid] = glyphUse{r: drawn, width: g.width}
		}
		fmt.Fprintf(&b, "%04X", uint16(g.gid))
	}
	b.WriteByte('>')
	return b.String()
}

func (u *unicodeFont) sortedGlyphs() []sfnt.GlyphIndex {
	gids := make([]sfnt.GlyphIndex, 0, len(u.used))
	for gid := range u.used {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })
	return gids
}

// write emits the font dictionaries, the embedded font program and the
// ToUnicode map.
func (u *unicodeFont) write(w *objectWriter) error {
	cidID, descID, fileID, cmapID := w.alloc(), w.alloc(), w.alloc(), w.alloc()
	f := u.face
	gids := u.sortedGlyphs()

	w.dict(u.id, fmt.Sprintf("<< /Type /Font /Subtype /Type0 /BaseFont /%s /Encoding /Identity-H /DescendantFonts [%d 0 R] /ToUnicode %d 0 R >>",
		f.name, cidID, cmapID))

	var widths strings.Builder
	for _, gid := range gids {
		fmt.Fprintf(&widths, " %d [%d]", gid, u.used[gid].width)
	}
	w.dict(cidID, fmt.Sprintf("<< /Type /Font /Subtype /CIDFontType2 /BaseFont /%s /CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> /FontDescriptor %d 0 R /DW 1000 /W [%s ] /CIDToGIDMap /Identity >>",
		f.name, descID, widths.String()))

	w.dict(descID, fmt.Sprintf("<< /Type /FontDescriptor /FontName /%s /Flags 32 /FontBBox [%d %d %d %d] /ItalicAngle 0 /Ascent %d /Descent %d /CapHeight %d /StemV 80 /FontFile2 %d 0 R >>",
		f.name, f.bbox[0], f.bbox[1], f.bbox[2], f.bbox[3], f.ascent, f.descent, f.capHeight, fileID))

	data, err := f.compressed()
	if err != nil {
		return fmt.Errorf("deflate %s: %w", f.name, err)
	}
	w.stream(fileID, fmt.Sprintf("/Length1 %d /Filter /FlateDecode", len(f.ttf)), data)
	w.stream(cmapID, "", toUnicodeCMap(gids, u.used))
	return nil
}

// toUnicodeCMap maps glyph ids back to text, in bfchar sections of at most
// 100 entries.
func toUnicodeCMap(gids []sfnt.GlyphIndex, used map[sfnt.GlyphIndex]glyphUse) []byte {
	var b bytes.Buffer
	b.WriteString("/CIDInit /ProcSet findresource begin\n12 dict begin\nbegincmap\n")
	b.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def\n")
	b.WriteString("/CMapName /Adobe-Identity-UCS def\n/CMapType 2 def\n")
	b.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	for start := 0; start < len(gids); start += 100 {
		end := min(start+100, len(gids))
		fmt.Fprintf(&b, "%d beginbfchar\n", end-start)
		for _, gid := range gids[start:end] {
			fmt.Fprintf(&b, "<%04X> <", uint16(gid))
			for _, unit := range utf16.Encode([]rune{used[gid].r}) {
				fmt.Fprintf(&b, "%04X", unit)
			}
			b.WriteString(">\n")
		}
		b.WriteString("endbfchar\n")
	}
	b.WriteString("endcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return b.Bytes()
}

// pdfTextString encodes document information strings. Printable ASCII stays
// a literal; anything else is UTF-16BE with a byte order mark.
func pdfTextString(s string) string {
	ascii := true
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			ascii = false
			break
		}
	}
	if ascii {
		return pdfString(s)
	}
	var b strings.Builder
	b.WriteString("<FEFF")
	for _, unit := range utf16.Encode([]rune(s)) {
		fmt.Fprintf(&b, "%04X", unit)
	}
	b.WriteByte('>')
	return b.String()
}
