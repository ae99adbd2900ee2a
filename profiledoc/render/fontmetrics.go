package render

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Glyph advance widths in 1/1000 em for codes 32..126 of the standard
// Helvetica and Helvetica-Bold fonts.
var helveticaWidths = [95]int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

var helveticaBoldWidths = [95]int{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}

const defaultGlyphWidth = 556

// encodeText maps s to WinAnsi codes. Callers check winAnsi first; a rune
// outside the code page still degrades to '?' rather than failing.
func encodeText(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			if r < 0x20 {
				r = ' '
			}
			out = append(out, byte(r))
			continue
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

func glyphWidth(code byte, bold bool) int {
	if code < 32 || code > 126 {
		return defaultGlyphWidth
	}
	if bold {
		return helveticaBoldWidths[code-32]
	}
	return helveticaWidths[code-32]
}

// textWidth returns the rendered width of s in points, measured with the
// font text() will pick for it.
func textWidth(s string, style TextStyle) float64 {
	total := 0
	if face, err := faceFor(style.Bold); err == nil && !winAnsi(s) {
		for _, r := range s {
			g, _ := face.resolve(r)
			total += g.width
		}
		return float64(total) * style.Size / 1000
	}
	for _, code := range encodeText(s) {
		total += glyphWidth(code, style.Bold)
	}
	return float64(total) * style.Size / 1000
}

// pdfString renders encoded text as a PDF literal string.
func pdfString(s string) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, code := range encodeText(s) {
		switch {
		case code == '(' || code == ')' || code == '\\':
			b.WriteByte('\\')
			b.WriteByte(code)
		case code < 32 || code > 126:
			b.WriteByte('\\')
			octal := strconv.FormatInt(int64(code), 8)
			b.WriteString(strings.Repeat("0", 3-len(octal)))
			b.WriteString(octal)
		default:
			b.WriteByte(code)
		}
	}
	b.WriteByte(')')
	return b.String()
}
