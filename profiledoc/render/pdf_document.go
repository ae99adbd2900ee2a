package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/image/font/sfnt"

	"profile-backend/profiledoc/model"
)

type xobjectRef struct {
	name string
	id   int
}

type pageState struct {
	id       int
	contents []int
	xobjects []xobjectRef
	ops      bytes.Buffer
	// y is the top of the free area in PDF coordinates.
	y float64
}

// document lays blocks out on pages and serializes them through an
// objectWriter. Page objects are written when the page is finished, so a
// block only ever holds its own content streams in memory.
type document struct {
	w       *objectWriter
	pages   []int
	page    *pageState
	title   string
	unicode [2]*unicodeFont
}

func newDocument() *document {
	return &document{w: newObjectWriter()}
}

func (d *document) prologue() {
	d.w.header()
	d.w.dict(fontID, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	d.w.dict(fontBoldID, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>")
}

func (d *document) ensurePage() *pageState {
	if d.page == nil {
		d.page = &pageState{id: d.w.alloc(), y: PageHeight - Margin}
	}
	return d.page
}

func (d *document) remaining() float64 {
	return d.ensurePage().y - Margin
}

// flushOps turns the operators drawn so far on the current page into a
// content stream object.
func (d *document) flushOps() {
	p := d.page
	if p == nil || p.ops.Len() == 0 {
		return
	}
	id := d.w.alloc()
	d.w.stream(id, "", p.ops.Bytes())
	p.contents = append(p.contents, id)
	p.ops.Reset()
}

func (d *document) finishPage() {
	p := d.page
	if p == nil {
		return
	}
	d.flushOps()

	var res strings.Builder
	fmt.Fprintf(&res, "/Font << /F1 %d 0 R /F2 %d 0 R", fontID, fontBoldID)
	for _, u := range d.unicode {
		if u != nil {
			fmt.Fprintf(&res, " /%s %d 0 R", u.resource, u.id)
		}
	}
	res.WriteString(" >>")
	if len(p.xobjects) > 0 {
		res.WriteString(" /XObject <<")
		for _, x := range p.xobjects {
			fmt.Fprintf(&res, " /%s %d 0 R", x.name, x.id)
		}
		res.WriteString(" >>")
	}
	refs := make([]string, len(p.contents))
	for i, id := range p.contents {
		refs[i] = fmt.Sprintf("%d 0 R", id)
	}

	d.w.dict(p.id, fmt.Sprintf(
		"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s] /Resources << %s >> /Contents [%s] >>",
		pagesID, num(PageWidth), num(PageHeight), res.String(), strings.Join(refs, " "),
	))
	d.pages = append(d.pages, p.id)
	d.page = nil
}

func (d *document) newPage() {
	d.finishPage()
	d.ensurePage()
}

// finish closes the last page and writes the document catalog, the info
// dictionary and the trailer.
func (d *document) finish(producer string, created time.Time) error {
	d.ensurePage()
	d.finishPage()

	for _, u := range d.unicode {
		if u == nil {
			continue
		}
		if err := u.write(d.w); err != nil {
			return err
		}
	}

	kids := make([]string, len(d.pages))
	for i, id := range d.pages {
		kids[i] = fmt.Sprintf("%d 0 R", id)
	}
	d.w.dict(pagesID, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(d.pages)))
	d.w.dict(catalogID, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID))
	d.w.dict(infoID, fmt.Sprintf("<< /Producer %s /Title %s /CreationDate %s >>",
		pdfTextString(producer), pdfTextString(d.title), pdfString(created.UTC().Format("D:20060102150405Z"))))
	return d.w.trailer()
}

func (d *document) block(b model.Block) error {
	switch v := b.(type) {
	case model.Heading:
		if d.title == "" {
			d.title = v.Text
		}
		d.textBlock(v.Text, StyleMap["name"])
	case model.Paragraph:
		d.textBlock(v.Text, StyleMap["bio"])
	case model.Image:
		if err := d.imageBlock(v.Image); err != nil {
			return err
		}
	case model.Table:
		d.tableBlock(v)
	default:
		return fmt.Errorf("unsupported block %T", b)
	}
	d.flushOps()
	return nil
}

func (d *document) text(x, baseline float64, s string, style TextStyle) {
	font, shown := "F1", ""
	if style.Bold {
		font = "F2"
	}
	if u := d.unicodeFont(s, style.Bold); u != nil {
		font, shown = u.resource, u.show(s)
	} else {
		shown = pdfString(s)
	}
	fmt.Fprintf(&d.page.ops, "%s rg BT /%s %s Tf %s %s Td %s Tj ET\n",
		rgb(style.Color), font, num(style.Size), num(x), num(baseline), shown)
}

// unicodeFont returns the embedded font for text the standard fonts cannot
// draw, allocating it on first use; nil means s is plain WinAnsi.
func (d *document) unicodeFont(s string, bold bool) *unicodeFont {
	if winAnsi(s) {
		return nil
	}
	face, err := faceFor(bold)
	if err != nil {
		return nil
	}
	i, resource := 0, "U1"
	if bold {
		i, resource = 1, "U2"
	}
	if d.unicode[i] == nil {
		d.unicode[i] = &unicodeFont{face: face, resource: resource, id: d.w.alloc(), used: map[sfnt.GlyphIndex]glyphUse{}}
	}
	return d.unicode[i]
}

func (d *document) textBlock(text string, style TextStyle) {
	for _, line := range wrapText(text, style, contentWidth) {
		if d.remaining() < style.Leading {
			d.newPage()
		}
		p := d.page
		d.text(Margin, p.y-style.Size, line, style)
		p.y -= style.Leading
	}
	d.ensurePage().y -= blockGap
}

func (d *document) imageBlock(img model.NormalizedImage) error {
	if len(img.Bytes) == 0 {
		return nil
	}
	entries, data, err := imageXObject(img)
	if err != nil {
		return err
	}

	w, h := fitBox(img.Width, img.Height, imageBox)
	if d.remaining() < h {
		d.newPage()
	}
	p := d.page

	id := d.w.alloc()
	d.w.stream(id, entries, data)
	name := fmt.Sprintf("Im%d", id)
	p.xobjects = append(p.xobjects, xobjectRef{name: name, id: id})

	fmt.Fprintf(&p.ops, "q %s 0 0 %s %s %s cm /%s Do Q\n", num(w), num(h), num(Margin), num(p.y-h), name)
	p.y -= h + blockGap
	return nil
}

// fitBox scales width x height to fit a square box, keeping the aspect ratio.
func fitBox(width, height int, box float64) (float64, float64) {
	if width <= 0 || height <= 0 {
		return box, box
	}
	scale := math.Min(box/float64(width), box/float64(height))
	return float64(width) * scale, float64(height) * scale
}

func (d *document) tableBlock(t model.Table) {
	widths := columnWidths(len(t.Header))
	header := StyleMap["tableHeader"]
	cell := StyleMap["tableCell"]

	headerLines := wrapCells(t.Header, header, widths)
	headerHeight := float64(lineCount(headerLines))*header.Leading + 2*cellPadding

	drawHeader := func() {
		if d.remaining() < headerHeight {
			d.newPage()
		}
		d.rowSegment(headerLines, 0, lineCount(headerLines), widths, header, true)
	}
	drawHeader()

	for _, row := range t.Rows {
		lines := wrapCells(row, cell, widths)
		total := lineCount(lines)
		start := 0
		for start < total {
			fit := int(math.Floor((d.remaining() - 2*cellPadding) / cell.Leading))
			need := total - start
			freshFit := int(math.Floor((contentHeight - headerHeight - 2*cellPadding) / cell.Leading))
			// Move a row that would fit on a fresh page instead of splitting it.
			if fit < 1 || (fit < need && need <= freshFit && start == 0) {
				d.newPage()
				drawHeader()
				continue
			}
			n := need
			if n > fit {
				n = fit
			}
			d.rowSegment(lines, start, n, widths, cell, false)
			start += n
			if start < total {
				d.newPage()
				drawHeader()
			}
		}
	}
	d.ensurePage().y -= blockGap
}

func wrapCells(cells []string, style TextStyle, widths []float64) [][]string {
	out := make([][]string, len(widths))
	for i := range widths {
		if i < len(cells) {
			out[i] = wrapText(cells[i], style, widths[i]-2*cellPadding)
		}
	}
	return out
}

func lineCount(cells [][]string) int {
	n := 1
	for _, lines := range cells {
		if len(lines) > n {
			n = len(lines)
		}
	}
	return n
}

// rowSegment draws lines [start, start+n) of every cell as one row of boxes.
func (d *document) rowSegment(cells [][]string, start, n int, widths []float64, style TextStyle, fill bool) {
	p := d.page
	h := float64(n)*style.Leading + 2*cellPadding
	top := p.y

	if fill {
		fmt.Fprintf(&p.ops, "%s rg %s %s %s %s re f\n", rgb(HeaderFill), num(Margin), num(top-h), num(contentWidth), num(h))
	}
	fmt.Fprintf(&p.ops, "%s RG 0.5 w\n", rgb(RuleColor))
	x := Margin
	for _, w := range widths {
		fmt.Fprintf(&p.ops, "%s %s %s %s re S\n", num(x), num(top-h), num(w), num(h))
		x += w
	}

	x = Margin
	for i, w := range widths {
		lines := cells[i]
		for j := 0; j < n; j++ {
			if start+j >= len(lines) {
				break
			}
			baseline := top - cellPadding - style.Size - float64(j)*style.Leading
			d.text(x+cellPadding, baseline, lines[start+j], style)
		}
		x += w
	}
	p.y -= h
}
