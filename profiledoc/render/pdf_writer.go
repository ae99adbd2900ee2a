package render

import (
	"bytes"
	"fmt"
)

// Object ids fixed for every document; everything else is allocated in
// emission order.
const (
	catalogID  = 1
	pagesID    = 2
	fontID     = 3
	fontBoldID = 4
	infoID     = 5
)

// objectWriter serializes indirect objects into a pending chunk and keeps the
// byte offset of each object for the cross-reference table.
type objectWriter struct {
	buf     bytes.Buffer
	emitted int64
	offsets []int64
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{offsets: make([]int64, infoID+1)}
	for i := range w.offsets {
		w.offsets[i] = -1
	}
	return w
}

func (w *objectWriter) alloc() int {
	w.offsets = append(w.offsets, -1)
	return len(w.offsets) - 1
}

func (w *objectWriter) pos() int64 {
	return w.emitted + int64(w.buf.Len())
}

func (w *objectWriter) dict(id int, body string) {
	w.offsets[id] = w.pos()
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", id, body)
}

func (w *objectWriter) stream(id int, entries string, data []byte) {
	w.offsets[id] = w.pos()
	if entries != "" {
		entries += " "
	}
	fmt.Fprintf(&w.buf, "%d 0 obj\n<< %s/Length %d >>\nstream\n", id, entries, len(data))
	w.buf.Write(data)
	w.buf.WriteString("\nendstream\nendobj\n")
}

func (w *objectWriter) header() {
	w.buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
}

// trailer writes the cross-reference table and trailer. Every allocated id
// must have been written by then.
func (w *objectWriter) trailer() error {
	start := w.pos()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", len(w.offsets))
	w.buf.WriteString("0000000000 65535 f \n")
	for id := 1; id < len(w.offsets); id++ {
		if w.offsets[id] < 0 {
			return fmt.Errorf("object %d allocated but never written", id)
		}
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[id])
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(w.offsets), catalogID, infoID, start)
	return nil
}

// pending returns the serialized bytes not yet handed to the destination.
func (w *objectWriter) pending() []byte {
	return w.buf.Bytes()
}

// commit marks n pending bytes as emitted.
func (w *objectWriter) commit(n int) {
	w.emitted += int64(n)
	w.buf.Next(n)
}
