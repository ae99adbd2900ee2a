package model

// BlockKind tags the Block variants.
type BlockKind int

const (
	KindHeading BlockKind = iota + 1
	KindParagraph
	KindImage
	KindTable
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Block is one unit of document layout.
type Block interface {
	Kind() BlockKind
}

type Heading struct {
	Text string
}

type Paragraph struct {
	Text string
}

type Image struct {
	Image NormalizedImage
}

// Table holds a header row followed by data rows; every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

func (Heading) Kind() BlockKind   { return KindHeading }
func (Paragraph) Kind() BlockKind { return KindParagraph }
func (Image) Kind() BlockKind     { return KindImage }
func (Table) Kind() BlockKind     { return KindTable }

// AllRows returns the header followed by the data rows.
func (t Table) AllRows() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	return append(out, t.Rows...)
}
