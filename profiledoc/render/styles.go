package render

// TextStyle captures the font selection and color of a text run.
type TextStyle struct {
	Bold    bool
	Size    float64
	Leading float64
	Color   string
}

const (
	NameColor    = "111111"
	HeadingColor = "1F2937"
	BodyColor    = "374151"
	RuleColor    = "D1D5DB"
	HeaderFill   = "F3F4F6"
)

// A4 portrait in points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 40.0

	contentWidth  = PageWidth - 2*Margin
	contentHeight = PageHeight - 2*Margin

	blockGap    = 14.0
	cellPadding = 4.0
	imageBox    = 180.0
)

// StyleMap centralizes the formatting of each document element.
var StyleMap = map[string]TextStyle{
	"name": {
		Bold:    true,
		Size:    22,
		Leading: 28,
		Color:   NameColor,
	},
	"bio": {
		Size:    11,
		Leading: 15,
		Color:   BodyColor,
	},
	"tableHeader": {
		Bold:    true,
		Size:    10,
		Leading: 13,
		Color:   HeadingColor,
	},
	"tableCell": {
		Size:    10,
		Leading: 13,
		Color:   BodyColor,
	},
}

// columnShares are the experience table column widths as fractions of the
// content width: role, company, description, area.
var columnShares = []float64{0.2, 0.2, 0.4, 0.2}

func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if n == len(columnShares) {
		for i, share := range columnShares {
			widths[i] = share * contentWidth
		}
		return widths
	}
	for i := range widths {
		widths[i] = contentWidth / float64(n)
	}
	return widths
}
