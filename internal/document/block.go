// Package document flattens a report into the ordered block sequence both
// renderers walk.
//
// The sequence is the single source of truth for structure: headings,
// paragraphs, list items, tables and images appear in reading order and
// carry every decision a renderer needs (numbering restarts, style hints,
// column weights, indentation). Renderers only decide presentation.
package document

import "github.com/alnah/go-rdreport/report"

// Kind identifies the type of a block.
type Kind int

const (
	KindTitle Kind = iota
	KindHeading
	KindParagraph
	KindListItem
	KindTable
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindListItem:
		return "list-item"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Block is one element of a rendered report. Fields not relevant to Kind
// are zero.
type Block struct {
	Kind Kind

	// Section is the include key owning the block; empty for the title.
	Section report.Key

	// Level is the heading depth, 1 to 3.
	Level int

	// Indent is the body indentation step: 0, 1 (0.25in) or 2 (0.5in).
	// Tables always span the printable width and leave it zero.
	Indent int

	// Text of a title, heading, paragraph or list item. Newlines are
	// line breaks within the same paragraph.
	Text string

	// Ordered lists are numbered from 1 per ListID.
	Ordered bool
	ListID  int

	// Table content. Header marks the first row as a header row. Weights,
	// when set, are relative column widths; otherwise columns are even.
	Rows    [][]string
	Header  bool
	Style   string
	Weights []float64

	// Image paths in display order and their shared caption.
	Images  []string
	Caption string
}

// Columns returns the widest row length of a table block.
func (b Block) Columns() int {
	n := 0
	for _, r := range b.Rows {
		n = max(n, len(r))
	}
	return n
}

// PaddedRows returns the table rows padded with empty cells to Columns.
func (b Block) PaddedRows() [][]string {
	n := b.Columns()
	out := make([][]string, len(b.Rows))
	for i, r := range b.Rows {
		row := make([]string, n)
		copy(row, r)
		out[i] = row
	}
	return out
}

// ColumnFractions returns the share of the table width given to each
// column. Weights that do not match the column count are ignored.
func (b Block) ColumnFractions() []float64 {
	n := b.Columns()
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	total := 0.0
	if len(b.Weights) == n {
		for _, w := range b.Weights {
			total += w
		}
	}
	if total <= 0 {
		for i := range out {
			out[i] = 1 / float64(n)
		}
		return out
	}
	for i, w := range b.Weights {
		out[i] = w / total
	}
	return out
}
