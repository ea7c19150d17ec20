package document

// Page geometry shared by both renderers, in inches. A4 portrait.
const (
	PageWidth      = 8.27
	PageHeight     = 11.69
	MarginLeft     = 0.75
	MarginRight    = 0.75
	MarginTop      = 1.35
	MarginBottom   = 1.2
	BandDistance   = 0.25 // header and footer distance from the page edge
	BandHeight     = 0.5  // height of header and footer images in fixed layouts
	MaxImageWidth  = 5.8
	IndentStep     = 0.25
	PrintableWidth = PageWidth - MarginLeft - MarginRight
)
