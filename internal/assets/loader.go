package assets

import "html/template"

// AssetLoader defines the contract for loading stylesheets and band
// templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the header and footer templates of a set.
	// Returns ErrTemplateSetNotFound if the set doesn't exist and
	// ErrIncompleteTemplateSet if one of its templates is missing.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// TemplateSet holds the page band templates of a PDF report.
type TemplateSet struct {
	Name   string // Identifier (name or directory path)
	Header string // Header band template source
	Footer string // Footer band template source
}

// BandData is the data a band template is executed with.
type BandData struct {
	// Image is a data: URL of the band image, empty for none.
	Image template.URL
	// Height of the band image in inches.
	Height float64
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "report"
