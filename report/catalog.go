package report

import (
	"slices"
	"strings"
)

// DefaultTableStyle is used when a style hint is empty or unknown.
const DefaultTableStyle = "Table Grid"

// DefaultTrialLayout is the trial history layout of a new report.
const DefaultTrialLayout = "Even columns"

// TableStyle is a named table look understood by both renderers. Colours
// are six-digit hex values without the leading '#'.
type TableStyle struct {
	Name       string
	Border     string // grid line colour
	InnerLines bool   // draw lines between cells, not only around the table
	HeaderFill string // background of the header row; empty for none
	HeaderText string // text colour of the header row; empty for default
	BandFill   string // background of every other body row; empty for none
}

// ID returns the name reduced to ASCII letters and digits, usable as a
// style id or class name.
func (s TableStyle) ID() string {
	var b strings.Builder
	for _, r := range s.Name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "TableGrid"
	}
	return b.String()
}

var gridStyle = TableStyle{Name: DefaultTableStyle, Border: "000000", InnerLines: true}

var tableStyles = []TableStyle{
	gridStyle,
	{Name: "Light List", Border: "000000", HeaderFill: "000000", HeaderText: "FFFFFF"},
	{Name: "Light List Accent 1", Border: "4F81BD", HeaderFill: "4F81BD", HeaderText: "FFFFFF"},
	{Name: "Light Grid", Border: "000000", InnerLines: true, BandFill: "D9D9D9"},
	{Name: "Light Grid Accent 1", Border: "4F81BD", InnerLines: true, BandFill: "D3DFEE"},
	{Name: "Medium Grid 1", Border: "7F7F7F", InnerLines: true, HeaderFill: "BFBFBF", BandFill: "F2F2F2"},
	{Name: "Medium Grid 1 Accent 1", Border: "7BA0CD", InnerLines: true, HeaderFill: "A7BFDE", BandFill: "D3DFEE"},
	{Name: "Medium Shading 1", Border: "404040", HeaderFill: "000000", HeaderText: "FFFFFF", BandFill: "C0C0C0"},
	{Name: "Medium Shading 1 Accent 1", Border: "7BA0CD", HeaderFill: "4F81BD", HeaderText: "FFFFFF", BandFill: "D3DFEE"},
}

// Relative column weights of the trial history table.
var trialLayouts = map[string][]float64{
	"Even columns": {120, 280, 280},
	"Reasons wide": {100, 200, 400},
	"Compact":      {90, 220, 310},
}

// Symbol is one entry of the insertable symbol palette.
type Symbol struct {
	Glyph       string
	Description string
}

var symbols = []Symbol{
	{"→", "Right arrow"}, {"←", "Left arrow"}, {"⇌", "Eqm arrow"},
	{"⇄", "Eqm (alt)"}, {"↔", "Reversible"}, {"⇑", "Up"}, {"⇓", "Down"},
	{"α", "alpha"}, {"β", "beta"}, {"γ", "gamma"}, {"δ", "delta"}, {"ε", "epsilon"},
	{"λ", "lambda"}, {"μ", "mu"}, {"π", "pi"}, {"σ", "sigma"}, {"φ", "phi"}, {"ω", "omega"},
	{"⁺", "sup +"}, {"⁻", "sup -"}, {"¹", "sup 1"}, {"²", "sup 2"}, {"³", "sup 3"},
	{"₊", "sub +"}, {"₋", "sub -"}, {"₁", "sub 1"}, {"₂", "sub 2"}, {"₃", "sub 3"},
	{"°", "degree"}, {"±", "plus/minus"}, {"∙", "dot"}, {"·", "middot"}, {"®", "reg"},
}

// Catalog bundles the lookup tables used while building and rendering a
// report: the table styles both renderers draw, the trial history layouts
// and the symbol palette offered to form authors.
type Catalog struct {
	TableStyles  []TableStyle
	TrialLayouts map[string][]float64
	Symbols      []Symbol
}

// DefaultCatalog returns the built-in tables.
func DefaultCatalog() Catalog {
	layouts := make(map[string][]float64, len(trialLayouts))
	for k, v := range trialLayouts {
		layouts[k] = slices.Clone(v)
	}
	return Catalog{
		TableStyles:  slices.Clone(tableStyles),
		TrialLayouts: layouts,
		Symbols:      slices.Clone(symbols),
	}
}

// TableStyle returns name if the catalog knows it, DefaultTableStyle
// otherwise.
func (c Catalog) TableStyle(name string) string {
	if slices.ContainsFunc(c.TableStyles, func(s TableStyle) bool { return s.Name == name }) {
		return name
	}
	return DefaultTableStyle
}

// Style returns the definition of name. Unknown names resolve to the
// catalog's default style, or a plain black grid when it has none.
func (c Catalog) Style(name string) TableStyle {
	for _, want := range []string{name, DefaultTableStyle} {
		if i := slices.IndexFunc(c.TableStyles, func(s TableStyle) bool { return s.Name == want }); i >= 0 {
			return c.TableStyles[i]
		}
	}
	return gridStyle
}

// StyleNames lists the table style names in catalog order.
func (c Catalog) StyleNames() []string {
	names := make([]string, len(c.TableStyles))
	for i, s := range c.TableStyles {
		names[i] = s.Name
	}
	return names
}

// TrialWeights returns the column weights of a trial layout, falling back
// to the default layout for unknown names.
func (c Catalog) TrialWeights(layout string) []float64 {
	if w, ok := c.TrialLayouts[layout]; ok && len(w) == 3 {
		return slices.Clone(w)
	}
	if w, ok := trialLayouts[DefaultTrialLayout]; ok {
		return slices.Clone(w)
	}
	return nil
}

// TrialLayoutNames returns the layout names in presentation order.
func TrialLayoutNames() []string {
	return []string{"Even columns", "Reasons wide", "Compact"}
}
