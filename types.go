package rdreport

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-rdreport/report"
)

// Format selects the outputs of a generation.
type Format uint8

const (
	FormatDOCX Format = 1 << iota
	FormatPDF

	FormatBoth = FormatDOCX | FormatPDF
)

// Has reports whether f includes g.
func (f Format) Has(g Format) bool { return f&g != 0 }

func (f Format) String() string {
	switch f {
	case FormatDOCX:
		return "docx"
	case FormatPDF:
		return "pdf"
	case FormatBoth:
		return "both"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat accepts "docx", "pdf" or "both" in any case. An empty
// string means both.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return FormatBoth, nil
	case "docx":
		return FormatDOCX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return 0, fmt.Errorf("%w: %q (must be docx, pdf, or both)", ErrInvalidFormat, s)
}

// Input is one report to generate.
type Input struct {
	Model   report.Model
	Include report.Include // nil means every section

	// Optional band images repeated on every page.
	HeaderImage string
	FooterImage string

	Author  string
	Formats Format // zero means FormatBoth

	// KeepHTML returns the composed print HTML in Result.HTML.
	KeepHTML bool
}

// PDF sources.
const (
	SourceOffice = "office"
	SourceChrome = "chrome"
)

// Result holds the generated outputs. A format that was not requested or
// failed is nil.
type Result struct {
	DOCX []byte
	PDF  []byte
	HTML string

	PDFSource string // SourceOffice or SourceChrome
	Pages     int    // PDF page count, 0 when unknown
	Skipped   []SkippedImage
}

// SkippedImage is an image left out of the outputs.
type SkippedImage struct {
	Path   string
	Reason string
}

// Option configures a Generator.
type Option func(*Generator)

type generatorConfig struct {
	timeout     time.Duration
	assetPath   string
	officeBin   string
	noConvert   bool
	catalog     report.Catalog
	logger      *slog.Logger
	newResolver func() (ImageResolver, error)
}

const (
	defaultTimeout   = 60 * time.Second
	defaultOfficeBin = "soffice"
)

// WithTimeout bounds the PDF stage of each report.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("rdreport: WithTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.timeout = d
	}
}

// WithLogger sets the logger for skipped images and fallbacks.
// A nil logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.cfg.logger = l
	}
}

// WithAssetPath loads the stylesheet and band templates from dir, falling
// back to the embedded assets for anything missing there.
func WithAssetPath(dir string) Option {
	return func(g *Generator) {
		g.cfg.assetPath = dir
	}
}

// WithCatalog replaces the default lookup tables.
func WithCatalog(c report.Catalog) Option {
	return func(g *Generator) {
		g.cfg.catalog = c
	}
}

// WithImageResolver sets the factory of the per-report image snapshot.
// The factory is called once per Generate and the resolver closed before
// Generate returns.
func WithImageResolver(newResolver func() (ImageResolver, error)) Option {
	return func(g *Generator) {
		g.cfg.newResolver = newResolver
	}
}

// WithOfficeConverter sets the office binary used for the conversion path.
func WithOfficeConverter(bin string) Option {
	return func(g *Generator) {
		g.cfg.officeBin = bin
	}
}

// WithoutConversion prints every PDF with Chrome.
func WithoutConversion() Option {
	return func(g *Generator) {
		g.cfg.noConvert = true
	}
}
