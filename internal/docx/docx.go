// Package docx renders a block sequence as a WordprocessingML (.docx)
// package.
//
// The output is a reflowable document: native heading styles, numbered
// and bulleted lists, grid tables with named table styles, inline
// pictures and a header and footer repeated on every page. The footer
// carries a PAGE field, so page numbers are computed by the word
// processor when it lays the document out.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alnah/go-rdreport/internal/document"
	"github.com/alnah/go-rdreport/internal/imagecache"
	"github.com/alnah/go-rdreport/report"
)

var ErrRender = errors.New("docx render failed")

// Page geometry, in inches.
const (
	PageWidth      = document.PageWidth
	PageHeight     = document.PageHeight
	MarginLeft     = document.MarginLeft
	MarginRight    = document.MarginRight
	MarginTop      = document.MarginTop
	MarginBottom   = document.MarginBottom
	BandDistance   = document.BandDistance
	MaxImageWidth  = document.MaxImageWidth
	IndentStep     = document.IndentStep
	PrintableWidth = document.PrintableWidth
)

// Options configures a render.
type Options struct {
	// HeaderImage and FooterImage are optional band images. Unreadable
	// paths leave the band empty.
	HeaderImage string
	FooterImage string

	// Document properties.
	Title   string
	Author  string
	Created time.Time

	// TableStyles are written to styles.xml and referenced by tables;
	// nil means the built-in catalog.
	TableStyles []report.TableStyle

	// ReadImage loads images; nil means imagecache.Read.
	ReadImage func(path string) (*imagecache.Image, error)

	// OnSkip is called for every image left out of the document.
	OnSkip func(path string, err error)
}

// Render writes blocks as a .docx package and returns its bytes.
func Render(blocks []document.Block, opts Options) ([]byte, error) {
	if opts.ReadImage == nil {
		opts.ReadImage = imagecache.Read
	}
	if opts.TableStyles == nil {
		opts.TableStyles = report.DefaultCatalog().TableStyles
	}
	r := &renderer{opts: opts, body: newPart(), numbering: map[int]int{}}

	for _, b := range blocks {
		r.block(b)
	}

	header := r.band(opts.HeaderImage, false)
	footer := r.band(opts.FooterImage, true)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", contentTypes(r.media)},
		{"_rels/.rels", []byte(packageRels)},
		{"docProps/core.xml", coreProps(opts.Title, opts.Author, opts.Created)},
		{"docProps/app.xml", []byte(appProps)},
		{"word/document.xml", r.document()},
		{"word/_rels/document.xml.rels", rels(documentRels, r.body.images)},
		{"word/styles.xml", styles(r.catalog())},
		{"word/numbering.xml", r.numberingPart()},
		{"word/settings.xml", []byte(settings)},
		{"word/header1.xml", header.xml},
		{"word/_rels/header1.xml.rels", rels(nil, header.images)},
		{"word/footer1.xml", footer.xml},
		{"word/_rels/footer1.xml.rels", rels(nil, footer.images)},
	}
	for _, m := range r.media {
		files = append(files, struct {
			name string
			data []byte
		}{"word/media/" + m.name, m.data})
	}

	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRender, f.name, err)
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRender, f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// twips converts inches to twentieths of a point.
func twips(in float64) int {
	return int(math.Round(in * 1440))
}

// emu converts inches to English Metric Units.
func emu(in float64) int64 {
	return int64(math.Round(in * 914400))
}
