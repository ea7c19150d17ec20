package rdreport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-rdreport/internal/assets"
	"github.com/alnah/go-rdreport/internal/dateutil"
	"github.com/alnah/go-rdreport/internal/document"
	"github.com/alnah/go-rdreport/internal/docx"
	"github.com/alnah/go-rdreport/internal/imagecache"
	"github.com/alnah/go-rdreport/internal/pdfdoc"
	"github.com/alnah/go-rdreport/report"
)

// ImageResolver snapshots the images a report references. Resolve
// returns the path to render from; Close discards the snapshot.
type ImageResolver interface {
	Resolve(ref string) (string, error)
	Close() error
}

// Generator renders reports to DOCX and PDF. Create with NewGenerator,
// call Generate per report and Close when done. A Generator owns one
// browser and is not safe for concurrent use; see GeneratorPool.
type Generator struct {
	cfg       generatorConfig
	logger    *slog.Logger
	css       string
	templates *assets.TemplateSet
	pdf       pdfRenderer
	office    officeConverter
	now       func() time.Time
}

// NewGenerator creates a Generator. It fails if the asset path is set but
// unusable or its templates are broken.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg: generatorConfig{
			timeout:   defaultTimeout,
			officeBin: defaultOfficeBin,
			catalog:   report.DefaultCatalog(),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.logger = g.cfg.logger
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.cfg.newResolver == nil {
		g.cfg.newResolver = func() (ImageResolver, error) { return imagecache.New("") }
	}

	resolver, err := assets.NewAssetResolver(g.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if g.css, err = resolver.LoadStyle(assets.DefaultStyleName); err != nil {
		return nil, fmt.Errorf("loading stylesheet: %w", err)
	}
	if g.templates, err = resolver.LoadTemplateSet(assets.DefaultTemplateSetName); err != nil {
		return nil, fmt.Errorf("loading band templates: %w", err)
	}

	if g.pdf == nil {
		g.pdf = newRodRenderer(g.cfg.timeout)
	}
	if g.office == nil && !g.cfg.noConvert {
		g.office = newSofficeConverter(g.cfg.officeBin)
	}
	return g, nil
}

// Close releases the browser.
func (g *Generator) Close() error {
	if g.pdf != nil {
		return g.pdf.Close()
	}
	return nil
}

// Generate renders in. A failure confined to one format does not stop the
// other: the result carries what succeeded and the error wraps
// ErrFormatFailed for each failed format. Missing images never fail a
// format; they are listed in Result.Skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (g *Generator) Generate(ctx context.Context, in Input) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(in.Model.ProjectTitle) == "" {
		return nil, ErrMissingTitle
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	formats := in.Formats
	if formats == 0 {
		formats = FormatBoth
	}
	inc := in.Include
	if inc == nil {
		inc = report.DefaultInclude()
	}

	m := in.Model.Clone()
	if err := g.resolveDates(&m); err != nil {
		return nil, err
	}

	snap, err := g.snapshot(&m, in)
	if err != nil {
		return nil, err
	}
	defer snap.close()

	blocks := document.Build(m, inc, g.cfg.catalog)
	res = &Result{}
	var errs []error

	// The conversion path needs the .docx even when only a PDF is wanted.
	convert := formats.Has(FormatPDF) && g.office != nil
	if formats.Has(FormatDOCX) || convert {
		pkg, err := docx.Render(blocks, docx.Options{
			HeaderImage: snap.header,
			FooterImage: snap.footer,
			Title:       m.ProjectTitle,
			Author:      in.Author,
			Created:     g.now(),
			TableStyles: g.cfg.catalog.TableStyles,
			OnSkip:      snap.skip,
		})
		switch {
		case err != nil && formats.Has(FormatDOCX):
			errs = append(errs, fmt.Errorf("%w: docx: %w", ErrFormatFailed, err))
		case err != nil:
			g.logger.Warn("docx render failed, conversion path unavailable", "err", err)
		case formats.Has(FormatDOCX):
			res.DOCX = pkg
		}
		if err == nil && convert {
			res.PDF, res.Pages = g.convert(ctx, pkg)
		}
	}

	var page string
	if in.KeepHTML || (formats.Has(FormatPDF) && res.PDF == nil) {
		page, err = pdfdoc.Compose(blocks, pdfdoc.Options{
			Title:       m.ProjectTitle,
			CSS:         g.css,
			TableStyles: g.cfg.catalog.TableStyles,
			OnSkip:      snap.skip,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: pdf: %w", ErrFormatFailed, err))
		}
		if in.KeepHTML {
			res.HTML = page
		}
	}

	switch {
	case !formats.Has(FormatPDF):
	case res.PDF != nil:
		res.PDFSource = SourceOffice
	case page != "":
		pdf, pages, err := g.print(ctx, page, snap)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: pdf: %w", ErrFormatFailed, err))
			break
		}
		res.PDF, res.Pages, res.PDFSource = pdf, pages, SourceChrome
	}

	if res.PDF != nil {
		if stamped, err := stampProperties(res.PDF, m.ProjectTitle, in.Author); err != nil {
			g.logger.Warn("pdf properties not set", "err", err)
		} else {
			res.PDF = stamped
		}
	}

	res.Skipped = snap.skipped()
	return res, errors.Join(errs...)
}

// convert runs the office conversion path. Any failure is logged and
// leaves the PDF to the print engine.
func (g *Generator) convert(ctx context.Context, pkg []byte) ([]byte, int) {
	cctx, cancel := context.WithTimeout(ctx, g.cfg.timeout)
	defer cancel()

	pdf, err := g.office.ToPDF(cctx, pkg)
	if err != nil {
		g.logger.Info("office conversion unavailable, printing with chrome", "err", err)
		return nil, 0
	}
	pages, err := inspectPDF(pdf)
	if err != nil {
		g.logger.Warn("converted pdf rejected, printing with chrome", "err", err)
		return nil, 0
	}
	return pdf, pages
}

func (g *Generator) print(ctx context.Context, page string, snap *snapshot) ([]byte, int, error) {
	header, footer, err := pdfdoc.Bands(g.templates, pdfdoc.BandOptions{
		HeaderImage: snap.header,
		FooterImage: snap.footer,
		OnSkip:      snap.skip,
	})
	if err != nil {
		return nil, 0, err
	}

	pctx, cancel := context.WithTimeout(ctx, g.cfg.timeout)
	defer cancel()
	pdf, err := g.pdf.Render(pctx, page, &printOptions{Header: header, Footer: footer})
	if err != nil {
		return nil, 0, err
	}

	pages, err := inspectPDF(pdf)
	if err != nil {
		g.logger.Warn("page count unavailable", "err", err)
		return pdf, 0, nil
	}
	return pdf, pages, nil
}

// resolveDates expands "auto" in the general information dates.
func (g *Generator) resolveDates(m *report.Model) error {
	now := g.now()
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"start date", &m.StartDate},
		{"report date", &m.ReportDate},
	} {
		v, err := dateutil.ResolveDate(*f.v, now)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, f.name, err)
		}
		*f.v = v
	}
	return nil
}
