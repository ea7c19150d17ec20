package rdreport

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-rdreport/internal/document"
	"github.com/alnah/go-rdreport/internal/fileutil"
	"github.com/alnah/go-rdreport/internal/process"
)

// pdfRenderer prints composed HTML to PDF. Tests substitute a fake.
type pdfRenderer interface {
	Render(ctx context.Context, html string, opts *printOptions) ([]byte, error)
	Close() error
}

var _ pdfRenderer = (*rodRenderer)(nil)

// printOptions carries the band templates Chrome prints on every page.
type printOptions struct {
	Header string
	Footer string
}

// rodRenderer prints with headless Chrome via go-rod. The browser is
// launched on first use and reused until Close.
// Rod downloads Chromium on first run if none is found.
type rodRenderer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	// NoSandbox is required in CI and most containers.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Close shuts the browser down and kills whatever it left running.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// Render writes html to a temp file, loads it and prints it to PDF.
func (r *rodRenderer) Render(ctx context.Context, html string, opts *printOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile([]byte(html), "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx).Timeout(timeout)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(buildPrintRequest(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// buildPrintRequest sets A4 paper with the report margins. The top and
// bottom margins leave room for the bands, which Chrome instantiates
// once per page.
func buildPrintRequest(opts *printOptions) *proto.PagePrintToPDF {
	req := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(document.PageWidth),
		PaperHeight:     floatPtr(document.PageHeight),
		MarginTop:       floatPtr(document.MarginTop),
		MarginBottom:    floatPtr(document.MarginBottom),
		MarginLeft:      floatPtr(document.MarginLeft),
		MarginRight:     floatPtr(document.MarginRight),
		PrintBackground: true,
	}
	if opts != nil {
		req.DisplayHeaderFooter = true
		req.HeaderTemplate = orEmpty(opts.Header)
		req.FooterTemplate = orEmpty(opts.Footer)
	}
	return req
}

// Chrome prints its own date and title when a template is empty.
func orEmpty(tmpl string) string {
	if tmpl == "" {
		return "<span></span>"
	}
	return tmpl
}

func floatPtr(v float64) *float64 {
	return &v
}
