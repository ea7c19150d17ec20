package rdreport

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-rdreport/report"
)

// minimalPDF returns a well-formed PDF with the given number of blank A4 pages.
func minimalPDF(pages int) []byte {
	var b bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	b.WriteString("%PDF-1.4\n")
	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+4)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	obj("<< /Creator (test) >>")
	for range pages {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>")
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R /Info 3 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return b.Bytes()
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeRenderer implements pdfRenderer for testing.
type fakeRenderer struct {
	mu     sync.Mutex
	result []byte
	err    error
	panics bool
	calls  int
	html   string
	opts   *printOptions
	closed bool
}

func (f *fakeRenderer) Render(_ context.Context, html string, opts *printOptions) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("renderer exploded")
	}
	f.calls++
	f.html = html
	f.opts = opts
	return f.result, f.err
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

// fakeOffice implements officeConverter for testing.
type fakeOffice struct {
	result []byte
	err    error
	calls  int
	input  []byte
}

func (f *fakeOffice) ToPDF(_ context.Context, docx []byte) ([]byte, error) {
	f.calls++
	f.input = docx
	return f.result, f.err
}

// recordingResolver resolves every path to itself unless listed as missing.
type recordingResolver struct {
	missing map[string]bool
	closed  bool
}

func (r *recordingResolver) Resolve(ref string) (string, error) {
	if r.missing[ref] {
		return "", fmt.Errorf("gone: %s", ref)
	}
	return ref, nil
}

func (r *recordingResolver) Close() error {
	r.closed = true
	return nil
}

var fixedNow = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

// newTestGenerator builds a Generator wired to fakes.
func newTestGenerator(t *testing.T, pdf *fakeRenderer, office *fakeOffice, opts ...Option) *Generator {
	t.Helper()
	g, err := NewGenerator(opts...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	g.pdf = pdf
	g.office = nil // a nil *fakeOffice must not become a non-nil interface
	if office != nil {
		g.office = office
	}
	g.now = func() time.Time { return fixedNow }
	return g
}

func sampleModel() report.Model {
	m := report.New()
	m.ProjectTitle = "Low-VOC Binder"
	m.ReportDate = "auto"
	m.PlainSummary = "Solvent cut."
	m.Objectives = []string{"Cut VOC"}
	m.Results = []report.ResultItem{
		report.NewTextResult("Notes", "one\ntwo"),
		report.NewTableResult("Viscosity", "Trial;cP\n1;1200", "Light Grid"),
	}
	return m
}

// docxPart returns the content of one part of a .docx package.
func docxPart(t *testing.T, pkg []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		t.Fatal(err)
	}
	f, err := zr.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
