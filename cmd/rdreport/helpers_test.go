package main

// Notes:
// - Test infrastructure shared by the command tests: a recording generator,
//   a pool that hands it out, and an Environment writing to buffers.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	rdreport "github.com/alnah/go-rdreport"
	"github.com/alnah/go-rdreport/project"
)

var fixedNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// mockGenerator records inputs and returns outputs for the requested formats.
// fail, when set, decides the error of a call and may drop outputs.
type mockGenerator struct {
	mu     sync.Mutex
	inputs []rdreport.Input
	fail   func(in rdreport.Input, res *rdreport.Result) (*rdreport.Result, error)
}

func (m *mockGenerator) Generate(_ context.Context, in rdreport.Input) (*rdreport.Result, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, in)
	m.mu.Unlock()

	res := &rdreport.Result{}
	if in.Formats.Has(rdreport.FormatDOCX) {
		res.DOCX = []byte("PK docx")
	}
	if in.Formats.Has(rdreport.FormatPDF) {
		res.PDF = []byte("%PDF-1.7")
		res.PDFSource = rdreport.SourceChrome
		res.Pages = 2
	}
	if in.KeepHTML {
		res.HTML = "<html><body><h1>" + in.Model.ProjectTitle + "</h1><p>body</p></body></html>"
	}
	if m.fail != nil {
		return m.fail(in, res)
	}
	return res, nil
}

func (m *mockGenerator) getInputs() []rdreport.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]rdreport.Input(nil), m.inputs...)
}

// mockPool hands out a single shared generator.
type mockPool struct {
	gen        ReportGenerator
	acquireErr error

	mu       sync.Mutex
	size     int
	opts     int
	acquired int
	released int
	closed   bool
}

func (p *mockPool) Acquire(ctx context.Context) (ReportGenerator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	p.acquired++
	p.mu.Unlock()
	return p.gen, nil
}

func (p *mockPool) Release(ReportGenerator) {
	p.mu.Lock()
	p.released++
	p.mu.Unlock()
}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// fakeClipboard is an in-memory clipboard.
type fakeClipboard struct {
	text    string
	err     error
	written string
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.written = text
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testEnv returns an Environment with buffered output and a mock pool.
func testEnv(pool *mockPool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:       func() time.Time { return fixedNow },
		Stdin:     strings.NewReader(""),
		Stdout:    &stdout,
		Stderr:    &stderr,
		Clipboard: &fakeClipboard{},
		NewPool: func(size int, opts ...rdreport.Option) Pool {
			pool.size = size
			pool.opts = len(opts)
			return pool
		},
	}
	return env, &stdout, &stderr
}

// writeProject saves a project titled title under dir and returns its path.
func writeProject(t *testing.T, dir, name, title string, edit func(*project.File)) string {
	t.Helper()
	f := project.New()
	f.Report.ProjectTitle = title
	if edit != nil {
		edit(&f)
	}
	path := filepath.Join(dir, name+project.Extension)
	if err := project.Save(path, f); err != nil {
		t.Fatalf("project.Save() error = %v", err)
	}
	return path
}
