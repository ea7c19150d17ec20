package docx_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-rdreport/internal/document"
	"github.com/alnah/go-rdreport/internal/docx"
	"github.com/alnah/go-rdreport/internal/imagecache"
	"github.com/alnah/go-rdreport/report"
)

// Notes:
// - document.xml is inspected as text; the package is small enough that
//   substring and regexp checks are clearer than a full OOXML model.

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// unzip renders blocks and returns every part of the package by name.
func unzip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		parts[f.Name] = string(b)
	}
	return parts
}

func render(t *testing.T, blocks []document.Block, opts docx.Options) map[string]string {
	t.Helper()
	data, err := docx.Render(blocks, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return unzip(t, data)
}

// ---------------------------------------------------------------------------
// TestRender - Package structure
// ---------------------------------------------------------------------------

func TestRender_PackageParts(t *testing.T) {
	t.Parallel()

	parts := render(t, []document.Block{{Kind: document.KindTitle, Text: "T"}}, docx.Options{
		Title:   "Binder & Co",
		Author:  "R. Chen",
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "docProps/core.xml", "docProps/app.xml",
		"word/document.xml", "word/_rels/document.xml.rels", "word/styles.xml",
		"word/numbering.xml", "word/settings.xml", "word/header1.xml", "word/footer1.xml",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	core := parts["docProps/core.xml"]
	if !strings.Contains(core, "<dc:title>Binder &amp; Co</dc:title>") {
		t.Errorf("core.xml title not escaped: %s", core)
	}
	if !strings.Contains(core, "2024-03-01T12:00:00Z") {
		t.Errorf("core.xml missing created stamp: %s", core)
	}
}

func TestRender_PageGeometry(t *testing.T) {
	t.Parallel()

	doc := render(t, nil, docx.Options{})["word/document.xml"]
	for _, want := range []string{
		`<w:pgSz w:w="11909" w:h="16834"/>`,
		`w:top="1944" w:right="1080" w:bottom="1728" w:left="1080" w:header="360" w:footer="360"`,
		`<w:headerReference w:type="default" r:id="rIdHeader"/>`,
		`<w:footerReference w:type="default" r:id="rIdFooter"/>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRender - Blocks
// ---------------------------------------------------------------------------

func TestRender_HeadingStyles(t *testing.T) {
	t.Parallel()

	doc := render(t, []document.Block{
		{Kind: document.KindTitle, Text: "Report"},
		{Kind: document.KindHeading, Level: 1, Text: "1. General Information"},
		{Kind: document.KindHeading, Level: 2, Indent: 1, Text: "2.1. Summary"},
		{Kind: document.KindHeading, Level: 3, Indent: 2, Text: "2.3.1. Raw Materials"},
	}, docx.Options{})["word/document.xml"]

	for _, want := range []string{
		`<w:pStyle w:val="Title"/></w:pPr><w:r><w:t xml:space="preserve">Report</w:t>`,
		`<w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t xml:space="preserve">1. General Information`,
		`<w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t xml:space="preserve">2.1. Summary`,
		`<w:pStyle w:val="Heading3"/></w:pPr><w:r><w:t xml:space="preserve">2.3.1. Raw Materials`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
}

func TestRender_ParagraphLineBreaksAndEscaping(t *testing.T) {
	t.Parallel()

	doc := render(t, []document.Block{
		{Kind: document.KindParagraph, Indent: 1, Text: "a < b\nc & d"},
	}, docx.Options{})["word/document.xml"]

	want := `<w:ind w:left="360"/></w:pPr><w:r><w:t xml:space="preserve">a &lt; b</w:t></w:r>` +
		`<w:r><w:br/></w:r><w:r><w:t xml:space="preserve">c &amp; d</w:t></w:r></w:p>`
	if !strings.Contains(doc, want) {
		t.Errorf("document.xml missing %s\ngot: %s", want, doc)
	}
}

func TestRender_OrderedListsRestart(t *testing.T) {
	t.Parallel()

	parts := render(t, []document.Block{
		{Kind: document.KindListItem, Indent: 1, Text: "obj 1", Ordered: true, ListID: 1},
		{Kind: document.KindListItem, Indent: 1, Text: "obj 2", Ordered: true, ListID: 1},
		{Kind: document.KindListItem, Indent: 2, Text: "bullet"},
		{Kind: document.KindListItem, Indent: 1, Text: "step 1", Ordered: true, ListID: 2},
	}, docx.Options{})

	numIDs := regexp.MustCompile(`<w:numId w:val="(\d+)"/>`).FindAllStringSubmatch(parts["word/document.xml"], -1)
	var got []string
	for _, m := range numIDs {
		got = append(got, m[1])
	}
	if strings.Join(got, ",") != "2,2,1,3" {
		t.Errorf("numIds = %v, want [2 2 1 3]", got)
	}

	numbering := parts["word/numbering.xml"]
	for _, id := range []string{"2", "3"} {
		want := `<w:num w:numId="` + id + `"><w:abstractNumId w:val="1"/><w:lvlOverride w:ilvl="0"><w:startOverride w:val="1"/>`
		if !strings.Contains(numbering, want) {
			t.Errorf("numbering.xml missing restart for num %s", id)
		}
	}
	if !strings.Contains(numbering, `<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>`) {
		t.Error("numbering.xml missing bullet instance")
	}
}

func TestRender_TableStyles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		style string
		want  string
	}{
		{"known style", "Light Grid Accent 1", "LightGridAccent1"},
		{"default style", "Table Grid", "TableGrid"},
		{"unknown style falls back", "Fancy", "TableGrid"},
		{"empty style falls back", "", "TableGrid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parts := render(t, []document.Block{{
				Kind:  document.KindTable,
				Rows:  [][]string{{"a", "b"}},
				Style: tt.style,
			}}, docx.Options{})
			if !strings.Contains(parts["word/document.xml"], `<w:tblStyle w:val="`+tt.want+`"/>`) {
				t.Errorf("table style id %s not used", tt.want)
			}
			if !strings.Contains(parts["word/styles.xml"], `w:styleId="`+tt.want+`"`) {
				t.Errorf("styles.xml missing %s", tt.want)
			}
		})
	}
}

func TestRender_CustomTableStyles(t *testing.T) {
	t.Parallel()

	parts := render(t, []document.Block{
		{Kind: document.KindTable, Rows: [][]string{{"a"}}, Style: "Lab Blue"},
		{Kind: document.KindTable, Rows: [][]string{{"b"}}, Style: "Light Grid"},
	}, docx.Options{TableStyles: []report.TableStyle{
		{Name: "Lab Blue", Border: "1565C0", HeaderFill: "BBDEFB"},
	}})

	doc, styles := parts["word/document.xml"], parts["word/styles.xml"]
	for _, want := range []string{`<w:tblStyle w:val="LabBlue"/>`, `<w:tblStyle w:val="TableGrid"/>`} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
	for _, want := range []string{
		`w:styleId="LabBlue"><w:name w:val="Lab Blue"/>`,
		`w:color="1565C0"`,
		`w:fill="BBDEFB"`,
		`w:styleId="TableGrid"`,
	} {
		if !strings.Contains(styles, want) {
			t.Errorf("styles.xml missing %s", want)
		}
	}
	if strings.Contains(styles, `w:styleId="LightGrid"`) {
		t.Error("style outside the given set was written")
	}
}

func TestRender_TableGeometry(t *testing.T) {
	t.Parallel()

	doc := render(t, []document.Block{{
		Kind:    document.KindTable,
		Rows:    [][]string{{"Trial#", "Issue", "Possible Reasons"}, {"1", "Foam"}},
		Header:  true,
		Weights: []float64{1, 1, 2},
	}}, docx.Options{})["word/document.xml"]

	// 6.77in printable width is 9749 twips.
	for _, want := range []string{
		`<w:tblW w:w="9749" w:type="dxa"/>`,
		`<w:gridCol w:w="2437"/><w:gridCol w:w="2437"/><w:gridCol w:w="4874"/>`,
		`<w:trPr><w:tblHeader/></w:trPr>`,
		`w:firstRow="1"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
	// The short row is padded to three cells.
	if got := strings.Count(doc, "<w:tc>"); got != 6 {
		t.Errorf("cell count = %d, want 6", got)
	}
}

// ---------------------------------------------------------------------------
// TestRender - Images and bands
// ---------------------------------------------------------------------------

func TestRender_ImagesAndCaption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	small := writePNG(t, dir, "small.png", 96, 48)
	wide := writePNG(t, dir, "wide.png", 1920, 960)

	parts := render(t, []document.Block{{
		Kind:    document.KindImage,
		Indent:  2,
		Images:  []string{small, wide, small},
		Caption: "x400",
	}}, docx.Options{})
	doc := parts["word/document.xml"]

	if got := strings.Count(doc, "<w:drawing>"); got != 3 {
		t.Errorf("drawings = %d, want 3", got)
	}
	if got := strings.Count(doc, ">x400<"); got != 3 {
		t.Errorf("captions = %d, want one per image", got)
	}
	// Natural size 1in x 0.5in; wide image capped at 5.8in.
	if !strings.Contains(doc, `cx="914400" cy="457200"`) {
		t.Error("small image not kept at natural size")
	}
	if !strings.Contains(doc, `cx="5303520" cy="2651760"`) {
		t.Error("wide image not capped at 5.8in")
	}

	// Repeated paths share one media file.
	var media int
	for name := range parts {
		if strings.HasPrefix(name, "word/media/") {
			media++
		}
	}
	if media != 2 {
		t.Errorf("media files = %d, want 2", media)
	}
	if !strings.Contains(parts["[Content_Types].xml"], `<Default Extension="png" ContentType="image/png"/>`) {
		t.Error("content types missing png default")
	}
}

func TestRender_MissingImageSkipped(t *testing.T) {
	t.Parallel()

	var skipped []string
	missing := filepath.Join(t.TempDir(), "gone.png")
	doc := render(t, []document.Block{
		{Kind: document.KindImage, Images: []string{missing}, Caption: "lost"},
		{Kind: document.KindParagraph, Text: "after"},
	}, docx.Options{
		OnSkip: func(path string, err error) {
			if !errors.Is(err, imagecache.ErrImageUnreadable) {
				t.Errorf("skip error = %v, want ErrImageUnreadable", err)
			}
			skipped = append(skipped, path)
		},
	})["word/document.xml"]

	if len(skipped) != 1 || skipped[0] != missing {
		t.Errorf("skipped = %v, want [%s]", skipped, missing)
	}
	if strings.Contains(doc, "<w:drawing>") || strings.Contains(doc, "lost") {
		t.Error("missing image left a drawing or caption behind")
	}
	if !strings.Contains(doc, ">after<") {
		t.Error("rendering stopped at the missing image")
	}
}

func TestRender_HeaderFooter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	header := writePNG(t, dir, "header.png", 800, 100)

	parts := render(t, nil, docx.Options{HeaderImage: header})

	hdr := parts["word/header1.xml"]
	if !strings.Contains(hdr, "<w:drawing>") {
		t.Error("header image not embedded")
	}
	// Stretched to the 6.77in printable width.
	if !strings.Contains(hdr, `cx="6190488"`) {
		t.Errorf("header image width wrong: %s", hdr)
	}
	if !strings.Contains(parts["word/_rels/header1.xml.rels"], `Target="media/image1.png"`) {
		t.Error("header rels missing media target")
	}

	ftr := parts["word/footer1.xml"]
	if strings.Contains(ftr, "<w:drawing>") {
		t.Error("footer has an image although none was given")
	}
	if !strings.Contains(ftr, `<w:jc w:val="right"/></w:pPr><w:fldSimple w:instr=" PAGE ">`) {
		t.Error("footer missing right-aligned PAGE field")
	}
}

// ---------------------------------------------------------------------------
// TestRender - Whole reports
// ---------------------------------------------------------------------------

func TestRender_FullReportText(t *testing.T) {
	t.Parallel()

	m := report.New()
	m.ProjectTitle = "Low-VOC Binder"
	m.Objectives = []string{"Cut VOC"}
	m.TrialHistory = []report.TrialRow{{Number: "1", Issue: "Foam", Reasons: "Surfactant"}}
	m.Results = []report.ResultItem{report.NewTableResult("Viscosity", "Trial\tcP\n1\t1200", "")}

	blocks := document.Build(m, report.DefaultInclude(), report.DefaultCatalog())
	doc := render(t, blocks, docx.Options{})["word/document.xml"]

	text := docx.Text([]byte(doc))
	for _, line := range document.Outline(blocks) {
		if !strings.Contains(text, line) {
			t.Errorf("document text missing %q", line)
		}
	}
}
