package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/alnah/go-rdreport/internal/document"
)

const namespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// bulletNumID is the shared numbering instance of every bulleted list.
const bulletNumID = 1

type mediaFile struct {
	name string
	data []byte
	ext  string
}

type imageRel struct {
	id     string
	target string
}

// part is one XML story (body, header or footer) with the image
// relationships it references.
type part struct {
	buf    bytes.Buffer
	images []imageRel
}

func newPart() *part { return &part{} }

type renderer struct {
	opts      Options
	body      *part
	media     []mediaFile
	mediaIdx  map[string]int
	numbering map[int]int
	ordered   []int
	drawings  int
}

func (r *renderer) block(b document.Block) {
	p := &r.body.buf
	switch b.Kind {
	case document.KindTitle:
		p.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr>`)
		p.WriteString(runs(b.Text))
		p.WriteString(`</w:p>`)

	case document.KindHeading:
		level := min(max(b.Level, 1), 3)
		fmt.Fprintf(p, `<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>`, level)
		p.WriteString(runs(b.Text))
		p.WriteString(`</w:p>`)

	case document.KindParagraph:
		fmt.Fprintf(p, `<w:p><w:pPr><w:ind w:left="%d"/></w:pPr>`, twips(indent(b)))
		p.WriteString(runs(b.Text))
		p.WriteString(`</w:p>`)

	case document.KindListItem:
		numID := bulletNumID
		if b.Ordered {
			numID = r.numID(b.ListID)
		}
		left := twips(indent(b)) + twips(IndentStep)
		fmt.Fprintf(p, `<w:p><w:pPr><w:pStyle w:val="ListParagraph"/>`+
			`<w:numPr><w:ilvl w:val="0"/><w:numId w:val="%d"/></w:numPr>`+
			`<w:ind w:left="%d" w:hanging="%d"/></w:pPr>`, numID, left, twips(IndentStep))
		p.WriteString(runs(b.Text))
		p.WriteString(`</w:p>`)

	case document.KindTable:
		r.table(b)

	case document.KindImage:
		r.images(b)
	}
}

func indent(b document.Block) float64 {
	return float64(max(b.Indent, 0)) * IndentStep
}

// numID returns the numbering instance of an ordered list, allocating a
// fresh one that restarts at 1 the first time a list id is seen.
func (r *renderer) numID(listID int) int {
	if id, ok := r.numbering[listID]; ok {
		return id
	}
	id := bulletNumID + 1 + len(r.ordered)
	r.numbering[listID] = id
	r.ordered = append(r.ordered, id)
	return id
}

func (r *renderer) table(b document.Block) {
	rows := b.PaddedRows()
	if len(rows) == 0 {
		return
	}
	fractions := b.ColumnFractions()
	total := twips(PrintableWidth)
	widths := make([]int, len(fractions))
	for i, f := range fractions {
		widths[i] = int(float64(total) * f)
	}

	firstRow := 0
	if b.Header {
		firstRow = 1
	}

	p := &r.body.buf
	fmt.Fprintf(p, `<w:tbl><w:tblPr><w:tblStyle w:val="%s"/><w:tblW w:w="%d" w:type="dxa"/>`+
		`<w:tblLayout w:type="fixed"/><w:tblLook w:val="04A0" w:firstRow="%d" w:lastRow="0" `+
		`w:firstColumn="0" w:lastColumn="0" w:noHBand="0" w:noVBand="1"/></w:tblPr>`,
		r.catalog().Style(b.Style).ID(), total, firstRow)

	p.WriteString(`<w:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(p, `<w:gridCol w:w="%d"/>`, w)
	}
	p.WriteString(`</w:tblGrid>`)

	for i, row := range rows {
		p.WriteString(`<w:tr>`)
		if i == 0 && b.Header {
			p.WriteString(`<w:trPr><w:tblHeader/></w:trPr>`)
		}
		for j, cell := range row {
			fmt.Fprintf(p, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, widths[j])
			p.WriteString(`<w:p><w:pPr><w:spacing w:after="0"/></w:pPr>`)
			p.WriteString(runs(cell))
			p.WriteString(`</w:p></w:tc>`)
		}
		p.WriteString(`</w:tr>`)
	}
	p.WriteString(`</w:tbl>`)
	// Word needs a paragraph between a table and what follows it.
	p.WriteString(`<w:p><w:pPr><w:spacing w:after="0"/></w:pPr></w:p>`)
}

func (r *renderer) images(b document.Block) {
	p := &r.body.buf
	left := twips(indent(b))
	for _, path := range b.Images {
		img, err := r.opts.ReadImage(path)
		if err != nil {
			r.skip(path, err)
			continue
		}
		w, h := img.Fit(MaxImageWidth, 0)
		relID := r.embed(r.body, path, img.Data, img.Ext())

		fmt.Fprintf(p, `<w:p><w:pPr><w:keepNext/><w:ind w:left="%d"/></w:pPr>`, left)
		p.WriteString(r.picture(relID, w, h))
		p.WriteString(`</w:p>`)

		if b.Caption != "" {
			fmt.Fprintf(p, `<w:p><w:pPr><w:pStyle w:val="Caption"/><w:ind w:left="%d"/><w:jc w:val="center"/></w:pPr>`, left)
			p.WriteString(runs(b.Caption))
			p.WriteString(`</w:p>`)
		}
	}
}

func (r *renderer) skip(path string, err error) {
	if r.opts.OnSkip != nil {
		r.opts.OnSkip(path, err)
	}
}

// embed stores data once in word/media and returns the relationship id of
// the media file within part.
func (r *renderer) embed(pt *part, path string, data []byte, ext string) string {
	if r.mediaIdx == nil {
		r.mediaIdx = map[string]int{}
	}
	idx, ok := r.mediaIdx[path]
	if !ok {
		idx = len(r.media)
		r.media = append(r.media, mediaFile{
			name: fmt.Sprintf("image%d.%s", idx+1, ext),
			data: data,
			ext:  ext,
		})
		r.mediaIdx[path] = idx
	}
	target := "media/" + r.media[idx].name
	for _, rel := range pt.images {
		if rel.target == target {
			return rel.id
		}
	}
	id := fmt.Sprintf("rIdImg%d", len(pt.images)+1)
	pt.images = append(pt.images, imageRel{id: id, target: target})
	return id
}

func (r *renderer) picture(relID string, wIn, hIn float64) string {
	r.drawings++
	n := r.drawings
	cx, cy := emu(wIn), emu(hIn)
	return fmt.Sprintf(`<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[1]d" cy="%[2]d"/><wp:docPr id="%[3]d" name="Picture %[3]d"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="%[3]d" name="Picture %[3]d"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[4]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic>`+
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`, cx, cy, n, relID)
}

// runs renders text as runs, turning newlines into line breaks.
func runs(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var sb strings.Builder
	for i, ln := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteString(`<w:r><w:br/></w:r>`)
		}
		if ln == "" {
			continue
		}
		sb.WriteString(`<w:r><w:t xml:space="preserve">`)
		sb.WriteString(escape(ln))
		sb.WriteString(`</w:t></w:r>`)
	}
	return sb.String()
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

func (r *renderer) document() []byte {
	var out bytes.Buffer
	out.WriteString(xmlHeader)
	out.WriteString(`<w:document ` + namespaces + `><w:body>`)
	out.Write(r.body.buf.Bytes())
	fmt.Fprintf(&out, `<w:sectPr><w:headerReference w:type="default" r:id="rIdHeader"/>`+
		`<w:footerReference w:type="default" r:id="rIdFooter"/>`+
		`<w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="0"/>`+
		`</w:sectPr>`,
		twips(PageWidth), twips(PageHeight),
		twips(MarginTop), twips(MarginRight), twips(MarginBottom), twips(MarginLeft),
		twips(BandDistance), twips(BandDistance))
	out.WriteString(`</w:body></w:document>`)
	return out.Bytes()
}

type bandPart struct {
	xml    []byte
	images []imageRel
}

// band renders the header or footer. The image, when readable, spans the
// printable width; the footer also carries the page number on the right.
func (r *renderer) band(path string, footer bool) bandPart {
	pt := newPart()
	tag, style := "w:hdr", "Header"
	if footer {
		tag, style = "w:ftr", "Footer"
	}

	pt.buf.WriteString(xmlHeader)
	fmt.Fprintf(&pt.buf, `<%s %s>`, tag, namespaces)
	fmt.Fprintf(&pt.buf, `<w:p><w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	if path != "" {
		img, err := r.opts.ReadImage(path)
		if err != nil {
			r.skip(path, err)
		} else {
			w, h := img.Stretch(PrintableWidth)
			relID := r.embed(pt, path, img.Data, img.Ext())
			pt.buf.WriteString(r.picture(relID, w, h))
		}
	}
	pt.buf.WriteString(`</w:p>`)

	if footer {
		fmt.Fprintf(&pt.buf, `<w:p><w:pPr><w:pStyle w:val="%s"/><w:jc w:val="right"/></w:pPr>`+
			`<w:fldSimple w:instr=" PAGE "><w:r><w:t>1</w:t></w:r></w:fldSimple></w:p>`, style)
	}
	fmt.Fprintf(&pt.buf, `</%s>`, tag)
	return bandPart{xml: pt.buf.Bytes(), images: pt.images}
}
