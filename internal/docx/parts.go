package docx

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-rdreport/report"
)

const packageRels = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

const appProps = xmlHeader +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>rdreport</Application></Properties>`

const settings = xmlHeader +
	`<w:settings xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:updateFields w:val="true"/><w:defaultTabStop w:val="720"/>` +
	`<w:compat><w:compatSetting w:name="compatibilityMode" w:uri="http://schemas.microsoft.com/office/word" w:val="15"/></w:compat>` +
	`</w:settings>`

const relTypeBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

type relationship struct {
	id, typ, target string
}

var documentRels = []relationship{
	{"rIdStyles", "styles", "styles.xml"},
	{"rIdNumbering", "numbering", "numbering.xml"},
	{"rIdSettings", "settings", "settings.xml"},
	{"rIdHeader", "header", "header1.xml"},
	{"rIdFooter", "footer", "footer1.xml"},
}

func rels(fixed []relationship, images []imageRel) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range fixed {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s%s" Target="%s"/>`, r.id, relTypeBase, r.typ, r.target)
	}
	for _, im := range images {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%simage" Target="%s"/>`, im.id, relTypeBase, im.target)
	}
	b.WriteString(`</Relationships>`)
	return b.Bytes()
}

func contentTypes(media []mediaFile) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	seen := map[string]bool{}
	for _, m := range media {
		if seen[m.ext] {
			continue
		}
		seen[m.ext] = true
		mime := "image/" + m.ext
		if m.ext == "jpg" {
			mime = "image/jpeg"
		}
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, m.ext, mime)
	}

	const wml = "application/vnd.openxmlformats-officedocument.wordprocessingml."
	overrides := [][2]string{
		{"/word/document.xml", wml + "document.main+xml"},
		{"/word/styles.xml", wml + "styles+xml"},
		{"/word/numbering.xml", wml + "numbering+xml"},
		{"/word/settings.xml", wml + "settings+xml"},
		{"/word/header1.xml", wml + "header+xml"},
		{"/word/footer1.xml", wml + "footer+xml"},
		{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
		{"/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
	}
	for _, o := range overrides {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, o[0], o[1])
	}
	b.WriteString(`</Types>`)
	return b.Bytes()
}

func coreProps(title, author string, created time.Time) []byte {
	if created.IsZero() {
		created = time.Now()
	}
	stamp := created.UTC().Format(time.RFC3339)
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, escape(title))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, escape(author))
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, stamp)
	fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, stamp)
	b.WriteString(`</cp:coreProperties>`)
	return b.Bytes()
}

func (r *renderer) numberingPart() []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)

	hang := twips(IndentStep)
	fmt.Fprintf(&b, `<w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="singleLevel"/>`+
		`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="•"/>`+
		`<w:lvlJc w:val="left"/><w:pPr><w:ind w:left="%d" w:hanging="%d"/></w:pPr></w:lvl></w:abstractNum>`, hang, hang)
	fmt.Fprintf(&b, `<w:abstractNum w:abstractNumId="1"><w:multiLevelType w:val="singleLevel"/>`+
		`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%%1."/>`+
		`<w:lvlJc w:val="left"/><w:pPr><w:ind w:left="%d" w:hanging="%d"/></w:pPr></w:lvl></w:abstractNum>`, hang, hang)

	fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="0"/></w:num>`, bulletNumID)
	for _, id := range r.ordered {
		fmt.Fprintf(&b, `<w:num w:numId="%d"><w:abstractNumId w:val="1"/>`+
			`<w:lvlOverride w:ilvl="0"><w:startOverride w:val="1"/></w:lvlOverride></w:num>`, id)
	}
	b.WriteString(`</w:numbering>`)
	return b.Bytes()
}

func (r *renderer) catalog() report.Catalog {
	return report.Catalog{TableStyles: r.opts.TableStyles}
}

func styles(cat report.Catalog) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	b.WriteString(`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/>` +
		`<w:sz w:val="20"/><w:szCs w:val="20"/></w:rPr></w:rPrDefault>` +
		`<w:pPrDefault><w:pPr><w:spacing w:after="120"/></w:pPr></w:pPrDefault></w:docDefaults>`)

	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/>` +
		`<w:next w:val="Normal"/><w:qFormat/><w:pPr><w:jc w:val="center"/><w:spacing w:after="240"/></w:pPr>` +
		`<w:rPr><w:b/><w:sz w:val="28"/><w:szCs w:val="28"/></w:rPr></w:style>`)

	for level, size := range []int{24, 22, 20} {
		n := level + 1
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/>`+
			`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`+
			`<w:pPr><w:keepNext/><w:spacing w:before="200" w:after="80"/><w:ind w:left="%d"/><w:outlineLvl w:val="%d"/></w:pPr>`+
			`<w:rPr><w:b/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:style>`,
			n, n, twips(float64(level)*IndentStep), level, size, size)
	}

	b.WriteString(`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/>` +
		`<w:basedOn w:val="Normal"/><w:pPr><w:spacing w:after="40"/><w:contextualSpacing/></w:pPr></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Caption"><w:name w:val="caption"/>` +
		`<w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:rPr><w:i/><w:sz w:val="18"/><w:szCs w:val="18"/></w:rPr></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Header"><w:name w:val="header"/><w:basedOn w:val="Normal"/>` +
		`<w:pPr><w:jc w:val="center"/><w:spacing w:after="0"/></w:pPr></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="Footer"><w:name w:val="footer"/><w:basedOn w:val="Normal"/>` +
		`<w:pPr><w:jc w:val="center"/><w:spacing w:after="0"/></w:pPr></w:style>`)

	b.WriteString(`<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/>` +
		`<w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar><w:top w:w="0" w:type="dxa"/>` +
		`<w:left w:w="108" w:type="dxa"/><w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/>` +
		`</w:tblCellMar></w:tblPr></w:style>`)
	for _, ts := range cat.TableStyles {
		b.WriteString(tableStyleXML(ts))
	}
	// Unknown names fall back to the grid, which must exist.
	if !slices.Contains(cat.StyleNames(), report.DefaultTableStyle) {
		b.WriteString(tableStyleXML(cat.Style(report.DefaultTableStyle)))
	}

	b.WriteString(`</w:styles>`)
	return b.Bytes()
}

func tableStyleXML(l report.TableStyle) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<w:style w:type="table" w:styleId="%s"><w:name w:val="%s"/><w:basedOn w:val="TableNormal"/>`,
		l.ID(), escape(l.Name))
	b.WriteString(`<w:pPr><w:spacing w:after="0"/></w:pPr>`)
	b.WriteString(`<w:tblPr><w:tblStyleRowBandSize w:val="1"/><w:tblBorders>`)
	border := l.Border
	if border == "" {
		border = "000000"
	}
	edges := []string{"top", "left", "bottom", "right"}
	if l.InnerLines {
		edges = append(edges, "insideH", "insideV")
	}
	for _, e := range edges {
		fmt.Fprintf(&b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="%s"/>`, e, escape(border))
	}
	b.WriteString(`</w:tblBorders></w:tblPr>`)

	b.WriteString(`<w:tblStylePr w:type="firstRow"><w:rPr><w:b/>`)
	if l.HeaderText != "" {
		fmt.Fprintf(&b, `<w:color w:val="%s"/>`, escape(l.HeaderText))
	}
	b.WriteString(`</w:rPr>`)
	if l.HeaderFill != "" {
		fmt.Fprintf(&b, `<w:tcPr><w:shd w:val="clear" w:color="auto" w:fill="%s"/></w:tcPr>`, escape(l.HeaderFill))
	}
	b.WriteString(`</w:tblStylePr>`)

	if l.BandFill != "" {
		fmt.Fprintf(&b, `<w:tblStylePr w:type="band1Horz"><w:tcPr><w:shd w:val="clear" w:color="auto" w:fill="%s"/></w:tcPr></w:tblStylePr>`, escape(l.BandFill))
	}
	b.WriteString(`</w:style>`)
	return b.String()
}
