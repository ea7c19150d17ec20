// Package pdfdoc composes the print-ready HTML of a report for the
// fixed-layout (PDF) output.
//
// Compose walks the same block sequence as the .docx renderer and emits a
// self-contained HTML document: the stylesheet is inlined and images are
// embedded as data: URLs, so the page loads without touching the
// filesystem. Header and footer bands are rendered separately by Bands
// because the PDF engine prints them outside the page body.
package pdfdoc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-rdreport/internal/document"
	"github.com/alnah/go-rdreport/internal/imagecache"
	"github.com/alnah/go-rdreport/report"
)

var ErrCompose = errors.New("html compose failed")

// Options configures Compose.
type Options struct {
	Title string

	// CSS is inlined into the document head.
	CSS string

	// TableStyles get one rule set each after CSS; nil means the built-in
	// catalog.
	TableStyles []report.TableStyle

	// ReadImage loads images; nil means imagecache.Read.
	ReadImage func(path string) (*imagecache.Image, error)

	// OnSkip is called for every image left out of the document.
	OnSkip func(path string, err error)
}

type composer struct {
	opts  Options
	cat   report.Catalog
	body  *html.Node
	list  *html.Node // open <ul>/<ol>, nil when the last block was not a list item
	key   listKey
	count map[int]int // items emitted so far per ordered list id
}

type listKey struct {
	ordered bool
	id      int
	indent  int
}

// Compose renders blocks as a complete HTML document.
func Compose(blocks []document.Block, opts Options) (string, error) {
	if opts.ReadImage == nil {
		opts.ReadImage = imagecache.Read
	}
	if opts.TableStyles == nil {
		opts.TableStyles = report.DefaultCatalog().TableStyles
	}
	cat := report.Catalog{TableStyles: opts.TableStyles}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html, "lang", "en")
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	title := element(atom.Title)
	title.AppendChild(text(opts.Title))
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(&html.Node{Type: html.RawNode, Data: sanitizeCSS(opts.CSS + "\n" + tableCSS(cat))})
	head.AppendChild(style)
	root.AppendChild(head)

	c := &composer{opts: opts, cat: cat, body: element(atom.Body), count: map[int]int{}}
	root.AppendChild(c.body)
	for _, b := range blocks {
		c.block(b)
	}

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompose, err)
	}
	return sb.String(), nil
}

func (c *composer) block(b document.Block) {
	if b.Kind != document.KindListItem {
		c.list = nil
	}

	switch b.Kind {
	case document.KindTitle:
		h := element(atom.H1, "class", "title")
		appendLines(h, b.Text)
		c.body.AppendChild(h)

	case document.KindHeading:
		tags := []atom.Atom{atom.H2, atom.H3, atom.H4}
		h := element(tags[min(max(b.Level, 1), 3)-1])
		appendLines(h, b.Text)
		c.body.AppendChild(h)

	case document.KindParagraph:
		p := element(atom.P, "class", indentClass(b.Indent))
		appendLines(p, b.Text)
		c.body.AppendChild(p)

	case document.KindListItem:
		c.listItem(b)

	case document.KindTable:
		c.table(b)

	case document.KindImage:
		c.images(b)
	}
}

func (c *composer) listItem(b document.Block) {
	key := listKey{ordered: b.Ordered, id: b.ListID, indent: b.Indent}
	if c.list == nil || c.key != key {
		if b.Ordered {
			c.list = element(atom.Ol, "class", indentClass(b.Indent))
			// A list interrupted by other blocks carries on where it stopped.
			if n := c.count[b.ListID]; n > 0 {
				c.list.Attr = append(c.list.Attr, html.Attribute{Key: "start", Val: strconv.Itoa(n + 1)})
			}
		} else {
			c.list = element(atom.Ul, "class", indentClass(b.Indent))
		}
		c.key = key
		c.body.AppendChild(c.list)
	}
	if b.Ordered {
		c.count[b.ListID]++
	}
	li := element(atom.Li)
	appendLines(li, b.Text)
	c.list.AppendChild(li)
}

func (c *composer) table(b document.Block) {
	rows := b.PaddedRows()
	if len(rows) == 0 {
		return
	}

	tbl := element(atom.Table, "class", "tbl-"+c.cat.Style(b.Style).ID())
	cols := element(atom.Colgroup)
	for _, f := range b.ColumnFractions() {
		cols.AppendChild(element(atom.Col, "style", fmt.Sprintf("width:%.2fin", f*document.PrintableWidth)))
	}
	tbl.AppendChild(cols)

	body := rows
	if b.Header {
		thead := element(atom.Thead)
		thead.AppendChild(row(atom.Th, rows[0]))
		tbl.AppendChild(thead)
		body = rows[1:]
	}
	tbody := element(atom.Tbody)
	for _, r := range body {
		tbody.AppendChild(row(atom.Td, r))
	}
	tbl.AppendChild(tbody)
	c.body.AppendChild(tbl)
}

func row(cell atom.Atom, cells []string) *html.Node {
	tr := element(atom.Tr)
	for _, v := range cells {
		td := element(cell)
		appendLines(td, v)
		tr.AppendChild(td)
	}
	return tr
}

func (c *composer) images(b document.Block) {
	for _, path := range b.Images {
		img, err := c.opts.ReadImage(path)
		if err != nil {
			if c.opts.OnSkip != nil {
				c.opts.OnSkip(path, err)
			}
			continue
		}
		w, h := img.Fit(document.MaxImageWidth, 0)

		fig := element(atom.Figure, "class", indentClass(b.Indent))
		fig.AppendChild(element(atom.Img,
			"src", DataURL(img),
			"style", fmt.Sprintf("width:%.3fin;height:%.3fin", w, h),
			"alt", b.Caption,
		))
		if b.Caption != "" {
			fc := element(atom.Figcaption)
			appendLines(fc, b.Caption)
			fig.AppendChild(fc)
		}
		c.body.AppendChild(fig)
	}
}

// DataURL returns img as a base64 data: URL.
func DataURL(img *imagecache.Image) string {
	return "data:" + img.MIME() + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func indentClass(n int) string {
	return "indent-" + strconv.Itoa(min(max(n, 0), 2))
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// appendLines adds s to n, turning newlines into <br>.
func appendLines(n *html.Node, s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for i, ln := range strings.Split(s, "\n") {
		if i > 0 {
			n.AppendChild(element(atom.Br))
		}
		if ln != "" {
			n.AppendChild(text(ln))
		}
	}
}

// sanitizeCSS escapes sequences that could close the <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
