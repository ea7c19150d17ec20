package pdfdoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractText returns the visible body text of a composed document, one
// block element per line. Image captions are included; the head is not.
func ExtractText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	walk(&sb, root)
	return sb.String(), nil
}

func walk(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Head, atom.Script, atom.Style:
			return
		case atom.Br:
			sb.WriteByte('\n')
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(sb, c)
	}

	if n.Type == html.ElementNode && lineBreaking(n.DataAtom) {
		sb.WriteByte('\n')
	}
}

func lineBreaking(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.P, atom.Li,
		atom.Th, atom.Td, atom.Figcaption:
		return true
	}
	return false
}
