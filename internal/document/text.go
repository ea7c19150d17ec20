package document

import "strings"

// Outline returns the visible text of blocks in reading order, one entry
// per heading, paragraph line, list item and table cell. Images and their
// captions depend on which files are readable and are left out. Two
// renderings of the same sequence must expose the same outline.
func Outline(blocks []Block) []string {
	var out []string
	for _, b := range blocks {
		switch b.Kind {
		case KindTitle, KindHeading, KindParagraph, KindListItem:
			for _, ln := range strings.Split(b.Text, "\n") {
				if ln = strings.TrimSpace(ln); ln != "" {
					out = append(out, ln)
				}
			}
		case KindTable:
			for _, row := range b.PaddedRows() {
				for _, cell := range row {
					if cell = strings.TrimSpace(cell); cell != "" {
						out = append(out, cell)
					}
				}
			}
		}
	}
	return out
}
