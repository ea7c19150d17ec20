package pdfdoc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alnah/go-rdreport/report"
)

// tableCSS returns one rule set per catalog table style, plus the grid
// that unknown names fall back to.
func tableCSS(cat report.Catalog) string {
	styles := cat.TableStyles
	if !slices.Contains(cat.StyleNames(), report.DefaultTableStyle) {
		styles = append(slices.Clone(styles), cat.Style(report.DefaultTableStyle))
	}

	var b strings.Builder
	for _, s := range styles {
		sel := "table.tbl-" + s.ID()
		border := colour(s.Border, "#000")
		if s.InnerLines {
			fmt.Fprintf(&b, "%s th, %s td { border: 0.5pt solid %s; }\n", sel, sel, border)
		} else {
			fmt.Fprintf(&b, "%s { border: 0.5pt solid %s; }\n", sel, border)
		}

		var head []string
		if s.HeaderFill != "" {
			head = append(head, "background: "+colour(s.HeaderFill, "transparent"))
		}
		if s.HeaderText != "" {
			head = append(head, "color: "+colour(s.HeaderText, "inherit"))
		}
		if len(head) > 0 {
			fmt.Fprintf(&b, "%s th { %s; }\n", sel, strings.Join(head, "; "))
		}
		if s.BandFill != "" {
			fmt.Fprintf(&b, "%s tbody tr:nth-child(odd) td { background: %s; }\n", sel, colour(s.BandFill, "transparent"))
		}
	}
	return b.String()
}

// colour turns a six-digit hex value into a CSS colour, or returns def
// when the value is not one.
func colour(hex, def string) string {
	if len(hex) != 6 {
		return def
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return def
		}
	}
	return "#" + strings.ToLower(hex)
}
