// Package tableinfer turns pasted clipboard text into a grid of cells.
//
// Three strategies are tried in order: a sniffed delimiter (tab, comma or
// semicolon), a plain tab split, and finally a split on runs of two or more
// whitespace characters. Inference never fails: unrecognized input degrades
// to one cell per line. A blank line inside the text becomes a row holding
// a single empty cell.
package tableinfer

import (
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"
)

// Strategy identifies which rule produced a grid.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyDelimited
	StrategyTabs
	StrategyWhitespace
)

func (s Strategy) String() string {
	switch s {
	case StrategyDelimited:
		return "delimited"
	case StrategyTabs:
		return "tabs"
	case StrategyWhitespace:
		return "whitespace"
	default:
		return "none"
	}
}

// Result is a grid together with the rule that produced it.
type Result struct {
	Rows      [][]string
	Strategy  Strategy
	Delimiter rune // set for StrategyDelimited and StrategyTabs
}

// Candidates in preference order when more than one is consistent.
var candidates = []rune{'\t', ',', ';'}

var whitespaceRun = regexp.MustCompile(`\s{2,}`)

// Infer returns the rows of cells found in text. Rows may have different
// lengths. Empty input yields an empty grid.
func Infer(text string) [][]string {
	return Analyze(text).Rows
}

// Analyze is Infer that also reports the strategy and delimiter used.
func Analyze(text string) Result {
	lines := splitLines(text)
	if len(lines) == 0 {
		return Result{Rows: [][]string{}}
	}

	if res, ok := delimited(lines); ok {
		return res
	}

	if strings.Contains(text, "\t") {
		rows := make([][]string, 0, len(lines))
		for _, ln := range lines {
			rows = append(rows, trimAll(strings.Split(ln, "\t")))
		}
		return Result{Rows: rows, Strategy: StrategyTabs, Delimiter: '\t'}
	}

	rows := make([][]string, 0, len(lines))
	for _, ln := range lines {
		parts := whitespaceRun.Split(strings.TrimSpace(ln), -1)
		rows = append(rows, trimAll(parts))
	}
	return Result{Rows: rows, Strategy: StrategyWhitespace}
}

// Join renders a result back to text using the separator that produced it,
// so that Infer(Join(r)) reproduces r.Rows for well-formed grids.
func Join(r Result) string {
	switch r.Strategy {
	case StrategyDelimited:
		var sb strings.Builder
		w := csv.NewWriter(&sb)
		w.Comma = r.Delimiter
		for _, row := range r.Rows {
			_ = w.Write(row)
		}
		w.Flush()
		return strings.TrimRight(sb.String(), "\n")
	case StrategyTabs:
		return joinRows(r.Rows, "\t")
	default:
		return joinRows(r.Rows, "    ")
	}
}

func joinRows(rows [][]string, sep string) string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = strings.Join(row, sep)
	}
	return strings.Join(out, "\n")
}

// splitLines normalizes CRLF and strips surrounding newlines. Blank
// interior lines are kept.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Trim(text, "\r\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if strings.TrimSpace(ln) != "" {
			out = append(out, ln)
		}
	}
	return out
}

func delimited(lines []string) (res Result, ok bool) {
	defer func() {
		if recover() != nil {
			res, ok = Result{}, false
		}
	}()

	delim, found := sniff(nonBlank(lines))
	if !found {
		return Result{}, false
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	// The reader skips empty lines; next tracks the first line not yet
	// accounted for so that skipped ones come back as empty rows.
	rows := make([][]string, 0, len(lines))
	wide := false
	next := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, false
		}
		start, _ := r.FieldPos(0)
		for ; next < start; next++ {
			rows = append(rows, []string{""})
		}
		last := len(rec) - 1
		end, _ := r.FieldPos(last)
		next = end + strings.Count(rec[last], "\n") + 1

		row := trimAll(rec)
		if len(row) > 1 {
			wide = true
		}
		rows = append(rows, row)
	}
	if !wide {
		return Result{}, false
	}
	return Result{Rows: rows, Strategy: StrategyDelimited, Delimiter: delim}, true
}

// sniff picks the delimiter whose per-line count is the most consistent.
// The required share of lines agreeing on the modal count starts at 1.0 and
// relaxes to 0.9, mirroring the usual CSV dialect sniffers.
func sniff(lines []string) (rune, bool) {
	type stat struct {
		count int
		share float64
	}
	stats := make(map[rune]stat, len(candidates))
	for _, c := range candidates {
		freq := map[int]int{}
		for _, ln := range lines {
			freq[countUnquoted(ln, c)]++
		}
		best, bestN := 0, 0
		for count, n := range freq {
			if n > bestN || (n == bestN && count > best) {
				best, bestN = count, n
			}
		}
		stats[c] = stat{count: best, share: float64(bestN) / float64(len(lines))}
	}

	for threshold := 1.0; threshold >= 0.9-1e-9; threshold -= 0.01 {
		for _, c := range candidates {
			s := stats[c]
			if s.count > 0 && s.share >= threshold-1e-9 {
				return c, true
			}
		}
	}
	return 0, false
}

// countUnquoted counts occurrences of c outside double-quoted spans.
func countUnquoted(line string, c rune) int {
	n := 0
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == c && !quoted:
			n++
		}
	}
	return n
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
