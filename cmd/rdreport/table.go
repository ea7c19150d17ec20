package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-rdreport/internal/tableinfer"
)

// Sentinel errors for the table command.
var (
	ErrReadInput = errors.New("reading table text")
	ErrClipboard = errors.New("clipboard unavailable")
)

// maxTableInput bounds the text read by the table command.
const maxTableInput = 4 << 20

// tableFlags holds flags for the table command.
type tableFlags struct {
	clipboard bool
	json      bool
	copy      bool
	verbose   bool
}

// tableOutput is the JSON shape of an inferred grid.
type tableOutput struct {
	Strategy  string     `json:"strategy"`
	Delimiter string     `json:"delimiter,omitempty"`
	Columns   int        `json:"columns"`
	Rows      [][]string `json:"rows"`
}

// runTableCmd infers a grid from a file, stdin or the clipboard.
func runTableCmd(args []string, env *Environment) error {
	fs := flag.NewFlagSet("table", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &tableFlags{}
	fs.BoolVar(&f.clipboard, "clipboard", false, "read the text from the clipboard")
	fs.BoolVar(&f.json, "json", false, "print the grid as JSON")
	fs.BoolVar(&f.copy, "copy", false, "copy the grid back to the clipboard, tab-separated")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "report the strategy used")
	if err := parse(fs, args, env.Stderr, printTableUsage); err != nil {
		return err
	}
	if fs.NArg() > 1 || (f.clipboard && fs.NArg() > 0) {
		return fmt.Errorf("%w: table takes one file, or --clipboard", ErrUsage)
	}

	text, err := readTableText(fs.Args(), f.clipboard, env)
	if err != nil {
		return err
	}

	res := tableinfer.Analyze(text)
	if f.verbose {
		fmt.Fprintf(env.Stderr, "strategy: %s%s\n", res.Strategy, delimiterNote(res))
	}

	if f.copy {
		tabs := tableinfer.Join(tableinfer.Result{Rows: res.Rows, Strategy: tableinfer.StrategyTabs})
		if err := env.Clipboard.WriteAll(tabs); err != nil {
			return fmt.Errorf("%w: %v", ErrClipboard, err)
		}
	}

	if f.json {
		return writeTableJSON(env.Stdout, res)
	}
	return writeTableText(env.Stdout, res.Rows)
}

func readTableText(args []string, fromClipboard bool, env *Environment) (string, error) {
	if fromClipboard {
		text, err := env.Clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrClipboard, err)
		}
		return text, nil
	}

	r := env.Stdin
	if len(args) == 1 && args[0] != "-" {
		fh, err := os.Open(args[0]) // #nosec G304 -- user-provided input path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		defer func() { _ = fh.Close() }()
		r = fh
	}

	data, err := io.ReadAll(io.LimitReader(r, maxTableInput+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if len(data) > maxTableInput {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrReadInput, maxTableInput)
	}
	return string(data), nil
}

func writeTableJSON(w io.Writer, res tableinfer.Result) error {
	out := tableOutput{
		Strategy: res.Strategy.String(),
		Rows:     res.Rows,
	}
	if res.Delimiter != 0 {
		out.Delimiter = string(res.Delimiter)
	}
	for _, row := range res.Rows {
		out.Columns = max(out.Columns, len(row))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// writeTableText prints the grid in aligned columns.
func writeTableText(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "\t", " ")
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func delimiterNote(res tableinfer.Result) string {
	switch res.Delimiter {
	case 0:
		return ""
	case '\t':
		return " (tab)"
	default:
		return fmt.Sprintf(" (%q)", res.Delimiter)
	}
}
