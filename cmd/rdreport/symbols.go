package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-rdreport/report"
)

// runSymbolsCmd prints the symbol palette, the table styles and the
// trial history layouts offered to report authors.
func runSymbolsCmd(args []string, env *Environment) error {
	fs := flag.NewFlagSet("symbols", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "print the catalog as JSON")
	if err := parse(fs, args, env.Stderr, printSymbolsUsage); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: symbols takes no arguments", ErrUsage)
	}

	cat := report.DefaultCatalog()
	if *asJSON {
		type symbol struct {
			Glyph       string `json:"glyph"`
			Description string `json:"description"`
		}
		type layout struct {
			Name    string    `json:"name"`
			Weights []float64 `json:"weights"`
		}
		out := struct {
			Symbols      []symbol `json:"symbols"`
			TableStyles  []string `json:"table_styles"`
			TrialLayouts []layout `json:"trial_layouts"`
		}{TableStyles: cat.StyleNames()}
		for _, s := range cat.Symbols {
			out.Symbols = append(out.Symbols, symbol{s.Glyph, s.Description})
		}
		for _, name := range report.TrialLayoutNames() {
			out.TrialLayouts = append(out.TrialLayouts, layout{name, cat.TrialWeights(name)})
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Symbols")
	for _, s := range cat.Symbols {
		fmt.Fprintf(tw, "  %s\t%s\n", s.Glyph, s.Description)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Table styles")
	for _, name := range cat.StyleNames() {
		fmt.Fprintf(tw, "  %s\n", name)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Trial history layouts")
	for _, name := range report.TrialLayoutNames() {
		fmt.Fprintf(tw, "  %s\t%v\n", name, cat.TrialWeights(name))
	}
	return tw.Flush()
}
