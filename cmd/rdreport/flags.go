package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for command-line parsing.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrNoInput = errors.New("no project file specified")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// brandingFlags holds page band and author flags.
type brandingFlags struct {
	header string
	footer string
	author string
}

// exportFlags holds output selection flags.
type exportFlags struct {
	output     string
	format     string
	dateFormat string
	html       bool
	dumpText   bool
	exclude    []string
}

// rendererFlags holds PDF engine flags.
type rendererFlags struct {
	workers   int
	timeout   string
	noConvert bool
	officeBin string
	assetPath string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common   commonFlags
	branding brandingFlags
	export   exportFlags
	renderer rendererFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

func addBrandingFlags(fs *flag.FlagSet, f *brandingFlags) {
	fs.StringVar(&f.header, "header", "", "header band image")
	fs.StringVar(&f.footer, "footer", "", "footer band image")
	fs.StringVar(&f.author, "author", "", "author stamped into the PDF")
}

func addExportFlags(fs *flag.FlagSet, f *exportFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: docx, pdf, both")
	fs.StringVar(&f.dateFormat, "date-format", "", "date in file names (e.g. YYYY-MM-DD, iso, long)")
	fs.BoolVar(&f.html, "html", false, "also write the print HTML")
	fs.BoolVar(&f.dumpText, "dump-text", false, "also write the report text, one block per line")
	fs.StringSliceVar(&f.exclude, "exclude", nil, "include keys to leave out (comma-separated)")
}

func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF timeout per report (e.g. 30s, 2m)")
	fs.BoolVar(&f.noConvert, "no-convert", false, "skip the office converter, print with Chrome")
	fs.StringVar(&f.officeBin, "office-bin", "", "office converter binary (default soffice)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding the embedded stylesheet and bands")
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string, usage io.Writer) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &generateFlags{}

	addCommonFlags(fs, &f.common)
	addBrandingFlags(fs, &f.branding)
	addExportFlags(fs, &f.export)
	addRendererFlags(fs, &f.renderer)

	if err := parse(fs, args, usage, printGenerateUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parse runs fs.Parse. On -h it prints the command usage and returns
// flag.ErrHelp; other parse errors wrap ErrUsage.
func parse(fs *flag.FlagSet, args []string, usage io.Writer, printUsage func(io.Writer)) error {
	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		printUsage(usage)
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}
