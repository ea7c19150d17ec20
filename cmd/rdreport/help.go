package main

import (
	"fmt"
	"io"
	"strings"
)

// runHelpCmd prints general or per-command usage.
func runHelpCmd(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	usage := map[string]func(io.Writer){
		"generate": printGenerateUsage,
		"gen":      printGenerateUsage,
		"table":    printTableUsage,
		"symbols":  printSymbolsUsage,
		"config":   printConfigUsage,
		"doctor":   printDoctorUsage,
	}
	if printFn, ok := usage[args[0]]; ok {
		printFn(env.Stdout)
		return ExitSuccess
	}
	switch args[0] {
	case "version", "help":
		printUsage(env.Stdout)
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "%v: %q\n\n", ErrUnknownCommand, args[0])
	printUsage(env.Stderr)
	return ExitUsage
}

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rdreport <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Render report projects to DOCX and PDF")
	fmt.Fprintln(w, "  table      Infer a table from pasted text")
	fmt.Fprintln(w, "  symbols    Print the symbol palette and table styles")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check Chrome and the office converter")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'rdreport help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rdreport generate <project.rdrproj>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render each project to a Word document and a PDF named <title>_<date>.")
	fmt.Fprintln(w, "A format that fails does not stop the other; missing images are skipped.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to the project)")
	fmt.Fprintln(w, "  -f, --format <s>          docx, pdf or both (default: project setting)")
	fmt.Fprintln(w, "      --date-format <s>     Date in file names: YYYY-MM-DD, iso, long, ...")
	fmt.Fprintln(w, "      --html                Also write the print HTML")
	fmt.Fprintln(w, "      --dump-text           Also write the report text (<title>_<date>.txt)")
	fmt.Fprintln(w, "      --exclude <keys>      Sections to leave out, e.g. sec_reg,t_refs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Branding:")
	fmt.Fprintln(w, "      --header <path>       Header band image")
	fmt.Fprintln(w, "      --footer <path>       Footer band image")
	fmt.Fprintln(w, "      --author <s>          Author stamped into the PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Timeout per report (e.g. 30s, 2m)")
	fmt.Fprintln(w, "      --no-convert          Skip the office converter, print with Chrome")
	fmt.Fprintln(w, "      --office-bin <path>   Office converter binary (default soffice)")
	fmt.Fprintln(w, "      --asset-path <dir>    Override the embedded stylesheet and bands")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Include keys:")
	fmt.Fprintln(w, "  "+strings.Join(includeKeyNames(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chrome binary used for printing")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chrome sandbox (containers, CI)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  rdreport generate binder.rdrproj")
	fmt.Fprintln(w, "  rdreport generate -f pdf --no-convert -o out/ *.rdrproj")
	fmt.Fprintln(w, "  rdreport generate --exclude sec_commercial,t_misc binder.rdrproj")
}

// printTableUsage prints usage for the table command.
func printTableUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rdreport table [file] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Infer rows and columns from pasted text: a tab, comma or semicolon")
	fmt.Fprintln(w, "delimiter, then tabs, then runs of two or more spaces.")
	fmt.Fprintln(w, "Reads the file, or stdin when no file or \"-\" is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --clipboard   Read the text from the clipboard")
	fmt.Fprintln(w, "      --copy        Copy the grid back, tab-separated")
	fmt.Fprintln(w, "      --json        Print the grid as JSON")
	fmt.Fprintln(w, "  -v, --verbose     Report the strategy used")
}

// printSymbolsUsage prints usage for the symbols command.
func printSymbolsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rdreport symbols [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the insertable symbols, the table styles and the trial history layouts.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rdreport config [-c name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML. Config names are looked up")
	fmt.Fprintln(w, "in the current directory, then in ~/.config/go-rdreport/.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rdreport doctor [--json] [--office-bin path]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome and the office converter can be found and run.")
}
