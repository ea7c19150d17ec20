package main

import (
	"errors"
	"os"
	"path/filepath"

	rdreport "github.com/alnah/go-rdreport"
	"github.com/alnah/go-rdreport/internal/config"
	"github.com/alnah/go-rdreport/internal/dateutil"
	"github.com/alnah/go-rdreport/internal/hints"
	"github.com/alnah/go-rdreport/project"
	"github.com/alnah/go-rdreport/report"
)

// Exit codes for the rdreport CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Every report generated
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, project content or validation
	ExitIO       = 3 // Unreadable project, unwritable output
	ExitRenderer = 4 // Browser or office converter errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, report.ErrUnknownIncludeKey) ||
		errors.Is(err, project.ErrInvalidProject) ||
		errors.Is(err, project.ErrProjectTooNew) ||
		errors.Is(err, rdreport.ErrMissingTitle) ||
		errors.Is(err, rdreport.ErrInvalidInput) ||
		errors.Is(err, rdreport.ErrInvalidFormat) ||
		errors.Is(err, rdreport.ErrInvalidAssetPath) {
		return ExitUsage
	}

	// Renderer errors (exit 4)
	if errors.Is(err, rdreport.ErrBrowserConnect) ||
		errors.Is(err, rdreport.ErrPageCreate) ||
		errors.Is(err, rdreport.ErrPageLoad) ||
		errors.Is(err, rdreport.ErrPDFGeneration) ||
		errors.Is(err, rdreport.ErrConverterMissing) ||
		errors.Is(err, rdreport.ErrConversion) {
		return ExitRenderer
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, project.ErrReadProject) ||
		errors.Is(err, rdreport.ErrWriteOutput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrClipboard) {
		return ExitIO
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, rdreport.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, rdreport.ErrConverterMissing):
		return hints.ForOfficeConverter("")
	case errors.Is(err, rdreport.ErrPageLoad), errors.Is(err, rdreport.ErrPDFGeneration):
		return hints.ForTimeout()
	case errors.Is(err, rdreport.ErrMissingTitle):
		return hints.ForMissingTitle()
	case errors.Is(err, rdreport.ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, report.ErrUnknownIncludeKey):
		return hints.ForIncludeKey(includeKeyNames())
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths())
	}
	return ""
}

func includeKeyNames() []string {
	keys := report.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return names
}

// configSearchPaths lists where a config name is looked up, for hints.
func configSearchPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-rdreport", "config.yaml")}
}
