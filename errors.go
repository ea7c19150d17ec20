package rdreport

import "errors"

// Sentinel errors for library operations.
var (
	ErrMissingTitle  = errors.New("project title is required")
	ErrInvalidInput  = errors.New("invalid report input")
	ErrInvalidFormat = errors.New("invalid output format")
	ErrFormatFailed  = errors.New("output format failed")
	ErrWriteOutput   = errors.New("writing output failed")

	// Fixed-layout print engine.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Office conversion path.
	ErrConverterMissing = errors.New("office converter not found")
	ErrConversion       = errors.New("office conversion failed")
	ErrInvalidPDF       = errors.New("PDF failed validation")

	// Asset loading.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
