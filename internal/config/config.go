package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-rdreport/internal/dateutil"
	"github.com/alnah/go-rdreport/internal/yamlutil"
	"github.com/alnah/go-rdreport/report"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength       = 4096
	MaxAuthorLength     = 100
	MaxDateFormatLength = dateutil.MaxDateFormatLength
	MaxBinLength        = 1024
)

// Export formats.
const (
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
	FormatBoth = "both"
)

// MaxWorkers caps parallel report generation.
const MaxWorkers = 32

// Config holds the defaults of the rdreport CLI. Command-line flags
// override every field.
type Config struct {
	Branding BrandingConfig  `yaml:"branding"`
	Export   ExportConfig    `yaml:"export"`
	PDF      PDFConfig       `yaml:"pdf"`
	Assets   AssetsConfig    `yaml:"assets"`
	Include  map[string]bool `yaml:"include"` // include key → enabled
}

// BrandingConfig sets the page band images and the document author.
type BrandingConfig struct {
	HeaderPath string `yaml:"headerPath"`
	FooterPath string `yaml:"footerPath"`
	Author     string `yaml:"author"`
}

// ExportConfig controls output files.
type ExportConfig struct {
	OutDir     string `yaml:"outDir"`     // empty = next to the project file
	Format     string `yaml:"format"`     // docx, pdf or both
	DateFormat string `yaml:"dateFormat"` // filename date, e.g. YYYY-MM-DD
	HTML       bool   `yaml:"html"`       // also write the composed print HTML
}

// PDFConfig controls the fixed-layout output.
type PDFConfig struct {
	Timeout   string `yaml:"timeout"`   // Go duration, e.g. "90s"
	Convert   *bool  `yaml:"convert"`   // try the office converter first (default true)
	OfficeBin string `yaml:"officeBin"` // soffice binary
	Workers   int    `yaml:"workers"`   // 0 = automatic
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{
			Format:     FormatBoth,
			DateFormat: dateutil.DefaultDateFormat,
		},
	}
}

// ConvertEnabled reports whether the office conversion path is on.
func (c *Config) ConvertEnabled() bool {
	return c.PDF.Convert == nil || *c.PDF.Convert
}

// TimeoutDuration returns the parsed PDF timeout, or zero when unset.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.PDF.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// IncludeSet returns the include section as a report.Include merged over
// the defaults. Validate has already rejected unknown keys.
func (c *Config) IncludeSet() report.Include {
	inc := report.DefaultInclude()
	for k, v := range c.Include {
		if key, err := report.ParseKey(k); err == nil {
			inc[key] = v
		}
	}
	return inc
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"branding.headerPath", c.Branding.HeaderPath, MaxPathLength},
		{"branding.footerPath", c.Branding.FooterPath, MaxPathLength},
		{"branding.author", c.Branding.Author, MaxAuthorLength},
		{"export.outDir", c.Export.OutDir, MaxPathLength},
		{"export.dateFormat", c.Export.DateFormat, MaxDateFormatLength},
		{"pdf.officeBin", c.PDF.OfficeBin, MaxBinLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Export.Format) {
	case "", FormatDOCX, FormatPDF, FormatBoth:
	default:
		return fmt.Errorf("%w: export.format %q (must be docx, pdf, or both)", ErrInvalidValue, c.Export.Format)
	}

	if c.Export.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(c.Export.DateFormat); err != nil {
			return fmt.Errorf("export.dateFormat: %w", err)
		}
	}

	if c.PDF.Timeout != "" {
		d, err := time.ParseDuration(c.PDF.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: pdf.timeout %q (must be a positive duration)", ErrInvalidValue, c.PDF.Timeout)
		}
	}
	if c.PDF.Workers < 0 || c.PDF.Workers > MaxWorkers {
		return fmt.Errorf("%w: pdf.workers %d (must be between 0 and %d)", ErrInvalidValue, c.PDF.Workers, MaxWorkers)
	}

	for k := range c.Include {
		if _, err := report.ParseKey(k); err != nil {
			return fmt.Errorf("%w: include: %v", ErrInvalidValue, err)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched in the current directory and then in
// ~/.config/go-rdreport/. Missing fields keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	// Relative paths in a config file are relative to the file.
	dir := filepath.Dir(configPath)
	for _, p := range []*string{&cfg.Branding.HeaderPath, &cfg.Branding.FooterPath, &cfg.Export.OutDir, &cfg.Assets.BasePath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-rdreport/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		local := name + ext
		if fileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-rdreport", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
