// Package project reads and writes report project files.
//
// A project file is JSON with four top-level sections: report_model,
// branding, export and include. Files written by older releases are
// brought up to date by an ordered list of migrations before decoding.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alnah/go-rdreport/internal/fileutil"
	"github.com/alnah/go-rdreport/report"
)

// Extension is the conventional project file suffix.
const Extension = ".rdrproj"

// MaxFileSize bounds project files read from disk.
const MaxFileSize = 32 << 20

var (
	ErrInvalidProject = errors.New("invalid project file")
	ErrProjectTooNew  = errors.New("project file written by a newer version")
	ErrReadProject    = errors.New("reading project")
	ErrWriteProject   = errors.New("writing project")
)

// File is a decoded project.
type File struct {
	Version  int            `json:"version"`
	Report   report.Model   `json:"report_model"`
	Branding Branding       `json:"branding"`
	Export   Export         `json:"export"`
	Include  report.Include `json:"include"`
}

// Branding points at the images repeated on every page.
type Branding struct {
	HeaderPath string `json:"header_path"`
	FooterPath string `json:"footer_path"`
	LogoPath   string `json:"logo_path"`
}

// Export holds the last used output settings.
type Export struct {
	OutDir string `json:"out_dir"`
	Format string `json:"format"`
}

// New returns an empty project at the current version.
func New() File {
	return File{
		Version: CurrentVersion,
		Report:  report.New(),
		Export:  Export{Format: "both"},
		Include: report.DefaultInclude(),
	}
}

// Decode reads a project from r, migrating older layouts. Missing sections
// take their defaults.
func Decode(r io.Reader) (File, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrReadProject, err)
	}
	if len(data) > MaxFileSize {
		return File{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidProject, MaxFileSize)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := Migrate(doc); err != nil {
		return File{}, err
	}

	f := New()
	rm, _ := doc["report_model"].(map[string]any)
	f.Report, err = report.FromMap(rm)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if err := decodeSection(doc, "branding", &f.Branding); err != nil {
		return File{}, err
	}
	if err := decodeSection(doc, "export", &f.Export); err != nil {
		return File{}, err
	}
	var inc map[string]bool
	if err := decodeSection(doc, "include", &inc); err != nil {
		return File{}, err
	}
	for name, on := range inc {
		k, err := report.ParseKey(name)
		if err != nil {
			continue
		}
		f.Include[k] = on
	}
	f.Version = CurrentVersion
	return f, nil
}

func decodeSection(doc map[string]any, key string, dst any) error {
	v, ok := doc[key]
	if !ok || v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProject, key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProject, key, err)
	}
	return nil
}

// Encode writes f as indented JSON.
func Encode(w io.Writer, f File) error {
	f.Version = CurrentVersion
	rm, err := f.Report.ToMap()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteProject, err)
	}
	inc := report.DefaultInclude()
	for k, v := range f.Include {
		inc[k] = v
	}
	out := struct {
		Version  int            `json:"version"`
		Report   map[string]any `json:"report_model"`
		Branding Branding       `json:"branding"`
		Export   Export         `json:"export"`
		Include  report.Include `json:"include"`
	}{f.Version, rm, f.Branding, f.Export, inc}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteProject, err)
	}
	return nil
}

// Load reads the project at path. Relative image and branding paths are
// resolved against the project's directory.
func Load(path string) (File, error) {
	fh, err := os.Open(path) // #nosec G304 -- user-provided project path
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrReadProject, err)
	}
	defer func() { _ = fh.Close() }()

	f, err := Decode(fh)
	if err != nil {
		return File{}, err
	}
	f.ResolvePaths(filepath.Dir(path))
	return f, nil
}

// Save writes f to path atomically.
func Save(path string, f File) error {
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteProject, err)
	}
	return nil
}

// ResolvePaths makes relative image references absolute against dir.
func (f *File) ResolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	f.Branding.HeaderPath = abs(f.Branding.HeaderPath)
	f.Branding.FooterPath = abs(f.Branding.FooterPath)
	f.Branding.LogoPath = abs(f.Branding.LogoPath)
	for i := range f.Report.Results {
		if im := f.Report.Results[i].Image; im != nil {
			for j, p := range im.Images {
				im.Images[j] = abs(p)
			}
		}
	}
}
