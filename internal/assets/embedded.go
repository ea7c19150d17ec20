package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// EmbeddedLoader loads assets from the embedded filesystem.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadTemplateSet loads an embedded band template set.
func (e *EmbeddedLoader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := "templates/" + name
	header, headerErr := templates.ReadFile(dir + "/header.html")
	footer, footerErr := templates.ReadFile(dir + "/footer.html")

	if errors.Is(headerErr, fs.ErrNotExist) && errors.Is(footerErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if headerErr != nil {
		return nil, fmt.Errorf("%w: %q missing header.html", ErrIncompleteTemplateSet, name)
	}
	if footerErr != nil {
		return nil, fmt.Errorf("%w: %q missing footer.html", ErrIncompleteTemplateSet, name)
	}

	return &TemplateSet{Name: name, Header: string(header), Footer: string(footer)}, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
