package assets

import (
	"bytes"
	"fmt"
	"html/template"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the embedded loader.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplateSet loads a band template set by name using the embedded
// loader.
func LoadTemplateSet(name string) (*TemplateSet, error) {
	return defaultLoader.LoadTemplateSet(name)
}

// RenderHeader executes the header template with data.
func (ts *TemplateSet) RenderHeader(data BandData) (string, error) {
	return execute(ts.Name+"/header", ts.Header, data)
}

// RenderFooter executes the footer template with data.
func (ts *TemplateSet) RenderFooter(data BandData) (string, error) {
	return execute(ts.Name+"/footer", ts.Footer, data)
}

func execute(name, src string, data BandData) (string, error) {
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateExecute, name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateExecute, name, err)
	}
	return buf.String(), nil
}
