package rdreport

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disablePDFConfig sync.Once

// pdfConfig returns a relaxed pdfcpu configuration. pdfcpu would
// otherwise create a config directory under the user's home.
func pdfConfig() *model.Configuration {
	disablePDFConfig.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// inspectPDF validates data and returns its page count.
func inspectPDF(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPDF)
	}
	conf := pdfConfig()
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: no pages", ErrInvalidPDF)
	}
	return n, nil
}

// stampProperties sets the document title and author in the PDF info
// dictionary. Empty values are left out.
func stampProperties(data []byte, title, author string) ([]byte, error) {
	props := map[string]string{}
	if title != "" {
		props["Title"] = title
	}
	if author != "" {
		props["Author"] = author
	}
	if len(props) == 0 {
		return data, nil
	}

	var out bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(data), &out, props, pdfConfig()); err != nil {
		return nil, fmt.Errorf("setting PDF properties: %w", err)
	}
	return out.Bytes(), nil
}
