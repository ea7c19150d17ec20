package pdfdoc

import (
	"html/template"

	"github.com/alnah/go-rdreport/internal/assets"
	"github.com/alnah/go-rdreport/internal/document"
	"github.com/alnah/go-rdreport/internal/imagecache"
)

// BandOptions selects the images printed in the page bands.
type BandOptions struct {
	HeaderImage string
	FooterImage string

	// ReadImage loads images; nil means imagecache.Read.
	ReadImage func(path string) (*imagecache.Image, error)

	// OnSkip is called for every band image left out.
	OnSkip func(path string, err error)
}

// Bands renders the header and footer templates of ts. Images are
// embedded at document.BandHeight; an unreadable image leaves its band
// blank. The footer template carries the page number.
func Bands(ts *assets.TemplateSet, opts BandOptions) (header, footer string, err error) {
	if opts.ReadImage == nil {
		opts.ReadImage = imagecache.Read
	}

	header, err = ts.RenderHeader(bandData(opts.HeaderImage, opts))
	if err != nil {
		return "", "", err
	}
	footer, err = ts.RenderFooter(bandData(opts.FooterImage, opts))
	if err != nil {
		return "", "", err
	}
	return header, footer, nil
}

func bandData(path string, opts BandOptions) assets.BandData {
	data := assets.BandData{Height: document.BandHeight}
	if path == "" {
		return data
	}
	img, err := opts.ReadImage(path)
	if err != nil {
		if opts.OnSkip != nil {
			opts.OnSkip(path, err)
		}
		return data
	}
	data.Image = template.URL(DataURL(img)) // #nosec G203 -- data URL built from decoded image bytes
	return data
}
