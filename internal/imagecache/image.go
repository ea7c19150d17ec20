// Package imagecache loads report images for embedding and keeps private
// copies of the images a report references.
package imagecache

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	_ "image/jpeg" // register decoder
	"image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// MaxImageSize bounds the size of a single image file.
const MaxImageSize = 50 << 20

var (
	ErrImageUnreadable = errors.New("image unreadable")
	ErrImageFormat     = errors.New("unsupported image format")
	ErrImageTooLarge   = errors.New("image too large")
)

// Image is an image ready to embed. Data is PNG, JPEG or GIF; other
// decodable formats are re-encoded as PNG.
type Image struct {
	Path   string
	Data   []byte
	Format string // "png", "jpeg" or "gif"
	Width  int    // pixels
	Height int    // pixels
}

// Ext returns the file extension matching Format, without the dot.
func (im *Image) Ext() string {
	if im.Format == "jpeg" {
		return "jpg"
	}
	return im.Format
}

// MIME returns the media type of Data.
func (im *Image) MIME() string {
	return "image/" + im.Format
}

// Read loads the image at path. Formats other than PNG, JPEG and GIF are
// decoded and converted to PNG so every renderer can embed them.
func Read(path string) (*Image, error) {
	f, err := os.Open(path) // #nosec G304 -- paths come from the report being rendered
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrImageTooLarge, path, MaxImageSize)
	}
	return Decode(path, data)
}

// Decode is Read for bytes already in memory.
func Decode(path string, data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageFormat, path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrImageFormat, path)
	}

	switch format {
	case "png", "jpeg", "gif":
		return &Image{Path: path, Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageFormat, path, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageFormat, path, err)
	}
	b := img.Bounds()
	return &Image{Path: path, Data: buf.Bytes(), Format: "png", Width: b.Dx(), Height: b.Dy()}, nil
}

// Fit returns the display size in inches, capped at maxW by maxH with the
// aspect ratio kept. Pixels count 96 per inch and are never upscaled. A
// zero bound is ignored.
func (im *Image) Fit(maxW, maxH float64) (w, h float64) {
	w = float64(im.Width) / 96
	h = float64(im.Height) / 96
	if maxW > 0 && w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if maxH > 0 && h > maxH {
		w = w * maxH / h
		h = maxH
	}
	return w, h
}

// Stretch returns the size at exactly width w with the aspect ratio kept.
func (im *Image) Stretch(w float64) (float64, float64) {
	return w, w * float64(im.Height) / float64(im.Width)
}
