package imagecache_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/alnah/go-rdreport/internal/imagecache"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestRead - Loading and normalizing images
// ---------------------------------------------------------------------------

func TestRead_PNG(t *testing.T) {
	t.Parallel()

	path := writePNG(t, t.TempDir(), "a.png", 192, 96)
	im, err := imagecache.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if im.Format != "png" || im.Width != 192 || im.Height != 96 {
		t.Errorf("got format %s %dx%d, want png 192x96", im.Format, im.Width, im.Height)
	}
	if im.Ext() != "png" || im.MIME() != "image/png" {
		t.Errorf("Ext/MIME = %s %s", im.Ext(), im.MIME())
	}
}

func TestRead_BMPConvertedToPNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "b.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, image.NewRGBA(image.Rect(0, 0, 10, 20))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	im, err := imagecache.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if im.Format != "png" {
		t.Errorf("Format = %s, want png", im.Format)
	}
	if _, err := png.Decode(bytes.NewReader(im.Data)); err != nil {
		t.Errorf("converted data is not PNG: %v", err)
	}
	if im.Width != 10 || im.Height != 20 {
		t.Errorf("size = %dx%d, want 10x20", im.Width, im.Height)
	}
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	garbage := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "missing.png"), imagecache.ErrImageUnreadable},
		{"directory", dir, imagecache.ErrImageUnreadable},
		{"not an image", garbage, imagecache.ErrImageFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := imagecache.Read(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Read() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestImage_Fit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		w, h       int
		maxW, maxH float64
		wantW      float64
		wantH      float64
	}{
		{"small image kept at natural size", 96, 48, 5.8, 0, 1, 0.5},
		{"wide image capped at max width", 960, 480, 5.8, 0, 5.8, 2.9},
		{"tall image capped at band height", 960, 480, 6.77, 0.5, 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			im := &imagecache.Image{Width: tt.w, Height: tt.h}
			w, h := im.Fit(tt.maxW, tt.maxH)
			if math.Abs(w-tt.wantW) > 1e-9 || math.Abs(h-tt.wantH) > 1e-9 {
				t.Errorf("Fit() = %.3f x %.3f, want %.3f x %.3f", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImage_Stretch(t *testing.T) {
	t.Parallel()

	im := &imagecache.Image{Width: 400, Height: 100}
	w, h := im.Stretch(6.77)
	if w != 6.77 || math.Abs(h-1.6925) > 1e-9 {
		t.Errorf("Stretch() = %v x %v", w, h)
	}
}

// ---------------------------------------------------------------------------
// TestCache - Private copies
// ---------------------------------------------------------------------------

func TestCache_Resolve(t *testing.T) {
	t.Parallel()

	src := writePNG(t, t.TempDir(), "micrograph.png", 4, 4)
	cache, err := imagecache.New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cache.Close()

	got, err := cache.Resolve(src)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if filepath.Dir(got) != cache.Dir() {
		t.Errorf("copy %s not inside cache dir %s", got, cache.Dir())
	}
	if !regexp.MustCompile(`^micrograph_[0-9a-f]{8}\.png$`).MatchString(filepath.Base(got)) {
		t.Errorf("copy name %q does not match <stem>_<8 hex>.png", filepath.Base(got))
	}

	again, err := cache.Resolve(src)
	if err != nil || again != got {
		t.Errorf("second Resolve() = %q, %v; want shared copy %q", again, err, got)
	}

	// The copy survives changes to the original.
	if err := os.Remove(src); err != nil {
		t.Fatal(err)
	}
	if _, err := imagecache.Read(got); err != nil {
		t.Errorf("copy unreadable after original removed: %v", err)
	}
}

func TestCache_ResolveUnreadable(t *testing.T) {
	t.Parallel()

	cache, err := imagecache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	if _, err := cache.Resolve(filepath.Join(t.TempDir(), "gone.png")); !errors.Is(err, imagecache.ErrImageUnreadable) {
		t.Errorf("missing file error = %v, want ErrImageUnreadable", err)
	}
	if _, err := cache.Resolve(t.TempDir()); !errors.Is(err, imagecache.ErrImageUnreadable) {
		t.Errorf("directory error = %v, want ErrImageUnreadable", err)
	}
}

func TestCache_CloseRemovesCopies(t *testing.T) {
	t.Parallel()

	src := writePNG(t, t.TempDir(), "a.png", 2, 2)
	cache, err := imagecache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Resolve(src); err != nil {
		t.Fatal(err)
	}

	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(cache.Dir()); !os.IsNotExist(err) {
		t.Errorf("cache dir still exists: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := cache.Resolve(src); !errors.Is(err, imagecache.ErrCacheClosed) {
		t.Errorf("Resolve after Close error = %v, want ErrCacheClosed", err)
	}
}
