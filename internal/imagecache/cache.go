package imagecache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// CacheDirPrefix names the per-run cache directories.
const CacheDirPrefix = "rdr_imgcache-"

var ErrCacheClosed = errors.New("image cache closed")

// Cache copies referenced images into a private directory so that a
// report renders from a stable snapshot even if the originals change or
// disappear mid-run. Copies are named <stem>_<8 hex chars><ext>. Close
// removes the directory.
type Cache struct {
	mu     sync.Mutex
	dir    string
	copies map[string]string
	closed bool
	newID  func() string
}

// New creates a cache directory under base, or under the system temp
// directory when base is empty.
func New(base string) (*Cache, error) {
	dir, err := os.MkdirTemp(base, CacheDirPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("creating image cache: %w", err)
	}
	return &Cache{
		dir:    dir,
		copies: make(map[string]string),
		newID:  func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
	}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Resolve returns a private copy of the file at ref. Repeated references
// share one copy. Unreadable or non-regular files return
// ErrImageUnreadable.
func (c *Cache) Resolve(ref string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrCacheClosed
	}
	if p, ok := c.copies[ref]; ok {
		return p, nil
	}

	src, err := os.Open(ref) // #nosec G304 -- paths come from the report being rendered
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrImageUnreadable, ref)
	}
	if info.Size() > MaxImageSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrImageTooLarge, ref, MaxImageSize)
	}

	base := filepath.Base(ref)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	dst := filepath.Join(c.dir, fmt.Sprintf("%s_%s%s", stem, c.newID(), ext))

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) // #nosec G304 -- inside our cache dir
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("%w: copying %s: %v", ErrImageUnreadable, ref, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("%w: copying %s: %v", ErrImageUnreadable, ref, err)
	}

	c.copies[ref] = dst
	return dst, nil
}

// Close removes the cache directory and every copy in it. It is safe to
// call more than once.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return os.RemoveAll(c.dir)
}
