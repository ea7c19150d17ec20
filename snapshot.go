package rdreport

import (
	"log/slog"
	"sync"

	"github.com/alnah/go-rdreport/report"
)

// snapshot holds the private copies of a report's images for the
// duration of one Generate and records every image left out. Renderers
// report copies; skip maps them back to the caller's path.
type snapshot struct {
	resolver ImageResolver
	header   string
	footer   string
	logger   *slog.Logger

	mu       sync.Mutex
	original map[string]string // copy → reference
	seen     map[string]bool
	skips    []SkippedImage
}

// snapshot copies every image m and in reference and rewrites m to point
// at the copies. Unreadable images are dropped from m and recorded.
func (g *Generator) snapshot(m *report.Model, in Input) (*snapshot, error) {
	resolver, err := g.cfg.newResolver()
	if err != nil {
		return nil, err
	}
	s := &snapshot{
		resolver: resolver,
		logger:   g.logger,
		original: map[string]string{},
		seen:     map[string]bool{},
	}

	s.header = s.resolve(in.HeaderImage)
	s.footer = s.resolve(in.FooterImage)
	for i := range m.Results {
		img := m.Results[i].Image
		if m.Results[i].Kind != report.KindImage || img == nil {
			continue
		}
		kept := img.Images[:0]
		for _, ref := range img.Images {
			if p := s.resolve(ref); p != "" {
				kept = append(kept, p)
			}
		}
		img.Images = kept
	}
	return s, nil
}

func (s *snapshot) resolve(ref string) string {
	if ref == "" {
		return ""
	}
	p, err := s.resolver.Resolve(ref)
	if err != nil {
		s.skip(ref, err)
		return ""
	}
	s.mu.Lock()
	s.original[p] = ref
	s.mu.Unlock()
	return p
}

// skip records path once, under the caller's name for it.
func (s *snapshot) skip(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref, ok := s.original[path]; ok {
		path = ref
	}
	if s.seen[path] {
		return
	}
	s.seen[path] = true
	sk := SkippedImage{Path: path}
	if err != nil {
		sk.Reason = err.Error()
	}
	s.skips = append(s.skips, sk)
	s.logger.Warn("image skipped", "path", path, "err", err)
}

func (s *snapshot) skipped() []SkippedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SkippedImage(nil), s.skips...)
}

func (s *snapshot) close() {
	if err := s.resolver.Close(); err != nil {
		s.logger.Warn("image cache not removed", "err", err)
	}
}
