package rdreport

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-rdreport/internal/dateutil"
	"github.com/alnah/go-rdreport/internal/fileutil"
)

// OutputPaths names the files WriteOutputs writes. Empty paths are skipped.
type OutputPaths struct {
	DOCX string
	PDF  string
	HTML string
}

// OutputBase returns the file name stem of a report:
// "<title>_<date>" with path separators in the title replaced.
func OutputBase(title string, t time.Time, dateFormat string) (string, error) {
	date, err := dateutil.Format(t, dateFormat)
	if err != nil {
		return "", err
	}
	return fileutil.SafeBaseName(title) + "_" + fileutil.SafeBaseName(date), nil
}

// PathsFor returns the output paths of res under dir with stem base.
// Only the outputs res holds get a path.
func PathsFor(res *Result, dir, base string) OutputPaths {
	var p OutputPaths
	if res.DOCX != nil {
		p.DOCX = filepath.Join(dir, base+".docx")
	}
	if res.PDF != nil {
		p.PDF = filepath.Join(dir, base+".pdf")
	}
	if res.HTML != "" {
		p.HTML = filepath.Join(dir, base+".html")
	}
	return p
}

// WriteOutputs writes each output of res to its path and returns the
// paths written. Every file is written to a temp file in the destination
// directory and renamed, so a failed write leaves no partial file behind.
// Files written before a failure are kept and listed in the returned
// paths. Missing directories are created.
func WriteOutputs(res *Result, paths OutputPaths) (OutputPaths, error) {
	var written OutputPaths
	files := []struct {
		path string
		data []byte
		done *string
	}{
		{paths.DOCX, res.DOCX, &written.DOCX},
		{paths.PDF, res.PDF, &written.PDF},
		{paths.HTML, []byte(res.HTML), &written.HTML},
	}
	for _, f := range files {
		if f.path == "" || len(f.data) == 0 {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
			return written, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		if err := fileutil.WriteFileAtomic(f.path, f.data, 0o644); err != nil {
			return written, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		*f.done = f.path
	}
	return written, nil
}
