package rdreport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-rdreport/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. The child runs in
// its own process group, killed as a whole when ctx ends.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary chosen by the operator
	process.SetGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return stdout.String(), stderr.String(), err
}

// officeConverter turns a .docx package into a PDF. Tests substitute a fake.
type officeConverter interface {
	ToPDF(ctx context.Context, docx []byte) ([]byte, error)
}

// sofficeConverter converts with LibreOffice in headless mode. Each call
// gets a private profile directory so conversions can run side by side.
type sofficeConverter struct {
	bin      string
	runner   CommandRunner
	lookPath func(string) (string, error)
}

var _ officeConverter = (*sofficeConverter)(nil)

func newSofficeConverter(bin string) *sofficeConverter {
	return &sofficeConverter{bin: bin, runner: ExecRunner{}, lookPath: exec.LookPath}
}

func (c *sofficeConverter) ToPDF(ctx context.Context, docx []byte) ([]byte, error) {
	bin, err := c.lookPath(c.bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConverterMissing, c.bin)
	}

	work, err := os.MkdirTemp("", "rdreport-office-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}
	defer func() { _ = os.RemoveAll(work) }()

	src := filepath.Join(work, "report.docx")
	if err := os.WriteFile(src, docx, 0o600); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}
	outDir := filepath.Join(work, "out")
	profile := (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(work, "profile"))}).String()

	_, stderr, err := c.runner.Run(ctx, bin,
		"-env:UserInstallation="+profile,
		"--headless", "--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		src,
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v: %s", ErrConversion, err, strings.TrimSpace(stderr))
	}

	// soffice exits 0 even when it could not write the file.
	pdf, err := os.ReadFile(filepath.Join(outDir, "report.pdf")) // #nosec G304 -- inside our temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: no output: %s", ErrConversion, strings.TrimSpace(stderr))
	}
	return pdf, nil
}
