package rdreport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeRunner implements CommandRunner. It writes output into the
// --outdir argument the way soffice does.
type fakeRunner struct {
	output []byte // nil = write nothing
	stderr string
	err    error
	name   string
	args   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	f.name, f.args = name, args
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if f.err != nil {
		return "", f.stderr, f.err
	}
	if f.output != nil {
		outDir := argAfter(args, "--outdir")
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", "", err
		}
		src := args[len(args)-1]
		dst := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(src), ".docx")+".pdf")
		if err := os.WriteFile(dst, f.output, 0o600); err != nil {
			return "", "", err
		}
	}
	return "", f.stderr, nil
}

func argAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func foundAt(path string) func(string) (string, error) {
	return func(string) (string, error) { return path, nil }
}

// ---------------------------------------------------------------------------
// TestSofficeConverter
// ---------------------------------------------------------------------------

func TestSofficeConverter_ToPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		runner   *fakeRunner
		lookPath func(string) (string, error)
		ctx      func() context.Context
		wantErr  error
		wantPDF  string
	}{
		{
			name:     "converts",
			runner:   &fakeRunner{output: []byte("%PDF-1.7 converted")},
			lookPath: foundAt("/usr/bin/soffice"),
			wantPDF:  "%PDF-1.7 converted",
		},
		{
			name:     "binary missing",
			runner:   &fakeRunner{},
			lookPath: func(string) (string, error) { return "", errors.New("not found") },
			wantErr:  ErrConverterMissing,
		},
		{
			name:     "converter exits with error",
			runner:   &fakeRunner{err: errors.New("exit status 1"), stderr: "Error: source file could not be loaded"},
			lookPath: foundAt("/usr/bin/soffice"),
			wantErr:  ErrConversion,
		},
		{
			name:     "converter writes nothing",
			runner:   &fakeRunner{},
			lookPath: foundAt("/usr/bin/soffice"),
			wantErr:  ErrConversion,
		},
		{
			name:     "cancelled",
			runner:   &fakeRunner{output: []byte("%PDF")},
			lookPath: foundAt("/usr/bin/soffice"),
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &sofficeConverter{bin: "soffice", runner: tt.runner, lookPath: tt.lookPath}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			pdf, err := c.ToPDF(ctx, []byte("PK fake docx"))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(pdf) != tt.wantPDF {
				t.Errorf("pdf = %q, want %q", pdf, tt.wantPDF)
			}
		})
	}
}

func TestSofficeConverter_Arguments(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{output: []byte("%PDF")}
	c := &sofficeConverter{bin: "soffice", runner: runner, lookPath: foundAt("/opt/lo/soffice")}

	if _, err := c.ToPDF(context.Background(), []byte("PK")); err != nil {
		t.Fatal(err)
	}

	if runner.name != "/opt/lo/soffice" {
		t.Errorf("ran %q, want the resolved binary", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	for _, want := range []string{"--headless", "--convert-to pdf", "-env:UserInstallation=file://"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if !strings.HasSuffix(runner.args[len(runner.args)-1], "report.docx") {
		t.Errorf("last arg = %q, want the input file", runner.args[len(runner.args)-1])
	}
	// The work directory is removed afterwards.
	if _, err := os.Stat(filepath.Dir(runner.args[len(runner.args)-1])); !os.IsNotExist(err) {
		t.Errorf("work directory left behind: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestExecRunner
// ---------------------------------------------------------------------------

func TestExecRunner_CapturesOutput(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	stdout, stderr, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(stdout) != "out" || strings.TrimSpace(stderr) != "err" {
		t.Errorf("stdout = %q, stderr = %q", stdout, stderr)
	}
}

func TestExecRunner_KillsOnTimeout(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	// The child of sh must die with it: the whole group is killed.
	_, _, err := ExecRunner{}.Run(ctx, "sh", "-c", "sleep 30 & sleep 30")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Run took %v after the deadline", elapsed)
	}
}
