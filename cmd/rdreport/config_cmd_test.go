package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-rdreport/internal/config"
	"github.com/alnah/go-rdreport/internal/yamlutil"
	"github.com/alnah/go-rdreport/report"
)

// ---------------------------------------------------------------------------
// TestRunConfigCmd - Effective configuration
// ---------------------------------------------------------------------------

func TestRunConfigCmd_Defaults(t *testing.T) {
	t.Parallel()

	env, stdout, stderr := testEnv(&mockPool{})
	if code := run(context.Background(), []string{"config"}, env); code != ExitSuccess {
		t.Fatalf("exit = %d\nstderr: %s", code, stderr)
	}

	// The output is itself a valid config.
	var cfg config.Config
	if err := yamlutil.UnmarshalStrict(stdout.Bytes(), &cfg); err != nil {
		t.Fatalf("output is not a valid config: %v\n%s", err, stdout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if cfg.Export.Format != config.FormatBoth {
		t.Errorf("format = %q, want %q", cfg.Export.Format, config.FormatBoth)
	}
	if !cfg.ConvertEnabled() || cfg.PDF.Convert == nil {
		t.Error("convert should be printed as true")
	}
	if len(cfg.Include) != len(report.Keys()) || !cfg.Include["sec_reg"] {
		t.Errorf("include = %v, want every key enabled", cfg.Include)
	}
}

func TestRunConfigCmd_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "lab.yaml")
	if err := os.WriteFile(path, []byte("export:\n  format: pdf\ninclude:\n  t_misc: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	env, stdout, stderr := testEnv(&mockPool{})
	if code := run(context.Background(), []string{"config", "-c", path}, env); code != ExitSuccess {
		t.Fatalf("exit = %d\nstderr: %s", code, stderr)
	}

	var cfg config.Config
	if err := yamlutil.UnmarshalStrict(stdout.Bytes(), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Export.Format != "pdf" {
		t.Errorf("format = %q, want pdf", cfg.Export.Format)
	}
	// The printed set is the file's switches merged over the defaults.
	if on, ok := cfg.Include["t_misc"]; !ok || on {
		t.Errorf("t_misc = %v (present %v), want false", on, ok)
	}
	if len(cfg.Include) != len(report.Keys()) || !cfg.Include["sec_reg"] {
		t.Errorf("include = %v, want every other key enabled", cfg.Include)
	}
}

func TestRunConfigCmd_NotFound(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv(&mockPool{})
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if code := run(context.Background(), []string{"config", "-c", path}, env); code != ExitUsage {
		t.Errorf("exit = %d, want %d\nstderr: %s", code, ExitUsage, stderr)
	}
}
