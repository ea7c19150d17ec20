package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	rdreport "github.com/alnah/go-rdreport"
	"github.com/alnah/go-rdreport/internal/config"
	"github.com/alnah/go-rdreport/internal/fileutil"
	"github.com/alnah/go-rdreport/internal/pdfdoc"
	"github.com/alnah/go-rdreport/project"
	"github.com/alnah/go-rdreport/report"
)

// generateParams groups settings shared by every report of a run.
type generateParams struct {
	cfg      *config.Config // config file with flags merged in
	flags    *generateFlags
	dumpText bool
	now      time.Time
}

// GenerateResult holds the outcome of one project.
type GenerateResult struct {
	InputPath string
	Outputs   rdreport.OutputPaths
	TextPath  string
	PDFSource string
	Pages     int
	Skipped   []rdreport.SkippedImage
	Err       error
	Duration  time.Duration
}

// runGenerateCmd parses flags and renders every project given.
func runGenerateCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	return runGenerate(ctx, positional, flags, env)
}

// runGenerate orchestrates a batch of projects.
func runGenerate(ctx context.Context, paths []string, flags *generateFlags, env *Environment) error {
	if len(paths) == 0 {
		return ErrNoInput
	}

	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		var err error
		if cfg, err = config.LoadConfig(flags.common.config); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	opts := generatorOptions(cfg, logger)

	size := min(rdreport.ResolvePoolSize(cfg.PDF.Workers), len(paths))
	logger.Debug("starting generation", "reports", len(paths), "workers", size)
	pool := env.NewPool(size, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing generators", "error", err)
		}
	}()

	params := &generateParams{
		cfg:      cfg,
		flags:    flags,
		dumpText: flags.export.dumpText,
		now:      env.Now(),
	}
	results := generateBatch(ctx, pool, paths, params)

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failed > 0 {
		batchErr := &batchError{total: len(results)}
		for _, r := range results {
			if r.Err != nil {
				batchErr.errs = append(batchErr.errs, r.Err)
			}
		}
		return batchErr
	}
	return nil
}

// batchError summarizes failed reports. Each failure has already been
// printed; errors.Is still sees every one of them.
type batchError struct {
	total int
	errs  []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d report(s) failed", len(e.errs), e.total)
}

func (e *batchError) Unwrap() []error { return e.errs }

// mergeFlags merges CLI flags into cfg. CLI values override config values.
func mergeFlags(flags *generateFlags, cfg *config.Config) error {
	if flags.branding.header != "" {
		cfg.Branding.HeaderPath = flags.branding.header
	}
	if flags.branding.footer != "" {
		cfg.Branding.FooterPath = flags.branding.footer
	}
	if flags.branding.author != "" {
		cfg.Branding.Author = flags.branding.author
	}

	if flags.export.output != "" {
		cfg.Export.OutDir = flags.export.output
	}
	if flags.export.format != "" {
		cfg.Export.Format = flags.export.format
	}
	if flags.export.dateFormat != "" {
		cfg.Export.DateFormat = flags.export.dateFormat
	}
	if flags.export.html {
		cfg.Export.HTML = true
	}
	for _, name := range flags.export.exclude {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		key, err := report.ParseKey(name)
		if err != nil {
			return err
		}
		if cfg.Include == nil {
			cfg.Include = map[string]bool{}
		}
		cfg.Include[string(key)] = false
	}

	if flags.renderer.workers != 0 {
		cfg.PDF.Workers = flags.renderer.workers
	}
	if flags.renderer.timeout != "" {
		cfg.PDF.Timeout = flags.renderer.timeout
	}
	if flags.renderer.noConvert {
		off := false
		cfg.PDF.Convert = &off
	}
	if flags.renderer.officeBin != "" {
		cfg.PDF.OfficeBin = flags.renderer.officeBin
	}
	if flags.renderer.assetPath != "" {
		cfg.Assets.BasePath = flags.renderer.assetPath
	}
	return nil
}

// generatorOptions maps cfg onto generator options.
func generatorOptions(cfg *config.Config, logger *slog.Logger) []rdreport.Option {
	opts := []rdreport.Option{rdreport.WithLogger(logger)}
	if d := cfg.TimeoutDuration(); d > 0 {
		opts = append(opts, rdreport.WithTimeout(d))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, rdreport.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.PDF.OfficeBin != "" {
		opts = append(opts, rdreport.WithOfficeConverter(cfg.PDF.OfficeBin))
	}
	if !cfg.ConvertEnabled() {
		opts = append(opts, rdreport.WithoutConversion())
	}
	return opts
}

// newLogger returns a text logger on w. Quiet shows errors only, verbose
// shows debug records.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// generateBatch renders projects concurrently, at most pool.Size() at a
// time. Results keep the order of paths.
func generateBatch(ctx context.Context, pool Pool, paths []string, params *generateParams) []GenerateResult {
	results := make([]GenerateResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(pool.Size(), 1))
	for i, path := range paths {
		g.Go(func() error {
			results[i] = generateOne(ctx, pool, path, params)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// generateOne loads, renders and writes one project.
func generateOne(ctx context.Context, pool Pool, path string, params *generateParams) GenerateResult {
	start := time.Now()
	result := GenerateResult{InputPath: path}
	done := func(err error) GenerateResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	file, err := project.Load(path)
	if err != nil {
		return done(err)
	}
	in, err := buildInput(file, params)
	if err != nil {
		return done(err)
	}

	if params.dumpText {
		in.KeepHTML = true
	}

	gen, err := pool.Acquire(ctx)
	if err != nil {
		return done(err)
	}
	res, genErr := gen.Generate(ctx, in)
	pool.Release(gen)
	if res == nil {
		return done(genErr)
	}

	base, err := rdreport.OutputBase(in.Model.ProjectTitle, params.now, params.cfg.Export.DateFormat)
	if err != nil {
		return done(err)
	}
	dir := firstNonEmpty(params.flags.export.output, file.Export.OutDir, params.cfg.Export.OutDir, filepath.Dir(path))
	if params.dumpText {
		if result.TextPath, err = writeText(res.HTML, dir, base); err != nil {
			return done(err)
		}
		if !params.cfg.Export.HTML {
			res.HTML = ""
		}
	}
	written, err := rdreport.WriteOutputs(res, rdreport.PathsFor(res, dir, base))
	result.Outputs = written
	if err != nil {
		return done(err)
	}

	result.PDFSource = res.PDFSource
	result.Pages = res.Pages
	result.Skipped = res.Skipped
	return done(genErr)
}

// writeText writes the visible text of the print page to <base>.txt, one
// block per line.
func writeText(page, dir, base string) (string, error) {
	if page == "" {
		return "", nil
	}
	text, err := pdfdoc.ExtractText(page)
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	path := filepath.Join(dir, base+".txt")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: %v", rdreport.ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", rdreport.ErrWriteOutput, err)
	}
	return path, nil
}

// buildInput combines a project with the run settings. Flags win over the
// project, which wins over the config file. Include switches from the
// config and --exclude are applied over the project's own.
func buildInput(file project.File, params *generateParams) (rdreport.Input, error) {
	cfg, flags := params.cfg, params.flags

	formats, err := rdreport.ParseFormat(firstNonEmpty(flags.export.format, file.Export.Format, cfg.Export.Format))
	if err != nil {
		return rdreport.Input{}, err
	}

	include := report.DefaultInclude()
	for k, v := range file.Include {
		include[k] = v
	}
	for name, on := range cfg.Include {
		key, err := report.ParseKey(name)
		if err != nil {
			return rdreport.Input{}, err
		}
		include[key] = on
	}

	return rdreport.Input{
		Model:       file.Report,
		Include:     include,
		HeaderImage: firstNonEmpty(flags.branding.header, file.Branding.HeaderPath, cfg.Branding.HeaderPath),
		FooterImage: firstNonEmpty(flags.branding.footer, file.Branding.FooterPath, cfg.Branding.FooterPath),
		Author:      cfg.Branding.Author,
		Formats:     formats,
		KeepHTML:    cfg.Export.HTML,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// printResultsWithWriter reports each result and returns the failure count.
func printResultsWithWriter(results []GenerateResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		for _, s := range r.Skipped {
			if !quiet {
				fmt.Fprintf(env.Stderr, "SKIPPED %s: %s (%s)\n", r.InputPath, s.Path, s.Reason)
			}
		}
		for _, out := range []string{r.Outputs.DOCX, r.Outputs.PDF, r.Outputs.HTML, r.TextPath} {
			if out == "" || quiet {
				continue
			}
			if verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, out, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s\n", out)
			}
		}
		if verbose && r.Outputs.PDF != "" {
			fmt.Fprintf(env.Stdout, "  pdf: %d page(s) via %s\n", r.Pages, r.PDFSource)
		}

		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}
		succeeded++
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}
	return failed
}
