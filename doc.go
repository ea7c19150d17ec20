// Package rdreport assembles R&D final reports and renders them as an
// editable word-processor document (DOCX) and a fixed-layout PDF.
//
// # Quick Start
//
//	gen, err := rdreport.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	proj, err := project.Load("binder.rdrproj")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := gen.Generate(ctx, rdreport.Input{
//	    Model:       proj.Report,
//	    Include:     proj.Include,
//	    HeaderImage: proj.Branding.HeaderPath,
//	    FooterImage: proj.Branding.FooterPath,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	base, _ := rdreport.OutputBase(proj.Report.ProjectTitle, time.Now(), "")
//	written, err := rdreport.WriteOutputs(res, rdreport.PathsFor(res, "out", base))
//
// # Pipeline
//
//  1. The model is copied and its images snapshotted into a private
//     cache directory, removed when Generate returns.
//  2. The section tree is flattened into one block sequence honoring
//     the include set. Both renderers consume the same blocks, so they
//     always carry the same text.
//  3. The DOCX renderer writes the WordprocessingML package.
//  4. The PDF comes from converting that package with LibreOffice when
//     available (validated with pdfcpu), otherwise from printing the
//     composed HTML with headless Chrome (go-rod).
//
// # Partial Results
//
// A missing image never fails a report: it is left out, logged and listed
// in Result.Skipped. A renderer that cannot run fails only its own
// format; Generate returns the other one together with an error wrapping
// ErrFormatFailed.
//
// # Parallel Processing
//
// A Generator owns one browser and serves one report at a time. Use
// GeneratorPool to generate several reports concurrently:
//
//	pool := rdreport.NewGeneratorPool(rdreport.ResolvePoolSize(0))
//	defer pool.Close()
//
//	gen, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(gen)
//
// # Browser
//
// Chrome is launched on first use. Set ROD_BROWSER_BIN to use an
// installed browser and ROD_NO_SANDBOX=1 in containers.
package rdreport
