// Package report defines the content of an R&D final report and the
// lookup tables used to render it.
//
// A Model is filled by an editing surface and handed to the rendering
// engine as a snapshot. Result items form a tagged variant: each carries
// exactly one of a text, table or image payload.
//
//	m := report.New()
//	m.ProjectTitle = "Low-VOC binder"
//	m.Objectives = []string{"Cut VOC below 50 g/L"}
//	m.Results = append(m.Results,
//	    report.NewTableResult("Viscosity", "Trial\tcP\n1\t1200", ""))
//
// Sections are switched on and off with an Include set; keys missing from
// the set are treated as enabled.
package report
