package document

import (
	"fmt"
	"strings"

	"github.com/alnah/go-rdreport/report"
)

// builder accumulates blocks for one report.
type builder struct {
	blocks  []Block
	cat     report.Catalog
	inc     report.Include
	section report.Key
}

// Numbering sequences of the ordered lists. Ids are fixed so that
// switching a section off leaves the other lists untouched.
const (
	listObjectives = iota + 1
	listManufacturing
)

// Build flattens m into reading order, honoring inc. Section keys that are
// switched off, directly or through an enclosing key, contribute no
// blocks.
func Build(m report.Model, inc report.Include, cat report.Catalog) []Block {
	b := &builder{cat: cat, inc: inc}

	b.add(Block{Kind: KindTitle, Text: m.ProjectTitle})

	if b.enter(report.KeyGeneral) {
		b.heading(1, "1. General Information")
		b.add(Block{
			Kind:    KindTable,
			Style:   report.DefaultTableStyle,
			Weights: []float64{2.2, 4.8},
			Rows: [][]string{
				{"Start Date", m.StartDate},
				{"Report Date", m.ReportDate},
				{"Assigned By", m.AssignedBy},
				{"Bin No", m.BinNo},
				{"Researcher Name", m.ResearcherName},
				{"Total Hours", m.TotalHours},
			},
		})
	}

	if b.enter(report.KeyTechnical) {
		b.heading(1, "2. Technical Information")
		b.technical(m)
	}

	if b.enter(report.KeyRegulatory) {
		b.heading(1, "3. Regulatory")
		b.field(2, "3.1. Application regulations", m.Regulations)
		b.field(2, "3.2. Label Requirements", m.LabelRequirements)
		b.field(2, "3.3. Certification Requirements", m.CertificationRequirements)
	}

	if b.enter(report.KeyScaleUp) {
		b.heading(1, "4. Scale Up")
		b.heading(2, "4.1. Manufacturing Order")
		b.list(m.ManufacturingSteps, listManufacturing, 1)
		b.field(2, "4.2. Formulation Risk", m.FormulationRisk)
		b.field(2, "4.3. Hazards", m.Hazards)
		b.field(2, "4.4. Equipment", m.Equipment)
		b.field(2, "4.5. CAPEX Requirements", m.Capex)
		b.field(2, "4.6. Safety Assessment", m.SafetyAssessment)
	}

	if b.enter(report.KeyQuality) {
		b.heading(1, "5. Quality")
		b.field(2, "5.1. Raw Material Sourcing", m.RawMaterialSourcing)
		b.field(2, "5.2. LIMS Setup", m.LIMSSetup)
		b.field(2, "5.3. Stability Testing", m.StabilityTesting)
		b.field(2, "5.4. Packaging Compatibility", m.PackagingCompatibility)
	}

	if b.enter(report.KeyCommercial) {
		b.commercial(m)
	}

	return b.blocks
}

func (b *builder) technical(m report.Model) {
	if b.enter(report.KeyPlainSummary) {
		b.field(2, "2.1. Plain Language Summary", m.PlainSummary)
	}

	if b.enter(report.KeyObjectives) {
		b.heading(2, "2.2. Objectives")
		b.list(m.Objectives, listObjectives, 1)
	}

	if b.enter(report.KeyMethods) {
		b.heading(2, "2.3. Methods")
		if b.enter(report.KeyRawMaterials) {
			b.heading(3, "2.3.1. Raw Materials")
			b.list(m.RawMaterials, 0, 2)
		}
		if b.enter(report.KeyInstruments) {
			b.heading(3, "2.3.2. Instrument")
			b.list(m.Instruments, 0, 2)
		}
		if b.enter(report.KeyProcedure) {
			b.heading(3, "2.3.3. Experimental Procedure")
			b.list(m.Procedure, 0, 2)
		}
		if b.enter(report.KeyTrialHistory) {
			b.heading(3, "2.3.4. Trial History")
			b.trials(m)
		}
	}

	if b.enter(report.KeyResults) {
		b.heading(2, "2.4. Results")
		for i, it := range m.Results {
			b.result(i+1, it)
		}
	}

	if b.enter(report.KeyConclusion) {
		b.heading(2, "2.5. Conclusion")
		b.list(m.Conclusion, 0, 1)
	}

	if b.enter(report.KeyMiscellaneous) {
		b.field(2, "2.6. Miscellaneous", m.Miscellaneous)
	}

	if b.enter(report.KeyReferences) {
		b.heading(2, "2.7. References")
		b.list(m.References, 0, 1)
	}
}

func (b *builder) trials(m report.Model) {
	if len(m.TrialHistory) == 0 {
		return
	}
	rows := [][]string{{"Trial#", "Issue", "Possible Reasons"}}
	for _, tr := range m.TrialHistory {
		rows = append(rows, []string{tr.Number, tr.Issue, tr.Reasons})
	}
	b.add(Block{
		Kind:    KindTable,
		Rows:    rows,
		Header:  true,
		Style:   b.cat.TableStyle(m.TrialStyle),
		Weights: b.cat.TrialWeights(m.TrialLayout),
	})
}

func (b *builder) result(n int, it report.ResultItem) {
	title := strings.TrimSpace(fmt.Sprintf("2.4.%d. %s", n, it.Title))

	switch {
	case it.Text != nil:
		b.heading(3, title)
		for _, ln := range splitLines(it.Text.Content) {
			b.add(Block{Kind: KindParagraph, Indent: 2, Text: ln})
		}

	case it.Table != nil:
		b.heading(3, title)
		rows := it.Table.Grid()
		if len(rows) == 0 {
			if raw := strings.TrimSpace(it.Table.Raw); raw != "" {
				b.add(Block{Kind: KindParagraph, Indent: 2, Text: raw})
			}
			return
		}
		b.add(Block{
			Kind:   KindTable,
			Rows:   rows,
			Header: true,
			Style:  b.cat.TableStyle(it.Table.Style),
		})

	case it.Image != nil:
		if strings.TrimSpace(it.Title) != "" {
			b.heading(3, title)
		}
		var paths []string
		for _, p := range it.Image.Images {
			if strings.TrimSpace(p) != "" {
				paths = append(paths, p)
			}
		}
		if len(paths) > 0 {
			b.add(Block{
				Kind:    KindImage,
				Indent:  2,
				Images:  paths,
				Caption: strings.TrimSpace(it.Image.Caption),
			})
		}
	}
}

func (b *builder) commercial(m report.Model) {
	b.heading(1, "6. Commercial")
	b.field(2, "6.1. Customer Objectives / Problem Statement", m.CustomerProblem)

	b.heading(2, "6.2. SMART Success Criteria")
	for _, g := range m.SmartGoals.Lines() {
		if v := strings.TrimSpace(g.Value); v != "" {
			b.add(Block{Kind: KindParagraph, Indent: 2, Text: g.Label + ": " + v})
		}
	}

	b.field(2, "6.3. Customer Specifications", m.CustomerSpecs)
	b.field(2, "6.4. Expected Business Volume", m.ExpectedVolume)
	b.field(2, "6.5. Packaging Requirement", m.PackagingRequirement)
	b.field(2, "6.6. Raw Material Restrictions / Preferences", m.RawMaterialPreferences)
	b.field(2, "6.7. Sample Needed", m.SampleNeeded)
	b.field(2, "6.8. Opportunity Timeline", m.OpportunityTimeline)
	b.field(2, "6.9. Target Application", m.TargetApplication)
	b.field(2, "6.10. Customer Feedback", m.CustomerFeedback)
	b.field(2, "6.11. TDS Development", m.TDSDevelopment)

	b.heading(2, "6.12. Email Correspondence")
	if len(m.EmailCorrespondence) == 0 {
		return
	}
	rows := [][]string{{"Date", "Customer Name", "Correspondence"}}
	for _, e := range m.EmailCorrespondence {
		rows = append(rows, []string{e.Date, e.Customer, e.Correspondence})
	}
	b.add(Block{
		Kind:    KindTable,
		Rows:    rows,
		Header:  true,
		Style:   report.DefaultTableStyle,
		Weights: []float64{1.3, 2.0, 3.7},
	})
}

// enter reports whether k is enabled and, if so, makes it the owner of
// the blocks that follow.
func (b *builder) enter(k report.Key) bool {
	if !b.inc.Enabled(k) {
		return false
	}
	b.section = k
	return true
}

func (b *builder) add(blk Block) {
	if blk.Kind != KindTitle {
		blk.Section = b.section
	}
	b.blocks = append(b.blocks, blk)
}

func (b *builder) heading(level int, text string) {
	b.add(Block{Kind: KindHeading, Level: level, Indent: level - 1, Text: text})
}

// field emits a heading and, when text is not blank, one paragraph.
func (b *builder) field(level int, title, text string) {
	b.heading(level, title)
	if strings.TrimSpace(text) == "" {
		return
	}
	b.add(Block{Kind: KindParagraph, Indent: level - 1, Text: strings.TrimRight(normalizeNewlines(text), "\n")})
}

// list emits one item per non-blank entry. A non-zero id makes the list
// ordered, numbered from 1 independently of every other list.
func (b *builder) list(items []string, id, indent int) {
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		b.add(Block{Kind: KindListItem, Indent: indent, Text: it, Ordered: id != 0, ListID: id})
	}
}

func splitLines(s string) []string {
	var out []string
	for _, ln := range strings.Split(normalizeNewlines(s), "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
