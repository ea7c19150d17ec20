package report

// Model is the content of one R&D final report. String fields are free
// text; list fields keep their entry order. The zero value is usable but
// New should be preferred because it fills the table style and layout
// defaults.
type Model struct {
	// General information.
	ProjectTitle   string `json:"project_title"`
	StartDate      string `json:"start_date"`
	ReportDate     string `json:"report_date"`
	AssignedBy     string `json:"assigned_by"`
	BinNo          string `json:"bin_no"`
	ResearcherName string `json:"researcher_name"`
	TotalHours     string `json:"total_hours"`

	// Technical information.
	PlainSummary  string       `json:"plain_summary"`
	Objectives    []string     `json:"objectives"`
	RawMaterials  []string     `json:"methods_raw_materials"`
	Instruments   []string     `json:"methods_instruments"`
	Procedure     []string     `json:"methods_procedure"`
	TrialHistory  []TrialRow   `json:"trial_history"`
	TrialLayout   string       `json:"trial_layout"`
	TrialStyle    string       `json:"trial_docx_style"`
	Results       []ResultItem `json:"results"`
	Conclusion    []string     `json:"conclusion"`
	Miscellaneous string       `json:"miscellaneous"`
	References    []string     `json:"references"`

	// Regulatory.
	Regulations               string `json:"regulations"`
	LabelRequirements         string `json:"label_req"`
	CertificationRequirements string `json:"certification_req"`

	// Scale up.
	ManufacturingSteps []string `json:"manuf_order_steps"`
	FormulationRisk    string   `json:"formulation_risk_text"`
	Hazards            string   `json:"hazards_text"`
	Equipment          string   `json:"equipment_text"`
	Capex              string   `json:"capex_text"`
	SafetyAssessment   string   `json:"safety_assess_text"`

	// Quality.
	RawMaterialSourcing    string `json:"raw_material_sourcing"`
	LIMSSetup              string `json:"lims_setup"`
	StabilityTesting       string `json:"stability_testing"`
	PackagingCompatibility string `json:"packaging_compatibility"`

	// Commercial.
	CustomerProblem        string       `json:"c_obj_problem"`
	SmartGoals             SmartGoals   `json:"smart_goals"`
	CustomerSpecs          string       `json:"c_specs"`
	ExpectedVolume         string       `json:"c_expected_volume"`
	PackagingRequirement   string       `json:"c_packaging_req"`
	RawMaterialPreferences string       `json:"c_raw_material_prefs"`
	SampleNeeded           string       `json:"c_sample_needed"`
	OpportunityTimeline    string       `json:"c_opportunity_timeline"`
	TargetApplication      string       `json:"target_application"`
	CustomerFeedback       string       `json:"customer_feedback"`
	TDSDevelopment         string       `json:"tds_development"`
	EmailCorrespondence    []EmailEntry `json:"email_correspondence"`
}

// TrialRow is one entry of the trial history. Numbers are free text and
// may repeat.
type TrialRow struct {
	Number  string `json:"number"`
	Issue   string `json:"issue"`
	Reasons string `json:"reasons"`
}

// EmailEntry is one logged customer exchange.
type EmailEntry struct {
	Date           string `json:"date"`
	Customer       string `json:"customer"`
	Correspondence string `json:"correspondence"`
}

// SmartGoals holds the SMART success criteria, persisted under the
// single-letter keys S, M, A, R and T.
type SmartGoals struct {
	Specific   string `json:"S"`
	Measurable string `json:"M"`
	Achievable string `json:"A"`
	Relevant   string `json:"R"`
	TimeBound  string `json:"T"`
}

// SmartLine is one labelled SMART criterion.
type SmartLine struct {
	Label string
	Value string
}

// Lines returns the criteria in S, M, A, R, T order with their labels.
func (g SmartGoals) Lines() []SmartLine {
	return []SmartLine{
		{"Specific", g.Specific},
		{"Measurable", g.Measurable},
		{"Achievable", g.Achievable},
		{"Relevant", g.Relevant},
		{"Time-bound", g.TimeBound},
	}
}

// New returns an empty model with default layout and table style.
func New() Model {
	return Model{
		TrialLayout: DefaultTrialLayout,
		TrialStyle:  DefaultTableStyle,
	}
}

// Clone returns a deep copy of m. Result items are copied along with their
// image lists and table grids.
func (m Model) Clone() Model {
	c := m
	c.Objectives = cloneStrings(m.Objectives)
	c.RawMaterials = cloneStrings(m.RawMaterials)
	c.Instruments = cloneStrings(m.Instruments)
	c.Procedure = cloneStrings(m.Procedure)
	c.Conclusion = cloneStrings(m.Conclusion)
	c.References = cloneStrings(m.References)
	c.ManufacturingSteps = cloneStrings(m.ManufacturingSteps)
	if m.TrialHistory != nil {
		c.TrialHistory = append([]TrialRow(nil), m.TrialHistory...)
	}
	if m.EmailCorrespondence != nil {
		c.EmailCorrespondence = append([]EmailEntry(nil), m.EmailCorrespondence...)
	}
	if m.Results != nil {
		c.Results = make([]ResultItem, len(m.Results))
		for i, it := range m.Results {
			c.Results[i] = it.clone()
		}
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
