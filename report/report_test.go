package report_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-rdreport/report"
)

// ---------------------------------------------------------------------------
// TestResultItem - Variant construction and validation
// ---------------------------------------------------------------------------

func TestNewTableResult_InfersRows(t *testing.T) {
	t.Parallel()

	it := report.NewTableResult("Viscosity", "Trial,cP\n1,1200", "")
	if it.Kind != report.KindTable {
		t.Fatalf("Kind = %q, want table", it.Kind)
	}
	if it.Table.Style != report.DefaultTableStyle {
		t.Errorf("Style = %q, want %q", it.Table.Style, report.DefaultTableStyle)
	}
	want := [][]string{{"Trial", "cP"}, {"1", "1200"}}
	if diff := cmp.Diff(want, it.Table.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}

	it.Table.SetRawText("a\tb\tc")
	if diff := cmp.Diff([][]string{{"a", "b", "c"}}, it.Table.Rows); diff != "" {
		t.Errorf("Rows after SetRawText mismatch (-want +got):\n%s", diff)
	}
}

func TestTableResult_GridFallsBackToRaw(t *testing.T) {
	t.Parallel()

	tr := &report.TableResult{Raw: "x,y\n1,2"}
	if diff := cmp.Diff([][]string{{"x", "y"}, {"1", "2"}}, tr.Grid()); diff != "" {
		t.Errorf("Grid mismatch (-want +got):\n%s", diff)
	}

	cached := &report.TableResult{Raw: "ignored", Rows: [][]string{{"kept"}}}
	if diff := cmp.Diff([][]string{{"kept"}}, cached.Grid()); diff != "" {
		t.Errorf("Grid ignored cache (-want +got):\n%s", diff)
	}
}

func TestResultItem_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    report.ResultItem
		wantErr error
	}{
		{"text", report.NewTextResult("a", "b"), nil},
		{"table", report.NewTableResult("a", "1,2", "Light List"), nil},
		{"image", report.NewImageResult("a", []string{"x.png"}, "cap"), nil},
		{
			name:    "kind mismatch",
			item:    report.ResultItem{Kind: report.KindImage, Text: &report.TextResult{}},
			wantErr: report.ErrInvalidResultItem,
		},
		{
			name: "two payloads",
			item: report.ResultItem{
				Kind:  report.KindText,
				Text:  &report.TextResult{},
				Image: &report.ImageResult{},
			},
			wantErr: report.ErrInvalidResultItem,
		},
		{
			name:    "no payload",
			item:    report.ResultItem{Kind: report.KindText},
			wantErr: report.ErrInvalidResultItem,
		},
		{
			name:    "unknown kind",
			item:    report.ResultItem{Kind: "chart", Text: &report.TextResult{}},
			wantErr: report.ErrInvalidResultItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.item.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResultItem_JSON(t *testing.T) {
	t.Parallel()

	items := []report.ResultItem{
		report.NewTextResult("Notes", "line 1\nline 2"),
		report.NewTableResult("Data", "a,b\n1,2", "Medium Shading 1"),
		report.NewImageResult("Micrographs", []string{"a.png", "b.jpg"}, "x400"),
	}
	data, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got []report.ResultItem
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestResultItem_UnmarshalUnknownKind(t *testing.T) {
	t.Parallel()

	var it report.ResultItem
	err := json.Unmarshal([]byte(`{"title":"x","kind":"video"}`), &it)
	if !errors.Is(err, report.ErrInvalidResultItem) {
		t.Errorf("error = %v, want ErrInvalidResultItem", err)
	}
}

// ---------------------------------------------------------------------------
// TestInclude - Defaults and nesting
// ---------------------------------------------------------------------------

func TestInclude_Defaults(t *testing.T) {
	t.Parallel()

	var empty report.Include
	for _, k := range report.Keys() {
		if !empty.Enabled(k) {
			t.Errorf("nil set: %s disabled, want enabled", k)
		}
		if !report.DefaultInclude().Enabled(k) {
			t.Errorf("default set: %s disabled, want enabled", k)
		}
	}
}

func TestInclude_ParentDisablesChildren(t *testing.T) {
	t.Parallel()

	inc := report.DefaultInclude().Without(report.KeyMethods)
	for _, k := range []report.Key{report.KeyRawMaterials, report.KeyInstruments, report.KeyProcedure, report.KeyTrialHistory} {
		if inc.Enabled(k) {
			t.Errorf("%s enabled under disabled methods", k)
		}
		if !inc.Has(k) {
			t.Errorf("%s itself should still be switched on", k)
		}
	}
	if !inc.Enabled(report.KeyObjectives) {
		t.Error("sibling objectives disabled")
	}

	inc = report.DefaultInclude().Without(report.KeyTechnical)
	if inc.Enabled(report.KeyTrialHistory) {
		t.Error("trial history enabled under disabled technical section")
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	k, err := report.ParseKey(" T_RM ")
	if err != nil || k != report.KeyRawMaterials {
		t.Errorf("ParseKey = %q, %v; want t_rm", k, err)
	}
	if _, err := report.ParseKey("nope"); !errors.Is(err, report.ErrUnknownIncludeKey) {
		t.Errorf("ParseKey(nope) error = %v, want ErrUnknownIncludeKey", err)
	}
}

// ---------------------------------------------------------------------------
// TestCatalog - Style fallback and trial layouts
// ---------------------------------------------------------------------------

func TestCatalog_TableStyle(t *testing.T) {
	t.Parallel()

	cat := report.DefaultCatalog()
	if got := cat.TableStyle("Light Grid Accent 1"); got != "Light Grid Accent 1" {
		t.Errorf("known style = %q", got)
	}
	if got := cat.TableStyle("Fancy Rainbow"); got != report.DefaultTableStyle {
		t.Errorf("unknown style = %q, want %q", got, report.DefaultTableStyle)
	}
	if len(cat.TableStyles) != 9 {
		t.Errorf("len(TableStyles) = %d, want 9", len(cat.TableStyles))
	}
}

func TestCatalog_Style(t *testing.T) {
	t.Parallel()

	cat := report.DefaultCatalog()
	if got := cat.Style("Light Grid").BandFill; got != "D9D9D9" {
		t.Errorf("Light Grid band = %q", got)
	}
	if got := cat.Style("Fancy Rainbow").Name; got != report.DefaultTableStyle {
		t.Errorf("unknown style = %q, want %q", got, report.DefaultTableStyle)
	}

	// A catalog without the grid still resolves unknown names to one.
	custom := report.Catalog{TableStyles: []report.TableStyle{{Name: "Lab Blue #2", Border: "1565C0"}}}
	if got := custom.Style("nope"); got.Name != report.DefaultTableStyle || !got.InnerLines {
		t.Errorf("fallback = %+v, want the plain grid", got)
	}
	if diff := cmp.Diff([]string{"Lab Blue #2"}, custom.StyleNames()); diff != "" {
		t.Errorf("StyleNames mismatch (-want +got):\n%s", diff)
	}
	if got := custom.TableStyles[0].ID(); got != "LabBlue2" {
		t.Errorf("ID() = %q, want LabBlue2", got)
	}
}

func TestCatalog_TrialWeights(t *testing.T) {
	t.Parallel()

	cat := report.DefaultCatalog()
	if diff := cmp.Diff([]float64{100, 200, 400}, cat.TrialWeights("Reasons wide")); diff != "" {
		t.Errorf("Reasons wide mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{120, 280, 280}, cat.TrialWeights("bogus")); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
	for _, name := range report.TrialLayoutNames() {
		if _, ok := cat.TrialLayouts[name]; !ok {
			t.Errorf("layout %q missing from catalog", name)
		}
	}
}

// ---------------------------------------------------------------------------
// TestModel - Codec and cloning
// ---------------------------------------------------------------------------

func sampleModel() report.Model {
	m := report.New()
	m.ProjectTitle = "Binder"
	m.Objectives = []string{"first", "second", "third"}
	m.TrialHistory = []report.TrialRow{{"1", "foam", "surfactant"}, {"1", "again", "?"}}
	m.Results = []report.ResultItem{
		report.NewTextResult("Obs", "ok"),
		report.NewImageResult("Pics", []string{"p.png"}, "cap"),
	}
	m.SmartGoals = report.SmartGoals{Specific: "s", TimeBound: "q3"}
	m.EmailCorrespondence = []report.EmailEntry{{"2024-01-01", "Acme", "hello"}}
	m.ManufacturingSteps = []string{"mix", "heat"}
	return m
}

func TestModel_MapRoundTrip(t *testing.T) {
	t.Parallel()

	m := sampleModel()
	raw, err := m.ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	got, err := report.FromMap(raw)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if diff := cmp.Diff(m, got, emptyEqualsNil()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromMap_Defaults(t *testing.T) {
	t.Parallel()

	got, err := report.FromMap(map[string]any{"project_title": "X", "unknown_key": 3})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if got.ProjectTitle != "X" {
		t.Errorf("ProjectTitle = %q", got.ProjectTitle)
	}
	if got.TrialLayout != report.DefaultTrialLayout || got.TrialStyle != report.DefaultTableStyle {
		t.Errorf("defaults not applied: layout %q style %q", got.TrialLayout, got.TrialStyle)
	}
}

func TestFromMap_WrongType(t *testing.T) {
	t.Parallel()

	_, err := report.FromMap(map[string]any{"objectives": "not a list"})
	if !errors.Is(err, report.ErrInvalidModel) {
		t.Errorf("error = %v, want ErrInvalidModel", err)
	}
}

func TestToMap_ListsNeverNull(t *testing.T) {
	t.Parallel()

	raw, err := report.New().ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	for _, key := range []string{"objectives", "results", "trial_history", "email_correspondence", "manuf_order_steps"} {
		if _, ok := raw[key].([]any); !ok {
			t.Errorf("%s = %#v, want empty list", key, raw[key])
		}
	}
}

func TestModel_CloneIsDeep(t *testing.T) {
	t.Parallel()

	m := sampleModel()
	c := m.Clone()
	c.Objectives[0] = "changed"
	c.Results[1].Image.Images[0] = "other.png"
	c.TrialHistory[0].Issue = "changed"

	if m.Objectives[0] != "first" {
		t.Error("objectives shared with clone")
	}
	if m.Results[1].Image.Images[0] != "p.png" {
		t.Error("image list shared with clone")
	}
	if m.TrialHistory[0].Issue != "foam" {
		t.Error("trial history shared with clone")
	}
}

func TestSmartGoals_Lines(t *testing.T) {
	t.Parallel()

	lines := report.SmartGoals{Specific: "a", Measurable: "b", Achievable: "c", Relevant: "d", TimeBound: "e"}.Lines()
	var labels []string
	for _, l := range lines {
		labels = append(labels, l.Label)
	}
	want := []string{"Specific", "Measurable", "Achievable", "Relevant", "Time-bound"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func emptyEqualsNil() cmp.Option {
	return cmp.FilterValues(func(x, y []string) bool {
		return len(x) == 0 && len(y) == 0
	}, cmp.Comparer(func(_, _ []string) bool { return true }))
}
