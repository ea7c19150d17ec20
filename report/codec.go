package report

import (
	"encoding/json"
	"fmt"
)

// ToMap returns the persisted form of m as generic JSON values. Lists are
// always present, possibly empty.
func (m Model) ToMap() (map[string]any, error) {
	data, err := json.Marshal(m.withEmptyLists())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	return out, nil
}

// FromMap builds a model from its persisted form. Absent keys keep the
// defaults of New and unknown keys are ignored; a value of the wrong type
// is an error. Legacy shapes must be migrated before calling FromMap.
func FromMap(src map[string]any) (Model, error) {
	m := New()
	if len(src) == 0 {
		return m, nil
	}
	data, err := json.Marshal(src)
	if err != nil {
		return Model{}, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return Model{}, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if m.TrialLayout == "" {
		m.TrialLayout = DefaultTrialLayout
	}
	if m.TrialStyle == "" {
		m.TrialStyle = DefaultTableStyle
	}
	return m, nil
}

// withEmptyLists replaces nil slices so they encode as [] rather than null.
func (m Model) withEmptyLists() Model {
	for _, s := range []*[]string{
		&m.Objectives, &m.RawMaterials, &m.Instruments, &m.Procedure,
		&m.Conclusion, &m.References, &m.ManufacturingSteps,
	} {
		if *s == nil {
			*s = []string{}
		}
	}
	if m.TrialHistory == nil {
		m.TrialHistory = []TrialRow{}
	}
	if m.Results == nil {
		m.Results = []ResultItem{}
	}
	if m.EmailCorrespondence == nil {
		m.EmailCorrespondence = []EmailEntry{}
	}
	return m
}
