package report

import (
	"fmt"
	"slices"
	"strings"
)

// Key names a section or subsection that can be left out of a report.
type Key string

const (
	KeyGeneral       Key = "sec_general"
	KeyTechnical     Key = "sec_technical"
	KeyPlainSummary  Key = "t_plain"
	KeyObjectives    Key = "t_objectives"
	KeyMethods       Key = "t_methods"
	KeyRawMaterials  Key = "t_rm"
	KeyInstruments   Key = "t_ins"
	KeyProcedure     Key = "t_proc"
	KeyTrialHistory  Key = "t_trial"
	KeyResults       Key = "t_results"
	KeyConclusion    Key = "t_conc"
	KeyMiscellaneous Key = "t_misc"
	KeyReferences    Key = "t_refs"
	KeyRegulatory    Key = "sec_reg"
	KeyScaleUp       Key = "sec_scale"
	KeyQuality       Key = "sec_quality"
	KeyCommercial    Key = "sec_commercial"
)

var allKeys = []Key{
	KeyGeneral, KeyTechnical,
	KeyPlainSummary, KeyObjectives, KeyMethods, KeyRawMaterials, KeyInstruments, KeyProcedure,
	KeyTrialHistory, KeyResults, KeyConclusion, KeyMiscellaneous, KeyReferences,
	KeyRegulatory, KeyScaleUp, KeyQuality, KeyCommercial,
}

var parents = map[Key]Key{
	KeyPlainSummary:  KeyTechnical,
	KeyObjectives:    KeyTechnical,
	KeyMethods:       KeyTechnical,
	KeyRawMaterials:  KeyMethods,
	KeyInstruments:   KeyMethods,
	KeyProcedure:     KeyMethods,
	KeyTrialHistory:  KeyMethods,
	KeyResults:       KeyTechnical,
	KeyConclusion:    KeyTechnical,
	KeyMiscellaneous: KeyTechnical,
	KeyReferences:    KeyTechnical,
}

// Keys returns every include key in document order.
func Keys() []Key {
	return slices.Clone(allKeys)
}

// Parent returns the enclosing key of k, if any.
func (k Key) Parent() (Key, bool) {
	p, ok := parents[k]
	return p, ok
}

// Valid reports whether k is a known key.
func (k Key) Valid() bool {
	return slices.Contains(allKeys, k)
}

// ParseKey accepts a key name, case-insensitively.
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownIncludeKey, s)
	}
	return k, nil
}

// Include records which sections are rendered. A missing key means
// enabled, so the zero value includes everything.
type Include map[Key]bool

// DefaultInclude returns a set with every key explicitly enabled.
func DefaultInclude() Include {
	inc := make(Include, len(allKeys))
	for _, k := range allKeys {
		inc[k] = true
	}
	return inc
}

// Has reports whether k itself is switched on.
func (inc Include) Has(k Key) bool {
	v, ok := inc[k]
	return !ok || v
}

// Enabled reports whether k and all its ancestors are switched on.
func (inc Include) Enabled(k Key) bool {
	for {
		if !inc.Has(k) {
			return false
		}
		p, ok := k.Parent()
		if !ok {
			return true
		}
		k = p
	}
}

// Without returns a copy of inc with the given keys switched off.
func (inc Include) Without(keys ...Key) Include {
	out := make(Include, len(inc)+len(keys))
	for k, v := range inc {
		out[k] = v
	}
	for _, k := range keys {
		out[k] = false
	}
	return out
}
