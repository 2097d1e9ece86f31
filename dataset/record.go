// Package dataset loads clinical vignette records and turns them into the
// numeric matrices the booster trains on.
package dataset

import (
	"strings"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

// Target identifies one label column.
type Target int

const (
	Clinician Target = iota
	GPT4
	LLAMA
	GEMINI
	DDXSNOMED

	// NumTargets is the number of label columns.
	NumTargets = 5
)

var targetNames = [NumTargets]string{"Clinician", "GPT4.0", "LLAMA", "GEMINI", "DDX SNOMED"}

// AllTargets returns every target in output column order.
func AllTargets() []Target {
	return []Target{Clinician, GPT4, LLAMA, GEMINI, DDXSNOMED}
}

// Name returns the column name used in input and output files.
func (t Target) Name() string {
	if t < 0 || int(t) >= NumTargets {
		return "unknown"
	}
	return targetNames[t]
}

func (t Target) String() string { return t.Name() }

// ModelFileName returns the file a model for t is saved under.
func (t Target) ModelFileName() string {
	return "model_" + strings.ReplaceAll(t.Name(), " ", "_") + ".bin"
}

// ParseTarget matches name case-insensitively against the target names.
// Underscores are accepted in place of spaces.
func ParseTarget(name string) (Target, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
	for _, t := range AllTargets() {
		if strings.ToLower(t.Name()) == norm {
			return t, nil
		}
	}
	return 0, histerrors.NewValidationError("target", "unknown target", name)
}

// Record is one row of the input table. All fields hold the raw text;
// an empty ID or label means the value is missing.
type Record struct {
	ID                string             `json:"master_index"`
	County            string             `json:"county"`
	HealthLevel       string             `json:"health_level"`
	YearsOfExperience string             `json:"years_of_experience"`
	Prompt            string             `json:"prompt"`
	NursingCompetency string             `json:"nursing_competency"`
	ClinicalPanel     string             `json:"clinical_panel"`
	Labels            [NumTargets]string `json:"-"`
}

// HasLabel reports whether the record carries a value for t.
func (r *Record) HasLabel(t Target) bool {
	return strings.TrimSpace(r.Labels[t]) != ""
}

// Label parses the label for t. Missing or unparseable text yields 0 and false.
func (r *Record) Label(t Target) (float64, bool) {
	return parseNumber(r.Labels[t])
}
