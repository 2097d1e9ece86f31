package dataset

import (
	"fmt"
	"strconv"
	"strings"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/sklearn/histgbm"
)

// NumFeatures is the width of every extracted feature row.
const NumFeatures = 6

// parseNumber parses s as a float after trimming spaces.
// Anything unparseable becomes 0 and false.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FeatureExtractor maps records to numeric rows of NumFeatures columns:
//
//	0 county, 1 health level, 2 years of experience,
//	3 nursing competency, 4 clinical panel, 5 prompt length
//
// By default the categorical columns are the byte lengths of their text.
// With EncodeCategories they are CategoryMap ids learned by Fit, and text
// not seen during Fit maps to histgbm.MissingBin.
type FeatureExtractor struct {
	EncodeCategories bool

	County            *histgbm.CategoryMap
	HealthLevel       *histgbm.CategoryMap
	NursingCompetency *histgbm.CategoryMap
	ClinicalPanel     *histgbm.CategoryMap
}

// NewFeatureExtractor returns an extractor in length mode or, when
// encodeCategories is set, in category-id mode.
func NewFeatureExtractor(encodeCategories bool) *FeatureExtractor {
	return &FeatureExtractor{EncodeCategories: encodeCategories}
}

// Fit learns the category maps from records. It is a no-op in length mode.
func (e *FeatureExtractor) Fit(records []Record) {
	if !e.EncodeCategories {
		return
	}
	column := func(get func(*Record) string) *histgbm.CategoryMap {
		values := make([]string, len(records))
		for i := range records {
			values[i] = get(&records[i])
		}
		return histgbm.BuildCategoryMapFromStrings(values)
	}
	e.County = column(func(r *Record) string { return r.County })
	e.HealthLevel = column(func(r *Record) string { return r.HealthLevel })
	e.NursingCompetency = column(func(r *Record) string { return r.NursingCompetency })
	e.ClinicalPanel = column(func(r *Record) string { return r.ClinicalPanel })
}

// FeatureNames returns a name per output column.
func (e *FeatureExtractor) FeatureNames() []string {
	suffix := "_len"
	if e.EncodeCategories {
		suffix = "_id"
	}
	return []string{
		"county" + suffix,
		"health_level" + suffix,
		"years_of_experience",
		"nursing_competency" + suffix,
		"clinical_panel" + suffix,
		"prompt_len",
	}
}

// Transform extracts one row per record. Years of experience that do not
// parse become 0; a single DataConversionWarning reports how many did so.
func (e *FeatureExtractor) Transform(records []Record) [][]float64 {
	out := make([][]float64, len(records))
	unparsed := 0
	for i := range records {
		r := &records[i]
		years, ok := parseNumber(r.YearsOfExperience)
		if !ok && strings.TrimSpace(r.YearsOfExperience) != "" {
			unparsed++
		}
		out[i] = []float64{
			e.categorical(e.County, r.County),
			e.categorical(e.HealthLevel, r.HealthLevel),
			years,
			e.categorical(e.NursingCompetency, r.NursingCompetency),
			e.categorical(e.ClinicalPanel, r.ClinicalPanel),
			float64(len(r.Prompt)),
		}
	}
	if unparsed > 0 {
		histerrors.Warn(histerrors.NewDataConversionWarning("string", "float64",
			fmt.Sprintf("%d of %d years of experience values are not numbers and were set to 0", unparsed, len(records))))
	}
	return out
}

func (e *FeatureExtractor) categorical(m *histgbm.CategoryMap, v string) float64 {
	if !e.EncodeCategories {
		return float64(len(v))
	}
	if m == nil || strings.TrimSpace(v) == "" {
		return float64(histgbm.MissingBin)
	}
	return float64(m.Lookup(v))
}

// ExtractFeatures is Transform in length mode.
func ExtractFeatures(records []Record) [][]float64 {
	return NewFeatureExtractor(false).Transform(records)
}

// TargetVector returns the label of t for every record plus the number of
// records that carry one. Missing and unparseable labels are 0.
func TargetVector(records []Record, t Target) ([]float64, int) {
	out := make([]float64, len(records))
	labeled, unparsed := 0, 0
	for i := range records {
		if !records[i].HasLabel(t) {
			continue
		}
		labeled++
		v, ok := records[i].Label(t)
		if !ok {
			unparsed++
		}
		out[i] = v
	}
	if unparsed > 0 {
		histerrors.Warn(histerrors.NewDataConversionWarning("string", "float64",
			fmt.Sprintf("%d %s labels are not numbers and were set to 0", unparsed, t.Name())))
	}
	return out, labeled
}
