package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/sklearn/histgbm"
)

const sampleCSV = `Master_Index, County, Health level, Years of Experience, Prompt, Nursing Competency, Clinical Panel, Clinician, GPT4.0, LLAMA, GEMINI, DDX SNOMED
ID_1,Uasin Gishu,Sub-County Hospitals,18,A child with fever,Pediatrics,Surgery,3,2.5,,,
ID_2,Nairobi,National Referral,x,Adult with cough,General,Medicine,,1,,,
ID_3,Kiambu,Dispensaries,4.5,,Maternal,Obstetrics,abc,,,,
`

func captureWarnings(t *testing.T) *[]error {
	t.Helper()
	var warnings []error
	histerrors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { histerrors.SetWarningHandler(nil) })
	return &warnings
}

func TestTargetNames(t *testing.T) {
	assert.Equal(t, "GPT4.0", GPT4.Name())
	assert.Equal(t, "DDX SNOMED", DDXSNOMED.String())
	assert.Equal(t, "model_DDX_SNOMED.bin", DDXSNOMED.ModelFileName())
	assert.Equal(t, "model_Clinician.bin", Clinician.ModelFileName())
	assert.Equal(t, "unknown", Target(9).Name())
	assert.Len(t, AllTargets(), NumTargets)

	for _, name := range []string{"gpt4.0", "DDX_SNOMED", " llama "} {
		_, err := ParseTarget(name)
		assert.NoError(t, err, name)
	}
	tgt, err := ParseTarget("ddx_snomed")
	require.NoError(t, err)
	assert.Equal(t, DDXSNOMED, tgt)

	_, err = ParseTarget("gpt5")
	var valErr *histerrors.ValidationError
	assert.True(t, histerrors.As(err, &valErr))
}

func TestReadRecords(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	r := records[0]
	assert.Equal(t, "ID_1", r.ID)
	assert.Equal(t, "uasin gishu", r.County)
	assert.Equal(t, "sub-county hospitals", r.HealthLevel)
	assert.Equal(t, "18", r.YearsOfExperience)
	assert.Equal(t, "A child with fever", r.Prompt)
	assert.Equal(t, "pediatrics", r.NursingCompetency)
	assert.Equal(t, "surgery", r.ClinicalPanel)
	assert.True(t, r.HasLabel(Clinician))
	assert.False(t, r.HasLabel(LLAMA))

	v, ok := r.Label(GPT4)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-12)

	v, ok = records[2].Label(Clinician)
	assert.False(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestReadRecordsMissingColumns(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("Master_Index,County\nA,X\nB\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "x", records[0].County)
	assert.Equal(t, "", records[1].County)
	assert.Equal(t, "", records[0].Prompt)
}

func TestReadRecordsEmpty(t *testing.T) {
	_, err := ReadRecords(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, histerrors.Is(err, histerrors.ErrEmptyData))
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestExtractFeatures(t *testing.T) {
	warnings := captureWarnings(t)

	records, err := ReadRecords(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	rows := ExtractFeatures(records)
	require.Len(t, rows, 3)
	assert.Equal(t, []float64{11, 20, 18, 10, 7, 18}, rows[0])
	assert.Equal(t, 0.0, rows[1][2])
	assert.Equal(t, 4.5, rows[2][2])
	assert.Equal(t, 0.0, rows[2][5])
	for _, row := range rows {
		assert.Len(t, row, NumFeatures)
	}

	require.Len(t, *warnings, 1)
	var conv *histerrors.DataConversionWarning
	assert.True(t, histerrors.As((*warnings)[0], &conv))
}

func TestFeatureExtractorCategories(t *testing.T) {
	train := []Record{
		{County: "nairobi", HealthLevel: "a", NursingCompetency: "x", ClinicalPanel: "p", YearsOfExperience: "1"},
		{County: "kiambu", HealthLevel: "b", NursingCompetency: "x", ClinicalPanel: "q", YearsOfExperience: "2"},
	}
	e := NewFeatureExtractor(true)
	e.Fit(train)

	rows := e.Transform(append(train, Record{County: "mombasa", YearsOfExperience: "3"}))
	assert.Equal(t, []float64{0, 0, 1, 0, 0, 0}, rows[0])
	assert.Equal(t, []float64{1, 1, 2, 0, 1, 0}, rows[1])
	assert.Equal(t, float64(histgbm.MissingBin), rows[2][0])
	assert.Equal(t, float64(histgbm.MissingBin), rows[2][1])

	assert.Equal(t, "county_id", e.FeatureNames()[0])
	assert.Equal(t, "county_len", NewFeatureExtractor(false).FeatureNames()[0])
	assert.Len(t, e.FeatureNames(), NumFeatures)
}

func TestTargetVector(t *testing.T) {
	warnings := captureWarnings(t)

	records, err := ReadRecords(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	y, labeled := TargetVector(records, Clinician)
	assert.Equal(t, []float64{3, 0, 0}, y)
	assert.Equal(t, 2, labeled)
	assert.Len(t, *warnings, 1)

	_, labeled = TargetVector(records, GEMINI)
	assert.Equal(t, 0, labeled)
}

func TestMergeByID(t *testing.T) {
	clean := []Record{{ID: "a", County: "1"}, {ID: "b", County: "2"}, {ID: "", County: "x"}}
	raw := []Record{{ID: "c", County: "3"}, {ID: "a", County: "9"}, {ID: "", County: "y"}}

	merged := MergeByID(clean, raw)
	require.Len(t, merged, 5)
	ids := make([]string, len(merged))
	for i, r := range merged {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"a", "b", "", "c", ""}, ids)
	assert.Equal(t, "9", merged[0].County)

	assert.Empty(t, MergeByID(nil, nil))
}

func TestShuffleSplit(t *testing.T) {
	t.Run("sizes", func(t *testing.T) {
		train, val := ShuffleSplit(10, 0.8, 42)
		assert.Len(t, train, 8)
		assert.Len(t, val, 2)

		seen := make(map[int]bool)
		for _, i := range append(append([]int{}, train...), val...) {
			assert.False(t, seen[i])
			seen[i] = true
		}
		assert.Len(t, seen, 10)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, _ := ShuffleSplit(50, 0.5, 7)
		b, _ := ShuffleSplit(50, 0.5, 7)
		assert.Equal(t, a, b)
	})

	t.Run("edge cases", func(t *testing.T) {
		train, val := ShuffleSplit(2, 1.0, 1)
		assert.Len(t, train, 1)
		assert.Len(t, val, 1)

		train, val = ShuffleSplit(2, 0.0, 1)
		assert.Len(t, train, 1)
		assert.Len(t, val, 1)

		train, val = ShuffleSplit(1, 0.5, 1)
		assert.Equal(t, []int{0}, train)
		assert.Empty(t, val)

		train, val = ShuffleSplit(0, 0.5, 1)
		assert.Empty(t, train)
		assert.Empty(t, val)

		train, _ = ShuffleSplit(10, 3, 1)
		assert.Len(t, train, 8)
	})

	recs := []Record{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	sel := Select(recs, []int{2, 0})
	assert.Equal(t, "c", sel[0].ID)
	assert.Equal(t, "a", sel[1].ID)
}

func TestNpyRoundTrip(t *testing.T) {
	rows := [][]float64{{1, 2, 3}, {4, 5, 6}}
	m, err := ToDense(rows)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "features.npy")
	require.NoError(t, WriteNpy(path, m))

	got, err := ReadNpy(path)
	require.NoError(t, err)
	assert.Equal(t, rows, FromDense(got))

	_, err = ToDense(nil)
	assert.True(t, histerrors.Is(err, histerrors.ErrEmptyData))

	_, err = ToDense([][]float64{{1, 2}, {3}})
	var dimErr *histerrors.DimensionError
	assert.True(t, histerrors.As(err, &dimErr))
}
