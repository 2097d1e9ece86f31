package histgbm

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

func regressionMatrices(seed int64, rows int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))
	X, y := randomRegression(rng, rows, 3)
	flat := make([]float64, 0, rows*3)
	for _, row := range X {
		flat = append(flat, row...)
	}
	return mat.NewDense(rows, 3, flat), mat.NewDense(rows, 1, y)
}

func TestHistGBMRegressorFitPredictScore(t *testing.T) {
	X, y := regressionMatrices(31, 400)

	reg := NewHistGBMRegressor().
		WithNumRounds(60).
		WithLearningRate(0.2).
		WithMaxDepth(4).
		WithNumBins(32).
		WithLambda(1).
		WithReuseTrainingEdges(true)
	require.False(t, reg.IsFitted())
	require.NoError(t, reg.Fit(X, y))
	require.True(t, reg.IsFitted())

	preds, err := reg.Predict(X)
	require.NoError(t, err)
	rows, cols := preds.Dims()
	assert.Equal(t, 400, rows)
	assert.Equal(t, 1, cols)

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.3)

	importance := reg.FeatureImportance("split")
	require.Len(t, importance, 3)
	assert.InDelta(t, 1.0, importance[0]+importance[1]+importance[2], 1e-9)
}

func TestHistGBMRegressorErrors(t *testing.T) {
	reg := NewHistGBMRegressor()
	X, y := regressionMatrices(1, 10)

	_, err := reg.Predict(X)
	var nf *histerrors.NotFittedError
	require.True(t, histerrors.As(err, &nf))
	assert.Equal(t, "Predict", nf.Method)

	_, err = reg.Score(X, y)
	require.True(t, histerrors.As(err, &nf))

	assert.Nil(t, reg.FeatureImportance("split"))

	var dim *histerrors.DimensionError
	err = reg.Fit(X, mat.NewDense(9, 1, nil))
	require.True(t, histerrors.As(err, &dim))

	err = reg.Fit(X, mat.NewDense(10, 2, nil))
	require.True(t, histerrors.As(err, &dim))

	require.NoError(t, reg.Fit(X, y))
	_, err = reg.Predict(mat.NewDense(2, 4, nil))
	require.True(t, histerrors.As(err, &dim))
	assert.Equal(t, 3, dim.Expected)

	bad := NewHistGBMRegressor().WithNumBins(0)
	var valErr *histerrors.ValidationError
	require.True(t, histerrors.As(bad.Fit(X, y), &valErr))
}

func TestHistGBMRegressorSaveLoad(t *testing.T) {
	X, y := regressionMatrices(5, 80)
	reg := NewHistGBMRegressor().WithNumRounds(5).WithWorkers(2)
	require.NoError(t, reg.Fit(X, y))

	path := filepath.Join(t.TempDir(), "reg.bin")
	require.NoError(t, reg.Save(path))

	restored := NewHistGBMRegressor()
	require.NoError(t, restored.Load(path))
	assert.True(t, restored.IsFitted())

	want, err := reg.Predict(X)
	require.NoError(t, err)
	got, err := restored.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	assert.Equal(t, reg.GetParams()["num_bins"], restored.GetParams()["num_bins"])
	assert.Error(t, NewHistGBMRegressor().Save(path))
}
