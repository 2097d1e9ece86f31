package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/histgbm/pkg/errors"
)

func TestComputeMSE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{"one off by one", []float64{1, 2, 3}, []float64{1, 2, 4}, 1.0 / 3.0},
		{"perfect", []float64{1, 2}, []float64{1, 2}, 0},
		{"empty", nil, nil, 0},
		{"truncates to shorter", []float64{1, 2, 3}, []float64{2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeMSE(tt.yTrue, tt.yPred), 1e-9)
		})
	}
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			yPred: mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			want:  0,
		},
		{
			name:  "half offsets",
			yTrue: mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred: mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			want:  0.25,
		},
		{
			name:  "larger errors",
			yTrue: mat.NewVecDense(3, []float64{10, 20, 30}),
			yPred: mat.NewVecDense(3, []float64{12, 18, 33}),
			want:  17.0 / 3.0,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewVecDense(2, []float64{1, 2}),
			wantErr: true,
		},
		{
			name:    "empty vectors",
			yTrue:   &mat.VecDense{},
			yPred:   &mat.VecDense{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestMSEErrorTypes(t *testing.T) {
	_, err := MeanSquaredError([]float64{1, 2}, []float64{1})
	var dim *errors.DimensionError
	require.True(t, errors.As(err, &dim))
	assert.Equal(t, 2, dim.Expected)
	assert.Equal(t, 1, dim.Got)

	_, err = MeanSquaredError(nil, nil)
	var val *errors.ValueError
	assert.True(t, errors.As(err, &val))
}

func TestMSEMatrix(t *testing.T) {
	yTrue := mat.NewDense(3, 1, []float64{1, 2, 3})
	yPred := mat.NewDense(3, 1, []float64{1, 2, 4})
	got, err := MSEMatrix(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, got, 1e-10)

	_, err = MSEMatrix(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil))
	assert.Error(t, err)

	_, err = MSEMatrix(mat.NewDense(3, 1, nil), mat.NewDense(2, 1, nil))
	assert.Error(t, err)
}

func TestRMSEAndMAE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{2, 2, 3, 6})

	rmse, err := RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1.118034, rmse, 1e-6) // sqrt(5/4)

	mae, err := MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, mae, 1e-10)
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{"perfect prediction", []float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4, 5}, 1},
		{"worse than mean", []float64{1, 2, 3, 4}, []float64{4, 3, 2, 1}, -3},
		{"mean baseline", []float64{1, 2, 3}, []float64{2, 2, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(mat.NewVecDense(len(tt.yTrue), tt.yTrue), mat.NewVecDense(len(tt.yPred), tt.yPred))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestR2ScoreConstantTargetWarns(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	got, err := RSquared([]float64{3, 3, 3}, []float64{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	got, err = RSquared([]float64{3, 3}, []float64{3, 3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	require.Len(t, warnings, 2)
	var w *errors.UndefinedMetricWarning
	assert.True(t, errors.As(warnings[0], &w))
}

func TestEvaluate(t *testing.T) {
	ev, err := Evaluate([]float64{1, 2, 3}, []float64{1, 2, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, ev.MSE, 1e-10)
	assert.InDelta(t, 0.57735, ev.RMSE, 1e-5)
	assert.InDelta(t, 1.0/3.0, ev.MAE, 1e-10)
	assert.InDelta(t, 0.5, ev.R2, 1e-10)
	assert.InDelta(t, 2.0/3.0, ev.Accuracy, 1e-10)
	assert.Equal(t, 3, ev.Samples)

	_, err = Evaluate([]float64{1}, nil)
	assert.Error(t, err)
}

func TestRoundedAccuracy(t *testing.T) {
	acc, err := RoundedAccuracy([]float64{0, 1, 2, 3}, []float64{0.4, 1.6, 2.2, -0.2})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, acc, 1e-12)

	_, err = RoundedAccuracy(nil, nil)
	assert.Error(t, err)
}

func BenchmarkComputeMSE(b *testing.B) {
	size := 10000
	yTrue := make([]float64, size)
	yPred := make([]float64, size)
	for i := range yTrue {
		yTrue[i] = float64(i)
		yPred[i] = float64(i) + 0.1*float64(i%10)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ComputeMSE(yTrue, yPred)
	}
}
