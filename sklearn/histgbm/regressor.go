package histgbm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/histgbm/core"
	"github.com/YuminosukeSato/histgbm/core/model"
	"github.com/YuminosukeSato/histgbm/metrics"
	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/pkg/log"
)

const regressorName = "HistGBMRegressor"

var _ core.Regressor = (*HistGBMRegressor)(nil)

// HistGBMRegressor exposes the booster through gonum matrices.
type HistGBMRegressor struct {
	state *model.StateManager

	Params Params

	// Callbacks run after every boosting round.
	Callbacks []Callback

	Ensemble *Ensemble
}

// NewHistGBMRegressor returns a regressor with DefaultParams.
func NewHistGBMRegressor() *HistGBMRegressor {
	return &HistGBMRegressor{
		state:  model.NewStateManager(regressorName),
		Params: DefaultParams(),
	}
}

// WithLearningRate sets the learning rate
func (r *HistGBMRegressor) WithLearningRate(lr float64) *HistGBMRegressor {
	r.Params.LearningRate = lr
	return r
}

// WithMaxDepth sets the maximum depth
func (r *HistGBMRegressor) WithMaxDepth(d int) *HistGBMRegressor {
	r.Params.MaxDepth = d
	return r
}

// WithNumBins sets the number of quantile bins per feature
func (r *HistGBMRegressor) WithNumBins(n int) *HistGBMRegressor {
	r.Params.NumBins = n
	return r
}

// WithLambda sets the gain regularization term
func (r *HistGBMRegressor) WithLambda(lambda float64) *HistGBMRegressor {
	r.Params.Lambda = lambda
	return r
}

// WithNumRounds sets the number of boosting rounds
func (r *HistGBMRegressor) WithNumRounds(n int) *HistGBMRegressor {
	r.Params.NumRounds = n
	return r
}

// WithWorkers sets the number of training goroutines
func (r *HistGBMRegressor) WithWorkers(n int) *HistGBMRegressor {
	r.Params.NumWorkers = n
	return r
}

// WithReuseTrainingEdges bins prediction inputs with the training edges
func (r *HistGBMRegressor) WithReuseTrainingEdges(reuse bool) *HistGBMRegressor {
	r.Params.ReuseTrainingEdges = reuse
	return r
}

// IsFitted reports whether Fit has completed.
func (r *HistGBMRegressor) IsFitted() bool {
	return r.state.IsFitted()
}

// Fit trains on X (n×d) and the column vector y (n×1).
func (r *HistGBMRegressor) Fit(X, y mat.Matrix) (err error) {
	defer histerrors.Recover(&err, "HistGBMRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows != yRows {
		return histerrors.NewDimensionError("Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return histerrors.NewDimensionError("Fit", 1, yCols, 1)
	}

	logger := log.GetLoggerWithName("histgbm.regressor").With(log.ModelNameKey, regressorName)
	booster, err := NewBooster(r.Params, WithLogger(logger), WithCallbacks(r.Callbacks...))
	if err != nil {
		return err
	}

	if err := booster.Train(denseRows(X), mat.Col(nil, 0, y)); err != nil {
		return histerrors.Wrap(err, "training failed")
	}

	r.Ensemble = booster.Ensemble()
	r.state.MarkFitted(cols, rows)
	return nil
}

// Predict returns an n×1 matrix of predictions.
func (r *HistGBMRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	_, cols := X.Dims()
	if err := r.state.RequireFeatures("Predict", cols); err != nil {
		return nil, err
	}
	preds := r.Ensemble.PredictBatch(denseRows(X))
	return mat.NewDense(len(preds), 1, preds), nil
}

// Score returns the coefficient of determination R² of the prediction.
func (r *HistGBMRegressor) Score(X, y mat.Matrix) (float64, error) {
	if err := r.state.RequireFitted("Score"); err != nil {
		return 0, err
	}
	predictions, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.RSquared(mat.Col(nil, 0, y), mat.Col(nil, 0, predictions))
}

// FeatureImportance returns normalized importance; see Ensemble.FeatureImportance.
func (r *HistGBMRegressor) FeatureImportance(importanceType string) []float64 {
	if !r.IsFitted() || r.Ensemble == nil {
		return nil
	}
	return r.Ensemble.FeatureImportance(importanceType)
}

// Save writes the fitted ensemble to path.
func (r *HistGBMRegressor) Save(path string) error {
	if err := r.state.RequireFitted("Save"); err != nil {
		return err
	}
	return r.Ensemble.Save(path)
}

// Load restores an ensemble written by Save and marks the regressor fitted.
func (r *HistGBMRegressor) Load(path string) error {
	ens, err := LoadEnsemble(path)
	if err != nil {
		return err
	}
	r.Ensemble = ens
	r.Params.LearningRate = ens.LearningRate
	r.Params.MaxDepth = ens.MaxDepth
	r.Params.NumBins = ens.NumBins
	r.Params.Lambda = ens.Lambda
	r.Params.ReuseTrainingEdges = ens.ReuseTrainingEdges
	r.state.MarkFitted(ens.NumFeatures, 0)
	return nil
}

// GetParams returns the parameters of the regressor
func (r *HistGBMRegressor) GetParams() map[string]any {
	return map[string]any{
		"learning_rate":        r.Params.LearningRate,
		"max_depth":            r.Params.MaxDepth,
		"num_bins":             r.Params.NumBins,
		"lambda":               r.Params.Lambda,
		"rounds":               r.Params.NumRounds,
		"workers":              r.Params.NumWorkers,
		"reuse_training_edges": r.Params.ReuseTrainingEdges,
	}
}

func denseRows(X mat.Matrix) [][]float64 {
	rows, _ := X.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = mat.Row(nil, i, X)
	}
	return out
}
