package histgbm

import (
	"math"
	"runtime"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

// Params configures a Booster.
type Params struct {
	LearningRate float64 `json:"learning_rate" koanf:"learning_rate"`
	MaxDepth     int     `json:"max_depth" koanf:"max_depth"`
	NumBins      int     `json:"num_bins" koanf:"num_bins"`
	Lambda       float64 `json:"lambda" koanf:"lambda"`
	NumRounds    int     `json:"rounds" koanf:"rounds"`

	// NumWorkers > 1 builds histograms and subtrees concurrently. Results are
	// identical to the sequential build. A negative value means runtime.NumCPU().
	NumWorkers int `json:"workers" koanf:"workers"`

	// ReuseTrainingEdges bins prediction inputs with the edges computed from
	// the training matrix. When false every PredictBatch call derives fresh
	// edges from the rows being scored.
	ReuseTrainingEdges bool `json:"reuse_training_edges" koanf:"reuse_training_edges"`
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		LearningRate: 0.1,
		MaxDepth:     3,
		NumBins:      32,
		Lambda:       1.0,
		NumRounds:    50,
		NumWorkers:   1,
	}
}

// Validate reports the first out-of-range parameter.
func (p Params) Validate() error {
	switch {
	case math.IsNaN(p.LearningRate) || math.IsInf(p.LearningRate, 0) || p.LearningRate <= 0:
		return histerrors.NewValidationError("learning_rate", "must be a positive finite number", p.LearningRate)
	case p.MaxDepth < 0:
		return histerrors.NewValidationError("max_depth", "must be non-negative", p.MaxDepth)
	case p.NumBins < 1 || p.NumBins > 256:
		return histerrors.NewValidationError("num_bins", "must be in [1, 256]", p.NumBins)
	case math.IsNaN(p.Lambda) || p.Lambda < 0:
		return histerrors.NewValidationError("lambda", "must be non-negative", p.Lambda)
	case p.NumRounds < 0:
		return histerrors.NewValidationError("rounds", "must be non-negative", p.NumRounds)
	}
	return nil
}

// workers resolves NumWorkers to a concrete goroutine count.
func (p Params) workers() int {
	if p.NumWorkers < 0 {
		return runtime.NumCPU()
	}
	if p.NumWorkers == 0 {
		return 1
	}
	return p.NumWorkers
}
