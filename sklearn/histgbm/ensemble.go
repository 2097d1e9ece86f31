package histgbm

import (
	"github.com/YuminosukeSato/histgbm/core/parallel"
)

// predictParallelThreshold is the batch size below which scoring stays on one goroutine.
const predictParallelThreshold = 1024

// Ensemble is the trained model: the ordered trees plus everything needed to
// bin and score new rows. It is read-only after training and safe for
// concurrent use.
type Ensemble struct {
	Trees        []Tree  `json:"trees"`
	LearningRate float64 `json:"learning_rate"`
	MaxDepth     int     `json:"max_depth"`
	NumBins      int     `json:"num_bins"`
	Lambda       float64 `json:"lambda"`

	NumFeatures int `json:"num_features"`

	// BinEdges are the edges computed from the training matrix, one per feature.
	BinEdges           []BinEdges `json:"bin_edges"`
	ReuseTrainingEdges bool       `json:"reuse_training_edges"`

	// TrainLoss is the training MSE after each round.
	TrainLoss []float64 `json:"train_loss,omitempty"`

	// Workers used for batch scoring.
	Workers int `json:"-"`
}

// NumTrees returns the number of trees in the ensemble.
func (e *Ensemble) NumTrees() int {
	return len(e.Trees)
}

// Bin converts raw features to bin ids the way PredictBatch does.
func (e *Ensemble) Bin(features [][]float64) BinnedMatrix {
	if e.ReuseTrainingEdges && len(e.BinEdges) > 0 {
		return ApplyBinEdges(features, e.BinEdges)
	}
	binned, _ := BinMatrix(features, e.NumBins)
	return binned
}

// PredictBatch scores every row. With no trees the result is all zeros.
func (e *Ensemble) PredictBatch(features [][]float64) []float64 {
	if len(features) == 0 || len(e.Trees) == 0 {
		return make([]float64, len(features))
	}
	return e.PredictBinned(e.Bin(features))
}

// PredictBinned scores rows that are already binned, for example by Bin.
func (e *Ensemble) PredictBinned(binned BinnedMatrix) []float64 {
	out := make([]float64, len(binned))
	parallel.ParallelizeWithThreshold(len(binned), predictParallelThreshold, e.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = e.PredictRow(binned[i])
		}
	})
	return out
}

// PredictRow sums the learning-rate-scaled output of every tree for one binned row.
func (e *Ensemble) PredictRow(row []uint8) float64 {
	var sum float64
	for t := range e.Trees {
		sum += e.LearningRate * e.Trees[t].Predict(row)
	}
	return sum
}

// FeatureImportance returns per-feature importance normalized to sum to 1.
// importanceType "split" counts how often a feature is used; "gain" sums the
// positive split gains. All zeros when no tree has split.
func (e *Ensemble) FeatureImportance(importanceType string) []float64 {
	importance := make([]float64, e.NumFeatures)
	for t := range e.Trees {
		for _, n := range e.Trees[t].Nodes {
			if n.Kind != InternalNode || n.FeatureIndex >= e.NumFeatures {
				continue
			}
			switch importanceType {
			case "gain":
				if n.Gain > 0 {
					importance[n.FeatureIndex] += n.Gain
				}
			default:
				importance[n.FeatureIndex]++
			}
		}
	}
	var total float64
	for _, v := range importance {
		total += v
	}
	if total > 0 {
		for f := range importance {
			importance[f] /= total
		}
	}
	return importance
}
