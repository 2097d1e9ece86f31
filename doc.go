// Package histgbm is a histogram-based gradient-boosted regression tree
// library for Go, built for training small tabular models and serving them
// from backend services.
//
// Features are quantized into at most 255 quantile bins per column, trees
// are grown greedily on per-bin gradient histograms, and an ensemble of
// shrunken trees is fitted to squared loss one round at a time.
//
// # Features
//
//   - Deterministic training: the concurrent build produces the same trees as
//     the sequential one
//   - Arena trees: nodes live in one slice and prediction walks it without
//     recursion
//   - gob and JSON persistence, graphviz rendering of single trees
//   - A gonum based regressor (Fit/Predict/Score) next to the slice API
//   - A CLI and an HTTP service for the per-target clinical vignette workflow
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/histgbm/sklearn/histgbm"
//	)
//
//	func main() {
//	    features := [][]float64{{1}, {2}, {3}, {4}}
//	    targets := []float64{-1, -1, 1, 1}
//
//	    params := histgbm.DefaultParams()
//	    params.NumBins = 4
//	    booster, err := histgbm.NewBooster(params)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := booster.Train(features, targets); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(booster.PredictBatch(features))
//	}
//
// # Packages
//
//   - sklearn/histgbm: binning, histograms, split search, tree building,
//     prediction, the Booster and HistGBMRegressor
//   - dataset: CSV records, feature extraction, merge and split helpers, .npy I/O
//   - pipeline: one model per target, evaluation, model directories
//   - report: prediction CSV, evaluation tables, learning-curve plots
//   - server: HTTP prediction service with Prometheus metrics
//   - metrics: MSE, RMSE, MAE, R²
//   - core/model: fitted-state tracking and gob persistence
//   - core/parallel: range-splitting worker helpers
//   - pkg/errors, pkg/log: structured errors, warnings and logging
//
// The histgbm command (cmd/histgbm) wires these together; see
// "histgbm --help".
package histgbm
