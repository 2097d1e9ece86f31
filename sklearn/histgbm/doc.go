// Package histgbm implements histogram-based gradient boosting for regression.
//
// Training proceeds in rounds. Each round quantile-bins the feature matrix into
// at most NumBins bins per column, fits one depth-limited regression tree to the
// current residuals using per-feature gradient histograms, and adds the
// learning-rate-scaled tree output to the running prediction.
//
// Basic usage:
//
//	params := histgbm.DefaultParams()
//	params.NumRounds = 100
//
//	booster, err := histgbm.NewBooster(params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := booster.Train(features, targets); err != nil {
//	    log.Fatal(err)
//	}
//	predictions := booster.PredictBatch(testFeatures)
//
// The gonum based HistGBMRegressor wraps the same engine behind Fit/Predict/Score
// for callers working with mat.Matrix values.
//
// Bin id 255 (MissingBin) marks a missing or unknown category. It is compared
// numerically like any other bin during prediction, so it always routes right.
package histgbm
