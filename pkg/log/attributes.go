// Package log defines standard attribute keys for boosting operations.
//
// Using these keys keeps the training, prediction, CLI and service logs
// filterable with the same queries. Keys follow a hierarchical naming
// convention (e.g. "model.name", "data.samples").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "HistGBMRegressor".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "save", "load"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging, e.g. "histgbm.booster".
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	PhaseKey = "ml.phase"

	// TargetKey names the label column a model is trained for.
	TargetKey = "data.target"

	// TreesKey records the number of trees in an ensemble.
	TreesKey = "model.trees"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// PathKey records the file a dataset or model was read from or written to.
	PathKey = "data.path"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records a loss value (training MSE for the booster).
	LossKey = "metrics.loss"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// IterationKey records the current boosting round.
	IterationKey = "training.iteration"
)

// Prediction context
const (
	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Hyperparameters
const (
	// LearningRateKey records the shrinkage applied to every tree.
	LearningRateKey = "hyperparams.learning_rate"

	// RegularizationKey records the lambda ridge term of the gain formula.
	RegularizationKey = "hyperparams.regularization"

	// MaxDepthKey records the tree depth limit.
	MaxDepthKey = "hyperparams.max_depth"

	// NumBinsKey records the number of quantile bins per feature.
	NumBinsKey = "hyperparams.num_bins"

	// RandomSeedKey records the seed used for the validation split.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
	OperationSave    = "save"
	OperationLoad    = "load"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseInference  = "inference"
)
