// Package pipeline trains, evaluates, stores and applies one booster per
// label column.
package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/YuminosukeSato/histgbm/core/model"
	"github.com/YuminosukeSato/histgbm/dataset"
	"github.com/YuminosukeSato/histgbm/metrics"
	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/pkg/log"
	"github.com/YuminosukeSato/histgbm/sklearn/histgbm"
)

// ExtractorFileName is the file the feature extractor is saved under,
// next to the model files.
const ExtractorFileName = "features.bin"

// Models holds a trained ensemble per target plus the feature extractor
// they were trained with. Targets without labeled data have no entry.
type Models struct {
	Extractor *dataset.FeatureExtractor
	Ensembles map[dataset.Target]*histgbm.Ensemble
}

// Targets lists the targets that have a model, in output order.
func (m *Models) Targets() []dataset.Target {
	var out []dataset.Target
	for _, t := range dataset.AllTargets() {
		if _, ok := m.Ensembles[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// TrainOptions controls TrainModels.
type TrainOptions struct {
	Params           histgbm.Params
	EncodeCategories bool
	// LogPeriod logs the training loss every LogPeriod rounds; 0 disables it.
	LogPeriod int
	// EarlyStoppingRounds stops a target's training when the loss has not
	// improved for that many rounds; 0 disables it.
	EarlyStoppingRounds int
	// TimeLimit stops a target's training once it has run that long; 0
	// disables it.
	TimeLimit time.Duration
	Logger    log.Logger
}

// DefaultTrainOptions returns histgbm.DefaultParams in length mode.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Params: histgbm.DefaultParams()}
}

// TrainModels fits the feature extractor on records and trains one booster
// per target that has at least one labeled record. Rows without a label for
// a trained target count as 0.
func TrainModels(ctx context.Context, records []dataset.Record, opts TrainOptions) (*Models, error) {
	if len(records) == 0 {
		return nil, histerrors.Wrap(histerrors.ErrEmptyData, "TrainModels")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetLoggerWithName("histgbm.pipeline")
	}

	extractor := dataset.NewFeatureExtractor(opts.EncodeCategories)
	extractor.Fit(records)
	features := extractor.Transform(records)

	models := &Models{
		Extractor: extractor,
		Ensembles: make(map[dataset.Target]*histgbm.Ensemble, dataset.NumTargets),
	}

	start := time.Now()
	for _, t := range dataset.AllTargets() {
		targets, labeled := dataset.TargetVector(records, t)
		tlog := logger.With(log.TargetKey, t.Name())
		if labeled == 0 {
			tlog.Warn("No labeled records, skipping target")
			continue
		}

		var callbacks []histgbm.Callback
		if opts.LogPeriod > 0 {
			callbacks = append(callbacks, histgbm.LogEvaluation(tlog, opts.LogPeriod))
		}
		if opts.EarlyStoppingRounds > 0 {
			callbacks = append(callbacks, histgbm.EarlyStopping(opts.EarlyStoppingRounds, 0))
		}
		if opts.TimeLimit > 0 {
			callbacks = append(callbacks, histgbm.TimeLimit(opts.TimeLimit))
		}

		booster, err := histgbm.NewBooster(opts.Params,
			histgbm.WithLogger(tlog),
			histgbm.WithCallbacks(callbacks...),
		)
		if err != nil {
			return nil, err
		}
		if err := booster.TrainContext(ctx, features, targets); err != nil {
			return nil, histerrors.Wrapf(err, "train %s", t.Name())
		}
		models.Ensembles[t] = booster.Ensemble()
	}

	logger.Info("Models trained",
		log.SamplesKey, len(records),
		"models", len(models.Ensembles),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return models, nil
}

// PredictAll scores records with every model. The returned map has an entry
// for each target with a model, aligned with records.
func (m *Models) PredictAll(records []dataset.Record) map[dataset.Target][]float64 {
	out := make(map[dataset.Target][]float64, len(m.Ensembles))
	if len(m.Ensembles) == 0 {
		return out
	}
	features := m.extractor().Transform(records)
	for t, e := range m.Ensembles {
		out[t] = e.PredictBatch(features)
	}
	return out
}

// Evaluate compares predictions with the labels of records. Only records
// carrying a label for a target count toward that target's metrics; targets
// with no model or no labeled record are left out.
func (m *Models) Evaluate(records []dataset.Record) (map[dataset.Target]metrics.Evaluation, error) {
	preds := m.PredictAll(records)
	out := make(map[dataset.Target]metrics.Evaluation, len(preds))
	for _, t := range m.Targets() {
		var yTrue, yPred []float64
		for i := range records {
			if !records[i].HasLabel(t) {
				continue
			}
			v, _ := records[i].Label(t)
			yTrue = append(yTrue, v)
			yPred = append(yPred, preds[t][i])
		}
		if len(yTrue) == 0 {
			continue
		}
		ev, err := metrics.Evaluate(yTrue, yPred)
		if err != nil {
			return nil, histerrors.Wrapf(err, "evaluate %s", t.Name())
		}
		out[t] = ev
	}
	return out, nil
}

// TrainLoss returns each model's per-round training MSE.
func (m *Models) TrainLoss() map[dataset.Target][]float64 {
	out := make(map[dataset.Target][]float64, len(m.Ensembles))
	for t, e := range m.Ensembles {
		out[t] = e.TrainLoss
	}
	return out
}

func (m *Models) extractor() *dataset.FeatureExtractor {
	if m.Extractor == nil {
		return dataset.NewFeatureExtractor(false)
	}
	return m.Extractor
}

// Save writes every model to dir as <dir>/model_<target>.bin and the
// feature extractor as <dir>/features.bin.
func (m *Models) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return histerrors.Wrapf(err, "create %s", dir)
	}
	for _, t := range m.Targets() {
		path := filepath.Join(dir, t.ModelFileName())
		if err := m.Ensembles[t].Save(path); err != nil {
			return histerrors.Wrapf(err, "save %s", t.Name())
		}
	}
	if err := model.SaveModel(m.extractor(), filepath.Join(dir, ExtractorFileName)); err != nil {
		return err
	}
	log.GetLoggerWithName("histgbm.pipeline").Info("Models saved",
		log.PathKey, dir,
		"models", len(m.Ensembles),
	)
	return nil
}

// LoadModels reads the model files Save wrote. Missing model files are
// skipped; a missing extractor file means length mode. A directory with no
// model file yields ErrNoModels.
func LoadModels(dir string) (*Models, error) {
	m := &Models{Ensembles: make(map[dataset.Target]*histgbm.Ensemble, dataset.NumTargets)}
	for _, t := range dataset.AllTargets() {
		path := filepath.Join(dir, t.ModelFileName())
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		e, err := histgbm.LoadEnsemble(path)
		if err != nil {
			return nil, histerrors.Wrapf(err, "load %s", t.Name())
		}
		m.Ensembles[t] = e
	}
	if len(m.Ensembles) == 0 {
		return nil, histerrors.Wrapf(histerrors.ErrNoModels, "load %s", dir)
	}

	path := filepath.Join(dir, ExtractorFileName)
	m.Extractor = dataset.NewFeatureExtractor(false)
	if _, err := os.Stat(path); err == nil {
		if err := model.LoadModel(m.Extractor, path); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Clamp rounds value to the nearest integer and limits it to [0, n-1].
// It returns 0 when n < 1.
func Clamp(value float64, n int) int {
	if n < 1 || math.IsNaN(value) {
		return 0
	}
	idx := math.Round(value)
	if idx < 0 {
		return 0
	}
	if idx >= float64(n) {
		return n - 1
	}
	return int(idx)
}
