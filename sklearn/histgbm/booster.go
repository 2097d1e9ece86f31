package histgbm

import (
	"context"
	"time"

	"github.com/YuminosukeSato/histgbm/metrics"
	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/pkg/log"
)

// Booster trains an Ensemble with squared loss.
//
// Its state between rounds is explicit: the completed round count, the running
// prediction for every training row, the residuals of the last round and the
// ensemble grown so far. A Booster is not safe for concurrent training; the
// Ensemble it returns is safe for concurrent prediction once Train returns.
type Booster struct {
	params    Params
	logger    log.Logger
	callbacks []Callback

	round       int
	predictions []float64
	residuals   []float64
	ensemble    *Ensemble
}

// Option customizes a Booster.
type Option func(*Booster)

// WithLogger sets the logger used for training progress.
func WithLogger(logger log.Logger) Option {
	return func(b *Booster) {
		b.logger = logger
	}
}

// WithCallbacks registers callbacks run after every round, in order.
func WithCallbacks(callbacks ...Callback) Option {
	return func(b *Booster) {
		b.callbacks = append(b.callbacks, callbacks...)
	}
}

// NewBooster validates params and returns an untrained Booster.
func NewBooster(params Params, opts ...Option) (*Booster, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := &Booster{
		params: params,
		logger: log.GetLoggerWithName("histgbm.booster"),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.ensemble = b.newEnsemble(0)
	return b, nil
}

func (b *Booster) newEnsemble(numFeatures int) *Ensemble {
	return &Ensemble{
		LearningRate:       b.params.LearningRate,
		MaxDepth:           b.params.MaxDepth,
		NumBins:            b.params.NumBins,
		Lambda:             b.params.Lambda,
		NumFeatures:        numFeatures,
		ReuseTrainingEdges: b.params.ReuseTrainingEdges,
		Workers:            b.params.workers(),
	}
}

// Params returns the parameters the Booster was created with.
func (b *Booster) Params() Params { return b.params }

// Round returns the number of completed rounds.
func (b *Booster) Round() int { return b.round }

// Ensemble returns the model trained so far.
func (b *Booster) Ensemble() *Ensemble { return b.ensemble }

// Predictions returns a copy of the running training predictions.
func (b *Booster) Predictions() []float64 {
	out := make([]float64, len(b.predictions))
	copy(out, b.predictions)
	return out
}

// PredictBatch scores features with the trained ensemble.
func (b *Booster) PredictBatch(features [][]float64) []float64 {
	return b.ensemble.PredictBatch(features)
}

// Train runs Params.NumRounds boosting rounds from scratch.
func (b *Booster) Train(features [][]float64, targets []float64) error {
	return b.TrainContext(context.Background(), features, targets)
}

// TrainContext is Train with cancellation checked between rounds.
// On cancellation the rounds completed so far are kept.
func (b *Booster) TrainContext(ctx context.Context, features [][]float64, targets []float64) (err error) {
	defer histerrors.Recover(&err, "Booster.Train")

	numFeatures, err := validateTrainingData(features, targets)
	if err != nil {
		return err
	}

	n := len(features)
	b.round = 0
	b.predictions = make([]float64, n)
	b.residuals = make([]float64, n)
	b.ensemble = b.newEnsemble(numFeatures)

	logger := b.logger.With(log.OperationKey, log.OperationFit)
	logger.Info("Training started",
		log.SamplesKey, n,
		log.FeaturesKey, numFeatures,
		log.LearningRateKey, b.params.LearningRate,
		log.MaxDepthKey, b.params.MaxDepth,
		log.NumBinsKey, b.params.NumBins,
		log.RegularizationKey, b.params.Lambda,
	)

	begin := time.Now()
	for b.round < b.params.NumRounds {
		if err := ctx.Err(); err != nil {
			return histerrors.Wrapf(err, "training stopped after %d rounds", b.round)
		}

		roundStart := time.Now()
		loss, err := b.step(features, targets)
		if err != nil {
			logger.Error("Boosting round failed", err, log.IterationKey, b.round+1)
			return err
		}

		env := &CallbackEnv{
			Ensemble:  b.ensemble,
			Round:     b.round,
			Loss:      loss,
			BeginTime: begin,
			Elapsed:   time.Since(roundStart),
		}
		for _, cb := range b.callbacks {
			if err := cb(env); err != nil {
				return histerrors.Wrapf(err, "callback failed at round %d", b.round)
			}
		}
		if env.StopTraining {
			logger.Info("Training stopped by callback", log.IterationKey, b.round)
			break
		}
	}

	logger.Info("Training completed",
		log.TreesKey, len(b.ensemble.Trees),
		log.DurationMsKey, time.Since(begin).Milliseconds(),
	)
	return nil
}

// step runs one round and returns the training MSE after it.
func (b *Booster) step(features [][]float64, targets []float64) (float64, error) {
	for i := range targets {
		b.residuals[i] = targets[i] - b.predictions[i]
	}

	// Edges come from the training matrix every round; they never change
	// across rounds because the matrix does not.
	binned, edges := BinMatrix(features, b.params.NumBins)
	b.ensemble.BinEdges = edges

	builder := newTreeBuilder(binned, b.residuals, b.params.MaxDepth, b.params.NumBins, b.params.Lambda, b.params.workers())
	tree := builder.build()

	for i := range b.predictions {
		b.predictions[i] += b.params.LearningRate * tree.Predict(binned[i])
	}
	b.ensemble.Trees = append(b.ensemble.Trees, *tree)
	b.round++

	if err := histerrors.CheckNumericalStability("predictions", b.predictions, b.round); err != nil {
		return 0, err
	}

	loss := metrics.ComputeMSE(targets, b.predictions)
	if err := histerrors.CheckScalar("training loss", loss, b.round); err != nil {
		return 0, err
	}
	b.ensemble.TrainLoss = append(b.ensemble.TrainLoss, loss)

	if b.logger.Enabled(context.Background(), log.LevelDebug) {
		b.logger.Debug("Tree built",
			log.IterationKey, b.round,
			log.LossKey, loss,
			"nodes", len(tree.Nodes),
			"depth", tree.Depth(),
		)
	}
	return loss, nil
}

func validateTrainingData(features [][]float64, targets []float64) (int, error) {
	if len(features) == 0 {
		return 0, histerrors.Wrap(histerrors.ErrEmptyData, "Booster.Train")
	}
	if len(features) != len(targets) {
		return 0, histerrors.NewDimensionError("Booster.Train", len(features), len(targets), 0)
	}
	numFeatures := len(features[0])
	for _, row := range features {
		if len(row) != numFeatures {
			return 0, histerrors.NewDimensionError("Booster.Train", numFeatures, len(row), 1)
		}
	}
	return numFeatures, nil
}
