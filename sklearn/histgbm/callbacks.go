package histgbm

import (
	"math"
	"time"

	"github.com/YuminosukeSato/histgbm/pkg/log"
)

// CallbackEnv is passed to every Callback after a round completes.
type CallbackEnv struct {
	Ensemble *Ensemble
	// Round is 1-based.
	Round     int
	Loss      float64
	BeginTime time.Time
	Elapsed   time.Duration

	// StopTraining ends training after this round when set by a callback.
	StopTraining bool
}

// Callback observes training progress. A non-nil error aborts training.
type Callback func(env *CallbackEnv) error

// LogEvaluation logs the training loss every period rounds.
func LogEvaluation(logger log.Logger, period int) Callback {
	if period < 1 {
		period = 1
	}
	return func(env *CallbackEnv) error {
		if env.Round%period == 0 {
			logger.Info("Boosting round finished",
				log.IterationKey, env.Round,
				log.LossKey, env.Loss,
				log.DurationMsKey, env.Elapsed.Milliseconds(),
			)
		}
		return nil
	}
}

// RecordLoss appends each round's loss to history.
func RecordLoss(history *[]float64) Callback {
	return func(env *CallbackEnv) error {
		*history = append(*history, env.Loss)
		return nil
	}
}

// EarlyStopping stops once the training loss has not improved by more than
// minDelta for rounds consecutive rounds.
func EarlyStopping(rounds int, minDelta float64) Callback {
	best := math.Inf(1)
	stale := 0
	return func(env *CallbackEnv) error {
		if env.Loss < best-minDelta {
			best = env.Loss
			stale = 0
			return nil
		}
		stale++
		if stale >= rounds {
			env.StopTraining = true
		}
		return nil
	}
}

// TimeLimit stops training once maxDuration has elapsed since training began.
func TimeLimit(maxDuration time.Duration) Callback {
	return func(env *CallbackEnv) error {
		if time.Since(env.BeginTime) > maxDuration {
			env.StopTraining = true
		}
		return nil
	}
}
