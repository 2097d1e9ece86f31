package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/histgbm/dataset"
	"github.com/YuminosukeSato/histgbm/internal/config"
	"github.com/YuminosukeSato/histgbm/pipeline"
	"github.com/YuminosukeSato/histgbm/pkg/log"
	"github.com/YuminosukeSato/histgbm/report"
)

// dataFlags overrides the data section of the configuration.
type dataFlags struct {
	train, raw, test, testRaw, output string
	modelDir, curve                   string
}

func (f *dataFlags) register(cmd *cobra.Command, train, test bool) {
	if train {
		cmd.Flags().StringVar(&f.train, "train", "", "training CSV (overrides data.train)")
		cmd.Flags().StringVar(&f.raw, "raw", "", "CSV merged over the training records by Master_Index (overrides data.raw)")
		cmd.Flags().StringVar(&f.curve, "curve", "", "write a learning-curve plot to this file (.png, .svg or .pdf)")
	}
	if test {
		cmd.Flags().StringVar(&f.test, "test", "", "test CSV (overrides data.test)")
		cmd.Flags().StringVar(&f.testRaw, "test-raw", "", "CSV merged over the test records by Master_Index (overrides data.test_raw)")
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "prediction CSV (overrides data.output)")
	}
	cmd.Flags().StringVar(&f.modelDir, "model-dir", "", "model directory (overrides data.model_dir)")
}

func (f *dataFlags) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Data.Train, f.train)
	set(&cfg.Data.Raw, f.raw)
	set(&cfg.Data.Test, f.test)
	set(&cfg.Data.TestRaw, f.testRaw)
	set(&cfg.Data.Output, f.output)
	set(&cfg.Data.ModelDir, f.modelDir)
}

// readMerged reads the records at path and, when rawPath is set, merges the
// raw records over them by ID.
func readMerged(path, rawPath string) ([]dataset.Record, error) {
	records, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	if rawPath == "" {
		return records, nil
	}
	raw, err := dataset.ReadCSV(rawPath)
	if err != nil {
		return nil, err
	}
	return dataset.MergeByID(records, raw), nil
}

func loadTraining(cfg *config.Config) ([]dataset.Record, error) {
	return readMerged(cfg.Data.Train, cfg.Data.Raw)
}

func loadTest(cfg *config.Config) ([]dataset.Record, error) {
	return readMerged(cfg.Data.Test, cfg.Data.TestRaw)
}

// trainFromConfig trains and saves models. It returns the held-out
// validation records, which are empty when no validation fraction is set.
func trainFromConfig(ctx context.Context, cfg *config.Config, curve string) (*pipeline.Models, []dataset.Record, error) {
	logger := log.GetLoggerWithName("histgbm.cli")

	records, err := loadTraining(cfg)
	if err != nil {
		return nil, nil, err
	}

	train, val := records, []dataset.Record(nil)
	if cfg.Data.ValidationFraction > 0 {
		trainIdx, valIdx := dataset.ShuffleSplit(len(records), 1-cfg.Data.ValidationFraction, cfg.Data.Seed)
		train, val = dataset.Select(records, trainIdx), dataset.Select(records, valIdx)
		logger.Info("Validation split",
			log.SamplesKey, len(train),
			"validation_samples", len(val),
			log.RandomSeedKey, cfg.Data.Seed,
		)
	}

	models, err := pipeline.TrainModels(ctx, train, pipeline.TrainOptions{
		Params:              cfg.Booster,
		EncodeCategories:    cfg.Features.EncodeCategories,
		LogPeriod:           cfg.Training.LogPeriod,
		EarlyStoppingRounds: cfg.Training.EarlyStoppingRounds,
		TimeLimit:           cfg.Training.TimeLimit,
		Logger:              logger,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := models.Save(cfg.Data.ModelDir); err != nil {
		return nil, nil, err
	}
	if curve != "" {
		if err := report.PlotLearningCurve(curve, models.TrainLoss()); err != nil {
			return nil, nil, err
		}
		logger.Info("Learning curve written", log.PathKey, curve)
	}
	return models, val, nil
}

// evaluate prints metrics for records when any of them carries a label.
func evaluate(cmd *cobra.Command, models *pipeline.Models, records []dataset.Record) error {
	if len(records) == 0 {
		return nil
	}
	results, err := models.Evaluate(records)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}
	return report.PrintEvaluation(cmd.OutOrStdout(), results)
}
