package main

import (
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/histgbm/dataset"
	"github.com/YuminosukeSato/histgbm/pipeline"
	"github.com/YuminosukeSato/histgbm/pkg/log"
	"github.com/YuminosukeSato/histgbm/report"
)

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	flags := &dataFlags{}
	var npyPath string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a CSV with saved models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootConfig.cfg
			flags.apply(cfg)

			models, err := pipeline.LoadModels(cfg.Data.ModelDir)
			if err != nil {
				return err
			}
			records, err := loadTest(cfg)
			if err != nil {
				return err
			}

			preds := models.PredictAll(records)
			if err := report.WritePredictionsFile(cfg.Data.Output, records, preds); err != nil {
				return err
			}
			if npyPath != "" {
				if err := writePredictionMatrix(npyPath, models.Targets(), preds, len(records)); err != nil {
					return err
				}
				log.GetLoggerWithName("histgbm.cli").Info("Prediction matrix written", log.PathKey, npyPath)
			}
			return evaluate(cmd, models, records)
		},
	}
	flags.register(cmd, false, true)
	cmd.Flags().StringVar(&npyPath, "npy", "", "also write predictions as a rows x targets .npy matrix, columns in target order")
	return cmd
}

func writePredictionMatrix(path string, targets []dataset.Target, preds map[dataset.Target][]float64, rows int) error {
	if rows == 0 || len(targets) == 0 {
		return nil
	}
	m := mat.NewDense(rows, len(targets), nil)
	for j, t := range targets {
		m.SetCol(j, preds[t])
	}
	return dataset.WriteNpy(path, m)
}
