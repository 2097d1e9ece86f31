package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/histgbm/report"
)

func runCmd(rootConfig *rootCmdConfig) *cobra.Command {
	flags := &dataFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train, evaluate and predict in one go",
		Long: `Train a model per target on the training records (merged with the raw
records when given), save the models, print evaluation metrics and write
predictions for the test records (merged with the raw test records when
given).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootConfig.cfg
			flags.apply(cfg)

			models, val, err := trainFromConfig(cmd.Context(), cfg, flags.curve)
			if err != nil {
				return err
			}

			test, err := loadTest(cfg)
			if err != nil {
				return err
			}
			if len(val) == 0 {
				val = test
			}
			if err := evaluate(cmd, models, val); err != nil {
				return err
			}
			return report.WritePredictionsFile(cfg.Data.Output, test, models.PredictAll(test))
		},
	}
	flags.register(cmd, true, true)
	return cmd
}
