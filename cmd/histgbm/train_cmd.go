package main

import (
	"github.com/spf13/cobra"
)

func trainCmd(rootConfig *rootCmdConfig) *cobra.Command {
	flags := &dataFlags{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train and save a model per target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootConfig.cfg
			flags.apply(cfg)

			models, val, err := trainFromConfig(cmd.Context(), cfg, flags.curve)
			if err != nil {
				return err
			}
			return evaluate(cmd, models, val)
		},
	}
	flags.register(cmd, true, false)
	return cmd
}
