package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/histgbm/dataset"
	"github.com/YuminosukeSato/histgbm/pipeline"
	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
	"github.com/YuminosukeSato/histgbm/sklearn/histgbm"
)

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	flags := &dataFlags{}
	var (
		targetName string
		index      int
		output     string
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render one tree of a saved model",
		Long: `Render a tree of a saved model with graphviz. The output format follows
the file extension (.dot, .png, .svg or .jpg).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootConfig.cfg
			flags.apply(cfg)

			target, err := dataset.ParseTarget(targetName)
			if err != nil {
				return err
			}
			ensemble, err := histgbm.LoadEnsemble(filepath.Join(cfg.Data.ModelDir, target.ModelFileName()))
			if err != nil {
				return err
			}
			if index < 0 || index >= ensemble.NumTrees() {
				return histerrors.NewValidationError("index", fmt.Sprintf("must be in [0, %d)", ensemble.NumTrees()), index)
			}

			names := dataset.NewFeatureExtractor(false).FeatureNames()
			if models, err := pipeline.LoadModels(cfg.Data.ModelDir); err == nil {
				names = models.Extractor.FeatureNames()
			}
			if err := histgbm.RenderTreeFile(&ensemble.Trees[index], names, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s tree %d written to %s\n", target.Name(), index, output)
			return nil
		},
	}
	flags.register(cmd, false, false)
	cmd.Flags().StringVarP(&targetName, "target", "t", "Clinician", "target whose model to render")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "tree index within the ensemble")
	cmd.Flags().StringVarP(&output, "output", "o", "tree.svg", "output file")
	return cmd
}
