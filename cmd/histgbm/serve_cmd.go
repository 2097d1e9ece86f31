package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/histgbm/pipeline"
	"github.com/YuminosukeSato/histgbm/pkg/log"
	"github.com/YuminosukeSato/histgbm/server"
)

func serveCmd(rootConfig *rootCmdConfig) *cobra.Command {
	flags := &dataFlags{}
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions from saved models over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootConfig.cfg
			flags.apply(cfg)
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			models, err := pipeline.LoadModels(cfg.Data.ModelDir)
			if err != nil {
				return err
			}
			logger := log.GetLoggerWithName("histgbm.server")
			warnRebinning(logger, models)
			srv, err := server.New(models, logger, &server.Config{
				Host:    cfg.Server.Host,
				Port:    cfg.Server.Port,
				Classes: cfg.Server.Classes,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
	flags.register(cmd, false, false)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

// warnRebinning flags models that bin each request against its own rows.
// A single-record request then puts every feature in bin 0.
func warnRebinning(logger log.Logger, models *pipeline.Models) {
	var rebinned []string
	for _, t := range models.Targets() {
		if !models.Ensembles[t].ReuseTrainingEdges {
			rebinned = append(rebinned, t.Name())
		}
	}
	if len(rebinned) == 0 {
		return
	}
	logger.Warn("Models re-bin every request; single-record predictions ignore feature values. Retrain with booster.reuse_training_edges=true to bin against the training edges",
		"targets", rebinned,
	)
}
