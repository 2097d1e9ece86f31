package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/histgbm/internal/config"
	"github.com/YuminosukeSato/histgbm/pkg/log"
)

type rootCmdConfig struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cliParser().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootConfig := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "histgbm",
		Short: "histgbm trains histogram gradient-boosted regression trees",
		Long: `Train one gradient-boosted tree ensemble per label column of a clinical
vignette table, evaluate it, write predictions and serve them over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rootConfig.load()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&rootConfig.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&rootConfig.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootConfig.logFormat, "log-format", "", "log format (console, json)")

	rootCmd.AddCommand(
		versionCmd(),
		runCmd(rootConfig),
		trainCmd(rootConfig),
		predictCmd(rootConfig),
		serveCmd(rootConfig),
		treeCmd(rootConfig),
	)
	return rootCmd
}

// load reads the configuration and sets up the process logger.
func (c *rootCmdConfig) load() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Log.Format = c.logFormat
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if err := log.SetupLogger(level, cfg.Log.Format, os.Stderr); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}
