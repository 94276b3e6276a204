package main

import (
	"fmt"
	"io"

	"github.com/okian/rigdiag/internal/config"
	"github.com/okian/rigdiag/pkg/logger"
	"github.com/okian/rigdiag/pkg/metrics"
	"github.com/spf13/cobra"
)

// cli holds state shared by subcommands once the root command has run.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg *config.Config
	log logger.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:               "rigdiag",
		Short:             "Diagnose recorded avatar motion sessions",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (default $"+config.EnvConfig+")")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(c.analyzeCmd(), c.generateCmd())
	return root
}

// setup initializes logging on stderr, loads configuration, applies the
// effective log level and names the metrics. Reports go to stdout and never
// mix with logs.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(logger.WithWriter(c.stderr)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	cfg, err := config.Load(cmd.Context(), c.configPath)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	lvl, err := logger.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	if err := logger.Init(
		logger.WithWriter(c.stderr),
		logger.WithJSON(cfg.LogFormat == "json"),
		logger.WithLevel(lvl),
	); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithConstLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsBuckets),
	)

	c.cfg = cfg
	c.log = logger.Get().Named("cli")
	return nil
}
