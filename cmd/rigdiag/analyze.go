package main

import (
	"fmt"
	"strings"

	service "github.com/okian/rigdiag/internal/app"
	"github.com/okian/rigdiag/internal/adapters/render"
	"github.com/okian/rigdiag/pkg/logger"
	"github.com/okian/rigdiag/pkg/metrics"
	"github.com/spf13/cobra"
)

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		latest     string
		format     string
		metricsOut string
	)

	formats := make([]string, 0, len(render.Formats()))
	for _, f := range render.Formats() {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "analyze [log.json]",
		Short: "Analyze a session log and print the diagnosis report",
		Long: "Analyze a motion debug log. Without a path the newest log in --latest\n" +
			"(or the configured log_dir) is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			svc, err := service.FromConfig(c.cfg, service.WithLogger(c.log.Named("service")))
			if err != nil {
				return err
			}

			var res service.Result
			switch {
			case len(args) == 1:
				res, err = svc.AnalyzeFile(cmd.Context(), args[0])
			case latest != "":
				res, err = svc.AnalyzeLatest(cmd.Context(), latest)
			default:
				res, err = svc.AnalyzeLatest(cmd.Context(), c.cfg.LogDir)
			}
			if err != nil {
				return err
			}

			if err := render.Write(c.stdout, res, f); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			if metricsOut != "" {
				if err := metrics.WriteTextfile(metricsOut); err != nil {
					return err
				}
				c.log.Debug(cmd.Context(), "metrics written", logger.String("path", metricsOut))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&latest, "latest", "", "analyze the newest log in this directory")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatText), "output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics in textfile format to this path")
	return cmd
}
