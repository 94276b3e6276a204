package main

import (
	"fmt"
	"os"
	"time"

	"github.com/okian/rigdiag/internal/testframes"
	"github.com/okian/rigdiag/pkg/logger"
	"github.com/spf13/cobra"
)

const outputDirPermission = 0o750

func (c *cli) generateCmd() *cobra.Command {
	gen := testframes.DefaultConfig()
	var (
		dir         string
		noLandmarks bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic session log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = c.cfg.LogDir
			}
			if err := os.MkdirAll(dir, outputDirPermission); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}

			gen.Landmarks = !noLandmarks
			s := testframes.NewSession(gen, time.Now())
			path, err := s.Write(dir)
			if err != nil {
				return err
			}

			c.log.Info(cmd.Context(), "session written",
				logger.String("path", path),
				logger.String("session", s.ID),
				logger.Int("frames", len(s.Frames)),
			)
			fmt.Fprintln(c.stdout, path)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&dir, "out", "o", "", "output directory (default: configured log_dir)")
	fl.IntVar(&gen.Frames, "frames", gen.Frames, "number of frames")
	fl.Float64Var(&gen.IntervalMS, "interval-ms", gen.IntervalMS, "nominal frame interval in milliseconds")
	fl.Float64Var(&gen.TimingJitterMS, "timing-jitter-ms", gen.TimingJitterMS, "stddev of frame interval noise")
	fl.Float64Var(&gen.Amplitude, "amplitude", gen.Amplitude, "peak arm rotation in radians")
	fl.IntVar(&gen.Period, "period", gen.Period, "frames per motion cycle")
	fl.Float64Var(&gen.Noise, "noise", gen.Noise, "stddev of rotation noise in radians")
	fl.IntVar(&gen.OutputLag, "lag", gen.OutputLag, "frames the output trails the input")
	fl.Float64Var(&gen.Smoothing, "smoothing", gen.Smoothing, "output smoothing in [0,1)")
	fl.Float64Var(&gen.Leak, "leak", gen.Leak, "share of upper-arm twist leaking into raise")
	fl.Float64Var(&gen.Dropout, "dropout", gen.Dropout, "probability a frame lacks output")
	fl.Float64Var(&gen.ZeroRate, "zero-rate", gen.ZeroRate, "probability an arm value is the zero sentinel")
	fl.Float64Var(&gen.LandmarkTravel, "landmark-travel", gen.LandmarkTravel, "peak-to-peak wrist travel in image units")
	fl.BoolVar(&noLandmarks, "no-landmarks", false, "omit raw pose landmarks")
	fl.Int64Var(&gen.Seed, "seed", gen.Seed, "random seed")
	return cmd
}
