package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	service "github.com/okian/rigdiag/internal/app"
	"github.com/okian/rigdiag/internal/adapters/framestore"
	"github.com/okian/rigdiag/internal/config"
	"github.com/okian/rigdiag/internal/domain/diagnosis"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/plan"
	"github.com/okian/rigdiag/internal/domain/series"
	"github.com/okian/rigdiag/internal/testframes"
	"github.com/okian/rigdiag/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func verdicts(res service.Result, cat diagnosis.Category) []string {
	var out []string
	for _, d := range res.Report.Diagnoses {
		if d.Category == cat {
			out = append(out, string(d.Verdict))
		}
	}
	return out
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given the default configuration", t, func() {
		cfg := config.New(context.Background())

		Convey("Then a service can be built from it", func() {
			svc, err := service.FromConfig(cfg, service.WithWorkerCount(2))
			So(err, ShouldBeNil)
			So(svc, ShouldNotBeNil)
		})

		Convey("Then bad band edges are rejected", func() {
			cfg.Bands = map[string][]float64{"range": {1}}
			_, err := service.FromConfig(cfg)
			So(errors.Is(err, diagnosis.ErrInvalidBands), ShouldBeTrue)
		})
	})
}

func TestService_AnalyzeEmpty(t *testing.T) {
	Convey("Given a session without frames", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		res, err := svc.Analyze(context.Background(), "empty", nil)
		So(err, ShouldBeNil)

		Convey("Then every check is present but insufficient", func() {
			So(res.Findings, ShouldHaveLength, plan.Default().Len())
			for _, d := range res.Report.Diagnoses {
				So(d.Verdict, ShouldEqual, diagnosis.VerdictInsufficient)
			}
		})

		Convey("Then nothing is scored", func() {
			So(res.Report.Included, ShouldEqual, 0)
			So(res.Report.Excluded, ShouldEqual, len(res.Report.Diagnoses))
			So(res.Report.Possible, ShouldEqual, 0)
			So(res.Report.Percentage.Valid, ShouldBeFalse)
			So(res.Report.Rating, ShouldEqual, string(diagnosis.VerdictInsufficient))
		})
	})
}

func TestService_AnalyzeSynthetic(t *testing.T) {
	ctx := context.Background()

	Convey("Given a clean synthetic session", t, func() {
		frames := testframes.Generate(testframes.DefaultConfig())
		svc := service.New(service.WithWorkerCount(4))
		res, err := svc.Analyze(ctx, "clean", frames)
		So(err, ShouldBeNil)

		Convey("Then findings follow plan order", func() {
			jobs := plan.Default().Jobs()
			So(res.Findings, ShouldHaveLength, len(jobs))
			for i, f := range res.Findings {
				So(f.Seq, ShouldEqual, i)
				So(f.Check, ShouldResemble, jobs[i].Check)
			}
		})

		Convey("Then session health is good", func() {
			So(verdicts(res, diagnosis.CategoryTiming), ShouldResemble, []string{string(diagnosis.VerdictStable)})
			So(verdicts(res, diagnosis.CategoryCompleteness), ShouldResemble, []string{string(diagnosis.VerdictComplete)})
		})

		Convey("Then no crosstalk is reported", func() {
			for _, v := range verdicts(res, diagnosis.CategoryCrosstalk) {
				So(v, ShouldEqual, string(diagnosis.VerdictIsolated))
			}
		})

		Convey("Then output tracks input", func() {
			for _, f := range res.Findings {
				if f.Check.Kind != plan.KindFidelity {
					continue
				}
				So(f.Fidelity, ShouldNotBeNil)
				So(f.Lag, ShouldNotBeNil)
				if f.Lag.Sufficient() {
					So(f.Lag.Frames, ShouldEqual, 0)
				}
			}
		})

		Convey("Then the report has a score", func() {
			So(res.Report.Included, ShouldBeGreaterThan, 0)
			So(res.Report.Percentage.Valid, ShouldBeTrue)
			So(res.Report.Percentage.Value, ShouldBeBetweenOrEqual, 0, 100)
			So(res.ID, ShouldNotBeEmpty)
		})

		Convey("Then a second run is identical", func() {
			again, err := svc.Analyze(ctx, "clean", frames)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, res)
		})
	})

	Convey("Given a session whose upper-arm twist leaks into raise", t, func() {
		cfg := testframes.DefaultConfig()
		cfg.Leak = 2
		res, err := service.New().Analyze(ctx, "leak", testframes.Generate(cfg))
		So(err, ShouldBeNil)

		Convey("Then a leak is reported with fixes", func() {
			So(verdicts(res, diagnosis.CategoryCrosstalk), ShouldContain, string(diagnosis.VerdictLeak))
			So(res.Report.Suggestions, ShouldNotBeEmpty)
		})
	})

	Convey("Given a session with output dropouts", t, func() {
		cfg := testframes.DefaultConfig()
		cfg.Dropout = 0.5
		res, err := service.New().Analyze(ctx, "lossy", testframes.Generate(cfg))
		So(err, ShouldBeNil)

		Convey("Then completeness drops", func() {
			So(verdicts(res, diagnosis.CategoryCompleteness), ShouldNotContain, string(diagnosis.VerdictComplete))
		})
	})
}

func TestService_AnalyzeOptions(t *testing.T) {
	Convey("Given a service limited to reach checks", t, func() {
		reachOnly := plan.Plan{Reach: plan.Default().Reach}
		svc := service.New(service.WithPlan(reachOnly))
		res, err := svc.Analyze(context.Background(), "reach", testframes.Generate(testframes.DefaultConfig()))
		So(err, ShouldBeNil)

		Convey("Then only reach findings are produced", func() {
			So(res.Findings, ShouldHaveLength, len(reachOnly.Reach))
			for _, f := range res.Findings {
				So(f.Check.Kind, ShouldEqual, plan.KindReach)
				So(f.Record, ShouldNotBeNil)
				So(f.Coverage.Samples, ShouldBeGreaterThan, 0)
			}
		})
	})

	Convey("Given reach weighted to zero", t, func() {
		reachOnly := plan.Plan{Reach: plan.Default().Reach}
		svc := service.New(
			service.WithPlan(reachOnly),
			service.WithWeights(map[diagnosis.Category]float64{
				diagnosis.CategoryReach:        0,
				diagnosis.CategoryTiming:       0,
				diagnosis.CategoryCompleteness: 0,
			}, 1),
		)
		res, err := svc.Analyze(context.Background(), "weights", testframes.Generate(testframes.DefaultConfig()))
		So(err, ShouldBeNil)

		Convey("Then nothing contributes to the score", func() {
			So(res.Report.Included, ShouldEqual, 0)
			So(res.Report.Percentage.Valid, ShouldBeFalse)
		})
	})

	Convey("Given sentinel zeros that are kept as data", t, func() {
		cfg := testframes.DefaultConfig()
		cfg.ZeroRate = 0.3
		frames := testframes.Generate(cfg)
		only := plan.Plan{Range: plan.Default().Range[:1]}

		skipped, err := service.New(service.WithPlan(only)).Analyze(context.Background(), "zeros", frames)
		So(err, ShouldBeNil)
		kept, err := service.New(service.WithPlan(only), service.WithZeroAsMissing(false)).Analyze(context.Background(), "zeros", frames)
		So(err, ShouldBeNil)

		Convey("Then the two readings differ in coverage", func() {
			So(kept.Findings[0].Coverage.Missing, ShouldEqual, 0)
			So(kept.Findings[0].Coverage.Samples, ShouldBeGreaterThanOrEqualTo, skipped.Findings[0].Coverage.Samples)
		})
	})
}

func TestService_AnalyzeFingerZeros(t *testing.T) {
	Convey("Given a finger that alternates between flat and curled", t, func() {
		joint := series.FingerJoint("right", "Index", "Proximal")
		frames := make([]model.Frame, 20)
		for i := range frames {
			z := 0.0
			if i%2 == 1 {
				z = 1.2
			}
			frames[i] = model.Frame{Index: i, Input: map[string]model.Rotation3{joint: {Z: &z}}}
		}

		var only plan.Plan
		for _, c := range plan.Default().Range {
			if c.Channel.Joint == joint {
				only.Range = append(only.Range, c)
			}
		}
		So(only.Range, ShouldHaveLength, 1)

		svc, err := service.FromConfig(config.New(context.Background()), service.WithPlan(only))
		So(err, ShouldBeNil)
		res, err := svc.Analyze(context.Background(), "fingers", frames)
		So(err, ShouldBeNil)

		Convey("Then flat frames count as readings", func() {
			f := res.Findings[0]
			So(f.Coverage.Samples, ShouldEqual, 20)
			So(f.Coverage.Missing, ShouldEqual, 0)
			So(f.Record.Range, ShouldAlmostEqual, 1.2, 1e-12)
		})

		Convey("Then the curl range is normal", func() {
			So(verdicts(res, diagnosis.CategoryRange), ShouldResemble, []string{string(diagnosis.VerdictNormal)})
		})
	})
}

func TestService_AnalyzeLog(t *testing.T) {
	Convey("Given a service logging JSON to a buffer", t, func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
		only := plan.Plan{Reach: plan.Default().Reach[:1]}
		svc := service.New(service.WithPlan(only), service.WithLogger(l))

		_, err := svc.Analyze(context.Background(), "sessions/take-1.json", testframes.Generate(testframes.DefaultConfig()))
		So(err, ShouldBeNil)

		var line map[string]any
		for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			var m map[string]any
			So(json.Unmarshal(raw, &m), ShouldBeNil)
			if m["msg"] == "session analyzed" {
				line = m
			}
		}
		So(line, ShouldNotBeNil)

		Convey("Then the log path and the caller location are separate fields", func() {
			So(line["path"], ShouldEqual, "sessions/take-1.json")
			So(line["source"], ShouldContainSubstring, "service.go:")
		})
	})
}

func TestService_AnalyzeCancelled(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.New().Analyze(ctx, "cancelled", testframes.Generate(testframes.DefaultConfig()))

		Convey("Then the analysis stops with the context error", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestService_AnalyzeFile(t *testing.T) {
	Convey("Given a log directory", t, func() {
		dir := t.TempDir()
		svc := service.New()

		Convey("When the file does not exist", func() {
			_, err := svc.AnalyzeFile(context.Background(), dir+"/missing.json")

			Convey("Then a missing file error is returned", func() {
				So(errors.Is(err, framestore.ErrMissingFile), ShouldBeTrue)
			})
		})

		Convey("When the directory has no logs", func() {
			_, err := svc.AnalyzeLatest(context.Background(), dir)

			Convey("Then a missing file error is returned", func() {
				So(errors.Is(err, framestore.ErrMissingFile), ShouldBeTrue)
			})
		})

		Convey("When a generated session is written", func() {
			cfg := testframes.DefaultConfig()
			cfg.Frames = 40
			path, err := testframes.NewSession(cfg, time.UnixMilli(1_700_000_000_000)).Write(dir)
			So(err, ShouldBeNil)

			res, err := svc.AnalyzeLatest(context.Background(), dir)

			Convey("Then the newest log is analyzed", func() {
				So(err, ShouldBeNil)
				So(res.Source, ShouldEqual, path)
				So(res.Session.Frames, ShouldEqual, 40)
				So(res.Session.Timestamped, ShouldEqual, 40)
			})

			Convey("Then timestamps convert latency to milliseconds", func() {
				So(err, ShouldBeNil)
				ms := res.Session.FramesToMS(3)
				So(ms.Valid, ShouldBeTrue)
				So(ms.Value, ShouldAlmostEqual, 99, 1e-6)
			})
		})
	})
}
