// Package crosstalk measures how much a logically independent channel moves
// while a driving channel makes large changes.
package crosstalk

import (
	"math"

	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultChangeThreshold is the per-step driving change (radians) above
// which a step counts as intentional motion.
const DefaultChangeThreshold = 0.01

// Result is the coupling between two co-temporal channels. With SampleCount
// zero every measure is invalid: there was not enough driving motion to tell.
type Result struct {
	Driving            model.Channel `json:"driving" yaml:"driving"`
	Dependent          model.Channel `json:"dependent" yaml:"dependent"`
	Threshold          float64       `json:"threshold" yaml:"threshold"`
	SampleCount        int           `json:"sample_count" yaml:"sample_count"`
	Ratio              model.Measure `json:"ratio" yaml:"ratio"`
	MeanDrivingDelta   model.Measure `json:"mean_driving_delta" yaml:"mean_driving_delta"`
	MeanDependentDelta model.Measure `json:"mean_dependent_delta" yaml:"mean_dependent_delta"`
	MaxDependentDelta  model.Measure `json:"max_dependent_delta" yaml:"max_dependent_delta"`
	Correlation        model.Measure `json:"correlation" yaml:"correlation"`
}

// Sufficient reports whether any step passed the threshold.
func (r Result) Sufficient() bool { return r.SampleCount > 0 }

// Analyze aligns driving and dependent by frame index, keeps the steps where
// |Δdriving| exceeds changeThreshold and relates the dependent change on
// those steps to the driving change.
func Analyze(driving, dependent series.Series, changeThreshold float64) Result {
	res := Result{
		Driving:   driving.Channel,
		Dependent: dependent.Channel,
		Threshold: changeThreshold,
	}

	pairs := driving.Join(dependent)
	var drv, dep, drvSigned, depSigned []float64
	for i := 1; i < len(pairs); i++ {
		dd := pairs[i].A - pairs[i-1].A
		if math.Abs(dd) <= changeThreshold {
			continue
		}
		dp := pairs[i].B - pairs[i-1].B
		drv = append(drv, math.Abs(dd))
		dep = append(dep, math.Abs(dp))
		drvSigned = append(drvSigned, dd)
		depSigned = append(depSigned, dp)
	}

	res.SampleCount = len(drv)
	if res.SampleCount == 0 {
		return res
	}

	n := float64(res.SampleCount)
	meanDrv := floats.Sum(drv) / n
	meanDep := floats.Sum(dep) / n
	res.MeanDrivingDelta = model.Some(meanDrv)
	res.MeanDependentDelta = model.Some(meanDep)
	res.MaxDependentDelta = model.Some(floats.Max(dep))
	// meanDrv > changeThreshold ≥ 0 for a non-negative threshold; a negative
	// threshold can admit flat steps, so guard the division.
	if meanDrv > 0 {
		res.Ratio = model.Some(meanDep / meanDrv)
	}
	if res.SampleCount >= 2 {
		if c := stat.Correlation(drvSigned, depSigned, nil); !math.IsNaN(c) {
			res.Correlation = model.Some(c)
		}
	}
	return res
}
