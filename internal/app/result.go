package service

import (
	"github.com/okian/rigdiag/internal/domain/crosstalk"
	"github.com/okian/rigdiag/internal/domain/describe"
	"github.com/okian/rigdiag/internal/domain/diagnosis"
	"github.com/okian/rigdiag/internal/domain/fidelity"
	"github.com/okian/rigdiag/internal/domain/model"
	"github.com/okian/rigdiag/internal/domain/plan"
	"github.com/okian/rigdiag/internal/domain/scoring"
	"github.com/okian/rigdiag/internal/domain/session"
)

// Coverage counts what extraction found for a check's channels.
type Coverage struct {
	Samples   int `json:"samples" yaml:"samples"`
	Missing   int `json:"missing" yaml:"missing"`
	Malformed int `json:"malformed" yaml:"malformed"`
}

// Finding is the outcome of one plan check.
type Finding struct {
	Seq        int                   `json:"seq" yaml:"seq"`
	Check      plan.Check            `json:"check" yaml:"check"`
	Coverage   Coverage              `json:"coverage" yaml:"coverage"`
	Record     *describe.Record      `json:"record,omitempty" yaml:"record,omitempty"`
	Roughness  model.Measure         `json:"roughness" yaml:"roughness"`
	LargeSteps int                   `json:"large_steps" yaml:"large_steps"`
	Crosstalk  *crosstalk.Result     `json:"crosstalk,omitempty" yaml:"crosstalk,omitempty"`
	Fidelity   *fidelity.Result      `json:"fidelity,omitempty" yaml:"fidelity,omitempty"`
	Precision  []fidelity.Fraction   `json:"precision,omitempty" yaml:"precision,omitempty"`
	Lag        *fidelity.Lag         `json:"lag,omitempty" yaml:"lag,omitempty"`
	LatencyMS  model.Measure         `json:"latency_ms" yaml:"latency_ms"`
	Diagnoses  []diagnosis.Diagnosis `json:"diagnoses" yaml:"diagnoses"`
}

// Result is a complete analysis of one session.
type Result struct {
	ID       string          `json:"id" yaml:"id"`
	Source   string          `json:"source" yaml:"source"`
	Session  session.Profile `json:"session" yaml:"session"`
	Findings []Finding       `json:"findings" yaml:"findings"`
	Report   scoring.Report  `json:"report" yaml:"report"`
}
