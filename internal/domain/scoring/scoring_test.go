package scoring_test

import (
	"testing"

	"github.com/okian/rigdiag/internal/domain/diagnosis"
	"github.com/okian/rigdiag/internal/domain/model"
	scoring "github.com/okian/rigdiag/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func diag(c diagnosis.Category, v diagnosis.Verdict, rank, maxRank int, sugg ...string) diagnosis.Diagnosis {
	return diagnosis.Diagnosis{Category: c, Verdict: v, Rank: rank, MaxRank: maxRank, Value: model.Some(1), Suggestions: sugg}
}

func TestAggregate(t *testing.T) {
	Convey("Given a default aggregator", t, func() {
		agg := scoring.NewAggregator()

		Convey("When there are no diagnoses", func() {
			r := agg.Aggregate(nil)

			Convey("Then the report is 0 of 0 with insufficient data", func() {
				So(r.Score, ShouldEqual, 0)
				So(r.Possible, ShouldEqual, 0)
				So(r.Percentage.Valid, ShouldBeFalse)
				So(r.Rating, ShouldEqual, "insufficient data")
				So(r.Stars, ShouldBeEmpty)
				So(r.Diagnoses, ShouldBeEmpty)
				So(r.Suggestions, ShouldBeEmpty)
			})
		})

		Convey("When diagnoses mix full, partial and insufficient results", func() {
			r := agg.Aggregate([]scoring.Weighted{
				{Diagnosis: diag(diagnosis.CategoryFidelity, diagnosis.VerdictExcellent, 3, 3), Weight: 1},
				{Diagnosis: diag(diagnosis.CategoryRange, diagnosis.VerdictRestricted, 1, 3, "a", "b"), Weight: 1},
				{Diagnosis: diagnosis.Diagnosis{Category: diagnosis.CategoryJitter, Verdict: diagnosis.VerdictInsufficient, MaxRank: 3}, Weight: 1},
				{Diagnosis: diag(diagnosis.CategoryRange, diagnosis.VerdictImmobile, 0, 3, "b", "c"), Weight: 0},
			})

			Convey("Then insufficient and zero-weight entries are excluded from both totals", func() {
				So(r.Included, ShouldEqual, 2)
				So(r.Excluded, ShouldEqual, 2)
				So(r.Possible, ShouldEqual, 20)
				So(r.Score, ShouldAlmostEqual, 10+10.0/3, 1e-9)
				So(r.Score, ShouldBeLessThanOrEqualTo, r.Possible)
			})

			Convey("Then the percentage gets a banded rating", func() {
				So(r.Percentage.Value, ShouldAlmostEqual, 66.6666666, 1e-6)
				So(r.Rating, ShouldEqual, "good")
				So(r.Stars, ShouldEqual, "★★★★☆")
			})

			Convey("Then suggestions are deduplicated in first-seen order", func() {
				So(r.Suggestions, ShouldResemble, []string{"a", "b", "c"})
				So(r.Diagnoses, ShouldHaveLength, 4)
			})
		})

		Convey("When every diagnosis is insufficient", func() {
			r := agg.Aggregate([]scoring.Weighted{
				{Diagnosis: diagnosis.Diagnosis{Verdict: diagnosis.VerdictInsufficient, MaxRank: 3}, Weight: 1},
			})
			So(r.Percentage.Valid, ShouldBeFalse)
			So(r.Rating, ShouldEqual, "insufficient data")
		})
	})

	Convey("Given custom budgets", t, func() {
		agg := scoring.NewAggregator(
			scoring.WithBudgets(map[diagnosis.Category]float64{diagnosis.CategoryFidelity: 30, diagnosis.CategoryRange: -1}),
			scoring.WithDefaultBudget(5),
		)
		So(agg.Budget(diagnosis.CategoryFidelity), ShouldEqual, 30)
		So(agg.Budget(diagnosis.CategoryRange), ShouldEqual, 5)

		r := agg.Aggregate([]scoring.Weighted{
			{Diagnosis: diag(diagnosis.CategoryFidelity, diagnosis.VerdictPoor, 0, 3), Weight: 2},
			{Diagnosis: diag(diagnosis.CategoryRange, diagnosis.VerdictExcellent, 3, 3), Weight: 1},
		})
		So(r.Possible, ShouldEqual, 65)
		So(r.Score, ShouldEqual, 5)
		So(r.Rating, ShouldEqual, "needs work")
	})
}

func TestRate(t *testing.T) {
	Convey("Ratings follow the percentage bands", t, func() {
		cases := []struct {
			pct   float64
			label string
			stars string
		}{
			{100, "excellent", "★★★★★"},
			{80, "excellent", "★★★★★"},
			{79.9, "good", "★★★★☆"},
			{60, "good", "★★★★☆"},
			{40, "fair", "★★★☆☆"},
			{0, "needs work", "★★☆☆☆"},
		}
		for _, c := range cases {
			label, stars := scoring.Rate(model.Some(c.pct))
			So(label, ShouldEqual, c.label)
			So(stars, ShouldEqual, c.stars)
		}
	})
}
