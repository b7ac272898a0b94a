package apitests

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/questlabs/api-test-harness/framework/harness"
	"github.com/questlabs/api-test-harness/testmodel"
)

// CaseOutcome is the recorded result of one executed case: the wire-level result plus
// the case's identity, its expectation, and the verdict. Created exactly once per case
// and never updated in place.
type CaseOutcome struct {
	Category    string
	CaseName    string
	Description string
	Expect      testmodel.Expectation
	Result      harness.RequestResult
	Passed      bool
}

type CategorySummary struct {
	Name   string
	Total  int
	Passed int
}

// RunSummary accumulates every CaseOutcome of a run, in execution order, together with
// overall and per-category counts. Total == Passed + len(Failed) always holds, and
// Total equals the sum of the category totals.
type RunSummary struct {
	Total      int
	Passed     int
	Categories []CategorySummary
	Outcomes   []CaseOutcome
	Failed     []CaseOutcome
}

func (s *RunSummary) record(outcome CaseOutcome) {
	s.Total++
	s.Outcomes = append(s.Outcomes, outcome)

	ci := -1
	for i := range s.Categories {
		if s.Categories[i].Name == outcome.Category {
			ci = i
			break
		}
	}
	if ci < 0 {
		s.Categories = append(s.Categories, CategorySummary{Name: outcome.Category})
		ci = len(s.Categories) - 1
	}
	s.Categories[ci].Total++

	if outcome.Passed {
		s.Passed++
		s.Categories[ci].Passed++
	} else {
		s.Failed = append(s.Failed, outcome)
	}
}

// TimingStats describes the response times over the cases that produced a measured
// elapsed time; cases that failed at the transport level have no measurement and are
// excluded.
type TimingStats struct {
	Min         time.Duration
	Mean        time.Duration
	Max         time.Duration
	SampleCount int
}

func (s *RunSummary) TimingStats() (TimingStats, bool) {
	var samples []time.Duration
	for _, outcome := range s.Outcomes {
		if outcome.Result.Elapsed.IsDefined() {
			samples = append(samples, outcome.Result.Elapsed.Value())
		}
	}
	if len(samples) == 0 {
		return TimingStats{}, false
	}
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return TimingStats{
		Min:         slices.Min(samples),
		Mean:        total / time.Duration(len(samples)),
		Max:         slices.Max(samples),
		SampleCount: len(samples),
	}, true
}
