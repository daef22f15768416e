// Package facts renders short natural-language insights from the
// aggregated statistics.
//
// Every fact is produced twice: a specific variant that may name real
// projects, pipelines or users, and a generic variant that describes
// the same fact with role descriptions instead of identifiers. The two
// slices are index-parallel — the consumer picks a whole set based on
// its anonymization state, never a mix.
package facts

import (
	"fmt"

	"github.com/runwrap/runwrap/internal/rollup"
)

// Set holds both fun-fact variants.
type Set struct {
	Specific []string `json:"specific"`
	Generic  []string `json:"generic"`
}

// Input is the slice of the aggregation output the generator reads.
// TopPipeline / TopProject fields are zero-valued when the workspace
// had no attributed runs; the corresponding facts are skipped.
type Input struct {
	Year int
	Core rollup.CoreStats
	Time rollup.TimeAnalytics

	TopPipelineName string
	TopPipelineRuns int
	TopProjectName  string
	TopProjectRuns  int
}

// Generate renders the fun facts. An empty year yields an empty (but
// non-nil) set.
func Generate(in Input) Set {
	s := Set{Specific: []string{}, Generic: []string{}}

	add := func(specific, generic string) {
		s.Specific = append(s.Specific, specific)
		s.Generic = append(s.Generic, generic)
	}
	both := func(fact string) { add(fact, fact) }

	if in.Time.FirstRun != nil {
		first := *in.Time.FirstRun
		both(fmt.Sprintf("Your team's first run of %d was on %s at %s",
			in.Year, first.Format("January 2"), first.Format("15:04")))
	}

	if in.Time.BusiestDay != nil {
		both(fmt.Sprintf("%s was your most productive day with %d runs",
			*in.Time.BusiestDay, in.Time.BusiestDayCount))
	}

	if in.Time.BusiestMonth != nil {
		both(fmt.Sprintf("%s was your busiest month with %d pipeline runs",
			*in.Time.BusiestMonth, in.Time.BusiestMonthCount))
	}

	if in.Time.WeekendRuns > 0 {
		pct := roundPct(in.Time.WeekendRuns, in.Time.WeekendRuns+in.Time.WeekdayRuns)
		both(fmt.Sprintf("%d%% of your runs happened on weekends", pct))
	}

	if in.TopPipelineName != "" {
		add(
			fmt.Sprintf("Your most-run pipeline was '%s' with %d executions",
				in.TopPipelineName, in.TopPipelineRuns),
			fmt.Sprintf("Your most-run pipeline alone accounted for %d executions",
				in.TopPipelineRuns),
		)
	}

	if in.TopProjectName != "" && in.Core.TotalRuns > 0 {
		pct := roundPct(in.TopProjectRuns, in.Core.TotalRuns)
		add(
			fmt.Sprintf("'%s' accounted for %d%% of all runs this year",
				in.TopProjectName, pct),
			fmt.Sprintf("One project accounted for %d%% of all runs this year", pct),
		)
	}

	switch rate := in.Core.SuccessRate; {
	case in.Core.TotalRuns == 0:
	case rate >= 90:
		both(fmt.Sprintf("Your team achieved a %.1f%% success rate - impressive!", rate))
	case rate >= 70:
		both(fmt.Sprintf("Your team's success rate was %.1f%% - solid experimentation!", rate))
	}

	switch total := in.Core.TotalRuns; {
	case total >= 1000:
		both("You crossed the 1,000 pipeline runs milestone!")
	case total >= 500:
		both("You ran over 500 pipelines this year!")
	case total >= 100:
		both(fmt.Sprintf("You hit triple digits with %d pipeline runs!", total))
	}

	if in.Core.ModelsCreated > 0 {
		both(fmt.Sprintf("Your team created %d model versions this year", in.Core.ModelsCreated))
	}

	return s
}

// roundPct rounds part/whole to the nearest whole percent.
func roundPct(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int((float64(part)/float64(whole))*100 + 0.5)
}
