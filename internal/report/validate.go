package report

import (
	"encoding/json"
	"fmt"
)

// Validation error codes, one per consistency property. The validate
// command surfaces these to callers that gate rendering on them.
const (
	VCodeParse       = "V001" // document is not valid JSON
	VCodeSchema      = "V002" // schema_version mismatch
	VCodeCounts      = "V003" // status breakdown does not sum to total
	VCodeRate        = "V004" // success_rate outside [0,100]
	VCodeMonths      = "V005" // runs_per_month does not sum to total
	VCodeFacts       = "V006" // fun-fact sets not parallel
	VCodeAward       = "V007" // award entry without a subject
	VCodeAnonymize   = "V008" // anonymization mapping not injective
	VCodeLeaderboard = "V009" // leaderboard size disagrees with projects
)

// ValidationError is one failed consistency check.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validate parses a serialized report and checks the consistency
// properties the schema contract promises. All failures are collected;
// an empty slice means the document is safe to render.
//
// A schema_version mismatch is reported alone: field-level checks
// against an unknown schema would be meaningless.
func Validate(data []byte) []error {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return []error{&ValidationError{VCodeParse, fmt.Sprintf("parse report: %v", err)}}
	}

	if r.SchemaVersion != SchemaVersion {
		return []error{&ValidationError{VCodeSchema,
			fmt.Sprintf("schema_version %q, this tool understands %q", r.SchemaVersion, SchemaVersion)}}
	}

	var errs []error
	fail := func(code, format string, args ...any) {
		errs = append(errs, &ValidationError{code, fmt.Sprintf(format, args...)})
	}

	breakdown := 0
	for _, n := range r.CoreStats.StatusBreakdown {
		breakdown += n
	}
	if breakdown != r.CoreStats.TotalRuns {
		fail(VCodeCounts, "status_breakdown sums to %d, total_runs is %d", breakdown, r.CoreStats.TotalRuns)
	}

	if r.CoreStats.SuccessRate < 0 || r.CoreStats.SuccessRate > 100 {
		fail(VCodeRate, "success_rate %.1f outside [0,100]", r.CoreStats.SuccessRate)
	}

	months := 0
	for _, n := range r.TimeAnalytics.RunsPerMonth {
		months += n
	}
	if months != r.CoreStats.TotalRuns {
		fail(VCodeMonths, "runs_per_month sums to %d, total_runs is %d", months, r.CoreStats.TotalRuns)
	}

	if len(r.FunFacts.Specific) != len(r.FunFacts.Generic) {
		fail(VCodeFacts, "fun_facts sets not parallel: %d specific, %d generic",
			len(r.FunFacts.Specific), len(r.FunFacts.Generic))
	}

	for key, a := range r.Awards {
		if (a.User == "") == (a.Project == "") {
			fail(VCodeAward, "award %q must name exactly one of user or project", key)
		}
	}

	checkInjective := func(kind string, m map[string]string) {
		seen := make(map[string]string, len(m))
		for real, codename := range m {
			if prev, dup := seen[codename]; dup {
				fail(VCodeAnonymize, "%s codename %q assigned to both %q and %q", kind, codename, prev, real)
			}
			seen[codename] = real
		}
	}
	checkInjective("project", r.Anonymized.Projects)
	checkInjective("pipeline", r.Anonymized.Pipelines)

	for name, board := range r.ProjectLeaderboards {
		if len(board) != r.CoreStats.ActiveProjects {
			fail(VCodeLeaderboard, "leaderboard %q has %d entries, active_projects is %d",
				name, len(board), r.CoreStats.ActiveProjects)
		}
	}

	return errs
}
