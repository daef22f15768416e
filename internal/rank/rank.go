// Package rank builds the project leaderboards.
//
// Every leaderboard is a total order: the primary criterion descending,
// then project id ascending. Two invocations over the same rollups
// yield byte-identical orderings, which the report's reproducibility
// contract depends on.
package rank

import (
	"sort"

	"github.com/runwrap/runwrap/internal/rollup"
)

// Leaderboard names as they appear under project_leaderboards in the
// report. The set is fixed; adding one is a schema change.
const (
	MostRuns           = "most_runs"
	HighestSuccessRate = "highest_success_rate"
	MostUsers          = "most_users"
)

// Leaderboards holds the ordered project ids for each criterion,
// most-significant first.
type Leaderboards struct {
	MostRuns           []string
	HighestSuccessRate []string
	MostUsers          []string
}

// Build ranks the per-project rollups under each criterion. A
// workspace with one active project still gets leaderboards;
// suppressing their display is the consumer's call.
func Build(projects map[string]*rollup.Rollup) Leaderboards {
	ids := sortedKeys(projects)

	return Leaderboards{
		MostRuns: rankBy(ids, func(a, b *rollup.Rollup) int {
			return b.Runs - a.Runs
		}, projects),
		HighestSuccessRate: rankBy(ids, compareSuccessRate, projects),
		MostUsers: rankBy(ids, func(a, b *rollup.Rollup) int {
			return len(b.Users) - len(a.Users)
		}, projects),
	}
}

// rankBy orders ids by cmp descending-first; cmp returning zero falls
// through to the id tie-break, which sortedKeys already established.
func rankBy(ids []string, cmp func(a, b *rollup.Rollup) int, projects map[string]*rollup.Rollup) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		return cmp(projects[out[i]], projects[out[j]]) < 0
	})
	return out
}

// compareSuccessRate orders higher rates first. Projects with zero
// decidable runs rank last: an undefined rate is not "highest". The
// comparison cross-multiplies to stay in integers, so equality is
// exact and the tie-break genuinely deterministic.
func compareSuccessRate(a, b *rollup.Rollup) int {
	da, db := a.Decidable(), b.Decidable()
	switch {
	case da == 0 && db == 0:
		return 0
	case da == 0:
		return 1
	case db == 0:
		return -1
	}
	// a.rate vs b.rate  <=>  a.Succeeded/da vs b.Succeeded/db
	left := a.Succeeded * db
	right := b.Succeeded * da
	switch {
	case left > right:
		return -1
	case left < right:
		return 1
	default:
		return 0
	}
}

func sortedKeys(projects map[string]*rollup.Rollup) []string {
	ids := make([]string, 0, len(projects))
	for id := range projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
