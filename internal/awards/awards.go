// Package awards evaluates the fixed award catalogue over the rollups.
//
// Each award is an independent pure rule: rollups in, at most one
// winner out. The catalogue slice order NEVER changes after
// construction — rules evaluate in declaration order regardless of
// input order, so identical rollups always produce the identical award
// list. An award with no qualifying candidate is omitted entirely,
// never emitted with a placeholder winner.
package awards

import (
	"fmt"
	"sort"

	"github.com/runwrap/runwrap/internal/model"
	"github.com/runwrap/runwrap/internal/rollup"
)

// Award keys as they appear in the report.
const (
	KeyPipelineOverlord = "pipeline_overlord"
	KeyFailureChampion  = "failure_champion"
	KeySuccessStreak    = "success_streak"
	KeyEarlyBird        = "early_bird"
	KeyNightOwl         = "night_owl"
	KeyWeekendWarrior   = "weekend_warrior"
	KeyVarietyPack      = "variety_pack"
	KeyWorkhorse        = "workhorse_project"
	KeyRisingStar       = "rising_star_project"
)

// Winner is one decided award. Exactly one of UserID / ProjectID is
// set, depending on the rule's subject.
type Winner struct {
	Key         string
	Title       string
	Icon        string
	Description string
	UserID      string
	ProjectID   string
	Value       string
}

// Input is everything the catalogue reads. Catalog supplies project
// creation timestamps for the rising-star determination.
type Input struct {
	Users    map[string]*rollup.Rollup
	Projects map[string]*rollup.Rollup
	Catalog  map[string]model.Project
	Year     int
}

// rule is one catalogue entry. pick returns the winning entity id and
// a human-readable value string, or ok=false when nobody qualifies.
type rule struct {
	key         string
	title       string
	icon        string
	description string
	project     bool
	pick        func(in Input) (id, value string, ok bool)
}

// catalogue is evaluated strictly in declaration order.
var catalogue = []rule{
	{
		key: KeyPipelineOverlord, title: "Pipeline Overlord", icon: "👑",
		description: "Ruled the pipeline kingdom",
		pick: func(in Input) (string, string, bool) {
			id, n, ok := maxUser(in.Users, func(r *rollup.Rollup) int { return r.Runs })
			return id, fmt.Sprintf("%d runs", n), ok
		},
	},
	{
		key: KeyFailureChampion, title: "Failure Champion", icon: "🔥",
		description: "Learning through iteration",
		pick: func(in Input) (string, string, bool) {
			id, n, ok := maxUser(in.Users, func(r *rollup.Rollup) int { return r.Failed })
			return id, fmt.Sprintf("%d failed runs", n), ok
		},
	},
	{
		key: KeySuccessStreak, title: "Success Streak", icon: "⭐",
		description: "The reliable one",
		pick:        pickSuccessStreak,
	},
	{
		key: KeyEarlyBird, title: "Early Bird", icon: "🌅",
		description: "First to production",
		pick: func(in Input) (string, string, bool) {
			id, n, ok := maxUser(in.Users, func(r *rollup.Rollup) int { return hourBucket(r, 5, 8) })
			return id, fmt.Sprintf("%d early-morning runs", n), ok
		},
	},
	{
		key: KeyNightOwl, title: "Night Owl", icon: "🌙",
		description: "When everyone's asleep",
		pick: func(in Input) (string, string, bool) {
			id, n, ok := maxUser(in.Users, nightRuns)
			return id, fmt.Sprintf("%d night runs", n), ok
		},
	},
	{
		key: KeyWeekendWarrior, title: "Weekend Warrior", icon: "💪",
		description: "No rest for ML",
		pick: func(in Input) (string, string, bool) {
			id, n, ok := maxUser(in.Users, func(r *rollup.Rollup) int { return r.Weekend })
			return id, fmt.Sprintf("%d weekend runs", n), ok
		},
	},
	{
		key: KeyVarietyPack, title: "Variety Pack", icon: "🎨",
		description: "Jack of all pipelines",
		pick: func(in Input) (string, string, bool) {
			id, n, ok := maxUser(in.Users, func(r *rollup.Rollup) int { return len(r.Pipelines) })
			return id, fmt.Sprintf("%d different pipelines", n), ok
		},
	},
	{
		key: KeyWorkhorse, title: "Workhorse Project", icon: "🏭",
		description: "Carried the workload", project: true,
		pick: func(in Input) (string, string, bool) {
			id, n, ok := maxEntity(in.Projects, func(r *rollup.Rollup) int { return r.Runs })
			return id, fmt.Sprintf("%d runs", n), ok
		},
	},
	{
		key: KeyRisingStar, title: "Rising Star", icon: "🚀",
		description: "New this year, already shipping", project: true,
		pick:        pickRisingStar,
	},
}

// Evaluate runs the catalogue and returns the decided awards in
// catalogue order. Running it twice on identical rollups produces
// identical winners and values.
func Evaluate(in Input) []Winner {
	var out []Winner
	for _, r := range catalogue {
		id, value, ok := r.pick(in)
		if !ok {
			continue
		}
		w := Winner{
			Key:         r.key,
			Title:       r.title,
			Icon:        r.icon,
			Description: r.description,
			Value:       value,
		}
		if r.project {
			w.ProjectID = id
		} else {
			w.UserID = id
		}
		out = append(out, w)
	}
	return out
}

// maxUser picks the user maximizing metric, requiring at least 1.
// Exact ties go to the lowest user id.
func maxUser(users map[string]*rollup.Rollup, metric func(*rollup.Rollup) int) (string, int, bool) {
	return maxEntity(users, metric)
}

// maxEntity scans keys in sorted order so the first maximum seen is
// the lowest id, which is the documented tie-break for every counting
// award.
func maxEntity(entities map[string]*rollup.Rollup, metric func(*rollup.Rollup) int) (string, int, bool) {
	bestID, bestVal := "", 0
	for _, id := range sortedKeys(entities) {
		if v := metric(entities[id]); v > bestVal {
			bestID, bestVal = id, v
		}
	}
	return bestID, bestVal, bestVal >= 1
}

// hourBucket counts runs whose start hour lies in [from, to] inclusive.
func hourBucket(r *rollup.Rollup, from, to int) int {
	n := 0
	for h := from; h <= to; h++ {
		n += r.Hours[h]
	}
	return n
}

// nightRuns counts runs in the 22-4 bucket, which wraps midnight.
func nightRuns(r *rollup.Rollup) int {
	return r.Hours[22] + r.Hours[23] + hourBucket(r, 0, 4)
}

func sortedKeys(m map[string]*rollup.Rollup) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
