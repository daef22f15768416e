// Package rollup is the aggregation engine: one O(n) pass over the
// normalized runs produces the workspace core stats, the time
// analytics, and per-user / per-project rollups.
//
// Rollups are owned by this package. Later stages (ranking, awards,
// facts) read them but never mutate them; Build is the only writer.
// Everything here is deterministic: no wall clock, no map-order
// dependence in any exported result.
package rollup

import (
	"time"

	"github.com/runwrap/runwrap/internal/model"
)

// RunPoint is one run's position on an entity's timeline, kept so the
// awards engine can reconstruct chronological sequences (success
// streaks) without re-scanning the full run set.
type RunPoint struct {
	ID      string
	At      time.Time
	Status  model.RunStatus
	Weekend bool
	Hour    int
}

// Rollup accumulates counters for one entity (a user or a project).
type Rollup struct {
	Key       string // user id or project id
	Runs      int
	Succeeded int
	Failed    int
	Other     int

	Pipelines map[model.PipelineKey]struct{} // distinct pipelines touched
	Users     map[string]struct{}            // distinct users (project rollups only)

	Hours    [24]int // runs per hour-of-day bucket
	Weekdays [7]int  // runs per weekday, Monday-first
	Weekend  int     // runs on Saturday or Sunday

	First time.Time // earliest run start, zero until first run
	Last  time.Time // latest run start

	Timeline []RunPoint // in input order; sort before streak analysis
}

// Decidable returns the number of runs counting toward the success
// rate (succeeded + failed).
func (r *Rollup) Decidable() int {
	return r.Succeeded + r.Failed
}

// SuccessRate returns the entity's success percentage with one decimal,
// 0.0 when the entity has no decidable runs.
func (r *Rollup) SuccessRate() float64 {
	return Percent(r.Succeeded, r.Decidable())
}

// Result is the output of one aggregation pass.
type Result struct {
	Core CoreStats
	Time TimeAnalytics

	Users    map[string]*Rollup // keyed by user id; unattributed runs absent
	Projects map[string]*Rollup // keyed by project id

	// PipelineRuns counts runs per pipeline identity, feeding the
	// top-pipelines listing.
	PipelineRuns map[model.PipelineKey]int
}

// Build aggregates the normalized run set in a single pass.
//
// An empty run set is not an error: it yields all-zero stats, nil
// busiest-* fields and empty rollup maps, per the degenerate-aggregate
// policy.
func Build(runs []model.Run) *Result {
	res := &Result{
		Users:        make(map[string]*Rollup),
		Projects:     make(map[string]*Rollup),
		PipelineRuns: make(map[model.PipelineKey]int),
	}

	statusBreakdown := make(map[string]int)
	pipelines := make(map[model.PipelineKey]struct{})
	users := make(map[string]struct{})
	var months [12]int
	var weekdays [7]int
	var hours [24]int
	var first, last time.Time

	for _, run := range runs {
		res.Core.TotalRuns++
		statusBreakdown[string(run.Status)]++
		switch run.Status {
		case model.StatusSucceeded:
			res.Core.SuccessfulRuns++
		case model.StatusFailed:
			res.Core.FailedRuns++
		}
		res.Core.ArtifactsProduced += run.Artifacts
		res.Core.ModelsCreated += run.Models

		if run.ProjectID != "" {
			pipelines[run.PipelineOf()] = struct{}{}
			res.PipelineRuns[run.PipelineOf()]++
		}
		if run.UserID != "" {
			users[run.UserID] = struct{}{}
		}

		at := run.StartedAt
		months[int(at.Month())-1]++
		weekdays[mondayFirst(at.Weekday())]++
		hours[at.Hour()]++
		if first.IsZero() || at.Before(first) {
			first = at
		}
		if at.After(last) {
			last = at
		}

		if run.UserID != "" {
			accumulate(res.Users, run.UserID, run, false)
		}
		if run.ProjectID != "" {
			accumulate(res.Projects, run.ProjectID, run, true)
		}
	}

	res.Core.StatusBreakdown = statusBreakdown
	res.Core.UniquePipelines = len(pipelines)
	res.Core.UniqueUsers = len(users)
	res.Core.ActiveProjects = len(res.Projects)
	res.Core.SuccessRate = Percent(res.Core.SuccessfulRuns, res.Core.SuccessfulRuns+res.Core.FailedRuns)

	res.Time = buildTimeAnalytics(res.Core.TotalRuns, months, weekdays, hours, first, last)

	return res
}

// accumulate folds one run into the entity rollup, creating it on
// first sight. trackUsers enables the distinct-user set, which only
// project rollups need.
func accumulate(byKey map[string]*Rollup, key string, run model.Run, trackUsers bool) {
	r := byKey[key]
	if r == nil {
		r = &Rollup{
			Key:       key,
			Pipelines: make(map[model.PipelineKey]struct{}),
		}
		if trackUsers {
			r.Users = make(map[string]struct{})
		}
		byKey[key] = r
	}

	r.Runs++
	switch run.Status {
	case model.StatusSucceeded:
		r.Succeeded++
	case model.StatusFailed:
		r.Failed++
	default:
		r.Other++
	}

	if run.ProjectID != "" {
		r.Pipelines[run.PipelineOf()] = struct{}{}
	}
	if trackUsers && run.UserID != "" {
		r.Users[run.UserID] = struct{}{}
	}

	at := run.StartedAt
	r.Hours[at.Hour()]++
	r.Weekdays[mondayFirst(at.Weekday())]++
	if run.Weekend() {
		r.Weekend++
	}
	if r.First.IsZero() || at.Before(r.First) {
		r.First = at
	}
	if at.After(r.Last) {
		r.Last = at
	}

	r.Timeline = append(r.Timeline, RunPoint{
		ID:      run.ID,
		At:      at,
		Status:  run.Status,
		Weekend: run.Weekend(),
		Hour:    at.Hour(),
	})
}

// Percent expresses part/whole as a percentage rounded to one decimal,
// 0.0 when the denominator is zero.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0.0
	}
	// Round half away from zero at one decimal, matching how the
	// platform's own dashboards present rates.
	raw := float64(part) / float64(whole) * 1000
	return float64(int64(raw+0.5)) / 10
}

// mondayFirst converts time.Weekday (Sunday=0) to a Monday-first index.
func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
