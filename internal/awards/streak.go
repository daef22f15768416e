package awards

import (
	"fmt"
	"sort"
	"time"

	"github.com/runwrap/runwrap/internal/model"
	"github.com/runwrap/runwrap/internal/rollup"
)

// streak describes one user's best run of consecutive successes.
type streak struct {
	length int
	end    time.Time // start timestamp of the streak's final run
}

// pickSuccessStreak awards the user with the longest run of
// consecutive successful runs in chronological order. Ties go to the
// streak that ended more recently; if those are equal too, the lowest
// user id wins.
func pickSuccessStreak(in Input) (string, string, bool) {
	bestID := ""
	var best streak

	for _, id := range sortedKeys(in.Users) {
		s := bestStreak(in.Users[id].Timeline)
		if s.length == 0 {
			continue
		}
		if s.length > best.length || (s.length == best.length && s.end.After(best.end)) {
			bestID, best = id, s
		}
	}

	if bestID == "" {
		return "", "", false
	}
	return bestID, fmt.Sprintf("%d in a row", best.length), true
}

// bestStreak finds the longest consecutive-success run on a timeline.
// The timeline is sorted by (timestamp, run id) first: rollups append
// in input order, and input order is not part of the contract. Within
// one user, a longer streak always wins; equal lengths keep the later
// ending.
func bestStreak(timeline []rollup.RunPoint) streak {
	points := make([]rollup.RunPoint, len(timeline))
	copy(points, timeline)
	sort.Slice(points, func(i, j int) bool {
		if !points[i].At.Equal(points[j].At) {
			return points[i].At.Before(points[j].At)
		}
		return points[i].ID < points[j].ID
	})

	var best, current streak
	for _, p := range points {
		if p.Status != model.StatusSucceeded {
			current = streak{}
			continue
		}
		current.length++
		current.end = p.At
		if current.length > best.length || (current.length == best.length && current.end.After(best.end)) {
			best = current
		}
	}
	return best
}

// pickRisingStar awards the project created within the report year
// with the highest run count among such projects; lowest project id
// on ties. Projects with no recorded creation timestamp never qualify.
func pickRisingStar(in Input) (string, string, bool) {
	bestID, bestRuns := "", 0
	for _, id := range sortedKeys(in.Projects) {
		p, known := in.Catalog[id]
		if !known || p.CreatedAt.IsZero() || p.CreatedAt.UTC().Year() != in.Year {
			continue
		}
		if runs := in.Projects[id].Runs; runs > bestRuns {
			bestID, bestRuns = id, runs
		}
	}
	if bestID == "" {
		return "", "", false
	}
	return bestID, fmt.Sprintf("%d runs", bestRuns), true
}
