// Package report assembles the final versioned document.
//
// The report is write-once: Assemble builds it, Marshal serializes it,
// and nothing modifies it afterwards. Consumers key their rendering on
// SchemaVersion and must refuse documents they do not understand.
package report

import (
	"encoding/json"
	"time"

	"github.com/runwrap/runwrap/internal/anonymize"
	"github.com/runwrap/runwrap/internal/facts"
	"github.com/runwrap/runwrap/internal/rollup"
)

// SchemaVersion tags the output document. Bump it whenever a field is
// added, removed or renamed — consumers compare it verbatim.
//
// History:
//
//	1.0 - original extraction script output (no projects, no
//	      leaderboards, no anonymization, single fun-fact list)
//	2.0 - project leaderboards, per-project summaries, anonymization
//	      mapping, parallel specific/generic fun facts, award value
//	      strings, project-scoped awards
const SchemaVersion = "2.0"

// Report is the single output document.
type Report struct {
	SchemaVersion string    `json:"schema_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	Year          int       `json:"year"`

	CoreStats           rollup.CoreStats      `json:"core_stats"`
	TimeAnalytics       rollup.TimeAnalytics  `json:"time_analytics"`
	ProjectLeaderboards map[string][]string   `json:"project_leaderboards"`
	Projects            []ProjectSummary      `json:"projects"`
	Users               []UserSummary         `json:"users"`
	TopPipelines        []PipelineEntry       `json:"top_pipelines"`
	Awards              map[string]AwardEntry `json:"awards"`
	Anonymized          anonymize.Mapping     `json:"anonymized"`
	FunFacts            facts.Set             `json:"fun_facts"`
}

// ProjectSummary is one entry of the projects listing, ordered by
// total runs descending (project id ascending on ties).
type ProjectSummary struct {
	Name            string  `json:"name"`
	TotalRuns       int     `json:"total_runs"`
	FailedRuns      int     `json:"failed_runs"`
	SuccessRate     float64 `json:"success_rate"`
	UniqueUsers     int     `json:"unique_users"`
	UniquePipelines int     `json:"unique_pipelines"`
}

// UserSummary is one entry of the users listing, ordered by total runs
// descending (user id ascending on ties).
type UserSummary struct {
	Name            string  `json:"name"`
	Avatar          string  `json:"avatar,omitempty"`
	TotalRuns       int     `json:"total_runs"`
	SuccessfulRuns  int     `json:"successful_runs"`
	FailedRuns      int     `json:"failed_runs"`
	SuccessRate     float64 `json:"success_rate"`
	WeekendRuns     int     `json:"weekend_runs"`
	UniquePipelines int     `json:"unique_pipelines"`
}

// PipelineEntry is one entry of the top_pipelines listing.
type PipelineEntry struct {
	Name    string `json:"name"`
	Runs    int    `json:"runs"`
	Project string `json:"project"`
}

// AwardEntry is one decided award. Exactly one of User / Project is
// set; Avatar only accompanies user awards and may be absent.
type AwardEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	User        string `json:"user,omitempty"`
	Project     string `json:"project,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Value       string `json:"value"`
}

// Marshal serializes the report as indented JSON. encoding/json sorts
// map keys, so serialization is deterministic for a given report.
func (r *Report) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
