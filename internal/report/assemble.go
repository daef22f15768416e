package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/runwrap/runwrap/internal/anonymize"
	"github.com/runwrap/runwrap/internal/awards"
	"github.com/runwrap/runwrap/internal/facts"
	"github.com/runwrap/runwrap/internal/ingest"
	"github.com/runwrap/runwrap/internal/model"
	"github.com/runwrap/runwrap/internal/rank"
	"github.com/runwrap/runwrap/internal/rollup"
)

// TopPipelineLimit bounds the top_pipelines listing surfaced to the
// presentation layer.
const TopPipelineLimit = 5

// Params carries per-invocation settings into assembly. GeneratedAt is
// injected by the caller: the engine itself never reads the clock, so
// re-running over cached input is byte-identical.
type Params struct {
	Year          int
	GeneratedAt   time.Time
	AnonymizeSalt string
}

// Assemble runs the full pipeline over normalized input and produces
// the report document: aggregation, ranking, awards, anonymization,
// fun facts, serialization structure. Each stage consumes the
// immutable output of the previous one.
func Assemble(in *ingest.Result, p Params) (*Report, error) {
	agg := rollup.Build(in.Runs)
	boards := rank.Build(agg.Projects)

	catalog := make(map[string]model.Project, len(in.Projects))
	for _, proj := range in.Projects {
		catalog[proj.ID] = proj
	}
	userCatalog := make(map[string]model.User, len(in.Users))
	for _, u := range in.Users {
		userCatalog[u.ID] = u
	}

	winners := awards.Evaluate(awards.Input{
		Users:    agg.Users,
		Projects: agg.Projects,
		Catalog:  catalog,
		Year:     p.Year,
	})

	topPipelines := buildTopPipelines(agg.PipelineRuns, catalog)
	projects := buildProjectSummaries(agg.Projects, catalog)
	users := buildUserSummaries(agg.Users, userCatalog)

	mapping, err := anonymize.Build(
		projectNames(agg.Projects, catalog),
		pipelineNames(agg.PipelineRuns),
		p.AnonymizeSalt,
	)
	if err != nil {
		return nil, fmt.Errorf("anonymize: %w", err)
	}

	funFacts := facts.Generate(factsInput(p.Year, agg, topPipelines, projects))

	return &Report{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   p.GeneratedAt,
		Year:          p.Year,
		CoreStats:     agg.Core,
		TimeAnalytics: agg.Time,
		ProjectLeaderboards: map[string][]string{
			rank.MostRuns:           projectNameList(boards.MostRuns, catalog),
			rank.HighestSuccessRate: projectNameList(boards.HighestSuccessRate, catalog),
			rank.MostUsers:          projectNameList(boards.MostUsers, catalog),
		},
		Projects:     projects,
		Users:        users,
		TopPipelines: topPipelines,
		Awards:       buildAwardEntries(winners, catalog, userCatalog),
		Anonymized:   mapping,
		FunFacts:     funFacts,
	}, nil
}

// buildTopPipelines ranks pipelines by run count descending; ties
// break by pipeline name, then project id, keeping the listing a total
// order. Only the top TopPipelineLimit entries are surfaced.
func buildTopPipelines(runs map[model.PipelineKey]int, catalog map[string]model.Project) []PipelineEntry {
	keys := make([]model.PipelineKey, 0, len(runs))
	for k := range runs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if runs[keys[i]] != runs[keys[j]] {
			return runs[keys[i]] > runs[keys[j]]
		}
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].ProjectID < keys[j].ProjectID
	})

	if len(keys) > TopPipelineLimit {
		keys = keys[:TopPipelineLimit]
	}

	out := make([]PipelineEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, PipelineEntry{
			Name:    k.Name,
			Runs:    runs[k],
			Project: displayProject(k.ProjectID, catalog),
		})
	}
	return out
}

func buildProjectSummaries(projects map[string]*rollup.Rollup, catalog map[string]model.Project) []ProjectSummary {
	ids := sortByRunsDesc(projects)
	out := make([]ProjectSummary, 0, len(ids))
	for _, id := range ids {
		r := projects[id]
		out = append(out, ProjectSummary{
			Name:            displayProject(id, catalog),
			TotalRuns:       r.Runs,
			FailedRuns:      r.Failed,
			SuccessRate:     r.SuccessRate(),
			UniqueUsers:     len(r.Users),
			UniquePipelines: len(r.Pipelines),
		})
	}
	return out
}

func buildUserSummaries(users map[string]*rollup.Rollup, catalog map[string]model.User) []UserSummary {
	ids := sortByRunsDesc(users)
	out := make([]UserSummary, 0, len(ids))
	for _, id := range ids {
		r := users[id]
		name, avatar := displayUser(id, catalog)
		out = append(out, UserSummary{
			Name:            name,
			Avatar:          avatar,
			TotalRuns:       r.Runs,
			SuccessfulRuns:  r.Succeeded,
			FailedRuns:      r.Failed,
			SuccessRate:     r.SuccessRate(),
			WeekendRuns:     r.Weekend,
			UniquePipelines: len(r.Pipelines),
		})
	}
	return out
}

func buildAwardEntries(winners []awards.Winner, catalog map[string]model.Project, userCatalog map[string]model.User) map[string]AwardEntry {
	out := make(map[string]AwardEntry, len(winners))
	for _, w := range winners {
		entry := AwardEntry{
			Title:       w.Title,
			Description: w.Description,
			Icon:        w.Icon,
			Value:       w.Value,
		}
		if w.ProjectID != "" {
			entry.Project = displayProject(w.ProjectID, catalog)
		} else {
			entry.User, entry.Avatar = displayUser(w.UserID, userCatalog)
		}
		out[w.Key] = entry
	}
	return out
}

func factsInput(year int, agg *rollup.Result, topPipelines []PipelineEntry, projects []ProjectSummary) facts.Input {
	in := facts.Input{Year: year, Core: agg.Core, Time: agg.Time}
	if len(topPipelines) > 0 {
		in.TopPipelineName = topPipelines[0].Name
		in.TopPipelineRuns = topPipelines[0].Runs
	}
	if len(projects) > 0 {
		in.TopProjectName = projects[0].Name
		in.TopProjectRuns = projects[0].TotalRuns
	}
	return in
}

// sortByRunsDesc orders rollup keys by run count descending, id
// ascending on ties.
func sortByRunsDesc(m map[string]*rollup.Rollup) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if m[ids[i]].Runs != m[ids[j]].Runs {
			return m[ids[i]].Runs > m[ids[j]].Runs
		}
		return ids[i] < ids[j]
	})
	return ids
}

func projectNameList(ids []string, catalog map[string]model.Project) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = displayProject(id, catalog)
	}
	return out
}

func projectNames(projects map[string]*rollup.Rollup, catalog map[string]model.Project) []string {
	names := make([]string, 0, len(projects))
	for id := range projects {
		names = append(names, displayProject(id, catalog))
	}
	return names
}

func pipelineNames(runs map[model.PipelineKey]int) []string {
	names := make([]string, 0, len(runs))
	for k := range runs {
		names = append(names, k.Name)
	}
	return names
}

// displayProject resolves a project id to its display name, falling
// back to a truncated id when the catalogue is missing the project
// (the fetch layer can race project deletion).
func displayProject(id string, catalog map[string]model.Project) string {
	if p, ok := catalog[id]; ok && p.Name != "" {
		return p.Name
	}
	return truncateID(id)
}

func displayUser(id string, catalog map[string]model.User) (name, avatar string) {
	if u, ok := catalog[id]; ok && u.Name != "" {
		return u.Name, u.Avatar
	}
	return truncateID(id), ""
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
