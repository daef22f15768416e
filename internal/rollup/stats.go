package rollup

// CoreStats is the workspace-wide counter block of the report.
//
// SuccessRate is succeeded / (succeeded + failed) as a percentage with
// one decimal; other-terminal runs are excluded from the denominator.
// It is 0.0 when there are zero decidable runs.
type CoreStats struct {
	TotalRuns         int            `json:"total_runs"`
	SuccessfulRuns    int            `json:"successful_runs"`
	FailedRuns        int            `json:"failed_runs"`
	SuccessRate       float64        `json:"success_rate"`
	UniquePipelines   int            `json:"unique_pipelines"`
	UniqueUsers       int            `json:"unique_users"`
	ActiveProjects    int            `json:"active_projects"`
	ArtifactsProduced int            `json:"artifacts_produced"`
	ModelsCreated     int            `json:"models_created"`
	StatusBreakdown   map[string]int `json:"status_breakdown"`
}
