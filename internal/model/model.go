// Package model defines the entities the report engine consumes.
//
// All types are plain immutable value structs: once the normalizer has
// produced them, no later stage mutates them. Identity fields are the
// orchestration platform's UUIDs, kept as canonical lowercase strings.
package model

import "time"

// RunStatus is the closed set of terminal run outcomes.
//
// Orchestration platforms grow new status strings over time, so anything
// outside this set is coerced to StatusOther at the normalization
// boundary rather than rejected.
type RunStatus string

const (
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
	StatusOther     RunStatus = "other"
)

// ValidStatuses defines the allowed canonical status values.
var ValidStatuses = map[RunStatus]bool{
	StatusSucceeded: true,
	StatusFailed:    true,
	StatusOther:     true,
}

// Decidable reports whether the status counts toward the success rate.
// Only succeeded and failed runs are decidable; other-terminal runs
// (cancelled, cached, unknown) are excluded from the denominator.
func (s RunStatus) Decidable() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Run is one execution instance of a pipeline.
//
// StartedAt is always UTC; the normalizer guarantees it is non-zero for
// every Run it emits, so time analytics never see a missing timestamp.
// ProjectID and UserID may be empty when the platform did not attribute
// the run; such runs still count toward workspace totals but are
// skipped by the per-project and per-user rollups.
type Run struct {
	ID        string
	Pipeline  string // pipeline name, unique only within a project
	ProjectID string
	UserID    string
	Status    RunStatus
	StartedAt time.Time
	Duration  time.Duration
	Artifacts int // artifacts produced by this run
	Models    int // model versions created by this run
}

// PipelineKey identifies a pipeline. Pipeline names repeat across
// projects, so the (project, name) pair is the identity.
type PipelineKey struct {
	ProjectID string
	Name      string
}

// PipelineOf returns the identity of the pipeline this run executed.
func (r Run) PipelineOf() PipelineKey {
	return PipelineKey{ProjectID: r.ProjectID, Name: r.Pipeline}
}

// Weekend reports whether the run started on a Saturday or Sunday (UTC).
func (r Run) Weekend() bool {
	wd := r.StartedAt.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Project is a workspace project. CreatedAt drives the rising-star
// determination and is zero when the platform did not report it.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// User is a platform account. Avatar is optional and passed through to
// the report untouched.
type User struct {
	ID     string
	Name   string
	Avatar string
}
