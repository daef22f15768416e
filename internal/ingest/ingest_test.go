package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runwrap/runwrap/internal/model"
)

const (
	runID     = "11111111-1111-1111-1111-111111111111"
	userID    = "22222222-2222-2222-2222-222222222222"
	projectID = "33333333-3333-3333-3333-333333333333"
)

func rawRun(id, status, startedAt string) RawRun {
	return RawRun{
		ID:        id,
		Pipeline:  "train",
		ProjectID: projectID,
		UserID:    userID,
		Status:    status,
		StartedAt: startedAt,
	}
}

// TestNormalize_HappyPath verifies a clean record maps onto the
// canonical Run shape with UTC timestamps and canonical ids.
func TestNormalize_HappyPath(t *testing.T) {
	raw := &RawData{
		Runs: []RawRun{rawRun(runID, "completed", "2025-03-01T10:30:00+02:00")},
	}

	res := Normalize(raw, 2025, nil)

	require.Len(t, res.Runs, 1)
	run := res.Runs[0]
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, model.StatusSucceeded, run.Status)
	assert.Equal(t, "2025-03-01T08:30:00Z", run.StartedAt.Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, 0, res.DroppedRuns)
}

// TestNormalize_DropsMalformed verifies records missing a required
// field are dropped and counted without failing the batch.
func TestNormalize_DropsMalformed(t *testing.T) {
	raw := &RawData{
		Runs: []RawRun{
			rawRun("", "completed", "2025-03-01T10:00:00Z"),      // missing id
			rawRun("not-a-uuid", "completed", "2025-03-01T10:00:00Z"), // bad id
			rawRun(runID, "", "2025-03-01T10:00:00Z"),            // missing status
			rawRun(runID, "completed", ""),                       // missing timestamp
			rawRun(runID, "completed", "yesterday"),              // bad timestamp
			rawRun(runID, "completed", "2025-03-01T10:00:00Z"),   // good
		},
	}

	res := Normalize(raw, 2025, nil)

	assert.Len(t, res.Runs, 1)
	assert.Equal(t, 5, res.DroppedRuns)
}

// TestNormalize_YearBoundary verifies the inclusive calendar-year
// filter in UTC: runs outside the target year are silently skipped,
// not counted as drops.
func TestNormalize_YearBoundary(t *testing.T) {
	raw := &RawData{
		Runs: []RawRun{
			rawRun(runID, "completed", "2024-12-31T23:59:59Z"),
			rawRun(runID, "completed", "2025-01-01T00:00:00Z"),
			rawRun(runID, "completed", "2025-12-31T23:59:59Z"),
			rawRun(runID, "completed", "2026-01-01T00:00:00Z"),
			// 01:30+02:00 on Jan 1 2025 is 23:30 Dec 31 2024 UTC.
			rawRun(runID, "completed", "2025-01-01T01:30:00+02:00"),
		},
	}

	res := Normalize(raw, 2025, nil)

	assert.Len(t, res.Runs, 2)
	assert.Equal(t, 0, res.DroppedRuns)
}

// TestCoerceStatus verifies unknown status strings coerce to
// other-terminal rather than being rejected.
func TestCoerceStatus(t *testing.T) {
	assert.Equal(t, model.StatusSucceeded, CoerceStatus("completed"))
	assert.Equal(t, model.StatusSucceeded, CoerceStatus("Succeeded"))
	assert.Equal(t, model.StatusFailed, CoerceStatus("FAILED"))
	assert.Equal(t, model.StatusOther, CoerceStatus("cancelled"))
	assert.Equal(t, model.StatusOther, CoerceStatus("cached"))
	assert.Equal(t, model.StatusOther, CoerceStatus("some-future-status"))
}

// TestNormalize_ExcludedProjects verifies the exclusion set removes a
// project's runs, projects and nothing else before normalization.
func TestNormalize_ExcludedProjects(t *testing.T) {
	other := "44444444-4444-4444-4444-444444444444"
	excluded := rawRun(runID, "completed", "2025-05-01T10:00:00Z")
	kept := rawRun(runID, "completed", "2025-05-01T11:00:00Z")
	kept.ProjectID = other

	raw := &RawData{
		Runs: []RawRun{excluded, kept},
		Projects: []RawProject{
			{ID: projectID, Name: "secret"},
			{ID: other, Name: "public"},
		},
	}

	res := Normalize(raw, 2025, map[string]bool{projectID: true})

	require.Len(t, res.Runs, 1)
	assert.Equal(t, other, res.Runs[0].ProjectID)
	assert.Equal(t, 1, res.ExcludedRuns)
	require.Len(t, res.Projects, 1)
	assert.Equal(t, "public", res.Projects[0].Name)
}

// TestNormalize_UnattributedRunSurvives verifies a run with no user or
// project is kept: only id, status and timestamp are required.
func TestNormalize_UnattributedRunSurvives(t *testing.T) {
	rr := rawRun(runID, "failed", "2025-05-01T10:00:00Z")
	rr.UserID = ""
	rr.ProjectID = ""

	res := Normalize(&RawData{Runs: []RawRun{rr}}, 2025, nil)

	require.Len(t, res.Runs, 1)
	assert.Empty(t, res.Runs[0].UserID)
	assert.Empty(t, res.Runs[0].ProjectID)
	assert.Equal(t, 0, res.DroppedRuns)
}

// TestNormalize_Users verifies service accounts are dropped from the
// user catalogue and missing names fall back to a truncated id.
func TestNormalize_Users(t *testing.T) {
	raw := &RawData{
		Users: []RawUser{
			{ID: userID, Name: "ada", Avatar: "https://example.com/a.png"},
			{ID: projectID, Name: "bot", ServiceAccount: true},
			{ID: runID},
		},
	}

	res := Normalize(raw, 2025, nil)

	require.Len(t, res.Users, 2)
	assert.Equal(t, "ada", res.Users[0].Name)
	assert.Equal(t, "11111111", res.Users[1].Name)
}
