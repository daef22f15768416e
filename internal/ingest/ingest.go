// Package ingest normalizes raw records from the data-fetch layer into
// the canonical model types.
//
// The normalizer is deliberately forgiving: individual malformed records
// are dropped and counted, never fatal to the batch. The fetch layer
// talks to a live orchestration server and its exports routinely contain
// half-written rows, unattributed runs, and status strings this engine
// has never heard of.
package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/runwrap/runwrap/internal/model"
)

// RawRun is a run record as exported by the fetch layer, either as a
// row in the sqlite snapshot or an element of the JSON export.
type RawRun struct {
	ID         string `json:"id"`
	Pipeline   string `json:"pipeline"`
	ProjectID  string `json:"project_id"`
	UserID     string `json:"user_id"`
	Status     string `json:"status"`
	StartedAt  string `json:"started_at"` // RFC 3339
	DurationMS int64  `json:"duration_ms"`
	Artifacts  int    `json:"artifacts"`
	Models     int    `json:"models"`
}

// RawProject is a project record as exported by the fetch layer.
type RawProject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// RawUser is a user record as exported by the fetch layer.
type RawUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar,omitempty"`
	ServiceAccount bool   `json:"service_account,omitempty"`
}

// RawData bundles one workspace export.
type RawData struct {
	Runs     []RawRun     `json:"runs"`
	Projects []RawProject `json:"projects"`
	Users    []RawUser    `json:"users"`
}

// Result is the output of one normalization pass.
type Result struct {
	Runs     []model.Run
	Projects []model.Project
	Users    []model.User

	// Diagnostics. DroppedRuns counts records missing a required field
	// (id, status, timestamp) or carrying an unparseable one. Excluded
	// counts runs removed by the project exclusion set. Neither halts
	// the batch.
	DroppedRuns  int
	ExcludedRuns int
}

// Normalize validates and coerces raw records, keeping only runs whose
// start timestamp falls within the target calendar year (UTC).
//
// Runs owned by a project in exclude are removed before anything else,
// so an excluded project contributes to no counter anywhere downstream.
// Service accounts are dropped from the user catalogue, matching how
// the platform itself reports "humans" in its workspace views.
func Normalize(raw *RawData, year int, exclude map[string]bool) *Result {
	res := &Result{}

	for _, rr := range raw.Runs {
		projectID, _ := canonicalID(rr.ProjectID)
		if exclude[projectID] {
			res.ExcludedRuns++
			continue
		}

		run, ok := normalizeRun(rr)
		if !ok {
			res.DroppedRuns++
			continue
		}
		if run.StartedAt.Year() != year {
			continue
		}
		run.ProjectID = projectID
		res.Runs = append(res.Runs, run)
	}

	for _, rp := range raw.Projects {
		id, ok := canonicalID(rp.ID)
		if !ok || exclude[id] {
			continue
		}
		created, _ := parseTime(rp.CreatedAt)
		res.Projects = append(res.Projects, model.Project{
			ID:        id,
			Name:      rp.Name,
			CreatedAt: created,
		})
	}

	for _, ru := range raw.Users {
		id, ok := canonicalID(ru.ID)
		if !ok || ru.ServiceAccount {
			continue
		}
		name := ru.Name
		if name == "" {
			name = shortID(id)
		}
		res.Users = append(res.Users, model.User{
			ID:     id,
			Name:   name,
			Avatar: ru.Avatar,
		})
	}

	return res
}

// normalizeRun maps one raw run onto the canonical Run shape. Returns
// false when a required field (id, status, timestamp) is missing or
// unparseable.
func normalizeRun(rr RawRun) (model.Run, bool) {
	id, ok := canonicalID(rr.ID)
	if !ok {
		return model.Run{}, false
	}
	if strings.TrimSpace(rr.Status) == "" {
		return model.Run{}, false
	}
	started, ok := parseTime(rr.StartedAt)
	if !ok {
		return model.Run{}, false
	}

	userID, _ := canonicalID(rr.UserID)

	return model.Run{
		ID:        id,
		Pipeline:  rr.Pipeline,
		UserID:    userID,
		Status:    CoerceStatus(rr.Status),
		StartedAt: started,
		Duration:  time.Duration(rr.DurationMS) * time.Millisecond,
		Artifacts: rr.Artifacts,
		Models:    rr.Models,
	}, true
}

// CoerceStatus maps a platform status string onto the closed status
// set. "completed" is what ZenML-style platforms call a successful run;
// anything unrecognized is other-terminal rather than an error, since
// platforms introduce new status strings without notice.
func CoerceStatus(s string) model.RunStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "succeeded", "success", "completed":
		return model.StatusSucceeded
	case "failed", "failure":
		return model.StatusFailed
	default:
		return model.StatusOther
	}
}

// canonicalID parses a platform UUID and returns its canonical
// lowercase form. Empty input is reported as not-ok with no error: an
// absent id is a normal condition for unattributed runs.
func canonicalID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// parseTime accepts RFC 3339 with or without sub-second precision and
// normalizes to UTC.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
