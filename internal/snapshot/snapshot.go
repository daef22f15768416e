// Package snapshot reads the sqlite workspace snapshot the data-fetch
// layer exports.
//
// The snapshot is this engine's input boundary: by the time Open is
// called, all network I/O is done and the records are materialized in
// the file. The reader never writes.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runwrap/runwrap/internal/ingest"
)

// requiredTables are the tables a fetch-layer export must carry.
var requiredTables = []string{"runs", "projects", "users"}

// SchemaError reports a snapshot missing an expected table, which
// usually means the file came from an incompatible fetch-layer
// version.
type SchemaError struct {
	Path  string
	Table string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("snapshot %s: missing table %q (incompatible fetch-layer export?)", e.Path, e.Table)
}

// Snapshot is an open read handle on one workspace export.
type Snapshot struct {
	db   *sql.DB
	path string
}

// Open opens a snapshot file and verifies its schema.
//
// The connection is configured the way every sqlite consumer here is:
// a single connection (sqlite allows one writer; we want one reader
// with a stable view), busy timeout for files still being written by
// the fetch layer, query-only mode since this side never mutates.
func Open(path string) (*Snapshot, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to snapshot %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA query_only = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := &Snapshot{db: db, path: path}
	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the snapshot handle.
func (s *Snapshot) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// checkSchema verifies the required tables exist before any load, so a
// wrong file fails with a typed error instead of a mid-scan surprise.
func (s *Snapshot) checkSchema() error {
	for _, table := range requiredTables {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err == sql.ErrNoRows {
			return &SchemaError{Path: s.path, Table: table}
		}
		if err != nil {
			return fmt.Errorf("inspect snapshot schema: %w", err)
		}
	}
	return nil
}

// Load reads the full workspace export. Row-level defects are not
// judged here — that is the normalizer's job; the reader only fails on
// I/O and scan errors.
func (s *Snapshot) Load(ctx context.Context) (*ingest.RawData, error) {
	raw := &ingest.RawData{}

	if err := s.loadRuns(ctx, raw); err != nil {
		return nil, err
	}
	if err := s.loadProjects(ctx, raw); err != nil {
		return nil, err
	}
	if err := s.loadUsers(ctx, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *Snapshot) loadRuns(ctx context.Context, raw *ingest.RawData) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pipeline, project_id, user_id, status, started_at,
		       duration_ms, artifacts, models
		FROM runs
		ORDER BY started_at, id
	`)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r ingest.RawRun
		var projectID, userID, startedAt sql.NullString
		var durationMS, artifacts, models sql.NullInt64
		if err := rows.Scan(&r.ID, &r.Pipeline, &projectID, &userID, &r.Status,
			&startedAt, &durationMS, &artifacts, &models); err != nil {
			return fmt.Errorf("scan run row: %w", err)
		}
		r.ProjectID = projectID.String
		r.UserID = userID.String
		r.StartedAt = startedAt.String
		r.DurationMS = durationMS.Int64
		r.Artifacts = int(artifacts.Int64)
		r.Models = int(models.Int64)
		raw.Runs = append(raw.Runs, r)
	}
	return rows.Err()
}

func (s *Snapshot) loadProjects(ctx context.Context, raw *ingest.RawData) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM projects ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p ingest.RawProject
		var createdAt sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &createdAt); err != nil {
			return fmt.Errorf("scan project row: %w", err)
		}
		p.CreatedAt = createdAt.String
		raw.Projects = append(raw.Projects, p)
	}
	return rows.Err()
}

func (s *Snapshot) loadUsers(ctx context.Context, raw *ingest.RawData) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, avatar, service_account FROM users ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u ingest.RawUser
		var avatar sql.NullString
		var serviceAccount sql.NullBool
		if err := rows.Scan(&u.ID, &u.Name, &avatar, &serviceAccount); err != nil {
			return fmt.Errorf("scan user row: %w", err)
		}
		u.Avatar = avatar.String
		u.ServiceAccount = serviceAccount.Bool
		raw.Users = append(raw.Users, u)
	}
	return rows.Err()
}
