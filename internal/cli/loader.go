package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/runwrap/runwrap/internal/config"
	"github.com/runwrap/runwrap/internal/ingest"
	"github.com/runwrap/runwrap/internal/snapshot"
)

// LoadRawData reads the workspace export named by cfg: the sqlite
// snapshot when set, else the JSON export. Errors come back as
// ExitErrors with command-error exit codes and the matching E-code
// message, so commands can hand them straight to the formatter.
func LoadRawData(ctx context.Context, cfg *config.Config) (*ingest.RawData, error) {
	switch {
	case cfg.Snapshot != "":
		return loadSnapshot(ctx, cfg.Snapshot)
	case cfg.Export != "":
		return loadExport(cfg.Export)
	default:
		return nil, NewExitError(ExitCommandError, ErrCodeNoInput+": no snapshot or export configured")
	}
}

func loadSnapshot(ctx context.Context, path string) (*ingest.RawData, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("%s: snapshot not found: %s", ErrCodeSnapshot, path))
	}

	snap, err := snapshot.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeSnapshot+": open snapshot", err)
	}
	defer snap.Close()

	raw, err := snap.Load(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeSnapshot+": load snapshot", err)
	}

	slog.Debug("loaded snapshot", "path", path,
		"runs", len(raw.Runs), "projects", len(raw.Projects), "users", len(raw.Users))
	return raw, nil
}

func loadExport(path string) (*ingest.RawData, error) {
	raw, err := ingest.LoadExport(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeExport+": load export", err)
	}

	slog.Debug("loaded export", "path", path,
		"runs", len(raw.Runs), "projects", len(raw.Projects), "users", len(raw.Users))
	return raw, nil
}

// ResolveConfig loads the config file when given, otherwise starts
// from defaults, then applies flag overrides.
func ResolveConfig(path string, override func(*config.Config)) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeConfig+": load config", err)
		}
		cfg = loaded
	}
	if override != nil {
		override(cfg)
	}
	return cfg, nil
}
