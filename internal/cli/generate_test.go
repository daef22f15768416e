package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runwrap/runwrap/internal/report"
)

const (
	fixtureUserA    = "aaaaaaaa-0000-0000-0000-000000000001"
	fixtureUserB    = "aaaaaaaa-0000-0000-0000-000000000002"
	fixtureProjectA = "bbbbbbbb-0000-0000-0000-000000000001"
	fixtureProjectB = "bbbbbbbb-0000-0000-0000-000000000002"
	fixtureRun1     = "cccccccc-0000-0000-0000-000000000001"
	fixtureRun2     = "cccccccc-0000-0000-0000-000000000002"
	fixtureRun3     = "cccccccc-0000-0000-0000-000000000003"
)

// writeExportFixture writes a three-run JSON workspace export and
// returns its path.
func writeExportFixture(t *testing.T) string {
	t.Helper()
	export := map[string]any{
		"runs": []map[string]any{
			{"id": fixtureRun1, "pipeline": "train", "project_id": fixtureProjectA,
				"user_id": fixtureUserA, "status": "succeeded", "started_at": "2025-06-01T09:00:00Z"},
			{"id": fixtureRun2, "pipeline": "train", "project_id": fixtureProjectA,
				"user_id": fixtureUserA, "status": "failed", "started_at": "2025-06-02T23:30:00Z"},
			{"id": fixtureRun3, "pipeline": "deploy", "project_id": fixtureProjectB,
				"user_id": fixtureUserB, "status": "completed", "started_at": "2025-12-15T14:00:00Z"},
		},
		"projects": []map[string]any{
			{"id": fixtureProjectA, "name": "fraud-detection", "created_at": "2023-01-01T00:00:00Z"},
			{"id": fixtureProjectB, "name": "recsys", "created_at": "2025-03-01T00:00:00Z"},
		},
		"users": []map[string]any{
			{"id": fixtureUserA, "name": "ada"},
			{"id": fixtureUserB, "name": "brendan"},
		},
	}

	data, err := json.Marshal(export)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// runGenerateCommand executes generate with the given flags, capturing
// stdout only; cobra's own error/usage printing goes elsewhere.
func runGenerateCommand(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewGenerateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestGenerateFromExport(t *testing.T) {
	export := writeExportFixture(t)
	output := filepath.Join(t.TempDir(), "report.json")

	buf, err := runGenerateCommand(t, "text",
		"--export", export, "--year", "2025", "--output", output)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Report written to "+output)
	assert.Contains(t, buf.String(), "Total runs:       3")

	// The written document passes its own validation.
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Empty(t, report.Validate(data))
}

func TestGenerateJSONSummary(t *testing.T) {
	export := writeExportFixture(t)
	output := filepath.Join(t.TempDir(), "report.json")

	buf, err := runGenerateCommand(t, "json",
		"--export", export, "--year", "2025", "--output", output)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(3), data["total_runs"])
	assert.Equal(t, float64(2025), data["year"])
	assert.InDelta(t, 66.7, data["success_rate"], 0.001)
}

func TestGenerateCreatesOutputDir(t *testing.T) {
	export := writeExportFixture(t)
	output := filepath.Join(t.TempDir(), "nested", "dir", "report.json")

	_, err := runGenerateCommand(t, "text",
		"--export", export, "--year", "2025", "--output", output)
	require.NoError(t, err)
	assert.FileExists(t, output)
}

func TestGenerateNoInput(t *testing.T) {
	_, err := runGenerateCommand(t, "text", "--year", "2025")

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoInput)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateMissingYear(t *testing.T) {
	export := writeExportFixture(t)

	_, err := runGenerateCommand(t, "text", "--export", export)

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeYear)
}

func TestGenerateImplausibleYear(t *testing.T) {
	export := writeExportFixture(t)

	_, err := runGenerateCommand(t, "text", "--export", export, "--year", "1776")

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeYear)
}

func TestGenerateBadExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := runGenerateCommand(t, "text", "--export", path, "--year", "2025")

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeExport)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateMissingSnapshot(t *testing.T) {
	_, err := runGenerateCommand(t, "text",
		"--snapshot", filepath.Join(t.TempDir(), "absent.db"), "--year", "2025")

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeSnapshot)
}

func TestGenerateFromConfigFile(t *testing.T) {
	export := writeExportFixture(t)
	output := filepath.Join(t.TempDir(), "report.json")

	cfgPath := filepath.Join(t.TempDir(), "runwrap.yaml")
	cfg := "year: 2025\nexport: " + export + "\noutput: " + output + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	buf, err := runGenerateCommand(t, "text", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Report written to "+output)
}

func TestGenerateFlagsOverrideConfig(t *testing.T) {
	export := writeExportFixture(t)
	cfgOutput := filepath.Join(t.TempDir(), "from-config.json")
	flagOutput := filepath.Join(t.TempDir(), "from-flag.json")

	cfgPath := filepath.Join(t.TempDir(), "runwrap.yaml")
	cfg := "year: 2025\nexport: " + export + "\noutput: " + cfgOutput + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, err := runGenerateCommand(t, "text", "--config", cfgPath, "--output", flagOutput)
	require.NoError(t, err)

	assert.FileExists(t, flagOutput)
	assert.NoFileExists(t, cfgOutput)
}

func TestGenerateBadConfig(t *testing.T) {
	_, err := runGenerateCommand(t, "text",
		"--config", filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeConfig)
}

func TestGenerateExcludeProject(t *testing.T) {
	export := writeExportFixture(t)
	output := filepath.Join(t.TempDir(), "report.json")

	buf, err := runGenerateCommand(t, "text",
		"--export", export, "--year", "2025", "--output", output,
		"--exclude", fixtureProjectA)
	require.NoError(t, err)

	// Project A owned two of the three runs.
	assert.Contains(t, buf.String(), "Total runs:       1")
	assert.Contains(t, buf.String(), "Dropped records:  0 (excluded: 2)")
}
