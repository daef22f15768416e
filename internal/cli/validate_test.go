package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeReportFixture generates a real report file via the generate
// command and returns its path.
func writeReportFixture(t *testing.T) string {
	t.Helper()
	export := writeExportFixture(t)
	output := filepath.Join(t.TempDir(), "report.json")

	_, err := runGenerateCommand(t, "text",
		"--export", export, "--year", "2025", "--output", output)
	require.NoError(t, err)
	return output
}

func runValidateCommand(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestValidateGoodReport(t *testing.T) {
	path := writeReportFixture(t)

	buf, err := runValidateCommand(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "valid (schema 2.0)")
}

func TestValidateWrongSchemaVersion(t *testing.T) {
	path := writeReportFixture(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), `"schema_version": "2.0"`, `"schema_version": "1.0"`, 1)
	require.NotEqual(t, string(data), tampered)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o644))

	buf, err := runValidateCommand(t, "text", path)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "V002")
}

func TestValidateMalformedReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	buf, err := runValidateCommand(t, "text", path)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "V001")
}

func TestValidateMissingFile(t *testing.T) {
	_, err := runValidateCommand(t, "text", filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeInvalid)
}

func TestValidateFailureJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	buf, err := runValidateCommand(t, "json", path)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalid, resp.Error.Code)
}
