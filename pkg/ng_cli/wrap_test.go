package ng_cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - [A-Z]+ - `)

func testCommand(load Loader, fn RunFunc) (*cobra.Command, *bytes.Buffer) {
	var stderr bytes.Buffer
	cmd := &cobra.Command{Use: "check", RunE: Wrap(load, fn), SilenceUsage: true, SilenceErrors: true}
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{})
	return cmd, &stderr
}

func loaderFor(cfg *config.Config) Loader {
	return func() (*config.Config, error) { return cfg, nil }
}

func TestWrap_LogsToFileAndStderr(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "wifi-reconnect.log")
	cfg := &config.Config{LogFile: logFile, LogLevel: "info"}

	var seen *ng_io.RuntimeContext
	cmd, stderr := testCommand(loaderFor(cfg), func(rc *ng_io.RuntimeContext, _ *cobra.Command, _ []string) error {
		seen = rc
		rc.Log.Info("Active Ethernet connection detected, exiting")
		return nil
	})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, seen)
	assert.Same(t, cfg, seen.Config)
	assert.Equal(t, "check", seen.Command)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Regexp(t, lineFormat, string(data))
	assert.Contains(t, string(data), " - INFO - Active Ethernet connection detected, exiting")
	assert.Contains(t, stderr.String(), "Active Ethernet connection detected, exiting")
}

func TestWrap_ConfigErrorStopsBeforeRun(t *testing.T) {
	called := false
	load := func() (*config.Config, error) {
		return nil, ng_err.NewValidationError("invalid configuration", cerr.New("bad probe"))
	}
	cmd, _ := testCommand(load, func(*ng_io.RuntimeContext, *cobra.Command, []string) error {
		called = true
		return nil
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, 2, ng_err.GetExitCode(err))
}

func TestWrap_PanicBecomesInternalError(t *testing.T) {
	cfg := &config.Config{LogFile: filepath.Join(t.TempDir(), "run.log"), LogLevel: "info"}
	cmd, _ := testCommand(loaderFor(cfg), func(*ng_io.RuntimeContext, *cobra.Command, []string) error {
		panic("boom")
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 3, ng_err.GetExitCode(err))
}

func TestWrap_PreservesClassification(t *testing.T) {
	cfg := &config.Config{LogFile: filepath.Join(t.TempDir(), "run.log"), LogLevel: "info"}
	cmd, _ := testCommand(loaderFor(cfg), func(*ng_io.RuntimeContext, *cobra.Command, []string) error {
		return ng_err.NewNetworkError("wireless station not associated after reconnect", nil)
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 1, ng_err.GetExitCode(err))
	assert.Equal(t, ng_err.CategoryNetwork, ng_err.CategoryOf(err))
}

func TestWrap_UnwritableLogFileFallsBackToStderr(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	cfg := &config.Config{LogFile: filepath.Join(blocker, "run.log"), LogLevel: "info"}

	cmd, stderr := testCommand(loaderFor(cfg), func(rc *ng_io.RuntimeContext, _ *cobra.Command, _ []string) error {
		rc.Log.Info("still logging")
		return nil
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "Log file unavailable, logging to stderr only")
	assert.Contains(t, stderr.String(), "still logging")
}

func TestWrap_TelemetryFileWritten(t *testing.T) {
	dir := t.TempDir()
	spans := filepath.Join(dir, "spans.jsonl")
	cfg := &config.Config{LogFile: filepath.Join(dir, "run.log"), LogLevel: "info", TelemetryFile: spans}

	cmd, _ := testCommand(loaderFor(cfg), func(*ng_io.RuntimeContext, *cobra.Command, []string) error {
		return nil
	})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(spans)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"check"`)
}
