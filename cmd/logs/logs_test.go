package logs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(func() (*config.Config, error) { return cfg, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return out.String(), err
}

func TestLogs_Tail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wifi-reconnect.log")
	content := "2024-05-01 12:00:00,000 - INFO - Wi-Fi is not connected, attempting reconnect\n" +
		"2024-05-01 12:00:05,000 - INFO - Connection restored successfully\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := run(t, &config.Config{LogFile: path, LogLevel: "info"}, "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 12:00:05,000 - INFO - Connection restored successfully\n", out)
	assert.NotContains(t, out, "\033[")

	out, err = run(t, &config.Config{LogFile: path, LogLevel: "info"}, "--colour")
	require.NoError(t, err)
	assert.Contains(t, out, "\033[32m")
}

func TestLogs_UnreadablePathIsUserError(t *testing.T) {
	cfg := &config.Config{LogFile: t.TempDir(), LogLevel: "error"}

	_, err := run(t, cfg)
	require.Error(t, err)
	assert.Equal(t, 0, ng_err.GetExitCode(err))
}

func TestLogs_NegativeLines(t *testing.T) {
	cfg := &config.Config{LogFile: filepath.Join(t.TempDir(), "wifi-reconnect.log"), LogLevel: "info"}
	_, err := run(t, cfg, "-n", "-1")
	require.Error(t, err)
	assert.Equal(t, 2, ng_err.GetExitCode(err))
}
