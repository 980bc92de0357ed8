package check

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute/executetest"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/guard"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	nmcliUnplugged      = "DEVICE  TYPE      STATE        CONNECTION\neth0    ethernet  unavailable  --\n"
	stationConnected    = "            State                 connected\n"
	stationDisconnected = "            State                 disconnected\n"
)

func withRunner(t *testing.T, runner *executetest.FakeRunner) {
	t.Helper()
	orig := newGuard
	newGuard = func(cfg *config.Config, log *zap.Logger) (*guard.Guard, error) {
		return guard.NewWithRunner(cfg, runner, log)
	}
	t.Cleanup(func() { newGuard = orig })
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Interface:         "wlan0",
		SSID:              "NerVV",
		CredentialKey:     "wifi",
		CredentialBackend: config.BackendPass,
		WiredProbe:        config.ProbeTool,
		LinkStatusCmd:     "nmcli device status",
		LogFile:           filepath.Join(dir, "wifi-reconnect.log"),
		LogLevel:          "info",
		MetricsTextfile:   filepath.Join(dir, "netguard.prom"),
	}
}

func execute(t *testing.T, cfg *config.Config) error {
	t.Helper()
	cmd := NewCommand(func() (*config.Config, error) { return cfg, nil })
	cmd.SetArgs([]string{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.Execute()
}

func TestCheck_ReconnectWritesLogAndMetrics(t *testing.T) {
	withRunner(t, executetest.NewFakeRunner().
		On("nmcli device status", executetest.Response{Stdout: nmcliUnplugged}).
		On("iwctl station wlan0 show",
			executetest.Response{Stdout: stationDisconnected},
			executetest.Response{Stdout: stationConnected}).
		On("pass show wifi", executetest.Response{Stdout: "pw1\n"}).
		On("iwctl station wlan0 --passphrase pw1 connect NerVV", executetest.Response{}))

	cfg := testConfig(t)
	require.NoError(t, execute(t, cfg))

	logData, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(logData), " - INFO - Wi-Fi is not connected, attempting reconnect")
	assert.Contains(t, string(logData), " - INFO - Connection restored successfully")
	assert.NotContains(t, string(logData), "pw1")

	prom, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "netguard_reconnect_attempted 1")
	assert.Contains(t, string(prom), "netguard_last_run_success 1")
}

func TestCheck_FailedVerifyExitsOne(t *testing.T) {
	withRunner(t, executetest.NewFakeRunner().
		On("nmcli device status", executetest.Response{Stdout: nmcliUnplugged}).
		On("iwctl station wlan0 show", executetest.Response{Stdout: stationDisconnected}).
		On("pass show wifi", executetest.Response{Stdout: "pw1\n"}).
		On("iwctl station wlan0 --passphrase pw1 connect NerVV", executetest.Response{}))

	cfg := testConfig(t)
	err := execute(t, cfg)
	require.Error(t, err)
	assert.Equal(t, 1, ng_err.GetExitCode(err))

	logData, readErr := os.ReadFile(cfg.LogFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(logData), " - ERROR - Failed to restore connection")

	prom, readErr := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, readErr)
	assert.Contains(t, string(prom), "netguard_last_run_success 0")
}

func TestCheck_MetricsDisabled(t *testing.T) {
	withRunner(t, executetest.NewFakeRunner().
		On("nmcli device status", executetest.Response{Stdout: nmcliUnplugged}).
		On("iwctl station wlan0 show", executetest.Response{Stdout: stationConnected}))

	cfg := testConfig(t)
	path := cfg.MetricsTextfile
	cfg.MetricsTextfile = ""
	require.NoError(t, execute(t, cfg))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCheck_MetricsWriteFailureKeepsExitStatus(t *testing.T) {
	withRunner(t, executetest.NewFakeRunner().
		On("nmcli device status", executetest.Response{Stdout: nmcliUnplugged}).
		On("iwctl station wlan0 show", executetest.Response{Stdout: stationConnected}))

	cfg := testConfig(t)
	cfg.MetricsTextfile = filepath.Join(t.TempDir(), "missing", "netguard.prom")
	require.NoError(t, execute(t, cfg))

	logData, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(logData), " - WARNING - Failed to write metrics")
}
