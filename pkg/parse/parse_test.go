package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestHasActiveWiredLink(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{name: "nmcli wired", output: readFixture(t, "nmcli_wired.txt"), want: true},
		{name: "nmcli unplugged", output: readFixture(t, "nmcli_unplugged.txt"), want: false},
		{name: "single line", output: "eth0: ethernet connected", want: true},
		{name: "upper case", output: "ETH0: ETHERNET CONNECTED", want: true},
		{name: "mixed case", output: "enp3s0  Ethernet  Connected  Wired", want: true},
		{name: "connected externally", output: "eth0 ethernet connected (externally) eth0", want: true},
		{name: "tokens on different lines", output: "eth0 ethernet\nwlan0 connected", want: false},
		{name: "disconnected", output: "eth0 ethernet disconnected --", want: false},
		{name: "disconnected then connected", output: "eth0 ethernet disconnected, was connected", want: true},
		{name: "wifi connected", output: "wlan0 wifi connected NerVV", want: false},
		{name: "empty", output: "", want: false},
		{name: "no trailing newline after match", output: "lo loopback unmanaged\neth1 ethernet connected", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HasActiveWiredLink(tt.output))
		})
	}
}

func TestStationState(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		output    string
		wantState string
		wantOK    bool
		connected bool
	}{
		{name: "iwctl connected", output: readFixture(t, "iwctl_connected.txt"), wantState: "connected", wantOK: true, connected: true},
		{name: "iwctl disconnected", output: readFixture(t, "iwctl_disconnected.txt"), wantState: "disconnected", wantOK: true},
		{name: "bare line", output: "State connected", wantState: "connected", wantOK: true, connected: true},
		{name: "upper case value", output: "State CONNECTED", wantState: "CONNECTED", wantOK: true, connected: true},
		{name: "connecting", output: "  State  connecting", wantState: "connecting", wantOK: true},
		{name: "first State line wins", output: "State disconnected\nState connected", wantState: "disconnected", wantOK: true},
		{name: "lower case key ignored", output: "state connected", wantOK: false},
		{name: "single token", output: "State", wantOK: false},
		{name: "no state line", output: "Station: wlan0\nScanning no", wantOK: false},
		{name: "empty", output: "", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state, ok := StationState(tt.output)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.connected, IsStationConnected(tt.output))
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/state/netguard.log"), ExpandHome("~/.local/state/netguard.log"))
	assert.Equal(t, "./wifi-reconnect.log", ExpandHome("./wifi-reconnect.log"))
}
