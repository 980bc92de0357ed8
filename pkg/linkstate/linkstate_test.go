package linkstate

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute/executetest"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const nmcliStatus = "nmcli device status"

func TestToolProbe(t *testing.T) {
	tests := []struct {
		name       string
		response   executetest.Response
		want       bool
		wantErrors int
	}{
		{
			name:     "ethernet connected",
			response: executetest.Response{Stdout: "eth0: ethernet connected\n"},
			want:     true,
		},
		{
			name:     "ethernet unavailable",
			response: executetest.Response{Stdout: "DEVICE TYPE STATE\neth0 ethernet unavailable\nwlan0 wifi connected\n"},
			want:     false,
		},
		{
			name:     "empty output",
			response: executetest.Response{},
			want:     false,
		},
		{
			name:       "tool failure fails open",
			response:   executetest.Response{Stdout: "eth0 ethernet connected", Err: errors.New("nmcli: exit status 8")},
			want:       false,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			runner := executetest.NewFakeRunner().On(nmcliStatus, tt.response)

			probe, err := NewToolProbe(runner, nmcliStatus, zap.New(core))
			require.NoError(t, err)
			assert.Equal(t, tt.want, probe.WiredActive(context.Background()))
			assert.Equal(t, tt.wantErrors, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
			assert.Equal(t, 1, runner.Count(nmcliStatus))
		})
	}
}

func device(name, encap string, state netlink.LinkOperState, flags net.Flags) netlink.Link {
	return &netlink.Device{LinkAttrs: netlink.LinkAttrs{
		Name:      name,
		EncapType: encap,
		OperState: state,
		Flags:     flags,
	}}
}

func TestNetlinkProbe(t *testing.T) {
	wireless := map[string]bool{"wlan0": true}

	tests := []struct {
		name  string
		links []netlink.Link
		want  bool
	}{
		{
			name:  "ethernet up",
			links: []netlink.Link{device("lo", "loopback", netlink.OperUnknown, net.FlagLoopback), device("eth0", "ether", netlink.OperUp, net.FlagUp)},
			want:  true,
		},
		{
			name:  "ethernet down",
			links: []netlink.Link{device("eth0", "ether", netlink.OperDown, net.FlagUp)},
			want:  false,
		},
		{
			name:  "only wireless up",
			links: []netlink.Link{device("wlan0", "ether", netlink.OperUp, net.FlagUp)},
			want:  false,
		},
		{
			name: "bridge up is not a wired link",
			links: []netlink.Link{&netlink.Bridge{LinkAttrs: netlink.LinkAttrs{
				Name: "br0", EncapType: "ether", OperState: netlink.OperUp,
			}}},
			want: false,
		},
		{
			name:  "loopback flagged",
			links: []netlink.Link{device("lo", "ether", netlink.OperUp, net.FlagLoopback)},
			want:  false,
		},
		{
			name:  "no links",
			links: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &NetlinkProbe{
				listLinks:  func() ([]netlink.Link, error) { return tt.links, nil },
				isWireless: func(name string) bool { return wireless[name] },
				log:        zap.NewNop(),
			}
			assert.Equal(t, tt.want, probe.WiredActive(context.Background()))
		})
	}
}

func TestNetlinkProbe_ErrorFailsOpen(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	probe := &NetlinkProbe{
		listLinks:  func() ([]netlink.Link, error) { return nil, errors.New("operation not permitted") },
		isWireless: func(string) bool { return false },
		log:        zap.New(core),
	}

	assert.False(t, probe.WiredActive(context.Background()))
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestNetlinkProbe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	probe := &NetlinkProbe{
		listLinks:  func() ([]netlink.Link, error) { called = true; return nil, nil },
		isWireless: func(string) bool { return false },
		log:        zap.NewNop(),
	}
	assert.False(t, probe.WiredActive(ctx))
	assert.False(t, called)
}

func TestNew(t *testing.T) {
	runner := executetest.NewFakeRunner()

	c, err := New(&config.Config{WiredProbe: config.ProbeTool, LinkStatusCmd: nmcliStatus}, runner, nil)
	require.NoError(t, err)
	assert.IsType(t, &ToolProbe{}, c)

	c, err = New(&config.Config{WiredProbe: config.ProbeNetlink}, runner, nil)
	require.NoError(t, err)
	assert.IsType(t, &NetlinkProbe{}, c)

	_, err = New(&config.Config{WiredProbe: "ping"}, runner, nil)
	assert.Error(t, err)

	_, err = New(&config.Config{WiredProbe: config.ProbeTool, LinkStatusCmd: `nmcli "device`}, runner, nil)
	require.Error(t, err)
	assert.Equal(t, 2, ng_err.GetExitCode(err))
}
