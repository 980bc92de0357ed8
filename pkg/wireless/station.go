// Package wireless drives an iwd station through iwctl.
package wireless

import (
	"context"
	"time"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/parse"
	"go.uber.org/zap"
)

// Tool is the wireless control binary.
const Tool = "iwctl"

// Station is one wireless interface managed by iwd.
type Station struct {
	Interface string

	runner execute.Runner
	log    *zap.Logger

	// SettleDelay is the longest Connect waits after issuing the command.
	SettleDelay time.Duration
	// PollInterval > 0 makes Connect return as soon as the station reports
	// connected, checking at this interval.
	PollInterval time.Duration
	// DryRun logs the connect command instead of running it. Status
	// queries still run.
	DryRun bool

	wait func(ctx context.Context, d time.Duration) error
}

// NewStation returns a Station for iface.
func NewStation(iface string, runner execute.Runner, log *zap.Logger, settle, poll time.Duration) *Station {
	if log == nil {
		log = zap.NewNop()
	}
	return &Station{
		Interface:    iface,
		runner:       runner,
		log:          log,
		SettleDelay:  settle,
		PollInterval: poll,
		wait:         sleepContext,
	}
}

// ShowArgs returns the arguments of the status query.
func ShowArgs(iface string) []string {
	return []string{"station", iface, "show"}
}

// ConnectArgs returns the arguments of the connect command. A non-empty
// passphrase is placed after "station <iface>", before the connect verb.
func ConnectArgs(iface, ssid, passphrase string) []string {
	args := []string{"station", iface}
	if passphrase != "" {
		args = append(args, "--passphrase", passphrase)
	}
	return append(args, "connect", ssid)
}

// Associated reports whether the station is connected to a network. Any
// failure to query iwctl is logged and reported as not associated.
func (s *Station) Associated(ctx context.Context) bool {
	res, err := s.runner.Run(ctx, execute.Options{Command: Tool, Args: ShowArgs(s.Interface)})
	if err != nil {
		s.log.Error("Error while checking status", zap.String("error", err.Error()))
		return false
	}

	state, ok := parse.StationState(res.Stdout)
	if !ok {
		s.log.Debug("No State row in station output", zap.String("interface", s.Interface))
		return false
	}
	s.log.Debug("Station state", zap.String("interface", s.Interface), zap.String("state", state))
	return parse.IsStationConnected(res.Stdout)
}

// Connect asks iwd to join ssid and then waits for the settle delay. The
// result of the command is only logged; callers verify with Associated.
func (s *Station) Connect(ctx context.Context, ssid, passphrase string) {
	s.log.Info("Attempting connection to network " + ssid)

	_, err := s.runner.Run(ctx, execute.Options{
		Command:   Tool,
		Args:      ConnectArgs(s.Interface, ssid, passphrase),
		DryRun:    s.DryRun,
		Sensitive: []string{passphrase},
	})
	if err != nil {
		s.log.Error("Error while reconnecting: " + execute.Redact(err.Error(), passphrase))
	}

	s.settle(ctx)
}

func (s *Station) settle(ctx context.Context) {
	if s.SettleDelay <= 0 {
		return
	}
	if s.PollInterval <= 0 {
		_ = s.wait(ctx, s.SettleDelay)
		return
	}

	deadline := time.Now().Add(s.SettleDelay)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		step := s.PollInterval
		if step > remaining {
			step = remaining
		}
		if err := s.wait(ctx, step); err != nil {
			return
		}
		if s.Associated(ctx) {
			s.log.Debug("Station associated before settle delay elapsed",
				zap.Duration("remaining", time.Until(deadline)))
			return
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
