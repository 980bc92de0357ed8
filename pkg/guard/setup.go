package guard

import (
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/linkstate"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/secrets"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/wireless"
	"go.uber.org/zap"
)

// New wires a Guard to the real tools described by cfg.
func New(cfg *config.Config, log *zap.Logger) (*Guard, error) {
	return NewWithRunner(cfg, execute.NewRunner(log, cfg.CommandTimeout, false), log)
}

// NewWithRunner wires a Guard whose adapters all run through runner.
func NewWithRunner(cfg *config.Config, runner execute.Runner, log *zap.Logger) (*Guard, error) {
	wired, err := linkstate.New(cfg, runner, log)
	if err != nil {
		return nil, err
	}
	store, err := secrets.New(cfg, runner, log)
	if err != nil {
		return nil, err
	}

	station := wireless.NewStation(cfg.Interface, runner, log, cfg.SettleDelay, cfg.PollInterval)
	station.DryRun = cfg.DryRun

	return &Guard{
		Wired:         wired,
		Station:       station,
		Credentials:   store,
		SSID:          cfg.SSID,
		CredentialKey: cfg.CredentialKey,
		Log:           log,
	}, nil
}
