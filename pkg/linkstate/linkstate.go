// Package linkstate answers one question: is a wired link up right now?
//
// Two probes exist. ToolProbe asks the link status tool (nmcli by default)
// and parses its table. NetlinkProbe reads link attributes from the kernel
// directly and needs no external tool. Both fail open: any error means "not
// active", so a broken probe can only ever cause an unnecessary Wi-Fi check,
// never a skipped one.
package linkstate

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"go.uber.org/zap"
)

// Checker reports whether a wired link is active.
type Checker interface {
	WiredActive(ctx context.Context) bool
}

// New returns the probe selected by cfg.WiredProbe.
func New(cfg *config.Config, runner execute.Runner, log *zap.Logger) (Checker, error) {
	switch cfg.WiredProbe {
	case config.ProbeTool, "":
		probe, err := NewToolProbe(runner, cfg.LinkStatusCmd, log)
		if err != nil {
			return nil, err
		}
		return probe, nil
	case config.ProbeNetlink:
		return NewNetlinkProbe(log), nil
	default:
		return nil, ng_err.NewValidationError("unknown wired probe "+cfg.WiredProbe, nil)
	}
}
