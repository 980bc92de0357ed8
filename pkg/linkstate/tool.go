// pkg/linkstate/tool.go

package linkstate

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/parse"
	"go.uber.org/zap"
)

// ToolProbe runs a link status command and looks for an ethernet link in the
// connected state.
type ToolProbe struct {
	runner  execute.Runner
	command string
	args    []string
	log     *zap.Logger
}

// NewToolProbe splits commandLine ("nmcli device status") into binary and
// arguments.
func NewToolProbe(runner execute.Runner, commandLine string, log *zap.Logger) (*ToolProbe, error) {
	if log == nil {
		log = zap.NewNop()
	}
	command, args, err := execute.SplitCommand(commandLine)
	if err != nil {
		return nil, ng_err.NewValidationError("invalid link status command", err,
			"set LINK_STATUS_CMD to a command line such as \"nmcli device status\"")
	}
	return &ToolProbe{runner: runner, command: command, args: args, log: log}, nil
}

// WiredActive implements Checker.
func (p *ToolProbe) WiredActive(ctx context.Context) bool {
	res, err := p.runner.Run(ctx, execute.Options{Command: p.command, Args: p.args})
	if err != nil {
		p.log.Error("Error while checking Ethernet", zap.String("error", err.Error()))
		return false
	}
	return parse.HasActiveWiredLink(res.Stdout)
}
