package secrets

import (
	"context"
	"strings"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"go.uber.org/zap"
)

// PassTool is the password manager binary.
const PassTool = "pass"

// PassStore reads secrets with `pass show <key>`.
type PassStore struct {
	runner execute.Runner
	log    *zap.Logger
}

// NewPassStore returns a PassStore running pass through runner.
func NewPassStore(runner execute.Runner, log *zap.Logger) *PassStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &PassStore{runner: runner, log: log}
}

// Lookup implements Store.
func (p *PassStore) Lookup(ctx context.Context, key string) (string, bool) {
	res, err := p.runner.Run(ctx, execute.Options{Command: PassTool, Args: []string{"show", key}})
	if err != nil {
		p.log.Error("Error while getting password",
			zap.String("key", key),
			zap.String("error", ng_err.ExtractSummary(err.Error(), 2)))
		return "", false
	}

	secret := strings.TrimSpace(res.Stdout)
	if secret == "" {
		p.log.Error("Error while getting password",
			zap.String("key", key),
			zap.String("error", ErrEmptySecret.Error()))
		return "", false
	}
	return secret, true
}

// Name implements Store.
func (p *PassStore) Name() string { return PassTool }
