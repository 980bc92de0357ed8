// Package secrets resolves the network passphrase from a credential store.
//
// Two backends exist: the pass password manager (default) and HashiCorp
// Vault KV v2. Both share one failure contract: a lookup that cannot produce
// a non-empty value reports "absent" and logs exactly one error entry.
// Callers never see the backend error, only the absence.
package secrets

import (
	"context"
	"errors"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"go.uber.org/zap"
)

// Backend errors. They only travel as far as the log entry.
var (
	ErrSecretNotFound     = errors.New("secret not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrEmptySecret        = errors.New("secret is empty")
	ErrBackendUnavailable = errors.New("secret storage backend unavailable")
)

// Store looks up a credential by key.
type Store interface {
	// Lookup returns the trimmed secret and true, or "" and false when the
	// secret is missing, empty, or the backend failed.
	Lookup(ctx context.Context, key string) (string, bool)

	// Name returns the backend type identifier.
	Name() string
}

// New returns the backend selected by cfg.CredentialBackend.
func New(cfg *config.Config, runner execute.Runner, log *zap.Logger) (Store, error) {
	switch cfg.CredentialBackend {
	case config.BackendPass, "":
		return NewPassStore(runner, log), nil
	case config.BackendVault:
		client, err := NewVaultClient()
		if err != nil {
			return nil, err
		}
		store := NewVaultStore(client, cfg.VaultMount, cfg.VaultField, log)
		if cfg.VaultRoleID != "" {
			auth, err := NewAppRoleAuth(cfg.VaultRoleID, cfg.VaultSecretIDFile)
			if err != nil {
				return nil, err
			}
			store.WithAuth(auth)
		}
		return store, nil
	default:
		return nil, ng_err.NewValidationError("unknown credential backend "+cfg.CredentialBackend, nil)
	}
}
