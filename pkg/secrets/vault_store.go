package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	vaultapi "github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"go.uber.org/zap"
)

// VaultStore reads one field of a Vault KV v2 secret.
//
// Path format: "wifi/home" (no mount prefix). The KVv2 API prepends
// "<mount>/data/" itself.
type VaultStore struct {
	client *vaultapi.Client
	mount  string
	field  string
	log    *zap.Logger

	// auth, when set, is used to log in before the first read.
	auth     vaultapi.AuthMethod
	loggedIn bool
}

// NewVaultClient builds a client from the standard VAULT_ADDR, VAULT_TOKEN
// and TLS environment variables.
func NewVaultClient() (*vaultapi.Client, error) {
	cfg := vaultapi.DefaultConfig()
	if cfg.Error != nil {
		return nil, ng_err.NewValidationError("invalid Vault client environment", cfg.Error,
			"check VAULT_ADDR and the VAULT_CA* variables")
	}
	client, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, ng_err.NewValidationError("create Vault client", err)
	}
	return client, nil
}

// NewVaultStore returns a VaultStore using an existing client.
func NewVaultStore(client *vaultapi.Client, mount, field string, log *zap.Logger) *VaultStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &VaultStore{client: client, mount: mount, field: field, log: log}
}

// NewAppRoleAuth reads the secret ID from secretIDFile at login time.
func NewAppRoleAuth(roleID, secretIDFile string) (vaultapi.AuthMethod, error) {
	auth, err := approle.NewAppRoleAuth(roleID, &approle.SecretID{FromFile: secretIDFile},
		approle.WithMountPath("approle"))
	if err != nil {
		return nil, ng_err.NewValidationError("invalid AppRole settings", err,
			"check VAULT_ROLE_ID and VAULT_SECRET_ID_FILE")
	}
	return auth, nil
}

// WithAuth makes the store log in with auth before its first read.
func (vs *VaultStore) WithAuth(auth vaultapi.AuthMethod) *VaultStore {
	vs.auth = auth
	return vs
}

// Lookup implements Store.
func (vs *VaultStore) Lookup(ctx context.Context, key string) (string, bool) {
	secret, err := vs.read(ctx, key)
	if err != nil {
		vs.log.Error("Error while getting password",
			zap.String("key", key),
			zap.String("mount", vs.mount),
			zap.String("error", err.Error()))
		return "", false
	}
	return secret, true
}

// Name implements Store.
func (vs *VaultStore) Name() string { return "vault" }

func (vs *VaultStore) read(ctx context.Context, path string) (string, error) {
	if err := vs.login(ctx); err != nil {
		return "", err
	}
	return vs.get(ctx, path)
}

func (vs *VaultStore) login(ctx context.Context) error {
	if vs.auth == nil || vs.loggedIn {
		return nil
	}
	secret, err := vs.client.Auth().Login(ctx, vs.auth)
	if err != nil {
		if isVaultPermissionError(err) {
			return fmt.Errorf("%w: approle login: %v", ErrPermissionDenied, err)
		}
		return fmt.Errorf("%w: approle login: %v", ErrBackendUnavailable, err)
	}
	if secret == nil || secret.Auth == nil {
		return fmt.Errorf("%w: no auth info returned from approle login", ErrBackendUnavailable)
	}
	vs.log.Debug("Authenticated with Vault using AppRole",
		zap.String("token_accessor", secret.Auth.Accessor))
	vs.loggedIn = true
	return nil
}

func (vs *VaultStore) get(ctx context.Context, path string) (string, error) {
	kvSecret, err := vs.client.KVv2(vs.mount).Get(ctx, path)
	if err != nil {
		if isVaultNotFoundError(err) {
			return "", fmt.Errorf("%w at path %s", ErrSecretNotFound, path)
		}
		if isVaultPermissionError(err) {
			return "", fmt.Errorf("%w at path %s", ErrPermissionDenied, path)
		}
		return "", fmt.Errorf("%w: read %s: %v", ErrBackendUnavailable, path, err)
	}

	// KV v2 returns nil data for deleted or destroyed versions.
	if kvSecret == nil || kvSecret.Data == nil {
		return "", fmt.Errorf("%w at path %s", ErrSecretNotFound, path)
	}

	raw, ok := kvSecret.Data[vs.field]
	if !ok {
		return "", fmt.Errorf("%w: field %q at path %s", ErrSecretNotFound, vs.field, path)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q at path %s is %T, not a string", vs.field, path, raw)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: field %q at path %s", ErrEmptySecret, vs.field, path)
	}
	return value, nil
}

// isVaultNotFoundError checks if error indicates "secret not found" (404)
func isVaultNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, vaultapi.ErrSecretNotFound) {
		return true
	}

	var respErr *vaultapi.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == 404
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "not found") ||
		strings.Contains(errMsg, "no value found") ||
		strings.Contains(errMsg, "does not exist")
}

// isVaultPermissionError checks if error indicates "permission denied" (403)
func isVaultPermissionError(err error) bool {
	if err == nil {
		return false
	}

	var respErr *vaultapi.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == 403
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "permission denied") ||
		strings.Contains(errMsg, "access denied") ||
		strings.Contains(errMsg, "forbidden")
}
