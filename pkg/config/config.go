// pkg/config/config.go
//
// Run configuration. Every setting is an environment variable with a
// default, and every environment variable has a matching flag that wins when
// set. There is no config file; the timer unit's environment is
// the configuration.

package config

import (
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/parse"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys. Each key is also the flag name.
const (
	KeyInterface         = "interface"
	KeySSID              = "ssid"
	KeyCredentialKey     = "pass-dir"
	KeyCredentialBackend = "credential-backend"
	KeyVaultMount        = "vault-mount"
	KeyVaultField        = "vault-field"
	KeyVaultRoleID       = "vault-role-id"
	KeyVaultSecretIDFile = "vault-secret-id-file"
	KeyWiredProbe        = "wired-probe"
	KeyLinkStatusCmd     = "link-status-cmd"
	KeySettleDelay       = "settle-delay"
	KeyPollInterval      = "poll-interval"
	KeyCommandTimeout    = "command-timeout"
	KeyLogFile           = "log-file"
	KeyLogLevel          = "log-level"
	KeyMetricsTextfile   = "metrics-textfile"
	KeyDryRun            = "dry-run"
	KeyTelemetryFile     = "telemetry-file"
	KeyEnvFile           = "env-file"
)

// Defaults
const (
	DefaultInterface         = "wlx"
	DefaultSSID              = "NerVV"
	DefaultCredentialKey     = "wifi"
	DefaultCredentialBackend = BackendPass
	DefaultVaultMount        = "secret"
	DefaultVaultField        = "password"
	DefaultWiredProbe        = ProbeTool
	DefaultLinkStatusCmd     = "nmcli device status"
	DefaultSettleDelay       = 5 * time.Second
	DefaultCommandTimeout    = 30 * time.Second
)

// Credential backends and wired probes.
const (
	BackendPass  = "pass"
	BackendVault = "vault"

	ProbeTool    = "tool"
	ProbeNetlink = "netlink"
)

// Config is everything a run needs.
type Config struct {
	Interface         string        `validate:"ifname"`
	SSID              string        // empty is caught at reconnect time
	CredentialKey     string        `validate:"required"`
	CredentialBackend string        `validate:"oneof=pass vault"`
	VaultMount        string        `validate:"required_if=CredentialBackend vault"`
	VaultField        string        `validate:"required_if=CredentialBackend vault"`
	VaultRoleID       string
	VaultSecretIDFile string        `validate:"required_with=VaultRoleID"`
	WiredProbe        string        `validate:"oneof=tool netlink"`
	LinkStatusCmd     string        `validate:"required_if=WiredProbe tool"`
	SettleDelay       time.Duration `validate:"gte=0"`
	PollInterval      time.Duration `validate:"gte=0"`
	CommandTimeout    time.Duration `validate:"gt=0"`
	LogFile           string
	LogLevel          string `validate:"loglevel"`
	MetricsTextfile   string
	DryRun            bool
	TelemetryFile     string
}

type setting struct {
	key, env, usage string
	def             any
}

var settings = []setting{
	{KeyInterface, "WIFI_INTERFACE", "wireless interface to guard", DefaultInterface},
	{KeySSID, "WIFI_SSID", "network name to join", DefaultSSID},
	{KeyCredentialKey, "PASS_DIR", "credential store key holding the passphrase", DefaultCredentialKey},
	{KeyCredentialBackend, "CREDENTIAL_BACKEND", "credential store: pass or vault", DefaultCredentialBackend},
	{KeyVaultMount, "VAULT_KV_MOUNT", "Vault KV v2 mount", DefaultVaultMount},
	{KeyVaultField, "VAULT_KV_FIELD", "field of the Vault secret holding the passphrase", DefaultVaultField},
	{KeyVaultRoleID, "VAULT_ROLE_ID", "AppRole role ID; empty uses VAULT_TOKEN", ""},
	{KeyVaultSecretIDFile, "VAULT_SECRET_ID_FILE", "file holding the AppRole secret ID", ""},
	{KeyWiredProbe, "WIRED_PROBE", "wired link probe: tool or netlink", DefaultWiredProbe},
	{KeyLinkStatusCmd, "LINK_STATUS_CMD", "link status command for the tool probe", DefaultLinkStatusCmd},
	{KeySettleDelay, "SETTLE_DELAY", "wait after a connect attempt before verifying", DefaultSettleDelay},
	{KeyPollInterval, "POLL_INTERVAL", "poll association during the settle delay (0 sleeps the whole delay)", time.Duration(0)},
	{KeyCommandTimeout, "COMMAND_TIMEOUT", "timeout for each external command", DefaultCommandTimeout},
	{KeyLogFile, "LOG_FILE", "append-only log file", logger.DefaultLogFile},
	{KeyLogLevel, "LOG_LEVEL", "debug, info, warn or error", "info"},
	{KeyMetricsTextfile, "METRICS_TEXTFILE", "write Prometheus textfile metrics to this path", ""},
	{KeyDryRun, "DRY_RUN", "log the connect command instead of running it", false},
	{KeyTelemetryFile, "NETGUARD_TELEMETRY", "append OpenTelemetry spans as JSONL to this path", ""},
}

// RegisterFlags adds one flag per setting, plus --env-file.
func RegisterFlags(flags *pflag.FlagSet) {
	for _, s := range settings {
		usage := s.usage + " (env " + s.env + ")"
		switch def := s.def.(type) {
		case string:
			flags.String(s.key, def, usage)
		case bool:
			flags.Bool(s.key, def, usage)
		case time.Duration:
			flags.Duration(s.key, def, usage)
		}
	}
	flags.String(KeyEnvFile, "", "load KEY=VALUE pairs into the environment before reading settings")
}

// Bind wires defaults, environment variables and flags into v. Flags that
// were set on the command line win over the environment.
func Bind(v *viper.Viper, flags *pflag.FlagSet) error {
	var result error
	v.AllowEmptyEnv(true)
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			result = multierror.Append(result, err)
		}
		if f := flags.Lookup(s.key); f != nil {
			if err := v.BindPFlag(s.key, f); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result
}

// LoadEnvFile loads KEY=VALUE pairs without overriding variables already set.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(parse.ExpandHome(path)); err != nil {
		return ng_err.NewValidationError("cannot read env file "+path, err)
	}
	return nil
}

// Load reads and validates the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Interface:         strings.TrimSpace(v.GetString(KeyInterface)),
		SSID:              v.GetString(KeySSID),
		CredentialKey:     v.GetString(KeyCredentialKey),
		CredentialBackend: strings.ToLower(v.GetString(KeyCredentialBackend)),
		VaultMount:        v.GetString(KeyVaultMount),
		VaultField:        v.GetString(KeyVaultField),
		VaultRoleID:       strings.TrimSpace(v.GetString(KeyVaultRoleID)),
		VaultSecretIDFile: parse.ExpandHome(v.GetString(KeyVaultSecretIDFile)),
		WiredProbe:        strings.ToLower(v.GetString(KeyWiredProbe)),
		LinkStatusCmd:     strings.TrimSpace(v.GetString(KeyLinkStatusCmd)),
		SettleDelay:       v.GetDuration(KeySettleDelay),
		PollInterval:      v.GetDuration(KeyPollInterval),
		CommandTimeout:    v.GetDuration(KeyCommandTimeout),
		LogFile:           parse.ExpandHome(v.GetString(KeyLogFile)),
		LogLevel:          v.GetString(KeyLogLevel),
		MetricsTextfile:   parse.ExpandHome(v.GetString(KeyMetricsTextfile)),
		DryRun:            v.GetBool(KeyDryRun),
		TelemetryFile:     parse.ExpandHome(v.GetString(KeyTelemetryFile)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return logger.ValidLevel(fl.Field().String())
	}); err != nil {
		return ng_err.NewInternalError("register loglevel validation", err)
	}
	if err := validate.RegisterValidation("ifname", func(fl validator.FieldLevel) bool {
		return validInterfaceName(fl.Field().String())
	}); err != nil {
		return ng_err.NewInternalError("register ifname validation", err)
	}

	if err := validate.Struct(c); err != nil {
		return ng_err.NewValidationError("invalid configuration", err,
			"check the environment of the timer unit",
			"run `netguard --help` for accepted values")
	}
	return nil
}

// validInterfaceName follows the kernel's rules: 1-15 bytes, no whitespace,
// no '/'.
func validInterfaceName(name string) bool {
	if name == "" || len(name) > 15 {
		return false
	}
	return !strings.ContainsAny(name, " \t\n/")
}
