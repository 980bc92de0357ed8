/* cmd/root.go */

package cmd

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/netguard/cmd/check"
	"github.com/CodeMonkeyCybersecurity/netguard/cmd/logs"
	"github.com/CodeMonkeyCybersecurity/netguard/cmd/status"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/shared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RootCmd is the base command. Run without a subcommand it performs a check,
// which is how the timer unit invokes it.
var RootCmd = &cobra.Command{
	Use:   "netguard",
	Short: "Restore Wi-Fi when no wired link is up",
	Long: `netguard is a single-shot connectivity watchdog. If no wired link is active
and the Wi-Fi station is not associated, it reconnects to the configured
network with the passphrase from the credential store and verifies the result.

Exit status: 0 when nothing needed doing or the reconnect was verified,
1 when the network name is empty or the reconnect could not be verified,
2 for invalid configuration.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// VersionCmd prints build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the netguard version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "netguard %s (%s)\n", shared.Version, shared.Commit)
	},
}

var (
	v       = viper.New()
	bindErr error
)

func init() {
	flags := RootCmd.PersistentFlags()
	config.RegisterFlags(flags)
	bindErr = config.Bind(v, flags)

	RootCmd.SetFlagErrorFunc(flagError)

	RootCmd.RunE = check.RunE(loadConfig)
	RootCmd.AddCommand(check.NewCommand(loadConfig), status.NewCommand(loadConfig), logs.NewCommand(loadConfig), VersionCmd)
}

// flagError reports a bad flag in the log line format; the command wrapper
// never runs for these.
func flagError(_ *cobra.Command, err error) error {
	log := logger.NewFallbackLogger()
	defer func() { _ = log.Sync() }()
	log.Error("Invalid flags", zap.String("error", err.Error()))
	return ng_err.NewValidationError("invalid flags", err, "run `netguard --help` for accepted flags")
}

// loadConfig applies --env-file, then reads flags, environment and defaults.
func loadConfig() (*config.Config, error) {
	if bindErr != nil {
		return nil, ng_err.NewInternalError("bind settings", bindErr)
	}
	envFile, err := RootCmd.PersistentFlags().GetString(config.KeyEnvFile)
	if err != nil {
		return nil, ng_err.NewInternalError("read --env-file", err)
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// Execute runs the root command and exits with the status the error maps to.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(ng_err.GetExitCode(err))
	}
}
