// cmd/status/status.go
package status

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/guard"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_cli"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_io"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var newGuard = func(cfg *config.Config, log *zap.Logger) (*guard.Guard, error) {
	return guard.New(cfg, log)
}

// View is the printable form of a status report.
type View struct {
	Wired     string `json:"wired" yaml:"wired"`
	Wireless  string `json:"wireless" yaml:"wireless"`
	Interface string `json:"interface" yaml:"interface"`
	Network   string `json:"network" yaml:"network"`
	Backend   string `json:"backend" yaml:"backend"`
}

// NewCommand returns the read-only 'netguard status' command.
func NewCommand(load ng_cli.Loader) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show wired and wireless state without reconnecting",
		Long: `Query the wired link and, if it is down, the Wi-Fi station. Nothing is
changed and the exit status is 0 whatever the state.`,
		Example: `  netguard status
  netguard status --format yaml`,
		Args: cobra.NoArgs,
		RunE: ng_cli.Wrap(load, func(rc *ng_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			g, err := newGuard(rc.Config, rc.Log)
			if err != nil {
				return err
			}
			return Print(cmd.OutOrStdout(), format, NewView(rc.Config, g.Status(rc.Ctx)))
		}),
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	return cmd
}

// NewView renders report for display.
func NewView(cfg *config.Config, report guard.Report) View {
	wireless := "not associated"
	switch {
	case report.WiredActive:
		wireless = "not checked"
	case report.Associated:
		wireless = "associated"
	}

	wired := "down"
	if report.WiredActive {
		wired = "up"
	}

	return View{
		Wired:     wired,
		Wireless:  wireless,
		Interface: cfg.Interface,
		Network:   cfg.SSID,
		Backend:   cfg.CredentialBackend,
	}
}

// Print writes v in the requested format.
func Print(w io.Writer, format string, v View) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	default:
		_, err := fmt.Fprintf(w, "wired:     %s\nwireless:  %s (%s)\nnetwork:   %s\nbackend:   %s\n",
			v.Wired, v.Wireless, v.Interface, v.Network, v.Backend)
		return err
	}
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return ng_err.NewValidationError("unknown output format "+format, nil,
			"use one of: text, json, yaml")
	}
}
