// cmd/check/check.go
package check

import (
	"time"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/guard"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/metrics"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_cli"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_io"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// newGuard is replaced in tests.
var newGuard = func(cfg *config.Config, log *zap.Logger) (*guard.Guard, error) {
	return guard.New(cfg, log)
}

// NewCommand returns the 'netguard check' command.
func NewCommand(load ng_cli.Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Reconnect Wi-Fi if neither wired nor wireless is up",
		Long: `Run one watchdog pass. A wired link or an associated station ends the run
with status 0. Otherwise the passphrase is fetched, iwctl is asked to connect,
and the station is checked again after the settle delay.`,
		Args: cobra.NoArgs,
		RunE: RunE(load),
	}
}

// RunE is the check body; the root command uses it as its default action.
func RunE(load ng_cli.Loader) func(cmd *cobra.Command, args []string) error {
	return ng_cli.Wrap(load, run)
}

func run(rc *ng_io.RuntimeContext, _ *cobra.Command, _ []string) error {
	g, err := newGuard(rc.Config, rc.Log)
	if err != nil {
		return err
	}

	report, runErr := g.Run(rc.Ctx)
	rc.Span.SetAttributes(
		attribute.String("outcome", string(report.Outcome)),
		attribute.Bool("reconnect_attempted", report.ReconnectAttempted),
	)

	writeMetrics(rc, report)
	return runErr
}

// writeMetrics never changes the exit status; a failed write is a warning.
func writeMetrics(rc *ng_io.RuntimeContext, report guard.Report) {
	path := rc.Config.MetricsTextfile
	if path == "" {
		return
	}

	rec, err := metrics.NewRecorder()
	if err != nil {
		rc.Log.Warn("Metrics unavailable", zap.String("error", err.Error()))
		return
	}
	rec.Record(metrics.Run{
		WiredActive:        report.WiredActive,
		Associated:         report.Associated,
		ReconnectAttempted: report.ReconnectAttempted,
		Success:            report.Success(),
		Finished:           time.Now(),
	})
	if err := rec.WriteTextfile(path); err != nil {
		rc.Log.Warn("Failed to write metrics", zap.String("error", err.Error()))
		return
	}
	rc.Log.Debug("Metrics written", zap.String("path", path))
}
