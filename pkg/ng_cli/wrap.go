// pkg/ng_cli/wrap.go

package ng_cli

import (
	"context"
	"time"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_io"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Loader produces the configuration for one run.
type Loader func() (*config.Config, error)

// RunFunc is the body of a command.
type RunFunc func(rc *ng_io.RuntimeContext, cmd *cobra.Command, args []string) error

// telemetryFlushTimeout bounds the exporter flush at exit.
const telemetryFlushTimeout = 5 * time.Second

// Wrap loads configuration, builds the run logger and telemetry, recovers
// panics, and records the outcome on the command span.
func Wrap(load Loader, fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := load()
		if err != nil {
			reportConfigError(err)
			return err
		}

		log, closeLog := runLogger(cfg, cmd)
		defer closeLog()

		shutdown, terr := telemetry.Init("netguard", cfg.TelemetryFile)
		if terr != nil {
			log.Warn("Telemetry disabled", zap.String("error", terr.Error()))
			shutdown = func(context.Context) error { return nil }
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
			defer cancel()
			if serr := shutdown(ctx); serr != nil {
				log.Debug("Telemetry flush failed", zap.String("error", serr.Error()))
			}
		}()

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		rc := ng_io.NewContext(parent, log, cfg, cmd.Name())
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		ng_io.LogRuntimeExecutionContext(rc)

		err = fn(rc, cmd, args)
		if err != nil && !ng_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}

// runLogger opens the log file. A log file that cannot be opened does not
// stop the run; lines then go to the command's stderr only.
func runLogger(cfg *config.Config, cmd *cobra.Command) (*zap.Logger, func()) {
	opts := logger.Options{FilePath: cfg.LogFile, Level: cfg.LogLevel, Console: cmd.ErrOrStderr()}
	log, closeLog, err := logger.New(opts)
	if err == nil {
		return log, closeLog
	}

	opts.FilePath = ""
	log, closeLog, _ = logger.New(opts)
	log.Warn("Log file unavailable, logging to stderr only",
		zap.String("path", cfg.LogFile),
		zap.String("error", err.Error()))
	return log, closeLog
}

func reportConfigError(err error) {
	log := logger.NewFallbackLogger()
	defer func() { _ = log.Sync() }()

	fields := []zap.Field{zap.String("error", err.Error())}
	var classified *ng_err.ClassifiedError
	if cerr.As(err, &classified) {
		if hints := classified.Hints(); hints != "" {
			fields = append(fields, zap.String("remediation", hints))
		}
	}
	log.Error("Invalid configuration", fields...)
}
