// pkg/ng_io/context.go

package ng_io

import (
	"context"
	"os"
	"os/user"
	"time"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/config"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RuntimeContext carries what every command needs: the loaded configuration,
// the run's logger and its telemetry span.
type RuntimeContext struct {
	Ctx       context.Context
	Log       *zap.Logger
	Config    *config.Config
	Timestamp time.Time
	Span      trace.Span
	Command   string
	RunID     string
}

// NewContext sets up tracing and a run-scoped logger.
func NewContext(parent context.Context, log *zap.Logger, cfg *config.Config, cmdName string) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	if log == nil {
		log = zap.NewNop()
	}

	runID := telemetry.NewRunID()
	ctx, span := telemetry.Start(parent, cmdName, attribute.String("run_id", runID))

	return &RuntimeContext{
		Ctx:       ctx,
		Span:      span,
		Log:       log,
		Config:    cfg,
		Timestamp: time.Now(),
		Command:   cmdName,
		RunID:     runID,
	}
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = ng_err.NewInternalError("panic", cerr.AssertionFailedf("panic: %v", r))
		rc.Log.Error("Panic recovered", zap.Any("panic", r))
	}
}

// End records the outcome on the span and logs at debug level; the user
// facing outcome line is written by the command itself.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	duration := time.Since(rc.Timestamp)
	var err error
	if errPtr != nil {
		err = *errPtr
	}

	rc.Span.SetAttributes(
		attribute.Bool("success", err == nil),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.Int("exit_code", ng_err.GetExitCode(err)),
		attribute.String("error_type", ng_err.CategoryOf(err).String()),
	)

	if err == nil {
		rc.Log.Debug("Command completed", zap.String("command", rc.Command), zap.Duration("duration", duration))
		return
	}
	rc.Span.RecordError(err)
	rc.Log.Debug("Command failed",
		zap.String("command", rc.Command),
		zap.Duration("duration", duration),
		zap.Int("exit_code", ng_err.GetExitCode(err)))
}

// LogRuntimeExecutionContext records who is running the guard; timer units
// running as the wrong user are a common cause of "pass" failures.
func LogRuntimeExecutionContext(rc *RuntimeContext) {
	fields := []zap.Field{
		zap.String("run_id", rc.RunID),
		zap.Int("effective_uid", os.Geteuid()),
	}
	if u, err := user.Current(); err == nil {
		fields = append(fields, zap.String("username", u.Username), zap.String("home", u.HomeDir))
	}
	if exe, err := os.Executable(); err == nil {
		fields = append(fields, zap.String("executable", exe))
	}
	rc.Log.Debug("Runtime context", fields...)
}
