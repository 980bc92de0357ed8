// pkg/execute/execute.go

package execute

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/netguard/pkg/ng_err"
	"github.com/CodeMonkeyCybersecurity/netguard/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Package execute runs the external tools netguard orchestrates (pass, iwctl,
// the link status tool). Every invocation:
// - runs without a shell
// - is bounded by a timeout
// - logs its command line with sensitive values replaced by RedactionMarker
// - returns errors whose text never contains a sensitive value

// ErrTimeout is returned (wrapped) when an invocation exceeds its timeout.
var ErrTimeout = cerr.New("command timed out")

// Options describes a single invocation.
type Options struct {
	Command string
	Args    []string
	// Timeout bounds the invocation. Zero uses the runner default.
	Timeout time.Duration
	// DryRun logs the command instead of running it.
	DryRun bool
	// Sensitive values are redacted from logs, span attributes and errors.
	Sensitive []string
}

// Result is what an invocation produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes commands. Adapters depend on this instead of os/exec so
// they can be tested against captured tool output.
type Runner interface {
	Run(ctx context.Context, opts Options) (Result, error)
}

// CommandRunner is the os/exec backed Runner.
type CommandRunner struct {
	Logger  *zap.Logger
	Timeout time.Duration
	DryRun  bool
}

// NewRunner returns a CommandRunner. A nil logger discards log output.
func NewRunner(logger *zap.Logger, timeout time.Duration, dryRun bool) *CommandRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandRunner{Logger: logger, Timeout: timeout, DryRun: dryRun}
}

// Run executes a command with structured logging and proper error handling
func (r *CommandRunner) Run(ctx context.Context, opts Options) (Result, error) {
	cmdStr := Redact(buildCommandString(opts.Command, opts.Args...), opts.Sensitive...)
	logger := r.Logger.With(zap.String("command", cmdStr))

	if ctx == nil {
		ctx = context.Background()
	}
	timeout := defaultTimeout(opts.Timeout, r.Timeout)
	rc, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rc, span := telemetry.Start(rc, "execute.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("command", opts.Command),
		attribute.String("args", Redact(strings.Join(opts.Args, " "), opts.Sensitive...)),
		attribute.Int64("timeout_ms", timeout.Milliseconds()),
	)

	if opts.DryRun || r.DryRun {
		logger.Info("Dry run mode - command not executed")
		return Result{}, nil
	}

	logger.Debug("Starting execution")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(rc, opts.Command, opts.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
		Duration: time.Since(start),
	}

	if err == nil {
		logger.Debug("Execution succeeded", zap.Duration("duration", res.Duration))
		return res, nil
	}

	span.RecordError(cerr.New(Redact(err.Error(), opts.Sensitive...)))

	switch {
	case cerr.Is(rc.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		err = cerr.Wrapf(ErrTimeout, "%s after %s", cmdStr, timeout)
	case isNotFound(err):
		err = ng_err.NewDependencyError(opts.Command, "netguard",
			"install "+opts.Command+" or adjust PATH for the timer unit")
	default:
		summary := Redact(ng_err.ExtractSummary(res.Stderr+"\n"+res.Stdout, 2), opts.Sensitive...)
		err = cerr.Newf("%s: exit status %d: %s", cmdStr, res.ExitCode, summary)
	}

	logger.Debug("Execution failed",
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration),
		zap.String("error", err.Error()))

	return res, err
}

func exitCode(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if cerr.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

func isNotFound(err error) bool {
	var execErr *exec.Error
	return cerr.As(err, &execErr)
}
