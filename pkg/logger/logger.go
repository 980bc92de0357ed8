// pkg/logger/logger.go

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogFile is where a run appends its log lines when nothing else is
// configured. It is relative to the working directory of the timer unit.
const DefaultLogFile = "./wifi-reconnect.log"

// TimeLayout matches "2024-05-01 12:00:00,123".
const TimeLayout = "2006-01-02 15:04:05,000"

// Options controls construction of the run logger.
type Options struct {
	// FilePath is opened append-only. Empty disables the file core.
	FilePath string
	// Level is one of debug, info, warn, error.
	Level string
	// Console receives the same lines as the file. Nil disables it.
	Console io.Writer
}

// New builds the single logger a run uses. Callers must invoke the returned
// closer before exit so buffered lines reach the file.
func New(opts Options) (*zap.Logger, func(), error) {
	level := ParseLogLevel(opts.Level)
	encoder := zapcore.NewConsoleEncoder(LineEncoderConfig())

	var cores []zapcore.Core
	var closers []func() error

	if opts.FilePath != "" {
		writer, closeFile, err := GetLogFileWriter(opts.FilePath)
		if err != nil {
			return nil, func() {}, err
		}
		closers = append(closers, closeFile)
		cores = append(cores, zapcore.NewCore(encoder, writer, level))
	}

	if opts.Console != nil {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.Lock(zapcore.AddSync(opts.Console)), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), func() {}, nil
	}

	log := zap.New(zapcore.NewTee(cores...))
	closer := func() {
		_ = log.Sync()
		for _, c := range closers {
			_ = c()
		}
	}
	return log, closer, nil
}

// NewFallbackLogger writes to stderr only. Used before configuration has been
// loaded, so that config errors are still reported in the same line format.
func NewFallbackLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(LineEncoderConfig()),
		zapcore.Lock(os.Stderr),
		ParseLogLevel(os.Getenv("LOG_LEVEL")),
	)
	return zap.New(core)
}

// LineEncoderConfig renders entries as "<timestamp> - <LEVEL> - <message>".
// Structured fields, when present, follow the message on the same line.
func LineEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "T",
		LevelKey:         "L",
		MessageKey:       "M",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeLevel:      levelNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

func levelNameEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.WarnLevel:
		enc.AppendString("WARNING")
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		enc.AppendString("CRITICAL")
	default:
		enc.AppendString(l.CapitalString())
	}
}

// ParseLogLevel maps a level name to a zap level, defaulting to info.
func ParseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE", "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ValidLevel reports whether name is a level ParseLogLevel understands.
func ValidLevel(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

// describe renders a path for error messages.
func describe(path string) string {
	return fmt.Sprintf("%q", path)
}
