// pkg/logger/writer.go

package logger

import (
	"os"
	"path/filepath"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// GetLogFileWriter opens path for appending, creating the file and its parent
// directory when missing. Existing content is never truncated.
func GetLogFileWriter(path string) (zapcore.WriteSyncer, func() error, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, cerr.Wrapf(err, "create log directory for %s", describe(path))
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, cerr.Wrapf(err, "open log file %s", describe(path))
	}

	return zapcore.Lock(zapcore.AddSync(file)), file.Close, nil
}
