// pkg/logger/reader.go

package logger

import (
	"bufio"
	"os"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// ReadTail returns the last n lines of the log file at path. n <= 0 returns
// every line.
func ReadTail(path string, n int) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "read log file %s", path)
	}
	if fi.IsDir() {
		return nil, cerr.Newf("invalid log file path: %s is a directory", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "read log file %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, cerr.Wrapf(err, "read log file %s", path)
	}
	return lines, nil
}

// ColouredLine wraps a "<timestamp> - <LEVEL> - <message>" line in the ANSI
// colour for its level. Lines in any other shape are returned unchanged.
func ColouredLine(line string) string {
	parts := strings.SplitN(line, " - ", 3)
	if len(parts) < 3 {
		return line
	}

	var colour string
	switch parts[1] {
	case "DEBUG":
		colour = "\033[90m" // Gray
	case "INFO":
		colour = "\033[32m" // Green
	case "WARNING":
		colour = "\033[33m" // Yellow
	case "ERROR":
		colour = "\033[31m" // Red
	case "CRITICAL":
		colour = "\033[1;31m" // Bold Red
	default:
		return line
	}
	return colour + line + "\033[0m"
}
