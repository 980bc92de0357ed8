// pkg/execute/helpers.go

package execute

import (
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/shell"
)

// DefaultTimeout bounds an invocation when neither the options nor the runner
// set one.
const DefaultTimeout = 30 * time.Second

func defaultTimeout(ts ...time.Duration) time.Duration {
	for _, t := range ts {
		if t > 0 {
			return t
		}
	}
	return DefaultTimeout
}

func buildCommandString(command string, args ...string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

// SplitCommand splits a configured command line such as
// `nmcli -t -f TYPE,STATE device status` into the binary and its arguments,
// honouring shell quoting. Variables are not expanded.
func SplitCommand(line string) (string, []string, error) {
	fields, err := shell.Fields(line, func(string) string { return "" })
	if err != nil {
		return "", nil, cerr.Wrapf(err, "parse command line %q", line)
	}
	if len(fields) == 0 {
		return "", nil, cerr.New("empty command line")
	}
	return fields[0], fields[1:], nil
}
