// pkg/parse/station.go

package parse

import (
	"bufio"
	"strings"
)

// StationState extracts the value of the State row from `iwctl station
// <iface> show`. The first line containing the literal "State" is used and its
// second whitespace-delimited token is returned. ok is false when no such
// line exists or the line has a single token.
//
// iwctl prints a fixed-width table; the parse is positional, so a change of
// layout in iwctl shows up here first.
func StationState(output string) (state string, ok bool) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "State") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return "", false
		}
		return strings.TrimSpace(fields[1]), true
	}
	return "", false
}

// IsStationConnected reports whether the station State is "connected",
// compared case-insensitively.
func IsStationConnected(output string) bool {
	state, ok := StationState(output)
	return ok && strings.ToLower(state) == "connected"
}
