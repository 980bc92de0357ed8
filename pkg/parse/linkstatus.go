// pkg/parse/linkstatus.go

package parse

import (
	"bufio"
	"strings"
	"unicode"
)

// HasActiveWiredLink scans line-oriented link status output (the shape of
// `nmcli device status`) for a line naming an ethernet-class link in the
// connected state. Both tokens are matched case-insensitively as substrings
// of the same line, except that "connected" must not be the tail of a longer
// word, so "disconnected" does not count.
//
//	DEVICE  TYPE      STATE         CONNECTION
//	eth0    ethernet  connected     Wired connection 1
func HasActiveWiredLink(output string) bool {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.ToLower(scanner.Text())
		if strings.Contains(line, "ethernet") && containsConnected(line) {
			return true
		}
	}
	return false
}

func containsConnected(line string) bool {
	const token = "connected"
	for offset := 0; ; {
		i := strings.Index(line[offset:], token)
		if i < 0 {
			return false
		}
		at := offset + i
		if at == 0 || !unicode.IsLetter(rune(line[at-1])) {
			return true
		}
		offset = at + len(token)
	}
}
