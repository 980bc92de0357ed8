// pkg/execute/redact.go

package execute

import "strings"

// RedactionMarker replaces sensitive values in anything netguard prints.
const RedactionMarker = "****"

// Redact replaces every literal occurrence of each non-empty secret in s.
func Redact(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, RedactionMarker)
	}
	return s
}
