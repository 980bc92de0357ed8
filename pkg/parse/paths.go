// pkg/parse/paths.go

package parse

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome resolves a leading "~" against the invoking user's home.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
