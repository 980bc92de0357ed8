// pkg/shared/vars.go

package shared

// Build information, set with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
)
