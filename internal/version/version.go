package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/textyre/bootstrap/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/textyre/bootstrap/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/textyre/bootstrap/internal/version.Date={{.Date}}
)

// String renders the version block printed by `displayctl version`
func String() string {
	return fmt.Sprintf("displayctl version %s\n  commit: %s\n  built:  %s\n", Version, Commit, Date)
}
