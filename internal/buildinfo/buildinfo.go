package buildinfo

import "time"

// Set via -ldflags at build time
var (
	BuildTime  string // when the binary was compiled
	CommitTime string // last git commit time (last code edit)
	CommitHash string // short git commit hash
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)

// Summary collects the build identifiers for status endpoints. Fields left
// empty by the build are omitted.
func Summary() map[string]string {
	out := map[string]string{
		"startTime": StartTime,
	}
	if BuildTime != "" {
		out["buildTime"] = BuildTime
	}
	if CommitTime != "" {
		out["commitTime"] = CommitTime
	}
	if CommitHash != "" {
		out["commitHash"] = CommitHash
	}
	return out
}
