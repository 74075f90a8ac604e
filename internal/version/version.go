// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/doctags/internal/version.Version=v0.3.0"
package version

import "strings"

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the metadata for --version, omitting unknown parts.
func String() string {
	var extra []string
	if GitCommit != "" && GitCommit != "unknown" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		extra = append(extra, commit)
	}
	if BuildTime != "" && BuildTime != "unknown" {
		extra = append(extra, BuildTime)
	}
	if len(extra) == 0 {
		return Version
	}
	return Version + " (" + strings.Join(extra, ", ") + ")"
}
