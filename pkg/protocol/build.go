package protocol

import (
	"fmt"
	"strings"
)

// Build identifies one of the concurrently installable build variants of the
// desktop client. Each variant listens on its own set of local pipes, so a
// machine may expose several builds at once.
type Build string

const (
	// BuildAny is a preference-matching wildcard. It is never reported as a
	// discovered identity; discovery always resolves it to a concrete build.
	BuildAny Build = "any"
	// BuildStable is the production build.
	BuildStable Build = "stable"
	// BuildPTB is the public test build.
	BuildPTB Build = "ptb"
	// BuildCanary is the alpha build.
	BuildCanary Build = "canary"
)

// String returns the lower-case variant name.
func (b Build) String() string {
	return string(b)
}

// Concrete reports whether b names an actual build rather than the wildcard.
func (b Build) Concrete() bool {
	switch b {
	case BuildStable, BuildPTB, BuildCanary:
		return true
	}
	return false
}

// API endpoint strings announced in handshake replies, keyed by the build
// that announces them. These are exact values, not prefixes.
var buildEndpoints = map[string]Build{
	"//discordapp.com/api":        BuildStable,
	"//ptb.discordapp.com/api":    BuildPTB,
	"//canary.discordapp.com/api": BuildCanary,
}

// BuildFromEndpoint maps the api_endpoint value of a handshake reply to the
// build variant announcing it. ok is false when no known build uses the
// endpoint, which callers must treat as an invalid handshake reply.
func BuildFromEndpoint(endpoint string) (Build, bool) {
	b, ok := buildEndpoints[endpoint]
	return b, ok
}

// ParseBuild converts a user-supplied variant name into a Build. It accepts
// the wildcard "any" and is case-insensitive.
func ParseBuild(s string) (Build, error) {
	switch b := Build(strings.ToLower(strings.TrimSpace(s))); b {
	case BuildAny, BuildStable, BuildPTB, BuildCanary:
		return b, nil
	default:
		return "", fmt.Errorf("unknown build variant %q", s)
	}
}
